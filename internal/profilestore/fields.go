package profilestore

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xabinapal/farmhand/internal/profile"
)

// ErrUnknownKey indicates a dotted key that names no profile setting.
var ErrUnknownKey = errors.New("unknown profile setting")

// optionalKeys are settings omitted from documents while unset.
var optionalKeys = []string{"farming_timing.wheat_growth_time"}

// SetValue returns a copy of p with the setting at the dotted key replaced by
// raw, parsed as a YAML value. Keys follow the document layout, e.g.
// "market_timing.escape_wait" or "price_settings.price_option".
// A raw value of "null" clears optional settings.
func SetValue(p *profile.Profile, key, raw string) (*profile.Profile, error) {
	doc, err := toDocument(p)
	if err != nil {
		return nil, err
	}

	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return nil, fmt.Errorf("invalid value for %s: %w", key, err)
	}

	parts := strings.Split(key, ".")
	node := doc
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		node = child
	}

	leaf := parts[len(parts)-1]
	current, exists := node[leaf]
	if !exists && !isOptionalKey(key) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if _, section := current.(map[string]any); section {
		return nil, fmt.Errorf("%s is a section, set one of its keys instead", key)
	}
	node[leaf] = value

	return fromDocument(doc, key)
}

// Keys lists every scalar setting of a profile document as a dotted key.
func Keys() []string {
	doc, err := toDocument(profile.Default())
	if err != nil {
		return nil
	}

	keys := append([]string(nil), optionalKeys...)
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			path := k
			if prefix != "" {
				path = prefix + "." + k
			}
			if child, ok := v.(map[string]any); ok && path != "template_thresholds.templates" {
				walk(path, child)
				continue
			}
			keys = append(keys, path)
		}
	}
	walk("", doc)
	sort.Strings(keys)
	return keys
}

func isOptionalKey(key string) bool {
	for _, k := range optionalKeys {
		if k == key {
			return true
		}
	}
	return false
}

func toDocument(p *profile.Profile) (map[string]any, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to read profile document: %w", err)
	}
	return doc, nil
}

func fromDocument(doc map[string]any, key string) (*profile.Profile, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	out := &profile.Profile{}
	if err := dec.Decode(out); err != nil {
		return nil, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if len(out.FieldZone.Polygon) == 0 {
		out.FieldZone.Polygon = nil
	}
	if out.TemplateThresholds.Templates == nil {
		out.TemplateThresholds.Templates = map[string]float64{}
	}
	return out, nil
}
