// Package profilestore provides persistence backends for bot configuration profiles.
package profilestore

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xabinapal/farmhand/internal/profile"
	"github.com/xabinapal/farmhand/internal/utils"
)

// Backend names accepted in the application config.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// ErrUnknownBackend indicates an unsupported store backend name.
var ErrUnknownBackend = errors.New("unknown profile store backend")

// Encode serialises a profile document.
func Encode(p *profile.Profile) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a profile document. Sections missing from the document keep
// their default values. A document that cannot be parsed reports ErrNotFound,
// since it cannot describe a usable profile.
func Decode(name string, data []byte) (*profile.Profile, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %q: empty document", profile.ErrNotFound, name)
	}

	p := profile.Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("%w: %q: failed to parse profile: %v", profile.ErrNotFound, name, err)
	}
	if len(p.FieldZone.Polygon) == 0 {
		p.FieldZone.Polygon = nil
	}
	if p.TemplateThresholds.Templates == nil {
		p.TemplateThresholds.Templates = map[string]float64{}
	}
	return p, nil
}

// checkName rejects names that are unsafe as file names or keys.
func checkName(name string) error {
	if !utils.IsValidProfileName(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", profile.ErrInvalidName, name)
	}
	return nil
}
