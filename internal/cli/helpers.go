package cli

import (
	"sort"
	"time"

	"github.com/xabinapal/farmhand/internal/profile"
)

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedTemplates(p *profile.Profile) []string {
	return sortedKeys(p.TemplateThresholds.Templates)
}

func msDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
