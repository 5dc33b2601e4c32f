// Package utils holds small string helpers shared across packages.
package utils

import (
	"path/filepath"
	"strings"
)

// MaxProfileNameLength bounds profile names so they stay usable as file names.
const MaxProfileNameLength = 128

// IsValidProfileName checks that a profile name only holds characters that are
// safe in file names, Redis keys and log lines.
func IsValidProfileName(name string) bool {
	if name == "" || len(name) > MaxProfileNameLength {
		return false
	}
	for _, r := range name {
		if !isNameRune(r) && r != '.' {
			return false
		}
	}
	return true
}

func isNameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || r == '-' || r == '_'
}

// ProfileNameFromFile derives a profile name from an export file path,
// e.g. "/tmp/My Farm (2).yaml" becomes "My-Farm-2".
func ProfileNameFromFile(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	dash := false
	for _, r := range base {
		if isNameRune(r) && r != '-' {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	name := strings.TrimRight(b.String(), "-")
	if len(name) > MaxProfileNameLength {
		name = strings.TrimRight(name[:MaxProfileNameLength], "-")
	}
	return name
}
