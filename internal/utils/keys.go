package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// SanitizeKey makes a secret key safe for use as a file name.
// Keys that look like paths are hashed instead of rewritten.
func SanitizeKey(key string) string {
	if strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) ||
		strings.Contains(key, string(filepath.Separator)) {
		h := sha256.Sum256([]byte(key))
		return hex.EncodeToString(h[:])
	}

	// '.' is replaced too, so a key never becomes a hidden file.
	out := []byte(key)
	for i, c := range out {
		if !isNameRune(rune(c)) {
			out[i] = '_'
		}
	}
	return string(out)
}

// ContainsAny reports whether s contains any of the substrings, ignoring case.
func ContainsAny(s string, substrings ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrings {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
