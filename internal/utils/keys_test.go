package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
)

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple", input: "emulator-5554", expected: "emulator-5554"},
		{name: "address", input: "192.168.1.20:5555", expected: "192_168_1_20_5555"},
		{name: "spaces", input: "my device", expected: "my_device"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeKey(tt.input); got != tt.expected {
				t.Errorf("SanitizeKey(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeKeyHashesPaths(t *testing.T) {
	for _, key := range []string{"../etc/passwd", `..\windows`, "a/b", `a\b`, "../../.."} {
		t.Run(key, func(t *testing.T) {
			got := SanitizeKey(key)
			sum := sha256.Sum256([]byte(key))
			if want := hex.EncodeToString(sum[:]); got != want {
				t.Errorf("SanitizeKey(%q) = %q, want hash %q", key, got, want)
			}
			if strings.ContainsAny(got, `./\`) {
				t.Errorf("SanitizeKey(%q) = %q still contains path characters", key, got)
			}
		})
	}
}

func TestContainsAny(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		subs     []string
		expected bool
	}{
		{name: "first matches", s: "secret service unavailable", subs: []string{"secret service", "dbus"}, expected: true},
		{name: "second matches", s: "no dbus session", subs: []string{"keychain", "dbus"}, expected: true},
		{name: "case insensitive", s: "Access Denied", subs: []string{"access denied"}, expected: true},
		{name: "no match", s: "timeout", subs: []string{"denied", "locked"}, expected: false},
		{name: "no substrings", s: "anything", subs: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsAny(tt.s, tt.subs...); got != tt.expected {
				t.Errorf("ContainsAny(%q, %v) = %v, want %v", tt.s, tt.subs, got, tt.expected)
			}
		})
	}
}
