// Package keyring keeps device secrets such as ADB pairing codes in the OS keyring.
package keyring

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/xabinapal/farmhand/internal/utils"
)

const (
	// ServicePrefix is the prefix of keyring service names: "Farmhand - <key>".
	ServicePrefix = "Farmhand"

	// TestKeyringEnvVar, when set to a directory, replaces the OS keyring with a
	// file-backed store. It exists for tests only.
	TestKeyringEnvVar = "FARMHAND_TEST_KEYRING_DIR"
)

func serviceName(key string) string {
	return ServicePrefix + " - " + key
}

var (
	// ErrKeyringUnavailable is returned when no secure keyring is available.
	ErrKeyringUnavailable = errors.New("secure keyring is not available on this system")
	// ErrSecretNotFound is returned when no secret is stored under a key.
	ErrSecretNotFound = errors.New("secret not found in keyring")
	// ErrKeyringAccessDenied is returned when access to the keyring is denied.
	ErrKeyringAccessDenied = errors.New("access to keyring denied")
	// ErrEmptyKey is returned for an empty key.
	ErrEmptyKey = errors.New("key cannot be empty")
)

// Store is a secret storage backend.
type Store interface {
	// Set stores a secret under key.
	Set(key, secret string) error
	// Get returns the secret stored under key, or ErrSecretNotFound.
	Get(key string) (string, error)
	// Delete removes the secret stored under key. Missing keys are not an error.
	Delete(key string) error
	// IsAvailable checks if the backend can be used.
	IsAvailable() error
}

// DefaultStore returns the OS keyring, or a file store under FARMHAND_TEST_KEYRING_DIR.
func DefaultStore() Store {
	if testDir := os.Getenv(TestKeyringEnvVar); testDir != "" {
		if fileStore, err := NewFileStore(testDir); err == nil {
			return fileStore
		}
	}
	return &osKeyring{}
}

// osKeyring implements Store using the OS keyring.
type osKeyring struct{}

// unavailableHints maps platforms to error fragments that mean no keyring service runs.
var unavailableHints = map[string]struct {
	fragments []string
	message   string
}{
	"linux": {
		fragments: []string{"secret service", "dbus", "org.freedesktop.secrets"},
		message:   "D-Bus secret service not available - install and start gnome-keyring, kwallet, or another secret service provider",
	},
	"darwin": {
		fragments: []string{"keychain", "security"},
		message:   "macOS Keychain not accessible",
	},
	"windows": {
		fragments: []string{"credential", "wincred"},
		message:   "Windows Credential Manager not accessible",
	},
}

// IsAvailable probes the keyring with a lookup that is expected to miss.
func (k *osKeyring) IsAvailable() error {
	_, err := gokeyring.Get(serviceName("__availability_check__"), "probe")
	if err == nil || errors.Is(err, gokeyring.ErrNotFound) {
		return nil
	}

	if hint, ok := unavailableHints[runtime.GOOS]; ok && utils.ContainsAny(err.Error(), hint.fragments...) {
		return fmt.Errorf("%w: %s", ErrKeyringUnavailable, hint.message)
	}

	// Other probe errors surface again with better context on the real operation.
	return nil
}

// Set implements Store.
func (k *osKeyring) Set(key, secret string) error {
	if err := k.IsAvailable(); err != nil {
		return err
	}
	if key == "" {
		return ErrEmptyKey
	}
	if secret == "" {
		return errors.New("secret cannot be empty")
	}

	if err := gokeyring.Set(serviceName(key), key, secret); err != nil {
		return wrapKeyringError(err, "failed to store secret")
	}
	return nil
}

// Get implements Store.
func (k *osKeyring) Get(key string) (string, error) {
	if err := k.IsAvailable(); err != nil {
		return "", err
	}
	if key == "" {
		return "", ErrEmptyKey
	}

	secret, err := gokeyring.Get(serviceName(key), key)
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return "", ErrSecretNotFound
		}
		return "", wrapKeyringError(err, "failed to retrieve secret")
	}
	return secret, nil
}

// Delete implements Store.
func (k *osKeyring) Delete(key string) error {
	if err := k.IsAvailable(); err != nil {
		return err
	}
	if key == "" {
		return ErrEmptyKey
	}

	if err := gokeyring.Delete(serviceName(key), key); err != nil && !errors.Is(err, gokeyring.ErrNotFound) {
		return wrapKeyringError(err, "failed to delete secret")
	}
	return nil
}

// wrapKeyringError classifies a keyring error.
func wrapKeyringError(err error, context string) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()
	if utils.ContainsAny(errStr, "denied", "permission", "not allowed", "unauthorized") {
		return fmt.Errorf("%w: %s: %v", ErrKeyringAccessDenied, context, err)
	}
	if utils.ContainsAny(errStr, "not found", "no keyring", "unavailable", "secret service") {
		return fmt.Errorf("%w: %s: %v", ErrKeyringUnavailable, context, err)
	}
	return fmt.Errorf("%s: %w", context, err)
}
