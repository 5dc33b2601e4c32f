package keyring

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}

	if err := store.IsAvailable(); err != nil {
		t.Errorf("IsAvailable() should not error: %v", err)
	}

	if err := store.Set("emulator-5554", "482913"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	code, err := store.Get("emulator-5554")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if code != "482913" {
		t.Errorf("Get() = %s, want 482913", code)
	}

	// Overwrite.
	if err := store.Set("emulator-5554", "111111"); err != nil {
		t.Fatalf("Set() overwrite failed: %v", err)
	}
	if code, _ := store.Get("emulator-5554"); code != "111111" {
		t.Errorf("Get() after overwrite = %s, want 111111", code)
	}

	if _, err := store.Get("missing"); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("Get(missing) should return ErrSecretNotFound, got %v", err)
	}

	if err := store.Delete("emulator-5554"); err != nil {
		t.Errorf("Delete() failed: %v", err)
	}
	if _, err := store.Get("emulator-5554"); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("Get() after Delete() should return ErrSecretNotFound, got %v", err)
	}
	if err := store.Delete("missing"); err != nil {
		t.Errorf("Delete(missing) should not error: %v", err)
	}
}

func TestFileStoreEmptyDir(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("NewFileStore('') should fail")
	}
}

func TestFileStoreEmptyKey(t *testing.T) {
	store, _ := NewFileStore(t.TempDir())

	if err := store.Set("", "code"); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("Set('') should return ErrEmptyKey, got %v", err)
	}
	if _, err := store.Get(""); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("Get('') should return ErrEmptyKey, got %v", err)
	}
}

func TestFileStorePersistence(t *testing.T) {
	tmpDir := t.TempDir()

	first, _ := NewFileStore(tmpDir)
	if err := first.Set("192.168.1.20:5555", "code"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	second, _ := NewFileStore(tmpDir)
	code, err := second.Get("192.168.1.20:5555")
	if err != nil {
		t.Fatalf("Get() from second store failed: %v", err)
	}
	if code != "code" {
		t.Errorf("secret not persisted: got %s", code)
	}
}

func TestFileStoreIsAvailableNotDir(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(filePath, []byte("not a dir"), 0600); err != nil {
		t.Fatal(err)
	}

	store := &FileStore{dir: filePath}
	if err := store.IsAvailable(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("IsAvailable() = %v, want ErrKeyringUnavailable", err)
	}
}

func TestKeyPathSecurity(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewFileStore(tmpDir)
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}

	for _, key := range []string{"../etc/passwd", "../../..", "foo/../../../etc/passwd"} {
		if err := store.Set(key, "value"); err != nil {
			t.Errorf("Set(%q) failed: %v", key, err)
		}

		files, _ := filepath.Glob(filepath.Join(tmpDir, "*"))
		absDir, _ := filepath.Abs(tmpDir)
		for _, f := range files {
			absFile, _ := filepath.Abs(f)
			if !strings.HasPrefix(absFile, absDir) {
				t.Errorf("file %q escaped from directory %q", absFile, absDir)
			}
		}

		if val, err := store.Get(key); err != nil || val != "value" {
			t.Errorf("Get(%q) = %q, %v", key, val, err)
		}
	}
}

func TestDefaultStoreWithTestEnv(t *testing.T) {
	t.Setenv(TestKeyringEnvVar, t.TempDir())

	store := DefaultStore()
	if _, ok := store.(*FileStore); !ok {
		t.Fatalf("DefaultStore() should return FileStore when %s is set, got %T", TestKeyringEnvVar, store)
	}
	if err := store.Set("serial", "value"); err != nil {
		t.Errorf("Set() failed: %v", err)
	}
	if val, err := store.Get("serial"); err != nil || val != "value" {
		t.Errorf("Get() = %q, %v", val, err)
	}
}

func TestMockStore(t *testing.T) {
	store := NewMockStore()
	if err := store.Set("serial", "code"); err != nil {
		t.Fatal(err)
	}
	if store.Count() != 1 {
		t.Errorf("Count() = %d, want 1", store.Count())
	}

	store.SetFailing(true)
	if _, err := store.Get("serial"); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("Get() while failing = %v", err)
	}
	if err := store.IsAvailable(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("IsAvailable() while failing = %v", err)
	}
}

func TestWrapKeyringError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType error
	}{
		{name: "nil error"},
		{name: "denied error", err: errors.New("permission denied"), wantType: ErrKeyringAccessDenied},
		{name: "unavailable error", err: errors.New("secret service not found"), wantType: ErrKeyringUnavailable},
		{name: "generic error", err: errors.New("some other error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := wrapKeyringError(tt.err, "test")
			if tt.err == nil {
				if result != nil {
					t.Error("wrapKeyringError(nil) should return nil")
				}
				return
			}
			if tt.wantType != nil && !errors.Is(result, tt.wantType) {
				t.Errorf("wrapKeyringError() should wrap with %v, got %v", tt.wantType, result)
			}
			if !errors.Is(result, tt.err) && tt.wantType == nil {
				t.Errorf("wrapKeyringError() should keep the cause, got %v", result)
			}
		})
	}
}
