package profilestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xabinapal/farmhand/internal/profile"
)

// FileExt is the extension of profile documents.
const FileExt = ".yaml"

// FileStore keeps one YAML document per profile in a directory.
// Writes go to a temporary file first, so a profile is either fully replaced
// or left as it was.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("directory path is required")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("%w: failed to create profile directory: %v", profile.ErrPersistence, err)
	}

	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding the profile documents.
func (f *FileStore) Dir() string {
	return f.dir
}

// Path returns the document path of a profile.
func (f *FileStore) Path(name string) string {
	return filepath.Join(f.dir, name+FileExt)
}

// NameFromPath returns the profile name of a document path, or false when the
// path is not a profile document.
func NameFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, FileExt) || strings.HasPrefix(base, ".") {
		return "", false
	}
	name := strings.TrimSuffix(base, FileExt)
	if checkName(name) != nil {
		return "", false
	}
	return name, true
}

// IsAvailable checks that the directory is accessible.
func (f *FileStore) IsAvailable() error {
	info, err := os.Stat(f.dir)
	if err != nil {
		return fmt.Errorf("%w: directory not accessible: %v", profile.ErrPersistence, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", profile.ErrPersistence, f.dir)
	}
	return nil
}

// List implements profile.Store.
func (f *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read profile directory: %v", profile.ErrPersistence, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if name, ok := NameFromPath(entry.Name()); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// Get implements profile.Store.
func (f *FileStore) Get(_ context.Context, name string) (*profile.Profile, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	// #nosec G304 - path is built from a validated profile name inside the store directory
	data, err := os.ReadFile(f.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", profile.ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: failed to read profile %q: %v", profile.ErrPersistence, name, err)
	}

	return Decode(name, data)
}

// Create implements profile.Store.
func (f *FileStore) Create(_ context.Context, name string, p *profile.Profile) error {
	if err := checkName(name); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.write(name, p, func(tmp, dst string) error {
		// Link fails when dst exists, which makes the create exclusive.
		if err := os.Link(tmp, dst); err != nil {
			if os.IsExist(err) {
				return fmt.Errorf("%w: %q", profile.ErrDuplicateName, name)
			}
			return err
		}
		return nil
	})
}

// Put implements profile.Store.
func (f *FileStore) Put(_ context.Context, name string, p *profile.Profile) error {
	if err := checkName(name); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.write(name, p, os.Rename)
}

// write encodes p into a temporary file and publishes it with publish.
func (f *FileStore) write(name string, p *profile.Profile, publish func(tmp, dst string) error) error {
	data, err := Encode(p)
	if err != nil {
		return fmt.Errorf("%w: %v", profile.ErrPersistence, err)
	}

	tmp, err := os.CreateTemp(f.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temporary file: %v", profile.ErrPersistence, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		// After a rename this is a no-op; after a link it drops the extra name.
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: failed to write profile %q: %v", profile.ErrPersistence, name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: failed to sync profile %q: %v", profile.ErrPersistence, name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close profile %q: %v", profile.ErrPersistence, name, err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return fmt.Errorf("%w: failed to set permissions on profile %q: %v", profile.ErrPersistence, name, err)
	}

	if err := publish(tmpPath, f.Path(name)); err != nil {
		if errors.Is(err, profile.ErrDuplicateName) {
			return err
		}
		return fmt.Errorf("%w: failed to store profile %q: %v", profile.ErrPersistence, name, err)
	}
	return nil
}

// Delete implements profile.Store.
func (f *FileStore) Delete(_ context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.Path(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %q", profile.ErrNotFound, name)
		}
		return fmt.Errorf("%w: failed to delete profile %q: %v", profile.ErrPersistence, name, err)
	}
	return nil
}
