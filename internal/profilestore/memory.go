package profilestore

import (
	"context"
	"fmt"
	"sync"

	"github.com/xabinapal/farmhand/internal/profile"
)

// MemoryStore is an in-memory profile store for tests and dry runs.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string]*profile.Profile
	failing  bool
	putCount int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]*profile.Profile),
	}
}

// SetFailing makes all operations fail with ErrPersistence.
func (m *MemoryStore) SetFailing(failing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = failing
}

func (m *MemoryStore) failure(op string) error {
	return fmt.Errorf("%w: %s: memory store failing", profile.ErrPersistence, op)
}

// List implements profile.Store.
func (m *MemoryStore) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failing {
		return nil, m.failure("list")
	}

	names := make([]string, 0, len(m.data))
	for name := range m.data {
		names = append(names, name)
	}
	return names, nil
}

// Get implements profile.Store.
func (m *MemoryStore) Get(_ context.Context, name string) (*profile.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failing {
		return nil, m.failure("get")
	}

	p, ok := m.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", profile.ErrNotFound, name)
	}
	return p.Clone(), nil
}

// Create implements profile.Store.
func (m *MemoryStore) Create(_ context.Context, name string, p *profile.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failing {
		return m.failure("create")
	}
	if _, ok := m.data[name]; ok {
		return fmt.Errorf("%w: %q", profile.ErrDuplicateName, name)
	}

	m.data[name] = p.Clone()
	m.putCount++
	return nil
}

// Put implements profile.Store.
func (m *MemoryStore) Put(_ context.Context, name string, p *profile.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failing {
		return m.failure("put")
	}

	m.data[name] = p.Clone()
	m.putCount++
	return nil
}

// Delete implements profile.Store.
func (m *MemoryStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failing {
		return m.failure("delete")
	}
	if _, ok := m.data[name]; !ok {
		return fmt.Errorf("%w: %q", profile.ErrNotFound, name)
	}

	delete(m.data, name)
	return nil
}

// Count returns the number of stored profiles.
func (m *MemoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Writes returns how many successful Create and Put calls were made.
func (m *MemoryStore) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.putCount
}
