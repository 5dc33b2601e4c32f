package keyring

import "sync"

// MockStore is an in-memory Store for tests.
type MockStore struct {
	mu      sync.RWMutex
	data    map[string]string
	failing bool
}

// NewMockStore creates an empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string]string)}
}

// SetFailing makes all operations fail with ErrKeyringUnavailable.
func (m *MockStore) SetFailing(failing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = failing
}

// IsAvailable implements Store.
func (m *MockStore) IsAvailable() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failing {
		return ErrKeyringUnavailable
	}
	return nil
}

// Set implements Store.
func (m *MockStore) Set(key, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return ErrKeyringUnavailable
	}
	if key == "" {
		return ErrEmptyKey
	}
	m.data[key] = secret
	return nil
}

// Get implements Store.
func (m *MockStore) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failing {
		return "", ErrKeyringUnavailable
	}
	secret, ok := m.data[key]
	if !ok {
		return "", ErrSecretNotFound
	}
	return secret, nil
}

// Delete implements Store.
func (m *MockStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return ErrKeyringUnavailable
	}
	delete(m.data, key)
	return nil
}

// Count returns the number of stored secrets.
func (m *MockStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
