package profilestore

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/xabinapal/farmhand/internal/profile"
)

// DefaultCacheSize is the number of decoded profiles kept by CachedStore.
const DefaultCacheSize = 32

// CachedStore keeps recently loaded profiles decoded in memory.
// Writes through this store update the cache; changes made behind its back
// must be reported with Invalidate.
type CachedStore struct {
	inner profile.Store
	cache *lru.Cache[string, *profile.Profile]
}

// NewCachedStore wraps inner with an LRU cache of the given size.
func NewCachedStore(inner profile.Store, size int) (*CachedStore, error) {
	if inner == nil {
		return nil, errors.New("inner store is required")
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *profile.Profile](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile cache: %w", err)
	}
	return &CachedStore{inner: inner, cache: cache}, nil
}

// Invalidate drops a cached profile.
func (c *CachedStore) Invalidate(name string) {
	c.cache.Remove(name)
}

// Purge drops every cached profile.
func (c *CachedStore) Purge() {
	c.cache.Purge()
}

// Len returns the number of cached profiles.
func (c *CachedStore) Len() int {
	return c.cache.Len()
}

// List implements profile.Store.
func (c *CachedStore) List(ctx context.Context) ([]string, error) {
	return c.inner.List(ctx)
}

// Get implements profile.Store.
func (c *CachedStore) Get(ctx context.Context, name string) (*profile.Profile, error) {
	if p, ok := c.cache.Get(name); ok {
		return p.Clone(), nil
	}

	p, err := c.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	c.cache.Add(name, p.Clone())
	return p, nil
}

// Create implements profile.Store.
func (c *CachedStore) Create(ctx context.Context, name string, p *profile.Profile) error {
	if err := c.inner.Create(ctx, name, p); err != nil {
		return err
	}
	c.cache.Add(name, p.Clone())
	return nil
}

// Put implements profile.Store.
func (c *CachedStore) Put(ctx context.Context, name string, p *profile.Profile) error {
	if err := c.inner.Put(ctx, name, p); err != nil {
		c.cache.Remove(name)
		return err
	}
	c.cache.Add(name, p.Clone())
	return nil
}

// Delete implements profile.Store.
func (c *CachedStore) Delete(ctx context.Context, name string) error {
	c.cache.Remove(name)
	return c.inner.Delete(ctx, name)
}
