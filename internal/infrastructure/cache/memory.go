package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is a process-local Cache on top of go-cache
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates a cache whose entries default to ttl
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(ttl, time.Minute)}
}

// Get implements Cache
func (m *MemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, found := m.store.Get(key)
	if !found {
		return false, nil
	}
	if err := decode(raw.([]byte), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set implements Cache
func (m *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.store.Set(key, data, ttl)
	return nil
}

// DeletePrefix implements Cache
func (m *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	for key := range m.store.Items() {
		if strings.HasPrefix(key, prefix) {
			m.store.Delete(key)
		}
	}
	return nil
}

var _ Cache = (*MemoryCache)(nil)
