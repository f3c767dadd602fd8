package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore implements Store in process memory. It serves tests and
// single-instance deployments where Redis is not available; entries do
// not survive a restart and are not shared across processes.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates an in-memory store. Entries written with
// ttl <= 0 never expire; expired entries are swept every
// cleanupInterval.
func NewMemoryStore(defaultTTL, cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves the value stored under key.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	if val, found := s.cache.Get(key); found {
		return val.([]byte), nil
	}
	return nil, ErrCacheMiss
}

// Set stores value under key with the given TTL.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	s.cache.Set(key, value, ttl)
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

var _ Store = (*MemoryStore)(nil)
