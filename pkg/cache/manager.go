package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultTTL is the fallback TTL when neither the caller nor the
// configuration provides one.
const DefaultTTL = 60 * time.Second

// Supplier produces the value for a key on a cache miss, typically by
// querying the source of truth. A failing supplier's error propagates
// to the caller and nothing is cached.
type Supplier func(ctx context.Context) ([]byte, error)

// Config holds manager configuration.
type Config struct {
	// DefaultTTL applies when an operation is called with ttl <= 0.
	DefaultTTL time.Duration

	// FailOpen controls read behavior when the store is unreachable:
	// true bypasses the cache and calls the supplier directly, false
	// surfaces the store error to the caller.
	FailOpen bool
}

// DefaultConfig returns a fail-closed configuration with DefaultTTL.
func DefaultConfig() Config {
	return Config{
		DefaultTTL: DefaultTTL,
		FailOpen:   false,
	}
}

// Manager coordinates cache-aside reads and grouped invalidation over a
// Store. It owns no persistent state itself and performs no cross-call
// mutual exclusion: concurrent misses on the same key may each invoke
// the supplier, and the last completed write wins.
type Manager struct {
	store  Store
	config Config
	logger zerolog.Logger
}

// NewManager creates a cache manager over the given store.
func NewManager(store Store, cfg Config) *Manager {
	if store == nil {
		panic("cache store cannot be nil")
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = DefaultTTL
	}
	return &Manager{
		store:  store,
		config: cfg,
		logger: log.With().Str("component", "cache-manager").Logger(),
	}
}

// Get retrieves the raw value stored under key.
// Returns ErrCacheMiss if the key is absent.
func (m *Manager) Get(ctx context.Context, key string) ([]byte, error) {
	return m.store.Get(ctx, key)
}

// Set stores value under key with the given TTL (or the configured
// default when ttl <= 0).
func (m *Manager) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.store.Set(ctx, key, value, m.effectiveTTL(ttl))
}

// GetOrSet returns the value cached under key. On a miss it invokes
// supply and, only on success, stores the result with the given TTL (or
// the configured default when ttl <= 0) before returning it. On a hit
// the stored value is returned unchanged and supply is not invoked.
func (m *Manager) GetOrSet(ctx context.Context, key string, ttl time.Duration, supply Supplier) ([]byte, error) {
	data, err := m.store.Get(ctx, key)
	if err == nil {
		CacheHits.WithLabelValues("service").Inc()
		return data, nil
	}
	if err != ErrCacheMiss {
		if !m.config.FailOpen {
			return nil, fmt.Errorf("cache get: %w", err)
		}
		m.logger.Warn().Err(err).Str("key", key).Msg("Cache unavailable, calling supplier directly")
		return supply(ctx)
	}

	CacheMisses.WithLabelValues("service").Inc()

	value, err := supply(ctx)
	if err != nil {
		return nil, err
	}

	if err := m.store.Set(ctx, key, value, m.effectiveTTL(ttl)); err != nil {
		// The value is already computed; a failed write-back degrades
		// to an uncached read.
		m.logger.Warn().Err(err).Str("key", key).Msg("Failed to cache value")
	}

	return value, nil
}

// Delete removes key from the store. Deleting an absent key succeeds.
func (m *Manager) Delete(ctx context.Context, key string) error {
	if err := m.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// RememberList behaves like GetOrSet for the payload and additionally
// registers key under indexKey, so a later InvalidateIndex reaches it.
// Registration happens on hits as well as misses: membership stays
// current even when the value was populated by an earlier call.
func (m *Manager) RememberList(ctx context.Context, indexKey, key string, ttl time.Duration, supply Supplier) ([]byte, error) {
	if err := m.TrackKey(ctx, indexKey, key); err != nil {
		if !m.config.FailOpen {
			return nil, err
		}
		m.logger.Warn().Err(err).Str("index", indexKey).Str("key", key).Msg("Index registration failed")
	}
	return m.GetOrSet(ctx, key, ttl, supply)
}

// TrackKey adds key to indexKey's member set without touching the value
// cached under key. Used to mirror an HTTP-layer response key into the
// same invalidation group as its service-layer counterpart.
func (m *Manager) TrackKey(ctx context.Context, indexKey, key string) error {
	entry := &IndexEntry{}

	data, err := m.store.Get(ctx, indexKey)
	switch {
	case err == nil:
		decoded, derr := decodeIndex(data)
		if derr != nil {
			// A corrupted index must not block registrations forever;
			// start a fresh member set.
			m.logger.Warn().Err(derr).Str("index", indexKey).Msg("Resetting unreadable index entry")
		} else {
			entry = decoded
		}
	case err == ErrCacheMiss:
		// First registration creates the index.
	default:
		return fmt.Errorf("index get: %w", err)
	}

	if !entry.Add(key) {
		return nil
	}

	encoded, err := entry.encode()
	if err != nil {
		return err
	}

	// Indices carry no TTL; they live until invalidated.
	if err := m.store.Set(ctx, indexKey, encoded, 0); err != nil {
		return fmt.Errorf("index set: %w", err)
	}

	TrackedKeys.Inc()
	m.logger.Debug().Str("index", indexKey).Str("key", key).Int("members", len(entry.Members)).Msg("Key tracked")
	return nil
}

// InvalidateIndex deletes every key registered under indexKey, then the
// index itself. An absent or empty index is a no-op, not an error.
// Member deletions are attempted independently: one failure does not
// stop the others, and the first failure is surfaced after the fan-out
// completes. The membership acted on is the one observed when the call
// starts; registrations racing past it may resurrect the index.
func (m *Manager) InvalidateIndex(ctx context.Context, indexKey string) error {
	data, err := m.store.Get(ctx, indexKey)
	if err == ErrCacheMiss {
		return nil
	}
	if err != nil {
		return fmt.Errorf("index get: %w", err)
	}

	entry, err := decodeIndex(data)
	if err != nil {
		// An unreadable index still gets removed.
		m.logger.Warn().Err(err).Str("index", indexKey).Msg("Dropping unreadable index entry")
		return m.Delete(ctx, indexKey)
	}

	var g errgroup.Group
	for _, member := range entry.Members {
		g.Go(func() error {
			if err := m.store.Delete(ctx, member); err != nil {
				m.logger.Warn().Err(err).Str("index", indexKey).Str("key", member).Msg("Member delete failed")
				return fmt.Errorf("delete member %s: %w", member, err)
			}
			return nil
		})
	}
	fanOutErr := g.Wait()

	if err := m.store.Delete(ctx, indexKey); err != nil {
		return fmt.Errorf("index delete: %w", err)
	}

	IndexInvalidations.Inc()
	m.logger.Debug().Str("index", indexKey).Int("members", len(entry.Members)).Msg("Index invalidated")
	return fanOutErr
}

// effectiveTTL resolves an optional TTL to a concrete duration.
func (m *Manager) effectiveTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return m.config.DefaultTTL
	}
	return ttl
}
