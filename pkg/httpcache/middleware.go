package httpcache

import (
	"bytes"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/talentwire/jobcache/pkg/cache"
)

// UserIDFunc extracts the authenticated user ID from a request. An
// empty return caches the response without a user scope.
type UserIDFunc func(*http.Request) string

// IndexKeyFunc names the invalidation group a request's cached response
// belongs to. An empty return caches the response without index
// tracking.
type IndexKeyFunc func(*http.Request) string

// HeaderUserID returns a UserIDFunc reading the user ID from header h.
// The routing layer in front of this middleware is expected to have
// authenticated the request already.
func HeaderUserID(h string) UserIDFunc {
	return func(r *http.Request) string {
		return r.Header.Get(h)
	}
}

// Middleware caches successful GET responses through a cache.Manager.
// When an IndexKeyFunc is configured, each response key is registered
// into that invalidation group, so the service-level
// InvalidateIndex call that clears a cached list also clears its
// rendered HTTP twin.
type Middleware struct {
	manager  *cache.Manager
	ttl      time.Duration
	userID   UserIDFunc
	indexFor IndexKeyFunc
	logger   zerolog.Logger
}

// NewMiddleware creates a response-caching middleware. A ttl <= 0 uses
// the manager's default; a nil userID falls back to the X-User-ID
// header; a nil indexFor disables index tracking.
func NewMiddleware(manager *cache.Manager, ttl time.Duration, userID UserIDFunc, indexFor IndexKeyFunc) *Middleware {
	if manager == nil {
		panic("cache manager cannot be nil")
	}
	if userID == nil {
		userID = HeaderUserID("X-User-ID")
	}
	return &Middleware{
		manager:  manager,
		ttl:      ttl,
		userID:   userID,
		indexFor: indexFor,
		logger:   log.With().Str("component", "httpcache").Logger(),
	}
}

// KeyFor returns the cache key the middleware uses for the request.
// Mutation handlers delete this key, both with the request's query and
// without it, when the underlying data changes.
func (m *Middleware) KeyFor(r *http.Request) string {
	return cache.RequestKey(m.userID(r), r.URL.Path, r.URL.Query())
}

// BaseKeyFor returns the request's cache key without query parameters:
// the key a client hits when requesting the default, unparameterized
// listing. Mutations delete it explicitly because it may predate index
// tracking.
func (m *Middleware) BaseKeyFor(userID, path string) string {
	return cache.RequestKey(userID, path, nil)
}

// Handler wraps next with response caching for GET requests. The cache
// is fail-open at this layer: when the store is unreachable the request
// falls through to the handler.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		key := m.KeyFor(r)

		// Register the response key into the same invalidation group as
		// its service-level counterpart, on hits as well as misses.
		if m.indexFor != nil {
			if indexKey := m.indexFor(r); indexKey != "" {
				if err := m.manager.TrackKey(ctx, indexKey, key); err != nil {
					m.logger.Warn().Err(err).Str("index", indexKey).Str("key", key).Msg("Response key registration failed")
				}
			}
		}

		data, err := m.manager.Get(ctx, key)
		switch {
		case err == nil:
			entry, derr := decodeEntry(data)
			if derr == nil {
				cache.CacheHits.WithLabelValues("http").Inc()
				m.logger.Debug().Str("key", key).Msg("Serving cached response")
				if werr := entry.WriteTo(w); werr != nil {
					m.logger.Warn().Err(werr).Str("key", key).Msg("Failed to write cached response")
				}
				return
			}
			m.logger.Warn().Err(derr).Str("key", key).Msg("Dropping unreadable response entry")
			_ = m.manager.Delete(ctx, key)
		case err != cache.ErrCacheMiss:
			m.logger.Warn().Err(err).Str("key", key).Msg("Response cache unavailable")
		default:
			cache.CacheMisses.WithLabelValues("http").Inc()
		}

		rec := newRecorder()
		next.ServeHTTP(rec, r)
		rec.flush(w)

		// Only successful responses are cached.
		if rec.status >= 400 {
			return
		}
		encoded, err := rec.entry().encode()
		if err != nil {
			m.logger.Warn().Err(err).Str("key", key).Msg("Failed to encode response entry")
			return
		}
		if err := m.manager.Set(ctx, key, encoded, m.ttl); err != nil {
			m.logger.Warn().Err(err).Str("key", key).Msg("Failed to cache response")
		}
	})
}

// recorder buffers a handler's response so it can be both replayed to
// the client and stored.
type recorder struct {
	header http.Header
	body   bytes.Buffer
	status int
	wrote  bool
}

func newRecorder() *recorder {
	return &recorder{
		header: make(http.Header),
		status: http.StatusOK,
	}
}

func (r *recorder) Header() http.Header {
	return r.header
}

func (r *recorder) WriteHeader(status int) {
	if r.wrote {
		return
	}
	r.status = status
	r.wrote = true
}

func (r *recorder) Write(b []byte) (int, error) {
	r.wrote = true
	return r.body.Write(b)
}

func (r *recorder) flush(w http.ResponseWriter) {
	for key, values := range r.header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.WriteHeader(r.status)
	if r.body.Len() > 0 {
		_, _ = w.Write(r.body.Bytes())
	}
}

func (r *recorder) entry() *Entry {
	return &Entry{
		StatusCode: r.status,
		Header:     r.header.Clone(),
		Body:       r.body.Bytes(),
	}
}
