// Package cache provides the cache-aside consistency layer for the
// job-board backend: deterministic key construction, cache-aside reads
// for single entities and paginated lists, and grouped invalidation via
// secondary indices.
//
// # Basic Usage
//
//	// Create Redis-backed store
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//	store := cache.NewRedisStore(redisClient)
//
//	// Create cache manager
//	manager := cache.NewManager(store, cache.DefaultConfig())
//
//	// Cache-aside read for a single entity
//	key := cache.BuildKey("job", jobID)
//	data, err := manager.GetOrSet(ctx, key, 0, func(ctx context.Context) ([]byte, error) {
//		return repo.GetJobJSON(ctx, jobID)
//	})
//
// # Grouped Invalidation
//
// Paginated lists register themselves under an index key so a single
// invalidation call clears every cached page:
//
//	indexKey := cache.BuildKey("jobs", companyID, "index")
//	pageKey := cache.BuildKey("jobs", companyID, "page", page)
//	data, err := manager.RememberList(ctx, indexKey, pageKey, 0, supplier)
//
//	// On any create/update/delete affecting the same list scope:
//	_ = manager.InvalidateIndex(ctx, indexKey)
//
// HTTP-response cache entries representing the same logical listing are
// mirrored into the same index via TrackKey (see pkg/httpcache), so the
// one invalidation call clears both layers.
//
// # Consistency Model
//
// The manager holds no locks across store calls. Concurrent misses on
// the same key may each invoke the supplier (thundering herd); the last
// write wins. A registration racing an invalidation can resurrect the
// index with a stale member. Both are accepted trade-offs of the
// best-effort design, not bugs the manager tries to hide.
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - jobboard_cache_hits_total{layer} - Cache hits by layer (service, http)
//   - jobboard_cache_misses_total{layer} - Cache misses by layer
//   - jobboard_cache_errors_total{operation} - Store operation errors
//   - jobboard_cache_invalidations_total - Index invalidations
package cache
