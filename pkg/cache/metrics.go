package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by layer (service, http)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"layer"}, // "service", "http"
	)

	// CacheMisses tracks cache misses by layer
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"layer"}, // "service", "http"
	)

	// CacheErrors tracks store operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_cache_errors_total",
			Help: "Total number of cache store operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)

	// IndexInvalidations tracks completed index invalidations
	IndexInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobboard_cache_invalidations_total",
			Help: "Total number of index invalidations",
		},
	)

	// TrackedKeys tracks keys registered into invalidation indices
	TrackedKeys = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobboard_cache_tracked_keys_total",
			Help: "Total number of keys registered into invalidation indices",
		},
	)
)
