// Package metrics provides the centralized Prometheus metrics registry
// for the cache layer. Metrics are defined next to the code that
// increments them (pkg/cache) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the cache layer.
// All metrics are automatically registered via promauto in their
// respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - jobboard_cache_hits_total{layer} (Counter): Cache hits by layer (service, http)
//   - jobboard_cache_misses_total{layer} (Counter): Cache misses by layer
//   - jobboard_cache_errors_total{operation} (Counter): Store operation errors (get, set, delete)
//   - jobboard_cache_invalidations_total (Counter): Completed index invalidations
//   - jobboard_cache_tracked_keys_total (Counter): Keys registered into invalidation indices
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate (service layer)
//   sum(rate(jobboard_cache_hits_total{layer="service"}[5m])) /
//   (sum(rate(jobboard_cache_hits_total{layer="service"}[5m])) +
//    sum(rate(jobboard_cache_misses_total{layer="service"}[5m])))
//
//   # Store Error Rate
//   rate(jobboard_cache_errors_total[5m])
//
//   # Invalidation Throughput
//   rate(jobboard_cache_invalidations_total[5m])
