// Package metrics provides the Prometheus registry and HTTP handler for
// regioncache. All metrics are defined in their respective packages (cache,
// supervisor) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by regioncache.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Handler returns the HTTP handler that exposes every registered metric.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - regioncache_hits_total{backend} (Counter): Entries served from cache
//   - regioncache_misses_total{backend} (Counter): Lookups that ran the factory
//   - regioncache_factory_errors_total{backend} (Counter): Factory failures (never cached)
//   - regioncache_populate_duration_seconds{backend} (Histogram): Factory duration on miss
//   - regioncache_clears_total{backend, scope} (Counter): Region and global clears
//   - regioncache_errors_total{operation} (Counter): Redis backend errors
//
// Supervisor Metrics (pkg/supervisor):
//   - regioncache_supervisor_storages (Gauge): Registered storages
//   - regioncache_invalidation_failures_total{scope} (Counter): Storages that failed a broadcast clear
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(regioncache_hits_total[5m])) /
//   (sum(rate(regioncache_hits_total[5m])) + sum(rate(regioncache_misses_total[5m])))
//
//   # P95 Populate Latency (time the storage lock is held)
//   histogram_quantile(0.95, rate(regioncache_populate_duration_seconds_bucket[5m]))
//
//   # Invalidation Failures
//   rate(regioncache_invalidation_failures_total[5m]) > 0
