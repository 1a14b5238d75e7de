package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Backend label values.
const (
	backendMemory = "memory"
	backendRedis  = "redis"
)

var (
	// CacheHits tracks entries served from cache by backend.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "regioncache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"backend"},
	)

	// CacheMisses tracks lookups that had to run the factory.
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "regioncache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"backend"},
	)

	// FactoryErrors tracks factory failures on miss. Failed results are never cached.
	FactoryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "regioncache_factory_errors_total",
			Help: "Total number of factory invocations that returned an error",
		},
		[]string{"backend"},
	)

	// PopulateDuration tracks how long factories take, which is also how long
	// the storage stays locked.
	PopulateDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "regioncache_populate_duration_seconds",
			Help:    "Duration of factory invocations on cache miss",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"backend"},
	)

	// CacheClears tracks clear operations by scope ("region" or "all").
	CacheClears = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "regioncache_clears_total",
			Help: "Total number of cache clear operations",
		},
		[]string{"backend", "scope"},
	)

	// CacheErrors tracks backend operation errors.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "regioncache_errors_total",
			Help: "Total number of cache backend operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "clear", "decode"
	)
)
