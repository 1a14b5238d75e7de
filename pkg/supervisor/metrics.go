package supervisor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegisteredStorages tracks the number of storages registered across supervisors.
	RegisteredStorages = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "regioncache_supervisor_storages",
			Help: "Number of cache storages registered with a supervisor",
		},
	)

	// InvalidationFailures tracks storages that failed a broadcast clear.
	InvalidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "regioncache_invalidation_failures_total",
			Help: "Total number of storage clears that failed during a broadcast",
		},
		[]string{"scope"}, // "region", "all"
	)
)
