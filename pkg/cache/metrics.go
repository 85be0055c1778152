package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits tracks reads served from the store.
	cacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "commercify_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	// cacheMisses tracks reads that fell through to the producer.
	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "commercify_cache_misses_total",
			Help: "Total number of cache misses (absent or expired)",
		},
	)

	// entriesGauge tracks the number of physically stored entries.
	entriesGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "commercify_cache_entries",
			Help: "Current number of entries in the cache store",
		},
	)

	// invalidations tracks explicit removals by scope.
	invalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commercify_cache_invalidations_total",
			Help: "Total number of cache invalidations by scope",
		},
		[]string{"scope"}, // "key", "pattern", "clear"
	)

	// sharedTierErrors tracks failed operations against the Redis tier.
	sharedTierErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commercify_cache_shared_tier_errors_total",
			Help: "Total number of shared-tier cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "pattern", "clear"
	)
)
