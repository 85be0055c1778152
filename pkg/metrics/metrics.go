// Package metrics provides the Prometheus registry and exposition handler
// for the storefront cache. All metrics are defined in their respective
// packages (cache, invalidation) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the gateway.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Handler returns the HTTP handler serving the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - commercify_cache_hits_total (Counter): Cache hits
//   - commercify_cache_misses_total (Counter): Cache misses (absent or expired)
//   - commercify_cache_entries (Gauge): Current number of entries in the store
//   - commercify_cache_invalidations_total{scope} (Counter): Invalidations by scope (key, pattern, clear)
//   - commercify_cache_shared_tier_errors_total{operation} (Counter): Shared-tier operation errors
//
// Invalidation Metrics (pkg/invalidation):
//   - commercify_peer_invalidations_total{result} (Counter): Outbound peer notifies by result (ok, rejected, error)
//   - commercify_invalidation_requests_total{outcome} (Counter): Inbound invalidation requests by outcome
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(commercify_cache_hits_total[5m])) /
//   (sum(rate(commercify_cache_hits_total[5m])) + sum(rate(commercify_cache_misses_total[5m])))
//
//   # Peer Delivery Failure Rate
//   rate(commercify_peer_invalidations_total{result!="ok"}[5m])
//
//   # Invalidation Endpoint Rejections
//   rate(commercify_invalidation_requests_total{outcome="unauthorized"}[5m])
