package invalidation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// peerNotifications tracks outbound best-effort notifies by result.
	peerNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commercify_peer_invalidations_total",
			Help: "Total outbound peer cache invalidation calls by result",
		},
		[]string{"result"}, // "ok", "rejected", "error"
	)

	// receivedRequests tracks inbound invalidation requests by outcome.
	receivedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commercify_invalidation_requests_total",
			Help: "Total inbound cache invalidation requests by outcome",
		},
		[]string{"outcome"}, // "ok", "unauthorized", "bad_type", "bad_request"
	)
)
