package recommendations

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_requests_total",
			Help: "Total recommendation requests by type and mode",
		},
		[]string{"type", "mode"},
	)

	cacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_cache_hits_total",
			Help: "Total recommendation responses served from cache",
		},
	)

	degradedResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_degraded_total",
			Help: "Total requests answered with the popularity fallback after a scoring failure",
		},
	)
)
