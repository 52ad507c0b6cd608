package similarity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recomputeRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "similarity_recompute_runs_total",
			Help: "Total number of successful similarity recomputes",
		},
	)

	recomputeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "similarity_recompute_failures_total",
			Help: "Total number of failed or timed-out similarity recomputes",
		},
	)

	recomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "similarity_recompute_duration_seconds",
			Help:    "Wall-clock duration of similarity recomputes",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)

	pairScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "similarity_pair_scores",
			Help:    "Distribution of stored pairwise similarity scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	pairsStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "similarity_pairs_stored",
			Help: "Number of similarity pairs in the current epoch",
		},
	)

	clustersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "similarity_clusters_active",
			Help: "Number of non-empty clusters in the current epoch",
		},
	)
)
