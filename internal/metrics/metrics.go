// Package metrics exposes Prometheus instrumentation for the batch engine and
// the HTTP server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ClientsProcessedTotal counts clients scored successfully.
	ClientsProcessedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "advisor_clients_processed_total",
			Help: "Count of clients scored successfully.",
		},
	)

	// ClientsSkippedTotal counts clients skipped because of missing or bad data.
	ClientsSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "advisor_clients_skipped_total",
			Help: "Count of clients skipped because their data could not be processed.",
		},
	)

	// RecommendationsTotal counts recommendations by product and tier.
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_recommendations_total",
			Help: "Count of recommendations by product and decision tier.",
		},
		[]string{"product", "tier"},
	)

	// ScoringDurationSeconds observes per-client scoring latency.
	ScoringDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "advisor_scoring_duration_seconds",
			Help:    "Per-client feature extraction and scoring duration.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		ClientsProcessedTotal,
		ClientsSkippedTotal,
		RecommendationsTotal,
		ScoringDurationSeconds,
	)
}
