// Package metrics defines the Prometheus metrics exposed by the bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Refresh metrics
	RefreshCyclesTotal     *prometheus.CounterVec
	RefreshDurationSeconds prometheus.Histogram
	SheetsIngestedTotal    *prometheus.CounterVec

	// Query metrics
	QueriesTotal *prometheus.CounterVec

	// Classifier metrics
	ClassificationsTotal *prometheus.CounterVec

	// Cache metrics
	CacheLoadsTotal *prometheus.CounterVec

	// Chat metrics
	MessagesTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered.
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		RefreshCyclesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "atlas_refresh_cycles_total",
				Help: "Total number of refresh cycles by status",
			},
			[]string{"status"}, // status: success, error
		),

		RefreshDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "atlas_refresh_duration_seconds",
				Help:    "Refresh cycle duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
		),

		SheetsIngestedTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "atlas_sheets_ingested_total",
				Help: "Total number of sheets processed by status",
			},
			[]string{"status"}, // status: success, skipped, error
		),

		QueriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "atlas_queries_total",
				Help: "Total number of resource queries by kind and result",
			},
			[]string{"kind", "result"}, // kind: free, grid; result: found, not_found, not_yet_catalogued, wrong_grid
		),

		ClassificationsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "atlas_classifications_total",
				Help: "Total number of intent classifications by model and class",
			},
			[]string{"model", "class"}, // model: sequence, linear, fallback
		),

		CacheLoadsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "atlas_cache_loads_total",
				Help: "Total number of cache load attempts by status",
			},
			[]string{"status"}, // status: success, missing, corrupt
		),

		MessagesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "atlas_messages_total",
				Help: "Total number of inbound chat messages by outcome",
			},
			[]string{"outcome"}, // outcome: answered, ignored, error
		),
	}
}
