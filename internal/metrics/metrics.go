// Package metrics holds the Prometheus collectors of the link shortener.
// Collectors are registered with the default registry and exposed by the
// HTTP layer at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	LinksCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "links_created_total",
		Help: "Total number of short links created",
	})

	LinkResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_resolutions_total",
			Help: "Total number of short link resolutions by outcome",
		},
		[]string{"outcome"},
	)

	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_exports_total",
			Help: "Total number of CSV exports by outcome",
		},
		[]string{"outcome"},
	)

	ExportedRowsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "link_export_rows_total",
		Help: "Total number of rows written to CSV exports",
	})

	ExportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "link_export_duration_seconds",
		Help:    "Duration of CSV exports in seconds",
		Buckets: []float64{.05, .1, .5, 1, 5, 10, 30, 60},
	})
)

func RecordLinkCreated() {
	LinksCreatedTotal.Inc()
}

func RecordResolution(outcome string) {
	LinkResolutionsTotal.WithLabelValues(outcome).Inc()
}

func RecordExport(outcome string, rows int64, d time.Duration) {
	ExportsTotal.WithLabelValues(outcome).Inc()
	ExportedRowsTotal.Add(float64(rows))
	ExportDuration.Observe(d.Seconds())
}
