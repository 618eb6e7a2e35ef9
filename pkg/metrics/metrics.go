// Package metrics Prometheus 指标
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pumpstation_evaluations_total",
			Help: "Total number of system evaluations",
		},
		[]string{"mode", "status"},
	)

	EvaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pumpstation_evaluation_duration_seconds",
			Help:    "Time taken for a system evaluation",
			Buckets: []float64{1e-6, 1e-5, 1e-4, 1e-3, 1e-2, 0.1},
		},
		[]string{"mode"},
	)

	CatalogPumps = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pumpstation_catalog_pumps",
			Help: "Number of pumps in the current catalog",
		},
	)

	CatalogReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pumpstation_catalog_reloads_total",
			Help: "Catalog reload attempts",
		},
		[]string{"status"},
	)

	ImportedRowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pumpstation_imported_curve_rows_total",
			Help: "Curve rows imported from spreadsheets",
		},
	)
)

func RecordEvaluation(mode, status string, d time.Duration) {
	EvaluationsTotal.WithLabelValues(mode, status).Inc()
	EvaluationDuration.WithLabelValues(mode).Observe(d.Seconds())
}

func RecordCatalog(n int, err error) {
	if err != nil {
		CatalogReloadsTotal.WithLabelValues("error").Inc()
		return
	}
	CatalogReloadsTotal.WithLabelValues("success").Inc()
	CatalogPumps.Set(float64(n))
}
