// Package metrics содержит счётчики Prometheus, которые отдаются на /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BulkItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "costbook_bulk_items_total",
		Help: "Items touched by bulk edit/delete, by outcome.",
	}, []string{"op", "result"})

	RecipeSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "costbook_recipe_saves_total",
		Help: "Saved recipes by mode (create or update).",
	}, []string{"mode"})

	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "costbook_validation_failures_total",
		Help: "Rejected form submissions.",
	}, []string{"form"})

	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "costbook_store_errors_total",
		Help: "Failed store calls surfaced to the user.",
	}, []string{"op"})
)

// ObserveBulk раскладывает итог пакетной операции по счётчикам.
func ObserveBulk(op string, processed, skipped, failed int) {
	BulkItems.WithLabelValues(op, "ok").Add(float64(processed))
	BulkItems.WithLabelValues(op, "skipped").Add(float64(skipped))
	BulkItems.WithLabelValues(op, "failed").Add(float64(failed))
}
