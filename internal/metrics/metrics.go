// Package metrics exposes Prometheus counters for the quoting workflow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Simplici0/roomquote/internal/pricing"
)

const namespace = "roomquote"

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	quotesCalculated *prometheus.CounterVec
	quotesSaved      prometheus.Counter
	finalPrice       prometheus.Histogram
	importRows       *prometheus.CounterVec
}

// New registers the quoting collectors together with the Go runtime and
// process collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		quotesCalculated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_calculated_total",
			Help:      "Quotes calculated, by risk level.",
		}, []string{"risk"}),
		quotesSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_saved_total",
			Help:      "Quotes saved to history.",
		}),
		finalPrice: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_final_price",
			Help:      "Final price of calculated quotes.",
			Buckets:   prometheus.ExponentialBuckets(100, 2.5, 10),
		}),
		importRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "room_import_rows_total",
			Help:      "Rows read from room catalog imports, by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.quotesCalculated,
		m.quotesSaved,
		m.finalPrice,
		m.importRows,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveQuote records a calculated quote.
func (m *Metrics) ObserveQuote(q pricing.Quote) {
	if m == nil {
		return
	}
	m.quotesCalculated.WithLabelValues(string(q.Risk.Level)).Inc()
	m.finalPrice.Observe(q.Result.FinalPrice)
}

// QuoteSaved records a quote written to history.
func (m *Metrics) QuoteSaved() {
	if m == nil {
		return
	}
	m.quotesSaved.Inc()
}

// ImportedRows records the outcome of a room catalog import.
func (m *Metrics) ImportedRows(valid, invalid int) {
	if m == nil {
		return
	}
	m.importRows.WithLabelValues("valid").Add(float64(valid))
	m.importRows.WithLabelValues("invalid").Add(float64(invalid))
}
