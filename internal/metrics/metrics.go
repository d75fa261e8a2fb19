// Package metrics defines the Prometheus collectors for the search service
// and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	SearchesTotal     *prometheus.CounterVec
	SearchLatency     *prometheus.HistogramVec
	SearchResultCount prometheus.Histogram
	CatalogLoadsTotal *prometheus.CounterVec
	CatalogLoadTime   prometheus.Histogram
	CatalogItems      prometheus.Gauge

	registry *prometheus.Registry
}

// New creates and registers all collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "productos_searches_total",
				Help: "Total search requests by cache status (hit, miss, empty).",
			},
			[]string{"cache_status"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "productos_search_latency_seconds",
				Help:    "Search latency in seconds.",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
			},
			[]string{"cache_status"},
		),
		SearchResultCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "productos_search_results",
				Help:    "Number of results returned per search.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 200},
			},
		),
		CatalogLoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "productos_catalog_loads_total",
				Help: "Catalog load attempts by outcome (ok, stale, error).",
			},
			[]string{"outcome"},
		),
		CatalogLoadTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "productos_catalog_load_seconds",
				Help:    "Catalog load duration in seconds.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
			},
		),
		CatalogItems: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "productos_catalog_items",
				Help: "Items in the current catalog snapshot.",
			},
		),
	}

	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(
		m.SearchesTotal,
		m.SearchLatency,
		m.SearchResultCount,
		m.CatalogLoadsTotal,
		m.CatalogLoadTime,
		m.CatalogItems,
	)
	return m
}

// Handler returns the scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
