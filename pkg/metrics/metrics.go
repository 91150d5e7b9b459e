// Package metrics defines the Prometheus metric collectors for the fuzzdex
// tools and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors tracking indexing and search
// activity.
type Metrics struct {
	DocsIndexedTotal   prometheus.Counter
	DocsRemovedTotal   prometheus.Counter
	SearchesTotal      *prometheus.CounterVec
	SearchLatency      prometheus.Histogram
	SearchResultsCount prometheus.Histogram
	CacheHitsTotal     prometheus.Counter
	CacheMissesTotal   prometheus.Counter
	IndexDocuments     prometheus.Gauge
	IndexTrigrams      prometheus.Gauge
	IndexPostings      prometheus.Gauge
}

// New creates and registers all collectors on the default registry.
func New() *Metrics {
	m := &Metrics{
		DocsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fuzzdex_docs_indexed_total",
				Help: "Total documents indexed, counting replacements.",
			},
		),
		DocsRemovedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fuzzdex_docs_removed_total",
				Help: "Total documents removed.",
			},
		),
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fuzzdex_searches_total",
				Help: "Total search queries by outcome (hit, zero_result).",
			},
			[]string{"outcome"},
		),
		SearchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fuzzdex_search_latency_seconds",
				Help:    "Search query latency in seconds.",
				Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fuzzdex_search_results_count",
				Help:    "Number of results returned per search query.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fuzzdex_cache_hits_total",
				Help: "Total query cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fuzzdex_cache_misses_total",
				Help: "Total query cache misses.",
			},
		),
		IndexDocuments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fuzzdex_index_documents",
				Help: "Documents currently in the index.",
			},
		),
		IndexTrigrams: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fuzzdex_index_trigrams",
				Help: "Distinct trigrams with a posting list.",
			},
		),
		IndexPostings: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fuzzdex_index_postings",
				Help: "Total postings across all trigram lists.",
			},
		),
	}

	prometheus.MustRegister(
		m.DocsIndexedTotal,
		m.DocsRemovedTotal,
		m.SearchesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.IndexDocuments,
		m.IndexTrigrams,
		m.IndexPostings,
	)

	return m
}

// ObserveSearch records one query: its latency and result count, bucketed
// by outcome.
func (m *Metrics) ObserveSearch(seconds float64, results int) {
	outcome := "hit"
	if results == 0 {
		outcome = "zero_result"
	}
	m.SearchesTotal.WithLabelValues(outcome).Inc()
	m.SearchLatency.Observe(seconds)
	m.SearchResultsCount.Observe(float64(results))
}

// SetIndexSize updates the index size gauges from a stats snapshot.
func (m *Metrics) SetIndexSize(documents, trigrams, postings int) {
	m.IndexDocuments.Set(float64(documents))
	m.IndexTrigrams.Set(float64(trigrams))
	m.IndexPostings.Set(float64(postings))
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
