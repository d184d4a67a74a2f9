// Package metrics defines the Prometheus metric collectors for
// minisearch and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/index"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the process.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	SearchQueriesTotal *prometheus.CounterVec
	SearchLatency      prometheus.Histogram

	BuildRunsTotal *prometheus.CounterVec
	BuildElapsedMs prometheus.Histogram

	IndexDocuments prometheus.Gauge
	IndexTerms     prometheus.Gauge
	IndexPostings  prometheus.Gauge
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Total search queries by result outcome (hit, empty, error).",
			},
			[]string{"result"},
		),
		SearchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Search query latency in seconds.",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
			},
		),
		BuildRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "build_runs_total",
				Help: "Total index build runs by mode and status.",
			},
			[]string{"mode", "status"},
		),
		BuildElapsedMs: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "build_elapsed_ms",
				Help:    "Index build elapsed time in milliseconds.",
				Buckets: []float64{10, 50, 100, 500, 1000, 5000, 30000},
			},
		),
		IndexDocuments: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "index_documents",
			Help: "Number of documents tracked by the inverted index's forward map.",
		}),
		IndexTerms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "index_terms",
			Help: "Number of unique terms across all shards.",
		}),
		IndexPostings: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "index_postings",
			Help: "Total postings across all shards.",
		}),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.BuildRunsTotal,
		m.BuildElapsedMs,
		m.IndexDocuments,
		m.IndexTerms,
		m.IndexPostings,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveSearch records the outcome and latency of one search query.
func (m *Metrics) ObserveSearch(result string, elapsed time.Duration) {
	m.SearchQueriesTotal.WithLabelValues(result).Inc()
	m.SearchLatency.Observe(elapsed.Seconds())
}

// IncBuildRun increments the build-run counter for mode/status.
func (m *Metrics) IncBuildRun(mode, status string) {
	m.BuildRunsTotal.WithLabelValues(mode, status).Inc()
}

// ObserveBuildElapsed records a completed build's elapsed time.
func (m *Metrics) ObserveBuildElapsed(elapsedMs int64) {
	m.BuildElapsedMs.Observe(float64(elapsedMs))
}

// SetIndexStats refreshes the index size gauges from a Stats snapshot.
func (m *Metrics) SetIndexStats(s index.Stats) {
	m.IndexDocuments.Set(float64(s.Documents))
	m.IndexTerms.Set(float64(s.Terms))
	m.IndexPostings.Set(float64(s.Postings))
}
