// Package metrics defines the Prometheus metric collectors for the
// search service and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	SearchesTotal        *prometheus.CounterVec
	SearchLatency        prometheus.Histogram
	SearchResultsCount   prometheus.Histogram
	ParseFailuresTotal   prometheus.Counter
	SuggestRequestsTotal prometheus.Counter
	IssuesLoadedTotal    prometheus.Counter
	ReposTracked         prometheus.Gauge
}

// New creates all metric collectors on a fresh registry, so multiple
// instances can coexist in tests.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "issuescout_http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "issuescout_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "issuescout_searches_total",
				Help: "Total search requests by outcome (ok, parse_error, not_found).",
			},
			[]string{"outcome"},
		),
		SearchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "issuescout_search_latency_seconds",
				Help:    "Search request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "issuescout_search_results_count",
				Help:    "Number of issues returned per search.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
			},
		),
		ParseFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "issuescout_query_parse_failures_total",
				Help: "Total queries that produced no usable filter.",
			},
		),
		SuggestRequestsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "issuescout_suggest_requests_total",
				Help: "Total suggestion requests.",
			},
		),
		IssuesLoadedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "issuescout_issues_loaded_total",
				Help: "Total issues loaded into the store.",
			},
		),
		ReposTracked: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "issuescout_repos_tracked",
				Help: "Number of repositories currently held in the store.",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SearchesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.ParseFailuresTotal,
		m.SuggestRequestsTotal,
		m.IssuesLoadedTotal,
		m.ReposTracked,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler for this
// instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
