package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the API. Each instance has
// its own registry so tests can build several servers.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	Analyses       *prometheus.CounterVec
	People         prometheus.Gauge
	Communities    prometheus.Gauge
	AnalysisErrors *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors under namespace.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Community analyses run, by trigger",
			},
			[]string{"trigger"},
		),
		People: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "people",
			Help:      "People in the last analysis",
		}),
		Communities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "communities",
			Help:      "Communities found by the last analysis",
		}),
		AnalysisErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analysis_errors_total",
				Help:      "Failed analysis requests, by reason",
			},
			[]string{"reason"},
		),
	}

	m.registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.Analyses,
		m.People,
		m.Communities,
		m.AnalysisErrors,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// observeResult records the size of a fresh analysis.
func (m *Metrics) observeResult(trigger string, people, communities int) {
	m.Analyses.WithLabelValues(trigger).Inc()
	m.People.Set(float64(people))
	m.Communities.Set(float64(communities))
}
