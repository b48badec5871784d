// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tunevault"

// Metrics groups the service collectors behind a private registry
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	SearchQueries *prometheus.CounterVec
	LoginAttempts *prometheus.CounterVec
	SongPlays     prometheus.Counter
	SessionsSwept prometheus.Counter
}

// New registers all collectors, plus the Go runtime and process collectors,
// on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		SearchQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_queries_total",
			Help:      "Song searches by matching mode.",
		}, []string{"mode"}),
		LoginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		SongPlays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "song_plays_total",
			Help:      "Logged song plays.",
		}),
		SessionsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_swept_total",
			Help:      "Expired sessions removed by the background sweeper.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.SearchQueries,
		m.LoginAttempts,
		m.SongPlays,
		m.SessionsSwept,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveSearch(mode string) {
	if m == nil {
		return
	}
	m.SearchQueries.WithLabelValues(mode).Inc()
}

func (m *Metrics) ObserveLogin(success bool) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.LoginAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) ObservePlay() {
	if m == nil {
		return
	}
	m.SongPlays.Inc()
}

func (m *Metrics) ObserveSweep(removed int) {
	if m == nil || removed <= 0 {
		return
	}
	m.SessionsSwept.Add(float64(removed))
}
