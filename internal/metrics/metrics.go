package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the process-wide prometheus registry and every collector the
// service emits. It is constructed once and injected into the manager and
// HTTP layers rather than registered globally, so tests get an isolated
// registry per instance.
type Metrics struct {
	registry *prometheus.Registry

	// Inference accounting.
	RequestsTotal  *prometheus.CounterVec
	RequestLatency *prometheus.HistogramVec
	ModelLoadTime  prometheus.Gauge
	ModelVersion   *prometheus.GaugeVec

	// HTTP server accounting.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPInflight        *prometheus.GaugeVec
}

// New builds a Metrics with all collectors registered on a fresh registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aurora",
			Subsystem: "inference",
			Name:      "requests_total",
			Help:      "Total inference requests",
		},
		[]string{"status", "model_version"},
	)
	m.RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "aurora",
			Subsystem: "inference",
			Name:      "request_latency_seconds",
			Help:      "Inference latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"model_version"},
	)
	m.ModelLoadTime = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "aurora",
			Subsystem: "inference",
			Name:      "model_load_timestamp",
			Help:      "Timestamp when model was last loaded",
		},
	)
	m.ModelVersion = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "aurora",
			Subsystem: "inference",
			Name:      "model_version",
			Help:      "Model version currently loaded",
		},
		[]string{"model_name", "version"},
	)

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aurora",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "aurora",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
	m.HTTPInflight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "aurora",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "In-flight HTTP requests",
		},
		[]string{"path"},
	)

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestLatency,
		m.ModelLoadTime,
		m.ModelVersion,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPInflight,
	)
	return m
}

// Handler serves the registry in the text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
