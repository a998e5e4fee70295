package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace is the metric namespace used when none is configured.
const DefaultNamespace = "trustdesk"

// Metrics holds the Prometheus instrumentation for the service. It
// implements retry.Observer so the retry policy can report attempts.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	retryAttempts  prometheus.Counter
	retryExhausted prometheus.Counter

	auditRecords prometheus.Counter

	trustCenterArtifacts prometheus.Gauge
}

// New creates a Metrics with all collectors registered on a fresh
// registry, alongside the standard Go and process collectors.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,

		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests processed.",
		}, []string{"method", "route", "status"}),

		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		retryAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "retry",
			Name:      "attempts_total",
			Help:      "Total number of retry attempts after transient failures.",
		}),

		retryExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "retry",
			Name:      "exhausted_total",
			Help:      "Total number of operations that failed after exhausting all retries.",
		}),

		auditRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "records_total",
			Help:      "Total number of audit records written.",
		}),

		trustCenterArtifacts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "trust_center",
			Name:      "artifacts",
			Help:      "Number of artifacts currently indexed for the trust center.",
		}),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.retryAttempts,
		m.retryExhausted,
		m.auditRecords,
		m.trustCenterArtifacts,
	)

	return m
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RetryAttempted implements retry.Observer.
func (m *Metrics) RetryAttempted() {
	m.retryAttempts.Inc()
}

// RetriesExhausted implements retry.Observer.
func (m *Metrics) RetriesExhausted() {
	m.retryExhausted.Inc()
}

// AuditRecorded counts one written audit record.
func (m *Metrics) AuditRecorded() {
	m.auditRecords.Inc()
}

// SetTrustCenterArtifacts records the current artifact index size.
func (m *Metrics) SetTrustCenterArtifacts(n int) {
	m.trustCenterArtifacts.Set(float64(n))
}

// Handler returns the HTTP handler exposing the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
