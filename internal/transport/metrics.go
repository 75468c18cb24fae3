// Copyright 2025 Joseph Cumines
//
// Prometheus metrics for observability

package transport

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics instruments the MCP server: tool invocation counts and latencies,
// plus SSE connection and event telemetry. All collectors live on a private
// registry so tests can construct isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	sseEventsTotal  prometheus.Counter
	sseConnections  prometheus.Gauge
}

// NewMetrics creates a metrics instance with all collectors registered.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "winuse_requests_total",
			Help: "Total tool invocations by tool name and outcome.",
		}, []string{"tool", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "winuse_request_duration_seconds",
			Help:    "Tool invocation latency in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"tool"}),
		sseEventsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "winuse_sse_events_sent_total",
			Help: "Total SSE events broadcast to clients.",
		}),
		sseConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "winuse_sse_connections_active",
			Help: "Currently connected SSE clients.",
		}),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.sseEventsTotal,
		m.sseConnections,
	)
	return m
}

// RecordRequest records a tool invocation with count and latency metrics.
// This is the main entry point for instrumentation from the MCP server.
func (m *Metrics) RecordRequest(tool, status string, duration time.Duration) {
	m.requestsTotal.WithLabelValues(tool, status).Inc()
	m.requestDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordSSEEvent records an SSE event being sent.
func (m *Metrics) RecordSSEEvent() {
	m.sseEventsTotal.Inc()
}

// SetSSEConnections sets the current number of active SSE connections.
func (m *Metrics) SetSSEConnections(count int) {
	m.sseConnections.Set(float64(count))
}

// Handler returns the /metrics scrape endpoint for this instance.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for test assertions.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
