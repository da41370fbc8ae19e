// Package metric exposes client runtime counters on a Prometheus
// registry: gateway events, reconnects, handler faults, and REST
// retries.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the client's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	EventsReceived  *prometheus.CounterVec
	Reconnects      prometheus.Counter
	HandlerFaults   prometheus.Counter
	HTTPRetries     prometheus.Counter
	ConnectionState prometheus.Gauge
}

// New creates the metric set on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		EventsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scatter",
			Name:      "gateway_events_received_total",
			Help:      "Inbound gateway events by event type.",
		}, []string{"type"}),
		Reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scatter",
			Name:      "gateway_reconnects_total",
			Help:      "Gateway reconnect cycles entered.",
		}),
		HandlerFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scatter",
			Name:      "handler_faults_total",
			Help:      "Handler errors and panics isolated by the dispatcher.",
		}),
		HTTPRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scatter",
			Name:      "http_retries_total",
			Help:      "REST attempts retried after rate limits or transient failures.",
		}),
		ConnectionState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "scatter",
			Name:      "gateway_connection_state",
			Help:      "Current gateway connection state (enum ordinal).",
		}),
	}

	m.registry.MustRegister(
		m.EventsReceived,
		m.Reconnects,
		m.HandlerFaults,
		m.HTTPRetries,
		m.ConnectionState,
	)

	return m
}

// Handler returns an HTTP handler serving the registry in Prometheus
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
