// Package observability exposes Prometheus metrics for stream sessions.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rxtech-lab/tokenstream/internal/types"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "tokenstream"

// Metrics holds the stream counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	EventsEmitted   *prometheus.CounterVec
	EventsDiscarded *prometheus.CounterVec
	BytesReceived   *prometheus.CounterVec
	Sessions        *prometheus.CounterVec
}

// NewMetrics creates the metrics on a private registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		EventsEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "events_emitted_total",
			Help:      "Total number of price events delivered to the output",
		}, []string{"mode"}),
		EventsDiscarded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "events_discarded_total",
			Help:      "Total number of wire records dropped because they failed to decode",
		}, []string{"mode"}),
		BytesReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "bytes_received_total",
			Help:      "Total number of body bytes read from the stream",
		}, []string{"mode"}),
		Sessions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "sessions_total",
			Help:      "Total number of finished sessions by mode and terminal state",
		}, []string{"mode", "state"}),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}) //nolint:exhaustruct
}

// EventEmitted counts one delivered event.
func (m *Metrics) EventEmitted(mode types.SessionMode) {
	if m == nil {
		return
	}

	m.EventsEmitted.WithLabelValues(string(mode)).Inc()
}

// EventDiscarded counts one dropped wire record.
func (m *Metrics) EventDiscarded(mode types.SessionMode) {
	if m == nil {
		return
	}

	m.EventsDiscarded.WithLabelValues(string(mode)).Inc()
}

// BytesRead adds n body bytes.
func (m *Metrics) BytesRead(mode types.SessionMode, n int) {
	if m == nil || n <= 0 {
		return
	}

	m.BytesReceived.WithLabelValues(string(mode)).Add(float64(n))
}

// SessionFinished counts a session reaching a terminal state.
func (m *Metrics) SessionFinished(mode types.SessionMode, state types.SessionState) {
	if m == nil {
		return
	}

	m.Sessions.WithLabelValues(string(mode), string(state)).Inc()
}
