// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Trade outcome labels
const (
	OutcomeSuccess           = "success"
	OutcomeFailed            = "failed"
	OutcomeInsufficientFunds = "insufficient_funds"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Simulator metrics
	BotCycles           prometheus.Counter
	BotTrades           *prometheus.CounterVec
	BotTransitions      *prometheus.CounterVec
	TokenEventsProduced *prometheus.CounterVec

	// Insight metrics
	InsightRequests *prometheus.CounterVec

	// Session metrics
	ActiveSessions prometheus.Gauge
	LoginsTotal    *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance on its own registry
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "mastersol"
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		BotCycles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "scan_cycles_total",
			Help:      "Total number of copy trading scan cycles",
		}),
		BotTrades: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "trades_total",
			Help:      "Simulated copy trades by side and outcome",
		}, []string{"side", "outcome"}),
		BotTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "status_transitions_total",
			Help:      "Bot status transitions by target status",
		}, []string{"status"}),
		TokenEventsProduced: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forensics",
			Name:      "token_events_total",
			Help:      "Synthetic token events produced by event type",
		}, []string{"event_type"}),

		InsightRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "insight",
			Name:      "requests_total",
			Help:      "Text generation requests by kind and outcome",
		}, []string{"kind", "outcome"}),

		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "active",
			Help:      "Number of live dashboard sessions",
		}),
		LoginsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "logins_total",
			Help:      "Login attempts by result",
		}, []string{"result"}),
	}
}

// Handler returns the HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveCycle counts one copy trading scan
func (m *Metrics) ObserveCycle() {
	if m == nil {
		return
	}
	m.BotCycles.Inc()
}

// ObserveTrade counts a bot trade by side and outcome
func (m *Metrics) ObserveTrade(side, outcome string) {
	if m == nil {
		return
	}
	m.BotTrades.WithLabelValues(side, outcome).Inc()
}

// ObserveTransition counts a bot status change
func (m *Metrics) ObserveTransition(status string) {
	if m == nil {
		return
	}
	m.BotTransitions.WithLabelValues(status).Inc()
}

// ObserveTokenEvent counts a produced forensics event
func (m *Metrics) ObserveTokenEvent(eventType string) {
	if m == nil {
		return
	}
	m.TokenEventsProduced.WithLabelValues(eventType).Inc()
}

// ObserveInsight counts an insight request by kind and outcome
func (m *Metrics) ObserveInsight(kind, outcome string) {
	if m == nil {
		return
	}
	m.InsightRequests.WithLabelValues(kind, outcome).Inc()
}

// ObserveLogin counts a login attempt by result
func (m *Metrics) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(result).Inc()
}

// SetActiveSessions sets the live session gauge
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}
