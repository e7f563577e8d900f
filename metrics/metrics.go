// Package metrics wraps Prometheus collectors for the world server,
// grounded on the serverless-platform repo's internal/metrics/
// prometheus.go: a struct of counters/histograms/gauges built once over
// a dedicated registry, served at /metrics via promhttp.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var defaultBuckets = []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 5000}

// Metrics holds every collector the world server emits.
type Metrics struct {
	registry *prometheus.Registry

	DispatchTotal      *prometheus.CounterVec
	ScriptInvocations   *prometheus.CounterVec
	ScriptErrorsTotal   *prometheus.CounterVec
	ScriptDuration      *prometheus.HistogramVec
	DelayQueuePending    prometheus.Gauge
	SessionsOnline       prometheus.Gauge
}

// New builds a Metrics over a fresh registry under namespace.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		DispatchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "dispatch_total", Help: "Total dispatched commands by outcome."},
			[]string{"outcome"},
		),
		ScriptInvocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "script_invocations_total", Help: "Total verb/function invocations by source."},
			[]string{"source"},
		),
		ScriptErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "script_errors_total", Help: "Total script errors by kind."},
			[]string{"kind"},
		),
		ScriptDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Namespace: namespace, Name: "script_duration_ms", Help: "Verb/function execution duration in milliseconds.", Buckets: defaultBuckets},
			[]string{"source"},
		),
		DelayQueuePending: prometheus.NewGauge(
			prometheus.GaugeOpts{Namespace: namespace, Name: "delayqueue_pending", Help: "Entries currently scheduled in the delay queue."},
		),
		SessionsOnline: prometheus.NewGauge(
			prometheus.GaugeOpts{Namespace: namespace, Name: "sessions_online", Help: "Currently bound player sessions."},
		),
	}

	registry.MustRegister(
		m.DispatchTotal, m.ScriptInvocations, m.ScriptErrorsTotal,
		m.ScriptDuration, m.DelayQueuePending, m.SessionsOnline,
	)
	return m
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveScript records one verb/function invocation's duration and
// outcome.
func (m *Metrics) ObserveScript(source string, d time.Duration, errKind string) {
	m.ScriptInvocations.WithLabelValues(source).Inc()
	m.ScriptDuration.WithLabelValues(source).Observe(float64(d.Milliseconds()))
	if errKind != "" {
		m.ScriptErrorsTotal.WithLabelValues(errKind).Inc()
	}
}
