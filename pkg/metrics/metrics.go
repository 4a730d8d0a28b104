package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the marketplace counters on their own registry.
type Metrics struct {
	Registry        *prometheus.Registry
	Transitions     *prometheus.CounterVec
	Celebrations    prometheus.Counter
	PersistFailures *prometheus.CounterVec
	PersistWrites   *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teambuilder",
			Name:      "transitions_total",
			Help:      "Store transitions by operation and result (changed, noop).",
		}, []string{"op", "result"}),
		Celebrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "teambuilder",
			Name:      "celebrations_total",
			Help:      "Acceptance celebrations emitted.",
		}),
		PersistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teambuilder",
			Name:      "persist_failures_total",
			Help:      "Failed backend writes by kind.",
		}, []string{"kind"}),
		PersistWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teambuilder",
			Name:      "persist_writes_total",
			Help:      "Backend writes by kind and method.",
		}, []string{"kind", "method"}),
	}
	reg.MustRegister(
		m.Transitions,
		m.Celebrations,
		m.PersistFailures,
		m.PersistWrites,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Transition counts one store transition. Nil-safe.
func (m *Metrics) Transition(op string, changed bool) {
	if m == nil {
		return
	}
	result := "noop"
	if changed {
		result = "changed"
	}
	m.Transitions.WithLabelValues(op, result).Inc()
}

func (m *Metrics) Celebrated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.Celebrations.Add(float64(n))
}

func (m *Metrics) PersistWrite(kind, method string) {
	if m == nil {
		return
	}
	m.PersistWrites.WithLabelValues(kind, method).Inc()
}

func (m *Metrics) PersistFailure(kind string) {
	if m == nil {
		return
	}
	m.PersistFailures.WithLabelValues(kind).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
