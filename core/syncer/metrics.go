package syncer

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes run counters to Prometheus. Each Metrics owns its registry so
// several runs in one process (tests) never collide on registration.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry
	records  *prometheus.CounterVec
	entities *prometheus.CounterVec
}

// NewMetrics creates and registers the sync collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ticketsync",
			Name:      "records_total",
			Help:      "Dataset records by outcome.",
		}, []string{"outcome"}),
		entities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ticketsync",
			Name:      "entities_created_total",
			Help:      "Upstream entities created (or simulated in dry-run) by kind.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(m.records, m.entities)
	return m
}

// ObserveOutcome counts one completed record.
func (m *Metrics) ObserveOutcome(o Outcome) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(o.String()).Inc()
}

// EntityCreated counts one created upstream entity of the given kind.
func (m *Metrics) EntityCreated(kind string) {
	if m == nil {
		return
	}
	m.entities.WithLabelValues(kind).Inc()
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
