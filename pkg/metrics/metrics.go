package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dockwatch/dockwatch/pkg/types"
)

// Sink owns the Prometheus registry backing the scrape endpoint. It is the
// single shared resource between the supervisor loop (writer) and the HTTP
// scrape path (reader); the prometheus client synchronizes the two sides.
//
// The sink deliberately carries its own registry instead of the package
// default so ownership stays explicit and tests can scrape it without a
// live HTTP server.
type Sink struct {
	registry *prometheus.Registry

	// ContainerHealth reports the health code per container:
	// 0 none, 1 starting, 2 healthy, 3 unhealthy, 4 unknown.
	ContainerHealth *prometheus.GaugeVec

	// RestartsTotal counts restarts issued because a container stayed
	// unhealthy past the configured interval.
	RestartsTotal *prometheus.CounterVec

	// RestartFailuresTotal counts restart commands that the runtime
	// rejected or that timed out.
	RestartFailuresTotal *prometheus.CounterVec

	// PassesTotal counts completed reconciliation passes.
	PassesTotal prometheus.Counter

	// ErrorsTotal counts reconciliation passes aborted by a runtime error.
	ErrorsTotal prometheus.Counter
}

// NewSink creates a sink with all dockwatch metrics registered.
func NewSink() *Sink {
	s := &Sink{
		registry: prometheus.NewRegistry(),
		ContainerHealth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dockwatch_container_health",
				Help: "Health-check state per container (0=none, 1=starting, 2=healthy, 3=unhealthy, 4=unknown)",
			},
			[]string{"id", "name"},
		),
		RestartsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dockwatch_restarts_total",
				Help: "Total number of restarts issued due to a container being unhealthy",
			},
			[]string{"id", "name"},
		),
		RestartFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dockwatch_restart_failures_total",
				Help: "Total number of failed restarts of unhealthy containers",
			},
			[]string{"id", "name"},
		),
		PassesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dockwatch_passes_total",
				Help: "Total number of completed reconciliation passes",
			},
		),
		ErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dockwatch_errors_total",
				Help: "Total number of reconciliation passes aborted by a runtime error",
			},
		),
	}

	s.registry.MustRegister(
		s.ContainerHealth,
		s.RestartsTotal,
		s.RestartFailuresTotal,
		s.PassesTotal,
		s.ErrorsTotal,
	)
	return s
}

// Set updates the health gauge for one container.
func (s *Sink) Set(id, name string, state types.HealthState) {
	s.ContainerHealth.WithLabelValues(id, name).Set(float64(state.Code()))
}

// Remove drops every series labeled with the given container id. Called
// when a container disappears from a snapshot so decommissioned containers
// do not linger on the scrape endpoint.
func (s *Sink) Remove(id string) {
	labels := prometheus.Labels{"id": id}
	s.ContainerHealth.DeletePartialMatch(labels)
	s.RestartsTotal.DeletePartialMatch(labels)
	s.RestartFailuresTotal.DeletePartialMatch(labels)
}

// Registry exposes the underlying registry for tests.
func (s *Sink) Registry() *prometheus.Registry {
	return s.registry
}

// Handler returns the HTTP handler serving the exposition format.
func (s *Sink) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
