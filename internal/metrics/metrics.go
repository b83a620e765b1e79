// Package metrics exposes Prometheus counters for the Google connector.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns a private Prometheus registry so tests can create as many as
// they like without colliding on the global one.
type Registry struct {
	registry  *prometheus.Registry
	refreshes *prometheus.CounterVec
	connects  *prometheus.CounterVec
}

// New creates a Registry with Go runtime and process collectors attached.
func New() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maestro",
			Name:      "token_refresh_total",
			Help:      "Access token freshness checks by outcome.",
		}, []string{"outcome"}),
		connects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maestro",
			Name:      "google_connect_total",
			Help:      "Google connect callbacks by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		r.refreshes,
		r.connects,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// RecordRefresh counts one freshness check with the given outcome.
func (r *Registry) RecordRefresh(outcome string) {
	r.refreshes.WithLabelValues(outcome).Inc()
}

// RecordConnect counts one connect callback with the given outcome.
func (r *Registry) RecordConnect(outcome string) {
	r.connects.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
