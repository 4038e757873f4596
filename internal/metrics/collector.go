// Package metrics counts fetch and mutation outcomes on a private Prometheus registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hammamikhairi/recipemate/internal/domain"
	"github.com/hammamikhairi/recipemate/internal/fetch"
	"github.com/hammamikhairi/recipemate/internal/persist"
)

// Compile-time interface checks.
var (
	_ fetch.Observer   = (*Collector)(nil)
	_ persist.Observer = (*Collector)(nil)
)

// Collector implements fetch.Observer and persist.Observer.
type Collector struct {
	registry  *prometheus.Registry
	fetches   *prometheus.CounterVec
	stale     prometheus.Counter
	inflight  *prometheus.GaugeVec
	mutations *prometheus.CounterVec
}

// NewCollector registers the recipemate metrics on a fresh registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipemate_fetch_total",
			Help: "Settled view fetches by view and outcome.",
		}, []string{"view", "outcome"}),
		stale: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recipemate_fetch_stale_total",
			Help: "Fetch results discarded because a newer request superseded them.",
		}),
		inflight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "recipemate_fetch_inflight",
			Help: "Fetches issued but not yet settled, by view.",
		}, []string{"view"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipemate_mutation_total",
			Help: "Store mutations by operation and outcome.",
		}, []string{"op", "outcome"}),
	}
	c.registry.MustRegister(c.fetches, c.stale, c.inflight, c.mutations)
	return c
}

// Registry exposes the private registry for gathering.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// FetchStarted implements fetch.Observer.
func (c *Collector) FetchStarted(key domain.ViewKey) {
	c.inflight.WithLabelValues(viewLabel(key)).Inc()
}

// FetchSettled implements fetch.Observer.
func (c *Collector) FetchSettled(key domain.ViewKey, status domain.ViewStatus, kind domain.ErrorKind) {
	view := viewLabel(key)
	c.inflight.WithLabelValues(view).Dec()
	outcome := "success"
	if status != domain.StatusSuccess {
		outcome = kind.String()
	}
	c.fetches.WithLabelValues(view, outcome).Inc()
}

// FetchDiscarded implements fetch.Observer.
func (c *Collector) FetchDiscarded(key domain.ViewKey) {
	c.inflight.WithLabelValues(viewLabel(key)).Dec()
	c.stale.Inc()
}

// MutationSettled implements persist.Observer.
func (c *Collector) MutationSettled(op persist.Op, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.mutations.WithLabelValues(string(op), outcome).Inc()
}

// viewLabel folds every category view into one label.
func viewLabel(key domain.ViewKey) string {
	if key.IsCategory() {
		return "category"
	}
	return string(key)
}
