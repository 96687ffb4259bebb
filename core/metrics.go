package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the service counters.
type Metrics struct {
	NasRequests    *prometheus.CounterVec
	ProfileUpdates *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		NasRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nas_requests_total",
				Help: "NAS requests by action and return code",
			},
			[]string{"action", "returncd"},
		),
		ProfileUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_profile_updates_total",
				Help: "Dashboard profile updates by outcome",
			},
			[]string{"outcome"},
		),
	}
	reg.MustRegister(m.NasRequests, m.ProfileUpdates)
	return m
}

// NewMetricsRegistry returns a private registry with Go and process collectors.
func NewMetricsRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return registry
}
