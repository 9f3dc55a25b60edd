// Package metrics registers the service's prometheus collectors. The
// /metrics endpoint itself is mounted in cmd/server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthzDecisions counts authorization outcomes per route group.
	AuthzDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "practice",
		Subsystem: "authz",
		Name:      "decisions_total",
		Help:      "Authorization decisions by route group and outcome",
	}, []string{"route", "outcome"})

	// Transitions counts entity state-machine transitions.
	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "practice",
		Subsystem: "state",
		Name:      "transitions_total",
		Help:      "State-machine transitions by entity, target state and result",
	}, []string{"entity", "to", "result"})

	// CapabilityCache counts capability-set cache lookups.
	CapabilityCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "practice",
		Subsystem: "authz",
		Name:      "capability_cache_total",
		Help:      "Capability cache lookups by result",
	}, []string{"result"})
)
