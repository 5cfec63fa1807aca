// Package metrics holds the Prometheus collectors for the escalation lifecycle.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the receptionist's collectors.
type Metrics struct {
	Queries             *prometheus.CounterVec
	EscalationsRecorded prometheus.Counter
	EscalationsResolved prometheus.Counter
	EscalationsExpired  prometheus.Counter
	PendingEscalations  prometheus.Gauge
	PublishFailures     *prometheus.CounterVec
}

// Query outcomes used as the "outcome" label.
const (
	OutcomeAnswered  = "answered"
	OutcomeEscalated = "escalated"
)

// New creates the collectors and registers them with reg.
// Collectors already registered by an earlier call are reused.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frontdesk_queries_total",
			Help: "Customer queries handled, by outcome.",
		}, []string{"outcome"}),
		EscalationsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "frontdesk_escalations_recorded_total",
			Help: "Unanswered questions written to the session store.",
		}),
		EscalationsResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "frontdesk_escalations_resolved_total",
			Help: "Escalations answered by a supervisor.",
		}),
		EscalationsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "frontdesk_escalations_expired_total",
			Help: "Pending escalations aged out to UNRESOLVED.",
		}),
		PendingEscalations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "frontdesk_pending_escalations",
			Help: "Pending escalations seen by the last sweep.",
		}),
		PublishFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frontdesk_publish_failures_total",
			Help: "Failed knowledge re-ingestion side effects, by target.",
		}, []string{"target"}),
	}

	if reg == nil {
		return m
	}

	m.Queries = register(reg, m.Queries)
	m.EscalationsRecorded = register(reg, m.EscalationsRecorded)
	m.EscalationsResolved = register(reg, m.EscalationsResolved)
	m.EscalationsExpired = register(reg, m.EscalationsExpired)
	m.PendingEscalations = register(reg, m.PendingEscalations)
	m.PublishFailures = register(reg, m.PublishFailures)
	return m
}

// NewUnregistered returns collectors that are not exported anywhere; used by tests
// and by services constructed without a registry.
func NewUnregistered() *Metrics {
	return New(nil)
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}
