package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the access service.
type Metrics struct {
	// Administrator decisions by verdict
	Decisions *prometheus.CounterVec

	// Slug issuance attempts by outcome
	Issuance *prometheus.CounterVec

	// Claims and re-bindings by outcome
	Claims *prometheus.CounterVec

	// Trusted API registrations
	Registrations prometheus.Counter

	// HTTP request latency by route and status
	RequestLatency *prometheus.HistogramVec
}

// New creates a new Metrics instance with all access service metrics
// registered on the default registry.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "oneclick_access_decisions_total",
			Help: "Total administrator decisions by verdict",
		}, []string{"decision"}), // decision: "approve", "reject"

		Issuance: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "oneclick_access_issuance_total",
			Help: "Total slug issuance attempts by outcome",
		}, []string{"outcome"}), // outcome: "issued", "not_entitled", "quota_exhausted", "failed"

		Claims: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "oneclick_access_claims_total",
			Help: "Total slug claims by outcome",
		}, []string{"outcome"}), // outcome: "claimed", "not_found", "invalid_reference"

		Registrations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "oneclick_access_registrations_total",
			Help: "Total entitlements registered through the trusted API",
		}),

		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "oneclick_access_request_duration_seconds",
			Help:    "HTTP request duration by route and status code",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "status"}),
	}
}

// IncrementDecision records an administrator verdict.
func (m *Metrics) IncrementDecision(decision string) {
	if m != nil {
		m.Decisions.WithLabelValues(decision).Inc()
	}
}

// IncrementIssuance records a slug issuance attempt.
func (m *Metrics) IncrementIssuance(outcome string) {
	if m != nil {
		m.Issuance.WithLabelValues(outcome).Inc()
	}
}

// IncrementClaim records a claim attempt.
func (m *Metrics) IncrementClaim(outcome string) {
	if m != nil {
		m.Claims.WithLabelValues(outcome).Inc()
	}
}

// IncrementRegistrations records a trusted API registration.
func (m *Metrics) IncrementRegistrations() {
	if m != nil {
		m.Registrations.Inc()
	}
}

// ObserveRequest records an HTTP request duration.
func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(route, status).Observe(d.Seconds())
	}
}
