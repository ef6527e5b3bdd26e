package metrics

import "github.com/prometheus/client_golang/prometheus"

// BreakerMetrics tracks the sheet store circuit breaker.
type BreakerMetrics struct {
	State       prometheus.Gauge
	Transitions *prometheus.CounterVec
}

// NewBreakerMetrics creates and registers circuit breaker metrics on the given registry.
func NewBreakerMetrics(reg prometheus.Registerer) *BreakerMetrics {
	m := &BreakerMetrics{
		State: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sheet_breaker",
			Name:      "state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open).",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sheet_breaker",
			Name:      "transitions_total",
			Help:      "Total number of circuit breaker state transitions, by target state.",
		}, []string{"to"}),
	}

	reg.MustRegister(m.State, m.Transitions)
	return m
}

// RecordState stores the numeric state and counts the transition.
func (m *BreakerMetrics) RecordState(name string, value float64) {
	m.State.Set(value)
	m.Transitions.WithLabelValues(name).Inc()
}
