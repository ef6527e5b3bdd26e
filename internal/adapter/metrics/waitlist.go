package metrics

import "github.com/prometheus/client_golang/prometheus"

// WaitlistMetrics counts waitlist operations by outcome.
type WaitlistMetrics struct {
	Outcomes *prometheus.CounterVec
}

// NewWaitlistMetrics creates and registers waitlist metrics on the given registry.
func NewWaitlistMetrics(reg prometheus.Registerer) *WaitlistMetrics {
	m := &WaitlistMetrics{
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total number of waitlist operations, by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}

	reg.MustRegister(m.Outcomes)
	return m
}

func (m *WaitlistMetrics) RecordOutcome(operation, outcome string) {
	m.Outcomes.WithLabelValues(operation, outcome).Inc()
}
