package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SagaMetrics records the payment confirmation saga's step outcomes.
type SagaMetrics struct {
	stepDuration *prometheus.HistogramVec
	stepFailures *prometheus.CounterVec
	sagas        *prometheus.CounterVec
}

// NewSagaMetrics registers the saga metrics on the provided registerer.
func NewSagaMetrics(reg prometheus.Registerer) *SagaMetrics {
	if reg == nil {
		return &SagaMetrics{}
	}
	stepDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "saga_step_duration_seconds",
		Help:    "Duration of payment saga steps in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"step"})
	stepFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "saga_step_failures_total",
		Help: "Failed payment saga steps.",
	}, []string{"step"})
	sagas := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "saga_runs_total",
		Help: "Payment saga executions by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(stepDuration, stepFailures, sagas)
	return &SagaMetrics{
		stepDuration: stepDuration,
		stepFailures: stepFailures,
		sagas:        sagas,
	}
}

// ObserveStep records the duration of a completed step.
func (m *SagaMetrics) ObserveStep(step string, elapsed time.Duration) {
	if m == nil || m.stepDuration == nil {
		return
	}
	m.stepDuration.WithLabelValues(step).Observe(elapsed.Seconds())
}

// IncStepFailure increments the failure counter for the named step.
func (m *SagaMetrics) IncStepFailure(step string) {
	if m == nil || m.stepFailures == nil {
		return
	}
	m.stepFailures.WithLabelValues(step).Inc()
}

// IncSaga increments the run counter for the given outcome.
func (m *SagaMetrics) IncSaga(outcome string) {
	if m == nil || m.sagas == nil {
		return
	}
	m.sagas.WithLabelValues(outcome).Inc()
}
