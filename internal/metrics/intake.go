// Package metrics exposes Prometheus collectors for the mail intake pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Intake outcomes.
const (
	OutcomeProcessed = "processed"
	OutcomeNoEntity  = "no_entity"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

// Provider labels for simulated fallbacks.
const (
	ProviderScan = "scan"
	ProviderOCR  = "ocr"
)

// IntakeMetrics holds the intake collectors. A nil *IntakeMetrics records nothing.
type IntakeMetrics struct {
	intakeTotal    *prometheus.CounterVec
	intakeDuration prometheus.Histogram
	fallbackTotal  *prometheus.CounterVec
}

// NewIntakeMetrics creates the collectors and registers them with reg.
func NewIntakeMetrics(reg prometheus.Registerer) (*IntakeMetrics, error) {
	m := &IntakeMetrics{
		intakeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mail_intake_total",
				Help: "Mail notifications handled, by outcome.",
			},
			[]string{"outcome"},
		),
		intakeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mail_intake_duration_seconds",
				Help:    "Time to take one mail item from notification to persisted document.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
			},
		),
		fallbackTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provider_fallback_total",
				Help: "Provider calls answered with simulated data.",
			},
			[]string{"provider"},
		),
	}

	for _, c := range []prometheus.Collector{m.intakeTotal, m.intakeDuration, m.fallbackTotal} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveIntake counts one handled notification and, for processed mail, its duration.
func (m *IntakeMetrics) ObserveIntake(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.intakeTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeProcessed {
		m.intakeDuration.Observe(elapsed.Seconds())
	}
}

// IncFallback counts a simulated provider answer.
func (m *IntakeMetrics) IncFallback(provider string) {
	if m == nil {
		return
	}
	m.fallbackTotal.WithLabelValues(provider).Inc()
}
