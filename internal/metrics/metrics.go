// Package metrics exposes Prometheus instrumentation for fills and validation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fill outcomes.
const (
	OutcomeSuccess         = "success"
	OutcomeTemplateFailure = "template_failure"
	OutcomeSerializeError  = "serialize_failure"
	OutcomeCancelled       = "cancelled"
)

// Metrics provides observability for the fill pipeline.
type Metrics struct {
	// Completed fills by outcome
	Fills *prometheus.CounterVec

	// Per-field problems that left a field blank, by error type
	FieldWarnings *prometheus.CounterVec

	// Sections that failed validation when a step was submitted
	ValidationFailures *prometheus.CounterVec

	// Duration of a fill from template fetch to serialized bytes
	FillLatency prometheus.Histogram
}

// New registers the fill metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Fills: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "passport_fills_total",
			Help: "Total document fills by outcome",
		}, []string{"outcome"}),

		FieldWarnings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "passport_fill_field_warnings_total",
			Help: "Fields left blank because they could not be resolved or written",
		}, []string{"type"}),

		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "passport_validation_failures_total",
			Help: "Step submissions rejected by validation, by section",
		}, []string{"section"}),

		FillLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "passport_fill_duration_seconds",
			Help:    "Duration of a document fill including template fetch",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// IncrementFill records a finished fill.
func (m *Metrics) IncrementFill(outcome string) {
	if m != nil {
		m.Fills.WithLabelValues(outcome).Inc()
	}
}

// IncrementFieldWarning records a field that was skipped during a fill.
func (m *Metrics) IncrementFieldWarning(errorType string) {
	if m != nil {
		m.FieldWarnings.WithLabelValues(errorType).Inc()
	}
}

// IncrementValidationFailure records a rejected step submission.
func (m *Metrics) IncrementValidationFailure(section string) {
	if m != nil {
		m.ValidationFailures.WithLabelValues(section).Inc()
	}
}

// ObserveFillLatency records the total fill duration.
func (m *Metrics) ObserveFillLatency(d time.Duration) {
	if m != nil {
		m.FillLatency.Observe(d.Seconds())
	}
}
