// Package metrics defines the Prometheus collectors of the indicator engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for indicator computations.
type Metrics struct {
	ComputeDur   *prometheus.HistogramVec // labels: indicator
	ComputeTotal *prometheus.CounterVec   // labels: indicator
	NaNValues    *prometheus.CounterVec   // labels: indicator
	Errors       *prometheus.CounterVec   // labels: reason
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg gets a private registry, so metrics are collected but not exported.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		ComputeDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "finance_indicator_compute_duration_seconds",
			Help:    "Indicator compute latency per request",
			Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1},
		}, []string{"indicator"}),
		ComputeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "finance_indicator_computations_total",
			Help: "Total indicator computations",
		}, []string{"indicator"}),
		NaNValues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "finance_indicator_nan_values_total",
			Help: "NaN values emitted across all output columns",
		}, []string{"indicator"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "finance_indicator_errors_total",
			Help: "Rejected indicator requests by reason",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		m.ComputeDur,
		m.ComputeTotal,
		m.NaNValues,
		m.Errors,
	)

	return m
}

// ObserveCompute records one successful computation.
func (m *Metrics) ObserveCompute(indicator string, dur time.Duration, nanCount int) {
	m.ComputeDur.WithLabelValues(indicator).Observe(dur.Seconds())
	m.ComputeTotal.WithLabelValues(indicator).Inc()
	m.NaNValues.WithLabelValues(indicator).Add(float64(nanCount))
}

// ObserveError records one rejected request.
func (m *Metrics) ObserveError(reason string) {
	m.Errors.WithLabelValues(reason).Inc()
}
