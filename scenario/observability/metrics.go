// Package observability exposes Prometheus metrics for selection runs.
package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/scenfire/scenfire/scenario"
)

// Metrics holds the Prometheus counters, histograms, and gauges for a selection run.
// It implements scenario.Observer.
type Metrics struct {
	Attempts           *prometheus.CounterVec   // labels: mode, outcome={scored,empty}
	AttemptDiscrepancy *prometheus.HistogramVec // labels: mode
	SelectionSize      *prometheus.HistogramVec // labels: mode
	BestDiscrepancy    prometheus.Gauge
	BestSurface        prometheus.Gauge
	Converged          prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates the selection metrics and registers them on a fresh
// registry, so one process can run several selections.
func NewMetrics() *Metrics {
	m := &Metrics{
		Attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scenfire",
			Name:      "attempts_total",
			Help:      "Selection attempts by mode and outcome.",
		}, []string{"mode", "outcome"}),
		AttemptDiscrepancy: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scenfire",
			Name:      "attempt_discrepancy",
			Help:      "Discrepancy of each scored attempt against the target histogram.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		}, []string{"mode"}),
		SelectionSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scenfire",
			Name:      "attempt_selection_size",
			Help:      "Number of events in each scored attempt.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 16),
		}, []string{"mode"}),
		BestDiscrepancy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "scenfire",
			Name:      "best_discrepancy",
			Help:      "Discrepancy of the returned selection.",
		}),
		BestSurface: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "scenfire",
			Name:      "best_total_surface",
			Help:      "Accumulated surface of the returned selection.",
		}),
		Converged: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "scenfire",
			Name:      "converged",
			Help:      "1 when the returned selection reached the tolerance, 0 otherwise.",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.Attempts,
		m.AttemptDiscrepancy,
		m.SelectionSize,
		m.BestDiscrepancy,
		m.BestSurface,
		m.Converged,
	)
	return m
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// AttemptScored implements scenario.Observer.
func (m *Metrics) AttemptScored(mode scenario.Mode, discrepancy float64, selected int, _ float64) {
	m.Attempts.WithLabelValues(string(mode), "scored").Inc()
	m.AttemptDiscrepancy.WithLabelValues(string(mode)).Observe(discrepancy)
	m.SelectionSize.WithLabelValues(string(mode)).Observe(float64(selected))
}

// AttemptEmpty implements scenario.Observer.
func (m *Metrics) AttemptEmpty(mode scenario.Mode) {
	m.Attempts.WithLabelValues(string(mode), "empty").Inc()
}

// RunFinished implements scenario.Observer.
func (m *Metrics) RunFinished(res *scenario.Result) {
	m.BestDiscrepancy.Set(res.Discrepancy)
	m.BestSurface.Set(res.TotalSurface)
	if res.Converged {
		m.Converged.Set(1)
	} else {
		m.Converged.Set(0)
	}
}

// WriteTextfile writes the metrics in the Prometheus text format, for the
// node_exporter textfile collector or for inspection.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
