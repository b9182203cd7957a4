package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/GoosefleetEO/miningtaxes/internal/usecase"
)

// Metrics holds the engine's Prometheus metrics.
type Metrics struct {
	// Cycle metrics
	CycleRuns     *prometheus.CounterVec
	CycleDuration prometheus.Histogram
	StepDuration  *prometheus.HistogramVec
	StepItems     *prometheus.CounterVec
	StepErrors    *prometheus.CounterVec

	// Ledger metrics
	InterestCharged prometheus.Counter

	// Database metrics
	DBConnections prometheus.Gauge
}

// New creates the metrics and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		CycleRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "miningtax_cycle_runs_total",
				Help: "Total maintenance cycle runs by outcome",
			},
			[]string{"outcome"},
		),
		CycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "miningtax_cycle_duration_seconds",
			Help:    "Duration of a full maintenance cycle",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 900, 1800, 3600},
		}),
		StepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "miningtax_step_duration_seconds",
				Help:    "Duration of each cycle step",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"step"},
		),
		StepItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "miningtax_step_items_total",
				Help: "Items handled by cycle steps by result",
			},
			[]string{"step", "result"},
		),
		StepErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "miningtax_step_errors_total",
				Help: "Total cycle step failures",
			},
			[]string{"step"},
		),

		InterestCharged: factory.NewCounter(prometheus.CounterOpts{
			Name: "miningtax_interest_charges_total",
			Help: "Total interest charges posted",
		}),

		DBConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "miningtax_db_connections",
			Help: "Current number of acquired database connections",
		}),
	}
}

// ObserveStep implements usecase.StepObserver.
func (m *Metrics) ObserveStep(step string, d time.Duration, result usecase.BatchResult, err error) {
	m.StepDuration.WithLabelValues(step).Observe(d.Seconds())
	m.StepItems.WithLabelValues(step, "processed").Add(float64(result.Processed))
	m.StepItems.WithLabelValues(step, "skipped").Add(float64(result.Skipped))
	m.StepItems.WithLabelValues(step, "failed").Add(float64(result.Failed))

	if err != nil {
		m.StepErrors.WithLabelValues(step).Inc()
	}

	if step == usecase.StepAccrueInterest {
		m.InterestCharged.Add(float64(result.Processed))
	}
}

// ObserveCycle records the outcome of a finished run.
func (m *Metrics) ObserveCycle(report *usecase.CycleReport) {
	outcome := "success"
	switch {
	case report.Failed() && report.Retryable():
		outcome = "retryable"
	case report.Failed():
		outcome = "failed"
	}

	m.CycleRuns.WithLabelValues(outcome).Inc()
	m.CycleDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
}
