// Package metrics exposes prometheus instrumentation for the equity
// simulator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/k3s4/adk-poker-42/sdk/analysis"
)

const namespace = "poker_odds"

// SimulationMetrics records equity calculations. It implements
// analysis.Observer.
type SimulationMetrics struct {
	calculationsCounter *prometheus.CounterVec
	samplesCounter      prometheus.Counter
	durationHistogram   prometheus.Histogram
	entrantsGauge       prometheus.Gauge
}

var _ analysis.Observer = (*SimulationMetrics)(nil)

// NewSimulationMetrics registers the simulator metrics with reg.
func NewSimulationMetrics(reg prometheus.Registerer) *SimulationMetrics {
	f := promauto.With(reg)
	return &SimulationMetrics{
		calculationsCounter: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "equity_calculations_total",
			Help:      "Total number of equity calculations by outcome and sampling mode",
		}, []string{"outcome", "mode"}),
		samplesCounter: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "equity_samples_total",
			Help:      "Total number of simulated deals",
		}),
		durationHistogram: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "equity_calculation_duration_seconds",
			Help:      "Wall time of successful equity calculations",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		entrantsGauge: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "equity_last_entrants",
			Help:      "Number of entrants in the most recent successful calculation",
		}),
	}
}

// ObserveCalculation implements analysis.Observer.
func (m *SimulationMetrics) ObserveCalculation(res analysis.Result, err error) {
	if err != nil {
		m.calculationsCounter.WithLabelValues("error", "none").Inc()
		return
	}
	mode := "enumerated"
	if res.Assignments < 0 {
		mode = "rejection"
	}
	m.calculationsCounter.WithLabelValues("ok", mode).Inc()
	m.samplesCounter.Add(float64(res.Samples))
	m.durationHistogram.Observe(res.Elapsed.Seconds())
	m.entrantsGauge.Set(float64(len(res.Equities)))
}

// WriteFile dumps every metric gathered by g to path in the text
// exposition format.
func WriteFile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
