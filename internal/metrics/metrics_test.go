package metrics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k3s4/adk-poker-42/sdk/analysis"
)

func TestSimulationMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSimulationMetrics(reg)

	m.ObserveCalculation(analysis.Result{Equities: []float64{0.8, 0.2}, Samples: 500, Assignments: 36, Elapsed: 20 * time.Millisecond}, nil)
	m.ObserveCalculation(analysis.Result{Equities: []float64{0.4, 0.3, 0.3}, Samples: 250, Assignments: -1, Elapsed: time.Second}, nil)
	m.ObserveCalculation(analysis.Result{}, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.calculationsCounter.WithLabelValues("ok", "enumerated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calculationsCounter.WithLabelValues("ok", "rejection")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calculationsCounter.WithLabelValues("error", "none")))
	assert.Equal(t, 750.0, testutil.ToFloat64(m.samplesCounter))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.entrantsGauge))

	count, err := testutil.GatherAndCount(reg, "poker_odds_equity_calculation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSimulationMetricsAsObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSimulationMetrics(reg)

	_, err := analysis.CalculateEquities(context.Background(), analysis.Request{
		Ranges:  []*analysis.Range{analysis.MustParseRange("AA"), analysis.MustParseRange("KK")},
		Samples: 100,
	}, analysis.WithSeed(1), analysis.WithObserver(m))
	require.NoError(t, err)

	expected := `
# HELP poker_odds_equity_samples_total Total number of simulated deals
# TYPE poker_odds_equity_samples_total counter
poker_odds_equity_samples_total 100
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "poker_odds_equity_samples_total"))
}

func TestWriteFile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSimulationMetrics(reg)
	m.ObserveCalculation(analysis.Result{Equities: []float64{1}, Samples: 10}, nil)

	path := filepath.Join(t.TempDir(), "odds.prom")
	require.NoError(t, WriteFile(path, reg))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "poker_odds_equity_samples_total 10")
}
