// Package statistics summarises Monte Carlo outcomes.
package statistics

import "math"

// Z95 is the two-sided 95% quantile of the standard normal distribution.
const Z95 = 1.96

// Summary accumulates the running moments of a series of outcomes, such
// as one entrant's share of the pot in each simulated deal. The zero value
// is an empty summary.
type Summary struct {
	N   int
	Min float64
	Max float64

	mean float64
	m2   float64 // Sum of squared deviations from the running mean
}

// Add incorporates one outcome using Welford's update.
func (s *Summary) Add(x float64) {
	if s.N == 0 || x < s.Min {
		s.Min = x
	}
	if s.N == 0 || x > s.Max {
		s.Max = x
	}
	s.N++
	delta := x - s.mean
	s.mean += delta / float64(s.N)
	s.m2 += delta * (x - s.mean)
}

// Mean returns the arithmetic mean, zero when empty.
func (s Summary) Mean() float64 {
	return s.mean
}

// Variance returns the sample variance.
func (s Summary) Variance() float64 {
	if s.N < 2 {
		return 0
	}
	return s.m2 / float64(s.N-1)
}

// StdDev returns the sample standard deviation
func (s Summary) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s Summary) StdError() float64 {
	if s.N == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.N))
}

// Interval95 returns the normal-approximation 95% confidence interval
// around mean for the given standard error.
func Interval95(mean, stdErr float64) (float64, float64) {
	margin := Z95 * stdErr
	return mean - margin, mean + margin
}
