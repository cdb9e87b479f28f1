// Package metrics holds the summary statistics used to compare benchmark runs.
package metrics

import "math"

// Stats summarises one metric across a set of runs.
type Stats struct {
	Avg float64 `json:"avg"`
	Std float64 `json:"std"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Summarize computes mean, sample standard deviation, min and max.
// Empty input yields the zero Stats.
func Summarize(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	return Stats{
		Avg: Mean(values),
		Std: SampleStdDev(values),
		Min: Min(values),
		Max: Max(values),
	}
}

// Mean computes the arithmetic mean of a float64 slice.
// Returns 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SampleVariance computes the variance with Bessel's correction.
// Returns 0 for fewer than two values.
func SampleVariance(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return sumSq / float64(n-1)
}

// SampleStdDev is the square root of SampleVariance. A single sample has
// a standard deviation of exactly 0.
func SampleStdDev(values []float64) float64 {
	return math.Sqrt(SampleVariance(values))
}

// Min returns the smallest value, or 0 for empty input.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	lo := values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
	}
	return lo
}

// Max returns the largest value, or 0 for empty input.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	hi := values[0]
	for _, v := range values[1:] {
		if v > hi {
			hi = v
		}
	}
	return hi
}

// PercentDiff returns (other-base)/base*100, or 0 when base is 0.
func PercentDiff(base, other float64) float64 {
	if base == 0 {
		return 0
	}
	return (other - base) / base * 100
}

// GuardedPercentDiff is PercentDiff with the denominator clamped to floor.
// Used where a zero or near-zero baseline should still produce a signed diff.
func GuardedPercentDiff(base, other, floor float64) float64 {
	return (other - base) / math.Max(base, floor) * 100
}
