package metrics

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		input  []float64
		expect float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5.0}, 5.0},
		{"multiple", []float64{1, 2, 3, 4, 5}, 3.0},
		{"tokens", []float64{100, 300}, 200},
		{"negative", []float64{-2, 0, 2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mean(tt.input)
			if !approxEqual(got, tt.expect) {
				t.Errorf("Mean(%v) = %f, want %f", tt.input, got, tt.expect)
			}
		})
	}
}

func TestSampleStdDev(t *testing.T) {
	tests := []struct {
		name   string
		input  []float64
		expect float64
	}{
		{"empty", nil, 0},
		{"single", []float64{42}, 0},
		{"uniform", []float64{3, 3, 3}, 0},
		{"pair", []float64{100, 300}, math.Sqrt(20000)},
		{"simple", []float64{2, 4, 4, 4, 5, 5, 7, 9}, math.Sqrt(32.0 / 7.0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SampleStdDev(tt.input)
			if !approxEqual(got, tt.expect) {
				t.Errorf("SampleStdDev(%v) = %f, want %f", tt.input, got, tt.expect)
			}
		})
	}
}

func TestSingleSampleStdIsExactlyZero(t *testing.T) {
	if got := SampleStdDev([]float64{123456.789}); got != 0 {
		t.Errorf("SampleStdDev of one sample = %v, want exactly 0", got)
	}
}

func TestSummarize(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if got := Summarize(nil); got != (Stats{}) {
			t.Errorf("Summarize(nil) = %+v, want zero Stats", got)
		}
	})

	t.Run("values", func(t *testing.T) {
		got := Summarize([]float64{300, 100, 200})
		if !approxEqual(got.Avg, 200) {
			t.Errorf("Avg = %f, want 200", got.Avg)
		}
		if !approxEqual(got.Std, 100) {
			t.Errorf("Std = %f, want 100", got.Std)
		}
		if got.Min != 100 || got.Max != 300 {
			t.Errorf("Min/Max = %f/%f, want 100/300", got.Min, got.Max)
		}
	})
}

func TestPercentDiff(t *testing.T) {
	tests := []struct {
		name        string
		base, other float64
		expect      float64
	}{
		{"zero base", 0, 50, 0},
		{"equal means", 200, 200, 0},
		{"increase", 100, 150, 50},
		{"decrease", 200, 100, -50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentDiff(tt.base, tt.other)
			if !approxEqual(got, tt.expect) {
				t.Errorf("PercentDiff(%v, %v) = %f, want %f", tt.base, tt.other, got, tt.expect)
			}
		})
	}
}

func TestGuardedPercentDiff(t *testing.T) {
	if got := GuardedPercentDiff(0, 5, 1); !approxEqual(got, 500) {
		t.Errorf("GuardedPercentDiff(0, 5, 1) = %f, want 500", got)
	}
	if got := GuardedPercentDiff(10, 5, 1); !approxEqual(got, -50) {
		t.Errorf("GuardedPercentDiff(10, 5, 1) = %f, want -50", got)
	}
}
