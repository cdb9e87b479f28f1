package benchmark

import "github.com/claudekit/skillbench/internal/metrics"

// ComparableThreshold is the absolute percentage difference below which a
// metric is reported as comparable between methods.
const ComparableThreshold = 10.0

// ComparisonRow is one metric compared between the baseline and another
// method. Diff is (Other-Base)/Base*100, or 0 when Base is 0.
type ComparisonRow struct {
	Dimension Dimension `json:"dimension"`
	Base      float64   `json:"base"`
	Other     float64   `json:"other"`
	Diff      float64   `json:"diff_percent"`
}

// Better is the key of the method with the more favorable value, or ""
// when both are equal.
func (r ComparisonRow) Better(base, other string) string {
	switch r.Dimension.Favors(r.Base, r.Other) {
	case -1:
		return base
	case 1:
		return other
	}
	return ""
}

// Comparable reports whether |Diff| is below threshold.
func (r ComparisonRow) Comparable(threshold float64) bool {
	d := r.Diff
	if d < 0 {
		d = -d
	}
	return d < threshold
}

// Comparison is the outcome of comparing two methods.
type Comparison struct {
	Base      string          `json:"base"`
	Other     string          `json:"other"`
	Rows      []ComparisonRow `json:"rows"`
	BaseWins  int             `json:"base_wins"`
	OtherWins int             `json:"other_wins"`
	Votes     int             `json:"votes"`
	// Winner is the key of the winning method, empty on a tie.
	Winner string `json:"winner,omitempty"`
}

// Tie reports whether neither method won more metrics.
func (c Comparison) Tie() bool {
	return c.Winner == ""
}

// Wins returns the number of metrics that favor the method with key.
func (c Comparison) Wins(key string) int {
	switch key {
	case c.Base:
		return c.BaseWins
	case c.Other:
		return c.OtherWins
	}
	return 0
}

// Row returns the row of dimension d.
func (c Comparison) Row(d Dimension) (ComparisonRow, bool) {
	for _, r := range c.Rows {
		if r.Dimension == d {
			return r, true
		}
	}
	return ComparisonRow{}, false
}

// Compare computes per-metric means and differences for rows, then lets
// each metric in votes award a point to the strictly better method. Equal
// means award no point, and equal totals are a tie.
func Compare(base, other *MethodResults, rows, votes []Dimension) Comparison {
	c := Comparison{Base: base.Key, Other: other.Key, Votes: len(votes)}
	for _, d := range rows {
		c.Rows = append(c.Rows, compareRow(base, other, d))
	}

	for _, d := range votes {
		r, ok := c.Row(d)
		if !ok {
			r = compareRow(base, other, d)
		}
		switch d.Favors(r.Base, r.Other) {
		case -1:
			c.BaseWins++
		case 1:
			c.OtherWins++
		}
	}

	switch {
	case c.BaseWins > c.OtherWins:
		c.Winner = base.Key
	case c.OtherWins > c.BaseWins:
		c.Winner = other.Key
	}
	return c
}

func compareRow(base, other *MethodResults, d Dimension) ComparisonRow {
	b, o := base.Mean(d), other.Mean(d)
	return ComparisonRow{Dimension: d, Base: b, Other: o, Diff: metrics.PercentDiff(b, o)}
}

// CompareProfile compares every non-baseline method of p against the
// baseline. Pairs where either side has no runs are omitted.
func CompareProfile(p Profile, res *Results) []Comparison {
	base, ok := res.Method(p.Baseline)
	if !ok || base.Empty() {
		return nil
	}
	var out []Comparison
	for _, m := range res.Methods {
		if m.Key == base.Key || m.Empty() {
			continue
		}
		out = append(out, Compare(base, m, p.Comparison, p.Winner))
	}
	return out
}
