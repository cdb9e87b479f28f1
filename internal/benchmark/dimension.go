package benchmark

// Dimension is one comparable metric of a run.
type Dimension string

const (
	DimTokens       Dimension = "tokens"
	DimDuration     Dimension = "duration"
	DimTools        Dimension = "tools"
	DimSubagents    Dimension = "subagents"
	DimReviewCycles Dimension = "review_cycles"
	DimAccuracy     Dimension = "accuracy"
)

var dimensionLabels = map[Dimension]string{
	DimTokens:       "Tokens",
	DimDuration:     "Duration",
	DimTools:        "Tools",
	DimSubagents:    "Subagents",
	DimReviewCycles: "Review Cycles",
	DimAccuracy:     "Accuracy",
}

// Valid reports whether d is a known metric.
func (d Dimension) Valid() bool {
	_, ok := dimensionLabels[d]
	return ok
}

// Label is the display name of the metric.
func (d Dimension) Label() string {
	if l, ok := dimensionLabels[d]; ok {
		return l
	}
	return string(d)
}

// LowerIsBetter is false only for accuracy.
func (d Dimension) LowerIsBetter() bool {
	return d != DimAccuracy
}

// Value extracts the metric from a run. Duration is in milliseconds and
// accuracy is a fraction in [0,1].
func (d Dimension) Value(r Run) float64 {
	switch d {
	case DimTokens:
		return float64(r.Metrics.TotalTokens)
	case DimDuration:
		return float64(r.Metrics.DurationMs)
	case DimTools:
		return float64(r.Metrics.ToolCount())
	case DimSubagents:
		return float64(r.Metrics.SubagentCount())
	case DimReviewCycles:
		return float64(r.Metrics.ReviewCycles)
	case DimAccuracy:
		return r.Verification.Accuracy
	}
	return 0
}

// Favors compares two values of this metric: -1 when a is strictly
// better, 1 when b is strictly better and 0 on equality.
func (d Dimension) Favors(a, b float64) int {
	if a == b {
		return 0
	}
	if (a < b) == d.LowerIsBetter() {
		return -1
	}
	return 1
}
