package benchmark

import (
	"github.com/claudekit/skillbench/internal/metrics"
	"github.com/claudekit/skillbench/internal/transcript"
)

// RunSource records where a run's metrics came from.
type RunSource string

const (
	SourceTranscript RunSource = "transcript"
	SourceHookLog    RunSource = "hook_log"
)

// Verification is the summary a workspace checker left for a run.
type Verification struct {
	Accuracy float64 `json:"accuracy"`
	Passed   int     `json:"passed"`
	Total    int     `json:"total"`
}

// Run is one benchmark execution of a method.
type Run struct {
	Method       string                `json:"method"`
	Index        int                   `json:"index"`
	Label        string                `json:"label"`
	SessionID    string                `json:"session_id,omitempty"`
	Source       RunSource             `json:"source"`
	Metrics      transcript.RunMetrics `json:"metrics"`
	WalltimeS    int                   `json:"walltime_s,omitempty"`
	Verification Verification          `json:"verification"`
}

// MethodResults holds the ordered runs of one method.
type MethodResults struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Runs  []Run  `json:"runs"`
}

// Values returns d for every run in order.
func (m *MethodResults) Values(d Dimension) []float64 {
	vals := make([]float64, len(m.Runs))
	for i, r := range m.Runs {
		vals[i] = d.Value(r)
	}
	return vals
}

// Stats summarises d across the runs. No runs yields zero statistics.
func (m *MethodResults) Stats(d Dimension) metrics.Stats {
	return metrics.Summarize(m.Values(d))
}

// Mean is the average of d across the runs.
func (m *MethodResults) Mean(d Dimension) float64 {
	return metrics.Mean(m.Values(d))
}

// Empty reports whether the method has no runs.
func (m *MethodResults) Empty() bool {
	return len(m.Runs) == 0
}

// Results are the per-method runs of one profile, in profile order.
type Results struct {
	Profile string           `json:"profile"`
	Methods []*MethodResults `json:"methods"`
}

// NewResults returns empty results for every method of p.
func NewResults(p Profile) *Results {
	r := &Results{Profile: p.Name}
	for _, m := range p.Methods {
		r.Methods = append(r.Methods, &MethodResults{Key: m.Key, Label: m.Label})
	}
	return r
}

// Method returns the results of the method with key.
func (r *Results) Method(key string) (*MethodResults, bool) {
	for _, m := range r.Methods {
		if m.Key == key {
			return m, true
		}
	}
	return nil, false
}

// TotalRuns counts runs over all methods.
func (r *Results) TotalRuns() int {
	n := 0
	for _, m := range r.Methods {
		n += len(m.Runs)
	}
	return n
}
