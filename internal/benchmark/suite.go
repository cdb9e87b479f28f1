package benchmark

import (
	"fmt"
	"path/filepath"

	"github.com/claudekit/skillbench/internal/transcript"
)

// TaskResult holds the CLI metrics of one suite task. A task whose result
// file is missing keeps zero metrics.
type TaskResult struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	SessionID    string  `json:"session_id,omitempty"`
	Tokens       int64   `json:"tokens"`
	InputTokens  int64   `json:"tokens_input"`
	OutputTokens int64   `json:"tokens_output"`
	CacheRead    int64   `json:"tokens_cache_read"`
	DurationMs   float64 `json:"duration_ms"`
	CostUSD      float64 `json:"cost_usd"`
	NumTurns     int     `json:"num_turns"`
	Found        bool    `json:"found"`
}

// SuiteResults aggregates one variant's answers to a task list.
type SuiteResults struct {
	Kind             string       `json:"kind"`
	Tasks            []TaskResult `json:"tasks"`
	TotalTokens      int64        `json:"total_tokens"`
	TotalDurationMs  float64      `json:"total_duration_ms"`
	TotalCostUSD     float64      `json:"total_cost_usd"`
	AvgTokensPerTask float64      `json:"avg_tokens_per_task"`
}

// ResultFile is the CLI output file of task i (0-based) for kind.
func ResultFile(dir, kind string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("%s-task-%d.json", kind, i))
}

// AnalyzeSuite reads <kind>-task-<i>.json for every task name in order.
func AnalyzeSuite(dir, kind string, taskNames []string) (*SuiteResults, error) {
	s := &SuiteResults{Kind: kind}
	for i, name := range taskNames {
		tr := TaskResult{ID: i, Name: name}
		r, err := transcript.ReadResultFile(ResultFile(dir, kind, i))
		if err != nil {
			return nil, fmt.Errorf("task %d of %s: %w", i, kind, err)
		}
		if r != nil {
			tr.Found = true
			tr.SessionID = r.SessionID
			tr.Tokens = r.TotalTokens()
			tr.InputTokens = r.Usage.InputTokens
			tr.OutputTokens = r.Usage.OutputTokens
			tr.CacheRead = r.Usage.CacheReadInputTokens
			tr.DurationMs = r.DurationMs
			tr.CostUSD = r.TotalCostUSD
			tr.NumTurns = r.NumTurns
		}

		s.Tasks = append(s.Tasks, tr)
		s.TotalTokens += tr.Tokens
		s.TotalDurationMs += tr.DurationMs
		s.TotalCostUSD += tr.CostUSD
	}
	if len(taskNames) > 0 {
		s.AvgTokensPerTask = float64(s.TotalTokens) / float64(len(taskNames))
	}
	return s, nil
}
