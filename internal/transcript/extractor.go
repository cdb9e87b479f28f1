package transcript

import (
	"iter"
	"log/slog"
	"maps"
	"slices"
	"time"
)

// ExtractorConfig names the tools and subagents that get dedicated counters.
type ExtractorConfig struct {
	// DelegateTool is the tool whose input.subagent_type is counted.
	DelegateTool string `yaml:"delegate_tool,omitempty" json:"delegate_tool,omitempty"`
	// ReviewSubagent is the subagent type counted as one review cycle.
	ReviewSubagent string `yaml:"review_subagent,omitempty" json:"review_subagent,omitempty"`
	TaskCreateTool string `yaml:"task_create_tool,omitempty" json:"task_create_tool,omitempty"`
	TaskUpdateTool string `yaml:"task_update_tool,omitempty" json:"task_update_tool,omitempty"`
}

// DefaultExtractorConfig matches the Claude Code tool set.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		DelegateTool:   "Task",
		ReviewSubagent: "code-reviewer",
		TaskCreateTool: "TaskCreate",
		TaskUpdateTool: "TaskUpdate",
	}
}

// RunMetrics is the metric set of one transcript.
type RunMetrics struct {
	InputTokens  int64          `json:"input_tokens"`
	OutputTokens int64          `json:"output_tokens"`
	TotalTokens  int64          `json:"total_tokens"`
	DurationMs   int64          `json:"duration_ms"`
	Tools        map[string]int `json:"tools,omitempty"`
	Subagents    map[string]int `json:"subagents,omitempty"`
	ReviewCycles int            `json:"review_cycles"`
	TaskCreates  int            `json:"task_creates"`
	TaskUpdates  int            `json:"task_updates"`
}

// ToolCount is the total number of tool invocations.
func (m RunMetrics) ToolCount() int {
	return sumCounts(m.Tools)
}

// SubagentCount is the total number of delegated subagent invocations.
func (m RunMetrics) SubagentCount() int {
	return sumCounts(m.Subagents)
}

// SortedTools returns tool names in lexical order.
func (m RunMetrics) SortedTools() []string {
	return slices.Sorted(maps.Keys(m.Tools))
}

// SortedSubagents returns subagent types in lexical order.
func (m RunMetrics) SortedSubagents() []string {
	return slices.Sorted(maps.Keys(m.Subagents))
}

func sumCounts(counts map[string]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}

// Extractor folds the lines of a single transcript into RunMetrics.
// Skipped lines are counted and otherwise ignored.
type Extractor struct {
	cfg ExtractorConfig

	firstTS    string
	lastTS     string
	timestamps int
	skipped    int

	input, output int64
	tools         map[string]int
	subagents     map[string]int
	reviews       int
	creates       int
	updates       int
}

// NewExtractor returns an empty extractor.
func NewExtractor(cfg ExtractorConfig) *Extractor {
	return &Extractor{
		cfg:       cfg,
		tools:     map[string]int{},
		subagents: map[string]int{},
	}
}

// Add folds one line.
func (e *Extractor) Add(l Line) {
	if !l.OK() {
		e.skipped++
		slog.Debug("skipping transcript line", "line", l.Number, "error", l.Skipped)
		return
	}

	rec := l.Record
	if rec.Timestamp != "" {
		if e.firstTS == "" {
			e.firstTS = rec.Timestamp
		}
		e.lastTS = rec.Timestamp
		e.timestamps++
	}

	if rec.Message == nil {
		return
	}
	if u := rec.Message.Usage; u != nil {
		e.input += u.Input()
		e.output += u.OutputTokens
	}
	for _, b := range rec.Message.Content {
		if b.Type != BlockToolUse {
			continue
		}
		name := b.ToolName()
		e.tools[name]++

		switch name {
		case e.cfg.DelegateTool:
			sub := b.SubagentType()
			e.subagents[sub]++
			if sub == e.cfg.ReviewSubagent {
				e.reviews++
			}
		case e.cfg.TaskCreateTool:
			e.creates++
		case e.cfg.TaskUpdateTool:
			e.updates++
		}
	}
}

// Skipped is the number of lines that failed to parse.
func (e *Extractor) Skipped() int {
	return e.skipped
}

// Metrics returns a snapshot of the accumulated metrics. The maps are
// copies; later Add calls do not affect a returned value.
func (e *Extractor) Metrics() RunMetrics {
	return RunMetrics{
		InputTokens:  e.input,
		OutputTokens: e.output,
		TotalTokens:  e.input + e.output,
		DurationMs:   e.durationMs(),
		Tools:        maps.Clone(e.tools),
		Subagents:    maps.Clone(e.subagents),
		ReviewCycles: e.reviews,
		TaskCreates:  e.creates,
		TaskUpdates:  e.updates,
	}
}

func (e *Extractor) durationMs() int64 {
	if e.timestamps < 2 {
		return 0
	}
	first, err := parseTimestamp(e.firstTS)
	if err != nil {
		return 0
	}
	last, err := parseTimestamp(e.lastTS)
	if err != nil {
		return 0
	}
	return last.Sub(first).Milliseconds()
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	// timestamps without a zone offset are read as UTC
	return time.Parse("2006-01-02T15:04:05.999999999", s)
}

// Extract folds a whole line sequence.
func Extract(lines iter.Seq[Line], cfg ExtractorConfig) (RunMetrics, int) {
	e := NewExtractor(cfg)
	for l := range lines {
		e.Add(l)
	}
	return e.Metrics(), e.Skipped()
}

// ExtractFile reads and folds the transcript at path. A missing transcript
// yields empty metrics.
func ExtractFile(path string, cfg ExtractorConfig) (RunMetrics, error) {
	lines, err := ReadFile(path)
	if err != nil {
		return RunMetrics{}, err
	}
	m, skipped := Extract(slices.Values(lines), cfg)
	if skipped > 0 {
		slog.Debug("skipped malformed transcript lines", "path", path, "count", skipped)
	}
	return m, nil
}
