package hooklog

// Summary is the metric set derivable from a hook log alone. Hook logs
// carry no per-response token usage.
type Summary struct {
	ToolCount     int
	ToolBreakdown map[string]int
	DurationMs    int64
}

// Summarize counts tool events by name and measures the span between the
// first and last event in file order.
func Summarize(events []Event) Summary {
	s := Summary{ToolBreakdown: map[string]int{}}
	if len(events) == 0 {
		return s
	}

	for _, ev := range events {
		if ev.Event != EventTool {
			continue
		}
		tool := ev.Tool
		if tool == "" {
			tool = "unknown"
		}
		s.ToolBreakdown[tool]++
		s.ToolCount++
	}
	s.DurationMs = events[len(events)-1].Ts - events[0].Ts
	return s
}
