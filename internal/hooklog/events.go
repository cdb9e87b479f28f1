// Package hooklog records and reads the NDJSON logs written by the
// benchmark logger hooks (PreToolUse/PostToolUse and Stop).
package hooklog

import "time"

// EventType identifies the kind of hook event.
type EventType string

const (
	EventTool       EventType = "tool"
	EventTokens     EventType = "tokens"
	EventSessionEnd EventType = "session_end"
)

// Event is one line of a hook log. Ts is milliseconds since the Unix epoch.
type Event struct {
	Event         EventType `json:"event"`
	Tool          string    `json:"tool,omitempty"`
	InputSize     int       `json:"input_size,omitempty"`
	Input         int64     `json:"input,omitempty"`
	Output        int64     `json:"output,omitempty"`
	Total         int64     `json:"total,omitempty"`
	ContextInput  int64     `json:"context_input,omitempty"`
	ContextOutput int64     `json:"context_output,omitempty"`
	Ts            int64     `json:"ts"`
}

// Time converts Ts to a time.Time.
func (e Event) Time() time.Time {
	return time.UnixMilli(e.Ts)
}

// ToolEvent records one tool invocation.
func ToolEvent(tool string, inputSize int, now time.Time) Event {
	return Event{Event: EventTool, Tool: tool, InputSize: inputSize, Ts: now.UnixMilli()}
}

// TokensEvent records a context token snapshot.
func TokensEvent(input, output int64, now time.Time) Event {
	return Event{Event: EventTokens, Input: input, Output: output, Total: input + output, Ts: now.UnixMilli()}
}

// SessionEndEvent records the final context snapshot.
func SessionEndEvent(input, output int64, now time.Time) Event {
	return Event{Event: EventSessionEnd, ContextInput: input, ContextOutput: output, Ts: now.UnixMilli()}
}
