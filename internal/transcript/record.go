// Package transcript reads agent session transcripts (one JSON record per
// line) and folds them into per-run metrics.
package transcript

import (
	"bytes"
	"encoding/json"
)

// Record is a single parsed transcript line. Every field is optional, and a
// field of an unexpected JSON type decodes to its zero value instead of
// failing the line.
type Record struct {
	Type      string   `json:"type,omitempty"`
	SessionID string   `json:"sessionId,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
	Message   *Message `json:"message,omitempty"`
}

func (r *Record) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*r = Record{
		Type:      looseString(fields["type"]),
		SessionID: looseString(fields["sessionId"]),
		Timestamp: looseString(fields["timestamp"]),
	}
	if raw, ok := fields["message"]; ok && isObject(raw) {
		var m Message
		if err := json.Unmarshal(raw, &m); err != nil {
			return err
		}
		r.Message = &m
	}
	return nil
}

// Message is the model turn carried by a record.
type Message struct {
	Role    string  `json:"role,omitempty"`
	Model   string  `json:"model,omitempty"`
	Usage   *Usage  `json:"usage,omitempty"`
	Content Content `json:"content,omitempty"`
}

func (m *Message) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*m = Message{
		Role:  looseString(fields["role"]),
		Model: looseString(fields["model"]),
	}
	if raw, ok := fields["usage"]; ok && isObject(raw) {
		var u Usage
		if err := json.Unmarshal(raw, &u); err != nil {
			return err
		}
		m.Usage = &u
	}
	if raw, ok := fields["content"]; ok {
		if err := m.Content.UnmarshalJSON(raw); err != nil {
			return err
		}
	}
	return nil
}

// Usage holds the token counters reported for one API response.
type Usage struct {
	InputTokens              int64 `json:"input_tokens"`
	OutputTokens             int64 `json:"output_tokens"`
	CacheCreationInputTokens int64 `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int64 `json:"cache_read_input_tokens"`
}

// UnmarshalJSON accepts counters written as integers or floats. Counters
// that are not numbers count as zero.
func (u *Usage) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*u = Usage{
		InputTokens:              looseInt(fields["input_tokens"]),
		OutputTokens:             looseInt(fields["output_tokens"]),
		CacheCreationInputTokens: looseInt(fields["cache_creation_input_tokens"]),
		CacheReadInputTokens:     looseInt(fields["cache_read_input_tokens"]),
	}
	return nil
}

// Input is the input side including both cache counters.
func (u Usage) Input() int64 {
	return u.InputTokens + u.CacheCreationInputTokens + u.CacheReadInputTokens
}

func objectFields(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func looseString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func looseInt(raw json.RawMessage) int64 {
	var n json.Number
	if len(raw) == 0 || json.Unmarshal(raw, &n) != nil {
		return 0
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	f, err := n.Float64()
	if err != nil {
		return 0
	}
	return int64(f)
}

// Content is the block list of a message. User turns frequently carry a
// plain string instead of blocks; those decode to an empty list, as do
// entries that are not JSON objects.
type Content []ContentBlock

func (c *Content) UnmarshalJSON(data []byte) error {
	*c = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, r := range raw {
		var b ContentBlock
		if err := json.Unmarshal(r, &b); err != nil {
			continue
		}
		*c = append(*c, b)
	}
	return nil
}

// ContentBlock is one entry of message.content.
type ContentBlock struct {
	Type  string          `json:"type"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

// BlockToolUse is the block type for tool invocations.
const BlockToolUse = "tool_use"

// ToolName returns the invoked tool, or "unknown".
func (b ContentBlock) ToolName() string {
	if b.Name == "" {
		return unknown
	}
	return b.Name
}

// SubagentType returns input.subagent_type for delegating tool calls, or
// "unknown" when the input is absent or not an object.
func (b ContentBlock) SubagentType() string {
	var in struct {
		SubagentType string `json:"subagent_type"`
	}
	if len(b.Input) == 0 || json.Unmarshal(b.Input, &in) != nil || in.SubagentType == "" {
		return unknown
	}
	return in.SubagentType
}

const unknown = "unknown"
