package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// CLIResult is the single JSON object the Claude CLI prints with
// --output-format json.
type CLIResult struct {
	Type         string          `json:"type,omitempty"`
	SessionID    string          `json:"session_id"`
	DurationMs   float64         `json:"duration_ms"`
	NumTurns     int             `json:"num_turns"`
	TotalCostUSD float64         `json:"total_cost_usd"`
	Result       json.RawMessage `json:"result,omitempty"`
	Usage        Usage           `json:"usage"`
}

// TotalTokens includes both cache counters.
func (r CLIResult) TotalTokens() int64 {
	return r.Usage.InputTokens + r.Usage.OutputTokens + r.Usage.CacheReadInputTokens + r.Usage.CacheCreationInputTokens
}

// Text returns the result field as text.
func (r CLIResult) Text() string {
	return rawText(r.Result)
}

// ReadResultFile parses a CLI result file. It returns nil without error
// when the file is missing, empty, or not a JSON object.
func ReadResultFile(path string) (*CLIResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var r CLIResult
	if err := json.Unmarshal(data, &r); err != nil {
		slog.Warn("unparseable CLI result file", "path", path, "error", err)
		return nil, nil
	}
	return &r, nil
}

// ResponseText extracts the model response from a CLI output file. The
// "result" field wins, then "content", then "message". Output that is not
// a JSON object is returned verbatim.
func ResponseText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "", nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return string(data), nil
	}
	for _, key := range []string{"result", "content", "message"} {
		if v, ok := obj[key]; ok {
			return rawText(v), nil
		}
	}
	return string(data), nil
}

// rawText unquotes JSON strings and returns other values as encoded JSON.
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
