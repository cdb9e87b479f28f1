package hooklog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf16"

	"github.com/go-viper/mapstructure/v2"
)

// HookInput is the subset of the hook payload the benchmark logger reads.
type HookInput struct {
	SessionID string       `mapstructure:"session_id"`
	ToolName  string       `mapstructure:"tool_name"`
	ToolInput any          `mapstructure:"tool_input"`
	Context   *HookContext `mapstructure:"context"`
}

// HookContext carries the context-window token counters, when present.
type HookContext struct {
	Input  int64 `mapstructure:"input"`
	Output int64 `mapstructure:"output"`
}

// DecodeHookInput reads one JSON payload from r.
func DecodeHookInput(r io.Reader) (*HookInput, error) {
	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding hook input: %w", err)
	}

	var in HookInput
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &in,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding hook input: %w", err)
	}
	return &in, nil
}

var (
	continueResponse = []byte(`{"continue":true}` + "\n")
	emptyResponse    = []byte(`{}` + "\n")
)

// HandleToolHook logs a tool event and, when context counters are present,
// a tokens event. The hook response is always written so the agent is
// never blocked; a logging error is returned after the response.
func HandleToolHook(r io.Reader, w io.Writer, dir string, now time.Time) error {
	err := logToolHook(r, dir, now)
	if _, werr := w.Write(continueResponse); werr != nil {
		return errors.Join(err, werr)
	}
	return err
}

func logToolHook(r io.Reader, dir string, now time.Time) error {
	in, err := DecodeHookInput(r)
	if err != nil {
		return err
	}
	if in.ToolName == "" && in.Context == nil {
		return nil
	}

	path, err := SessionPath(dir, in.SessionID)
	if err != nil {
		return err
	}
	logger, err := NewJSONLogger(path)
	if err != nil {
		return err
	}
	defer logger.Close() //nolint:errcheck

	if in.ToolName != "" {
		if err := logger.Log(ToolEvent(in.ToolName, inputSize(in.ToolInput), now)); err != nil {
			return fmt.Errorf("writing tool event: %w", err)
		}
	}
	if in.Context != nil {
		if err := logger.Log(TokensEvent(in.Context.Input, in.Context.Output, now)); err != nil {
			return fmt.Errorf("writing tokens event: %w", err)
		}
	}
	return nil
}

// HandleStopHook appends a session_end event to an existing session log.
// Sessions without a log are left alone.
func HandleStopHook(r io.Reader, w io.Writer, dir string, now time.Time) error {
	err := logStopHook(r, dir, now)
	if _, werr := w.Write(emptyResponse); werr != nil {
		return errors.Join(err, werr)
	}
	return err
}

func logStopHook(r io.Reader, dir string, now time.Time) error {
	in, err := DecodeHookInput(r)
	if err != nil {
		return err
	}

	path, err := SessionPath(dir, in.SessionID)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	logger, err := NewJSONLogger(path)
	if err != nil {
		return err
	}
	defer logger.Close() //nolint:errcheck

	var input, output int64
	if in.Context != nil {
		input, output = in.Context.Input, in.Context.Output
	}
	return logger.Log(SessionEndEvent(input, output, now))
}

// inputSize is the length of the tool input serialized as compact JSON,
// counted in UTF-16 code units. A missing input counts as "{}".
func inputSize(v any) int {
	if v == nil {
		v = map[string]any{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return 0
	}
	s := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return len(utf16.Encode([]rune(string(s))))
}
