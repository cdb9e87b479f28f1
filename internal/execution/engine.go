// Package execution sends prompts to an LLM backend and returns its reply.
package execution

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Engine is the interface for LLM backends.
type Engine interface {
	// Prompt sends one prompt and waits for the complete reply.
	Prompt(ctx context.Context, req *PromptRequest) (*PromptResponse, error)

	// Shutdown cleans up resources
	Shutdown(ctx context.Context) error
}

// PromptRequest is a single prompt.
type PromptRequest struct {
	Prompt string
	// Model overrides the engine default model when set.
	Model string
	// Timeout bounds the call. Zero means DefaultTimeout.
	Timeout time.Duration
	// WorkDir is the directory the backend runs in. Empty means the
	// current directory.
	WorkDir string
}

// PromptResponse is the reply to a PromptRequest.
type PromptResponse struct {
	// Text is the reply. For backends that wrap their output, this is the
	// unwrapped result.
	Text       string
	Model      string
	SessionID  string
	DurationMs int64
	CostUSD    float64
}

// DefaultTimeout bounds a prompt whose request does not set one.
const DefaultTimeout = 180 * time.Second

var (
	// ErrCLINotFound means the backend executable is not installed.
	ErrCLINotFound = errors.New("Claude CLI not found. Install with: npm install -g @anthropic-ai/claude-code")

	// ErrTimeout means the prompt did not finish within its timeout.
	ErrTimeout = errors.New("prompt timed out")
)

func (r *PromptRequest) timeout() time.Duration {
	if r.Timeout <= 0 {
		return DefaultTimeout
	}
	return r.Timeout
}

// Engine names accepted by New.
const (
	EngineClaude  = "claude"
	EngineCopilot = "copilot"
	EngineMock    = "mock"
)

// New returns the engine called name with model as its default model. An
// empty name selects the Claude CLI.
func New(name, model string) (Engine, error) {
	switch name {
	case "", EngineClaude:
		return NewClaudeCLI(model), nil
	case EngineCopilot:
		return NewCopilotEngineBuilder(model, nil).Build(), nil
	case EngineMock:
		return NewMockEngine(model), nil
	}
	return nil, fmt.Errorf("unknown engine %q (want %s, %s or %s)", name, EngineClaude, EngineCopilot, EngineMock)
}
