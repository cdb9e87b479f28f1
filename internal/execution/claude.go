package execution

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/claudekit/skillbench/internal/transcript"
)

//go:generate go tool mockgen -source=claude.go -destination=runner_mocks_test.go -package=execution

// commandRunner runs an external program and captures its output.
type commandRunner interface {
	Run(ctx context.Context, dir, name string, args []string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir, name string, args []string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// ClaudeCLI runs prompts through the claude executable in print mode with
// JSON output.
type ClaudeCLI struct {
	// Binary is the executable name or path.
	Binary       string
	DefaultModel string

	runner commandRunner
}

// NewClaudeCLI returns an engine that runs the claude executable found on
// PATH.
func NewClaudeCLI(defaultModel string) *ClaudeCLI {
	return &ClaudeCLI{Binary: "claude", DefaultModel: defaultModel, runner: execRunner{}}
}

// Args is the command line for req, without the binary.
func (c *ClaudeCLI) Args(req *PromptRequest) []string {
	args := []string{"-p", req.Prompt, "--output-format", "json"}
	if model := c.model(req); model != "" {
		args = append(args, "--model", model)
	}
	return args
}

func (c *ClaudeCLI) model(req *PromptRequest) string {
	if req.Model != "" {
		return req.Model
	}
	return c.DefaultModel
}

// Prompt runs the CLI once. A missing executable returns ErrCLINotFound and
// an expired timeout returns ErrTimeout.
func (c *ClaudeCLI) Prompt(ctx context.Context, req *PromptRequest) (*PromptResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil req was passed to ClaudeCLI.Prompt")
	}

	timeout := req.timeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := c.Args(req)
	slog.Debug("running claude CLI", "binary", c.Binary, "model", c.model(req), "timeout", timeout)

	start := time.Now()
	stdout, stderr, err := c.runner.Run(ctx, req.WorkDir, c.Binary, args)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, ErrCLINotFound
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("Claude CLI timeout after %s: %w", timeout, ErrTimeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("Claude CLI error: %s", strings.TrimSpace(string(stderr)))
		}
		return nil, fmt.Errorf("running %s: %w", c.Binary, err)
	}

	resp, err := parseCLIOutput(stdout)
	if err != nil {
		return nil, err
	}
	resp.Model = c.model(req)
	if resp.DurationMs == 0 {
		resp.DurationMs = time.Since(start).Milliseconds()
	}
	return resp, nil
}

// parseCLIOutput unwraps the "result" field of the CLI's JSON envelope.
// Output without the field is returned as the reply text.
func parseCLIOutput(stdout []byte) (*PromptResponse, error) {
	stdout = bytes.TrimSpace(stdout)

	var r transcript.CLIResult
	if err := json.Unmarshal(stdout, &r); err != nil {
		return nil, fmt.Errorf("failed to parse Claude response: %w (raw output: %.500s)", err, stdout)
	}

	resp := &PromptResponse{
		SessionID:  r.SessionID,
		DurationMs: int64(r.DurationMs),
		CostUSD:    r.TotalCostUSD,
	}
	if len(r.Result) > 0 {
		resp.Text = r.Text()
	} else {
		resp.Text = string(stdout)
	}
	return resp, nil
}

// Shutdown is a no-op; every prompt runs its own process.
func (c *ClaudeCLI) Shutdown(context.Context) error {
	return nil
}
