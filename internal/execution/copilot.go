package execution

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	copilot "github.com/github/copilot-sdk/go"
)

// CopilotEngine sends prompts through the GitHub Copilot SDK, one session
// per prompt.
type CopilotEngine struct {
	defaultModelID string

	client copilotClient

	startOnce sync.Once
	startErr  error
}

// CopilotEngineBuilder builds a CopilotEngine with options
type CopilotEngineBuilder struct {
	engine *CopilotEngine
}

type CopilotEngineBuilderOptions struct {
	NewCopilotClient func(clientOptions *copilot.ClientOptions) copilotClient
}

// NewCopilotEngineBuilder creates a builder for CopilotEngine
//   - defaultModelID - used if the request does not name a model. Can be blank, which means the copilot
//     CLI will choose its own fallback model.
func NewCopilotEngineBuilder(defaultModelID string, options *CopilotEngineBuilderOptions) *CopilotEngineBuilder {
	var client copilotClient

	copilotOptions := &copilot.ClientOptions{
		LogLevel:  "error",
		AutoStart: copilot.Bool(false),
	}

	if options == nil || options.NewCopilotClient == nil {
		client = newCopilotClient(copilotOptions)
	} else {
		client = options.NewCopilotClient(copilotOptions)
	}

	return &CopilotEngineBuilder{
		engine: &CopilotEngine{
			defaultModelID: defaultModelID,
			client:         client,
		},
	}
}

func (b *CopilotEngineBuilder) Build() *CopilotEngine {
	return b.engine
}

// Prompt creates a session, sends the prompt and returns the concatenated
// assistant output. A session error becomes the returned error.
func (e *CopilotEngine) Prompt(ctx context.Context, req *PromptRequest) (*PromptResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil req was passed to CopilotEngine.Prompt")
	}

	e.startOnce.Do(func() {
		e.startErr = e.client.Start(ctx)
	})
	if e.startErr != nil {
		return nil, fmt.Errorf("copilot failed to start: %w", e.startErr)
	}

	modelID := e.defaultModelID
	if req.Model != "" {
		modelID = req.Model
	}

	workDir := req.WorkDir
	if workDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		workDir = cwd
	}

	ctx, cancel := context.WithTimeout(ctx, req.timeout())
	defer cancel()

	start := time.Now()

	session, err := e.client.CreateSession(ctx, &copilot.SessionConfig{
		Model:               modelID,
		OnPermissionRequest: denyAllTools,
		WorkingDirectory:    workDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	collector := newReplyCollector()
	unsubscribe := session.On(collector.On)
	defer unsubscribe()

	_, err = session.SendAndWait(ctx, copilot.MessageOptions{
		Prompt: req.Prompt,
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("copilot session timeout after %s: %w", req.timeout(), ErrTimeout)
		}
		return nil, fmt.Errorf("copilot session failed: %w", err)
	}
	if msg := collector.ErrorMessage(); msg != "" {
		return nil, fmt.Errorf("copilot session failed: %s", msg)
	}

	return &PromptResponse{
		Text:       collector.Text(),
		Model:      modelID,
		SessionID:  session.SessionID(),
		DurationMs: time.Since(start).Milliseconds(),
	}, nil
}

// Shutdown stops the copilot client.
func (e *CopilotEngine) Shutdown(ctx context.Context) error {
	if err := e.client.Stop(); err != nil {
		// Log but continue cleanup
		slog.Info("failed to stop client", "error", err)
	}
	return nil
}

// denyAllTools keeps generation sessions from touching the workspace.
func denyAllTools(request copilot.PermissionRequest, invocation copilot.PermissionInvocation) (copilot.PermissionRequestResult, error) {
	return copilot.PermissionRequestResult{Kind: "denied-interactively-by-user"}, nil
}
