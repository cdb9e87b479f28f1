package execution

import (
	"context"
	"fmt"
	"sync"
)

// MockEngine is a simple mock implementation for testing and dry pipelines
type MockEngine struct {
	modelID string

	// Reply, when set, is returned as the text of every prompt.
	Reply string
	// Err, when set, is returned instead of a reply.
	Err error

	mu      sync.Mutex
	prompts []PromptRequest
}

// NewMockEngine creates a new mock engine
func NewMockEngine(modelID string) *MockEngine {
	return &MockEngine{modelID: modelID}
}

func (m *MockEngine) Prompt(ctx context.Context, req *PromptRequest) (*PromptResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.prompts = append(m.prompts, *req)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	model := m.modelID
	if req.Model != "" {
		model = req.Model
	}

	text := m.Reply
	if text == "" {
		text = fmt.Sprintf("Mock response for: %s", req.Prompt)
	}
	return &PromptResponse{Text: text, Model: model, SessionID: "mock-session"}, nil
}

// Prompts returns the requests received so far.
func (m *MockEngine) Prompts() []PromptRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PromptRequest(nil), m.prompts...)
}

func (m *MockEngine) Shutdown(ctx context.Context) error {
	return nil
}
