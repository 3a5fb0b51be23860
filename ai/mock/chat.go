package mock

import (
	"context"

	"github.com/bbrooksdsq/ai-knowledge-database/ai"
)

// MockChatModel is a test double for ai.ChatModel.
// It allows custom behavior injection via function fields.
type MockChatModel struct {
	// CompleteFunc is called by Complete if set.
	// If nil, returns Response verbatim.
	CompleteFunc func(ctx context.Context, system, user string, opts ai.CompletionOptions) (string, error)

	// Response is returned by the default Complete when CompleteFunc is nil.
	Response string

	callCount  int
	lastSystem string
	lastUser   string
}

// NewMockChatModel creates a mock chat model that returns the given response.
// Note: Returns concrete type to allow test assertions.
func NewMockChatModel(response string) *MockChatModel {
	return &MockChatModel{Response: response}
}

// Complete records the prompts and returns the configured response.
func (m *MockChatModel) Complete(ctx context.Context, system, user string, opts ai.CompletionOptions) (string, error) {
	m.callCount++
	m.lastSystem = system
	m.lastUser = user

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, user, opts)
	}
	return m.Response, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockChatModel) CallCount() int {
	return m.callCount
}

// LastSystem returns the system prompt of the most recent call.
func (m *MockChatModel) LastSystem() string {
	return m.lastSystem
}

// LastUser returns the user prompt of the most recent call.
func (m *MockChatModel) LastUser() string {
	return m.lastUser
}

// Reset clears recorded calls and any injected behavior.
func (m *MockChatModel) Reset() {
	m.callCount = 0
	m.lastSystem = ""
	m.lastUser = ""
	m.CompleteFunc = nil
}
