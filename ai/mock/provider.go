// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import "github.com/bbrooksdsq/ai-knowledge-database/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates mock embedder, chat model and transcriber instances.
type MockProvider struct {
	embedder    *MockEmbedder
	chat        *MockChatModel
	transcriber *MockTranscriber
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use GetMockEmbedder()/GetMockChatModel()/GetMockTranscriber() to access
// concrete types for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		embedder:    NewMockEmbedder(),
		chat:        NewMockChatModel(""),
		transcriber: NewMockTranscriber(""),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// Any nil service models an unconfigured provider, matching the production
// contract where chat and transcription are absent without an API key.
func NewMockProviderWithServices(embedder *MockEmbedder, chat *MockChatModel, transcriber *MockTranscriber) ai.AIProvider {
	return &MockProvider{
		embedder:    embedder,
		chat:        chat,
		transcriber: transcriber,
	}
}

// Embedder returns the mock embedding service.
func (p *MockProvider) Embedder() ai.Embedder {
	if p.embedder == nil {
		return nil
	}
	return p.embedder
}

// ChatModel returns the mock chat service, or nil when unset.
func (p *MockProvider) ChatModel() ai.ChatModel {
	if p.chat == nil {
		return nil
	}
	return p.chat
}

// Transcriber returns the mock transcription service, or nil when unset.
func (p *MockProvider) Transcriber() ai.Transcriber {
	if p.transcriber == nil {
		return nil
	}
	return p.transcriber
}

// Close is a no-op for the mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the concrete mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockChatModel returns the concrete mock chat model for test assertions.
func (p *MockProvider) GetMockChatModel() *MockChatModel {
	return p.chat
}

// GetMockTranscriber returns the concrete mock transcriber for test assertions.
func (p *MockProvider) GetMockTranscriber() *MockTranscriber {
	return p.transcriber
}
