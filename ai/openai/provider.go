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


package openai

import (
	"log/slog"

	"github.com/bbrooksdsq/ai-knowledge-database/ai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
// It manages embedder, chat model and transcriber instances.
//
// When the config carries no API key the chat model and transcriber are nil,
// per the ai.AIProvider contract; only the embedder is always non-nil because
// the embedding chain can still fall back to a local model.
type Provider struct {
	config      *ai.Config
	embedder    *Embedder
	chat        *ChatModel
	transcriber *Transcriber
	logger      *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		config:   config,
		embedder: embedder,
		logger:   slog.Default().With("component", "openai-provider"),
	}

	if config.HasRemote() {
		p.chat, err = newChatModel(config)
		if err != nil {
			return nil, err
		}
		p.transcriber, err = newTranscriber(config)
		if err != nil {
			return nil, err
		}
	} else {
		p.logger.Info("no API key configured, chat and transcription disabled")
	}

	return p, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// ChatModel returns the chat completion service, or nil when no API key is
// configured.
func (p *Provider) ChatModel() ai.ChatModel {
	if p.chat == nil {
		return nil
	}
	return p.chat
}

// Transcriber returns the audio transcription service, or nil when no API key
// is configured.
func (p *Provider) Transcriber() ai.Transcriber {
	if p.transcriber == nil {
		return nil
	}
	return p.transcriber
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
