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


package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for AI service providers.
type Config struct {
	// APIKey is the credential for the remote provider. An empty key means the
	// remote provider is unconfigured; every fallback decision keys off this.
	APIKey string

	// BaseURL is the base URL for the remote OpenAI-compatible API.
	// Example: "https://api.openai.com/v1"
	BaseURL string

	// EmbeddingModel is the remote model identifier for text embeddings.
	// Example: "text-embedding-3-small"
	EmbeddingModel string

	// ChatModel is the remote model identifier for chat completions
	// (summaries, tags, entities, speaker formatting).
	// Example: "gpt-4o-mini"
	ChatModel string

	// TranscriptionModel is the remote model identifier for audio transcription.
	// Example: "whisper-1"
	TranscriptionModel string

	// LocalHost is the base URL of a local embedding server (Ollama-style).
	// Empty means no local model is loadable.
	// Example: "http://localhost:11434"
	LocalHost string

	// LocalModel is the local embedding model identifier.
	// Example: "nomic-embed-text"
	LocalModel string

	// RequestTimeout bounds every remote call. The original system had none and
	// a hung provider blocked the whole request; this one always sets a deadline.
	RequestTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAPIKey sets the remote provider credential.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithBaseURL sets the remote API base URL.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithEmbeddingModel sets the remote embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithChatModel sets the remote chat model identifier.
func WithChatModel(model string) ConfigOption {
	return func(c *Config) {
		c.ChatModel = model
	}
}

// WithTranscriptionModel sets the remote transcription model identifier.
func WithTranscriptionModel(model string) ConfigOption {
	return func(c *Config) {
		c.TranscriptionModel = model
	}
}

// WithLocalEmbedder sets the local embedding server host and model.
func WithLocalEmbedder(host, model string) ConfigOption {
	return func(c *Config) {
		c.LocalHost = host
		c.LocalModel = model
	}
}

// WithRequestTimeout sets the per-call timeout for remote services.
func WithRequestTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.RequestTimeout = d
	}
}

// DefaultConfig returns a Config with sensible defaults for the OpenAI API and
// a local Ollama embedding server. No credential is set by default.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:            "https://api.openai.com/v1",
		EmbeddingModel:     "text-embedding-3-small",
		ChatModel:          "gpt-4o-mini",
		TranscriptionModel: "whisper-1",
		LocalHost:          "http://localhost:11434",
		LocalModel:         "nomic-embed-text",
		RequestTimeout:     30 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options. This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	    ai.WithEmbeddingModel("text-embedding-3-small"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// HasRemote reports whether a remote provider credential is configured.
func (c *Config) HasRemote() bool {
	return c.APIKey != ""
}

// HasLocal reports whether a local embedding model is loadable.
func (c *Config) HasLocal() bool {
	return c.LocalHost != "" && c.LocalModel != ""
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to the remote base URL if missing, which is required
// by OpenAI-compatible APIs.
func (c *Config) Normalize() {
	if c.BaseURL != "" && !strings.HasSuffix(c.BaseURL, "/v1") {
		c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
		c.BaseURL = c.BaseURL + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
// An empty APIKey and an empty LocalHost are both legal on their own; the
// embedding chain fails at call time only when neither provider is usable.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BaseURL == "" {
		return errors.New("ai config: BaseURL is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.ChatModel == "" {
		return errors.New("ai config: ChatModel is required")
	}
	if c.TranscriptionModel == "" {
		return errors.New("ai config: TranscriptionModel is required")
	}
	if c.LocalHost != "" && c.LocalModel == "" {
		return errors.New("ai config: LocalModel is required when LocalHost is set")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("ai config: RequestTimeout must be positive")
	}
	return nil
}
