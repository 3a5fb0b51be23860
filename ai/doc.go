// Package ai defines the provider-agnostic interfaces for the AI services the
// knowledge base depends on: text embeddings, chat completions, and audio
// transcription.
//
// Concrete implementations live in subpackages:
//   - ai/openai: remote OpenAI-compatible provider
//   - ai/ollama: local embedding server used as the fallback
//   - ai/mock: deterministic in-memory implementations for testing
//
// The FallbackEmbedder in this package implements the embedding selection
// policy: prefer the remote provider, fall back to a lazily loaded local
// model, and fail with ErrEmbeddingUnavailable only when both are exhausted.
package ai
