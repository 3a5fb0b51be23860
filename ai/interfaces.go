package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
//
// Dimensionality is fixed per provider, not across providers: a remote and a
// local embedder may return vectors of different lengths, so callers must only
// compare vectors produced within one ranking operation.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// For non-empty input the result is never empty unless an error is returned.
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// CompletionOptions carries the tunable knobs for a chat completion call.
type CompletionOptions struct {
	Temperature float64
	MaxTokens   int // 0 means provider default
}

// ChatModel produces a text completion for a system instruction plus user content.
// Implementations must be thread-safe for concurrent use.
type ChatModel interface {
	Complete(ctx context.Context, system, user string, opts CompletionOptions) (string, error)
}

// Transcriber converts an audio file into plain text.
// There is no local fallback for transcription; implementations are remote-only.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle
// management. Embedder is never nil; ChatModel and Transcriber return nil when
// no remote credential is configured, which gates every degrade decision in the
// enrichment service.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// ChatModel returns the chat completion service, or nil if unconfigured.
	ChatModel() ChatModel

	// Transcriber returns the audio transcription service, or nil if unconfigured.
	Transcriber() Transcriber

	// Close releases resources held by the provider and its services.
	Close() error
}
