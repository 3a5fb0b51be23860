package ai

import "errors"

var (
	// ErrEmbeddingUnavailable indicates that no usable embedding provider exists:
	// the remote provider is unconfigured or failing AND the local model is
	// absent or failing.
	ErrEmbeddingUnavailable = errors.New("no embedding provider available")

	// ErrTranscriptionUnavailable indicates that transcription was requested
	// without a remote credential. Transcription has no local fallback, so this
	// always surfaces as a hard failure.
	ErrTranscriptionUnavailable = errors.New("transcription requires a configured API key")

	// ErrRemoteCallFailed indicates a transient failure of a remote chat
	// completion. Callers in the enrichment service recover from it locally.
	ErrRemoteCallFailed = errors.New("remote AI call failed")

	// ErrMalformedEntities indicates the remote entity-extraction response was
	// not valid structured data. Recovered by substituting the empty-entities
	// default, never surfaced.
	ErrMalformedEntities = errors.New("malformed entity extraction response")
)
