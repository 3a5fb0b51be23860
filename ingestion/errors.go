package ingestion

import "errors"

var (
	// ErrDocumentRepositoryRequired indicates a nil document repository.
	ErrDocumentRepositoryRequired = errors.New("document repository is required")

	// ErrChunkRepositoryRequired indicates a nil chunk repository.
	ErrChunkRepositoryRequired = errors.New("chunk repository is required")

	// ErrEnrichmentServiceRequired indicates a nil enrichment service.
	ErrEnrichmentServiceRequired = errors.New("enrichment service is required")

	// ErrEmbedderRequired indicates a nil embedder.
	ErrEmbedderRequired = errors.New("embedder is required")
)
