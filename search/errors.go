package search

import "errors"

var (
	// ErrDocumentRepositoryRequired indicates a nil document repository.
	ErrDocumentRepositoryRequired = errors.New("document repository is required")

	// ErrChunkRepositoryRequired indicates a nil chunk repository.
	ErrChunkRepositoryRequired = errors.New("chunk repository is required")

	// ErrQueryLogRepositoryRequired indicates a nil query log repository.
	ErrQueryLogRepositoryRequired = errors.New("query log repository is required")

	// ErrEmbedderRequired indicates a nil embedder.
	ErrEmbedderRequired = errors.New("embedder is required")
)
