package reindex

import "errors"

var (
	// ErrInvalidMaxAttempts indicates a non-positive retry attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrDocumentRepositoryRequired indicates a nil document repository.
	ErrDocumentRepositoryRequired = errors.New("document repository is required")

	// ErrPipelineRequired indicates a nil ingestion pipeline.
	ErrPipelineRequired = errors.New("ingestion pipeline is required")
)
