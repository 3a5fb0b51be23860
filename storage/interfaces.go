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


package storage

import (
	"context"
	"time"

	"github.com/bbrooksdsq/ai-knowledge-database/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentRepository provides operations for managing documents.
type DocumentRepository interface {
	Repository

	// AddDocument adds a document to storage.
	// A document with ID=0 gets a new ID from the sequence; a nonzero ID is
	// kept as-is, which lets importers use deterministic content-based IDs.
	// Sets CreatedAt and UpdatedAt timestamps if not already set.
	// Returns the document with ID and timestamps populated.
	AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// UpdateDocument updates an existing document.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if the document doesn't exist.
	UpdateDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// DeleteDocument removes a document by ID, cascading to its chunk records.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, id core.ID) error

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// ListDocuments retrieves documents matching the filter, ordered by
	// creation time ascending. A nil filter matches all documents.
	ListDocuments(ctx context.Context, filter *DocumentFilter) ([]*core.Document, error)
}

// ChunkWithDocument pairs a chunk embedding with its parent document,
// the unit the search engine scores.
type ChunkWithDocument struct {
	Chunk    *core.ChunkEmbedding
	Document *core.Document
}

// ChunkRepository provides operations for managing chunk embeddings.
type ChunkRepository interface {
	Repository

	// ReplaceChunks atomically replaces all chunk records for a document.
	// Chunks are stored keyed by (document ID, chunk index).
	ReplaceChunks(ctx context.Context, docID core.ID, chunks []*core.ChunkEmbedding) error

	// GetChunks retrieves all chunks for a document, ordered by chunk index.
	// Returns an empty slice if the document has no chunks.
	GetChunks(ctx context.Context, docID core.ID) ([]*core.ChunkEmbedding, error)

	// ListChunks retrieves all chunks whose parent document matches the
	// filter, joined with the document. A nil filter matches all.
	ListChunks(ctx context.Context, filter *DocumentFilter) ([]*ChunkWithDocument, error)

	// ListChunksExcluding retrieves all chunks except those belonging to the
	// given document, joined with their documents.
	ListChunksExcluding(ctx context.Context, docID core.ID) ([]*ChunkWithDocument, error)
}

// QueryLogRepository provides operations for the search query audit log.
type QueryLogRepository interface {
	Repository

	// AppendQuery adds a query log entry.
	// An entry with ID=0 gets a new ID from the sequence.
	// Sets the CreatedAt timestamp if not already set.
	AppendQuery(ctx context.Context, entry *core.SearchQueryLog) (*core.SearchQueryLog, error)

	// RecentQueries retrieves the N most recent query log entries,
	// most recent first.
	RecentQueries(ctx context.Context, limit int) ([]*core.SearchQueryLog, error)
}

// DocumentFilter narrows document and chunk listings. Zero-valued fields are
// ignored; supplied fields are AND-combined.
type DocumentFilter struct {
	// FileTypes matches documents whose file type is any of these.
	FileTypes []core.FileType

	// Tags matches documents carrying every one of these tags.
	Tags []string

	// CreatedAfter matches documents created at or after this time.
	CreatedAfter time.Time

	// CreatedBefore matches documents created at or before this time.
	CreatedBefore time.Time
}

// Matches reports whether the document satisfies the filter.
// A nil filter matches every document.
func (f *DocumentFilter) Matches(doc *core.Document) bool {
	if f == nil {
		return true
	}
	if len(f.FileTypes) > 0 {
		found := false
		for _, ft := range f.FileTypes {
			if doc.FileType == ft {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, want := range f.Tags {
		found := false
		for _, tag := range doc.Tags {
			if tag == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !f.CreatedAfter.IsZero() && doc.CreatedAt.Before(f.CreatedAfter) {
		return false
	}
	if !f.CreatedBefore.IsZero() && doc.CreatedAt.After(f.CreatedBefore) {
		return false
	}
	return true
}
