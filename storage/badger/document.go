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


package badger

import (
	"context"
	"errors"
	"time"

	"github.com/bbrooksdsq/ai-knowledge-database/core"
	"github.com/bbrooksdsq/ai-knowledge-database/storage"
	"github.com/dgraph-io/badger/v4"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	idSeq, err := backend.GetSequence(documentIDSeq)
	if err != nil {
		return nil, err
	}

	return &DocumentRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *DocumentRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *DocumentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddDocument adds a document to storage.
// A zero ID is replaced with a fresh sequence ID. A nonzero ID is kept, and
// re-adding the same ID overwrites the record while preserving its original
// creation time, which makes content-addressed imports idempotent.
func (r *DocumentRepository) AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error) {
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		if doc.Id == 0 {
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			doc.Id = core.ID(nextID)
		} else {
			old, err := r.readDocument(tx, makeDocumentKey(doc.Id))
			if err != nil {
				return err
			}
			if old != nil {
				doc.CreatedAt = old.CreatedAt
				if err := tx.Delete(makeDocumentDateKey(old.CreatedAt, old.Id)); err != nil {
					return err
				}
			}
		}

		now := time.Now().UTC()
		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = now
		}
		doc.UpdatedAt = now

		if err := tx.Set(makeDocumentKey(doc.Id), storage.MarshalDocument(doc)); err != nil {
			return err
		}
		if err := tx.Set(makeDocumentDateKey(doc.CreatedAt, doc.Id), storage.MarshalID(doc.Id)); err != nil {
			return err
		}
		return nil
	}, true)

	if err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateDocument updates an existing document.
// The stored creation time is preserved; UpdatedAt is set to now.
func (r *DocumentRepository) UpdateDocument(ctx context.Context, doc *core.Document) (*core.Document, error) {
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		old, err := r.readDocument(tx, makeDocumentKey(doc.Id))
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		doc.CreatedAt = old.CreatedAt
		doc.UpdatedAt = time.Now().UTC()

		if err := tx.Set(makeDocumentKey(doc.Id), storage.MarshalDocument(doc)); err != nil {
			return err
		}
		return nil
	}, true)

	if err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteDocument removes a document and all of its chunk records.
func (r *DocumentRepository) DeleteDocument(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		old, err := r.readDocument(tx, makeDocumentKey(id))
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(makeDocumentKey(id)); err != nil {
			return err
		}
		if err := tx.Delete(makeDocumentDateKey(old.CreatedAt, id)); err != nil {
			return err
		}

		// Cascade to chunk records
		if err := deleteChunksInTx(tx, id); err != nil {
			return err
		}
		return nil
	}, true)
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	var doc *core.Document
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		var err error
		doc, err = r.readDocument(tx, makeDocumentKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, storage.ErrNotFound
	}
	return doc, nil
}

// ListDocuments retrieves documents matching the filter, ordered by creation
// time ascending via the date index.
func (r *DocumentRepository) ListDocuments(ctx context.Context, filter *storage.DocumentFilter) ([]*core.Document, error) {
	docs := make([]*core.Document, 0)

	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentDatePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			doc, err := r.readDocument(tx, makeDocumentKey(id))
			if err != nil {
				return err
			}
			if doc == nil {
				// Stale index entry
				continue
			}
			if filter.Matches(doc) {
				docs = append(docs, doc)
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return docs, nil
}

// readDocument reads a document inside a transaction.
// Returns (nil, nil) when the key does not exist.
func (r *DocumentRepository) readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalDocument(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}
