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

	"github.com/bbrooksdsq/ai-knowledge-database/core"
	"github.com/bbrooksdsq/ai-knowledge-database/storage"
	"github.com/dgraph-io/badger/v4"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
//
// Chunks are stored under composite (document ID, chunk index) keys in
// BigEndian order, so a prefix scan yields every chunk of a document in index
// order without sorting.
type ChunkRepository struct {
	backend *Backend
	docs    *DocumentRepository
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository. The document repository
// is used to join chunks with their parent documents in listings.
func NewChunkRepository(backend *Backend, docs *DocumentRepository) *ChunkRepository {
	return &ChunkRepository{
		backend: backend,
		docs:    docs,
	}
}

// Close is a no-op; the chunk repository holds no sequence.
func (r *ChunkRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// ReplaceChunks atomically replaces all chunk records for a document.
func (r *ChunkRepository) ReplaceChunks(ctx context.Context, docID core.ID, chunks []*core.ChunkEmbedding) error {
	return r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		if err := deleteChunksInTx(tx, docID); err != nil {
			return err
		}

		for _, chunk := range chunks {
			chunk.DocumentID = docID
			key := makeChunkKey(docID, chunk.Index)
			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}
		}
		return nil
	}, true)
}

// GetChunks retrieves all chunks for a document, ordered by chunk index.
func (r *ChunkRepository) GetChunks(ctx context.Context, docID core.ID) ([]*core.ChunkEmbedding, error) {
	chunks := make([]*core.ChunkEmbedding, 0)

	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkDocPrefix(docID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			chunk, err := readChunk(iter.Item())
			if err != nil {
				return err
			}
			chunks = append(chunks, chunk)
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// ListChunks retrieves all chunks whose parent document matches the filter,
// joined with the document.
func (r *ChunkRepository) ListChunks(ctx context.Context, filter *storage.DocumentFilter) ([]*storage.ChunkWithDocument, error) {
	return r.scanChunks(ctx, func(doc *core.Document) bool {
		return filter.Matches(doc)
	})
}

// ListChunksExcluding retrieves all chunks except those of the given document.
func (r *ChunkRepository) ListChunksExcluding(ctx context.Context, docID core.ID) ([]*storage.ChunkWithDocument, error) {
	return r.scanChunks(ctx, func(doc *core.Document) bool {
		return doc.Id != docID
	})
}

// scanChunks walks every chunk record and joins it with its parent document.
// Documents are read once per ID and cached for the scan.
func (r *ChunkRepository) scanChunks(ctx context.Context, include func(*core.Document) bool) ([]*storage.ChunkWithDocument, error) {
	results := make([]*storage.ChunkWithDocument, 0)
	docCache := make(map[core.ID]*core.Document)

	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			chunk, err := readChunk(iter.Item())
			if err != nil {
				return err
			}

			doc, ok := docCache[chunk.DocumentID]
			if !ok {
				doc, err = r.docs.readDocument(tx, makeDocumentKey(chunk.DocumentID))
				if err != nil {
					return err
				}
				docCache[chunk.DocumentID] = doc
			}
			if doc == nil {
				// Orphaned chunk; the owning document is gone
				continue
			}
			if include(doc) {
				results = append(results, &storage.ChunkWithDocument{
					Chunk:    chunk,
					Document: doc,
				})
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return results, nil
}

// deleteChunksInTx removes every chunk record of a document inside a
// transaction. Shared with the document repository's cascade delete.
func deleteChunksInTx(tx *badger.Txn, docID core.ID) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeChunkDocPrefix(docID)
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)

	keys := make([][]byte, 0)
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	iter.Close()

	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

func readChunk(item *badger.Item) (*core.ChunkEmbedding, error) {
	var chunk *core.ChunkEmbedding
	err := item.Value(func(val []byte) error {
		var err error
		chunk, err = storage.UnmarshalChunk(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return chunk, nil
}
