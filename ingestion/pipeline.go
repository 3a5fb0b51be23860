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


package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/bbrooksdsq/ai-knowledge-database/ai"
	"github.com/bbrooksdsq/ai-knowledge-database/core"
	"github.com/bbrooksdsq/ai-knowledge-database/enrichment"
	"github.com/bbrooksdsq/ai-knowledge-database/storage"
	"github.com/panjf2000/ants/v2"
)

// Pipeline orchestrates document ingestion: persistence, AI enrichment, and
// chunk embedding. Chunk embeddings run on a worker pool; everything else is
// sequential per document.
type Pipeline struct {
	documents  storage.DocumentRepository
	chunks     storage.ChunkRepository
	enricher   *enrichment.Service
	embedder   ai.Embedder
	embedPool  *ants.Pool
	chunkSize  int
	summaryLen int
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent chunk embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.embedPool != nil {
			p.embedPool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.embedPool = pool
		return nil
	}
}

// WithChunkSize sets the chunk length in characters.
// Default is DefaultChunkSize.
func WithChunkSize(size int) Option {
	return func(p *Pipeline) error {
		if size > 0 {
			p.chunkSize = size
		}
		return nil
	}
}

// WithSummaryLength sets the maximum summary length in characters.
// Default is enrichment.DefaultSummaryLength.
func WithSummaryLength(n int) Option {
	return func(p *Pipeline) error {
		if n > 0 {
			p.summaryLen = n
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	documents storage.DocumentRepository,
	chunks storage.ChunkRepository,
	enricher *enrichment.Service,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if enricher == nil {
		return nil, ErrEnrichmentServiceRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		documents:  documents,
		chunks:     chunks,
		enricher:   enricher,
		embedder:   embedder,
		embedPool:  pool,
		chunkSize:  DefaultChunkSize,
		summaryLen: enrichment.DefaultSummaryLength,
		logger:     slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Release frees the worker pool. The pipeline must not be used afterwards.
func (p *Pipeline) Release() {
	if p.embedPool != nil {
		p.embedPool.Release()
	}
}

// Ingest validates and persists the document, then enriches it. Only the
// validation and persistence of the document itself can fail the call;
// enrichment failures degrade or are skipped, never propagated.
func (p *Pipeline) Ingest(ctx context.Context, doc *core.Document) error {
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}

	stored, err := p.documents.AddDocument(ctx, doc)
	if err != nil {
		return err
	}

	p.logger.Info("document ingested", "id", stored.Id, "title", stored.Title)

	p.Enrich(ctx, stored)
	return nil
}

// Enrich derives summary, tags and entities for the document, persists them,
// then chunks the content and embeds each chunk, replacing the document's
// chunk records wholesale. Failures inside are logged and swallowed; a chunk
// whose embedding fails is skipped.
func (p *Pipeline) Enrich(ctx context.Context, doc *core.Document) {
	summary, sumDegraded := p.enricher.Summarize(ctx, doc.Content, p.summaryLen)
	tags, tagsDegraded := p.enricher.ExtractTags(ctx, doc.Content)
	entities, entDegraded := p.enricher.ExtractEntities(ctx, doc.Content)

	if sumDegraded || tagsDegraded || entDegraded {
		p.logger.Warn("enrichment degraded to local fallbacks",
			"id", doc.Id,
			"summary", sumDegraded,
			"tags", tagsDegraded,
			"entities", entDegraded)
	}

	doc.Summary = summary
	doc.Tags = tags
	doc.Entities = entities

	chunks := p.embedChunks(ctx, doc)

	err := p.documents.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := p.documents.UpdateDocument(ctx, doc); err != nil {
			return err
		}
		return p.chunks.ReplaceChunks(ctx, doc.Id, chunks)
	})
	if err != nil {
		p.logger.Error("failed to persist enrichment results", "id", doc.Id, "err", err)
	}
}

// embedChunks splits the content and embeds every chunk on the worker pool.
// Results keep their chunk index; failed chunks are dropped.
func (p *Pipeline) embedChunks(ctx context.Context, doc *core.Document) []*core.ChunkEmbedding {
	texts := Chunk(doc.Content, p.chunkSize)
	results := make([]*core.ChunkEmbedding, len(texts))

	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		err := p.embedPool.Submit(func() {
			defer wg.Done()
			vector, err := p.embedder.EmbedText(ctx, text)
			if err != nil {
				p.logger.Error("chunk embedding failed, skipping chunk",
					"id", doc.Id, "chunk", i, "err", err)
				return
			}
			results[i] = &core.ChunkEmbedding{
				DocumentID: doc.Id,
				Index:      i,
				Text:       text,
				Vector:     vector,
			}
		})
		if err != nil {
			wg.Done()
			p.logger.Error("failed to submit chunk embedding task",
				"id", doc.Id, "chunk", i, "err", err)
		}
	}
	wg.Wait()

	chunks := make([]*core.ChunkEmbedding, 0, len(results))
	for _, chunk := range results {
		if chunk != nil {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}
