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


package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/bbrooksdsq/ai-knowledge-database/ai"
	"github.com/bbrooksdsq/ai-knowledge-database/core"
	"github.com/bbrooksdsq/ai-knowledge-database/storage"
)

// DefaultLimit caps result counts when callers pass a non-positive limit.
const DefaultLimit = 10

// Engine answers semantic and keyword searches over the document store.
//
// Search never surfaces an error to the caller: an unavailable embedder or a
// failing repository produces an empty response with measured elapsed time,
// and the cause is logged. Degraded search beats failed search for an
// interactive knowledge base.
type Engine struct {
	documents storage.DocumentRepository
	chunks    storage.ChunkRepository
	queryLog  storage.QueryLogRepository
	embedder  ai.Embedder
	monitor   Monitor
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithMonitor sets a search monitor receiving callbacks at each stage.
// Default is a no-op monitor.
func WithMonitor(m Monitor) Option {
	return func(e *Engine) error {
		if m == nil {
			m = &noopMonitor{}
		}
		e.monitor = m
		return nil
	}
}

// NewEngine creates a new search engine.
func NewEngine(
	documents storage.DocumentRepository,
	chunks storage.ChunkRepository,
	queryLog storage.QueryLogRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Engine, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if queryLog == nil {
		return nil, ErrQueryLogRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	e := &Engine{
		documents: documents,
		chunks:    chunks,
		queryLog:  queryLog,
		embedder:  embedder,
		monitor:   &noopMonitor{},
		logger:    slog.Default().With("component", "search"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// SemanticSearch ranks documents by cosine similarity between the query
// embedding and their chunk embeddings. Every chunk is scored; a document
// appears once per matching chunk, best chunks first.
func (e *Engine) SemanticSearch(ctx context.Context, query, callerID string, limit int, filter *storage.DocumentFilter) *core.SearchResponse {
	start := time.Now()
	if limit <= 0 {
		limit = DefaultLimit
	}
	e.monitor.Start(query)

	queryVec, err := e.embedder.EmbedText(ctx, query)
	if err != nil {
		e.logger.Error("query embedding failed, returning empty results", "query", query, "err", err)
		return e.finish(ctx, query, callerID, nil, start)
	}
	e.monitor.AfterQueryEmbedding(queryVec)

	candidates, err := e.chunks.ListChunks(ctx, filter)
	if err != nil {
		e.logger.Error("chunk retrieval failed, returning empty results", "query", query, "err", err)
		return e.finish(ctx, query, callerID, nil, start)
	}
	e.monitor.AfterChunkRetrieval(len(candidates))

	results := make([]*core.SearchResult, 0, len(candidates))
	for _, cand := range candidates {
		score := CosineSimilarity(queryVec, cand.Chunk.Vector)
		e.monitor.Scored(cand.Document.Id, score)
		results = append(results, &core.SearchResult{
			Document: cand.Document,
			Score:    score,
			Snippet:  Snippet(cand.Chunk.Text, query),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}

	return e.finish(ctx, query, callerID, results, start)
}

// KeywordSearch matches documents whose title or content contains any of the
// query's lowercase tokens as a substring. Results score a constant 1.0 and
// keep store order.
func (e *Engine) KeywordSearch(ctx context.Context, query, callerID string, limit int, filter *storage.DocumentFilter) *core.SearchResponse {
	start := time.Now()
	if limit <= 0 {
		limit = DefaultLimit
	}
	e.monitor.Start(query)

	terms := strings.Fields(strings.ToLower(query))

	docs, err := e.documents.ListDocuments(ctx, filter)
	if err != nil {
		e.logger.Error("document retrieval failed, returning empty results", "query", query, "err", err)
		return e.finish(ctx, query, callerID, nil, start)
	}

	results := make([]*core.SearchResult, 0)
	for _, doc := range docs {
		if !matchesAnyTerm(doc, terms) {
			continue
		}
		results = append(results, &core.SearchResult{
			Document: doc,
			Score:    1.0,
			Snippet:  Snippet(doc.Content, query),
		})
		if len(results) == limit {
			break
		}
	}

	return e.finish(ctx, query, callerID, results, start)
}

// matchesAnyTerm reports whether any term occurs in the document's title or
// content, case-insensitively.
func matchesAnyTerm(doc *core.Document, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	title := strings.ToLower(doc.Title)
	content := strings.ToLower(doc.Content)
	for _, term := range terms {
		if strings.Contains(title, term) || strings.Contains(content, term) {
			return true
		}
	}
	return false
}

// finish assembles the response and appends the query log row. Logging
// failure is non-fatal; results have already been computed and belong to the
// caller regardless.
func (e *Engine) finish(ctx context.Context, query, callerID string, results []*core.SearchResult, start time.Time) *core.SearchResponse {
	if results == nil {
		results = []*core.SearchResult{}
	}

	response := &core.SearchResponse{
		Query:   query,
		Results: results,
		Total:   len(results),
		Elapsed: time.Since(start),
	}
	e.monitor.Finish(results)

	_, err := e.queryLog.AppendQuery(ctx, &core.SearchQueryLog{
		Query:       query,
		CallerID:    callerID,
		ResultCount: len(results),
	})
	if err != nil {
		e.logger.Warn("failed to record search query", "query", query, "err", err)
	}

	return response
}
