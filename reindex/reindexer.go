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


package reindex

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/bbrooksdsq/ai-knowledge-database/core"
	"github.com/bbrooksdsq/ai-knowledge-database/ingestion"
	"github.com/bbrooksdsq/ai-knowledge-database/storage"
	"github.com/panjf2000/ants/v2"
)

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of documents to process in each batch
	BatchSize int

	// Workers is the worker pool size for concurrent document processing
	Workers int

	// ReportInterval is how often to report progress (number of documents)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		Workers:        4,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer re-enriches every document in the store through the ingestion
// pipeline: fresh summary, tags, entities and chunk embeddings. Run it after
// switching embedding models, since similarity scores are only meaningful
// between vectors from the same model.
type Reindexer struct {
	documents storage.DocumentRepository
	pipeline  *ingestion.Pipeline
	config    *Config
	retry     *retryPolicy
	progress  io.Writer
	logger    *slog.Logger
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(documents storage.DocumentRepository, pipeline *ingestion.Pipeline, config *Config, progress io.Writer) (*Reindexer, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	logger := slog.Default().With("component", "reindex")
	retry, err := newRetryPolicy(config.MaxRetries, config.RetryDelay, logger)
	if err != nil {
		return nil, err
	}

	return &Reindexer{
		documents: documents,
		pipeline:  pipeline,
		config:    config,
		retry:     retry,
		progress:  progress,
		logger:    logger,
	}, nil
}

// Run executes the reindexing operation over every stored document.
// Per-document failures are retried with backoff and then skipped; the count
// of skipped documents is returned alongside any fatal error.
func (r *Reindexer) Run(ctx context.Context) (skipped int, err error) {
	docs, err := r.documents.ListDocuments(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to list documents: %w", err)
	}

	total := len(docs)
	if total == 0 {
		fmt.Fprintf(r.progress, "No documents found in database (0 documents)\n")
		return 0, nil
	}

	fmt.Fprintf(r.progress, "Starting reindex of %d documents (batch size: %d, workers: %d)\n",
		total, r.config.BatchSize, r.config.Workers)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	pool, err := ants.NewPool(r.config.Workers)
	if err != nil {
		return 0, err
	}
	defer pool.Release()

	var mu sync.Mutex

	for start := 0; start < total; start += r.config.BatchSize {
		if ctx.Err() != nil {
			return skipped, ctx.Err()
		}

		end := start + r.config.BatchSize
		if end > total {
			end = total
		}

		var wg sync.WaitGroup
		for _, doc := range docs[start:end] {
			wg.Add(1)
			submitErr := pool.Submit(func() {
				defer wg.Done()
				if ok := r.reindexDocument(ctx, doc); !ok {
					mu.Lock()
					skipped++
					mu.Unlock()
				}
				tracker.Increment(1)
			})
			if submitErr != nil {
				wg.Done()
				return skipped, submitErr
			}
		}
		wg.Wait()
	}

	tracker.Finish()
	fmt.Fprintf(r.progress, "Reindexed %d documents in %s (%d skipped)\n",
		total-skipped, tracker.Elapsed().Round(time.Millisecond), skipped)
	return skipped, nil
}

// reindexDocument re-enriches a single document with retry.
// Reports false when every attempt failed and the document was skipped.
func (r *Reindexer) reindexDocument(ctx context.Context, doc *core.Document) bool {
	err := r.retry.do(ctx, func() error {
		fresh, err := r.documents.GetDocument(ctx, doc.Id)
		if err != nil {
			return err
		}
		r.pipeline.Enrich(ctx, fresh)
		return nil
	})

	if err != nil {
		r.logger.Error("skipping document after repeated failures", "id", doc.Id, "err", err)
		return false
	}
	return true
}
