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


package knowledgebase

import (
	"io"
	"log/slog"

	"github.com/bbrooksdsq/ai-knowledge-database/ai"
	"github.com/bbrooksdsq/ai-knowledge-database/ai/ollama"
	"github.com/bbrooksdsq/ai-knowledge-database/ai/openai"
	"github.com/bbrooksdsq/ai-knowledge-database/enrichment"
	"github.com/bbrooksdsq/ai-knowledge-database/ingestion"
	"github.com/bbrooksdsq/ai-knowledge-database/reindex"
	"github.com/bbrooksdsq/ai-knowledge-database/search"
	"github.com/bbrooksdsq/ai-knowledge-database/storage"
	"github.com/bbrooksdsq/ai-knowledge-database/storage/badger"
	"github.com/bbrooksdsq/ai-knowledge-database/teams"
)

// Database is the top-level handle to a knowledge base: the badger backend,
// its repositories and the AI service chain. It vends the ingestion pipeline,
// the search engine and the reindexer, all sharing the same stores and
// embedder.
type Database struct {
	backend      *badger.Backend
	documentRepo *badger.DocumentRepository
	chunkRepo    *badger.ChunkRepository
	queryLogRepo *badger.QueryLogRepository
	provider     ai.AIProvider
	embedder     *ai.FallbackEmbedder
	enricher     *enrichment.Service
	logger       *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	inMemory bool
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithInMemoryStorage opens the backend without a backing file. Data is lost
// on Close; intended for tests and experiments.
func WithInMemoryStorage() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens (or creates) a knowledge base at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	documentRepo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	chunkRepo := badger.NewChunkRepository(backend, documentRepo)
	queryLogRepo, err := badger.NewQueryLogRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:      backend,
		documentRepo: documentRepo,
		chunkRepo:    chunkRepo,
		queryLogRepo: queryLogRepo,
		provider:     provider,
		embedder:     newEmbedderChain(options.aiConfig, provider),
		enricher:     enrichment.NewService(provider),
		logger:       slog.Default(),
	}, nil
}

// newEmbedderChain wires the remote embedder and the lazily loaded local
// model into the fallback chain. Either side may be absent; the chain fails
// at call time only when neither is usable.
func newEmbedderChain(config *ai.Config, provider ai.AIProvider) *ai.FallbackEmbedder {
	var remote ai.Embedder
	if config.HasRemote() {
		remote = provider.Embedder()
	}

	var loader ai.LocalLoader
	if config.HasLocal() {
		loader = func() (ai.Embedder, error) {
			return ollama.NewEmbedder(config)
		}
	}

	return ai.NewFallbackEmbedder(remote, loader)
}

func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.documentRepo
}

func (db *Database) ChunkRepository() storage.ChunkRepository {
	return db.chunkRepo
}

func (db *Database) QueryLogRepository() storage.QueryLogRepository {
	return db.queryLogRepo
}

// Embedder returns the shared fallback embedding chain.
func (db *Database) Embedder() ai.Embedder {
	return db.embedder
}

// Enricher returns the shared enrichment service.
func (db *Database) Enricher() *enrichment.Service {
	return db.enricher
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.documentRepo, db.chunkRepo, db.enricher, db.embedder, opts...)
}

func (db *Database) NewSearchEngine(opts ...search.Option) (*search.Engine, error) {
	return search.NewEngine(db.documentRepo, db.chunkRepo, db.queryLogRepo, db.embedder, opts...)
}

// NewReindexer builds a reindexer over the given pipeline. Progress output
// goes to the writer, typically os.Stderr.
func (db *Database) NewReindexer(pipeline *ingestion.Pipeline, config *reindex.Config, progress io.Writer) (*reindex.Reindexer, error) {
	return reindex.NewReindexer(db.documentRepo, pipeline, config, progress)
}

// NewTeamsImporter builds a Teams recording importer feeding the given
// pipeline.
func (db *Database) NewTeamsImporter(config *teams.Config, pipeline *ingestion.Pipeline) (*teams.Importer, error) {
	client, err := teams.NewClient(config)
	if err != nil {
		return nil, err
	}
	return teams.NewImporter(client, db.enricher, pipeline), nil
}
