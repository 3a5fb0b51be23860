package reindex

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bbrooksdsq/ai-knowledge-database/ai/mock"
	"github.com/bbrooksdsq/ai-knowledge-database/core"
	"github.com/bbrooksdsq/ai-knowledge-database/enrichment"
	"github.com/bbrooksdsq/ai-knowledge-database/ingestion"
	"github.com/bbrooksdsq/ai-knowledge-database/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		BatchSize:      2,
		Workers:        2,
		ReportInterval: 1,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}
}

func newReindexFixture(t *testing.T, embedder *mock.MockEmbedder) (*Reindexer, *badger.MemoryRepositories, *bytes.Buffer) {
	t.Helper()

	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	enricher := enrichment.NewServiceWith(nil, nil)
	pipeline, err := ingestion.NewPipeline(repos.Documents, repos.Chunks, enricher, embedder,
		ingestion.WithChunkSize(50))
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	var buf bytes.Buffer
	reindexer, err := NewReindexer(repos.Documents, pipeline, testConfig(), &buf)
	require.NoError(t, err)
	return reindexer, repos, &buf
}

func seedDocs(t *testing.T, repos *badger.MemoryRepositories, n int) []*core.Document {
	t.Helper()
	docs := make([]*core.Document, 0, n)
	for i := 0; i < n; i++ {
		doc, err := repos.Documents.AddDocument(context.Background(), &core.Document{
			Title:    "doc",
			Content:  strings.Repeat("stable content ", 10),
			FileType: core.FileTypeText,
			Entities: core.EmptyEntities(),
		})
		require.NoError(t, err)
		docs = append(docs, doc)
	}
	return docs
}

func TestRunReindexesAllDocuments(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	reindexer, repos, buf := newReindexFixture(t, embedder)
	docs := seedDocs(t, repos, 5)

	skipped, err := reindexer.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Contains(t, buf.String(), "Starting reindex of 5 documents")

	for _, doc := range docs {
		chunks, err := repos.Chunks.GetChunks(context.Background(), doc.Id)
		require.NoError(t, err)
		assert.NotEmpty(t, chunks, "every document gets fresh chunk embeddings")
	}
}

func TestRunEmptyDatabase(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	reindexer, _, buf := newReindexFixture(t, embedder)

	skipped, err := reindexer.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Contains(t, buf.String(), "No documents found")
}

func TestRunCancelledContext(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	reindexer, repos, _ := newReindexFixture(t, embedder)
	seedDocs(t, repos, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := reindexer.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewReindexerRequiresDependencies(t *testing.T) {
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	_, err = NewReindexer(nil, nil, nil, nil)
	assert.ErrorIs(t, err, ErrDocumentRepositoryRequired)

	_, err = NewReindexer(repos.Documents, nil, nil, nil)
	assert.ErrorIs(t, err, ErrPipelineRequired)
}
