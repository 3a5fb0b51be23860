package ingestion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bbrooksdsq/ai-knowledge-database/ai"
	"github.com/bbrooksdsq/ai-knowledge-database/ai/mock"
	"github.com/bbrooksdsq/ai-knowledge-database/core"
	"github.com/bbrooksdsq/ai-knowledge-database/enrichment"
	"github.com/bbrooksdsq/ai-knowledge-database/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(t *testing.T, embedder *mock.MockEmbedder, chat *mock.MockChatModel, opts ...Option) (*Pipeline, *badger.MemoryRepositories) {
	t.Helper()

	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	enricher := enrichment.NewServiceWith(chatOrNil(chat), nil)
	pipeline, err := NewPipeline(repos.Documents, repos.Chunks, enricher, embedder, opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return pipeline, repos
}

func chatOrNil(chat *mock.MockChatModel) ai.ChatModel {
	if chat == nil {
		return nil
	}
	return chat
}

func TestIngestPersistsAndEnriches(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	chat := mock.NewMockChatModel("concise summary")
	pipeline, repos := newTestPipeline(t, embedder, chat, WithChunkSize(20))
	ctx := context.Background()

	doc := &core.Document{
		Title:    "release notes",
		Content:  strings.Repeat("release content ", 5),
		FileType: core.FileTypeText,
		Entities: core.EmptyEntities(),
	}
	require.NoError(t, pipeline.Ingest(ctx, doc))
	require.NotZero(t, doc.Id)

	stored, err := repos.Documents.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, "concise summary", stored.Summary)
	assert.NotEmpty(t, stored.Tags)

	chunks, err := repos.Chunks.GetChunks(ctx, doc.Id)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
		assert.NotEmpty(t, chunk.Vector)
	}
	assert.Equal(t, stored.Content, joinChunks(chunks))
}

func joinChunks(chunks []*core.ChunkEmbedding) string {
	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Text)
	}
	return sb.String()
}

func TestIngestInvalidDocumentFails(t *testing.T) {
	pipeline, _ := newTestPipeline(t, mock.NewMockEmbedder(), nil)

	err := pipeline.Ingest(context.Background(), &core.Document{
		Title:    "",
		Content:  "body",
		FileType: core.FileTypeText,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEmptyTitle)
}

func TestIngestWithoutChatModelDegradesEnrichment(t *testing.T) {
	pipeline, repos := newTestPipeline(t, mock.NewMockEmbedder(), nil)
	ctx := context.Background()

	doc := &core.Document{
		Title:    "degraded",
		Content:  "kubernetes deployment kubernetes rollout kubernetes",
		FileType: core.FileTypeText,
		Entities: core.EmptyEntities(),
	}
	require.NoError(t, pipeline.Ingest(ctx, doc))

	stored, err := repos.Documents.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, doc.Content, stored.Summary, "short content summary degrades to the content itself")
	assert.Contains(t, stored.Tags, "kubernetes")
	assert.Empty(t, stored.Entities.People)
}

func TestEnrichSkipsFailedChunks(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	fail := true
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		// Fail every other chunk
		fail = !fail
		if fail {
			return nil, errors.New("embedding offline")
		}
		return []float32{1, 2, 3}, nil
	}

	pipeline, repos := newTestPipeline(t, embedder, nil, WithChunkSize(10), WithPoolSize(1))
	ctx := context.Background()

	doc := &core.Document{
		Title:    "partial",
		Content:  strings.Repeat("x", 40),
		FileType: core.FileTypeText,
		Entities: core.EmptyEntities(),
	}
	require.NoError(t, pipeline.Ingest(ctx, doc))

	chunks, err := repos.Chunks.GetChunks(ctx, doc.Id)
	require.NoError(t, err)
	assert.Len(t, chunks, 2, "two of four chunks should survive")
}

func TestEnrichReplacesChunksWholesale(t *testing.T) {
	pipeline, repos := newTestPipeline(t, mock.NewMockEmbedder(), nil, WithChunkSize(1000))
	ctx := context.Background()

	doc := &core.Document{
		Title:    "shrinking",
		Content:  strings.Repeat("long original content ", 100),
		FileType: core.FileTypeText,
		Entities: core.EmptyEntities(),
	}
	require.NoError(t, pipeline.Ingest(ctx, doc))

	before, err := repos.Chunks.GetChunks(ctx, doc.Id)
	require.NoError(t, err)
	require.Greater(t, len(before), 1)

	doc.Content = "tiny"
	pipeline.Enrich(ctx, doc)

	after, err := repos.Chunks.GetChunks(ctx, doc.Id)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "tiny", after[0].Text)
}

func TestNewPipelineRequiresDependencies(t *testing.T) {
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()
	enricher := enrichment.NewServiceWith(nil, nil)
	embedder := mock.NewMockEmbedder()

	_, err = NewPipeline(nil, repos.Chunks, enricher, embedder)
	assert.ErrorIs(t, err, ErrDocumentRepositoryRequired)

	_, err = NewPipeline(repos.Documents, nil, enricher, embedder)
	assert.ErrorIs(t, err, ErrChunkRepositoryRequired)

	_, err = NewPipeline(repos.Documents, repos.Chunks, nil, embedder)
	assert.ErrorIs(t, err, ErrEnrichmentServiceRequired)

	_, err = NewPipeline(repos.Documents, repos.Chunks, enricher, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}
