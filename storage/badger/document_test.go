package badger

import (
	"context"
	"testing"
	"time"

	"github.com/bbrooksdsq/ai-knowledge-database/core"
	"github.com/bbrooksdsq/ai-knowledge-database/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepos(t *testing.T) *MemoryRepositories {
	t.Helper()
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })
	return repos
}

func sampleDocument(title string) *core.Document {
	return &core.Document{
		Title:    title,
		Content:  "content of " + title,
		FileType: core.FileTypeText,
		Source:   "upload",
		Tags:     []string{"sample"},
		Entities: core.EmptyEntities(),
	}
}

func TestAddDocumentGeneratesID(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	doc, err := repos.Documents.AddDocument(ctx, sampleDocument("first"))
	require.NoError(t, err)
	assert.NotZero(t, doc.Id)
	assert.False(t, doc.CreatedAt.IsZero())
	assert.False(t, doc.UpdatedAt.IsZero())

	second, err := repos.Documents.AddDocument(ctx, sampleDocument("second"))
	require.NoError(t, err)
	assert.NotEqual(t, doc.Id, second.Id)
}

func TestAddDocumentKeepsPresetID(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	preset := core.IDFromContent("teams-recording-abc")
	doc := sampleDocument("recording")
	doc.Id = preset

	stored, err := repos.Documents.AddDocument(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, preset, stored.Id)

	// Re-adding under the same ID overwrites but keeps the creation time
	created := stored.CreatedAt
	again := sampleDocument("recording updated")
	again.Id = preset
	stored2, err := repos.Documents.AddDocument(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, preset, stored2.Id)
	assert.Equal(t, created, stored2.CreatedAt)

	all, err := repos.Documents.ListDocuments(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, "recording updated", all[0].Title)
}

func TestGetDocument(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	doc, err := repos.Documents.AddDocument(ctx, sampleDocument("findable"))
	require.NoError(t, err)

	got, err := repos.Documents.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, "findable", got.Title)

	_, err = repos.Documents.GetDocument(ctx, 99999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateDocument(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	doc, err := repos.Documents.AddDocument(ctx, sampleDocument("original"))
	require.NoError(t, err)
	created := doc.CreatedAt

	doc.Summary = "a summary"
	doc.Tags = []string{"updated"}
	updated, err := repos.Documents.UpdateDocument(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, created, updated.CreatedAt)

	got, err := repos.Documents.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, "a summary", got.Summary)
	assert.Equal(t, []string{"updated"}, got.Tags)
}

func TestUpdateMissingDocument(t *testing.T) {
	repos := newTestRepos(t)

	missing := sampleDocument("ghost")
	missing.Id = 424242
	_, err := repos.Documents.UpdateDocument(context.Background(), missing)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteDocumentCascadesChunks(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	doc, err := repos.Documents.AddDocument(ctx, sampleDocument("doomed"))
	require.NoError(t, err)

	err = repos.Chunks.ReplaceChunks(ctx, doc.Id, []*core.ChunkEmbedding{
		{Index: 0, Text: "part one", Vector: []float32{1, 0}},
		{Index: 1, Text: "part two", Vector: []float32{0, 1}},
	})
	require.NoError(t, err)

	require.NoError(t, repos.Documents.DeleteDocument(ctx, doc.Id))

	_, err = repos.Documents.GetDocument(ctx, doc.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	chunks, err := repos.Chunks.GetChunks(ctx, doc.Id)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	assert.ErrorIs(t, repos.Documents.DeleteDocument(ctx, doc.Id), storage.ErrNotFound)
}

func TestListDocumentsOrderAndFilter(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	a := sampleDocument("alpha")
	a.FileType = core.FileTypeMarkdown
	a.Tags = []string{"go", "notes"}
	_, err := repos.Documents.AddDocument(ctx, a)
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	b := sampleDocument("beta")
	b.FileType = core.FileTypePDF
	_, err = repos.Documents.AddDocument(ctx, b)
	require.NoError(t, err)

	all, err := repos.Documents.ListDocuments(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "alpha", all[0].Title)
	assert.Equal(t, "beta", all[1].Title)

	md, err := repos.Documents.ListDocuments(ctx, &storage.DocumentFilter{
		FileTypes: []core.FileType{core.FileTypeMarkdown},
	})
	require.NoError(t, err)
	require.Len(t, md, 1)
	assert.Equal(t, "alpha", md[0].Title)

	tagged, err := repos.Documents.ListDocuments(ctx, &storage.DocumentFilter{
		Tags: []string{"go", "notes"},
	})
	require.NoError(t, err)
	assert.Len(t, tagged, 1)

	none, err := repos.Documents.ListDocuments(ctx, &storage.DocumentFilter{
		Tags: []string{"missing"},
	})
	require.NoError(t, err)
	assert.Empty(t, none)
}
