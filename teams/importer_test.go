package teams

import (
	"context"
	"errors"
	"os"
	"path/filepath"
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

type stubSource struct {
	recordings  []Recording
	listErr     error
	downloadErr error
	downloads   int
	dir         string
}

func (s *stubSource) ListRecordings(ctx context.Context, daysBack int) ([]Recording, error) {
	return s.recordings, s.listErr
}

func (s *stubSource) DownloadRecording(ctx context.Context, recording Recording) (string, error) {
	if s.downloadErr != nil {
		return "", s.downloadErr
	}
	s.downloads++
	path := filepath.Join(s.dir, recording.CallID+".mp4")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func newTestImporter(t *testing.T, source *stubSource) (*Importer, *badger.MemoryRepositories) {
	t.Helper()

	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	transcriber := mock.NewMockTranscriber("hello from the meeting")
	enricher := enrichment.NewServiceWith(nil, transcriber)

	embedder := mock.NewMockEmbedder()
	pipeline, err := ingestion.NewPipeline(repos.Documents, repos.Chunks, enricher, embedder)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return NewImporter(source, enricher, pipeline), repos
}

func callRecording(callID string) Recording {
	return Recording{
		CallID:      callID,
		Name:        "Teams Call - 2026-08-28 14:30",
		StartTime:   time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC),
		DownloadURL: "https://example.com/" + callID + ".mp4",
	}
}

func TestSyncImportsRecordings(t *testing.T) {
	source := &stubSource{
		recordings: []Recording{callRecording("call-1")},
		dir:        t.TempDir(),
	}
	importer, repos := newTestImporter(t, source)

	imported, err := importer.Sync(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, imported)

	docID := core.IDFromContent("teams-call:call-1")
	doc, err := repos.Documents.GetDocument(context.Background(), docID)
	require.NoError(t, err)
	assert.Equal(t, "Teams Call - 2026-08-28 14:30", doc.Title)
	assert.Equal(t, "hello from the meeting", doc.Content)
	assert.Equal(t, core.FileTypeTeamsRecording, doc.FileType)
	assert.Equal(t, "microsoft_teams", doc.Source)
	assert.Equal(t, int64(5), doc.FileSize)
}

func TestSyncIsIdempotent(t *testing.T) {
	source := &stubSource{
		recordings: []Recording{callRecording("call-1")},
		dir:        t.TempDir(),
	}
	importer, repos := newTestImporter(t, source)
	ctx := context.Background()

	for range 2 {
		imported, err := importer.Sync(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, 1, imported)
	}

	docs, err := repos.Documents.ListDocuments(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestSyncSkipsFailedRecordings(t *testing.T) {
	source := &stubSource{
		recordings:  []Recording{callRecording("call-1")},
		downloadErr: errors.New("expired download url"),
		dir:         t.TempDir(),
	}
	importer, repos := newTestImporter(t, source)

	imported, err := importer.Sync(context.Background(), 7)
	require.NoError(t, err)
	assert.Zero(t, imported)

	docs, err := repos.Documents.ListDocuments(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSyncListFailure(t *testing.T) {
	source := &stubSource{listErr: errors.New("graph unavailable")}
	importer, _ := newTestImporter(t, source)

	_, err := importer.Sync(context.Background(), 7)
	require.Error(t, err)
}
