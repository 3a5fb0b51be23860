package teams

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bbrooksdsq/ai-knowledge-database/core"
	"github.com/bbrooksdsq/ai-knowledge-database/enrichment"
	"github.com/bbrooksdsq/ai-knowledge-database/ingestion"
)

// RecordingSource lists and downloads call recordings. Implemented by Client;
// tests substitute a stub.
type RecordingSource interface {
	ListRecordings(ctx context.Context, daysBack int) ([]Recording, error)
	DownloadRecording(ctx context.Context, recording Recording) (string, error)
}

// Importer syncs Teams call recordings into the knowledge base: download,
// transcribe with speakers, then ingest as a teams_recording document.
// Document ids are derived from the call id, so re-importing the same window
// overwrites the existing documents instead of duplicating them.
type Importer struct {
	source   RecordingSource
	enricher *enrichment.Service
	pipeline *ingestion.Pipeline
	logger   *slog.Logger
}

// NewImporter creates an importer over the given recording source.
func NewImporter(
	source RecordingSource,
	enricher *enrichment.Service,
	pipeline *ingestion.Pipeline,
) *Importer {
	return &Importer{
		source:   source,
		enricher: enricher,
		pipeline: pipeline,
		logger:   slog.Default().With("component", "teams-importer"),
	}
}

// Sync imports recordings from the last daysBack days and returns the number
// of documents ingested. A failure on one recording is logged and skipped;
// the sync continues with the rest.
func (i *Importer) Sync(ctx context.Context, daysBack int) (int, error) {
	recordings, err := i.source.ListRecordings(ctx, daysBack)
	if err != nil {
		return 0, fmt.Errorf("list recordings: %w", err)
	}

	imported := 0
	for _, recording := range recordings {
		if err := i.importRecording(ctx, recording); err != nil {
			i.logger.Error("failed to import recording",
				"call_id", recording.CallID, "error", err)
			continue
		}
		imported++
	}

	i.logger.Info("teams sync complete",
		"found", len(recordings), "imported", imported)
	return imported, nil
}

func (i *Importer) importRecording(ctx context.Context, recording Recording) error {
	path, err := i.source.DownloadRecording(ctx, recording)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}

	transcript, err := i.enricher.TranscribeWithSpeakers(ctx, path)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}

	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	doc := &core.Document{
		// Deterministic id keyed on the call: re-imports update in place.
		Id:       core.IDFromContent("teams-call:" + recording.CallID),
		Title:    recording.Name,
		Content:  transcript.Transcript,
		FileType: core.FileTypeTeamsRecording,
		Source:   "microsoft_teams",
		FilePath: path,
		FileSize: size,
	}

	if err := i.pipeline.Ingest(ctx, doc); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	i.logger.Info("imported teams recording",
		"call_id", recording.CallID, "document_id", doc.Id,
		"speakers", len(transcript.Speakers))
	return nil
}
