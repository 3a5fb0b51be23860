package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs. The Teams importer
// relies on this to make re-imports of the same recording idempotent.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// FileType categorizes the origin format of a document.
type FileType string

const (
	FileTypeText            FileType = "text"
	FileTypeMarkdown        FileType = "markdown"
	FileTypePDF             FileType = "pdf"
	FileTypeAudioTranscript FileType = "audio_transcript"
	FileTypeMeetingNotes    FileType = "meeting_notes"
	FileTypeTeamsRecording  FileType = "teams_recording"
)

// Entities holds structured information extracted from a document.
// All slices are non-nil after enrichment; a degraded extraction yields
// four empty slices, never partial data.
type Entities struct {
	People   []string
	Dates    []string
	Projects []string
	Topics   []string
}

// EmptyEntities returns an Entities value with all four slices empty but non-nil.
func EmptyEntities() Entities {
	return Entities{
		People:   []string{},
		Dates:    []string{},
		Projects: []string{},
		Topics:   []string{},
	}
}

// Document is the primary record of the knowledge base.
// Identity is immutable once created. The derived fields (Summary, Tags,
// Entities) are written only by the ingestion pipeline; everything else is
// owned by the caller.
type Document struct {
	Id       ID
	Title    string
	Content  string
	FileType FileType
	Source   string // e.g. "upload", "email", "teams"
	FilePath string
	FileSize int64

	// Derived fields, populated by the ingestion pipeline.
	Summary  string
	Tags     []string
	Entities Entities

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChunkEmbedding is one embedded chunk of a document's content.
// For a document with content of length L and chunk size S the chunk indices
// form the contiguous range 0..ceil(L/S)-1. Chunk records are never updated in
// place; a content change replaces the full set.
type ChunkEmbedding struct {
	DocumentID ID
	Index      int       // 0-based position within the document
	Text       string    // the exact substring that was embedded
	Vector     []float32 // dimensionality is fixed per provider call, not globally
}

// SearchQueryLog is an append-only audit record, one row per search invocation
// regardless of mode.
type SearchQueryLog struct {
	Id          ID
	Query       string
	CallerID    string
	ResultCount int
	CreatedAt   time.Time
}

// SearchResult pairs a matched document with its relevance score and a
// bounded-length snippet. Transient, never persisted.
type SearchResult struct {
	Document *Document
	Score    float32 // cosine similarity in [-1,1] for semantic mode, constant 1.0 for keyword mode
	Snippet  string
}

// SearchResponse is the complete, always-well-formed answer to a search call.
type SearchResponse struct {
	Query   string
	Results []*SearchResult
	Total   int
	Elapsed time.Duration
}
