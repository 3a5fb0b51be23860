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


package core

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - Content must not be empty
//   - FileType must be one of the known values
//
// NOT validated (populated by the ingestion pipeline):
//   - Summary, Tags, Entities (derived, can be empty until enrichment runs)
//   - ID (0 is valid from database sequences)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyTitle)
	}

	if doc.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	if err := ValidateFileType(doc.FileType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return nil
}

// ValidateChunkEmbedding validates a ChunkEmbedding according to domain rules.
//
// Validation rules:
//   - Index must not be negative
//   - Text must not be empty
//
// The vector is not validated here: dimensionality is a provider concern and
// an empty vector is legal for a chunk whose embedding was skipped.
func ValidateChunkEmbedding(chunk *ChunkEmbedding) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Index < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeChunkIndex)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkText)
	}

	return nil
}

// ValidateFileType validates that a FileType has a known value.
func ValidateFileType(ft FileType) error {
	switch ft {
	case FileTypeText, FileTypeMarkdown, FileTypePDF,
		FileTypeAudioTranscript, FileTypeMeetingNotes, FileTypeTeamsRecording:
		return nil
	}
	return fmt.Errorf("%w: value %q", ErrInvalidFileType, string(ft))
}
