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


package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bbrooksdsq/ai-knowledge-database/ai"
	"github.com/bbrooksdsq/ai-knowledge-database/core"
)

// DefaultSummaryLength is the maximum summary length in characters used by
// the ingestion pipeline.
const DefaultSummaryLength = 200

// Service produces AI-derived metadata for documents: summaries, tags,
// entities and audio transcripts. Every operation except transcription
// degrades to a local approximation instead of failing, so a missing API key
// or a flaky provider never blocks ingestion.
//
// The degraded return value reports whether the local fallback produced the
// result. Callers use it for logging only; degraded output is stored the same
// way as AI output.
type Service struct {
	chat        ai.ChatModel    // nil when unconfigured
	transcriber ai.Transcriber  // nil when unconfigured
	logger      *slog.Logger
}

// NewService creates an enrichment service from the provider's chat and
// transcription capabilities. Either or both may be nil; nil services force
// the local degrade path for the operations that need them.
func NewService(provider ai.AIProvider) *Service {
	return &Service{
		chat:        provider.ChatModel(),
		transcriber: provider.Transcriber(),
		logger:      slog.Default().With("component", "enrichment"),
	}
}

// NewServiceWith creates an enrichment service from explicit services.
// Used by tests and callers that assemble capabilities by hand.
func NewServiceWith(chat ai.ChatModel, transcriber ai.Transcriber) *Service {
	return &Service{
		chat:        chat,
		transcriber: transcriber,
		logger:      slog.Default().With("component", "enrichment"),
	}
}

// Summarize produces a concise summary of the text, at most maxLen characters.
// Without a chat model, or when the model fails, it degrades to truncation.
func (s *Service) Summarize(ctx context.Context, text string, maxLen int) (string, bool) {
	if maxLen <= 0 {
		maxLen = DefaultSummaryLength
	}
	if s.chat == nil {
		return truncate(text, maxLen), true
	}

	user := fmt.Sprintf("Please summarize the following text in %d characters or less:\n\n%s", maxLen, text)
	summary, err := s.chat.Complete(ctx, summarySystemPrompt, user, ai.CompletionOptions{
		Temperature: 0.3,
		MaxTokens:   100,
	})
	if err != nil {
		s.logger.Error("summary generation failed, truncating instead", "err", err)
		return truncate(text, maxLen), true
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		s.logger.Warn("model returned empty summary, truncating instead")
		return truncate(text, maxLen), true
	}
	return summary, false
}

// ExtractTags extracts 3-5 relevant tags from the text. Without a chat model,
// or when the model fails, it degrades to local keyword extraction.
func (s *Service) ExtractTags(ctx context.Context, text string) ([]string, bool) {
	if s.chat == nil {
		return ExtractKeywords(text), true
	}

	user := fmt.Sprintf("Extract 3-5 relevant tags from this text:\n\n%s", text)
	raw, err := s.chat.Complete(ctx, tagsSystemPrompt, user, ai.CompletionOptions{
		Temperature: 0.3,
		MaxTokens:   50,
	})
	if err != nil {
		s.logger.Error("tag extraction failed, using keyword fallback", "err", err)
		return ExtractKeywords(text), true
	}

	tags := make([]string, 0, 5)
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		s.logger.Warn("model returned no tags, using keyword fallback")
		return ExtractKeywords(text), true
	}
	return tags, false
}

// extractedEntities matches the JSON shape requested from the model.
type extractedEntities struct {
	People   []string `json:"people"`
	Dates    []string `json:"dates"`
	Projects []string `json:"projects"`
	Topics   []string `json:"topics"`
}

// ExtractEntities extracts people, dates, projects and topics from the text.
// Any failure, including malformed model output, yields all-empty entities,
// never partial data.
func (s *Service) ExtractEntities(ctx context.Context, text string) (core.Entities, bool) {
	if s.chat == nil {
		return core.EmptyEntities(), true
	}

	user := fmt.Sprintf("Extract entities from this text and return as JSON:\n\n%s", text)
	raw, err := s.chat.Complete(ctx, entitiesSystemPrompt, user, ai.CompletionOptions{
		Temperature: 0.3,
		MaxTokens:   200,
	})
	if err != nil {
		s.logger.Error("entity extraction failed", "err", err)
		return core.EmptyEntities(), true
	}

	var parsed extractedEntities
	if err := json.Unmarshal([]byte(repairJSON(raw)), &parsed); err != nil {
		s.logger.Warn("discarding malformed entity response",
			"err", fmt.Errorf("%w: %w", ai.ErrMalformedEntities, err))
		return core.EmptyEntities(), true
	}

	return core.Entities{
		People:   orEmpty(parsed.People),
		Dates:    orEmpty(parsed.Dates),
		Projects: orEmpty(parsed.Projects),
		Topics:   orEmpty(parsed.Topics),
	}, false
}

// Transcribe converts the audio file at path to plain text. Transcription has
// no local fallback; without a configured transcriber it fails with
// ai.ErrTranscriptionUnavailable.
func (s *Service) Transcribe(ctx context.Context, path string) (string, error) {
	if s.transcriber == nil {
		return "", ai.ErrTranscriptionUnavailable
	}

	transcript, err := s.transcriber.Transcribe(ctx, path)
	if err != nil {
		s.logger.Error("audio transcription failed", "path", path, "err", err)
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return strings.TrimSpace(transcript), nil
}

// SpeakerTranscript is a transcript formatted with speaker labels plus a brief
// meeting summary.
type SpeakerTranscript struct {
	Transcript string   `json:"transcript"`
	Speakers   []string `json:"speakers"`
	Summary    string   `json:"summary"`
}

// TranscribeWithSpeakers transcribes the audio file and formats the result
// with speaker identification via the chat model. Transcription failures are
// hard errors; formatting failures fall back to a single-speaker wrap of the
// raw transcript.
func (s *Service) TranscribeWithSpeakers(ctx context.Context, path string) (*SpeakerTranscript, error) {
	transcript, err := s.Transcribe(ctx, path)
	if err != nil {
		return nil, err
	}

	if s.chat == nil {
		return singleSpeaker(transcript), nil
	}

	user := fmt.Sprintf("Please format this meeting transcript with speaker identification:\n\n%s", transcript)
	raw, err := s.chat.Complete(ctx, speakerSystemPrompt, user, ai.CompletionOptions{
		Temperature: 0.3,
	})
	if err != nil {
		s.logger.Error("speaker identification failed, using raw transcript", "err", err)
		return singleSpeaker(transcript), nil
	}

	var formatted SpeakerTranscript
	if err := json.Unmarshal([]byte(repairJSON(raw)), &formatted); err != nil {
		s.logger.Warn("discarding malformed speaker response", "err", err)
		return singleSpeaker(transcript), nil
	}
	if formatted.Transcript == "" {
		return singleSpeaker(transcript), nil
	}
	if len(formatted.Speakers) == 0 {
		formatted.Speakers = []string{"Speaker 1"}
	}
	return &formatted, nil
}

func singleSpeaker(transcript string) *SpeakerTranscript {
	return &SpeakerTranscript{
		Transcript: transcript,
		Speakers:   []string{"Speaker 1"},
		Summary:    "Meeting transcript (speaker identification unavailable)",
	}
}

// truncate shortens text to at most maxLen characters, appending "..." when
// anything was cut. Character means rune, not byte.
func truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
