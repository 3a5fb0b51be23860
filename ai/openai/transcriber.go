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


package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bbrooksdsq/ai-knowledge-database/ai"
)

// Transcriber implements ai.Transcriber against the OpenAI-compatible audio
// transcription endpoint. langchaingo has no audio support, so this client
// speaks the multipart protocol directly.
type Transcriber struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

// newTranscriber is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newTranscriber(config *ai.Config) (*Transcriber, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Transcriber{
		baseURL: config.BaseURL,
		apiKey:  config.APIKey,
		model:   config.TranscriptionModel,
		client:  &http.Client{Timeout: config.RequestTimeout},
		logger:  slog.Default().With("component", "openai-transcriber"),
	}, nil
}

// NewTranscriber creates a new transcriber using the provided configuration.
//
// Returns ai.Transcriber interface to enforce abstraction.
func NewTranscriber(config *ai.Config) (ai.Transcriber, error) {
	return newTranscriber(config)
}

// transcriptionResponse matches the JSON body of the audio endpoint.
type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe converts the audio file at the given path to text.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read audio file: %w", err)
	}
	if err := mw.WriteField("model", t.model); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	url := t.baseURL + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	t.logger.Debug("transcribing audio", "file", filepath.Base(audioPath))

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Error("transcription request failed", "err", err)
		return "", fmt.Errorf("%w: %w", ai.ErrRemoteCallFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		t.logger.Error("transcription request rejected",
			"status", resp.StatusCode,
			"body", string(payload))
		return "", fmt.Errorf("%w: transcription status %d", ai.ErrRemoteCallFailed, resp.StatusCode)
	}

	var parsed transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode transcription response: %w", err)
	}

	return parsed.Text, nil
}
