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


// Package config loads application configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/bbrooksdsq/ai-knowledge-database/ai"
	"github.com/bbrooksdsq/ai-knowledge-database/teams"
)

// AppConfig is the full application configuration resolved from the
// environment.
type AppConfig struct {
	DBPath string

	OpenAIAPIKey       string
	OpenAIBaseURL      string
	EmbeddingModel     string
	ChatModel          string
	TranscriptionModel string
	LocalEmbedderHost  string
	LocalEmbedderModel string
	RequestTimeout     time.Duration

	TeamsTenantID     string
	TeamsClientID     string
	TeamsClientSecret string
	TeamsDownloadDir  string
}

// Load reads the .env file when present, then resolves the configuration from
// environment variables. Environment variables set in the process win over
// .env values, matching godotenv's no-overload behavior.
func Load() *AppConfig {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	return &AppConfig{
		DBPath: getenv("AIKB_DB_PATH", "aikb.db"),

		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:      getenv("OPENAI_BASE_URL", ""),
		EmbeddingModel:     getenv("OPENAI_EMBEDDING_MODEL", ""),
		ChatModel:          getenv("OPENAI_CHAT_MODEL", ""),
		TranscriptionModel: getenv("OPENAI_TRANSCRIPTION_MODEL", ""),
		LocalEmbedderHost:  getenv("LOCAL_EMBEDDER_HOST", ""),
		LocalEmbedderModel: getenv("LOCAL_EMBEDDER_MODEL", ""),
		RequestTimeout:     getduration("AI_REQUEST_TIMEOUT", 0),

		TeamsTenantID:     os.Getenv("TEAMS_TENANT_ID"),
		TeamsClientID:     os.Getenv("TEAMS_CLIENT_ID"),
		TeamsClientSecret: os.Getenv("TEAMS_CLIENT_SECRET"),
		TeamsDownloadDir:  getenv("TEAMS_DOWNLOAD_DIR", "uploads"),
	}
}

// AIConfig builds the AI layer configuration. Unset variables keep the ai
// package defaults.
func (c *AppConfig) AIConfig() *ai.Config {
	var opts []ai.ConfigOption
	opts = append(opts, ai.WithAPIKey(c.OpenAIAPIKey))
	if c.OpenAIBaseURL != "" {
		opts = append(opts, ai.WithBaseURL(c.OpenAIBaseURL))
	}
	if c.EmbeddingModel != "" {
		opts = append(opts, ai.WithEmbeddingModel(c.EmbeddingModel))
	}
	if c.ChatModel != "" {
		opts = append(opts, ai.WithChatModel(c.ChatModel))
	}
	if c.TranscriptionModel != "" {
		opts = append(opts, ai.WithTranscriptionModel(c.TranscriptionModel))
	}
	if c.LocalEmbedderHost != "" && c.LocalEmbedderModel != "" {
		opts = append(opts, ai.WithLocalEmbedder(c.LocalEmbedderHost, c.LocalEmbedderModel))
	}
	if c.RequestTimeout > 0 {
		opts = append(opts, ai.WithRequestTimeout(c.RequestTimeout))
	}
	return ai.NewConfig(opts...)
}

// TeamsConfig builds the Teams importer configuration.
func (c *AppConfig) TeamsConfig() *teams.Config {
	return &teams.Config{
		TenantID:     c.TeamsTenantID,
		ClientID:     c.TeamsClientID,
		ClientSecret: c.TeamsClientSecret,
		DownloadDir:  c.TeamsDownloadDir,
	}
}

// HasTeams reports whether a complete Teams credential is configured.
func (c *AppConfig) HasTeams() bool {
	return c.TeamsConfig().Validate() == nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default",
			"key", key, "value", v)
		return fallback
	}
	return d
}
