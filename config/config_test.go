package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "aikb.db", cfg.DBPath)
	assert.Equal(t, "uploads", cfg.TeamsDownloadDir)
	assert.False(t, cfg.HasTeams())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("AIKB_DB_PATH", "/data/kb")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_CHAT_MODEL", "gpt-4o")
	t.Setenv("AI_REQUEST_TIMEOUT", "45s")
	t.Setenv("TEAMS_TENANT_ID", "tenant")
	t.Setenv("TEAMS_CLIENT_ID", "client")
	t.Setenv("TEAMS_CLIENT_SECRET", "secret")

	cfg := Load()
	assert.Equal(t, "/data/kb", cfg.DBPath)
	assert.True(t, cfg.HasTeams())

	aiCfg := cfg.AIConfig()
	require.NoError(t, aiCfg.Validate())
	assert.Equal(t, "sk-test", aiCfg.APIKey)
	assert.Equal(t, "gpt-4o", aiCfg.ChatModel)
	assert.Equal(t, 45*time.Second, aiCfg.RequestTimeout)
	// Unset variables keep the ai defaults.
	assert.Equal(t, "text-embedding-3-small", aiCfg.EmbeddingModel)
}

func TestInvalidTimeoutFallsBack(t *testing.T) {
	t.Setenv("AI_REQUEST_TIMEOUT", "soon")

	cfg := Load()
	assert.Equal(t, time.Duration(0), cfg.RequestTimeout)
	require.NoError(t, cfg.AIConfig().Validate())
}

func TestTeamsConfig(t *testing.T) {
	t.Setenv("TEAMS_TENANT_ID", "tenant")
	t.Setenv("TEAMS_CLIENT_ID", "client")
	t.Setenv("TEAMS_CLIENT_SECRET", "secret")
	t.Setenv("TEAMS_DOWNLOAD_DIR", "/tmp/recordings")

	teamsCfg := Load().TeamsConfig()
	require.NoError(t, teamsCfg.Validate())
	assert.Equal(t, "/tmp/recordings", teamsCfg.DownloadDir)
}
