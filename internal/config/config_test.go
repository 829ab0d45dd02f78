package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "assistant:\n  base_url: \"http://localhost:8080\"\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.Assistant.BaseURL)
	assert.Equal(t, "/chat-groq", cfg.Assistant.ChatPath)
	assert.Equal(t, "/interagir", cfg.Assistant.AuthChatPath)
	assert.Equal(t, "/groq", cfg.Assistant.DirectPath)
	assert.Equal(t, 30*time.Second, cfg.Assistant.RequestTimeout)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 50, cfg.Cache.Capacity)
	assert.Equal(t, 100, cfg.Snapshot.MaxMessages)
	assert.Equal(t, "memory", cfg.TokenChannel.Type)
	assert.Equal(t, "pt-BR", cfg.I18n.DefaultLanguage)
}

func TestLoadConfigRequiresBaseURL(t *testing.T) {
	path := writeConfig(t, "cache:\n  enabled: true\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base URL")
}

func TestLoadConfigRejectsBadSnapshotType(t *testing.T) {
	path := writeConfig(t, `
assistant:
  base_url: "http://localhost:8080"
snapshot:
  enabled: true
  type: "postgres"
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot storage type")
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
assistant:
  base_url: "http://localhost:8080"
  request_timeout: 5s
cache:
  enabled: false
rate_limit:
  enabled: true
  requests_per_minute: 10
  burst: 2
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Assistant.RequestTimeout)
	assert.False(t, cfg.Cache.Enabled)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 10, cfg.RateLimit.RequestsPerMinute)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 50, cfg.Cache.Capacity)
	assert.Equal(t, "/chat-groq", cfg.Assistant.ChatPath)
	assert.Empty(t, cfg.Assistant.BaseURL)
}
