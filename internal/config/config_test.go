package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ETHIONEWS_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "ethionews.db", cfg.DBPath)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 20, cfg.Site.FeedLimit)
	assert.Equal(t, 10, cfg.RateLimits.LoginPerMinute)
}

func TestLoadEnvAndFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	content := "ETHIONEWS_DB=from-file.db\nETHIONEWS_SITE_URL=https://news.example.et/\nETHIONEWS_TOKEN_TTL=2h\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	t.Setenv("ETHIONEWS_ENV_FILE", envFile)
	t.Setenv("ETHIONEWS_TOKEN_TTL", "30m")
	t.Setenv("ETHIONEWS_CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "from-file.db", cfg.DBPath)
	assert.Equal(t, "https://news.example.et", cfg.Site.URL)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)

	// godotenv sets variables process-wide; drop the ones this test introduced.
	os.Unsetenv("ETHIONEWS_DB")
	os.Unsetenv("ETHIONEWS_SITE_URL")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := Config{LogLevel: "warn", LogFormat: "json"}.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
}
