package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load("")

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 8, cfg.Fetch.Concurrency)
	assert.Equal(t, 3, cfg.Summarizer.MaxAttempts)
	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, "cnn-lite", cfg.Sources[0].Name)
	assert.Equal(t, "litepage", cfg.Sources[0].Scanner)
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
}

func TestLoadFileMerge(t *testing.T) {
	raw := `
logging:
  level: debug
fetch:
  concurrency: 4
summarizer:
  endpoint: http://localhost:5001/v1/chat/completions
  model: local-model
sources:
  - name: example-text
    scanner: litepage
    indexUrl: https://text.example.com
    linkSelector: ".story a[href]"
    bodySelector: ".body"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg := Load(path)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 4, cfg.Fetch.Concurrency)
	assert.Equal(t, "http://localhost:5001/v1/chat/completions", cfg.Summarizer.Endpoint)
	assert.Equal(t, "local-model", cfg.Summarizer.Model)
	// Unset file fields keep their defaults.
	assert.Equal(t, 3, cfg.Summarizer.MaxAttempts)
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, "example-text", cfg.Sources[0].Name)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SUMMARIZER_API_KEY", "sk-test")
	t.Setenv("SUMMARIZER_MODEL", "env-model")
	t.Setenv("DATABASE_DSN", "postgres://localhost/newspress")

	cfg := Load("")

	assert.Equal(t, "sk-test", cfg.Summarizer.APIKey)
	assert.Equal(t, "env-model", cfg.Summarizer.Model)
	assert.Equal(t, "postgres://localhost/newspress", cfg.Database.DSN)
}

func TestUnknownTimezoneFallsBack(t *testing.T) {
	raw := "scheduler:\n  timezone: Not/AZone\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg := Load(path)
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
}
