package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, 60, cfg.LLM.TimeoutSecs)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "llama3.2", cfg.Ollama.Model)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.Model)
	assert.Equal(t, int64(1024), cfg.Anthropic.MaxTokens)
	assert.Equal(t, "vocab.yaml", cfg.Vocabulary.Path)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrent)
	assert.Equal(t, 2.0, cfg.Batch.RatePerSec)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.Pipeline.ReferenceDate)
}

func TestLoad_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	content := []byte(`llm:
  provider: claude
  timeout_secs: 30
pipeline:
  reference_date: "2026-02-23"
server:
  port: 9090
log:
  level: debug
  format: console
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "claude", cfg.LLM.Provider)
	assert.Equal(t, 30, cfg.LLM.TimeoutSecs)
	assert.Equal(t, "2026-02-23", cfg.Pipeline.ReferenceDate)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	// Unset keys keep their defaults.
	assert.Equal(t, "llama3.2", cfg.Ollama.Model)
}

func TestLoad_BadFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("llm: [not: a map"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestReferenceDateOrNow(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{"date only", "2026-02-23", time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339", "2026-02-23T15:04:05Z", time.Date(2026, 2, 23, 15, 4, 5, 0, time.UTC), false},
		{"garbage", "23/02/2026", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PipelineConfig{ReferenceDate: tt.value}.ReferenceDateOrNow()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestReferenceDateOrNow_Empty(t *testing.T) {
	got, err := PipelineConfig{}.ReferenceDateOrNow()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), got, time.Minute)
}

func TestTimeout(t *testing.T) {
	assert.Equal(t, 45*time.Second, LLMConfig{TimeoutSecs: 45}.Timeout())
}
