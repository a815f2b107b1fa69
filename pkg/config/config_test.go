package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "test", cfg.Version)
	assert.Equal(t, "data", cfg.Dataset.TableName)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, 10*time.Second, cfg.AI.RequestTimeout)
	assert.Equal(t, "pattern", cfg.Translation.Strategy)
	assert.Equal(t, 100, cfg.Translation.DefaultRowLimit)
	assert.Equal(t, 4, cfg.Harness.MaxConcurrent)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AI_PROVIDER", "anthropic")
	t.Setenv("AI_MODEL", "claude-sonnet-4-20250514")
	t.Setenv("AI_ENDPOINT", "https://api.anthropic.com")
	t.Setenv("TRANSLATION_STRATEGY", "adaptive")

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.AI.Provider)
	assert.Equal(t, "adaptive", cfg.Translation.Strategy)
	assert.True(t, cfg.AIConfigured())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad provider",
			mutate:  func(c *Config) { c.AI.Provider = "gemini" },
			wantErr: "invalid ai.provider",
		},
		{
			name:    "zero row limit",
			mutate:  func(c *Config) { c.Translation.DefaultRowLimit = 0 },
			wantErr: "default_row_limit",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Harness.MaxConcurrent = 0 },
			wantErr: "max_concurrent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("test")
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAIConfigured(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.AIConfigured())

	cfg.AI.Endpoint = "http://localhost:8000/v1"
	assert.False(t, cfg.AIConfigured())

	cfg.AI.Model = "qwen3-8b"
	assert.True(t, cfg.AIConfigured())
}
