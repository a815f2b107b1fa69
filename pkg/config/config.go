package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for dataspeak-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (API keys) must only come from environment variables.
type Config struct {
	// Runtime environment: local, dev, prod
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Dataset configuration
	Dataset DatasetConfig `yaml:"dataset"`

	// AI provider configuration (assisted strategy)
	AI AIConfig `yaml:"ai"`

	// Translation configuration
	Translation TranslationConfig `yaml:"translation"`

	// Strategy comparison harness configuration
	Harness HarnessConfig `yaml:"harness"`
}

// DatasetConfig describes the tabular dataset to load into the session.
type DatasetConfig struct {
	// Path to a CSV file loaded into the in-memory database at startup.
	Path string `yaml:"path" env:"DATASET_PATH" env-default:""`

	// TableName is the logical table name queries run against.
	TableName string `yaml:"table_name" env:"DATASET_TABLE" env-default:"data"`
}

// AIConfig holds configuration for the external LLM service used by the
// assisted strategy. The assisted strategy works without it, falling back to
// pattern extraction, so every field is optional.
type AIConfig struct {
	// Provider selects the client implementation: "openai" or "anthropic".
	Provider string `yaml:"provider" env:"AI_PROVIDER" env-default:"openai"`

	// Endpoint is the base URL, e.g. "https://api.openai.com/v1".
	// Also works with OpenAI-compatible local endpoints (vLLM, Ollama).
	Endpoint string `yaml:"endpoint" env:"AI_ENDPOINT" env-default:""`

	Model string `yaml:"model" env:"AI_MODEL" env-default:""`

	// APIKey is secret and must come from the environment.
	APIKey string `yaml:"-" env:"AI_API_KEY"`

	// RequestTimeout bounds the single LLM round trip per translation.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"AI_REQUEST_TIMEOUT" env-default:"10s"`
}

// TranslationConfig configures strategy selection and limits.
type TranslationConfig struct {
	// Strategy is the registered strategy name used by `translate` and `ask`:
	// "pattern", "assisted", or "adaptive".
	Strategy string `yaml:"strategy" env:"TRANSLATION_STRATEGY" env-default:"pattern"`

	// DefaultRowLimit is injected into generated SQL when the query asks for
	// no explicit limit, ordering, or grouping.
	DefaultRowLimit int `yaml:"default_row_limit" env:"TRANSLATION_DEFAULT_ROW_LIMIT" env-default:"100"`
}

// HarnessConfig configures the strategy comparison harness.
type HarnessConfig struct {
	// CorpusPath optionally points at a YAML corpus file. Empty means the
	// built-in canonical corpus.
	CorpusPath string `yaml:"corpus_path" env:"HARNESS_CORPUS_PATH" env-default:""`

	// Parallel enables bounded-parallel strategy execution per query.
	Parallel bool `yaml:"parallel" env:"HARNESS_PARALLEL" env-default:"false"`

	// MaxConcurrent bounds parallel strategy runs when Parallel is set.
	MaxConcurrent int `yaml:"max_concurrent" env:"HARNESS_MAX_CONCURRENT" env-default:"4"`
}

// Load reads configuration from config.yaml (if present) and the environment.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	// Load config from YAML file with environment variable overrides.
	// A missing config.yaml is fine: everything has env defaults.
	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints that cleanenv tags cannot express.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("invalid ai.provider %q: must be openai or anthropic", c.AI.Provider)
	}

	if c.Translation.DefaultRowLimit <= 0 {
		return fmt.Errorf("translation.default_row_limit must be positive, got %d", c.Translation.DefaultRowLimit)
	}

	if c.Harness.MaxConcurrent < 1 {
		return fmt.Errorf("harness.max_concurrent must be at least 1, got %d", c.Harness.MaxConcurrent)
	}

	return nil
}

// AIConfigured reports whether enough AI configuration is present to attempt
// LLM calls. When false, the assisted strategy runs in pattern-only mode.
func (c *Config) AIConfigured() bool {
	return c.AI.Endpoint != "" && c.AI.Model != ""
}
