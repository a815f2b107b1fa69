package llm

import (
	"fmt"

	"go.uber.org/zap"
)

// Provider names accepted by NewClient.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// NewClient creates a provider-specific client from configuration.
// Selection is by explicit provider name, never by reflection or guessing.
func NewClient(provider string, cfg Config, logger *zap.Logger) (Client, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIClient(cfg, logger)
	case ProviderAnthropic:
		return NewAnthropicClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}
