// Package llm provides the client boundary to external LLM services used by
// the assisted translation strategy.
package llm

import (
	"context"
)

// Client defines the single operation the translation engine needs from an
// LLM provider: one prompt, one response. Use this interface for dependency
// injection to enable mocking in tests.
type Client interface {
	// GenerateResponse generates a completion for the prompt.
	GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// GetModel returns the configured model name.
	GetModel() string

	// GetEndpoint returns the configured endpoint.
	GetEndpoint() string
}

// Compile-time interface checks.
var (
	_ Client = (*OpenAIClient)(nil)
	_ Client = (*AnthropicClient)(nil)
	_ Client = (*MockClient)(nil)
)
