package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies provider failures so callers can decide whether a
// failure is worth reporting or config needs fixing. The assisted strategy
// treats every type the same way: silent fallback to pattern extraction.
type ErrorType string

const (
	ErrorTypeTimeout   ErrorType = "timeout"
	ErrorTypeAuth      ErrorType = "auth"
	ErrorTypeModel     ErrorType = "model"
	ErrorTypeEndpoint  ErrorType = "endpoint"
	ErrorTypeRateLimit ErrorType = "rate_limit"
	ErrorTypeServer    ErrorType = "server"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// Error is a structured LLM provider error with classification.
type Error struct {
	Type       ErrorType
	Message    string
	Cause      error
	StatusCode int
	Model      string
	Endpoint   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	parts := []string{string(e.Type)}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("HTTP %d", e.StatusCode))
	}
	if e.Model != "" {
		parts = append(parts, "model="+e.Model)
	}
	parts = append(parts, e.Message)

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", strings.Join(parts, " "), e.Cause)
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.Cause }

// ClassifyError wraps a raw provider error with a type classification.
func ClassifyError(err error, model, endpoint string) *Error {
	if err == nil {
		return nil
	}

	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}

	classified := &Error{
		Type:     ErrorTypeUnknown,
		Message:  "request failed",
		Cause:    err,
		Model:    model,
		Endpoint: endpoint,
	}

	errStr := err.Error()
	lower := strings.ToLower(errStr)

	for _, code := range []int{400, 401, 403, 404, 429, 500, 502, 503, 504} {
		if strings.Contains(errStr, fmt.Sprintf("%d", code)) {
			classified.StatusCode = code
			break
		}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded) || strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "deadline exceeded"):
		classified.Type = ErrorTypeTimeout
		classified.Message = "request timed out"

	case strings.Contains(errStr, "401") || strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "invalid api key"):
		classified.Type = ErrorTypeAuth
		classified.Message = "authentication failed"

	case strings.Contains(lower, "model") && (strings.Contains(lower, "not found") ||
		strings.Contains(lower, "does not exist")):
		classified.Type = ErrorTypeModel
		classified.Message = "model not found"

	case strings.Contains(errStr, "404"):
		classified.Type = ErrorTypeEndpoint
		classified.Message = "endpoint not found"

	case strings.Contains(errStr, "429") || strings.Contains(lower, "rate limit"):
		classified.Type = ErrorTypeRateLimit
		classified.Message = "rate limited"

	case classified.StatusCode >= 500,
		strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "no such host"):
		classified.Type = ErrorTypeServer
		classified.Message = "provider unavailable"
	}

	return classified
}

// GetErrorType extracts the classification from any error chain.
func GetErrorType(err error) ErrorType {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Type
	}
	return ErrorTypeUnknown
}
