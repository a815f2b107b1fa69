package logging

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty query",
			input:    "",
			expected: "",
		},
		{
			name:     "short query unchanged",
			input:    "show me sales by region",
			expected: "show me sales by region",
		},
		{
			name:     "password redacted",
			input:    "connect with password=hunter2 please",
			expected: "connect with password=" + RedactedText + " please",
		},
		{
			name:     "api key redacted",
			input:    "apikey=abcdefghijklmnopqrstuvwxyz123456 show sales",
			expected: "apikey=" + RedactedText + " show sales",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeQuery(tt.input); got != tt.expected {
				t.Errorf("SanitizeQuery(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeQuery_Truncation(t *testing.T) {
	long := strings.Repeat("a", MaxQueryLogLength+50)
	got := SanitizeQuery(long)
	if len(got) != MaxQueryLogLength+3 {
		t.Errorf("truncated length = %d, want %d", len(got), MaxQueryLogLength+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated query should end with ellipsis, got %q", got[len(got)-10:])
	}
}

func TestSanitizeError(t *testing.T) {
	if got := SanitizeError(nil); got != "" {
		t.Errorf("SanitizeError(nil) = %q, want empty", got)
	}

	err := errors.New("dial failed: password=secret123 rejected")
	got := SanitizeError(err)
	if strings.Contains(got, "secret123") {
		t.Errorf("password not redacted: %q", got)
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("hello", 10); got != "hello" {
		t.Errorf("got %q", got)
	}
	if got := TruncateString("hello world", 5); got != "hello..." {
		t.Errorf("got %q", got)
	}
}
