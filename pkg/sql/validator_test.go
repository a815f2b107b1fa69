package sql

import (
	"errors"
	"testing"
)

func TestValidateAndNormalize_ValidQueries(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple select without semicolon",
			input:    "SELECT 1",
			expected: "SELECT 1",
		},
		{
			name:     "simple select with trailing semicolon",
			input:    "SELECT 1;",
			expected: "SELECT 1",
		},
		{
			name:     "select with trailing semicolon and whitespace",
			input:    "SELECT 1;  ",
			expected: "SELECT 1",
		},
		{
			name:     "leading and trailing whitespace",
			input:    "  SELECT * FROM data  ",
			expected: "SELECT * FROM data",
		},
		{
			name:     "semicolon inside single quoted string",
			input:    "SELECT * FROM data WHERE Region = 'North;East'",
			expected: "SELECT * FROM data WHERE Region = 'North;East'",
		},
		{
			name:     "semicolon inside double quoted identifier",
			input:    `SELECT * FROM "table;name"`,
			expected: `SELECT * FROM "table;name"`,
		},
		{
			name:     "escaped quote then semicolon in string",
			input:    `SELECT * FROM data WHERE note = 'it''s; fine'`,
			expected: `SELECT * FROM data WHERE note = 'it''s; fine'`,
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateAndNormalize(tt.input)
			if result.Error != nil {
				t.Fatalf("unexpected error: %v", result.Error)
			}
			if result.NormalizedSQL != tt.expected {
				t.Errorf("got %q, want %q", result.NormalizedSQL, tt.expected)
			}
		})
	}
}

func TestValidateAndNormalize_MultipleStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "two statements",
			input: "SELECT 1; SELECT 2",
		},
		{
			name:  "select then drop",
			input: "SELECT * FROM data; DROP TABLE data;",
		},
		{
			name:  "semicolon mid-statement",
			input: "SELECT 1 ; SELECT 2 ;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateAndNormalize(tt.input)
			if !errors.Is(result.Error, ErrMultipleStatements) {
				t.Errorf("error = %v, want ErrMultipleStatements", result.Error)
			}
		})
	}
}
