package sql

import (
	"testing"
)

func TestCheckValue_CleanValues(t *testing.T) {
	clean := []string{
		"North",
		"Widget Pro 2000",
		"12345",
		"O'Brien", // apostrophe alone is not an attack
	}

	for _, value := range clean {
		if result := CheckValue(value); result != nil {
			t.Errorf("CheckValue(%q) flagged clean value: fingerprint %s", value, result.Fingerprint)
		}
	}
}

func TestCheckValue_InjectionAttempts(t *testing.T) {
	attacks := []string{
		"' OR '1'='1",
		"'; DROP TABLE users--",
		"1 UNION SELECT password FROM users",
	}

	for _, value := range attacks {
		result := CheckValue(value)
		if result == nil {
			t.Errorf("CheckValue(%q) = nil, want injection detected", value)
			continue
		}
		if !result.IsSQLi || result.Fingerprint == "" {
			t.Errorf("CheckValue(%q) = %+v, want IsSQLi with fingerprint", value, result)
		}
	}
}

func TestCheckValues(t *testing.T) {
	flagged := CheckValues([]string{"North", "' OR '1'='1", "South"})
	if len(flagged) != 1 {
		t.Fatalf("flagged %d values, want 1", len(flagged))
	}
	if flagged[0].Value != "' OR '1'='1" {
		t.Errorf("flagged value = %q", flagged[0].Value)
	}
}
