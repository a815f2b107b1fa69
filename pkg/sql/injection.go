package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult reports an injection pattern found in a value that
// was extracted from natural language and is about to be embedded as a SQL
// string literal.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if SQL injection pattern detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	Value       string // The value that was checked
}

// CheckValue runs libinjection over one extracted string value. The query
// builder already quotes and escapes literals; this is the second, semantic
// layer of the gate for values that came out of untrusted free text.
//
// Returns nil if no injection is detected.
func CheckValue(value string) *InjectionCheckResult {
	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if !isSQLi {
		return nil
	}
	return &InjectionCheckResult{
		IsSQLi:      true,
		Fingerprint: string(fingerprint),
		Value:       value,
	}
}

// CheckValues validates all extracted string values, returning one result
// per flagged value. An empty slice means all values are clean.
func CheckValues(values []string) []InjectionCheckResult {
	var flagged []InjectionCheckResult
	for _, v := range values {
		if result := CheckValue(v); result != nil {
			flagged = append(flagged, *result)
		}
	}
	return flagged
}
