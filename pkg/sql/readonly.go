package sql

import (
	"regexp"
	"strings"
)

// deniedKeywords are statement types that must never reach the execution
// engine, matched as whole tokens after comment stripping.
var deniedKeywords = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "ALTER", "CREATE",
	"TRUNCATE", "REPLACE", "MERGE", "EXEC", "EXECUTE",
}

var deniedKeywordRes = func() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(deniedKeywords))
	for _, kw := range deniedKeywords {
		res[kw] = regexp.MustCompile(`\b` + kw + `\b`)
	}
	return res
}()

var (
	lineCommentRe  = regexp.MustCompile(`--[^\n]*`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// SafetyResult is the outcome of the read-only gate.
type SafetyResult struct {
	Safe   bool
	Reason string // empty when safe; names the offending keyword otherwise
}

// CheckReadOnly is the fail-closed gate in front of execution. The SQL must
// be a single statement, must start with SELECT once comments are stripped
// and the text uppercased, and must not contain any denied keyword as a
// whole token anywhere in the raw text, comments included. Nothing is
// rewritten or sanitized: a violation blocks execution outright.
func CheckReadOnly(sqlText string) SafetyResult {
	validated := ValidateAndNormalize(sqlText)
	if validated.Error != nil {
		return SafetyResult{Safe: false, Reason: validated.Error.Error()}
	}

	// A keyword hiding in a comment or string literal still fails: the raw
	// text is scanned, and what was stripped can only reduce the match set.
	rawUpper := strings.ToUpper(validated.NormalizedSQL)
	for _, kw := range deniedKeywords {
		if deniedKeywordRes[kw].MatchString(rawUpper) {
			return SafetyResult{Safe: false, Reason: kw}
		}
	}

	normalized := blockCommentRe.ReplaceAllString(validated.NormalizedSQL, " ")
	normalized = lineCommentRe.ReplaceAllString(normalized, " ")
	normalized = strings.ToUpper(strings.TrimSpace(normalized))

	if normalized == "" {
		return SafetyResult{Safe: false, Reason: "empty statement"}
	}

	if !strings.HasPrefix(normalized, "SELECT") {
		return SafetyResult{Safe: false, Reason: "only SELECT statements are allowed"}
	}

	return SafetyResult{Safe: true}
}
