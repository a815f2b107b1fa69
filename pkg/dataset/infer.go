package dataset

import (
	"strings"
	"time"
)

// maxSampleValues caps how many distinct values a column descriptor carries.
const maxSampleValues = 5

// categoryMaxDistinct is the distinct-value ceiling for treating a text
// column as categorical.
const categoryMaxDistinct = 20

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// inferColumnType classifies a column from its non-empty values. Currency
// and percentage markers win over plain numerics; a text column with few
// distinct values becomes a category.
func inferColumnType(name string, values []string) columnKind {
	if len(values) == 0 {
		return columnKind{typ: "text"}
	}

	allCurrency := true
	allPercent := true
	allInt := true
	allReal := true
	allDate := true
	distinct := make(map[string]struct{}, len(values))

	for _, v := range values {
		distinct[strings.ToLower(v)] = struct{}{}
		if !isCurrency(v) {
			allCurrency = false
		}
		if !isPercent(v) {
			allPercent = false
		}
		if !isInteger(cleanNumeric(v)) {
			allInt = false
		}
		if !isReal(cleanNumeric(v)) {
			allReal = false
		}
		if !isDate(v) {
			allDate = false
		}
	}

	switch {
	case allCurrency:
		return columnKind{typ: "currency", numeric: true}
	case allPercent:
		return columnKind{typ: "percentage", numeric: true}
	case allInt:
		if looksLikeID(name) && len(distinct) == len(values) {
			return columnKind{typ: "id", numeric: true}
		}
		return columnKind{typ: "integer", numeric: true}
	case allReal:
		return columnKind{typ: "real", numeric: true}
	case allDate:
		return columnKind{typ: "date"}
	}

	if len(distinct) <= categoryMaxDistinct && len(distinct)*2 <= len(values) {
		return columnKind{typ: "category"}
	}
	return columnKind{typ: "text"}
}

type columnKind struct {
	typ     string
	numeric bool
}

func looksLikeID(name string) bool {
	lower := strings.ToLower(name)
	return lower == "id" || strings.HasSuffix(lower, "_id")
}

func isCurrency(v string) bool {
	v = strings.TrimSpace(v)
	neg := strings.HasPrefix(v, "-")
	if neg {
		v = v[1:]
	}
	if !strings.HasPrefix(v, "$") {
		return false
	}
	return isReal(cleanNumeric(v))
}

func isPercent(v string) bool {
	v = strings.TrimSpace(v)
	if !strings.HasSuffix(v, "%") {
		return false
	}
	return isReal(cleanNumeric(v))
}

func isInteger(v string) bool {
	if v == "" {
		return false
	}
	if v[0] == '-' || v[0] == '+' {
		v = v[1:]
	}
	if v == "" {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isReal(v string) bool {
	if v == "" {
		return false
	}
	if v[0] == '-' || v[0] == '+' {
		v = v[1:]
	}
	dot := false
	digits := 0
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return digits > 0
}

func isDate(v string) bool {
	v = strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

// cleanNumeric strips currency symbols, thousands separators, and percent
// signs so the remainder can be parsed as a plain number.
func cleanNumeric(v string) string {
	v = strings.TrimSpace(v)
	v = strings.ReplaceAll(v, "$", "")
	v = strings.ReplaceAll(v, ",", "")
	v = strings.TrimSuffix(v, "%")
	return v
}
