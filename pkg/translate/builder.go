package translate

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultRowLimit bounds result size when the query asks for no explicit
// limit, ordering, or grouping. A predictability bound, not a user request.
const DefaultRowLimit = 100

// QueryBuilder deterministically assembles an Intent into one SELECT
// statement. Identical intents always produce byte-identical SQL.
type QueryBuilder struct {
	defaultLimit int
}

// NewQueryBuilder creates a builder with the given default row limit;
// zero or negative means DefaultRowLimit.
func NewQueryBuilder(defaultLimit int) *QueryBuilder {
	if defaultLimit <= 0 {
		defaultLimit = DefaultRowLimit
	}
	return &QueryBuilder{defaultLimit: defaultLimit}
}

// Build cleans up the intent's conditions and assembles the SQL text.
// Clause order is fixed: SELECT, FROM, WHERE, GROUP BY, ORDER BY, LIMIT.
func (b *QueryBuilder) Build(intent Intent, table string) string {
	conditions := CleanConditions(intent.Conditions)

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(b.selectList(intent))
	sb.WriteString(" FROM ")
	sb.WriteString(table)

	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		parts := make([]string, len(conditions))
		for i, c := range conditions {
			parts[i] = formatCondition(c)
		}
		sb.WriteString(strings.Join(parts, " AND "))
	}

	// A grouping without any aggregation is not emitted, so it must not
	// count as a result bound either.
	hasGroup := intent.Group != nil && len(intent.Group.Columns) > 0 &&
		len(intent.Aggregations) > 0
	if hasGroup {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(intent.Group.Columns, ", "))
	}

	if intent.Order != nil {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(intent.Order.Column)
		if intent.Order.Descending {
			sb.WriteString(" DESC")
		} else {
			sb.WriteString(" ASC")
		}
	}

	switch {
	case intent.Limit != nil && intent.Limit.Count > 0:
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(intent.Limit.Count))
	case intent.Order == nil && !hasGroup:
		// No explicit limit, ordering, or grouping: inject the safety bound.
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(b.defaultLimit))
	}

	return sb.String()
}

// FallbackSQL is the safe statement returned on a parse failure.
func (b *QueryBuilder) FallbackSQL(table string) string {
	return fmt.Sprintf("SELECT * FROM %s LIMIT %d", table, b.defaultLimit)
}

func (b *QueryBuilder) selectList(intent Intent) string {
	if len(intent.Aggregations) > 0 {
		var parts []string
		if intent.Group != nil {
			parts = append(parts, intent.Group.Columns...)
		}
		for _, agg := range intent.Aggregations {
			parts = append(parts, agg.Expr())
		}
		return strings.Join(parts, ", ")
	}

	if len(intent.Columns) > 0 {
		return strings.Join(intent.Columns, ", ")
	}

	return "*"
}

// CleanConditions is the pre-build cleanup pass, in order: drop exact
// duplicates, drop same-column/same-operator duplicates, then merge
// complementary ">"/"<" bounds on one column into BETWEEN.
func CleanConditions(conditions []Condition) []Condition {
	deduped := dropDuplicates(conditions)
	return mergeComplementaryBounds(deduped)
}

func dropDuplicates(conditions []Condition) []Condition {
	var out []Condition
	seenExact := make(map[string]bool)
	seenColOp := make(map[string]bool)

	for _, c := range conditions {
		exactKey := fmt.Sprintf("%s|%s|%s|%v|%v", c.Column, c.Operator, c.Value, c.ValueRange, c.Values)
		if seenExact[exactKey] {
			continue
		}
		colOpKey := c.Column + "|" + string(c.Operator)
		if seenColOp[colOpKey] {
			continue
		}
		seenExact[exactKey] = true
		seenColOp[colOpKey] = true
		out = append(out, c)
	}
	return out
}

// mergeComplementaryBounds handles ">" (or ">=") and "<" (or "<=") pairs on
// one column. Numeric bounds with lower < upper collapse into BETWEEN;
// any other opposing pair is contradictory, so only one side survives (the
// higher confidence, ties going to the earlier condition).
func mergeComplementaryBounds(conditions []Condition) []Condition {
	lower := make(map[string]int) // column -> index of > / >=
	upper := make(map[string]int) // column -> index of < / <=
	for i, c := range conditions {
		switch c.Operator {
		case OpGreater, OpGreaterEqual:
			if _, ok := lower[c.Column]; !ok {
				lower[c.Column] = i
			}
		case OpLess, OpLessEqual:
			if _, ok := upper[c.Column]; !ok {
				upper[c.Column] = i
			}
		}
	}

	merged := make(map[int]Condition) // lower index -> replacement
	dropped := make(map[int]bool)
	for column, li := range lower {
		ui, ok := upper[column]
		if !ok {
			continue
		}

		lo, errLo := strconv.ParseFloat(conditions[li].Value, 64)
		hi, errHi := strconv.ParseFloat(conditions[ui].Value, 64)
		if errLo == nil && errHi == nil && lo < hi {
			merged[li] = Condition{
				Column:     column,
				Operator:   OpBetween,
				ValueRange: [2]string{conditions[li].Value, conditions[ui].Value},
				Numeric:    true,
				Source:     conditions[li].Source,
				Confidence: maxFloat(conditions[li].Confidence, conditions[ui].Confidence),
			}
			dropped[ui] = true
			continue
		}

		// Contradictory pair: keep one side only.
		if conditions[ui].Confidence > conditions[li].Confidence {
			dropped[li] = true
		} else {
			dropped[ui] = true
		}
	}

	if len(merged) == 0 && len(dropped) == 0 {
		return conditions
	}

	out := make([]Condition, 0, len(conditions))
	for i, c := range conditions {
		if dropped[i] {
			continue
		}
		if replacement, ok := merged[i]; ok {
			out = append(out, replacement)
			continue
		}
		out = append(out, c)
	}
	return out
}

// formatCondition renders one predicate with operator-specific formatting.
// Numeric literals stay unquoted; strings are single-quoted with internal
// quotes doubled; LIKE values are wildcard-wrapped unless already wrapped.
func formatCondition(c Condition) string {
	switch c.Operator {
	case OpBetween:
		return fmt.Sprintf("%s BETWEEN %s AND %s",
			c.Column, formatValue(c.ValueRange[0], true), formatValue(c.ValueRange[1], true))

	case OpIn:
		parts := make([]string, len(c.Values))
		for i, v := range c.Values {
			parts[i] = formatValue(v, c.Numeric)
		}
		return fmt.Sprintf("%s IN (%s)", c.Column, strings.Join(parts, ", "))

	case OpLike:
		value := c.Value
		if !strings.Contains(value, "%") {
			value = "%" + value + "%"
		}
		return fmt.Sprintf("%s LIKE %s", c.Column, quoteString(value))

	default:
		return fmt.Sprintf("%s %s %s", c.Column, c.Operator, formatValue(c.Value, c.Numeric))
	}
}

func formatValue(value string, numeric bool) string {
	if numeric {
		return value
	}
	return quoteString(value)
}

func quoteString(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
