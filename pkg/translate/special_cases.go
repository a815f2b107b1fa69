package translate

import (
	"strings"

	"github.com/dataspeak/dataspeak-engine/pkg/schema"
)

// SpecialCase is one hand-authored override for a specific literal query
// shape the general patterns get wrong. The table is deliberately kept as an
// explicit, enumerable list rather than folded into the pattern library:
// each entry is a known workaround, not a general rule, and removing or
// generalizing one changes observable behavior for its exact phrasing.
//
// TODO: revisit "best/worst performing" once the pattern library understands
// superlatives without an explicit count.
type SpecialCase struct {
	// Name identifies the rule in logs and tests.
	Name string

	// Phrases trigger the rule when the normalized query contains any of
	// them verbatim.
	Phrases []string

	// Apply builds the full intent for the query. Returning false means
	// the rule cannot apply against this schema (needed columns missing)
	// and general extraction runs instead.
	Apply func(lib *PatternLibrary, sc *schema.Context) (Intent, bool)
}

// specialCases is checked in order; the first phrase hit wins.
var specialCases = []SpecialCase{
	{
		Name:    "best performing group",
		Phrases: []string{"best performing", "which region performed best", "top performer"},
		Apply: func(lib *PatternLibrary, sc *schema.Context) (Intent, bool) {
			group, metric, ok := performanceColumns(lib, sc)
			if !ok {
				return Intent{}, false
			}
			agg := Aggregation{Func: AggSum, Column: metric, Alias: aggregationAlias(AggSum, metric)}
			return Intent{
				Aggregations: []Aggregation{agg},
				Group:        &GroupSpec{Columns: []string{group}},
				Order:        &OrderSpec{Column: agg.Alias, Descending: true},
				Limit:        &LimitSpec{Count: 1},
			}, true
		},
	},
	{
		Name:    "worst performing group",
		Phrases: []string{"worst performing", "which region performed worst", "bottom performer"},
		Apply: func(lib *PatternLibrary, sc *schema.Context) (Intent, bool) {
			group, metric, ok := performanceColumns(lib, sc)
			if !ok {
				return Intent{}, false
			}
			agg := Aggregation{Func: AggSum, Column: metric, Alias: aggregationAlias(AggSum, metric)}
			return Intent{
				Aggregations: []Aggregation{agg},
				Group:        &GroupSpec{Columns: []string{group}},
				Order:        &OrderSpec{Column: agg.Alias, Descending: false},
				Limit:        &LimitSpec{Count: 1},
			}, true
		},
	},
	{
		Name:    "actual versus budget",
		Phrases: []string{"actual vs budget", "actuals vs budget", "actual versus budget", "compare actual and budget"},
		Apply: func(lib *PatternLibrary, sc *schema.Context) (Intent, bool) {
			var columns []string
			for _, col := range sc.Columns() {
				lower := strings.ToLower(col.Name)
				if strings.Contains(lower, "actual") || strings.Contains(lower, "budget") {
					columns = append(columns, col.Name)
				}
			}
			if len(columns) < 2 {
				return Intent{}, false
			}
			// Leading category columns give the comparison row labels.
			var selected []string
			for _, col := range sc.Columns() {
				if col.InferredType == schema.TypeCategory || col.InferredType == schema.TypeID {
					selected = append(selected, col.Name)
					break
				}
			}
			return Intent{Columns: append(selected, columns...)}, true
		},
	},
	{
		Name:    "show everything",
		Phrases: []string{"show everything", "show me everything", "show all data", "dump the data"},
		Apply: func(lib *PatternLibrary, sc *schema.Context) (Intent, bool) {
			// Plain bounded preview; keeps "everything" from matching the
			// equality pattern against a column literal.
			return Intent{}, true
		},
	},
}

// applySpecialCases checks the query against the override table.
func applySpecialCases(query string, lib *PatternLibrary, sc *schema.Context) (Intent, bool) {
	normalized := NormalizeQuery(query)
	for _, rule := range specialCases {
		for _, phrase := range rule.Phrases {
			if strings.Contains(normalized, phrase) {
				if intent, ok := rule.Apply(lib, sc); ok {
					return intent, true
				}
				break
			}
		}
	}
	return Intent{}, false
}

// performanceColumns picks the grouping column and the numeric metric the
// "performing" rules rank by: the first category-ish column and the first
// numeric column, preferring one that resolves from "sales".
func performanceColumns(lib *PatternLibrary, sc *schema.Context) (group, metric string, ok bool) {
	for _, col := range sc.Columns() {
		if col.InferredType == schema.TypeCategory || col.InferredType == schema.TypeText {
			group = col.Name
			break
		}
	}
	if group == "" {
		return "", "", false
	}

	if col, resolved := lib.resolver.Resolve("sales"); resolved && isNumericColumn(sc, col) {
		return group, col, true
	}
	numeric := sc.NumericColumns()
	if len(numeric) == 0 {
		return "", "", false
	}
	return group, numeric[0].Name, true
}
