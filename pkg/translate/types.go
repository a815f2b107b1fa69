// Package translate converts natural-language analytic questions into
// read-only SQL over a single tabular dataset.
//
// The package provides three interchangeable strategies behind a common
// interface: a pure pattern strategy, an LLM-assisted strategy, and an
// adaptive learning strategy. All three share one declarative pattern
// library, one column resolver, one SQL builder, and one confidence scorer.
package translate

import "fmt"

// Operator is a WHERE-clause comparison operator.
type Operator string

const (
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpBetween      Operator = "BETWEEN"
	OpIn           Operator = "IN"
	OpLike         Operator = "LIKE"
)

// Condition is a single WHERE-clause predicate extracted from the query.
// Exactly one of Value, ValueRange, or Values is populated depending on the
// operator. Column always names a real schema column; unresolved terms are
// dropped before a Condition is ever constructed.
type Condition struct {
	Column     string
	Operator   Operator
	Value      string
	ValueRange [2]string // BETWEEN bounds, low then high
	Values     []string  // IN list
	Numeric    bool      // format values as unquoted numeric literals
	Source     string    // originating strategy name
	Confidence float64   // strategy-local confidence for this condition
}

// String renders the condition for explanations and logs.
func (c Condition) String() string {
	switch c.Operator {
	case OpBetween:
		return fmt.Sprintf("%s BETWEEN %s AND %s", c.Column, c.ValueRange[0], c.ValueRange[1])
	case OpIn:
		return fmt.Sprintf("%s IN %v", c.Column, c.Values)
	default:
		return fmt.Sprintf("%s %s %s", c.Column, c.Operator, c.Value)
	}
}

// AggregateFunc is a SQL aggregation function.
type AggregateFunc string

const (
	AggSum   AggregateFunc = "SUM"
	AggAvg   AggregateFunc = "AVG"
	AggCount AggregateFunc = "COUNT"
	AggMax   AggregateFunc = "MAX"
	AggMin   AggregateFunc = "MIN"
)

// Aggregation is one aggregate expression in the SELECT list.
// An empty Column means COUNT(*).
type Aggregation struct {
	Func   AggregateFunc
	Column string
	Alias  string
}

// Expr renders the aggregate SQL expression including its alias.
func (a Aggregation) Expr() string {
	target := a.Column
	if target == "" {
		target = "*"
	}
	expr := fmt.Sprintf("%s(%s)", a.Func, target)
	if a.Alias != "" {
		expr += " AS " + a.Alias
	}
	return expr
}

// GroupSpec is an ordered list of grouping columns.
type GroupSpec struct {
	Columns []string
}

// OrderSpec orders results by one column or alias.
type OrderSpec struct {
	Column     string
	Descending bool
}

// LimitSpec caps the number of returned rows.
type LimitSpec struct {
	Count int
}

// Intent is the structured output of intent extraction: everything the
// query builder needs to assemble one SELECT statement.
type Intent struct {
	Conditions   []Condition
	Aggregations []Aggregation
	Group        *GroupSpec
	Order        *OrderSpec
	Limit        *LimitSpec

	// Columns requested explicitly ("show region and sales"), used only
	// when no aggregation is present.
	Columns []string
}

// TranslationResult is the outcome of one Translate call.
// Success stays true when conditions were dropped for unresolved columns;
// the loss shows up as reduced Confidence instead.
type TranslationResult struct {
	Success     bool
	SQL         string
	Explanation string
	Confidence  float64
	Conditions  []Condition
	Strategy    string
	Error       string
}
