package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dataspeak/dataspeak-engine/pkg/schema"
)

// testSchema is the shared dataset description for translation tests: one
// sales table with category, currency, integer, and date columns plus an
// actual/budget pair.
func testSchema(t *testing.T) *schema.Context {
	t.Helper()
	sc, err := schema.NewContext(schema.Descriptor{
		Columns: []string{"Region", "Product", "Sales", "Units", "actual_sales", "budget_sales", "Order_Date"},
		ColumnTypes: map[string]schema.ColumnType{
			"Region":       schema.TypeCategory,
			"Product":      schema.TypeCategory,
			"Sales":        schema.TypeCurrency,
			"Units":        schema.TypeInteger,
			"actual_sales": schema.TypeCurrency,
			"budget_sales": schema.TypeCurrency,
			"Order_Date":   schema.TypeDate,
		},
		SampleValues: map[string][]string{
			"Region":  {"North", "South", "East", "West"},
			"Product": {"Widget", "Gadget", "Gizmo"},
		},
	})
	require.NoError(t, err)
	return sc
}

func newTestLibrary(t *testing.T) (*PatternLibrary, *schema.Context) {
	t.Helper()
	sc := testSchema(t)
	resolver := NewResolver(zap.NewNop())
	resolver.SetSchemaContext(sc)
	return NewPatternLibrary(resolver), sc
}

func extract(t *testing.T, query string) Intent {
	t.Helper()
	lib, sc := newTestLibrary(t)
	return lib.Extract(query, sc, ExtractOptions{Source: "test"})
}

func TestExtract_Equality(t *testing.T) {
	intent := extract(t, "Show me sales where region is North")

	require.Len(t, intent.Conditions, 1)
	c := intent.Conditions[0]
	assert.Equal(t, "Region", c.Column)
	assert.Equal(t, OpEqual, c.Operator)
	assert.Equal(t, "North", c.Value)
	assert.False(t, c.Numeric)
	assert.Equal(t, "test", c.Source)
}

func TestExtract_ComparisonPhrasings(t *testing.T) {
	// Every phrasing of "greater than" must produce the same condition.
	queries := []string{
		"records where sales above 100",
		"records where sales over 100",
		"records where sales greater than 100",
		"records where sales exceeds 100",
		"records where sales > 100",
		"records where sales is more than 100",
	}
	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			intent := extract(t, q)
			require.Len(t, intent.Conditions, 1, "query %q", q)
			c := intent.Conditions[0]
			assert.Equal(t, "Sales", c.Column)
			assert.Equal(t, OpGreater, c.Operator)
			assert.Equal(t, "100", c.Value)
			assert.True(t, c.Numeric)
		})
	}
}

func TestExtract_ComparisonBoundaryOperators(t *testing.T) {
	tests := []struct {
		query string
		op    Operator
	}{
		{"sales at least 100", OpGreaterEqual},
		{"sales at most 100", OpLessEqual},
		{"sales below 100", OpLess},
		{"sales under 100", OpLess},
		{"sales greater than or equal to 100", OpGreaterEqual},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			intent := extract(t, tt.query)
			require.Len(t, intent.Conditions, 1)
			assert.Equal(t, tt.op, intent.Conditions[0].Operator)
		})
	}
}

func TestExtract_CurrencyAndPercentValues(t *testing.T) {
	intent := extract(t, "records where sales above $15,000")
	require.Len(t, intent.Conditions, 1)
	assert.Equal(t, "15000", intent.Conditions[0].Value)

	// Percentages keep the bare numeric: 10% stays 10, never 0.10.
	intent = extract(t, "records where sales above 10%")
	require.Len(t, intent.Conditions, 1)
	assert.Equal(t, "10", intent.Conditions[0].Value)
}

func TestExtract_Range(t *testing.T) {
	intent := extract(t, "show sales between 5000 and 20000")

	require.Len(t, intent.Conditions, 1)
	c := intent.Conditions[0]
	assert.Equal(t, "Sales", c.Column)
	assert.Equal(t, OpBetween, c.Operator)
	assert.Equal(t, [2]string{"5000", "20000"}, c.ValueRange)
	assert.True(t, c.Numeric)
}

func TestExtract_RangeNotHalfMatchedAsComparison(t *testing.T) {
	// "between 100 and 500" must never also produce "> 100".
	intent := extract(t, "sales between 100 and 500")
	require.Len(t, intent.Conditions, 1)
	assert.Equal(t, OpBetween, intent.Conditions[0].Operator)
}

func TestExtract_Negation(t *testing.T) {
	intent := extract(t, "show records where region is not South")

	require.Len(t, intent.Conditions, 1)
	c := intent.Conditions[0]
	assert.Equal(t, "Region", c.Column)
	assert.Equal(t, OpNotEqual, c.Operator)
	assert.Equal(t, "South", c.Value)
}

func TestExtract_InList(t *testing.T) {
	intent := extract(t, "show sales where region is one of North, South or East")

	require.Len(t, intent.Conditions, 1)
	c := intent.Conditions[0]
	assert.Equal(t, "Region", c.Column)
	assert.Equal(t, OpIn, c.Operator)
	assert.Equal(t, []string{"North", "South", "East"}, c.Values)
	assert.False(t, c.Numeric)
}

func TestExtract_Like(t *testing.T) {
	intent := extract(t, "records where product contains wid")

	require.Len(t, intent.Conditions, 1)
	c := intent.Conditions[0]
	assert.Equal(t, "Product", c.Column)
	assert.Equal(t, OpLike, c.Operator)
	assert.Equal(t, "wid", c.Value)
}

func TestExtract_ColumnComparison(t *testing.T) {
	intent := extract(t, "records where actual sales exceeds budget sales")

	require.Len(t, intent.Conditions, 1)
	c := intent.Conditions[0]
	assert.Equal(t, "actual_sales", c.Column)
	assert.Equal(t, OpGreater, c.Operator)
	assert.Equal(t, "budget_sales", c.Value)
	assert.True(t, c.Numeric, "column reference must render unquoted")
}

func TestExtract_AggregationWithGrouping(t *testing.T) {
	intent := extract(t, "what is the total sales by region")

	require.Len(t, intent.Aggregations, 1)
	assert.Equal(t, AggSum, intent.Aggregations[0].Func)
	assert.Equal(t, "Sales", intent.Aggregations[0].Column)
	assert.Equal(t, "total_sales", intent.Aggregations[0].Alias)

	require.NotNil(t, intent.Group)
	assert.Equal(t, []string{"Region"}, intent.Group.Columns)
}

func TestExtract_Average(t *testing.T) {
	intent := extract(t, "show the average units per region")

	require.Len(t, intent.Aggregations, 1)
	assert.Equal(t, AggAvg, intent.Aggregations[0].Func)
	assert.Equal(t, "Units", intent.Aggregations[0].Column)
	require.NotNil(t, intent.Group)
	assert.Equal(t, []string{"Region"}, intent.Group.Columns)
}

func TestExtract_CountStar(t *testing.T) {
	intent := extract(t, "how many records are there")

	require.Len(t, intent.Aggregations, 1)
	assert.Equal(t, AggCount, intent.Aggregations[0].Func)
	assert.Empty(t, intent.Aggregations[0].Column)
	assert.Equal(t, "row_count", intent.Aggregations[0].Alias)
}

func TestExtract_Ranking(t *testing.T) {
	intent := extract(t, "Show top 3 regions by sales")

	require.Len(t, intent.Aggregations, 1)
	assert.Equal(t, AggSum, intent.Aggregations[0].Func)
	assert.Equal(t, "Sales", intent.Aggregations[0].Column)

	require.NotNil(t, intent.Group)
	assert.Equal(t, []string{"Region"}, intent.Group.Columns)

	require.NotNil(t, intent.Order)
	assert.Equal(t, "total_sales", intent.Order.Column)
	assert.True(t, intent.Order.Descending)

	require.NotNil(t, intent.Limit)
	assert.Equal(t, 3, intent.Limit.Count)
}

func TestExtract_RankingDefaultCount(t *testing.T) {
	intent := extract(t, "top regions by sales")

	require.NotNil(t, intent.Limit)
	assert.Equal(t, rankingDefaultCount, intent.Limit.Count)
}

func TestExtract_RankingBottomAscends(t *testing.T) {
	intent := extract(t, "bottom 5 products by units")

	require.NotNil(t, intent.Order)
	assert.False(t, intent.Order.Descending)
	require.NotNil(t, intent.Limit)
	assert.Equal(t, 5, intent.Limit.Count)
	require.NotNil(t, intent.Group)
	assert.Equal(t, []string{"Product"}, intent.Group.Columns)
}

func TestExtract_RankingSwapsSubjectAndMetric(t *testing.T) {
	// "highest sales by region" names metric first; the numeric column is
	// always the aggregation target.
	intent := extract(t, "highest sales by region")

	require.Len(t, intent.Aggregations, 1)
	assert.Equal(t, "Sales", intent.Aggregations[0].Column)
	require.NotNil(t, intent.Group)
	assert.Equal(t, []string{"Region"}, intent.Group.Columns)
}

func TestExtract_Ordering(t *testing.T) {
	intent := extract(t, "show records sorted by sales descending")

	require.NotNil(t, intent.Order)
	assert.Equal(t, "Sales", intent.Order.Column)
	assert.True(t, intent.Order.Descending)

	intent = extract(t, "records ordered by units")
	require.NotNil(t, intent.Order)
	assert.False(t, intent.Order.Descending)
}

func TestExtract_ExplicitLimit(t *testing.T) {
	intent := extract(t, "show records where sales above 10 limit 7")
	require.NotNil(t, intent.Limit)
	assert.Equal(t, 7, intent.Limit.Count)

	intent = extract(t, "give me 25 rows")
	require.NotNil(t, intent.Limit)
	assert.Equal(t, 25, intent.Limit.Count)
}

func TestExtract_ExplicitColumns(t *testing.T) {
	intent := extract(t, "show region and sales")
	assert.Equal(t, []string{"Region", "Sales"}, intent.Columns)
}

func TestExtract_UnresolvedTermDropsCondition(t *testing.T) {
	intent := extract(t, "records where zzzqqq is 5")
	assert.Empty(t, intent.Conditions)
}

func TestExtract_OverlappingKeepsBothBounds(t *testing.T) {
	lib, sc := newTestLibrary(t)
	intent := lib.Extract("sales over 100 and sales under 500", sc, ExtractOptions{
		Source:      "test",
		Overlapping: true,
	})
	require.Len(t, intent.Conditions, 2)
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "show me sales", NormalizeQuery("  Show   ME\tSales "))
}

func TestCleanNumber(t *testing.T) {
	tests := []struct{ in, want string }{
		{"$15,000", "15000"},
		{"10%", "10"},
		{"1.5", "1.5"},
		{"$1,234.56", "1234.56"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanNumber(tt.in))
	}
}

func TestCueCount(t *testing.T) {
	assert.Equal(t, 0, CueCount("hello"))
	assert.GreaterOrEqual(t, CueCount("show sales where units greater than 5 sorted by region"), 3)
}
