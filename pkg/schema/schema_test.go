package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDescriptor() Descriptor {
	return Descriptor{
		Columns: []string{"Region", "Sales", "Margin_Pct", "Order_Date"},
		ColumnTypes: map[string]ColumnType{
			"Region":     TypeCategory,
			"Sales":      TypeCurrency,
			"Margin_Pct": TypePercentage,
			"Order_Date": TypeDate,
		},
		SampleValues: map[string][]string{
			"Region": {"North", "South", "East"},
		},
		Stats: map[string]ColumnStats{
			"Region": {NullCount: 0, UniqueCount: 4},
		},
	}
}

func TestNewContext(t *testing.T) {
	ctx, err := NewContext(testDescriptor())
	require.NoError(t, err)

	assert.Equal(t, []string{"Region", "Sales", "Margin_Pct", "Order_Date"}, ctx.ColumnNames())

	col, ok := ctx.Column("region")
	require.True(t, ok, "lookup should be case-insensitive")
	assert.Equal(t, "Region", col.Name)
	assert.Equal(t, TypeCategory, col.InferredType)
	assert.Equal(t, 4, col.UniqueCount)
	assert.Equal(t, []string{"North", "South", "East"}, col.SampleValues)

	_, ok = ctx.Column("profit")
	assert.False(t, ok)
}

func TestNewContext_Errors(t *testing.T) {
	_, err := NewContext(Descriptor{})
	assert.Error(t, err, "empty descriptor must be rejected")

	_, err = NewContext(Descriptor{
		Columns:     []string{"Sales", "sales"},
		ColumnTypes: map[string]ColumnType{"Sales": TypeReal},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate column")
}

func TestNewContext_MissingTypeDefaultsToText(t *testing.T) {
	ctx, err := NewContext(Descriptor{Columns: []string{"Notes"}})
	require.NoError(t, err)

	col, ok := ctx.Column("Notes")
	require.True(t, ok)
	assert.Equal(t, TypeText, col.InferredType)
}

func TestNumericColumns(t *testing.T) {
	ctx, err := NewContext(testDescriptor())
	require.NoError(t, err)

	var names []string
	for _, col := range ctx.NumericColumns() {
		names = append(names, col.Name)
	}
	assert.Equal(t, []string{"Sales", "Margin_Pct"}, names)
}

func TestColumnType_IsNumeric(t *testing.T) {
	assert.True(t, TypeInteger.IsNumeric())
	assert.True(t, TypeCurrency.IsNumeric())
	assert.True(t, TypePercentage.IsNumeric())
	assert.False(t, TypeText.IsNumeric())
	assert.False(t, TypeDate.IsNumeric())
	assert.False(t, TypeID.IsNumeric())
}
