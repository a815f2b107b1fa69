// Package schema describes the dataset a translation session runs against.
//
// A Context is built once per dataset load from the descriptor produced by
// the ingestion layer and stays immutable until the dataset is reloaded.
package schema

import (
	"fmt"
	"strings"
)

// ColumnType is the inferred type of a dataset column.
type ColumnType string

const (
	TypeInteger    ColumnType = "integer"
	TypeReal       ColumnType = "real"
	TypeText       ColumnType = "text"
	TypeDate       ColumnType = "date"
	TypeCurrency   ColumnType = "currency"
	TypePercentage ColumnType = "percentage"
	TypeCategory   ColumnType = "category"
	TypeID         ColumnType = "id"
)

// IsNumeric reports whether values of this type are compared and formatted
// as unquoted numeric literals.
func (t ColumnType) IsNumeric() bool {
	switch t {
	case TypeInteger, TypeReal, TypeCurrency, TypePercentage:
		return true
	}
	return false
}

// ColumnDescriptor describes one dataset column.
type ColumnDescriptor struct {
	Name         string     `json:"name"`
	InferredType ColumnType `json:"inferred_type"`
	SampleValues []string   `json:"sample_values,omitempty"`
	NullCount    int        `json:"null_count"`
	UniqueCount  int        `json:"unique_count"`
}

// Descriptor is the schema input produced by the ingestion collaborator.
type Descriptor struct {
	Columns      []string               `json:"columns"`
	ColumnTypes  map[string]ColumnType  `json:"column_types"`
	SampleValues map[string][]string    `json:"sample_values,omitempty"`
	Stats        map[string]ColumnStats `json:"stats,omitempty"`
}

// ColumnStats carries optional per-column counts from ingestion.
type ColumnStats struct {
	NullCount   int `json:"null_count"`
	UniqueCount int `json:"unique_count"`
}

// Context is the immutable per-dataset schema description consumed by the
// translation pipeline.
type Context struct {
	columns []ColumnDescriptor
	byName  map[string]*ColumnDescriptor // lowercase name -> descriptor
}

// NewContext builds a Context from an ingestion descriptor.
// Columns keep the descriptor's order; lookups are case-insensitive.
func NewContext(d Descriptor) (*Context, error) {
	if len(d.Columns) == 0 {
		return nil, fmt.Errorf("descriptor has no columns")
	}

	ctx := &Context{
		columns: make([]ColumnDescriptor, 0, len(d.Columns)),
		byName:  make(map[string]*ColumnDescriptor, len(d.Columns)),
	}

	for _, name := range d.Columns {
		colType, ok := d.ColumnTypes[name]
		if !ok {
			colType = TypeText
		}

		col := ColumnDescriptor{
			Name:         name,
			InferredType: colType,
			SampleValues: d.SampleValues[name],
		}
		if stats, ok := d.Stats[name]; ok {
			col.NullCount = stats.NullCount
			col.UniqueCount = stats.UniqueCount
		}

		key := strings.ToLower(name)
		if _, dup := ctx.byName[key]; dup {
			return nil, fmt.Errorf("duplicate column name %q (case-insensitive)", name)
		}
		ctx.columns = append(ctx.columns, col)
		ctx.byName[key] = &ctx.columns[len(ctx.columns)-1]
	}

	return ctx, nil
}

// Columns returns descriptors in dataset order. Callers must not mutate.
func (c *Context) Columns() []ColumnDescriptor {
	return c.columns
}

// ColumnNames returns column names in dataset order.
func (c *Context) ColumnNames() []string {
	names := make([]string, len(c.columns))
	for i, col := range c.columns {
		names[i] = col.Name
	}
	return names
}

// Column looks up a column by name, case-insensitively.
func (c *Context) Column(name string) (*ColumnDescriptor, bool) {
	col, ok := c.byName[strings.ToLower(name)]
	return col, ok
}

// NumericColumns returns the columns whose inferred type is numeric.
func (c *Context) NumericColumns() []ColumnDescriptor {
	var out []ColumnDescriptor
	for _, col := range c.columns {
		if col.InferredType.IsNumeric() {
			out = append(out, col)
		}
	}
	return out
}
