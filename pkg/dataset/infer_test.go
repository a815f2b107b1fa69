package dataset

import "testing"

func TestInferColumnType(t *testing.T) {
	tests := []struct {
		name   string
		column string
		values []string
		want   string
	}{
		{
			name:   "integers",
			column: "units",
			values: []string{"10", "25", "-3"},
			want:   "integer",
		},
		{
			name:   "reals",
			column: "score",
			values: []string{"1.5", "2.25", "3"},
			want:   "real",
		},
		{
			name:   "currency",
			column: "revenue",
			values: []string{"$1,200.50", "$980", "-$45.00"},
			want:   "currency",
		},
		{
			name:   "percentage",
			column: "margin",
			values: []string{"12%", "8.5%", "100%"},
			want:   "percentage",
		},
		{
			name:   "dates",
			column: "order_date",
			values: []string{"2024-01-15", "2024-02-01"},
			want:   "date",
		},
		{
			name:   "id column",
			column: "customer_id",
			values: []string{"1", "2", "3", "4"},
			want:   "id",
		},
		{
			name:   "non-unique id-named column stays integer",
			column: "customer_id",
			values: []string{"1", "2", "2", "3"},
			want:   "integer",
		},
		{
			name:   "category from repeated values",
			column: "region",
			values: []string{"North", "South", "North", "East", "South", "North", "East", "South"},
			want:   "category",
		},
		{
			name:   "free text",
			column: "notes",
			values: []string{"called back", "left voicemail", "sent invoice"},
			want:   "text",
		},
		{
			name:   "empty column defaults to text",
			column: "blank",
			values: nil,
			want:   "text",
		},
		{
			name:   "mixed numbers and words",
			column: "misc",
			values: []string{"12", "pending", "7"},
			want:   "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inferColumnType(tt.column, tt.values)
			if got.typ != tt.want {
				t.Errorf("inferColumnType(%q, %v) = %q, want %q", tt.column, tt.values, got.typ, tt.want)
			}
		})
	}
}

func TestCleanNumeric(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"$1,200.50", "1200.50"},
		{"12%", "12"},
		{" 42 ", "42"},
		{"-$45", "-45"},
	}
	for _, tt := range tests {
		if got := cleanNumeric(tt.in); got != tt.want {
			t.Errorf("cleanNumeric(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
