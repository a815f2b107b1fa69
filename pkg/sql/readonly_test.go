package sql

import (
	"testing"
)

func TestCheckReadOnly_AllowsSelects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"plain select", "SELECT * FROM data LIMIT 100"},
		{"lowercase select", "select Region, Sales from data where Sales > 100"},
		{"trailing semicolon", "SELECT 1;"},
		{"aggregate query", "SELECT Region, SUM(Sales) AS total_sales FROM data GROUP BY Region ORDER BY total_sales DESC LIMIT 3"},
		{"keyword as substring", "SELECT created_at, updates FROM data LIMIT 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckReadOnly(tt.input)
			if !result.Safe {
				t.Errorf("CheckReadOnly(%q) unsafe: %s", tt.input, result.Reason)
			}
		})
	}
}

func TestCheckReadOnly_Rejects(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantReason string
	}{
		{"drop table", "DROP TABLE data", "DROP"},
		{"lowercase drop", "drop table data", "DROP"},
		{"mixed case", "DrOp TaBlE data", "DROP"},
		{"insert", "INSERT INTO data VALUES (1)", "INSERT"},
		{"update", "UPDATE data SET x = 1", "UPDATE"},
		{"delete", "DELETE FROM data", "DELETE"},
		{"truncate", "TRUNCATE TABLE data", "TRUNCATE"},
		{"exec", "EXEC sp_who", "EXEC"},
		{"keyword in trailing clause", "SELECT * FROM data; DROP TABLE data", "multiple SQL statements not allowed; only single statements are permitted"},
		{"keyword in line comment", "SELECT * FROM data -- DROP TABLE data", "DROP"},
		{"keyword in block comment", "SELECT /* DROP TABLE data */ * FROM data", "DROP"},
		{"keyword in string literal", "SELECT * FROM data WHERE note = 'please DROP TABLE x'", "DROP"},
		{"non-select prefix", "WITH x AS (SELECT 1) SELECT * FROM x", "only SELECT statements are allowed"},
		{"empty", "", "empty statement"},
		{"comment only", "-- nothing here", "empty statement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckReadOnly(tt.input)
			if result.Safe {
				t.Fatalf("CheckReadOnly(%q) = safe, want rejection", tt.input)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}
