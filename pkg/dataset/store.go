// Package dataset loads a tabular dataset into an embedded in-memory SQLite
// database and executes read-only SQL against it. Ingestion infers a column
// type per field and produces the schema descriptor the translation pipeline
// consumes; execution sits behind the read-only safety gate.
package dataset

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/dataspeak/dataspeak-engine/pkg/apperrors"
	"github.com/dataspeak/dataspeak-engine/pkg/retry"
	"github.com/dataspeak/dataspeak-engine/pkg/schema"
	sqlsafe "github.com/dataspeak/dataspeak-engine/pkg/sql"
)

// ResultSet is the outcome of executing a translated query. Runtime SQL
// failures are carried in ErrorMessage rather than a Go error so the harness
// and CLI can treat them as data.
type ResultSet struct {
	Success      bool     `json:"success"`
	Columns      []string `json:"columns,omitempty"`
	Rows         [][]any  `json:"rows,omitempty"`
	RowCount     int      `json:"row_count"`
	ErrorMessage string   `json:"error_message,omitempty"`
}

// Store holds one loaded dataset in an in-memory SQLite database.
type Store struct {
	db       *sql.DB
	table    string
	logger   *zap.Logger
	retryCfg *retry.Config

	mu     sync.RWMutex
	desc   schema.Descriptor
	loaded bool
	closed bool
}

// NewStore opens an empty in-memory store. The table name is used verbatim
// in generated SQL, so it must match the translation layer's table name.
func NewStore(tableName string, logger *zap.Logger) (*Store, error) {
	if tableName == "" {
		tableName = "data"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// A second connection would see its own empty in-memory database.
	db.SetMaxOpenConns(1)

	return &Store{
		db:       db,
		table:    tableName,
		logger:   logger.Named("dataset"),
		retryCfg: retry.DefaultConfig(),
	}, nil
}

// Table returns the SQL table name the dataset is loaded under.
func (s *Store) Table() string {
	return s.table
}

// Descriptor returns the schema descriptor produced by the last load.
func (s *Store) Descriptor() schema.Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.desc
}

// LoadCSVFile loads a CSV file from disk. See LoadCSV.
func (s *Store) LoadCSVFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer f.Close()
	return s.LoadCSV(ctx, f)
}

// LoadCSV reads a CSV stream with a header row, infers a type per column,
// creates the dataset table, and inserts every row in one transaction.
// Reloading replaces the previous dataset.
func (s *Store) LoadCSV(ctx context.Context, r io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("store is closed")
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("CSV has no header row")
	}

	header := records[0]
	rows := records[1:]
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
		if header[i] == "" {
			return fmt.Errorf("column %d has an empty name", i+1)
		}
	}

	kinds := make([]columnKind, len(header))
	desc := schema.Descriptor{
		Columns:      make([]string, len(header)),
		ColumnTypes:  make(map[string]schema.ColumnType, len(header)),
		SampleValues: make(map[string][]string, len(header)),
		Stats:        make(map[string]schema.ColumnStats, len(header)),
	}

	for i, name := range header {
		values := make([]string, 0, len(rows))
		nulls := 0
		distinct := make(map[string]struct{})
		var samples []string
		for _, row := range rows {
			if i >= len(row) || strings.TrimSpace(row[i]) == "" {
				nulls++
				continue
			}
			v := strings.TrimSpace(row[i])
			values = append(values, v)
			if _, seen := distinct[strings.ToLower(v)]; !seen {
				distinct[strings.ToLower(v)] = struct{}{}
				if len(samples) < maxSampleValues {
					samples = append(samples, v)
				}
			}
		}

		kinds[i] = inferColumnType(name, values)
		desc.Columns[i] = name
		desc.ColumnTypes[name] = schema.ColumnType(kinds[i].typ)
		desc.SampleValues[name] = samples
		desc.Stats[name] = schema.ColumnStats{
			NullCount:   nulls,
			UniqueCount: len(distinct),
		}
	}

	if err := s.createTable(ctx, header, kinds); err != nil {
		return err
	}
	if err := s.insertRows(ctx, header, kinds, rows); err != nil {
		return err
	}

	s.desc = desc
	s.loaded = true
	s.logger.Info("dataset loaded",
		zap.String("table", s.table),
		zap.Int("columns", len(header)),
		zap.Int("rows", len(rows)))
	return nil
}

func (s *Store) createTable(ctx context.Context, header []string, kinds []columnKind) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, quoteIdent(s.table))); err != nil {
		return fmt.Errorf("failed to reset dataset table: %w", err)
	}

	defs := make([]string, len(header))
	for i, name := range header {
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(name), sqliteAffinity(kinds[i]))
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(s.table), strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create dataset table: %w", err)
	}
	return nil
}

func (s *Store) insertRows(ctx context.Context, header []string, kinds []columnKind, rows [][]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	quoted := make([]string, len(header))
	holders := make([]string, len(header))
	for i, name := range header {
		quoted[i] = quoteIdent(name)
		holders[i] = "?"
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(s.table), strings.Join(quoted, ", "), strings.Join(holders, ", "))

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for n, row := range rows {
		args := make([]any, len(header))
		for i := range header {
			if i >= len(row) || strings.TrimSpace(row[i]) == "" {
				args[i] = nil
				continue
			}
			args[i] = cellValue(strings.TrimSpace(row[i]), kinds[i])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", n+1, err)
		}
	}

	return tx.Commit()
}

// cellValue converts a raw CSV field to the value stored in SQLite. Numeric
// columns shed their currency and percent markers so SQL comparisons work on
// plain numbers.
func cellValue(raw string, kind columnKind) any {
	if !kind.numeric {
		return raw
	}
	cleaned := cleanNumeric(raw)
	if kind.typ == "integer" || kind.typ == "id" {
		if n, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
			return n
		}
	}
	if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return f
	}
	return raw
}

func sqliteAffinity(kind columnKind) string {
	switch kind.typ {
	case "integer", "id":
		return "INTEGER"
	case "real", "currency", "percentage":
		return "REAL"
	default:
		return "TEXT"
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Execute runs a translated query against the loaded dataset. The read-only
// gate is checked first; a blocked statement returns ErrUnsafeStatement with
// the gate's reason carried verbatim in the ResultSet. Runtime SQL failures
// come back as an unsuccessful ResultSet with a nil error.
func (s *Store) Execute(ctx context.Context, query string) (*ResultSet, error) {
	s.mu.RLock()
	closed, loaded := s.closed, s.loaded
	s.mu.RUnlock()

	if closed {
		return nil, fmt.Errorf("store is closed")
	}
	if !loaded {
		return nil, fmt.Errorf("no dataset loaded")
	}

	safety := sqlsafe.CheckReadOnly(query)
	if !safety.Safe {
		s.logger.Warn("unsafe statement blocked", zap.String("reason", safety.Reason))
		return &ResultSet{Success: false, ErrorMessage: safety.Reason},
			fmt.Errorf("%s: %w", safety.Reason, apperrors.ErrUnsafeStatement)
	}

	rs, err := retry.DoWithResult(ctx, s.retryCfg, func() (*ResultSet, error) {
		return s.queryRows(ctx, query)
	})
	if err != nil {
		s.logger.Debug("query failed", zap.Error(err))
		return &ResultSet{Success: false, ErrorMessage: err.Error()}, nil
	}
	return rs, nil
}

func (s *Store) queryRows(ctx context.Context, query string) (*ResultSet, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	rs := &ResultSet{
		Success: true,
		Columns: columns,
		Rows:    make([][]any, 0),
	}

	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rs.RowCount = len(rs.Rows)
	return rs, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
