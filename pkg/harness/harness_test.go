package harness

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataspeak/dataspeak-engine/pkg/schema"
	"github.com/dataspeak/dataspeak-engine/pkg/translate"
)

// stubStrategy returns canned results so rubric aggregation can be tested
// in isolation from real translation.
type stubStrategy struct {
	name string
	fn   func(query string) *translate.TranslationResult
}

func (s *stubStrategy) Name() string                                          { return s.name }
func (s *stubStrategy) SetSchemaContext(sc *schema.Context, tableName string) {}

func (s *stubStrategy) Translate(_ context.Context, query string) (*translate.TranslationResult, error) {
	r := s.fn(query)
	r.Strategy = s.name
	return r, nil
}

func tenQueryCorpus() Corpus {
	c := Corpus{}
	for _, qc := range DefaultCorpus().Cases[:10] {
		c.Cases = append(c.Cases, qc)
	}
	return c
}

func TestRun_WinsSumToCorpusSize(t *testing.T) {
	strong := &stubStrategy{name: "strong", fn: func(q string) *translate.TranslationResult {
		return &translate.TranslationResult{Success: true, SQL: "SELECT Region FROM data WHERE Sales > 1 LIMIT 100", Confidence: 0.8}
	}}
	weak := &stubStrategy{name: "weak", fn: func(q string) *translate.TranslationResult {
		return &translate.TranslationResult{Success: true, SQL: "SELECT * FROM data LIMIT 100", Confidence: 0.2}
	}}

	corpus := tenQueryCorpus()
	h, err := New([]translate.Strategy{strong, weak}, corpus, Options{}, nil)
	require.NoError(t, err)

	report, err := h.Run(context.Background())
	require.NoError(t, err)

	sum := 0
	for _, wins := range report.StrategyWins {
		sum += wins
	}
	assert.Equal(t, 10, sum)
	assert.Equal(t, 10, report.StrategyWins["strong"])
	assert.Equal(t, 0, report.StrategyWins["weak"])
	assert.Equal(t, 10, report.TotalQueries)
	assert.Len(t, report.AllResults, 20)
}

func TestRun_TieGoesToFirstStrategy(t *testing.T) {
	same := func(q string) *translate.TranslationResult {
		return &translate.TranslationResult{Success: true, SQL: "SELECT * FROM data WHERE Sales > 1 LIMIT 100", Confidence: 0.5}
	}
	first := &stubStrategy{name: "first", fn: same}
	second := &stubStrategy{name: "second", fn: same}

	h, err := New([]translate.Strategy{first, second}, tenQueryCorpus(), Options{}, nil)
	require.NoError(t, err)

	report, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, report.StrategyWins["first"])
	assert.Equal(t, 0, report.StrategyWins["second"])
}

func TestRun_ParallelMatchesSequentialShape(t *testing.T) {
	strat := &stubStrategy{name: "only", fn: func(q string) *translate.TranslationResult {
		return &translate.TranslationResult{Success: true, SQL: "SELECT * FROM data WHERE Sales > 1 LIMIT 100", Confidence: 0.5}
	}}

	h, err := New([]translate.Strategy{strat}, tenQueryCorpus(), Options{Parallel: true, MaxConcurrent: 3}, nil)
	require.NoError(t, err)

	report, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.AllResults, 10)
	assert.Equal(t, 10, report.StrategyWins["only"])

	// Corpus order is preserved even under parallel execution.
	for i, qr := range report.AllResults {
		assert.Equal(t, tenQueryCorpus().Cases[i].ID, qr.QueryID)
	}
}

func TestRun_ConfidenceRecommendation(t *testing.T) {
	confident := &stubStrategy{name: "confident", fn: func(q string) *translate.TranslationResult {
		return &translate.TranslationResult{Success: true, SQL: "SELECT * FROM data WHERE Sales > 1 LIMIT 100", Confidence: 0.9}
	}}
	timid := &stubStrategy{name: "timid", fn: func(q string) *translate.TranslationResult {
		return &translate.TranslationResult{Success: true, SQL: "SELECT * FROM data WHERE Sales > 1 LIMIT 100", Confidence: 0.3}
	}}

	h, err := New([]translate.Strategy{confident, timid}, tenQueryCorpus(), Options{}, nil)
	require.NoError(t, err)

	report, err := h.Run(context.Background())
	require.NoError(t, err)

	found := false
	for _, rec := range report.Recommendations {
		if strings.Contains(rec, "materially higher confidence") {
			found = true
		}
	}
	assert.True(t, found, "expected a confidence-gap recommendation, got %v", report.Recommendations)
}

func TestRunQuery_OneResultPerStrategy(t *testing.T) {
	a := &stubStrategy{name: "a", fn: func(q string) *translate.TranslationResult {
		return &translate.TranslationResult{Success: true, SQL: "SELECT * FROM data LIMIT 100", Confidence: 0.2}
	}}
	b := &stubStrategy{name: "b", fn: func(q string) *translate.TranslationResult {
		return &translate.TranslationResult{Success: true, SQL: "SELECT * FROM data LIMIT 100", Confidence: 0.2}
	}}

	h, err := New([]translate.Strategy{a, b}, DefaultCorpus(), Options{}, nil)
	require.NoError(t, err)

	results := h.RunQuery(context.Background(), "show everything")
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Strategy)
	assert.Equal(t, "b", results[1].Strategy)
}

func TestRun_RealStrategies(t *testing.T) {
	sc, err := schema.NewContext(schema.Descriptor{
		Columns: []string{"Region", "Product", "Sales", "Units"},
		ColumnTypes: map[string]schema.ColumnType{
			"Region":  schema.TypeCategory,
			"Product": schema.TypeCategory,
			"Sales":   schema.TypeCurrency,
			"Units":   schema.TypeInteger,
		},
		SampleValues: map[string][]string{
			"Region":  {"North", "South", "East"},
			"Product": {"Widget", "Gadget"},
		},
	})
	require.NoError(t, err)

	strategies := translate.NewAll(translate.Deps{})
	for _, s := range strategies {
		s.SetSchemaContext(sc, "data")
	}

	h, err := New(strategies, DefaultCorpus(), Options{}, nil)
	require.NoError(t, err)

	report, err := h.Run(context.Background())
	require.NoError(t, err)

	sum := 0
	for _, wins := range report.StrategyWins {
		sum += wins
	}
	assert.Equal(t, len(DefaultCorpus().Cases), sum)
	assert.Len(t, report.AllResults, len(DefaultCorpus().Cases)*len(strategies))
	assert.NotEmpty(t, report.Render())
}

func TestDefaultCorpus_ListCaseExercisesInPattern(t *testing.T) {
	sc, err := schema.NewContext(schema.Descriptor{
		Columns: []string{"Region", "Sales"},
		ColumnTypes: map[string]schema.ColumnType{
			"Region": schema.TypeCategory,
			"Sales":  schema.TypeCurrency,
		},
	})
	require.NoError(t, err)

	var listCase QueryCase
	for _, qc := range DefaultCorpus().Cases {
		if qc.Category == "list" {
			listCase = qc
		}
	}
	require.NotEmpty(t, listCase.Text)

	s, err := translate.New(translate.StrategyPattern, translate.Deps{})
	require.NoError(t, err)
	s.SetSchemaContext(sc, "data")

	result, err := s.Translate(context.Background(), listCase.Text)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, result.Conditions, 1)
	assert.Equal(t, translate.OpIn, result.Conditions[0].Operator)
	assert.Equal(t, "Region", result.Conditions[0].Column)
	assert.Len(t, result.Conditions[0].Values, 3)
	assert.Contains(t, result.SQL, "IN (")
}

func TestLoadCorpus(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.yaml")
	content := `queries:
  - id: custom-1
    text: show sales where region is West
    category: filter
  - text: top 2 products by units
    category: ranking
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	corpus, err := LoadCorpus(path)
	require.NoError(t, err)
	require.Len(t, corpus.Cases, 2)
	assert.Equal(t, "custom-1", corpus.Cases[0].ID)
	assert.Equal(t, "query-2", corpus.Cases[1].ID)
}

func TestLoadCorpus_Errors(t *testing.T) {
	_, err := LoadCorpus(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("queries: []\n"), 0o644))
	_, err = LoadCorpus(path)
	require.Error(t, err)
}
