// Package harness runs every registered translation strategy over a shared
// query corpus, times and independently scores each result, and aggregates
// win counts into a comparison report.
package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// QueryCase is one corpus entry. Category is informational and groups cases
// by the language shape they exercise.
type QueryCase struct {
	ID       string `yaml:"id"`
	Text     string `yaml:"text"`
	Category string `yaml:"category"`
}

// Corpus is an ordered set of test queries. Order is significant: results
// and reports preserve it.
type Corpus struct {
	Cases []QueryCase `yaml:"queries"`
}

// DefaultCorpus returns the built-in canonical corpus. It covers filters,
// comparisons, aggregations, ranking, ranges, lists, and negation so every
// pattern type gets exercised.
func DefaultCorpus() Corpus {
	return Corpus{Cases: []QueryCase{
		{ID: "filter-equality", Text: "Show me sales where region is North", Category: "filter"},
		{ID: "filter-negation", Text: "Show records where region is not South", Category: "filter"},
		{ID: "comparison-above", Text: "Find records where sales > 15000", Category: "comparison"},
		{ID: "comparison-under", Text: "Which rows have units below 50", Category: "comparison"},
		{ID: "range-between", Text: "Show sales between 5000 and 20000", Category: "range"},
		{ID: "aggregation-total", Text: "What is the total sales by region", Category: "aggregation"},
		{ID: "aggregation-average", Text: "Show the average units per region", Category: "aggregation"},
		{ID: "aggregation-count", Text: "How many records are there for the North region", Category: "aggregation"},
		{ID: "ranking-top", Text: "Show top 3 regions by sales", Category: "ranking"},
		{ID: "ranking-bottom", Text: "Show the bottom 5 products by units", Category: "ranking"},
		{ID: "list-in", Text: "Show records where region is one of North, South or East", Category: "list"},
		{ID: "plain-preview", Text: "Show everything", Category: "preview"},
	}}
}

// LoadCorpus reads a YAML corpus file. The file fully replaces the built-in
// corpus rather than extending it.
func LoadCorpus(path string) (Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Corpus{}, fmt.Errorf("failed to read corpus file: %w", err)
	}

	var c Corpus
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Corpus{}, fmt.Errorf("failed to parse corpus file: %w", err)
	}
	if len(c.Cases) == 0 {
		return Corpus{}, fmt.Errorf("corpus file %s contains no queries", path)
	}
	for i, q := range c.Cases {
		if q.Text == "" {
			return Corpus{}, fmt.Errorf("corpus entry %d has no text", i+1)
		}
		if q.ID == "" {
			c.Cases[i].ID = fmt.Sprintf("query-%d", i+1)
		}
	}
	return c, nil
}
