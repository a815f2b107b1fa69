package translate

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dataspeak/dataspeak-engine/pkg/logging"
	"github.com/dataspeak/dataspeak-engine/pkg/schema"
)

// familiarityBonus is added to a condition's confidence for every previous
// sighting of its column this session, up to familiarityCap.
const (
	familiarityBonus = 0.02
	familiarityCap   = 0.10
)

// AdaptiveStrategy layers session-scoped vocabulary learning over the shared
// pattern library. It extracts overlapping candidate conditions and then
// resolves same-column conflicts itself: complementary bounds merge into
// BETWEEN, anything else keeps the highest-confidence condition per column.
// Terms seen in earlier queries raise confidence on later ones, so the
// strategy's confidence (not its SQL) varies with session history.
type AdaptiveStrategy struct {
	base

	mu sync.Mutex
	// vocabulary counts column sightings per usage category
	// ("filter", "aggregation", "grouping").
	vocabulary map[string]map[string]int
	queries    int
}

// NewAdaptiveStrategy creates the adaptive learning strategy.
func NewAdaptiveStrategy(deps Deps) *AdaptiveStrategy {
	return &AdaptiveStrategy{
		base:       newBase(StrategyAdaptive, deps),
		vocabulary: make(map[string]map[string]int),
	}
}

// SetSchemaContext resets learned vocabulary along with the base resolver
// cache: counts against one dataset say nothing about another.
func (s *AdaptiveStrategy) SetSchemaContext(sc *schema.Context, tableName string) {
	s.base.SetSchemaContext(sc, tableName)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.vocabulary = make(map[string]map[string]int)
	s.queries = 0
}

// Translate implements Strategy.
func (s *AdaptiveStrategy) Translate(_ context.Context, query string) (result *TranslationResult, err error) {
	if err := s.checkReady(query); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("extraction panic",
				zap.Any("panic", r),
				zap.String("query", logging.SanitizeQuery(query)))
			result, err = s.failed(fmt.Sprintf("internal extraction error: %v", r)), nil
		}
	}()

	intent := s.library.Extract(query, s.sc, ExtractOptions{
		Source:      s.name,
		Overlapping: true,
	})

	s.applyFamiliarity(&intent)
	intent.Conditions = resolveConflicts(intent.Conditions)
	s.recordVocabulary(intent)

	s.logger.Debug("translated",
		zap.String("query", logging.SanitizeQuery(query)),
		zap.Int("conditions", len(intent.Conditions)),
		zap.Int("session_queries", s.sessionQueries()))

	return s.finish(intent, query), nil
}

// applyFamiliarity bumps condition confidence for columns this session has
// already filtered on.
func (s *AdaptiveStrategy) applyFamiliarity(intent *Intent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filters := s.vocabulary["filter"]
	for i := range intent.Conditions {
		seen := float64(filters[intent.Conditions[i].Column]) * familiarityBonus
		if seen > familiarityCap {
			seen = familiarityCap
		}
		intent.Conditions[i].Confidence = clamp01(intent.Conditions[i].Confidence + seen)
	}
}

// recordVocabulary counts which columns served which role in this query.
func (s *AdaptiveStrategy) recordVocabulary(intent Intent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queries++
	for _, c := range intent.Conditions {
		s.bump("filter", c.Column)
	}
	for _, a := range intent.Aggregations {
		if a.Column != "" {
			s.bump("aggregation", a.Column)
		}
	}
	if intent.Group != nil {
		for _, col := range intent.Group.Columns {
			s.bump("grouping", col)
		}
	}
}

func (s *AdaptiveStrategy) bump(category, column string) {
	if s.vocabulary[category] == nil {
		s.vocabulary[category] = make(map[string]int)
	}
	s.vocabulary[category][column]++
}

func (s *AdaptiveStrategy) sessionQueries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries
}

// VocabularySize returns how many distinct column/category pairs the session
// has learned, for reporting.
func (s *AdaptiveStrategy) VocabularySize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, cols := range s.vocabulary {
		total += len(cols)
	}
	return total
}

// resolveConflicts reduces overlapping candidates: complementary numeric
// bounds on one column merge into BETWEEN, then each column keeps only its
// highest-confidence condition (first wins ties).
func resolveConflicts(conditions []Condition) []Condition {
	if len(conditions) <= 1 {
		return conditions
	}

	merged := mergeComplementaryBounds(conditions)

	best := make(map[string]int)
	var order []string
	for i, c := range merged {
		prev, ok := best[c.Column]
		if !ok {
			best[c.Column] = i
			order = append(order, c.Column)
			continue
		}
		if c.Confidence > merged[prev].Confidence {
			best[c.Column] = i
		}
	}

	out := make([]Condition, 0, len(order))
	for _, column := range order {
		out = append(out, merged[best[column]])
	}
	return out
}

func clamp01(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
