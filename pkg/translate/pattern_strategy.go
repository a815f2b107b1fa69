package translate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dataspeak/dataspeak-engine/pkg/logging"
)

// PatternStrategy translates with the shared pattern library alone. It is
// fully deterministic: identical schema and query always produce identical
// SQL. A small table of hand-authored special cases for specific literal
// query shapes runs before the general patterns; see special_cases.go.
type PatternStrategy struct {
	base
}

// NewPatternStrategy creates the pattern-only strategy.
func NewPatternStrategy(deps Deps) *PatternStrategy {
	return &PatternStrategy{base: newBase(StrategyPattern, deps)}
}

// Translate implements Strategy.
func (s *PatternStrategy) Translate(_ context.Context, query string) (result *TranslationResult, err error) {
	if err := s.checkReady(query); err != nil {
		return nil, err
	}

	// Extraction over arbitrary text must never crash the caller.
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("extraction panic",
				zap.Any("panic", r),
				zap.String("query", logging.SanitizeQuery(query)))
			result, err = s.failed(fmt.Sprintf("internal extraction error: %v", r)), nil
		}
	}()

	intent, matched := applySpecialCases(query, s.library, s.sc)
	if !matched {
		intent = s.library.Extract(query, s.sc, ExtractOptions{Source: s.name})
	}

	s.logger.Debug("translated",
		zap.String("query", logging.SanitizeQuery(query)),
		zap.Int("conditions", len(intent.Conditions)),
		zap.Bool("special_case", matched))

	return s.finish(intent, query), nil
}
