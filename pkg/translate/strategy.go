package translate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dataspeak/dataspeak-engine/pkg/apperrors"
	"github.com/dataspeak/dataspeak-engine/pkg/llm"
	"github.com/dataspeak/dataspeak-engine/pkg/schema"
	sqlsafe "github.com/dataspeak/dataspeak-engine/pkg/sql"
)

// Strategy is one complete, interchangeable NL-to-SQL translation
// implementation. SetSchemaContext must be called before Translate.
type Strategy interface {
	// Name returns the registry name of this strategy.
	Name() string

	// SetSchemaContext binds the strategy to a dataset. Learned term
	// mappings from a previous dataset are discarded.
	SetSchemaContext(sc *schema.Context, tableName string)

	// Translate converts a natural-language query into SQL. The returned
	// error covers host misuse only (no schema bound, empty query);
	// extraction and build failures come back as an unsuccessful result
	// with fallback SQL, never as an error.
	Translate(ctx context.Context, query string) (*TranslationResult, error)
}

// Strategy registry names.
const (
	StrategyPattern  = "pattern"
	StrategyAssisted = "assisted"
	StrategyAdaptive = "adaptive"
)

// Deps carries shared construction dependencies for strategies.
type Deps struct {
	Logger *zap.Logger

	// LLM is the provider client for the assisted strategy. Nil disables
	// LLM calls entirely; the assisted strategy then always uses patterns.
	LLM llm.Client

	// LLMTimeout bounds the single LLM round trip per translation.
	LLMTimeout time.Duration

	// DefaultRowLimit for the query builder; zero means DefaultRowLimit.
	DefaultRowLimit int
}

type factory func(Deps) Strategy

// registryOrder is the fixed registration order; it doubles as the
// deterministic tie-break order in the comparison harness.
var registryOrder = []string{StrategyPattern, StrategyAssisted, StrategyAdaptive}

var registry = map[string]factory{
	StrategyPattern:  func(d Deps) Strategy { return NewPatternStrategy(d) },
	StrategyAssisted: func(d Deps) Strategy { return NewAssistedStrategy(d) },
	StrategyAdaptive: func(d Deps) Strategy { return NewAdaptiveStrategy(d) },
}

// New constructs a registered strategy by name.
func New(name string, deps Deps) (Strategy, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)",
			apperrors.ErrUnknownStrategy, name, strings.Join(registryOrder, ", "))
	}
	return f(deps), nil
}

// NewAll constructs one of every registered strategy, in registry order.
func NewAll(deps Deps) []Strategy {
	strategies := make([]Strategy, 0, len(registryOrder))
	for _, name := range registryOrder {
		strategies = append(strategies, registry[name](deps))
	}
	return strategies
}

// Names returns the registered strategy names in registry order.
func Names() []string {
	return append([]string(nil), registryOrder...)
}

// base carries the shared pipeline every strategy builds on: one resolver,
// the shared pattern library, the query builder, and the confidence scorer.
type base struct {
	name     string
	logger   *zap.Logger
	resolver *Resolver
	library  *PatternLibrary
	builder  *QueryBuilder
	scorer   *ConfidenceScorer

	sc    *schema.Context
	table string
}

func newBase(name string, deps Deps) base {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named(name)

	resolver := NewResolver(logger)
	return base{
		name:     name,
		logger:   logger,
		resolver: resolver,
		library:  NewPatternLibrary(resolver),
		builder:  NewQueryBuilder(deps.DefaultRowLimit),
		scorer:   NewConfidenceScorer(),
	}
}

func (b *base) Name() string { return b.name }

func (b *base) SetSchemaContext(sc *schema.Context, tableName string) {
	b.sc = sc
	b.table = tableName
	b.resolver.SetSchemaContext(sc)
	b.logger.Debug("schema context bound",
		zap.String("table", tableName),
		zap.String("resolver_session", b.resolver.SessionID().String()))
}

// checkReady validates host usage before translation.
func (b *base) checkReady(query string) error {
	if b.sc == nil || b.table == "" {
		return apperrors.ErrNoSchemaContext
	}
	if strings.TrimSpace(query) == "" {
		return apperrors.ErrEmptyQuery
	}
	return nil
}

// finish assembles the final result from an extracted intent.
func (b *base) finish(intent Intent, rawQuery string) *TranslationResult {
	intent.Conditions = b.screenConditions(intent.Conditions)
	sqlText := b.builder.Build(intent, b.table)
	confidence := b.scorer.Score(intent, rawQuery)

	return &TranslationResult{
		Success:     true,
		SQL:         sqlText,
		Explanation: describeIntent(intent, b.table),
		Confidence:  confidence,
		Conditions:  CleanConditions(intent.Conditions),
		Strategy:    b.name,
	}
}

// screenConditions runs libinjection over string condition values before the
// builder embeds them as literals. Quoting already prevents breakout; this is
// the second, semantic layer for values that came out of untrusted free text
// or an LLM response. Flagged conditions are dropped, the rest survive.
func (b *base) screenConditions(conditions []Condition) []Condition {
	out := make([]Condition, 0, len(conditions))
	for _, c := range conditions {
		if c.Numeric {
			out = append(out, c)
			continue
		}
		if result := sqlsafe.CheckValue(c.Value); result != nil {
			b.logger.Warn("dropping condition value flagged as injection",
				zap.String("column", c.Column),
				zap.String("fingerprint", result.Fingerprint))
			continue
		}
		if flagged := sqlsafe.CheckValues(c.Values); len(flagged) > 0 {
			b.logger.Warn("dropping condition list flagged as injection",
				zap.String("column", c.Column),
				zap.String("fingerprint", flagged[0].Fingerprint))
			continue
		}
		out = append(out, c)
	}
	return out
}

// failed produces the safe fallback result for a parse failure.
func (b *base) failed(reason string) *TranslationResult {
	b.logger.Warn("returning bounded preview",
		zap.Error(apperrors.ErrParseFailure),
		zap.String("reason", reason))
	return &TranslationResult{
		Success:     false,
		SQL:         b.builder.FallbackSQL(b.table),
		Explanation: "could not interpret the question; returning a bounded preview",
		Confidence:  0,
		Strategy:    b.name,
		Error:       reason,
	}
}
