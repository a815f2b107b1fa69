package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dataspeak/dataspeak-engine/pkg/apperrors"
	"github.com/dataspeak/dataspeak-engine/pkg/llm"
	"github.com/dataspeak/dataspeak-engine/pkg/logging"
)

const (
	// assistedSystemMessage frames the hint-extraction task.
	assistedSystemMessage = "You are a query-intent extractor for a data analysis tool. " +
		"You translate a user's question about one table into structured hints. " +
		"You never compute values and never write SQL. Respond with JSON only."

	// assistedTemperature keeps hint extraction near-deterministic.
	assistedTemperature = 0.1

	// assistedMinConfidence gates acceptance of LLM-derived intents; below
	// it the pattern path output is used instead.
	assistedMinConfidence = 0.5

	defaultLLMTimeout = 10 * time.Second
)

// AssistedStrategy asks an external LLM for structured extraction hints
// (conditions, aggregations, grouping, ordering, limit), validates every
// hinted column against the schema, and falls back silently to the shared
// pattern library on any failure: circuit open, timeout, provider error,
// malformed JSON, or low-confidence output. One attempt per translation,
// never a retry.
type AssistedStrategy struct {
	base
	client  llm.Client
	breaker *llm.CircuitBreaker
	timeout time.Duration
}

// NewAssistedStrategy creates the LLM-assisted strategy. A nil client is
// allowed and turns the strategy into a pattern-only translator.
func NewAssistedStrategy(deps Deps) *AssistedStrategy {
	timeout := deps.LLMTimeout
	if timeout <= 0 {
		timeout = defaultLLMTimeout
	}
	return &AssistedStrategy{
		base:    newBase(StrategyAssisted, deps),
		client:  deps.LLM,
		breaker: llm.NewCircuitBreaker(llm.DefaultCircuitBreakerConfig()),
		timeout: timeout,
	}
}

// extractionHints is the JSON contract requested from the LLM.
type extractionHints struct {
	Conditions []struct {
		Column   string   `json:"column"`
		Operator string   `json:"operator"`
		Value    string   `json:"value,omitempty"`
		Low      string   `json:"low,omitempty"`
		High     string   `json:"high,omitempty"`
		Values   []string `json:"values,omitempty"`
	} `json:"conditions"`
	Aggregations []struct {
		Function string `json:"function"`
		Column   string `json:"column,omitempty"`
	} `json:"aggregations"`
	GroupBy []string `json:"group_by"`
	OrderBy *struct {
		Column     string `json:"column"`
		Descending bool   `json:"descending"`
	} `json:"order_by"`
	Limit   int      `json:"limit"`
	Columns []string `json:"columns"`
}

// Translate implements Strategy.
func (s *AssistedStrategy) Translate(ctx context.Context, query string) (result *TranslationResult, err error) {
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

	if intent, ok := s.tryAssisted(ctx, query); ok {
		return s.finish(intent, query), nil
	}

	// Silent degradation: the pattern path costs nothing beyond the
	// already-spent LLM attempt.
	intent := s.library.Extract(query, s.sc, ExtractOptions{Source: s.name})
	return s.finish(intent, query), nil
}

// tryAssisted makes at most one LLM attempt and reports whether its output
// was usable.
func (s *AssistedStrategy) tryAssisted(ctx context.Context, query string) (Intent, bool) {
	if s.client == nil {
		return Intent{}, false
	}

	if allowed, err := s.breaker.Allow(); !allowed {
		s.logger.Debug("skipping LLM call", zap.Error(err))
		return Intent{}, false
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.client.GenerateResponse(callCtx, s.buildPrompt(query), assistedSystemMessage, assistedTemperature)
	if err != nil {
		s.breaker.RecordFailure()
		// Provider errors can echo request URLs with key material.
		s.logger.Debug("LLM call failed, using patterns",
			zap.String("error_type", string(llm.GetErrorType(err))),
			zap.String("error", logging.SanitizeError(err)))
		return Intent{}, false
	}
	s.breaker.RecordSuccess()

	jsonText, err := llm.ExtractJSON(response)
	if err != nil {
		s.logger.Debug("unparseable LLM response, using patterns",
			zap.Error(err),
			zap.String("response", logging.TruncateString(response, 200)))
		return Intent{}, false
	}

	var hints extractionHints
	if err := json.Unmarshal([]byte(jsonText), &hints); err != nil {
		s.logger.Debug("malformed hints, using patterns", zap.Error(err))
		return Intent{}, false
	}

	intent, ok := s.hintsToIntent(hints)
	if !ok {
		return Intent{}, false
	}
	restoreValueCase(&intent, query, s.sc)

	if confidence := s.scorer.Score(intent, query); confidence < assistedMinConfidence {
		s.logger.Debug("low-confidence hints, using patterns",
			zap.Float64("confidence", confidence))
		return Intent{}, false
	}

	return intent, true
}

// buildPrompt describes the schema (names, types, sample values only, never
// rows) and the question.
func (s *AssistedStrategy) buildPrompt(query string) string {
	var b strings.Builder

	b.WriteString("TABLE COLUMNS:\n")
	for _, col := range s.sc.Columns() {
		b.WriteString("- ")
		b.WriteString(col.Name)
		b.WriteString(" (")
		b.WriteString(string(col.InferredType))
		b.WriteString(")")
		if len(col.SampleValues) > 0 {
			samples := col.SampleValues
			if len(samples) > 3 {
				samples = samples[:3]
			}
			b.WriteString(" e.g. ")
			b.WriteString(strings.Join(samples, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString("\nQUESTION: ")
	b.WriteString(query)
	b.WriteString("\n\nRespond with one JSON object:\n")
	b.WriteString(`{"conditions":[{"column":"","operator":"=|!=|>|<|>=|<=|BETWEEN|IN|LIKE","value":"","low":"","high":"","values":[]}],` +
		`"aggregations":[{"function":"SUM|AVG|COUNT|MAX|MIN","column":""}],` +
		`"group_by":[],"order_by":{"column":"","descending":true},"limit":0,"columns":[]}` + "\n")
	b.WriteString("Use only the listed column names. Omit anything the question does not ask for.\n")

	return b.String()
}

// hintsToIntent validates hints against the schema. Hinted columns are run
// through the resolver, so near-miss names still land; unresolvable ones
// drop their condition. Returns ok=false when the hints carry nothing usable.
func (s *AssistedStrategy) hintsToIntent(hints extractionHints) (Intent, bool) {
	var intent Intent

	for _, h := range hints.Conditions {
		column, ok := s.resolver.Resolve(h.Column)
		if !ok {
			s.logger.Debug("dropping hinted condition",
				zap.Error(apperrors.ErrUnresolvedColumn),
				zap.String("term", h.Column))
			continue
		}
		op, ok := parseOperator(h.Operator)
		if !ok {
			continue
		}

		cond := Condition{
			Column:     column,
			Operator:   op,
			Source:     s.name,
			Confidence: 0.85,
		}
		numericCol := isNumericColumn(s.sc, column)

		switch op {
		case OpBetween:
			if h.Low == "" || h.High == "" {
				continue
			}
			cond.ValueRange = [2]string{cleanNumber(h.Low), cleanNumber(h.High)}
			cond.Numeric = true
		case OpIn:
			if len(h.Values) < 2 {
				continue
			}
			cond.Values = h.Values
			cond.Numeric = numericCol && allNumeric(h.Values)
		default:
			if h.Value == "" {
				continue
			}
			cond.Value = h.Value
			cond.Numeric = numericCol && isNumericLiteral(h.Value)
			if cond.Numeric {
				cond.Value = cleanNumber(h.Value)
			}
		}
		intent.Conditions = append(intent.Conditions, cond)
	}

	for _, h := range hints.Aggregations {
		fn, ok := parseAggregateFunc(h.Function)
		if !ok {
			continue
		}
		if h.Column == "" {
			if fn == AggCount {
				intent.Aggregations = appendAggregation(intent.Aggregations, Aggregation{Func: AggCount, Alias: "row_count"})
			}
			continue
		}
		column, ok := s.resolver.Resolve(h.Column)
		if !ok {
			continue
		}
		intent.Aggregations = appendAggregation(intent.Aggregations, Aggregation{
			Func: fn, Column: column, Alias: aggregationAlias(fn, column),
		})
	}

	for _, g := range hints.GroupBy {
		if column, ok := s.resolver.Resolve(g); ok {
			if intent.Group == nil {
				intent.Group = &GroupSpec{}
			}
			if !containsString(intent.Group.Columns, column) {
				intent.Group.Columns = append(intent.Group.Columns, column)
			}
		}
	}

	if hints.OrderBy != nil && hints.OrderBy.Column != "" {
		// Hinted order often references an aggregate alias; the alias must
		// win before the resolver fuzzy-matches it onto the source column.
		for _, agg := range intent.Aggregations {
			if strings.EqualFold(hints.OrderBy.Column, agg.Alias) {
				intent.Order = &OrderSpec{Column: agg.Alias, Descending: hints.OrderBy.Descending}
				break
			}
		}
		if intent.Order == nil {
			if column, ok := s.resolver.Resolve(hints.OrderBy.Column); ok {
				intent.Order = &OrderSpec{Column: column, Descending: hints.OrderBy.Descending}
			}
		}
	}

	if hints.Limit > 0 {
		intent.Limit = &LimitSpec{Count: hints.Limit}
	}

	for _, c := range hints.Columns {
		if column, ok := s.resolver.Resolve(c); ok && !containsString(intent.Columns, column) {
			intent.Columns = append(intent.Columns, column)
		}
	}

	usable := len(intent.Conditions) > 0 || len(intent.Aggregations) > 0 ||
		intent.Group != nil || intent.Order != nil || intent.Limit != nil || len(intent.Columns) > 0
	return intent, usable
}

func parseOperator(s string) (Operator, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "=", "==", "EQ":
		return OpEqual, true
	case "!=", "<>", "NE":
		return OpNotEqual, true
	case ">":
		return OpGreater, true
	case "<":
		return OpLess, true
	case ">=":
		return OpGreaterEqual, true
	case "<=":
		return OpLessEqual, true
	case "BETWEEN":
		return OpBetween, true
	case "IN":
		return OpIn, true
	case "LIKE", "CONTAINS":
		return OpLike, true
	default:
		return "", false
	}
}

func parseAggregateFunc(s string) (AggregateFunc, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SUM":
		return AggSum, true
	case "AVG", "AVERAGE", "MEAN":
		return AggAvg, true
	case "COUNT":
		return AggCount, true
	case "MAX", "MAXIMUM":
		return AggMax, true
	case "MIN", "MINIMUM":
		return AggMin, true
	default:
		return "", false
	}
}
