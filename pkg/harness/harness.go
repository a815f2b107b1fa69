package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dataspeak/dataspeak-engine/pkg/translate"
)

// Options configures a harness run.
type Options struct {
	// Parallel runs corpus queries concurrently. Each query still runs its
	// strategies sequentially, so per-strategy learned state mutates under
	// the strategies' own locks. Note the adaptive strategy's vocabulary
	// then grows in nondeterministic order; leave Parallel off when
	// reproducible reports matter.
	Parallel bool

	// MaxConcurrent bounds parallel query execution. Zero means 4.
	MaxConcurrent int
}

// QueryResult is one strategy's outcome on one corpus query.
type QueryResult struct {
	QueryID  string                       `json:"query_id"`
	Query    string                       `json:"query"`
	Strategy string                       `json:"strategy"`
	Result   *translate.TranslationResult `json:"result"`
	Quality  float64                      `json:"quality_score"`
	Elapsed  time.Duration                `json:"elapsed"`
}

// Harness drives registered strategies over a query corpus.
type Harness struct {
	strategies []translate.Strategy
	corpus     Corpus
	opts       Options
	logger     *zap.Logger
}

// New builds a harness over the given strategies. Strategy order is the
// deterministic tie-break order for per-query winners, so callers should
// pass strategies in registry order.
func New(strategies []translate.Strategy, corpus Corpus, opts Options, logger *zap.Logger) (*Harness, error) {
	if len(strategies) == 0 {
		return nil, fmt.Errorf("harness needs at least one strategy")
	}
	if len(corpus.Cases) == 0 {
		return nil, fmt.Errorf("harness needs a non-empty corpus")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 4
	}

	return &Harness{
		strategies: strategies,
		corpus:     corpus,
		opts:       opts,
		logger:     logger.Named("harness"),
	}, nil
}

// RunQuery runs every strategy against a single query and returns one
// result per strategy, in strategy order.
func (h *Harness) RunQuery(ctx context.Context, query string) []QueryResult {
	return h.runCase(ctx, QueryCase{ID: "ad-hoc", Text: query})
}

// Run executes the full corpus and builds the comparison report. Results
// keep corpus order regardless of execution order.
func (h *Harness) Run(ctx context.Context) (*ComparisonReport, error) {
	runID := uuid.New().String()
	started := time.Now()
	h.logger.Info("starting comparison run",
		zap.String("run_id", runID),
		zap.Int("queries", len(h.corpus.Cases)),
		zap.Int("strategies", len(h.strategies)),
		zap.Bool("parallel", h.opts.Parallel))

	var perQuery [][]QueryResult
	if h.opts.Parallel {
		tasks := make([]task[[]QueryResult], len(h.corpus.Cases))
		for i, qc := range h.corpus.Cases {
			qc := qc
			tasks[i] = task[[]QueryResult]{
				index: i,
				run: func(ctx context.Context) []QueryResult {
					return h.runCase(ctx, qc)
				},
			}
		}
		perQuery = runBounded(ctx, h.opts.MaxConcurrent, tasks)
	} else {
		perQuery = make([][]QueryResult, len(h.corpus.Cases))
		for i, qc := range h.corpus.Cases {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			perQuery[i] = h.runCase(ctx, qc)
		}
	}

	report := buildReport(runID, h.strategies, h.corpus, perQuery)
	h.logger.Info("comparison run finished",
		zap.String("run_id", runID),
		zap.Duration("elapsed", time.Since(started)))
	return report, nil
}

// runCase runs all strategies against one corpus case, sequentially and in
// strategy order.
func (h *Harness) runCase(ctx context.Context, qc QueryCase) []QueryResult {
	results := make([]QueryResult, 0, len(h.strategies))
	for _, strat := range h.strategies {
		start := time.Now()
		res, err := strat.Translate(ctx, qc.Text)
		elapsed := time.Since(start)

		if err != nil {
			// Host misuse or cancellation; score it as a failed translation
			// so the run still completes.
			res = &translate.TranslationResult{
				Success:  false,
				Strategy: strat.Name(),
				Error:    err.Error(),
			}
		}

		results = append(results, QueryResult{
			QueryID:  qc.ID,
			Query:    qc.Text,
			Strategy: strat.Name(),
			Result:   res,
			Quality:  ScoreQuality(res, qc.Text),
			Elapsed:  elapsed,
		})
	}
	return results
}
