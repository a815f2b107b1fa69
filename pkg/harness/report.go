package harness

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dataspeak/dataspeak-engine/pkg/translate"
)

// ComparisonReport aggregates one full harness run. Immutable after
// construction.
type ComparisonReport struct {
	RunID           string             `json:"run_id"`
	GeneratedAt     time.Time          `json:"generated_at"`
	TotalQueries    int                `json:"total_queries"`
	StrategyOrder   []string           `json:"strategy_order"`
	AllResults      []QueryResult      `json:"all_results"`
	StrategyWins    map[string]int     `json:"strategy_wins"`
	AverageScores   map[string]float64 `json:"average_scores"`
	AverageTimes    map[string]float64 `json:"average_times_ms"`
	AvgConfidence   map[string]float64 `json:"average_confidence"`
	Winners         map[string]string  `json:"winners"` // query ID -> winning strategy
	Recommendations []string           `json:"recommendations"`
}

// buildReport folds per-query results into the aggregate report. Every
// registered strategy appears in the win map, so win counts always sum to
// the corpus size.
func buildReport(runID string, strategies []translate.Strategy, corpus Corpus, perQuery [][]QueryResult) *ComparisonReport {
	order := make([]string, len(strategies))
	for i, s := range strategies {
		order[i] = s.Name()
	}

	report := &ComparisonReport{
		RunID:         runID,
		GeneratedAt:   time.Now(),
		TotalQueries:  len(corpus.Cases),
		StrategyOrder: order,
		StrategyWins:  make(map[string]int, len(order)),
		AverageScores: make(map[string]float64, len(order)),
		AverageTimes:  make(map[string]float64, len(order)),
		AvgConfidence: make(map[string]float64, len(order)),
		Winners:       make(map[string]string, len(corpus.Cases)),
	}
	for _, name := range order {
		report.StrategyWins[name] = 0
	}

	scoreSum := make(map[string]float64, len(order))
	timeSum := make(map[string]time.Duration, len(order))
	confSum := make(map[string]float64, len(order))
	counted := make(map[string]int, len(order))

	for _, results := range perQuery {
		if len(results) == 0 {
			continue
		}

		winner := results[0]
		for _, r := range results[1:] {
			// Strict comparison keeps ties with the earlier strategy.
			if r.Quality > winner.Quality {
				winner = r
			}
		}
		report.StrategyWins[winner.Strategy]++
		report.Winners[winner.QueryID] = winner.Strategy

		for _, r := range results {
			report.AllResults = append(report.AllResults, r)
			scoreSum[r.Strategy] += r.Quality
			timeSum[r.Strategy] += r.Elapsed
			if r.Result != nil {
				confSum[r.Strategy] += r.Result.Confidence
			}
			counted[r.Strategy]++
		}
	}

	for _, name := range order {
		n := counted[name]
		if n == 0 {
			continue
		}
		report.AverageScores[name] = scoreSum[name] / float64(n)
		report.AverageTimes[name] = float64(timeSum[name].Microseconds()) / 1000.0 / float64(n)
		report.AvgConfidence[name] = confSum[name] / float64(n)
	}

	report.Recommendations = recommend(report)
	return report
}

// confidenceGap is the average-confidence difference treated as material
// when comparing strategies.
const confidenceGap = 0.15

// recommend derives rule-based observations from the aggregates.
func recommend(r *ComparisonReport) []string {
	var recs []string

	best, bestScore := "", -1.0
	for _, name := range r.StrategyOrder {
		if s := r.AverageScores[name]; s > bestScore {
			best, bestScore = name, s
		}
	}
	if best != "" {
		recs = append(recs, fmt.Sprintf(
			"%s scored highest overall (%.1f average, %d/%d wins)",
			best, bestScore, r.StrategyWins[best], r.TotalQueries))
	}

	missingWhere := make(map[string]int)
	selectStar := make(map[string]int)
	failures := make(map[string]int)
	for _, qr := range r.AllResults {
		if qr.Result == nil {
			continue
		}
		upper := strings.ToUpper(qr.Result.SQL)
		if !strings.Contains(upper, " WHERE ") {
			missingWhere[qr.Strategy]++
		}
		if bareSelectStarRe.MatchString(upper) {
			selectStar[qr.Strategy]++
		}
		if !qr.Result.Success {
			failures[qr.Strategy]++
		}
	}

	for _, name := range r.StrategyOrder {
		if n := missingWhere[name]; n*2 > r.TotalQueries {
			recs = append(recs, fmt.Sprintf(
				"%s produced no WHERE clause on %d of %d queries", name, n, r.TotalQueries))
		}
		if n := selectStar[name]; n*2 > r.TotalQueries {
			recs = append(recs, fmt.Sprintf(
				"%s falls back to SELECT * on %d of %d queries", name, n, r.TotalQueries))
		}
		if n := failures[name]; n > 0 {
			recs = append(recs, fmt.Sprintf(
				"%s failed to translate %d of %d queries", name, n, r.TotalQueries))
		}
	}

	for _, a := range r.StrategyOrder {
		for _, b := range r.StrategyOrder {
			if a == b {
				continue
			}
			if r.AvgConfidence[a]-r.AvgConfidence[b] >= confidenceGap {
				recs = append(recs, fmt.Sprintf(
					"%s reports materially higher confidence than %s (%.2f vs %.2f)",
					a, b, r.AvgConfidence[a], r.AvgConfidence[b]))
			}
		}
	}

	return recs
}

// Render produces the human-readable report.
func (r *ComparisonReport) Render() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Strategy comparison: %d queries, %d strategies\n",
		r.TotalQueries, len(r.StrategyOrder))
	fmt.Fprintf(&sb, "Run %s at %s\n\n", r.RunID, r.GeneratedAt.Format(time.RFC3339))

	fmt.Fprintf(&sb, "%-12s %6s %10s %10s %12s\n", "STRATEGY", "WINS", "AVG SCORE", "AVG CONF", "AVG TIME")
	for _, name := range r.StrategyOrder {
		fmt.Fprintf(&sb, "%-12s %6d %10.1f %10.2f %9.2fms\n",
			name,
			r.StrategyWins[name],
			r.AverageScores[name],
			r.AvgConfidence[name],
			r.AverageTimes[name])
	}

	sb.WriteString("\nPer-query winners:\n")
	ids := make([]string, 0, len(r.Winners))
	for id := range r.Winners {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(&sb, "  %-22s %s\n", id, r.Winners[id])
	}

	if len(r.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&sb, "  - %s\n", rec)
		}
	}

	return sb.String()
}
