package translate

// Confidence scoring weights. The function is deterministic and additive:
// base value, capped per-condition and per-aggregation increments, presence
// bonuses, and a small bonus per recognized lexical cue, clamped to [0,1].
const (
	confidenceBase = 0.25

	conditionIncrement = 0.10
	conditionCap       = 0.30

	aggregationIncrement = 0.10
	aggregationCap       = 0.20

	groupBonus = 0.05
	orderBonus = 0.05
	limitBonus = 0.05

	cueBonus = 0.02
	cueCap   = 0.10
)

// ConfidenceScorer produces the heuristic self-assessment score attached to
// every translation. Strategies use it to gate fallback decisions; the
// harness treats it only as one minor rubric input, never as the quality
// score itself.
type ConfidenceScorer struct{}

// NewConfidenceScorer creates a scorer.
func NewConfidenceScorer() *ConfidenceScorer {
	return &ConfidenceScorer{}
}

// Score computes the 0..1 confidence for an extracted intent against the
// raw query text.
func (s *ConfidenceScorer) Score(intent Intent, rawQuery string) float64 {
	score := confidenceBase

	score += capped(float64(len(intent.Conditions))*conditionIncrement, conditionCap)
	score += capped(float64(len(intent.Aggregations))*aggregationIncrement, aggregationCap)

	if intent.Group != nil && len(intent.Group.Columns) > 0 {
		score += groupBonus
	}
	if intent.Order != nil {
		score += orderBonus
	}
	if intent.Limit != nil {
		score += limitBonus
	}

	score += capped(float64(CueCount(rawQuery))*cueBonus, cueCap)

	if score > 1 {
		return 1
	}
	if score < 0 {
		return 0
	}
	return score
}

func capped(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}
