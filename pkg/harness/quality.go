package harness

import (
	"regexp"
	"strings"

	"github.com/dataspeak/dataspeak-engine/pkg/translate"
)

// Rubric point values. The rubric scores the produced SQL on its own merits
// and is deliberately independent of a strategy's self-reported confidence,
// which contributes at most confidenceWeight points.
const (
	pointsSuccess     = 30.0
	pointsWhere       = 25.0
	pointsSelectivity = 15.0
	pointsAggregation = 15.0
	pointsRankLimit   = 10.0
	confidenceWeight  = 5.0
	maxQuality        = 100.0
)

// impliedAggregations maps explicit aggregation language to the SQL function
// the query calls for.
var impliedAggregations = []struct {
	phrases []string
	fn      translate.AggregateFunc
}{
	{[]string{"how many", "count of", "number of"}, translate.AggCount},
	{[]string{"average", "avg", "mean"}, translate.AggAvg},
	{[]string{"total", "sum of", "sum"}, translate.AggSum},
	{[]string{"highest", "maximum", "largest"}, translate.AggMax},
	{[]string{"lowest", "minimum", "smallest"}, translate.AggMin},
}

var rankingLanguageRe = regexp.MustCompile(`\b(top|first|bottom|last)\b`)
var bareSelectStarRe = regexp.MustCompile(`^\s*SELECT\s+\*\s`)

// ScoreQuality applies the fixed quality rubric to one translation result.
// Returns a value in [0, 100].
func ScoreQuality(result *translate.TranslationResult, query string) float64 {
	if result == nil {
		return 0
	}

	sqlUpper := strings.ToUpper(result.SQL)
	queryLower := strings.ToLower(query)
	score := 0.0

	if result.Success {
		score += pointsSuccess
	}
	if strings.Contains(sqlUpper, " WHERE ") {
		score += pointsWhere
	}
	if result.SQL != "" && !bareSelectStarRe.MatchString(sqlUpper) {
		score += pointsSelectivity
	}
	if fn, implied := impliedAggregation(queryLower); implied {
		if strings.Contains(sqlUpper, string(fn)+"(") {
			score += pointsAggregation
		}
	}
	if rankingLanguageRe.MatchString(queryLower) && strings.Contains(sqlUpper, " LIMIT ") {
		score += pointsRankLimit
	}

	confidence := result.Confidence
	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}
	score += confidenceWeight * confidence

	if score > maxQuality {
		score = maxQuality
	}
	return score
}

// impliedAggregation reports the aggregation function the query's own
// language calls for, if any. Ranking verbs alone do not imply one; they are
// rewarded through the LIMIT bonus instead.
func impliedAggregation(queryLower string) (translate.AggregateFunc, bool) {
	for _, entry := range impliedAggregations {
		for _, phrase := range entry.phrases {
			if strings.Contains(queryLower, phrase) {
				return entry.fn, true
			}
		}
	}
	return "", false
}
