package translate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dataspeak/dataspeak-engine/pkg/schema"
)

// PatternType classifies one entry of the shared pattern table. Every
// strategy extracts through this one table; strategies differ only in how
// they select, weight, and post-process the matches.
type PatternType string

const (
	PatternRange      PatternType = "range"
	PatternNegation   PatternType = "negation"
	PatternComparison PatternType = "comparison"
	PatternInList     PatternType = "in_list"
	PatternLike       PatternType = "like"
	PatternEquality   PatternType = "equality"
)

const (
	termPat  = `((?:[a-z][a-z0-9_]* ){0,2}[a-z][a-z0-9_]*)`
	numPat   = `(\$?-?[0-9][0-9,]*(?:\.[0-9]+)?%?)`
	valuePat = `(?:'([^']+)'|([a-z0-9][a-z0-9_.-]*))`

	// lazyTermPat prefers the shortest term. Used where the pattern's tail is
	// optional ("top 3 regions by sales", "sorted by sales descending"): a
	// greedy term would swallow the tail since nothing after it forces
	// backtracking.
	lazyTermPat = `((?:[a-z][a-z0-9_]* ){0,2}?[a-z][a-z0-9_]*)`
)

// conditionPattern is one row of the declarative condition table.
type conditionPattern struct {
	Type       PatternType
	Re         *regexp.Regexp
	Operator   Operator
	Confidence float64
}

// conditionPatterns is the shared condition table. Order is priority order:
// earlier rows consume their text spans before later rows run, so the more
// specific shapes (ranges, negations) win over plain equality.
//
// Percentage values are kept as the bare numeric: "10%" extracts as "10".
var conditionPatterns = []conditionPattern{
	{
		Type:       PatternRange,
		Re:         regexp.MustCompile(termPat + `\s+(?:is\s+)?(?:between|from)\s+` + numPat + `\s+(?:and|to)\s+` + numPat),
		Operator:   OpBetween,
		Confidence: 0.9,
	},
	{
		Type:       PatternNegation,
		Re:         regexp.MustCompile(termPat + `\s+(?:is not|is different from|does not equal|not equal to|!=|<>|excluding|except)\s+` + valuePat),
		Operator:   OpNotEqual,
		Confidence: 0.8,
	},
	{
		Type:       PatternInList,
		Re:         regexp.MustCompile(termPat + `\s+(?:is one of|is either|in)\s+\(?((?:'[^']+'|[a-z0-9][a-z0-9_.-]*)(?:(?:,\s*|\s+or\s+|\s+and\s+)(?:'[^']+'|[a-z0-9][a-z0-9_.-]*))+)\)?`),
		Operator:   OpIn,
		Confidence: 0.85,
	},
	{
		Type:       PatternLike,
		Re:         regexp.MustCompile(termPat + `\s+(?:contains|containing|includes|like|starting with|starts with|ends with|ending with)\s+` + valuePat),
		Operator:   OpLike,
		Confidence: 0.75,
	},
	{
		Type:       PatternEquality,
		Re:         regexp.MustCompile(termPat + `\s+(?:is|equals|equal to|=)\s+` + valuePat),
		Operator:   OpEqual,
		Confidence: 0.8,
	},
}

// comparisonPhrases maps spoken comparison phrasings to operators.
// Longer phrases sort first so "greater than or equal to" never half-matches
// as "greater than".
var comparisonPhrases = []struct {
	Phrase   string
	Operator Operator
}{
	{"greater than or equal to", OpGreaterEqual},
	{"less than or equal to", OpLessEqual},
	{"greater than", OpGreater},
	{"more than", OpGreater},
	{"higher than", OpGreater},
	{"less than", OpLess},
	{"fewer than", OpLess},
	{"lower than", OpLess},
	{"at least", OpGreaterEqual},
	{"at most", OpLessEqual},
	{"exceeding", OpGreater},
	{"exceeds", OpGreater},
	{"above", OpGreater},
	{"over", OpGreater},
	{"below", OpLess},
	{"under", OpLess},
	{">=", OpGreaterEqual},
	{"<=", OpLessEqual},
	{">", OpGreater},
	{"<", OpLess},
}

var comparisonRe = func() *regexp.Regexp {
	phrases := make([]string, len(comparisonPhrases))
	for i, p := range comparisonPhrases {
		phrases[i] = regexp.QuoteMeta(p.Phrase)
	}
	return regexp.MustCompile(termPat + `\s*(?:is |are |was |were )?(` + strings.Join(phrases, "|") + `)\s*` + numPat)
}()

// columnComparisonRe matches column-against-column comparisons
// ("actual sales exceeds budget sales"). The right side must itself
// resolve to a schema column or the match is discarded.
var columnComparisonRe = func() *regexp.Regexp {
	phrases := make([]string, len(comparisonPhrases))
	for i, p := range comparisonPhrases {
		phrases[i] = regexp.QuoteMeta(p.Phrase)
	}
	return regexp.MustCompile(termPat + `\s*(?:is |are |was |were )?(` + strings.Join(phrases, "|") + `)\s+` + termPat)
}()

// aggregationPatterns maps aggregation verbs to functions. A missing column
// term for COUNT becomes COUNT(*).
var aggregationPatterns = []struct {
	Re   *regexp.Regexp
	Func AggregateFunc
}{
	{regexp.MustCompile(`\b(?:total|sum of|sum)\s+` + lazyTermPat), AggSum},
	{regexp.MustCompile(`\b(?:average|avg|mean)\s+(?:of\s+)?` + lazyTermPat), AggAvg},
	{regexp.MustCompile(`\b(?:how many|count of|number of|count)\b\s*` + lazyTermPat + `?`), AggCount},
	{regexp.MustCompile(`\b(?:maximum|max|highest)\s+` + lazyTermPat), AggMax},
	{regexp.MustCompile(`\b(?:minimum|min|smallest)\s+` + lazyTermPat), AggMin},
}

var (
	rankingRe  = regexp.MustCompile(`\b(top|first|best|largest|highest|bottom|worst|lowest)\s+(\d+)?\s*` + lazyTermPat + `(?:\s+(?:by|in)\s+` + termPat + `)?`)
	orderingRe = regexp.MustCompile(`\b(?:sorted|ordered|order|sort|arranged)\s+by\s+` + lazyTermPat + `(\s+(?:desc|descending|asc|ascending))?`)
	groupingRe = regexp.MustCompile(`\b(?:grouped by|group by|by|per|for each|for every)\s+` + lazyTermPat)
	limitRe    = regexp.MustCompile(`\b(?:limit|only|just)\s+(\d+)\b|\b(\d+)\s+(?:rows|records|results)\b`)
	columnsRe  = regexp.MustCompile(`^(?:show|list|display|get|give)\s+(?:me\s+)?((?:[a-z][a-z0-9_]+)(?:(?:,\s*|\s+and\s+)[a-z][a-z0-9_]+)+|[a-z][a-z0-9_]+)\b`)
)

var inListSplitRe = regexp.MustCompile(`,\s*|\s+or\s+|\s+and\s+`)

// termStopwords are leading filler words trimmed off a captured term before
// resolution.
var termStopwords = map[string]bool{
	"show": true, "me": true, "find": true, "get": true, "give": true,
	"list": true, "display": true, "all": true, "the": true, "records": true,
	"rows": true, "data": true, "where": true, "with": true, "whose": true,
	"which": true, "that": true, "when": true, "and": true, "of": true,
	"a": true, "an": true, "whats": true, "what": true,
}

// valueStopwords are captures that signal a half-matched longer pattern
// ("is not ...", "is one of ...") rather than a real literal value.
var valueStopwords = map[string]bool{
	"not": true, "one": true, "either": true, "in": true, "between": true,
	"the": true, "a": true, "an": true,
}

// rankingDefaultCount applies when a ranking verb appears with no number
// ("top regions" -> top 10).
const rankingDefaultCount = 10

// ExtractOptions tunes shared extraction per strategy.
type ExtractOptions struct {
	// Source tags produced conditions with the strategy name.
	Source string

	// Overlapping keeps every candidate condition even when their text
	// spans overlap, for strategies that run their own conflict resolution.
	Overlapping bool

	// ConfidenceScale multiplies per-condition confidence; zero means 1.
	ConfidenceScale float64
}

// PatternLibrary is the shared extraction engine built on the declarative
// pattern tables above.
type PatternLibrary struct {
	resolver *Resolver
}

// NewPatternLibrary creates the shared extractor around one resolver.
func NewPatternLibrary(resolver *Resolver) *PatternLibrary {
	return &PatternLibrary{resolver: resolver}
}

// NormalizeQuery lowercases and collapses whitespace. All pattern matching
// runs over this form.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(query))), " ")
}

type span struct{ start, end int }

func overlaps(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}

// Extract runs the full shared pattern table over a query.
// Terms that fail column resolution silently drop their condition.
func (p *PatternLibrary) Extract(query string, sc *schema.Context, opts ExtractOptions) Intent {
	normalized := NormalizeQuery(query)

	var intent Intent
	var consumed []span

	// Clause patterns run first so "sorted by sales" is not also read as a
	// grouping phrase, and "top 3 regions" is not read as a limit.
	p.extractRanking(normalized, sc, &intent, &consumed)
	p.extractOrdering(normalized, sc, &intent, &consumed)
	p.extractAggregations(normalized, sc, &intent, &consumed)
	p.extractGrouping(normalized, sc, &intent, &consumed)
	p.extractLimit(normalized, &intent, &consumed)
	p.extractColumns(normalized, sc, &intent, consumed)

	p.ExtractConditions(normalized, sc, opts, &intent, &consumed)
	restoreValueCase(&intent, query, sc)

	return intent
}

// ExtractConditions runs only the condition rows of the pattern table,
// appending to intent. Exposed separately so strategies can re-run condition
// extraction with different options.
func (p *PatternLibrary) ExtractConditions(normalized string, sc *schema.Context, opts ExtractOptions, intent *Intent, consumed *[]span) {
	scale := opts.ConfidenceScale
	if scale == 0 {
		scale = 1
	}

	// Ranges first, then comparisons, then the remaining rows: "between 100
	// and 500" must not half-match as "over 100", and "is not" must not
	// half-match as plain equality.
	p.applyConditionRows(normalized, sc, opts, scale, intent, consumed, conditionPatterns[:1])
	p.applyComparisons(normalized, sc, opts, scale, intent, consumed)
	p.applyConditionRows(normalized, sc, opts, scale, intent, consumed, conditionPatterns[1:])
}

func (p *PatternLibrary) applyConditionRows(normalized string, sc *schema.Context, opts ExtractOptions, scale float64, intent *Intent, consumed *[]span, rows []conditionPattern) {
	for _, row := range rows {
		for _, m := range row.Re.FindAllStringSubmatchIndex(normalized, -1) {
			if !opts.Overlapping && overlaps(*consumed, m[0], m[1]) {
				continue
			}

			groups := submatches(normalized, m)
			column, ok := p.resolveTerm(groups[0], sc)
			if !ok {
				continue
			}

			cond, ok := buildCondition(row, column, groups, sc, opts.Source, scale)
			if !ok {
				continue
			}

			intent.Conditions = append(intent.Conditions, cond)
			*consumed = append(*consumed, span{m[0], m[1]})
		}
	}
}

func (p *PatternLibrary) applyComparisons(normalized string, sc *schema.Context, opts ExtractOptions, scale float64, intent *Intent, consumed *[]span) {
	for _, m := range comparisonRe.FindAllStringSubmatchIndex(normalized, -1) {
		if !opts.Overlapping && overlaps(*consumed, m[0], m[1]) {
			continue
		}

		groups := submatches(normalized, m)
		column, ok := p.resolveTerm(groups[0], sc)
		if !ok {
			continue
		}

		op, ok := phraseOperator(groups[1])
		if !ok {
			continue
		}

		intent.Conditions = append(intent.Conditions, Condition{
			Column:     column,
			Operator:   op,
			Value:      cleanNumber(groups[2]),
			Numeric:    true,
			Source:     opts.Source,
			Confidence: 0.85 * scale,
		})
		*consumed = append(*consumed, span{m[0], m[1]})
	}

	for _, m := range columnComparisonRe.FindAllStringSubmatchIndex(normalized, -1) {
		if !opts.Overlapping && overlaps(*consumed, m[0], m[1]) {
			continue
		}

		groups := submatches(normalized, m)
		left, okLeft := p.resolveTerm(groups[0], sc)
		right, okRight := p.resolveTerm(groups[2], sc)
		if !okLeft || !okRight || left == right {
			continue
		}

		op, ok := phraseOperator(groups[1])
		if !ok {
			continue
		}

		// Numeric keeps the right-hand column reference unquoted.
		intent.Conditions = append(intent.Conditions, Condition{
			Column:     left,
			Operator:   op,
			Value:      right,
			Numeric:    true,
			Source:     opts.Source,
			Confidence: 0.8 * scale,
		})
		*consumed = append(*consumed, span{m[0], m[1]})
	}
}

func (p *PatternLibrary) extractAggregations(normalized string, sc *schema.Context, intent *Intent, consumed *[]span) {
	for _, row := range aggregationPatterns {
		for _, m := range row.Re.FindAllStringSubmatchIndex(normalized, -1) {
			if overlaps(*consumed, m[0], m[1]) {
				continue
			}

			groups := submatches(normalized, m)
			term := ""
			if len(groups) > 0 {
				term = groups[0]
			}

			column, resolved := "", false
			if term != "" {
				column, resolved = p.resolveTerm(term, sc)
			}

			if row.Func == AggCount && !resolved {
				// "how many records" -> COUNT(*)
				intent.Aggregations = appendAggregation(intent.Aggregations, Aggregation{
					Func: AggCount, Alias: "row_count",
				})
				*consumed = append(*consumed, span{m[0], m[1]})
				continue
			}
			if !resolved {
				continue
			}

			intent.Aggregations = appendAggregation(intent.Aggregations, Aggregation{
				Func:   row.Func,
				Column: column,
				Alias:  aggregationAlias(row.Func, column),
			})
			*consumed = append(*consumed, span{m[0], m[1]})
		}
	}
}

func (p *PatternLibrary) extractRanking(normalized string, sc *schema.Context, intent *Intent, consumed *[]span) {
	m := rankingRe.FindStringSubmatchIndex(normalized)
	if m == nil {
		return
	}

	groups := submatches(normalized, m)
	verb, countStr, subjectTerm, metricTerm := groups[0], groups[1], groups[2], groups[3]

	descending := true
	switch verb {
	case "bottom", "worst", "lowest":
		descending = false
	}

	count := rankingDefaultCount
	if countStr != "" {
		if n, err := strconv.Atoi(countStr); err == nil && n > 0 {
			count = n
		}
	}

	if metricTerm != "" {
		// "top 3 regions by sales": group by subject, aggregate the metric,
		// order by the aggregate.
		subject, okSubject := p.resolveTerm(subjectTerm, sc)
		metric, okMetric := p.resolveTerm(metricTerm, sc)
		if okSubject && okMetric {
			// "highest sales by region" names them the other way round:
			// the numeric column is always the metric.
			if !isNumericColumn(sc, metric) && isNumericColumn(sc, subject) {
				subject, metric = metric, subject
			}
			agg := Aggregation{Func: AggSum, Column: metric, Alias: aggregationAlias(AggSum, metric)}
			intent.Aggregations = appendAggregation(intent.Aggregations, agg)
			intent.Group = &GroupSpec{Columns: []string{subject}}
			intent.Order = &OrderSpec{Column: agg.Alias, Descending: descending}
			intent.Limit = &LimitSpec{Count: count}
			*consumed = append(*consumed, span{m[0], m[1]})
			return
		}
	}

	// "top 5 sales": order by the subject column itself.
	if subject, ok := p.resolveTerm(subjectTerm, sc); ok {
		intent.Order = &OrderSpec{Column: subject, Descending: descending}
		intent.Limit = &LimitSpec{Count: count}
		*consumed = append(*consumed, span{m[0], m[1]})
	}
}

func (p *PatternLibrary) extractOrdering(normalized string, sc *schema.Context, intent *Intent, consumed *[]span) {
	m := orderingRe.FindStringSubmatchIndex(normalized)
	if m == nil || overlaps(*consumed, m[0], m[1]) {
		return
	}

	groups := submatches(normalized, m)
	column, ok := p.resolveTerm(groups[0], sc)
	if !ok {
		return
	}

	direction := strings.TrimSpace(groups[1])
	if intent.Order == nil {
		intent.Order = &OrderSpec{
			Column:     column,
			Descending: direction == "desc" || direction == "descending",
		}
	}
	*consumed = append(*consumed, span{m[0], m[1]})
}

func (p *PatternLibrary) extractGrouping(normalized string, sc *schema.Context, intent *Intent, consumed *[]span) {
	for _, m := range groupingRe.FindAllStringSubmatchIndex(normalized, -1) {
		if overlaps(*consumed, m[0], m[1]) {
			continue
		}

		groups := submatches(normalized, m)
		column, ok := p.resolveTerm(groups[0], sc)
		if !ok {
			continue
		}

		if intent.Group == nil {
			intent.Group = &GroupSpec{}
		}
		if !containsString(intent.Group.Columns, column) {
			intent.Group.Columns = append(intent.Group.Columns, column)
		}
		*consumed = append(*consumed, span{m[0], m[1]})
	}
}

func (p *PatternLibrary) extractLimit(normalized string, intent *Intent, consumed *[]span) {
	m := limitRe.FindStringSubmatchIndex(normalized)
	if m == nil || overlaps(*consumed, m[0], m[1]) {
		return
	}

	groups := submatches(normalized, m)
	countStr := groups[0]
	if countStr == "" {
		countStr = groups[1]
	}
	if n, err := strconv.Atoi(countStr); err == nil && n > 0 && intent.Limit == nil {
		intent.Limit = &LimitSpec{Count: n}
		*consumed = append(*consumed, span{m[0], m[1]})
	}
}

func (p *PatternLibrary) extractColumns(normalized string, sc *schema.Context, intent *Intent, consumed []span) {
	m := columnsRe.FindStringSubmatchIndex(normalized)
	if m == nil || m[2] < 0 || overlaps(consumed, m[2], m[3]) {
		return
	}

	for _, part := range inListSplitRe.Split(normalized[m[2]:m[3]], -1) {
		part = strings.TrimSpace(part)
		if part == "" || termStopwords[part] {
			continue
		}
		if column, ok := p.resolveTerm(part, sc); ok && !containsString(intent.Columns, column) {
			intent.Columns = append(intent.Columns, column)
		}
	}
}

// resolveTerm strips leading stopwords, then tries progressively shorter
// suffixes of the term against the resolver, longest first, so "actual
// sales" wins over just "sales". Exact name matches over all suffixes are
// tried before the fuzzy stages to keep a noisy prefix from stealing the
// match from the word closest to the operator.
func (p *PatternLibrary) resolveTerm(term string, sc *schema.Context) (string, bool) {
	words := strings.Fields(term)
	for len(words) > 0 && termStopwords[words[0]] {
		words = words[1:]
	}

	for i := 0; i < len(words); i++ {
		candidate := strings.Join(words[i:], " ")
		if termStopwords[candidate] {
			continue
		}
		if column, ok := p.resolver.ResolveExact(candidate); ok {
			return column, true
		}
	}

	for i := 0; i < len(words); i++ {
		candidate := strings.Join(words[i:], " ")
		if termStopwords[candidate] {
			continue
		}
		if column, ok := p.resolver.Resolve(candidate); ok {
			return column, true
		}
	}
	return "", false
}

func isNumericColumn(sc *schema.Context, name string) bool {
	col, ok := sc.Column(name)
	return ok && col.InferredType.IsNumeric()
}

// buildCondition turns a table row match into a Condition.
func buildCondition(row conditionPattern, column string, groups []string, sc *schema.Context, source string, scale float64) (Condition, bool) {
	numeric := false
	if col, ok := sc.Column(column); ok {
		numeric = col.InferredType.IsNumeric()
	}

	cond := Condition{
		Column:     column,
		Operator:   row.Operator,
		Source:     source,
		Confidence: row.Confidence * scale,
	}

	switch row.Type {
	case PatternRange:
		cond.ValueRange = [2]string{cleanNumber(groups[1]), cleanNumber(groups[2])}
		cond.Numeric = true

	case PatternInList:
		for _, raw := range inListSplitRe.Split(groups[1], -1) {
			v := cleanValue(raw)
			if v != "" {
				cond.Values = append(cond.Values, v)
			}
		}
		if len(cond.Values) < 2 {
			return Condition{}, false
		}
		cond.Numeric = numeric && allNumeric(cond.Values)

	case PatternLike:
		cond.Value = cleanValue(pickValue(groups[1:]))
		if cond.Value == "" || valueStopwords[cond.Value] {
			return Condition{}, false
		}

	default: // negation, equality
		cond.Value = cleanValue(pickValue(groups[1:]))
		if cond.Value == "" || valueStopwords[cond.Value] {
			return Condition{}, false
		}
		cond.Numeric = numeric && isNumericLiteral(cond.Value)
		if cond.Numeric {
			cond.Value = cleanNumber(cond.Value)
		}
	}

	return cond, true
}

func phraseOperator(phrase string) (Operator, bool) {
	for _, p := range comparisonPhrases {
		if p.Phrase == phrase {
			return p.Operator, true
		}
	}
	return "", false
}

// appendAggregation adds an aggregation unless an identical one exists.
func appendAggregation(aggs []Aggregation, agg Aggregation) []Aggregation {
	for _, existing := range aggs {
		if existing.Func == agg.Func && existing.Column == agg.Column {
			return aggs
		}
	}
	return append(aggs, agg)
}

func aggregationAlias(fn AggregateFunc, column string) string {
	prefix := map[AggregateFunc]string{
		AggSum: "total", AggAvg: "avg", AggCount: "count", AggMax: "max", AggMin: "min",
	}[fn]
	return prefix + "_" + strings.ToLower(column)
}

// pickValue returns the first non-empty capture from alternated value groups.
func pickValue(groups []string) string {
	for _, g := range groups {
		if g != "" {
			return g
		}
	}
	return ""
}

// cleanNumber strips currency symbols, thousands separators, and a trailing
// percent sign. "15,000" -> "15000"; "$1.5" -> "1.5"; "10%" -> "10".
func cleanNumber(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	return s
}

func cleanValue(raw string) string {
	return strings.Trim(strings.TrimSpace(raw), "'")
}

func isNumericLiteral(s string) bool {
	_, err := strconv.ParseFloat(cleanNumber(s), 64)
	return err == nil
}

func allNumeric(values []string) bool {
	for _, v := range values {
		if !isNumericLiteral(v) {
			return false
		}
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// restoreValueCase rewrites lowercased extracted string values back to their
// original casing. Sample values from the schema win ("north" -> "North" if
// the column has seen "North"); otherwise the raw query text is searched.
// Numeric values are left alone.
func restoreValueCase(intent *Intent, rawQuery string, sc *schema.Context) {
	for i := range intent.Conditions {
		cond := &intent.Conditions[i]
		if cond.Numeric {
			continue
		}
		switch cond.Operator {
		case OpIn:
			for j, v := range cond.Values {
				cond.Values[j] = originalCase(v, cond.Column, rawQuery, sc)
			}
		case OpBetween:
			// Range bounds are always numeric.
		default:
			if cond.Value != "" {
				cond.Value = originalCase(cond.Value, cond.Column, rawQuery, sc)
			}
		}
	}
}

func originalCase(value, column, rawQuery string, sc *schema.Context) string {
	if col, ok := sc.Column(column); ok {
		for _, sample := range col.SampleValues {
			if strings.EqualFold(sample, value) {
				return sample
			}
		}
	}
	if idx := strings.Index(strings.ToLower(rawQuery), value); idx >= 0 {
		return rawQuery[idx : idx+len(value)]
	}
	return value
}

// submatches returns the capture-group strings for a FindSubmatchIndex match.
func submatches(s string, m []int) []string {
	groups := make([]string, 0, len(m)/2-1)
	for i := 2; i < len(m); i += 2 {
		if m[i] < 0 {
			groups = append(groups, "")
			continue
		}
		groups = append(groups, s[m[i]:m[i+1]])
	}
	return groups
}

// LexicalCues are the recognized query tokens the confidence scorer rewards.
var LexicalCues = []string{
	"where", "greater", "less", "above", "over", "under", "between",
	"top", "bottom", "total", "average", "count", "sum", "by",
	"sorted", "ordered", "limit", "contains", "equal",
}

// CueCount counts distinct lexical cues present in the query.
func CueCount(query string) int {
	normalized := " " + NormalizeQuery(query) + " "
	count := 0
	for _, cue := range LexicalCues {
		if strings.Contains(normalized, " "+cue+" ") {
			count++
		}
	}
	return count
}

// describeIntent builds the human-readable explanation attached to results.
func describeIntent(intent Intent, table string) string {
	var parts []string

	switch {
	case len(intent.Aggregations) > 0:
		exprs := make([]string, len(intent.Aggregations))
		for i, a := range intent.Aggregations {
			exprs[i] = string(a.Func)
			if a.Column != "" {
				exprs[i] += " of " + a.Column
			}
		}
		parts = append(parts, "computing "+strings.Join(exprs, ", "))
	case len(intent.Columns) > 0:
		parts = append(parts, "selecting "+strings.Join(intent.Columns, ", "))
	default:
		parts = append(parts, "selecting all columns")
	}

	parts = append(parts, "from "+table)

	if len(intent.Conditions) > 0 {
		descs := make([]string, len(intent.Conditions))
		for i, c := range intent.Conditions {
			descs[i] = c.String()
		}
		parts = append(parts, "where "+strings.Join(descs, " and "))
	}
	if intent.Group != nil && len(intent.Group.Columns) > 0 {
		parts = append(parts, "grouped by "+strings.Join(intent.Group.Columns, ", "))
	}
	if intent.Order != nil {
		dir := "ascending"
		if intent.Order.Descending {
			dir = "descending"
		}
		parts = append(parts, fmt.Sprintf("ordered by %s %s", intent.Order.Column, dir))
	}
	if intent.Limit != nil {
		parts = append(parts, fmt.Sprintf("limited to %d rows", intent.Limit.Count))
	}

	return strings.Join(parts, ", ")
}
