package translate

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/dataspeak/dataspeak-engine/pkg/schema"
)

// jaccardThreshold is the minimum character-set similarity for a fuzzy match.
const jaccardThreshold = 0.7

// Resolver maps free-text terms to schema columns. It owns the session's
// append-only learned-term cache; the cache is reset whenever the schema
// context changes and guarded for hosts that translate concurrently.
//
// Resolution is best-effort and silently degrading: an unresolvable term
// returns ok=false and the caller drops the associated condition.
type Resolver struct {
	sessionID uuid.UUID
	synonyms  SynonymTable
	logger    *zap.Logger

	mu      sync.RWMutex
	sc      *schema.Context
	learned map[string]string // normalized term -> column name
}

// NewResolver creates a resolver with the seed synonym vocabulary.
func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{
		sessionID: uuid.New(),
		synonyms:  DefaultSynonyms(),
		logger:    logger.Named("resolver"),
		learned:   make(map[string]string),
	}
}

// SessionID identifies this resolver's session in logs and reports.
func (r *Resolver) SessionID() uuid.UUID { return r.sessionID }

// SetSchemaContext swaps the schema and resets the learned cache. Mappings
// learned against one dataset are meaningless against another.
func (r *Resolver) SetSchemaContext(sc *schema.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sc = sc
	r.learned = make(map[string]string)
}

// LearnedCount returns the number of cached term mappings.
func (r *Resolver) LearnedCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.learned)
}

// AddSynonyms extends the session vocabulary for a concept.
func (r *Resolver) AddSynonyms(concept string, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.synonyms.Add(concept, aliases...)
}

// Resolve maps a free-text term to a schema column name.
// The chain, first match wins: exact name match, learned cache, synonym
// scoring, Jaccard character similarity, bidirectional containment.
// Matches found past the exact stage are written into the learned cache.
func (r *Resolver) Resolve(term string) (string, bool) {
	norm := normalizeTerm(term)
	if norm == "" {
		return "", false
	}

	r.mu.RLock()
	sc := r.sc
	r.mu.RUnlock()
	if sc == nil {
		return "", false
	}

	if col, ok := r.exactMatch(sc, norm); ok {
		return col, true
	}

	r.mu.RLock()
	col, ok := r.learned[norm]
	r.mu.RUnlock()
	if ok {
		return col, true
	}

	if col, ok := r.synonymMatch(sc, norm); ok {
		r.learn(norm, col)
		return col, true
	}

	if col, ok := r.similarityMatch(sc, norm); ok {
		r.learn(norm, col)
		return col, true
	}

	if col, ok := r.containmentMatch(sc, norm); ok {
		r.learn(norm, col)
		return col, true
	}

	r.logger.Debug("term unresolved", zap.String("term", term))
	return "", false
}

// ResolveExact runs only the exact-name stage of the chain: the term, its
// underscored form, and its singular form against column names. Nothing is
// learned from an exact hit.
func (r *Resolver) ResolveExact(term string) (string, bool) {
	norm := normalizeTerm(term)
	if norm == "" {
		return "", false
	}

	r.mu.RLock()
	sc := r.sc
	r.mu.RUnlock()
	if sc == nil {
		return "", false
	}

	return r.exactMatch(sc, norm)
}

// learn records a successful non-exact resolution. Append-only: an earlier
// mapping for the same term is never overwritten.
func (r *Resolver) learn(term, column string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.learned[term]; !exists {
		r.learned[term] = column
		r.logger.Debug("learned mapping",
			zap.String("term", term),
			zap.String("column", column))
	}
}

// exactMatch tries the term, its underscored form, and its singular form
// against column names, case-insensitively.
func (r *Resolver) exactMatch(sc *schema.Context, norm string) (string, bool) {
	for _, candidate := range termVariants(norm) {
		if col, ok := sc.Column(candidate); ok {
			return col.Name, true
		}
	}
	return "", false
}

// synonymMatch scores each column by how many vocabulary cues align between
// the term and the column name, picking the best positive score.
func (r *Resolver) synonymMatch(sc *schema.Context, norm string) (string, bool) {
	r.mu.RLock()
	synonyms := r.synonyms
	r.mu.RUnlock()

	bestScore := 0
	bestCol := ""
	for _, col := range sc.Columns() {
		colNorm := normalizeTerm(col.Name)
		score := 0
		for _, aliases := range synonyms {
			termHit := false
			colHit := false
			for _, alias := range aliases {
				if strings.Contains(norm, alias) {
					termHit = true
				}
				if strings.Contains(colNorm, alias) {
					colHit = true
				}
			}
			if termHit && colHit {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestCol = col.Name
		}
	}
	return bestCol, bestScore > 0
}

// similarityMatch compares character sets (Jaccard) against a fixed threshold.
func (r *Resolver) similarityMatch(sc *schema.Context, norm string) (string, bool) {
	bestScore := 0.0
	bestCol := ""
	for _, col := range sc.Columns() {
		score := jaccard(norm, normalizeTerm(col.Name))
		if score > bestScore {
			bestScore = score
			bestCol = col.Name
		}
	}
	if bestScore >= jaccardThreshold {
		return bestCol, true
	}
	return "", false
}

// containmentMatch accepts when either string contains the other.
// Very short terms are excluded to avoid accidental hits.
func (r *Resolver) containmentMatch(sc *schema.Context, norm string) (string, bool) {
	if len(norm) < 3 {
		return "", false
	}
	for _, col := range sc.Columns() {
		colNorm := normalizeTerm(col.Name)
		if strings.Contains(colNorm, norm) || strings.Contains(norm, colNorm) {
			return col.Name, true
		}
	}
	return "", false
}

// normalizeTerm lowercases and trims a term, collapsing internal whitespace.
func normalizeTerm(term string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(term))), " ")
}

// termVariants generates lookup candidates for a normalized term:
// as-is, spaces replaced with underscores, and the singularized form.
func termVariants(norm string) []string {
	variants := []string{norm}

	if underscored := strings.ReplaceAll(norm, " ", "_"); underscored != norm {
		variants = append(variants, underscored)
	}

	singular := inflection.Singular(norm)
	if singular != norm {
		variants = append(variants, singular)
		if underscored := strings.ReplaceAll(singular, " ", "_"); underscored != singular {
			variants = append(variants, underscored)
		}
	}

	return variants
}

// jaccard computes character-set similarity between two strings.
// Spaces and underscores are ignored so naming style does not penalize.
func jaccard(a, b string) float64 {
	setA := charSet(a)
	setB := charSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for ch := range setA {
		if setB[ch] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func charSet(s string) map[rune]bool {
	set := make(map[rune]bool, len(s))
	for _, ch := range s {
		if ch == ' ' || ch == '_' {
			continue
		}
		set[ch] = true
	}
	return set
}
