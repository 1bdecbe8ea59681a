package scoring

import (
	"strings"

	"github.com/audiencelab/segmatch/internal/domain"
	"github.com/audiencelab/segmatch/internal/numeric"
	"github.com/audiencelab/segmatch/internal/taxonomy"
)

// QueryContext carries the per-query facts the scorer consults. Built once
// per search and shared across every candidate.
type QueryContext struct {
	Raw     string
	Intent  string
	Numeric numeric.Spans
}

// Scorer computes hybrid scores. Stateless beyond its config; safe for
// concurrent use.
type Scorer struct {
	cfg Config
}

// New creates a scorer with the given configuration.
func New(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score fuses the two component scores for one variable and applies the
// context boosts. Monotonically non-decreasing in both component scores:
// every adjustment is a non-negative multiplier on the fused base.
func (s *Scorer) Score(keywordScore, semanticScore float64, v domain.Variable, qc QueryContext) float64 {
	nk := clamp01(keywordScore / s.cfg.KeywordCeiling)
	ns := clamp01((semanticScore + 1) / 2)

	score := s.cfg.KeywordWeight*nk + s.cfg.SemanticWeight*ns

	if qc.Intent != "" && qc.Intent == v.Domain {
		score *= taxonomy.Weight(v.Domain)
	}
	if isExactMatch(qc.Raw, v) {
		score *= s.cfg.ExactMatchBoost
	}
	if v.Prefix != "" && strings.HasPrefix(strings.ToUpper(qc.Raw), v.Prefix) {
		score *= s.cfg.PrefixMatchBoost
	}
	if bonus := s.numericBonus(qc.Numeric, v.NumericSpans); bonus > 0 {
		score *= 1 + bonus
	}

	return score
}

// isExactMatch reports a case-insensitive equality or containment of the
// query in the variable's code or description.
func isExactMatch(raw string, v domain.Variable) bool {
	q := strings.ToLower(strings.TrimSpace(raw))
	if q == "" {
		return false
	}
	return q == strings.ToLower(v.Code) ||
		strings.Contains(strings.ToLower(v.Description), q) ||
		strings.Contains(strings.ToLower(v.Code), q)
}

// numericBonus grants NumericBonusPerKind for every pattern kind where a
// query span overlaps a description span, capped at NumericBonusCap.
func (s *Scorer) numericBonus(query, variable numeric.Spans) float64 {
	if len(query) == 0 || len(variable) == 0 {
		return 0
	}
	var bonus float64
	for kind, qspans := range query {
		vspans, ok := variable[kind]
		if !ok {
			continue
		}
		if anyOverlap(qspans, vspans) {
			bonus += s.cfg.NumericBonusPerKind
		}
	}
	if bonus > s.cfg.NumericBonusCap {
		bonus = s.cfg.NumericBonusCap
	}
	return bonus
}

func anyOverlap(a, b []numeric.Span) bool {
	for _, x := range a {
		for _, y := range b {
			if x.Overlaps(y) {
				return true
			}
		}
	}
	return false
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
