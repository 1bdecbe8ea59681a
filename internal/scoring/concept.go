package scoring

import (
	"math"
	"strings"

	"github.com/audiencelab/segmatch/internal/domain"
	"github.com/audiencelab/segmatch/internal/numeric"
)

// ConceptResult is the concept-aware scoring outcome for one variable.
type ConceptResult struct {
	Score           float64
	MatchedConcepts []string
	Coverage        float64 // share of important concept types the variable matches
}

// ScoreWithConcepts extends Score with concept coverage: matched concepts
// raise the score by type weight times confidence, additional matched
// concept types earn a multi-concept bonus, and a variable that misses too
// many important concept types is scaled down. Still a pure computation.
func (s *Scorer) ScoreWithConcepts(
	keywordScore, semanticScore float64,
	v domain.Variable, qc QueryContext,
	concepts []domain.Concept,
) ConceptResult {
	base := s.Score(keywordScore, semanticScore, v, qc)
	if len(concepts) == 0 {
		return ConceptResult{Score: base, Coverage: 1}
	}

	var boost float64
	var matched []string
	matchedTypes := make(map[domain.ConceptType]struct{})
	matchedImportant := make(map[domain.ConceptType]struct{})
	queryImportant := make(map[domain.ConceptType]struct{})

	for _, c := range concepts {
		if _, important := s.cfg.ImportantConceptTypes[c.Type]; important {
			queryImportant[c.Type] = struct{}{}
		}
		if !variableMatchesConcept(v, c) {
			continue
		}
		boost += s.cfg.ConceptTypeWeights[c.Type] * c.Confidence
		matched = append(matched, c.Text)
		matchedTypes[c.Type] = struct{}{}
		if _, important := s.cfg.ImportantConceptTypes[c.Type]; important {
			matchedImportant[c.Type] = struct{}{}
		}
	}

	if extra := len(matchedTypes) - 1; extra > 0 {
		boost += s.cfg.MultiConceptBonus * float64(extra)
	}

	score := base * (1 + boost)

	coverage := 1.0
	if len(queryImportant) > 0 {
		coverage = float64(len(matchedImportant)) / float64(len(queryImportant))
		if coverage < s.cfg.CoverageThreshold {
			score *= 0.5 + coverage*0.5
		}
	}

	return ConceptResult{Score: score, MatchedConcepts: matched, Coverage: coverage}
}

// variableMatchesConcept reports whether a variable satisfies a concept:
// by primary text, synonym, or related-term substring — or, for concepts
// carrying a numeric band, by the variable's extracted age or income spans.
func variableMatchesConcept(v domain.Variable, c domain.Concept) bool {
	haystack := strings.ToLower(v.Description + " " + v.EmbeddingText)

	if strings.Contains(haystack, strings.ToLower(c.Text)) {
		return true
	}
	for _, term := range c.Synonyms {
		if strings.Contains(haystack, strings.ToLower(term)) {
			return true
		}
	}
	for _, term := range c.RelatedTerms {
		if strings.Contains(haystack, strings.ToLower(term)) {
			return true
		}
	}

	if c.Type == domain.ConceptDemographic && c.AgeHigh > 0 {
		want := numeric.Span{Kind: numeric.KindAgeRange, Low: float64(c.AgeLow), High: float64(c.AgeHigh)}
		for _, span := range v.NumericSpans[numeric.KindAgeRange] {
			if span.Overlaps(want) {
				return true
			}
		}
	}
	if c.Type == domain.ConceptFinancial && c.IncomeFloor > 0 {
		for _, span := range v.NumericSpans[numeric.KindIncomeRange] {
			if span.Low >= c.IncomeFloor || math.IsInf(span.High, 1) || span.High >= c.IncomeFloor {
				return true
			}
		}
	}
	return false
}
