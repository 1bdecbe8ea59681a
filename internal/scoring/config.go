// Package scoring fuses keyword and semantic similarity into one hybrid
// relevance score, with domain, exact-match, prefix, numeric-alignment, and
// concept-coverage adjustments. Scoring is a pure function of its inputs and
// the configuration constants below.
package scoring

import "github.com/audiencelab/segmatch/internal/domain"

// Config holds every scoring constant. All values are tunables, not
// invariants; Default returns the calibrated set.
type Config struct {
	// Component fusion. Weights should sum to 1.
	KeywordWeight  float64
	SemanticWeight float64

	// KeywordCeiling normalizes raw keyword scores into [0,1]. The keyword
	// path produces cosine similarity over L2-normalized tf-idf vectors, so
	// the natural ceiling is 1.0; kept configurable for other keyword
	// scoring methods whose raw scores are unbounded.
	KeywordCeiling float64

	// Multiplicative boosts, each > 1 when triggered.
	ExactMatchBoost  float64
	PrefixMatchBoost float64

	// Numeric alignment: bonus per overlapping pattern kind, additively
	// capped, applied as score *= (1 + bonus).
	NumericBonusPerKind float64
	NumericBonusCap     float64

	// Concept-aware scoring.
	ConceptTypeWeights    map[domain.ConceptType]float64
	MultiConceptBonus     float64 // per matched concept type beyond the first
	ImportantConceptTypes map[domain.ConceptType]struct{}
	CoverageThreshold     float64 // below this, the coverage penalty applies
}

// Default returns the calibrated scoring configuration.
func Default() Config {
	return Config{
		KeywordWeight:       0.3,
		SemanticWeight:      0.7,
		KeywordCeiling:      1.0,
		ExactMatchBoost:     1.5,
		PrefixMatchBoost:    1.3,
		NumericBonusPerKind: 0.3,
		NumericBonusCap:     0.6,
		ConceptTypeWeights: map[domain.ConceptType]float64{
			domain.ConceptDemographic: 0.30,
			domain.ConceptFinancial:   0.30,
			domain.ConceptBehavioral:  0.25,
			domain.ConceptGeographic:  0.20,
			domain.ConceptTemporal:    0.15,
			domain.ConceptGeneral:     0.10,
		},
		MultiConceptBonus: 0.2,
		ImportantConceptTypes: map[domain.ConceptType]struct{}{
			domain.ConceptDemographic: {},
			domain.ConceptFinancial:   {},
		},
		CoverageThreshold: 0.5,
	}
}
