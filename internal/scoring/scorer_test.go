package scoring

import (
	"testing"

	"github.com/audiencelab/segmatch/internal/domain"
	"github.com/audiencelab/segmatch/internal/numeric"
)

func incomeVariable() domain.Variable {
	return domain.Variable{
		Code:        "INC_100K_PLUS",
		Description: "Household income $100k+",
		Domain:      "financial",
		Prefix:      "INC",
		NumericSpans: numeric.Spans{
			numeric.KindIncomeRange: {{Kind: numeric.KindIncomeRange, Low: 100000, High: 1e18}},
		},
	}
}

func TestScore_Monotonicity(t *testing.T) {
	s := New(Default())
	v := incomeVariable()
	qc := QueryContext{Raw: "high income", Intent: "financial"}

	// Raising either component score never lowers the hybrid score.
	prev := -1.0
	for kw := 0.0; kw <= 1.0; kw += 0.25 {
		got := s.Score(kw, 0.2, v, qc)
		if got < prev {
			t.Fatalf("hybrid score decreased as keyword score rose: %v < %v at kw=%v", got, prev, kw)
		}
		prev = got
	}

	prev = -1.0
	for sem := -1.0; sem <= 1.0; sem += 0.5 {
		got := s.Score(0.3, sem, v, qc)
		if got < prev {
			t.Fatalf("hybrid score decreased as semantic score rose: %v < %v at sem=%v", got, prev, sem)
		}
		prev = got
	}
}

func TestScore_DomainBoostRequiresIntentMatch(t *testing.T) {
	s := New(Default())
	v := incomeVariable()

	matched := s.Score(0.5, 0.5, v, QueryContext{Raw: "earnings", Intent: "financial"})
	unmatched := s.Score(0.5, 0.5, v, QueryContext{Raw: "earnings", Intent: "automotive"})
	if matched <= unmatched {
		t.Errorf("expected domain boost: matched %v <= unmatched %v", matched, unmatched)
	}
}

func TestScore_ExactMatchBoost(t *testing.T) {
	s := New(Default())
	v := incomeVariable()
	qc := QueryContext{Raw: "household income", Intent: "general"}

	boosted := s.Score(0.5, 0.0, v, qc)
	plain := s.Score(0.5, 0.0, v, QueryContext{Raw: "zzz unrelated", Intent: "general"})
	if boosted <= plain {
		t.Errorf("expected exact-match boost: %v <= %v", boosted, plain)
	}
}

func TestScore_NumericAlignmentBonus(t *testing.T) {
	s := New(Default())
	v := incomeVariable()

	withSpan := QueryContext{
		Raw:    "income $100k+",
		Intent: "general",
		Numeric: numeric.Spans{
			numeric.KindIncomeRange: {{Kind: numeric.KindIncomeRange, Low: 100000, High: 150000}},
		},
	}
	withoutSpan := QueryContext{Raw: "income $100k+", Intent: "general"}

	if s.Score(0.5, 0.0, v, withSpan) <= s.Score(0.5, 0.0, v, withoutSpan) {
		t.Error("expected numeric alignment to raise the score")
	}
}

func TestScore_KeywordClamped(t *testing.T) {
	s := New(Default())
	v := domain.Variable{Code: "X", Description: "plain"}
	qc := QueryContext{Raw: "nothing shared", Intent: "general"}

	atCeiling := s.Score(1.0, 0.0, v, qc)
	overCeiling := s.Score(5.0, 0.0, v, qc)
	if atCeiling != overCeiling {
		t.Errorf("keyword score above ceiling must clamp: %v != %v", atCeiling, overCeiling)
	}
}

func TestScoreWithConcepts_MatchAndCoverage(t *testing.T) {
	s := New(Default())
	v := incomeVariable()
	qc := QueryContext{Raw: "millennials with high income", Intent: "financial"}

	concepts := []domain.Concept{
		{Text: "millennials", Type: domain.ConceptDemographic, Confidence: 0.9, AgeLow: 25, AgeHigh: 44},
		{Text: "high income", Type: domain.ConceptFinancial, Confidence: 0.9, IncomeFloor: 100000},
	}

	res := s.ScoreWithConcepts(0.5, 0.5, v, qc, concepts)
	if len(res.MatchedConcepts) != 1 || res.MatchedConcepts[0] != "high income" {
		t.Errorf("expected [high income] matched, got %v", res.MatchedConcepts)
	}
	if res.Coverage != 0.5 {
		t.Errorf("expected coverage 0.5, got %v", res.Coverage)
	}
}

func TestScoreWithConcepts_CoveragePenalty(t *testing.T) {
	s := New(Default())
	qc := QueryContext{Raw: "millennials with high income", Intent: "general"}
	concepts := []domain.Concept{
		{Text: "millennials", Type: domain.ConceptDemographic, Confidence: 0.9, AgeLow: 25, AgeHigh: 44},
		{Text: "high income", Type: domain.ConceptFinancial, Confidence: 0.9, IncomeFloor: 100000},
	}

	// A variable matching neither important concept gets scaled down.
	unrelated := domain.Variable{Code: "PET_OWN", Description: "Dog ownership"}
	res := s.ScoreWithConcepts(0.5, 0.5, unrelated, qc, concepts)
	base := s.Score(0.5, 0.5, unrelated, qc)

	if res.Coverage != 0 {
		t.Errorf("expected coverage 0, got %v", res.Coverage)
	}
	if res.Score >= base {
		t.Errorf("expected coverage penalty below base: %v >= %v", res.Score, base)
	}
}

func TestScoreWithConcepts_NoConcepts(t *testing.T) {
	s := New(Default())
	v := incomeVariable()
	qc := QueryContext{Raw: "income", Intent: "financial"}

	res := s.ScoreWithConcepts(0.5, 0.5, v, qc, nil)
	if res.Score != s.Score(0.5, 0.5, v, qc) {
		t.Errorf("concept-free result must equal plain score")
	}
	if res.Coverage != 1 {
		t.Errorf("expected coverage 1, got %v", res.Coverage)
	}
}
