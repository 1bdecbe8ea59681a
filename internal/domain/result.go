package domain

// SearchResult is a catalog variable with its per-query relevance scores.
// HybridScore is monotonically non-decreasing in both component scores for
// fixed boosts.
type SearchResult struct {
	Variable Variable

	KeywordScore  float64
	SemanticScore float64
	HybridScore   float64

	// Populated only by concept-aware scoring.
	MatchedConcepts []string
	CoverageScore   float64
}
