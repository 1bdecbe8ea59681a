// Package retrieval implements the two candidate-retrieval paths over the
// variable catalog: term-weighted keyword search and embedding nearest
// neighbors. Both run against the full catalog and return raw similarity
// scores; fusion happens in the scoring layer.
package retrieval

import (
	"context"
	"sort"

	"github.com/audiencelab/segmatch/internal/domain"
)

// overfetch widens each path's cut so fusion still has enough candidates
// after the two lists are merged.
const overfetch = 2

// Candidate is one retrieved variable with the path's raw score.
type Candidate struct {
	Code  string
	Score float64
}

// Retriever is one retrieval path. Implementations must be safe for
// concurrent use after construction.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]Candidate, error)
}

// Filters restricts candidates by exact field match. Zero-value fields are
// ignored. Applied over the retrieved union, never pushed into the index.
type Filters struct {
	Theme    string
	Category string
	Product  string
	Domain   string
}

// Match reports whether a variable passes every set filter.
func (f Filters) Match(v domain.Variable) bool {
	if f.Theme != "" && v.Theme != f.Theme {
		return false
	}
	if f.Category != "" && v.Category != f.Category {
		return false
	}
	if f.Product != "" && v.Product != f.Product {
		return false
	}
	if f.Domain != "" && v.Domain != f.Domain {
		return false
	}
	return true
}

// topCandidates sorts by score descending with code as the deterministic
// tie-break and cuts to limit.
func topCandidates(cands []Candidate, limit int) []Candidate {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		return cands[i].Code < cands[j].Code
	})
	if len(cands) > limit {
		cands = cands[:limit]
	}
	return cands
}
