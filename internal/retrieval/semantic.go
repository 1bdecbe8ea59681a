package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/audiencelab/segmatch/internal/domain"
)

// SemanticRetriever scores queries by cosine similarity against precomputed
// variable embeddings. Catalog vectors are L2-normalized at construction so
// scoring is a plain dot product. A retriever without an embedder or without
// vectors yields empty results, never an error: the system degrades to
// keyword-only recall.
type SemanticRetriever struct {
	embedder domain.Embedder
	codes    []string
	vectors  [][]float32
}

// NewSemanticRetriever builds the retriever from a code-to-vector map.
// embedder may be nil. Codes are ordered for deterministic iteration.
func NewSemanticRetriever(embedder domain.Embedder, vectors map[string][]float32) *SemanticRetriever {
	codes := make([]string, 0, len(vectors))
	for code := range vectors {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	r := &SemanticRetriever{
		embedder: embedder,
		codes:    codes,
		vectors:  make([][]float32, len(codes)),
	}
	for i, code := range codes {
		r.vectors[i] = normalize(vectors[code])
	}
	return r
}

// Available reports whether the semantic path can produce results.
func (r *SemanticRetriever) Available() bool {
	return r != nil && r.embedder != nil && len(r.vectors) > 0
}

// Retrieve embeds the query and returns the overfetch*topK nearest catalog
// vectors. Without a backend it returns an empty set.
func (r *SemanticRetriever) Retrieve(ctx context.Context, query string, topK int) ([]Candidate, error) {
	if !r.Available() {
		return nil, nil
	}

	res, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	qvec := normalize(res.Embedding)
	if len(qvec) == 0 {
		return nil, nil
	}

	cands := make([]Candidate, 0, len(r.codes))
	for i, vec := range r.vectors {
		if len(vec) != len(qvec) {
			continue // dimension mismatch, skip rather than fail
		}
		cands = append(cands, Candidate{Code: r.codes[i], Score: dot(qvec, vec)})
	}
	return topCandidates(cands, overfetch*topK), nil
}

func normalize(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return nil
	}
	norm = math.Sqrt(norm)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}
