package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/audiencelab/segmatch/internal/domain"
)

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return m.result, m.err
}

func TestSemanticRetrieve_NearestFirst(t *testing.T) {
	vectors := map[string][]float32{
		"AGE_25_34":     {1, 0, 0},
		"INC_100K_PLUS": {0, 1, 0},
		"VEH_OWN":       {0, 0, 1},
	}
	emb := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.9, 0.1, 0}}}
	r := NewSemanticRetriever(emb, vectors)

	cands, err := r.Retrieve(context.Background(), "young adults", 2)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(cands) == 0 {
		t.Fatal("expected candidates")
	}
	if cands[0].Code != "AGE_25_34" {
		t.Errorf("expected AGE_25_34 first, got %s", cands[0].Code)
	}
}

func TestSemanticRetrieve_NilEmbedder(t *testing.T) {
	r := NewSemanticRetriever(nil, map[string][]float32{"A": {1}})

	if r.Available() {
		t.Error("expected unavailable without an embedder")
	}
	cands, err := r.Retrieve(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("expected graceful degradation, got %v", err)
	}
	if cands != nil {
		t.Errorf("expected no candidates, got %v", cands)
	}
}

func TestSemanticRetrieve_EmbedError(t *testing.T) {
	emb := &mockEmbedder{err: errors.New("provider down")}
	r := NewSemanticRetriever(emb, map[string][]float32{"A": {1, 0}})

	_, err := r.Retrieve(context.Background(), "anything", 5)
	if err == nil {
		t.Fatal("expected error from failing embedder")
	}
}

func TestSemanticRetrieve_DimensionMismatchSkipped(t *testing.T) {
	vectors := map[string][]float32{
		"GOOD": {1, 0, 0},
		"BAD":  {1, 0}, // wrong dimensionality, must be skipped
	}
	emb := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1, 0, 0}}}
	r := NewSemanticRetriever(emb, vectors)

	cands, err := r.Retrieve(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(cands) != 1 || cands[0].Code != "GOOD" {
		t.Errorf("expected only GOOD, got %v", cands)
	}
}

func TestSemanticRetrieve_ZeroVectorQuery(t *testing.T) {
	emb := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0, 0, 0}}}
	r := NewSemanticRetriever(emb, map[string][]float32{"A": {1, 0, 0}})

	cands, err := r.Retrieve(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if cands != nil {
		t.Errorf("expected no candidates for zero query vector, got %v", cands)
	}
}
