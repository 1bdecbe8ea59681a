package search

import (
	"context"

	"github.com/audiencelab/segmatch/internal/catalog"
	"github.com/audiencelab/segmatch/internal/retrieval"
)

// Retriever is one candidate-retrieval path over the catalog.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]retrieval.Candidate, error)
}

// CatalogProvider hands out the current immutable catalog snapshot.
type CatalogProvider interface {
	Snapshot() *catalog.Snapshot
}
