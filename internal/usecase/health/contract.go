package health

import "context"

// CatalogChecker reports whether the variable catalog is loaded.
type CatalogChecker interface {
	Len() int
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger checks embedding cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
