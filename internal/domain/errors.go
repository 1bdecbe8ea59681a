package domain

import "errors"

var (
	// ErrVariableNotFound signals a catalog code with no entry.
	ErrVariableNotFound = errors.New("variable not found")
	// ErrDuplicateCode signals a catalog snapshot with a repeated variable code.
	ErrDuplicateCode = errors.New("duplicate variable code")
	// ErrEmptyCatalog signals a search against an unloaded catalog.
	ErrEmptyCatalog = errors.New("catalog is empty")
	// ErrSemanticUnavailable signals that no embedding backend is configured.
	// Callers degrade to keyword-only search; this never aborts a search.
	ErrSemanticUnavailable = errors.New("semantic search unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrMissingRecordColumn signals a record set lacking a requested variable
	// column. Structural input error, propagated to the caller.
	ErrMissingRecordColumn = errors.New("missing record column")
)
