package domain

import "github.com/audiencelab/segmatch/internal/numeric"

// Variable is one catalog entry. Stored fields come from the catalog source;
// derived fields are pure functions of the stored fields, computed once at
// snapshot build time. Variables are immutable after load.
type Variable struct {
	Code        string
	Description string
	Category    string
	Theme       string
	Product     string
	Context     string

	// Derived at load time.
	Domain        string
	Prefix        string
	Keywords      []string
	EmbeddingText string
	NumericSpans  numeric.Spans
}
