package concept

import (
	"strings"

	"github.com/audiencelab/segmatch/internal/catalog"
	"github.com/audiencelab/segmatch/internal/domain"
)

// Extractor detects concepts and their relationships in queries. Stateless
// beyond the static table; safe for concurrent use.
type Extractor struct {
	defs []definition
}

// NewExtractor creates an extractor over the built-in concept table.
func NewExtractor() *Extractor {
	return &Extractor{defs: table}
}

// mention is a detected concept plus where its trigger term sits in the query.
type mention struct {
	concept domain.Concept
	start   int // byte offset of the matched term in the lowercased query
	end     int
}

// Extract returns every concept mentioned in the query, in mention order.
// A concept is emitted when its name, an alternate term, or a trait term
// appears as a case-insensitive substring.
func (e *Extractor) Extract(query string) []domain.Concept {
	mentions := e.mentions(query)
	out := make([]domain.Concept, 0, len(mentions))
	for _, m := range mentions {
		out = append(out, m.concept)
	}
	return out
}

func (e *Extractor) mentions(query string) []mention {
	lower := strings.ToLower(query)
	if strings.TrimSpace(lower) == "" {
		return nil
	}

	var out []mention
	for _, def := range e.defs {
		start, end, ok := matchDef(lower, def)
		if !ok {
			continue
		}
		c := domain.Concept{
			Text:         def.Name,
			Type:         def.Type,
			Confidence:   def.Confidence,
			Modifiers:    modifiers(lower, start, end),
			Synonyms:     def.Synonyms,
			RelatedTerms: def.Related,
			AgeLow:       def.AgeLow,
			AgeHigh:      def.AgeHigh,
			IncomeFloor:  def.IncomeFloor,
		}
		out = append(out, mention{concept: c, start: start, end: end})
	}

	// Order by position in the query so relationship direction follows the
	// text, with table order breaking ties.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].start < out[j-1].start; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// matchDef finds the earliest trigger term of def in the lowercased query.
func matchDef(lower string, def definition) (int, int, bool) {
	best := -1
	length := 0
	terms := make([]string, 0, 1+len(def.Terms)+len(def.Traits))
	terms = append(terms, def.Name)
	terms = append(terms, def.Terms...)
	terms = append(terms, def.Traits...)
	for _, term := range terms {
		if i := strings.Index(lower, term); i >= 0 && (best < 0 || i < best) {
			best = i
			length = len(term)
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	return best, best + length, true
}

// modifiers collects intensity words within a two-token window on either
// side of the matched span.
func modifiers(lower string, start, end int) []string {
	before := catalog.Tokenize(lower[:start])
	after := catalog.Tokenize(lower[end:])

	var out []string
	lo := len(before) - 2
	if lo < 0 {
		lo = 0
	}
	for _, tok := range before[lo:] {
		if _, ok := intensityWords[tok]; ok {
			out = append(out, tok)
		}
	}
	hi := 2
	if hi > len(after) {
		hi = len(after)
	}
	for _, tok := range after[:hi] {
		if _, ok := intensityWords[tok]; ok {
			out = append(out, tok)
		}
	}
	return out
}
