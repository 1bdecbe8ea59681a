package concept

import (
	"fmt"
	"strings"

	"github.com/audiencelab/segmatch/internal/domain"
)

// Expansion is the full query-understanding output: detected concepts, how
// they relate, extra search vocabulary, catalog-code hints, and a short
// human-readable interpretation.
type Expansion struct {
	Concepts         []domain.Concept
	Relationships    []domain.ConceptRelationship
	ExpandedTerms    []string
	VariablePatterns []string // catalog-code fragments, retrieval hints only
	SearchStrategies []string
	Interpretation   string
}

// Expand runs extraction, relationship identification, and term expansion in
// one pass over the query.
func (e *Extractor) Expand(query string) Expansion {
	concepts := e.Extract(query)
	exp := Expansion{
		Concepts:      concepts,
		Relationships: e.Relate(concepts, query),
	}

	seenTerm := make(map[string]struct{})
	seenPattern := make(map[string]struct{})
	seenType := make(map[domain.ConceptType]struct{})

	for _, c := range concepts {
		for _, t := range append(append([]string{}, c.Synonyms...), c.RelatedTerms...) {
			if _, ok := seenTerm[t]; ok {
				continue
			}
			seenTerm[t] = struct{}{}
			exp.ExpandedTerms = append(exp.ExpandedTerms, t)
		}
		for _, p := range patternsFor(c.Text) {
			if _, ok := seenPattern[p]; ok {
				continue
			}
			seenPattern[p] = struct{}{}
			exp.VariablePatterns = append(exp.VariablePatterns, p)
		}
		if _, ok := seenType[c.Type]; !ok {
			seenType[c.Type] = struct{}{}
			exp.SearchStrategies = append(exp.SearchStrategies, strategyFor(c.Type))
		}
	}

	exp.Interpretation = interpret(concepts)
	return exp
}

func patternsFor(name string) []string {
	for _, def := range table {
		if def.Name == name {
			return def.Patterns
		}
	}
	return nil
}

func strategyFor(t domain.ConceptType) string {
	switch t {
	case domain.ConceptDemographic:
		return "match age-band and household variables"
	case domain.ConceptFinancial:
		return "match income and wealth variables"
	case domain.ConceptBehavioral:
		return "match lifestyle and behavior variables"
	case domain.ConceptGeographic:
		return "match geography and settlement variables"
	default:
		return "match by keyword relevance"
	}
}

func interpret(concepts []domain.Concept) string {
	if len(concepts) == 0 {
		return "no audience concepts detected; keyword search only"
	}
	names := make([]string, 0, len(concepts))
	for _, c := range concepts {
		if len(c.Modifiers) > 0 {
			names = append(names, strings.Join(c.Modifiers, " ")+" "+c.Text)
		} else {
			names = append(names, c.Text)
		}
	}
	return fmt.Sprintf("audience defined by %s", strings.Join(names, ", "))
}
