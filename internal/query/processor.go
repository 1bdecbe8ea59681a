// Package query turns a raw search string into a processed query: numeric
// components stripped out, primary intent classified against the domain
// tables, and residual tokens expanded with domain synonyms.
package query

import (
	"strings"

	"github.com/audiencelab/segmatch/internal/catalog"
	"github.com/audiencelab/segmatch/internal/numeric"
	"github.com/audiencelab/segmatch/internal/taxonomy"
)

// maxSynonymsPerKey bounds expansion so a single token cannot explode the
// processed query.
const maxSynonymsPerKey = 3

// Result is the output of one Process call.
type Result struct {
	Numeric        numeric.Extraction
	TextQuery      string   // residual text after numeric spans are removed
	Intent         string   // primary domain, or taxonomy.GeneralDomain
	Domains        []string // every domain with a keyword overlap, best first
	Confidence     float64  // overlap count / token count
	ExpandedTerms  []string
	ProcessedQuery string // residual tokens then expansions, deduplicated
}

// Processor classifies intent and expands queries against the domain tables.
type Processor struct {
	domains []taxonomy.Domain
}

// New creates a processor over the static domain tables.
func New() *Processor {
	return &Processor{domains: taxonomy.Domains}
}

// Process runs the full pipeline on one raw query. An empty query yields an
// empty result with general intent.
func (p *Processor) Process(raw string) Result {
	extraction := numeric.Extract(raw)
	tokens := catalog.Tokenize(extraction.Residual)

	res := Result{
		Numeric:   extraction,
		TextQuery: extraction.Residual,
		Intent:    taxonomy.GeneralDomain,
	}
	if len(tokens) == 0 {
		return res
	}

	res.Intent, res.Domains, res.Confidence = p.classify(tokens)
	res.ExpandedTerms = p.expand(tokens, res.Domains)
	res.ProcessedQuery = joinUnique(tokens, res.ExpandedTerms)
	return res
}

// classify counts keyword overlap per domain. The primary intent is the
// domain with the highest non-zero count; ties go to declaration order.
func (p *Processor) classify(tokens []string) (string, []string, float64) {
	tokenSet := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		tokenSet[t] = struct{}{}
	}

	best := 0
	intent := taxonomy.GeneralDomain
	var matched []string

	for _, d := range p.domains {
		count := 0
		for _, kw := range d.Keywords {
			if _, ok := tokenSet[kw]; ok {
				count++
			}
		}
		if count == 0 {
			continue
		}
		matched = append(matched, d.Name)
		if count > best {
			best = count
			intent = d.Name
		}
	}

	if best == 0 {
		return taxonomy.GeneralDomain, nil, 0
	}

	// Best domain first, remaining matches keep declaration order.
	ordered := make([]string, 0, len(matched))
	ordered = append(ordered, intent)
	for _, name := range matched {
		if name != intent {
			ordered = append(ordered, name)
		}
	}

	return intent, ordered, float64(best) / float64(len(tokens))
}

// expand adds up to maxSynonymsPerKey synonyms for every domain synonym key
// that literally appears in the residual tokens.
func (p *Processor) expand(tokens []string, domains []string) []string {
	if len(domains) == 0 {
		return nil
	}
	tokenSet := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		tokenSet[t] = struct{}{}
	}

	var out []string
	seen := make(map[string]struct{})
	for _, name := range domains {
		d, ok := taxonomy.ByName(name)
		if !ok {
			continue
		}
		for _, t := range tokens {
			syns, ok := d.Synonyms[t]
			if !ok {
				continue
			}
			added := 0
			for _, s := range syns {
				if added >= maxSynonymsPerKey {
					break
				}
				if _, dup := seen[s]; dup {
					continue
				}
				if _, isToken := tokenSet[s]; isToken {
					continue
				}
				seen[s] = struct{}{}
				out = append(out, s)
				added++
			}
		}
	}
	return out
}

// joinUnique space-joins residual tokens followed by expansion terms,
// dropping duplicates while preserving first-seen order.
func joinUnique(tokens, expansions []string) string {
	seen := make(map[string]struct{}, len(tokens)+len(expansions))
	var parts []string
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		parts = append(parts, t)
	}
	for _, e := range expansions {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		parts = append(parts, e)
	}
	return strings.Join(parts, " ")
}
