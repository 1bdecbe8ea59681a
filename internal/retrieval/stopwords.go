package retrieval

// stopwords is the english stopword set stripped before indexing. Kept small
// on purpose: catalog descriptions are terse and over-stripping hurts recall.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {}, "for": {}, "from": {}, "has": {},
	"have": {}, "he": {}, "her": {}, "his": {}, "i": {}, "in": {},
	"is": {}, "it": {}, "its": {}, "not": {}, "of": {}, "on": {},
	"or": {}, "our": {}, "she": {}, "that": {}, "the": {}, "their": {},
	"them": {}, "they": {}, "this": {}, "to": {}, "was": {}, "we": {},
	"were": {}, "who": {}, "will": {}, "with": {}, "you": {}, "your": {},
}

// contentTokens drops stopwords, preserving order for bigram formation.
func contentTokens(tokens []string) []string {
	out := tokens[:0:0]
	for _, t := range tokens {
		if _, ok := stopwords[t]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}
