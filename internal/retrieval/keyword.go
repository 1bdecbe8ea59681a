package retrieval

import (
	"context"
	"math"
	"sort"

	"github.com/audiencelab/segmatch/internal/catalog"
)

// DefaultMaxFeatures caps the indexed vocabulary.
const DefaultMaxFeatures = 5000

// KeywordRetriever scores queries by cosine similarity in a TF-IDF vector
// space over unigrams and bigrams of the variable text. Built once per
// catalog snapshot and immutable afterwards.
type KeywordRetriever struct {
	codes    []string
	vocab    map[string]int
	idf      []float64
	postings [][]posting // term id -> documents carrying the term
}

type posting struct {
	doc    int
	weight float64 // L2-normalized tf-idf
}

// NewKeywordRetriever builds the index over every variable in the snapshot.
// maxFeatures <= 0 falls back to DefaultMaxFeatures.
func NewKeywordRetriever(snap *catalog.Snapshot, maxFeatures int) *KeywordRetriever {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	vars := snap.Variables()

	docTerms := make([][]string, len(vars))
	df := make(map[string]int)
	for i, v := range vars {
		terms := indexTerms(v.Description + " " + v.Category + " " + v.Theme)
		docTerms[i] = terms
		for _, t := range uniqueTerms(terms) {
			df[t]++
		}
	}

	r := &KeywordRetriever{
		codes: make([]string, len(vars)),
		vocab: buildVocab(df, maxFeatures),
	}
	for i, v := range vars {
		r.codes[i] = v.Code
	}

	n := float64(len(vars))
	r.idf = make([]float64, len(r.vocab))
	for term, id := range r.vocab {
		// Smoothed idf, never zero, so rare and common terms both contribute.
		r.idf[id] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	r.postings = make([][]posting, len(r.vocab))
	for doc, terms := range docTerms {
		vec := r.weigh(terms)
		for id, w := range vec {
			r.postings[id] = append(r.postings[id], posting{doc: doc, weight: w})
		}
	}
	return r
}

// Retrieve scores the query against every variable and returns up to
// overfetch*topK candidates with strictly positive cosine similarity.
func (r *KeywordRetriever) Retrieve(_ context.Context, query string, topK int) ([]Candidate, error) {
	qvec := r.weigh(indexTerms(query))
	if len(qvec) == 0 {
		return nil, nil
	}

	scores := make(map[int]float64)
	for id, qw := range qvec {
		for _, p := range r.postings[id] {
			scores[p.doc] += qw * p.weight
		}
	}

	cands := make([]Candidate, 0, len(scores))
	for doc, s := range scores {
		if s > 0 {
			cands = append(cands, Candidate{Code: r.codes[doc], Score: s})
		}
	}
	return topCandidates(cands, overfetch*topK), nil
}

// weigh builds the L2-normalized tf-idf vector for a term bag, keyed by
// vocabulary id. Out-of-vocabulary terms are dropped.
func (r *KeywordRetriever) weigh(terms []string) map[int]float64 {
	counts := make(map[int]float64)
	for _, t := range terms {
		if id, ok := r.vocab[t]; ok {
			counts[id]++
		}
	}
	if len(counts) == 0 {
		return nil
	}
	var norm float64
	for id, tf := range counts {
		w := tf * r.idf[id]
		counts[id] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for id := range counts {
		counts[id] /= norm
	}
	return counts
}

// indexTerms produces the unigram+bigram term bag for a piece of text.
func indexTerms(text string) []string {
	tokens := contentTokens(catalog.Tokenize(text))
	terms := make([]string, 0, 2*len(tokens))
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

func uniqueTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := terms[:0:0]
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// buildVocab keeps the maxFeatures most frequent terms. Ties break
// alphabetically so index construction is deterministic.
func buildVocab(df map[string]int, maxFeatures int) map[string]int {
	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if df[terms[i]] != df[terms[j]] {
			return df[terms[i]] > df[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	// Stable ids: alphabetical over the kept set.
	sort.Strings(terms)
	vocab := make(map[string]int, len(terms))
	for i, t := range terms {
		vocab[t] = i
	}
	return vocab
}
