package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/audiencelab/segmatch/internal/concept"
	"github.com/audiencelab/segmatch/internal/dedupe"
	"github.com/audiencelab/segmatch/internal/domain"
	"github.com/audiencelab/segmatch/internal/metrics"
	"github.com/audiencelab/segmatch/internal/query"
	"github.com/audiencelab/segmatch/internal/retrieval"
	"github.com/audiencelab/segmatch/internal/scoring"
)

// Config holds search pipeline defaults.
type Config struct {
	TopK            int     // default result count when the request leaves it 0
	DedupeThreshold float64 // global similarity threshold
	MaxPerGroup     int     // representatives kept per base-pattern group
	UseConcepts     bool    // run the concept-aware pipeline
}

// DefaultConfig returns the standard pipeline settings.
func DefaultConfig() Config {
	return Config{TopK: 20, DedupeThreshold: 0.85, MaxPerGroup: 3, UseConcepts: true}
}

// Service runs the full search pipeline: query understanding, candidate
// retrieval over both paths, hybrid scoring, de-duplication, and grouping.
// The catalog snapshot is read-only; services are safe for concurrent use.
type Service struct {
	catalog   CatalogProvider
	keyword   Retriever
	semantic  Retriever // nil when no embedding backend is configured
	processor *query.Processor
	concepts  *concept.Extractor
	scorer    *scoring.Scorer
	cfg       Config
	logger    *zap.Logger
}

// New creates a search service. semantic may be nil; the pipeline then runs
// keyword-only and flags the degradation in every response.
func New(
	cat CatalogProvider,
	keyword, semantic Retriever,
	scorer *scoring.Scorer,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultConfig().TopK
	}
	if cfg.MaxPerGroup <= 0 {
		cfg.MaxPerGroup = DefaultConfig().MaxPerGroup
	}
	if cfg.DedupeThreshold <= 0 {
		cfg.DedupeThreshold = DefaultConfig().DedupeThreshold
	}
	return &Service{
		catalog:   cat,
		keyword:   keyword,
		semantic:  semantic,
		processor: query.New(),
		concepts:  concept.NewExtractor(),
		scorer:    scorer,
		cfg:       cfg,
		logger:    logger,
	}
}

// Request is one search invocation. Ephemeral, never persisted.
type Request struct {
	Query           string
	TopK            int
	Filters         retrieval.Filters
	DisableConcepts bool
}

// Response carries the ranked results plus the query-understanding output.
type Response struct {
	Results        []domain.SearchResult
	Buckets        []Bucket
	Intent         string
	Confidence     float64
	Concepts       []domain.Concept
	Relationships  []domain.ConceptRelationship
	Interpretation string
	Degraded       []string // degraded-mode flags, e.g. semantic path missing
}

// Search executes one query. Empty queries and partial-capability loss
// (missing embeddings, failing retrieval paths) produce degraded results,
// never errors.
func (s *Service) Search(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	raw := strings.TrimSpace(req.Query)
	if raw == "" {
		metrics.SearchRequestsTotal.WithLabelValues("empty").Inc()
		return Response{Results: []domain.SearchResult{}}, nil
	}

	snap := s.catalog.Snapshot()
	if snap == nil || snap.Len() == 0 {
		return Response{
			Results:  []domain.SearchResult{},
			Degraded: []string{"catalog empty"},
		}, nil
	}

	topK := req.TopK
	if topK <= 0 {
		topK = s.cfg.TopK
	}

	resp := Response{Intent: "general"}

	qr := s.processor.Process(raw)
	resp.Intent = qr.Intent
	resp.Confidence = qr.Confidence

	var exp concept.Expansion
	useConcepts := s.cfg.UseConcepts && !req.DisableConcepts
	if useConcepts {
		exp = s.concepts.Expand(raw)
		resp.Concepts = exp.Concepts
		resp.Relationships = exp.Relationships
		resp.Interpretation = exp.Interpretation
	}

	retrievalQuery := qr.ProcessedQuery
	if len(exp.ExpandedTerms) > 0 {
		retrievalQuery += " " + strings.Join(exp.ExpandedTerms, " ")
	}
	if strings.TrimSpace(retrievalQuery) == "" {
		retrievalQuery = raw
	}

	type pair struct{ kw, sem float64 }
	candidates := make(map[string]*pair)

	kwCands, err := s.keyword.Retrieve(ctx, retrievalQuery, topK)
	if err != nil {
		s.logger.Warn("Keyword retrieval failed", zap.Error(err))
		resp.Degraded = append(resp.Degraded, "keyword search unavailable")
	}
	for _, c := range kwCands {
		candidates[c.Code] = &pair{kw: c.Score}
	}

	if s.semantic == nil {
		resp.Degraded = append(resp.Degraded, "semantic search unavailable")
	} else {
		semCands, err := s.semantic.Retrieve(ctx, retrievalQuery, topK)
		if err != nil {
			s.logger.Warn("Semantic retrieval failed", zap.Error(err))
			resp.Degraded = append(resp.Degraded, "semantic search unavailable")
		}
		for _, c := range semCands {
			if p, ok := candidates[c.Code]; ok {
				p.sem = c.Score
			} else {
				candidates[c.Code] = &pair{sem: c.Score}
			}
		}
	}

	// Pattern hints from concept expansion pull in variables the text paths
	// missed; they enter with zero component scores and live off boosts.
	for _, pattern := range exp.VariablePatterns {
		for _, v := range snap.Variables() {
			if strings.Contains(v.Code, pattern) {
				if _, ok := candidates[v.Code]; !ok {
					candidates[v.Code] = &pair{}
				}
			}
		}
	}

	qc := scoring.QueryContext{Raw: raw, Intent: qr.Intent, Numeric: qr.Numeric.Spans}
	results := make([]domain.SearchResult, 0, len(candidates))
	for code, p := range candidates {
		v, ok := snap.Get(code)
		if !ok || !req.Filters.Match(v) {
			continue
		}
		r := domain.SearchResult{Variable: v, KeywordScore: p.kw, SemanticScore: p.sem}
		if useConcepts && len(exp.Concepts) > 0 {
			cr := s.scorer.ScoreWithConcepts(p.kw, p.sem, v, qc, exp.Concepts)
			r.HybridScore = cr.Score
			r.MatchedConcepts = cr.MatchedConcepts
			r.CoverageScore = cr.Coverage
		} else {
			r.HybridScore = s.scorer.Score(p.kw, p.sem, v, qc)
		}
		if r.HybridScore > 0 {
			results = append(results, r)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].HybridScore != results[j].HybridScore {
			return results[i].HybridScore > results[j].HybridScore
		}
		return results[i].Variable.Code < results[j].Variable.Code
	})

	before := len(results)
	results = dedupe.Filter(results, s.cfg.DedupeThreshold, s.cfg.MaxPerGroup)
	metrics.DedupeRemovedTotal.Add(float64(before - len(results)))

	if len(results) > topK {
		results = results[:topK]
	}

	resp.Results = results
	resp.Buckets = buildBuckets(results)

	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	return resp, nil
}
