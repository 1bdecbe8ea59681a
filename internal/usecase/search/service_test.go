package search

import (
	"context"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/audiencelab/segmatch/internal/catalog"
	"github.com/audiencelab/segmatch/internal/retrieval"
	"github.com/audiencelab/segmatch/internal/scoring"
)

func testCatalog(t *testing.T) *catalog.Handle {
	t.Helper()
	snap, err := catalog.NewSnapshot([]catalog.Entry{
		{Code: "AGE_25_34", Description: "Age 25 to 34 years", Category: "Age Bands", Theme: "Demographics"},
		{Code: "AGE_65_PLUS", Description: "Age 65 years and over", Category: "Age Bands", Theme: "Demographics"},
		{Code: "INC_100K_PLUS", Description: "Household income $100k+", Category: "Income", Theme: "Financial"},
		{Code: "INC_50K_75K", Description: "Household income $50k to $75k", Category: "Income", Theme: "Financial"},
		{Code: "VEH_OWN", Description: "Vehicle ownership", Category: "Automotive", Theme: "Transport"},
		{Code: "HLT_GYM", Description: "Gym membership", Category: "Fitness", Theme: "Health"},
	})
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return catalog.NewHandle(snap)
}

func testService(t *testing.T, semantic Retriever) *Service {
	t.Helper()
	cat := testCatalog(t)
	kw := retrieval.NewKeywordRetriever(cat.Snapshot(), 0)
	return New(cat, kw, semantic, scoring.New(scoring.Default()), DefaultConfig(), zap.NewNop())
}

func TestSearch_ConceptQueryFindsAgeAndIncome(t *testing.T) {
	s := testService(t, nil)

	resp, err := s.Search(context.Background(), Request{Query: "millennials with high income"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) < 2 {
		t.Fatalf("expected at least 2 results, got %d", len(resp.Results))
	}

	top2 := map[string]bool{
		resp.Results[0].Variable.Code: true,
		resp.Results[1].Variable.Code: true,
	}
	if !top2["AGE_25_34"] || !top2["INC_100K_PLUS"] {
		t.Errorf("expected AGE_25_34 and INC_100K_PLUS in top 2, got %v", top2)
	}
	for _, r := range resp.Results {
		if r.HybridScore <= 0 {
			t.Errorf("result %s has non-positive hybrid score %v", r.Variable.Code, r.HybridScore)
		}
	}
	if len(resp.Concepts) == 0 {
		t.Error("expected extracted concepts on the response")
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	s := testService(t, nil)

	resp, err := s.Search(context.Background(), Request{Query: "   "})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Results == nil {
		t.Fatal("expected empty slice, not nil")
	}
	if len(resp.Results) != 0 {
		t.Errorf("expected no results, got %v", resp.Results)
	}
}

func TestSearch_Deterministic(t *testing.T) {
	s := testService(t, nil)
	req := Request{Query: "household income earnings"}

	a, err := s.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	b, err := s.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !reflect.DeepEqual(a.Results, b.Results) {
		t.Error("identical requests produced different results")
	}
}

func TestSearch_NilSemanticDegrades(t *testing.T) {
	s := testService(t, nil)

	resp, err := s.Search(context.Background(), Request{Query: "vehicle ownership"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	found := false
	for _, d := range resp.Degraded {
		if d == "semantic search unavailable" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected semantic degradation flag, got %v", resp.Degraded)
	}
	if len(resp.Results) == 0 {
		t.Error("keyword-only pipeline should still return results")
	}
}

func TestSearch_EmptyCatalogDegrades(t *testing.T) {
	snap, err := catalog.NewSnapshot(nil)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	cat := catalog.NewHandle(snap)
	kw := retrieval.NewKeywordRetriever(snap, 0)
	s := New(cat, kw, nil, scoring.New(scoring.Default()), DefaultConfig(), zap.NewNop())

	resp, err := s.Search(context.Background(), Request{Query: "anything"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("expected no results from an empty catalog, got %v", resp.Results)
	}
	if len(resp.Degraded) == 0 {
		t.Error("expected a degraded flag for the empty catalog")
	}
}

func TestSearch_FiltersRestrictTheme(t *testing.T) {
	s := testService(t, nil)

	resp, err := s.Search(context.Background(), Request{
		Query:   "income age vehicle",
		Filters: retrieval.Filters{Theme: "Financial"},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, r := range resp.Results {
		if r.Variable.Theme != "Financial" {
			t.Errorf("filter leaked %s with theme %s", r.Variable.Code, r.Variable.Theme)
		}
	}
}

func TestSearch_DisableConcepts(t *testing.T) {
	s := testService(t, nil)

	resp, err := s.Search(context.Background(), Request{
		Query:           "millennials with high income",
		DisableConcepts: true,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Concepts) != 0 {
		t.Errorf("expected no concepts when disabled, got %v", resp.Concepts)
	}
	if resp.Interpretation != "" {
		t.Errorf("expected no interpretation when disabled, got %q", resp.Interpretation)
	}
}

func TestSearch_TopKBoundsResults(t *testing.T) {
	s := testService(t, nil)

	resp, err := s.Search(context.Background(), Request{Query: "household income age years", TopK: 1})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) > 1 {
		t.Errorf("expected at most 1 result, got %d", len(resp.Results))
	}
}
