package retrieval

import (
	"context"
	"reflect"
	"testing"

	"github.com/audiencelab/segmatch/internal/catalog"
)

func testSnapshot(t *testing.T) *catalog.Snapshot {
	t.Helper()
	snap, err := catalog.NewSnapshot([]catalog.Entry{
		{Code: "AGE_25_34", Description: "Age 25 to 34 years", Category: "Age Bands", Theme: "Demographics"},
		{Code: "INC_100K_PLUS", Description: "Household income $100k+", Category: "Income", Theme: "Financial"},
		{Code: "VEH_OWN", Description: "Vehicle ownership", Category: "Automotive", Theme: "Transport"},
		{Code: "HLT_GYM", Description: "Gym membership", Category: "Fitness", Theme: "Health"},
	})
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return snap
}

func TestKeywordRetrieve_RanksRelevantFirst(t *testing.T) {
	r := NewKeywordRetriever(testSnapshot(t), 0)

	cands, err := r.Retrieve(context.Background(), "household income", 10)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(cands) == 0 {
		t.Fatal("expected candidates")
	}
	if cands[0].Code != "INC_100K_PLUS" {
		t.Errorf("expected INC_100K_PLUS first, got %s", cands[0].Code)
	}
	for _, c := range cands {
		if c.Score <= 0 {
			t.Errorf("candidate %s has non-positive score %v", c.Code, c.Score)
		}
	}
}

func TestKeywordRetrieve_NoVocabularyOverlap(t *testing.T) {
	r := NewKeywordRetriever(testSnapshot(t), 0)

	cands, err := r.Retrieve(context.Background(), "quantum blockchain", 10)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(cands) != 0 {
		t.Errorf("expected no candidates, got %v", cands)
	}
}

func TestKeywordRetrieve_Deterministic(t *testing.T) {
	snap := testSnapshot(t)
	a := NewKeywordRetriever(snap, 0)
	b := NewKeywordRetriever(snap, 0)

	ca, err := a.Retrieve(context.Background(), "age 25 years", 10)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	cb, err := b.Retrieve(context.Background(), "age 25 years", 10)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if !reflect.DeepEqual(ca, cb) {
		t.Errorf("retrieval not deterministic: %v vs %v", ca, cb)
	}
}

func TestKeywordRetrieve_VocabularyCap(t *testing.T) {
	r := NewKeywordRetriever(testSnapshot(t), 2)
	if len(r.vocab) != 2 {
		t.Errorf("expected vocabulary capped at 2, got %d", len(r.vocab))
	}
}

func TestFilters_Match(t *testing.T) {
	snap := testSnapshot(t)
	v, _ := snap.Get("INC_100K_PLUS")

	cases := []struct {
		name string
		f    Filters
		want bool
	}{
		{"empty", Filters{}, true},
		{"theme match", Filters{Theme: "Financial"}, true},
		{"theme mismatch", Filters{Theme: "Health"}, false},
		{"domain match", Filters{Domain: "financial"}, true},
		{"combined mismatch", Filters{Theme: "Financial", Category: "Age Bands"}, false},
	}
	for _, tc := range cases {
		if got := tc.f.Match(v); got != tc.want {
			t.Errorf("%s: Match = %v, want %v", tc.name, got, tc.want)
		}
	}
}
