package dedupe

import (
	"reflect"
	"testing"

	"github.com/audiencelab/segmatch/internal/domain"
)

func result(code, desc string, score float64) domain.SearchResult {
	return domain.SearchResult{
		Variable:    domain.Variable{Code: code, Description: desc},
		HybridScore: score,
	}
}

func codes(results []domain.SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Variable.Code
	}
	return out
}

func TestFilter_RangeFormattingCollapses(t *testing.T) {
	in := []domain.SearchResult{
		result("AGE_18_24_A", "Age 18 to 24 years", 0.90),
		result("AGE_18_24_B", "Age 18-24 years", 0.88),
	}

	out := Filter(in, 0.85, 1)
	if len(out) != 1 {
		t.Fatalf("expected exactly 1 survivor, got %d: %v", len(out), codes(out))
	}
	if out[0].Variable.Code != "AGE_18_24_A" {
		t.Errorf("expected the higher-scored result to survive, got %s", out[0].Variable.Code)
	}
}

func TestFilter_SmallGroupPassesThrough(t *testing.T) {
	in := []domain.SearchResult{
		result("A", "Household income $50k to $75k", 0.9),
		result("B", "Household income $75k to $100k", 0.9),
	}

	out := Filter(in, 0.85, 3)
	if len(out) != 2 {
		t.Fatalf("expected both results kept, got %d", len(out))
	}
}

func TestFilter_GroupCap(t *testing.T) {
	in := []domain.SearchResult{
		result("A", "Population density in region alpha", 0.91),
		result("B", "Population density in region beta", 0.91),
		result("C", "Population density in region gamma", 0.91),
		result("D", "Population density in region delta", 0.91),
		result("E", "Population density in region epsilon", 0.91),
	}

	out := Filter(in, 0.99, 2)
	if len(out) > 2 {
		t.Fatalf("expected at most 2 representatives, got %d", len(out))
	}
}

func TestFilter_ExactCapWithDissimilarMembers(t *testing.T) {
	// Four results in one "income" group: three near-identical dollar bands
	// plus one textual description dissimilar to all of them. With a cap of
	// 2 the filter must keep exactly 2 representatives, not fewer.
	in := []domain.SearchResult{
		result("BAND_A", "Income - $1,000-$1,249 ($52,000-$64,999)", 0.92),
		result("BAND_B", "Income - $1,250-$1,499 ($65,000-$77,999)", 0.91),
		result("NIL", "Income - negative or nil weekly earnings reported", 0.90),
		result("BAND_C", "Income - $1,500-$1,749 ($78,000-$90,999)", 0.89),
	}
	if sim := JaroWinkler(in[0].Variable.Description, in[2].Variable.Description); sim >= 0.75 {
		t.Fatalf("fixture descriptions too similar: %v", sim)
	}

	out := Filter(in, 0.85, 2)
	if len(out) != 2 {
		t.Fatalf("expected exactly 2 survivors, got %d: %v", len(out), codes(out))
	}
	if !reflect.DeepEqual(codes(out), []string{"BAND_A", "NIL"}) {
		t.Errorf("expected [BAND_A NIL], got %v", codes(out))
	}
}

func TestFilter_Idempotent(t *testing.T) {
	in := []domain.SearchResult{
		result("A", "Age 25 to 34 years", 0.95),
		result("B", "Age 25-34 years", 0.94),
		result("C", "Age 25 through 34 years", 0.93),
		result("D", "Household income $100k+", 0.90),
	}

	once := Filter(in, 0.85, 1)
	twice := Filter(once, 0.85, 1)
	if !reflect.DeepEqual(codes(once), codes(twice)) {
		t.Errorf("filter not idempotent: %v vs %v", codes(once), codes(twice))
	}
}

func TestFilter_OutputSortedByScore(t *testing.T) {
	in := []domain.SearchResult{
		result("LOW", "Vehicle ownership", 0.40),
		result("HIGH", "Household income $100k+", 0.95),
		result("MID", "Age 25 to 34 years", 0.70),
	}

	out := Filter(in, 0.85, 3)
	for i := 1; i < len(out); i++ {
		if out[i].HybridScore > out[i-1].HybridScore {
			t.Fatalf("output not sorted by score: %v", codes(out))
		}
	}
}

func TestFilter_InputNotMutated(t *testing.T) {
	in := []domain.SearchResult{
		result("A", "Age 18 to 24 years", 0.90),
		result("B", "Age 18-24 years", 0.88),
	}
	snapshot := append([]domain.SearchResult(nil), in...)

	Filter(in, 0.85, 1)
	if !reflect.DeepEqual(in, snapshot) {
		t.Error("input slice was mutated")
	}
}

func TestFilter_Empty(t *testing.T) {
	if out := Filter(nil, 0.85, 3); len(out) != 0 {
		t.Errorf("expected empty output, got %v", out)
	}
}

func TestBasePattern(t *testing.T) {
	cases := []struct{ desc, want string }{
		{"Immigrants - arrived 2016 to 2021", "immigrants"},
		{"Age 18 to 24 years", "age"},
		{"Age 18-24 years", "age"},
		{"Population density per square km in region", "population density per"},
		{"", "(no description)"},
	}
	for _, tc := range cases {
		if got := basePattern(tc.desc); got != tc.want {
			t.Errorf("basePattern(%q) = %q, want %q", tc.desc, got, tc.want)
		}
	}
}
