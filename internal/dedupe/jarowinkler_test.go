package dedupe

import (
	"math"
	"testing"
)

func TestJaro_Boundaries(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{"both empty", "", "", 1.0},
		{"left empty", "", "abc", 0.0},
		{"right empty", "abc", "", 0.0},
		{"identical", "income", "income", 1.0},
		{"no overlap", "abc", "xyz", 0.0},
	}
	for _, tc := range cases {
		if got := Jaro(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: Jaro(%q, %q) = %v, want %v", tc.name, tc.a, tc.b, got, tc.want)
		}
	}
}

func TestJaroWinkler_KnownValue(t *testing.T) {
	got := JaroWinkler("MARTHA", "MARHTA")
	want := 0.9611
	if math.Abs(got-want) > 0.001 {
		t.Errorf("JaroWinkler(MARTHA, MARHTA) = %v, want %v", got, want)
	}
}

func TestJaroWinkler_PrefixCapped(t *testing.T) {
	// Long shared prefix must not push similarity past the 4-char cap.
	long := JaroWinkler("abcdefgh", "abcdefxy")
	longer := JaroWinkler("abcdeghi", "abcdegxy")
	if long > 1.0 || longer > 1.0 {
		t.Errorf("similarity exceeded 1.0: %v, %v", long, longer)
	}
}

func TestJaroWinkler_Symmetric(t *testing.T) {
	a, b := "Age 18 to 24 years", "Age 18-24 years"
	if JaroWinkler(a, b) != JaroWinkler(b, a) {
		t.Errorf("JaroWinkler not symmetric for %q / %q", a, b)
	}
}

func TestJaroWinkler_SimilarDescriptions(t *testing.T) {
	got := JaroWinkler("Age 18 to 24 years", "Age 18-24 years")
	if got < 0.75 {
		t.Errorf("expected near-duplicate similarity >= 0.75, got %v", got)
	}
}
