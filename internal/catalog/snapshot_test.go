package catalog

import (
	"errors"
	"reflect"
	"testing"

	"github.com/audiencelab/segmatch/internal/domain"
	"github.com/audiencelab/segmatch/internal/numeric"
)

func TestNewSnapshot_DerivesFields(t *testing.T) {
	snap, err := NewSnapshot([]Entry{
		{
			Code:        "AGE_25_34",
			Description: "Age 25 to 34 years",
			Category:    "Age Bands",
			Theme:       "Demographics",
		},
	})
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}

	v, ok := snap.Get("AGE_25_34")
	if !ok {
		t.Fatal("expected variable AGE_25_34")
	}
	if v.Domain != "demographic" {
		t.Errorf("expected domain demographic, got %q", v.Domain)
	}
	if v.Prefix != "AGE" {
		t.Errorf("expected prefix AGE, got %q", v.Prefix)
	}
	spans := v.NumericSpans[numeric.KindAgeRange]
	if len(spans) != 1 || spans[0].Low != 25 || spans[0].High != 34 {
		t.Errorf("unexpected age spans %v", spans)
	}
	if v.EmbeddingText != "Age 25 to 34 years. Age Bands. Demographics" {
		t.Errorf("unexpected embedding text %q", v.EmbeddingText)
	}
}

func TestNewSnapshot_DuplicateCode(t *testing.T) {
	_, err := NewSnapshot([]Entry{
		{Code: "INC_100K", Description: "Income $100k+"},
		{Code: "INC_100K", Description: "Income $100k and over"},
	})
	if !errors.Is(err, domain.ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}
}

func TestNewSnapshot_EmptyCode(t *testing.T) {
	_, err := NewSnapshot([]Entry{{Description: "no code"}})
	if err == nil {
		t.Fatal("expected error for empty code")
	}
}

func TestHandle_Swap(t *testing.T) {
	first, err := NewSnapshot([]Entry{{Code: "A", Description: "first"}})
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	second, err := NewSnapshot([]Entry{
		{Code: "A", Description: "first"},
		{Code: "B", Description: "second"},
	})
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}

	h := NewHandle(first)
	if h.Len() != 1 {
		t.Fatalf("expected 1 variable, got %d", h.Len())
	}

	held := h.Snapshot()
	h.Swap(second)

	if h.Len() != 2 {
		t.Errorf("expected 2 variables after swap, got %d", h.Len())
	}
	if held.Len() != 1 {
		t.Errorf("held snapshot changed under reader: %d variables", held.Len())
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Age 25-34, household income!")
	want := []string{"age", "25", "34", "household", "income"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestCodePrefix(t *testing.T) {
	cases := []struct{ code, want string }{
		{"AGE_25_34", "AGE"},
		{"inc100k", "INC"},
		{"WLTH", "WLTH"},
		{"123", ""},
	}
	for _, tc := range cases {
		if got := codePrefix(tc.code); got != tc.want {
			t.Errorf("codePrefix(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}
