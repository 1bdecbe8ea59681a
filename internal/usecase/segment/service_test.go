package segment

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/audiencelab/segmatch/internal/cluster"
	"github.com/audiencelab/segmatch/internal/domain"
)

type mockRecordSource struct {
	frame cluster.Frame
	err   error
}

func (m *mockRecordSource) Fetch(_ context.Context, _ []string) (cluster.Frame, error) {
	return m.frame, m.err
}

func incomeFrame(n int) cluster.Frame {
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i%10)*1000 + float64(i/10)
	}
	return cluster.Frame{
		N:       n,
		Numeric: []cluster.NumericColumn{{Name: "INC_100K_PLUS", Values: values}},
	}
}

func TestSegment_ProfilesCoverAllRecords(t *testing.T) {
	src := &mockRecordSource{frame: incomeFrame(100)}
	s := New(src, cluster.DefaultConfig(), zap.NewNop())

	resp, err := s.Segment(context.Background(), Request{Codes: []string{"INC_100K_PLUS"}})
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(resp.Labels) != 100 {
		t.Fatalf("expected 100 labels, got %d", len(resp.Labels))
	}

	total := 0
	for _, seg := range resp.Segments {
		total += seg.Size
		if seg.Size == 0 {
			t.Errorf("segment %d is empty", seg.ID)
		}
		if _, ok := seg.Medians["INC_100K_PLUS"]; !ok {
			t.Errorf("segment %d missing median for INC_100K_PLUS", seg.ID)
		}
	}
	if total != 100 {
		t.Errorf("segment sizes sum to %d, want 100", total)
	}
}

func TestSegment_MissingColumn(t *testing.T) {
	src := &mockRecordSource{frame: incomeFrame(10)}
	s := New(src, cluster.DefaultConfig(), zap.NewNop())

	_, err := s.Segment(context.Background(), Request{Codes: []string{"INC_100K_PLUS", "NOPE"}})
	if !errors.Is(err, domain.ErrMissingRecordColumn) {
		t.Errorf("expected ErrMissingRecordColumn, got %v", err)
	}
}

func TestSegment_NoCodes(t *testing.T) {
	s := New(&mockRecordSource{}, cluster.DefaultConfig(), zap.NewNop())

	_, err := s.Segment(context.Background(), Request{})
	if !errors.Is(err, domain.ErrMissingRecordColumn) {
		t.Errorf("expected ErrMissingRecordColumn, got %v", err)
	}
}

func TestSegment_FetchErrorPropagates(t *testing.T) {
	src := &mockRecordSource{err: errors.New("dataset unavailable")}
	s := New(src, cluster.DefaultConfig(), zap.NewNop())

	_, err := s.Segment(context.Background(), Request{Codes: []string{"X"}})
	if err == nil {
		t.Fatal("expected error from failing record source")
	}
}

func TestSegment_ShareOverrideValidated(t *testing.T) {
	src := &mockRecordSource{frame: incomeFrame(100)}
	s := New(src, cluster.DefaultConfig(), zap.NewNop())

	_, err := s.Segment(context.Background(), Request{
		Codes:  []string{"INC_100K_PLUS"},
		MinPct: 0.5,
		MaxPct: 0.2,
	})
	if err == nil {
		t.Fatal("expected error when min share exceeds max share")
	}
}

func TestSegment_ShareOverrideApplied(t *testing.T) {
	src := &mockRecordSource{frame: incomeFrame(100)}
	s := New(src, cluster.DefaultConfig(), zap.NewNop())

	// A wide band accepts a 2-cluster split of 100 records.
	resp, err := s.Segment(context.Background(), Request{
		Codes:  []string{"INC_100K_PLUS"},
		MinPct: 0.02,
		MaxPct: 0.60,
	})
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	for _, seg := range resp.Segments {
		if seg.Share < 0.02 && !resp.Fallback {
			t.Errorf("segment %d share %.3f below requested minimum", seg.ID, seg.Share)
		}
	}
}

func TestSegment_CategoricalModes(t *testing.T) {
	values := make([]string, 60)
	for i := range values {
		values[i] = []string{"urban", "suburban", "rural"}[i%3]
	}
	src := &mockRecordSource{frame: cluster.Frame{
		N:           60,
		Categorical: []cluster.CategoricalColumn{{Name: "SETTLEMENT", Values: values}},
	}}
	s := New(src, cluster.DefaultConfig(), zap.NewNop())

	resp, err := s.Segment(context.Background(), Request{Codes: []string{"SETTLEMENT"}})
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	for _, seg := range resp.Segments {
		mode, ok := seg.Modes["SETTLEMENT"]
		if !ok {
			t.Errorf("segment %d missing mode for SETTLEMENT", seg.ID)
			continue
		}
		if mode != "urban" && mode != "suburban" && mode != "rural" {
			t.Errorf("segment %d has unexpected mode %q", seg.ID, mode)
		}
	}
}
