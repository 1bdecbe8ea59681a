package segment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/audiencelab/segmatch/internal/cluster"
	"github.com/audiencelab/segmatch/internal/domain"
	"github.com/audiencelab/segmatch/internal/metrics"
)

// Service turns a set of selected variables into size-bounded audience
// segments over the record dataset.
type Service struct {
	records RecordSource
	cfg     cluster.Config
	logger  *zap.Logger
}

// New creates a segmentation service.
func New(records RecordSource, cfg cluster.Config, logger *zap.Logger) *Service {
	return &Service{records: records, cfg: cfg, logger: logger}
}

// Request selects the variables to segment on. MinPct/MaxPct override the
// configured size band when positive.
type Request struct {
	Codes  []string
	MinPct float64
	MaxPct float64
}

// Segment is one cluster profile in raw feature space.
type Segment struct {
	ID      int
	Size    int
	Share   float64
	Medians map[string]float64 // per numeric column, raw values
	Modes   map[string]string  // per categorical column, most frequent value
}

// Response carries the per-record assignment and the segment profiles.
type Response struct {
	Labels   []int
	Segments []Segment
	Fallback bool
}

// Segment partitions the records into clusters on the requested variables.
// Every requested code must be a column of the record dataset.
func (s *Service) Segment(ctx context.Context, req Request) (Response, error) {
	if len(req.Codes) == 0 {
		return Response{}, fmt.Errorf("no variables selected: %w", domain.ErrMissingRecordColumn)
	}

	frame, err := s.records.Fetch(ctx, req.Codes)
	if err != nil {
		return Response{}, fmt.Errorf("fetch records: %w", err)
	}
	for _, code := range req.Codes {
		if !frame.HasColumn(code) {
			return Response{}, fmt.Errorf("variable %q: %w", code, domain.ErrMissingRecordColumn)
		}
	}

	cfg := s.cfg
	if req.MinPct > 0 {
		cfg.MinPct = req.MinPct
	}
	if req.MaxPct > 0 {
		cfg.MaxPct = req.MaxPct
	}
	if cfg.MinPct > cfg.MaxPct {
		return Response{}, fmt.Errorf("min share %.3f exceeds max share %.3f", cfg.MinPct, cfg.MaxPct)
	}

	start := time.Now()
	res := cluster.NewEngine(cfg).Fit(frame)
	metrics.ClusterFitDuration.Observe(time.Since(start).Seconds())
	if res.Fallback {
		metrics.ClusterFallbackTotal.Inc()
		s.logger.Warn("Clustering fell back to a single segment",
			zap.Int("records", frame.N),
			zap.Int("variables", len(req.Codes)))
	}

	return Response{
		Labels:   res.Labels,
		Segments: profiles(frame, res),
		Fallback: res.Fallback,
	}, nil
}

// profiles summarizes each cluster with raw-space numeric medians and
// categorical modes.
func profiles(f cluster.Frame, res cluster.Result) []Segment {
	if f.N == 0 {
		return []Segment{}
	}

	members := make([][]int, len(res.Sizes))
	for i, l := range res.Labels {
		members[l] = append(members[l], i)
	}

	segments := make([]Segment, len(members))
	for id, rows := range members {
		seg := Segment{
			ID:      id,
			Size:    len(rows),
			Share:   float64(len(rows)) / float64(f.N),
			Medians: make(map[string]float64, len(f.Numeric)),
			Modes:   make(map[string]string, len(f.Categorical)),
		}
		for _, col := range f.Numeric {
			vals := make([]float64, 0, len(rows))
			for _, i := range rows {
				if len(col.Missing) > i && col.Missing[i] {
					continue
				}
				vals = append(vals, col.Values[i])
			}
			if len(vals) > 0 {
				sort.Float64s(vals)
				seg.Medians[col.Name] = medianSorted(vals)
			}
		}
		for _, col := range f.Categorical {
			if mode, ok := modal(col.Values, rows); ok {
				seg.Modes[col.Name] = mode
			}
		}
		segments[id] = seg
	}
	return segments
}

func medianSorted(vals []float64) float64 {
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}

// modal returns the most frequent value among the selected rows, preferring
// the lexicographically smaller value on ties.
func modal(values []string, rows []int) (string, bool) {
	counts := make(map[string]int)
	for _, i := range rows {
		if values[i] != "" {
			counts[values[i]]++
		}
	}
	best, bestCount := "", 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best, bestCount > 0
}
