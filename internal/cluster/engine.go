package cluster

import (
	"math"
	"math/rand"
)

// Config holds the clustering tunables.
type Config struct {
	MinPct           float64 // lower bound on cluster share of N
	MaxPct           float64 // upper bound on cluster share of N
	MaxClusters      int     // cap on the candidate k search
	RepairIterations int     // bound on constraint-repair passes
	Restarts         int     // independent k-means initializations per k
	Seed             int64   // rng seed, fixed for reproducibility
}

// DefaultConfig returns the standard 5–10% share band.
func DefaultConfig() Config {
	return Config{
		MinPct:           0.05,
		MaxPct:           0.10,
		MaxClusters:      20,
		RepairIterations: 10,
		Restarts:         4,
		Seed:             42,
	}
}

// Result is one fit outcome. Labels has exactly N entries, each a
// non-negative integer, with the distinct labels contiguous from 0. Centers
// holds the coordinate-wise median of each cluster's standardized points.
type Result struct {
	Labels   []int
	Centers  [][]float64
	Sizes    []int
	Fallback bool // single-cluster fallback was taken
}

// Engine is the constrained clustering engine. It keeps no state across Fit
// calls beyond the last result; concurrent Fit calls on one instance must be
// externally serialized.
type Engine struct {
	cfg Config

	// Last fit, kept for callers that inspect the engine after Fit.
	Labels  []int
	Centers [][]float64
}

// NewEngine creates an engine with the given config, falling back to
// DefaultConfig values for unset fields.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.MinPct <= 0 {
		cfg.MinPct = def.MinPct
	}
	if cfg.MaxPct <= 0 {
		cfg.MaxPct = def.MaxPct
	}
	if cfg.MaxClusters <= 0 {
		cfg.MaxClusters = def.MaxClusters
	}
	if cfg.RepairIterations <= 0 {
		cfg.RepairIterations = def.RepairIterations
	}
	if cfg.Restarts <= 0 {
		cfg.Restarts = def.Restarts
	}
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	return &Engine{cfg: cfg}
}

// Fit partitions the frame's records into size-bounded clusters. Valid
// non-empty input never returns an error: when no candidate cluster count
// admits a labeling inside the size band, or the feature space is degenerate,
// the engine reports a single all-covering cluster via Result.Fallback
// instead of failing.
func (e *Engine) Fit(f Frame) Result {
	if f.N == 0 {
		return e.store(Result{Labels: []int{}})
	}
	if f.N == 1 {
		return e.store(Result{Labels: []int{0}, Centers: [][]float64{nil}, Sizes: []int{1}})
	}

	points, ok := buildMatrix(f)
	if !ok {
		return e.store(e.singleCluster(f.N, nil))
	}

	minSize := intMax(1, int(math.Floor(float64(f.N)*e.cfg.MinPct)))
	maxSize := intMax(1, int(math.Floor(float64(f.N)*e.cfg.MaxPct)))

	kLo := (f.N + maxSize - 1) / maxSize // ceil(N / maxSize)
	kHi := f.N / minSize                 // floor(N / minSize)
	if kHi > e.cfg.MaxClusters {
		kHi = e.cfg.MaxClusters
	}
	if kLo < 1 {
		kLo = 1
	}
	if kLo > kHi {
		return e.store(e.singleCluster(f.N, points))
	}

	var best []int
	bestScore := math.Inf(1)
	for k := kLo; k <= kHi; k++ {
		rng := rand.New(rand.NewSource(e.cfg.Seed + int64(k)))
		labels := kMeans(points, k, e.cfg.Restarts, rng)
		labels = repairSizes(points, labels, k, minSize, maxSize, e.cfg.RepairIterations)

		if !sizesWithin(countSizes(labels, k), minSize, maxSize) {
			continue
		}
		if score := medianDeviation(points, labels, k); score < bestScore {
			bestScore = score
			best = append([]int(nil), labels...)
		}
	}

	if best == nil {
		return e.store(e.singleCluster(f.N, points))
	}

	labels, k := relabel(best)
	return e.store(Result{
		Labels:  labels,
		Centers: medianCenters(points, labels, k),
		Sizes:   countSizes(labels, k),
	})
}

func (e *Engine) singleCluster(n int, points [][]float64) Result {
	labels := make([]int, n)
	res := Result{Labels: labels, Sizes: []int{n}, Fallback: true}
	if points != nil {
		res.Centers = medianCenters(points, labels, 1)
	} else {
		res.Centers = [][]float64{nil}
	}
	return res
}

func (e *Engine) store(r Result) Result {
	e.Labels = r.Labels
	e.Centers = r.Centers
	return r
}

// medianDeviation is the labeling quality score: total L1 distance of every
// point to its cluster's coordinate-wise median. Lower is better.
func medianDeviation(points [][]float64, labels []int, k int) float64 {
	centers := medianCenters(points, labels, k)
	var total float64
	for i, p := range points {
		c := centers[labels[i]]
		for d := range p {
			total += math.Abs(p[d] - c[d])
		}
	}
	return total
}

// medianCenters computes the coordinate-wise median of each cluster's
// members in the standardized feature space.
func medianCenters(points [][]float64, labels []int, k int) [][]float64 {
	dims := len(points[0])
	members := make([][]int, k)
	for i, l := range labels {
		members[l] = append(members[l], i)
	}

	centers := make([][]float64, k)
	for c := 0; c < k; c++ {
		centers[c] = make([]float64, dims)
		if len(members[c]) == 0 {
			continue
		}
		col := make([]float64, len(members[c]))
		for d := 0; d < dims; d++ {
			for j, i := range members[c] {
				col[j] = points[i][d]
			}
			centers[c][d] = median(col)
		}
	}
	return centers
}

// relabel renumbers labels so the distinct set is contiguous from 0,
// ordered by first appearance.
func relabel(labels []int) ([]int, int) {
	remap := make(map[int]int)
	out := make([]int, len(labels))
	for i, l := range labels {
		id, ok := remap[l]
		if !ok {
			id = len(remap)
			remap[l] = id
		}
		out[i] = id
	}
	return out, len(remap)
}

func intMax(a, b int) int {
	if a > b {
		return a
	}
	return b
}
