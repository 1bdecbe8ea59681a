package cluster

import (
	"math"
	"sort"
)

// buildMatrix turns a frame into a standardized feature matrix: numeric
// columns median-imputed, categorical columns one-hot encoded with the first
// level dropped, every feature scaled to zero mean and unit variance.
// Constant features are dropped; ok is false when nothing usable remains.
func buildMatrix(f Frame) (matrix [][]float64, ok bool) {
	if f.N == 0 {
		return nil, false
	}

	var features [][]float64

	for _, col := range f.Numeric {
		features = append(features, imputeMedian(col, f.N))
	}
	for _, col := range f.Categorical {
		features = append(features, oneHot(col, f.N)...)
	}

	kept := features[:0]
	for _, feat := range features {
		if std, mean := stats(feat); std > 0 {
			for i := range feat {
				feat[i] = (feat[i] - mean) / std
			}
			kept = append(kept, feat)
		}
	}
	if len(kept) == 0 {
		return nil, false
	}

	matrix = make([][]float64, f.N)
	for i := range matrix {
		row := make([]float64, len(kept))
		for j, feat := range kept {
			row[j] = feat[i]
		}
		matrix[i] = row
	}
	return matrix, true
}

// imputeMedian fills missing and non-finite values with the column median,
// or 0 when the whole column is missing.
func imputeMedian(col NumericColumn, n int) []float64 {
	present := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if !isMissing(col, i) {
			present = append(present, col.Values[i])
		}
	}
	med := 0.0
	if len(present) > 0 {
		med = median(present)
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if isMissing(col, i) {
			out[i] = med
		} else {
			out[i] = col.Values[i]
		}
	}
	return out
}

func isMissing(col NumericColumn, i int) bool {
	if col.Missing != nil && col.Missing[i] {
		return true
	}
	return i >= len(col.Values) || math.IsNaN(col.Values[i]) || math.IsInf(col.Values[i], 0)
}

// oneHot encodes a categorical column, dropping the first (alphabetical)
// level to avoid collinearity.
func oneHot(col CategoricalColumn, n int) [][]float64 {
	levelSet := make(map[string]struct{})
	for i := 0; i < n && i < len(col.Values); i++ {
		levelSet[col.Values[i]] = struct{}{}
	}
	levels := make([]string, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Strings(levels)
	if len(levels) < 2 {
		return nil
	}

	out := make([][]float64, 0, len(levels)-1)
	for _, level := range levels[1:] {
		feat := make([]float64, n)
		for i := 0; i < n && i < len(col.Values); i++ {
			if col.Values[i] == level {
				feat[i] = 1
			}
		}
		out = append(out, feat)
	}
	return out
}

func stats(xs []float64) (std, mean float64) {
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var variance float64
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= float64(len(xs))
	return math.Sqrt(variance), mean
}

func median(xs []float64) float64 {
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}
