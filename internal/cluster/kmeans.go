package cluster

import (
	"math"
	"math/rand"
)

const kmeansMaxIterations = 50

// kMeans clusters points into k groups, running `restarts` independent
// initializations and keeping the labeling with the lowest inertia. The rng
// is caller-supplied so fits are reproducible.
func kMeans(points [][]float64, k, restarts int, rng *rand.Rand) []int {
	if k <= 1 || len(points) <= k {
		labels := make([]int, len(points))
		for i := range labels {
			labels[i] = i % k
		}
		return labels
	}

	var best []int
	bestInertia := math.Inf(1)
	for r := 0; r < restarts; r++ {
		labels, inertia := kMeansOnce(points, k, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			best = labels
		}
	}
	return best
}

func kMeansOnce(points [][]float64, k int, rng *rand.Rand) ([]int, float64) {
	centers := seedPlusPlus(points, k, rng)
	labels := make([]int, len(points))

	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		for i, p := range points {
			nearest := nearestCenter(p, centers)
			if labels[i] != nearest {
				labels[i] = nearest
				changed = true
			}
		}

		counts := make([]int, k)
		dims := len(points[0])
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, p := range points {
			counts[labels[i]]++
			for d, v := range p {
				sums[labels[i]][d] += v
			}
		}
		for c := range centers {
			if counts[c] == 0 {
				// Reseed an empty cluster at the point farthest from its center.
				centers[c] = append([]float64(nil), points[farthestPoint(points, labels, centers)]...)
				continue
			}
			for d := range centers[c] {
				centers[c][d] = sums[c][d] / float64(counts[c])
			}
		}

		if !changed {
			break
		}
	}

	var inertia float64
	for i, p := range points {
		inertia += sqDist(p, centers[labels[i]])
	}
	return labels, inertia
}

// seedPlusPlus picks initial centers k-means++ style: each next center is
// sampled proportionally to squared distance from the nearest chosen one.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	first := rng.Intn(len(points))
	centers = append(centers, append([]float64(nil), points[first]...))

	dists := make([]float64, len(points))
	for len(centers) < k {
		var total float64
		for i, p := range points {
			d := sqDist(p, centers[0])
			for _, c := range centers[1:] {
				if dd := sqDist(p, c); dd < d {
					d = dd
				}
			}
			dists[i] = d
			total += d
		}

		next := 0
		if total > 0 {
			target := rng.Float64() * total
			var acc float64
			for i, d := range dists {
				acc += d
				if acc >= target {
					next = i
					break
				}
			}
		} else {
			next = rng.Intn(len(points))
		}
		centers = append(centers, append([]float64(nil), points[next]...))
	}
	return centers
}

func nearestCenter(p []float64, centers [][]float64) int {
	best := 0
	bestDist := sqDist(p, centers[0])
	for c := 1; c < len(centers); c++ {
		if d := sqDist(p, centers[c]); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func farthestPoint(points [][]float64, labels []int, centers [][]float64) int {
	best := 0
	bestDist := -1.0
	for i, p := range points {
		if d := sqDist(p, centers[labels[i]]); d > bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func euclidean(a, b []float64) float64 {
	return math.Sqrt(sqDist(a, b))
}
