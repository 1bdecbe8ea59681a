package cluster

import "math"

// repairSizes iteratively moves points between clusters until every cluster
// size lies in [minSize, maxSize], bounded by maxIter passes. Undersized
// clusters pull their nearest points from clusters that can spare them;
// oversized clusters push their farthest points to the nearest cluster with
// room. Labels are modified in place and returned.
func repairSizes(points [][]float64, labels []int, k, minSize, maxSize, maxIter int) []int {
	for iter := 0; iter < maxIter; iter++ {
		counts := countSizes(labels, k)
		if sizesWithin(counts, minSize, maxSize) {
			break
		}

		means := clusterMeans(points, labels, k)

		// Grow undersized clusters by pulling nearest outside points whose
		// donor cluster stays at or above the minimum.
		for c := 0; c < k; c++ {
			for counts[c] < minSize {
				donor, point := nearestDonor(points, labels, counts, means[c], c, minSize)
				if point < 0 {
					break
				}
				labels[point] = c
				counts[c]++
				counts[donor]--
			}
		}

		means = clusterMeans(points, labels, k)

		// Shrink oversized clusters by pushing farthest members to the
		// nearest cluster that still has room.
		for c := 0; c < k; c++ {
			for counts[c] > maxSize {
				point := farthestMember(points, labels, means[c], c)
				if point < 0 {
					break
				}
				dest := nearestWithRoom(means, counts, points[point], c, maxSize)
				if dest < 0 {
					break
				}
				labels[point] = dest
				counts[c]--
				counts[dest]++
			}
		}
	}
	return labels
}

func countSizes(labels []int, k int) []int {
	counts := make([]int, k)
	for _, l := range labels {
		counts[l]++
	}
	return counts
}

func sizesWithin(counts []int, minSize, maxSize int) bool {
	for _, c := range counts {
		if c < minSize || c > maxSize {
			return false
		}
	}
	return true
}

func clusterMeans(points [][]float64, labels []int, k int) [][]float64 {
	dims := len(points[0])
	means := make([][]float64, k)
	counts := make([]int, k)
	for c := range means {
		means[c] = make([]float64, dims)
	}
	for i, p := range points {
		counts[labels[i]]++
		for d, v := range p {
			means[labels[i]][d] += v
		}
	}
	for c := range means {
		if counts[c] == 0 {
			continue
		}
		for d := range means[c] {
			means[c][d] /= float64(counts[c])
		}
	}
	return means
}

// nearestDonor finds the point closest to mean among clusters that can give
// one up without dropping below minSize themselves. Oversized donors are
// preferred over merely comfortable ones.
func nearestDonor(points [][]float64, labels []int, counts []int, mean []float64, receiver, minSize int) (donor, point int) {
	point = -1
	donor = -1
	bestDist := math.Inf(1)
	bestOversized := false
	for i, p := range points {
		c := labels[i]
		if c == receiver || counts[c] <= minSize {
			continue
		}
		oversized := counts[c] > minSize+1
		d := euclidean(p, mean)
		// Prefer donors with more slack; among equals take the nearest point.
		if (oversized && !bestOversized) || (oversized == bestOversized && d < bestDist) {
			bestDist = d
			bestOversized = oversized
			point = i
			donor = c
		}
	}
	return donor, point
}

func farthestMember(points [][]float64, labels []int, mean []float64, c int) int {
	best := -1
	bestDist := -1.0
	for i, p := range points {
		if labels[i] != c {
			continue
		}
		if d := euclidean(p, mean); d > bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func nearestWithRoom(means [][]float64, counts []int, point []float64, exclude, maxSize int) int {
	best := -1
	bestDist := math.Inf(1)
	for c := range means {
		if c == exclude || counts[c] >= maxSize {
			continue
		}
		if d := euclidean(point, means[c]); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}
