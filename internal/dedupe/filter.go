package dedupe

import (
	"math"
	"sort"
	"strings"

	"github.com/audiencelab/segmatch/internal/domain"
	"github.com/audiencelab/segmatch/internal/numeric"
)

// maxGroupThreshold bounds the intra-group similarity threshold: within a
// base-pattern group the filter is never looser than this, whatever the
// caller-supplied global threshold.
const maxGroupThreshold = 0.75

// emptyPattern is the sentinel base pattern for results with no description.
const emptyPattern = "(no description)"

// Filter removes near-duplicate results. Results are grouped by
// (base pattern, score rounded to one decimal); groups at or below
// maxPerGroup pass through untouched, larger groups are greedily filtered so
// every admitted pair stays below the similarity threshold, keeping at most
// maxPerGroup representatives. Output is re-sorted by score descending.
// Result values are never mutated; bookkeeping lives in side tables.
func Filter(results []domain.SearchResult, threshold float64, maxPerGroup int) []domain.SearchResult {
	if len(results) == 0 || maxPerGroup <= 0 {
		return results
	}

	type groupKey struct {
		pattern string
		bucket  float64
	}

	// Group indices rather than results: keeps results immutable and the
	// original ordering recoverable.
	groups := make(map[groupKey][]int)
	order := make([]groupKey, 0)
	for i, r := range results {
		key := groupKey{
			pattern: basePattern(r.Variable.Description),
			bucket:  math.Round(r.HybridScore*10) / 10,
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	groupThreshold := threshold
	if groupThreshold > maxGroupThreshold {
		groupThreshold = maxGroupThreshold
	}

	kept := make([]int, 0, len(results))
	for _, key := range order {
		members := groups[key]
		if len(members) <= maxPerGroup {
			kept = append(kept, members...)
			continue
		}
		kept = append(kept, filterGroup(results, members, groupThreshold, maxPerGroup)...)
	}

	out := make([]domain.SearchResult, 0, len(kept))
	for _, i := range kept {
		out = append(out, results[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].HybridScore > out[j].HybridScore
	})
	return out
}

// filterGroup greedily admits members of one oversized group. Candidates are
// visited by score descending, then description length descending (prefer
// the more specific entry), then description alphabetical, so filtering is
// deterministic. A candidate is admitted only when it stays dissimilar to
// everything already admitted.
func filterGroup(results []domain.SearchResult, members []int, threshold float64, maxPerGroup int) []int {
	sorted := append([]int(nil), members...)
	sort.Slice(sorted, func(x, y int) bool {
		a, b := results[sorted[x]], results[sorted[y]]
		if a.HybridScore != b.HybridScore {
			return a.HybridScore > b.HybridScore
		}
		da, db := a.Variable.Description, b.Variable.Description
		if len(da) != len(db) {
			return len(da) > len(db)
		}
		return da < db
	})

	admitted := make([]int, 0, maxPerGroup)
	for _, idx := range sorted {
		if len(admitted) >= maxPerGroup {
			break
		}
		desc := results[idx].Variable.Description
		similar := false
		for _, a := range admitted {
			if JaroWinkler(desc, results[a].Variable.Description) >= threshold {
				similar = true
				break
			}
		}
		if !similar {
			admitted = append(admitted, idx)
		}
	}
	return admitted
}

// basePattern derives the grouping key from a description: the text before
// the first " - " separator, otherwise the first three whitespace tokens.
// Number spans are stripped first so "Age 18 to 24 years" and
// "Age 18-24 years" land in the same group regardless of range formatting.
func basePattern(description string) string {
	if description == "" {
		return emptyPattern
	}
	if before, _, found := strings.Cut(description, " - "); found {
		return strings.ToLower(before)
	}
	text := description
	if residual := numeric.Extract(description).Residual; residual != "" {
		text = residual
	}
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) <= 3 {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:3], " ")
}
