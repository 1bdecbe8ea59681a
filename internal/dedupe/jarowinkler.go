// Package dedupe collapses near-duplicate search results. Results are
// grouped by a derived base pattern and filtered within each group by
// Jaro-Winkler string similarity, keeping at most a configured number of
// representatives per group.
package dedupe

// Winkler prefix parameters (standard values).
const (
	winklerPrefixCap = 4
	winklerScale     = 0.1
)

// Jaro computes the Jaro similarity of two strings: matching characters
// within a half-length window, discounted by transpositions. Two empty
// strings are identical (1.0); one empty string matches nothing (0.0).
func Jaro(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	window := len(a)
	if len(b) > window {
		window = len(b)
	}
	window = window/2 - 1
	if window < 0 {
		window = 0
	}

	aMatched := make([]bool, len(a))
	bMatched := make([]bool, len(b))
	matches := 0

	for i := 0; i < len(a); i++ {
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + window + 1
		if hi > len(b) {
			hi = len(b)
		}
		for j := lo; j < hi; j++ {
			if bMatched[j] || a[i] != b[j] {
				continue
			}
			aMatched[i] = true
			bMatched[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0
	}

	// Count transpositions over the matched sequences.
	transpositions := 0
	j := 0
	for i := 0; i < len(a); i++ {
		if !aMatched[i] {
			continue
		}
		for !bMatched[j] {
			j++
		}
		if a[i] != b[j] {
			transpositions++
		}
		j++
	}

	m := float64(matches)
	t := float64(transpositions) / 2
	return (m/float64(len(a)) + m/float64(len(b)) + (m-t)/m) / 3
}

// JaroWinkler boosts the Jaro similarity by a common-prefix bonus, with the
// prefix length capped at four characters.
func JaroWinkler(a, b string) float64 {
	j := Jaro(a, b)

	prefix := 0
	for prefix < len(a) && prefix < len(b) && prefix < winklerPrefixCap {
		if a[prefix] != b[prefix] {
			break
		}
		prefix++
	}

	return j + float64(prefix)*winklerScale*(1-j)
}
