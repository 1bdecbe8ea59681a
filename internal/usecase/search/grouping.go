package search

import "github.com/audiencelab/segmatch/internal/domain"

// Bucket is one presentation group of final candidates sharing a theme,
// domain, and product.
type Bucket struct {
	Theme   string
	Domain  string
	Product string
	Results []domain.SearchResult
}

// buildBuckets groups ranked results by (theme, domain, product), keeping
// bucket order by first appearance so higher-ranked themes lead.
func buildBuckets(results []domain.SearchResult) []Bucket {
	type key struct{ theme, dom, product string }

	index := make(map[key]int)
	var buckets []Bucket
	for _, r := range results {
		k := key{r.Variable.Theme, r.Variable.Domain, r.Variable.Product}
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, Bucket{
				Theme:   k.theme,
				Domain:  k.dom,
				Product: k.product,
			})
		}
		buckets[i].Results = append(buckets[i].Results, r)
	}
	return buckets
}
