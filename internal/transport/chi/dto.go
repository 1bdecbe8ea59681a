package chi

import (
	"github.com/audiencelab/segmatch/internal/domain"
	searchuc "github.com/audiencelab/segmatch/internal/usecase/search"
	segmentuc "github.com/audiencelab/segmatch/internal/usecase/segment"
)

// searchRequest is the POST /search body.
type searchRequest struct {
	Query           string        `json:"query"`
	TopK            int           `json:"top_k,omitempty"`
	Filters         searchFilters `json:"filters,omitempty"`
	DisableConcepts bool          `json:"disable_concepts,omitempty"`
}

type searchFilters struct {
	Theme    string `json:"theme,omitempty"`
	Category string `json:"category,omitempty"`
	Product  string `json:"product,omitempty"`
	Domain   string `json:"domain,omitempty"`
}

type searchResponse struct {
	Results        []searchResultItem `json:"results"`
	Buckets        []bucketItem       `json:"buckets,omitempty"`
	Intent         string             `json:"intent,omitempty"`
	Confidence     float64            `json:"confidence,omitempty"`
	Concepts       []conceptItem      `json:"concepts,omitempty"`
	Relationships  []relationshipItem `json:"relationships,omitempty"`
	Interpretation string             `json:"interpretation,omitempty"`
	Degraded       []string           `json:"degraded,omitempty"`
}

type searchResultItem struct {
	Code            string   `json:"code"`
	Description     string   `json:"description"`
	Category        string   `json:"category,omitempty"`
	Theme           string   `json:"theme,omitempty"`
	Product         string   `json:"product,omitempty"`
	Domain          string   `json:"domain,omitempty"`
	KeywordScore    float64  `json:"keyword_score"`
	SemanticScore   float64  `json:"semantic_score"`
	HybridScore     float64  `json:"hybrid_score"`
	MatchedConcepts []string `json:"matched_concepts,omitempty"`
	CoverageScore   float64  `json:"coverage_score,omitempty"`
}

type bucketItem struct {
	Theme   string             `json:"theme,omitempty"`
	Domain  string             `json:"domain,omitempty"`
	Product string             `json:"product,omitempty"`
	Results []searchResultItem `json:"results"`
}

type conceptItem struct {
	Text       string   `json:"text"`
	Type       string   `json:"type"`
	Confidence float64  `json:"confidence"`
	Modifiers  []string `json:"modifiers,omitempty"`
}

type relationshipItem struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Kind     string  `json:"kind"`
	Strength float64 `json:"strength"`
}

// segmentRequest is the POST /segments body.
type segmentRequest struct {
	Codes  []string `json:"codes"`
	MinPct float64  `json:"min_pct,omitempty"`
	MaxPct float64  `json:"max_pct,omitempty"`
}

type segmentResponse struct {
	Labels   []int         `json:"labels"`
	Segments []segmentItem `json:"segments"`
	Fallback bool          `json:"fallback,omitempty"`
}

type segmentItem struct {
	ID      int                `json:"id"`
	Size    int                `json:"size"`
	Share   float64            `json:"share"`
	Medians map[string]float64 `json:"medians,omitempty"`
	Modes   map[string]string  `json:"modes,omitempty"`
}

type variableResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	Theme       string `json:"theme,omitempty"`
	Product     string `json:"product,omitempty"`
	Context     string `json:"context,omitempty"`
	Domain      string `json:"domain,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func resultToDTO(r domain.SearchResult) searchResultItem {
	return searchResultItem{
		Code:            r.Variable.Code,
		Description:     r.Variable.Description,
		Category:        r.Variable.Category,
		Theme:           r.Variable.Theme,
		Product:         r.Variable.Product,
		Domain:          r.Variable.Domain,
		KeywordScore:    r.KeywordScore,
		SemanticScore:   r.SemanticScore,
		HybridScore:     r.HybridScore,
		MatchedConcepts: r.MatchedConcepts,
		CoverageScore:   r.CoverageScore,
	}
}

func searchToDTO(resp searchuc.Response) searchResponse {
	out := searchResponse{
		Results:        make([]searchResultItem, len(resp.Results)),
		Intent:         resp.Intent,
		Confidence:     resp.Confidence,
		Interpretation: resp.Interpretation,
		Degraded:       resp.Degraded,
	}
	for i, r := range resp.Results {
		out.Results[i] = resultToDTO(r)
	}
	for _, b := range resp.Buckets {
		item := bucketItem{Theme: b.Theme, Domain: b.Domain, Product: b.Product}
		for _, r := range b.Results {
			item.Results = append(item.Results, resultToDTO(r))
		}
		out.Buckets = append(out.Buckets, item)
	}
	for _, c := range resp.Concepts {
		out.Concepts = append(out.Concepts, conceptItem{
			Text:       c.Text,
			Type:       string(c.Type),
			Confidence: c.Confidence,
			Modifiers:  c.Modifiers,
		})
	}
	for _, rel := range resp.Relationships {
		out.Relationships = append(out.Relationships, relationshipItem{
			From:     rel.From.Text,
			To:       rel.To.Text,
			Kind:     string(rel.Kind),
			Strength: rel.Strength,
		})
	}
	return out
}

func segmentToDTO(resp segmentuc.Response) segmentResponse {
	out := segmentResponse{
		Labels:   resp.Labels,
		Segments: make([]segmentItem, len(resp.Segments)),
		Fallback: resp.Fallback,
	}
	for i, s := range resp.Segments {
		out.Segments[i] = segmentItem{
			ID:      s.ID,
			Size:    s.Size,
			Share:   s.Share,
			Medians: s.Medians,
			Modes:   s.Modes,
		}
	}
	return out
}
