// Package concept extracts higher-level audience concepts (generation
// cohorts, income bands, lifestyle traits, geography) from free-text queries
// and identifies how they relate to each other.
package concept

import "github.com/audiencelab/segmatch/internal/domain"

// Per-family confidence constants. Fixed, not learned; kept here as named
// tunables so recalibration never touches extraction logic.
const (
	confGeneration = 0.90
	confFinancial  = 0.90
	confBehavioral = 0.85
	confGeographic = 0.85
)

// definition is one detectable concept: trigger terms, expansion vocabulary,
// optional numeric bands, and suggested catalog-code fragments.
type definition struct {
	Name       string
	Type       domain.ConceptType
	Confidence float64
	Terms      []string // alternate names, any substring match triggers
	Traits     []string // characteristic/behavior terms, also trigger
	Synonyms   []string
	Related    []string
	Patterns   []string // catalog-code fragments, retrieval hints only

	AgeLow, AgeHigh int
	IncomeFloor     float64
}

// table lists every known concept. Declaration order fixes extraction order,
// which keeps downstream output deterministic.
var table = []definition{
	{
		Name: "millennials", Type: domain.ConceptDemographic, Confidence: confGeneration,
		Terms:    []string{"millennial", "gen y", "generation y"},
		Traits:   []string{"young professional", "young professionals"},
		Synonyms: []string{"gen y", "generation y"},
		Related:  []string{"young adults", "age 25 to 34", "age 35 to 44"},
		Patterns: []string{"AGE_25_34", "AGE_35_44"},
		AgeLow:   25, AgeHigh: 44,
	},
	{
		Name: "gen z", Type: domain.ConceptDemographic, Confidence: confGeneration,
		Terms:    []string{"gen z", "generation z", "zoomer"},
		Synonyms: []string{"generation z", "zoomers"},
		Related:  []string{"young adults", "students", "age 18 to 24"},
		Patterns: []string{"AGE_18_24"},
		AgeLow:   18, AgeHigh: 24,
	},
	{
		Name: "gen x", Type: domain.ConceptDemographic, Confidence: confGeneration,
		Terms:    []string{"gen x", "generation x"},
		Synonyms: []string{"generation x"},
		Related:  []string{"middle aged", "age 45 to 54"},
		Patterns: []string{"AGE_45_54"},
		AgeLow:   45, AgeHigh: 54,
	},
	{
		Name: "boomers", Type: domain.ConceptDemographic, Confidence: confGeneration,
		Terms:    []string{"boomer", "baby boomer", "baby boomers"},
		Traits:   []string{"retiree", "retirees", "retired"},
		Synonyms: []string{"baby boomers"},
		Related:  []string{"seniors", "age 55 to 64", "age 65 and over"},
		Patterns: []string{"AGE_55_64", "AGE_65_PLUS"},
		AgeLow:   55, AgeHigh: 75,
	},
	{
		Name: "high income", Type: domain.ConceptFinancial, Confidence: confFinancial,
		Terms:       []string{"high income", "affluent", "wealthy", "high earner", "six figure"},
		Synonyms:    []string{"affluent", "wealthy"},
		Related:     []string{"household income", "income $100k", "net worth"},
		Patterns:    []string{"INC_100K", "INC_150K", "WLTH"},
		IncomeFloor: 100000,
	},
	{
		Name: "disposable income", Type: domain.ConceptFinancial, Confidence: confFinancial,
		Terms:       []string{"disposable income", "discretionary income", "discretionary spending"},
		Synonyms:    []string{"discretionary income"},
		Related:     []string{"spending power", "household income"},
		Patterns:    []string{"INC_75K", "SPND"},
		IncomeFloor: 75000,
	},
	{
		Name: "environmentally conscious", Type: domain.ConceptBehavioral, Confidence: confBehavioral,
		Terms:    []string{"environmentally conscious", "eco friendly", "eco-friendly", "green living", "sustainable"},
		Traits:   []string{"recycling", "electric vehicle"},
		Synonyms: []string{"eco friendly", "green"},
		Related:  []string{"sustainability", "organic products"},
		Patterns: []string{"ENV", "GRN"},
	},
	{
		Name: "health conscious", Type: domain.ConceptBehavioral, Confidence: confBehavioral,
		Terms:    []string{"health conscious", "healthy lifestyle", "healthy living"},
		Traits:   []string{"fitness", "organic", "wellness", "gym"},
		Synonyms: []string{"healthy lifestyle"},
		Related:  []string{"exercise", "nutrition"},
		Patterns: []string{"HLT", "FIT"},
	},
	{
		Name: "tech savvy", Type: domain.ConceptBehavioral, Confidence: confBehavioral,
		Terms:    []string{"tech savvy", "tech-savvy", "early adopter", "early adopters"},
		Traits:   []string{"smartphone", "streaming", "online shopping"},
		Synonyms: []string{"early adopters", "digital natives"},
		Related:  []string{"technology", "internet usage"},
		Patterns: []string{"TEC", "DIG"},
	},
	{
		Name: "urban", Type: domain.ConceptGeographic, Confidence: confGeographic,
		Terms:    []string{"urban", "city dweller", "city dwellers", "downtown", "metropolitan"},
		Synonyms: []string{"city", "metropolitan"},
		Related:  []string{"city center", "apartment"},
		Patterns: []string{"URB", "CMA"},
	},
	{
		Name: "suburban", Type: domain.ConceptGeographic, Confidence: confGeographic,
		Terms:    []string{"suburban", "suburb", "suburbs", "commuter"},
		Synonyms: []string{"suburbs"},
		Related:  []string{"single family home", "homeowner"},
		Patterns: []string{"SUB"},
	},
}

// intensityWords qualify a concept when found within two tokens of its
// mention ("very affluent", "extremely health conscious").
var intensityWords = map[string]struct{}{
	"very": {}, "extremely": {}, "high": {}, "low": {},
	"moderate": {}, "strong": {}, "weak": {},
}
