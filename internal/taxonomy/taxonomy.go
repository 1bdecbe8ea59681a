// Package taxonomy holds the static domain vocabulary: per-domain code
// prefixes, intent keywords, synonym sets, and score weights. The tables are
// data, not logic — extending the vocabulary never touches extraction or
// scoring code.
package taxonomy

import "strings"

// Domain is one targeting domain definition.
type Domain struct {
	Name     string
	Prefixes []string            // catalog code prefixes owned by the domain
	Keywords []string            // intent-classification vocabulary
	Synonyms map[string][]string // query token -> expansion terms
	Weight   float64             // hybrid score multiplier, > 1 boosts
}

// GeneralDomain is the intent reported when no domain keywords match.
const GeneralDomain = "general"

// Domains lists every known domain. Order matters: intent ties are broken by
// declaration order.
var Domains = []Domain{
	{
		Name:     "automotive",
		Prefixes: []string{"AUTO", "VEH", "CAR", "TRK"},
		Keywords: []string{
			"car", "cars", "vehicle", "vehicles", "auto", "automotive",
			"truck", "suv", "sedan", "dealership", "drive", "driver",
			"lease", "motorcycle",
		},
		Synonyms: map[string][]string{
			"car":     {"vehicle", "auto", "automobile"},
			"vehicle": {"car", "auto", "truck"},
			"truck":   {"pickup", "suv", "vehicle"},
			"lease":   {"finance", "loan", "purchase"},
		},
		Weight: 1.2,
	},
	{
		Name:     "demographic",
		Prefixes: []string{"AGE", "POP", "HH", "GEN", "FAM", "EDU"},
		Keywords: []string{
			"age", "population", "household", "households", "family",
			"families", "gender", "generation", "millennials", "boomers",
			"seniors", "children", "adults", "education", "marital",
		},
		Synonyms: map[string][]string{
			"age":         {"years", "cohort", "generation"},
			"household":   {"family", "home", "residence"},
			"millennials": {"gen y", "young adults", "age 25 to 40"},
			"seniors":     {"elderly", "retirees", "age 65"},
		},
		Weight: 1.15,
	},
	{
		Name:     "financial",
		Prefixes: []string{"INC", "FIN", "WLTH", "EXP", "SPND"},
		Keywords: []string{
			"income", "earnings", "salary", "wealth", "wealthy", "affluent",
			"spending", "savings", "investment", "investments", "banking",
			"credit", "mortgage", "disposable", "budget",
		},
		Synonyms: map[string][]string{
			"income":   {"earnings", "salary", "household income"},
			"wealth":   {"assets", "net worth", "affluence"},
			"spending": {"expenditure", "purchases", "consumption"},
			"savings":  {"deposits", "investments", "reserves"},
		},
		Weight: 1.2,
	},
	{
		Name:     "health",
		Prefixes: []string{"HLT", "MED", "FIT"},
		Keywords: []string{
			"health", "healthy", "medical", "fitness", "wellness",
			"exercise", "diet", "nutrition", "organic", "pharmacy",
			"insurance",
		},
		Synonyms: map[string][]string{
			"health":  {"wellness", "medical", "wellbeing"},
			"fitness": {"exercise", "gym", "active"},
			"diet":    {"nutrition", "organic", "eating"},
		},
		Weight: 1.1,
	},
	{
		Name:     "immigration",
		Prefixes: []string{"IMM", "MIG", "CTZ"},
		Keywords: []string{
			"immigrant", "immigrants", "immigration", "newcomer",
			"newcomers", "citizenship", "foreign", "born", "migration",
			"visa", "refugee",
		},
		Synonyms: map[string][]string{
			"immigrant": {"newcomer", "foreign born", "migrant"},
			"newcomer":  {"immigrant", "recent arrival"},
		},
		Weight: 1.1,
	},
}

// ByName returns the domain definition with the given name.
func ByName(name string) (Domain, bool) {
	for _, d := range Domains {
		if d.Name == name {
			return d, true
		}
	}
	return Domain{}, false
}

// Weight returns the score multiplier for a domain name, 1.0 when unknown.
func Weight(name string) float64 {
	if d, ok := ByName(name); ok {
		return d.Weight
	}
	return 1.0
}

// ForCode classifies a catalog code by its prefix. Returns GeneralDomain when
// no domain owns the prefix.
func ForCode(code string) string {
	upper := strings.ToUpper(code)
	for _, d := range Domains {
		for _, p := range d.Prefixes {
			if strings.HasPrefix(upper, p) {
				return d.Name
			}
		}
	}
	return GeneralDomain
}
