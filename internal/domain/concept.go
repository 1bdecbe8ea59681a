package domain

// ConceptType classifies an extracted concept.
type ConceptType string

const (
	ConceptDemographic ConceptType = "demographic"
	ConceptFinancial   ConceptType = "financial"
	ConceptBehavioral  ConceptType = "behavioral"
	ConceptGeographic  ConceptType = "geographic"
	ConceptTemporal    ConceptType = "temporal"
	ConceptGeneral     ConceptType = "general"
)

// Concept is a higher-level semantic unit extracted from a query, e.g.
// "millennials" or "high income". Produced fresh per query.
type Concept struct {
	Text         string
	Type         ConceptType
	Confidence   float64 // in (0,1]
	Modifiers    []string
	Synonyms     []string
	RelatedTerms []string

	// Numeric bands for special-cased matching against catalog descriptions.
	// Zero values mean the concept carries no band of that kind.
	AgeLow      int
	AgeHigh     int
	IncomeFloor float64
}

// RelationKind names how two concepts combine in a query.
type RelationKind string

const (
	RelationAnd     RelationKind = "AND"
	RelationOr      RelationKind = "OR"
	RelationWith    RelationKind = "WITH"
	RelationExclude RelationKind = "EXCLUDE"
)

// ConceptRelationship is an ordered concept pair with a connection kind and
// a strength in [0,1]. Derived per query, never persisted.
type ConceptRelationship struct {
	From     Concept
	To       Concept
	Kind     RelationKind
	Strength float64
}
