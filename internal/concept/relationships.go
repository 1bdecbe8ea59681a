package concept

import (
	"strings"

	"github.com/audiencelab/segmatch/internal/domain"
)

// Relationship strength constants: an explicit connector phrase between two
// mentions is a stronger signal than mere co-occurrence.
const (
	defaultStrength   = 0.5
	connectorStrength = 0.8
)

// connector maps a phrase to the relationship kind it signals. Checked in
// order; exclusions first so "but not" is never swallowed by "not".
var connectors = []struct {
	phrase string
	kind   domain.RelationKind
}{
	{"but not", domain.RelationExclude},
	{"except", domain.RelationExclude},
	{"who are", domain.RelationWith},
	{"that have", domain.RelationWith},
	{"with", domain.RelationWith},
	{"or", domain.RelationOr},
	{"and", domain.RelationAnd},
}

// Relate identifies pairwise relationships between the concepts mentioned in
// the query. For each ordered pair (by mention position) the text between the
// two mentions is scanned for connector phrases; without one the pair
// defaults to AND at half strength.
func (e *Extractor) Relate(concepts []domain.Concept, query string) []domain.ConceptRelationship {
	if len(concepts) < 2 {
		return nil
	}

	mentions := e.mentions(query)
	// Keep only mentions for the provided concepts, preserving order.
	kept := mentions[:0]
	for _, m := range mentions {
		for _, c := range concepts {
			if c.Text == m.concept.Text {
				kept = append(kept, m)
				break
			}
		}
	}

	lower := strings.ToLower(query)
	var out []domain.ConceptRelationship
	for i := 0; i < len(kept); i++ {
		for j := i + 1; j < len(kept); j++ {
			between := ""
			if kept[i].end <= kept[j].start {
				between = lower[kept[i].end:kept[j].start]
			}
			kind, strength := classifyConnector(between)
			out = append(out, domain.ConceptRelationship{
				From:     kept[i].concept,
				To:       kept[j].concept,
				Kind:     kind,
				Strength: strength,
			})
		}
	}
	return out
}

func classifyConnector(between string) (domain.RelationKind, float64) {
	fields := " " + strings.Join(strings.Fields(between), " ") + " "
	for _, c := range connectors {
		if strings.Contains(fields, " "+c.phrase+" ") {
			return c.kind, connectorStrength
		}
	}
	return domain.RelationAnd, defaultStrength
}
