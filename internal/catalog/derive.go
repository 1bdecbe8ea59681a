package catalog

import (
	"strings"
	"unicode"

	"github.com/audiencelab/segmatch/internal/domain"
	"github.com/audiencelab/segmatch/internal/numeric"
	"github.com/audiencelab/segmatch/internal/taxonomy"
)

// derive computes every derived field for one entry. Pure: the same entry
// always produces the same variable.
func derive(e Entry) domain.Variable {
	return domain.Variable{
		Code:          e.Code,
		Description:   e.Description,
		Category:      e.Category,
		Theme:         e.Theme,
		Product:       e.Product,
		Context:       e.Context,
		Domain:        taxonomy.ForCode(e.Code),
		Prefix:        codePrefix(e.Code),
		Keywords:      keywords(e),
		EmbeddingText: embeddingText(e),
		NumericSpans:  numeric.Extract(e.Description).Spans,
	}
}

// codePrefix is the leading alphabetic run of a code: "AGE_25_34" -> "AGE".
func codePrefix(code string) string {
	for i, r := range code {
		if !unicode.IsLetter(r) {
			return strings.ToUpper(code[:i])
		}
	}
	return strings.ToUpper(code)
}

// keywords is the deduplicated token set over description, category and theme.
func keywords(e Entry) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, field := range []string{e.Description, e.Category, e.Theme} {
		for _, tok := range Tokenize(field) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			out = append(out, tok)
		}
	}
	return out
}

// embeddingText is the canonical text a variable is embedded (and compared)
// under: description first, then categorical context.
func embeddingText(e Entry) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{e.Description, e.Category, e.Theme, e.Context} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ". ")
}

// Tokenize lowercases and splits text on non-alphanumeric runs. Digits are
// kept: numeric tokens carry signal for age and income variables.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
