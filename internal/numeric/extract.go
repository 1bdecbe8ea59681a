// Package numeric extracts structured number patterns (age ranges, income
// ranges, percentages, year ranges, open-ended bounds) out of free text.
package numeric

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies a pattern family.
type Kind string

const (
	KindAgeRange    Kind = "age_range"
	KindIncomeRange Kind = "income_range"
	KindPercentage  Kind = "percentage"
	KindYearRange   Kind = "year_range"
	KindSingleValue Kind = "single_value"
)

// Span is one extracted value. Scalar kinds carry Low == High; open-ended
// income bounds ("$100k+") carry High == +Inf.
type Span struct {
	Kind Kind
	Low  float64
	High float64
}

// Spans maps pattern kind to every non-overlapping match found, in text order.
type Spans map[Kind][]Span

// Extraction is the result of one Extract call.
type Extraction struct {
	Spans    Spans
	Residual string // input with matched spans removed
}

// Overlaps reports whether two spans of the same kind cover intersecting ranges.
func (s Span) Overlaps(o Span) bool {
	return s.Kind == o.Kind && s.Low <= o.High && o.Low <= s.High
}

var (
	ageRangeRe = regexp.MustCompile(`(?i)\b(\d{1,3})\s*(?:to|through|-|–)\s*(\d{1,3})\s*(?:years?|yrs?)(?:\s+old)?\b`)
	incomeRe   = regexp.MustCompile(`(?i)\$\s*(\d+(?:\.\d+)?)(k?)\s*(?:to|through|-|–)\s*\$?\s*(\d+(?:\.\d+)?)(k?)\b`)
	incomeOpen = regexp.MustCompile(`(?i)\$\s*(\d+(?:\.\d+)?)(k?)\s*(?:\+|plus|or more|and over|and above)`)
	percentRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	yearRe     = regexp.MustCompile(`\b(20\d{2})\s*(?:to|through|-|–)\s*(20\d{2})\b`)
	boundRe    = regexp.MustCompile(`(?i)\b(over|under|above|below)\s+\$?\s*(\d+(?:\.\d+)?)(k?)\b`)
	spacesRe   = regexp.MustCompile(`\s+`)
)

// Extract pulls every recognized number pattern out of text. Unmatched text
// yields an empty span map; there are no error conditions. Patterns are
// consumed in precedence order (age, income, year, percentage, bound) so a
// span claimed by one kind is not re-read by a later one.
func Extract(text string) Extraction {
	spans := make(Spans)
	residual := text

	residual = extractPairs(residual, ageRangeRe, KindAgeRange, 1, spans)
	residual = extractIncome(residual, spans)
	residual = extractPairs(residual, yearRe, KindYearRange, 1, spans)
	residual = extractScalars(residual, percentRe, KindPercentage, spans)
	residual = extractBounds(residual, spans)

	return Extraction{Spans: spans, Residual: collapse(residual)}
}

func extractPairs(text string, re *regexp.Regexp, kind Kind, mult float64, spans Spans) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}
	for _, m := range matches {
		low := parseNum(text[m[2]:m[3]]) * mult
		high := parseNum(text[m[4]:m[5]]) * mult
		if low > high {
			low, high = high, low
		}
		spans[kind] = append(spans[kind], Span{Kind: kind, Low: low, High: high})
	}
	return cut(text, matches)
}

func extractIncome(text string, spans Spans) string {
	matches := incomeRe.FindAllStringSubmatchIndex(text, -1)
	for _, m := range matches {
		low := moneyValue(text[m[2]:m[3]], text[m[4]:m[5]])
		high := moneyValue(text[m[6]:m[7]], text[m[8]:m[9]])
		if low > high {
			low, high = high, low
		}
		spans[KindIncomeRange] = append(spans[KindIncomeRange],
			Span{Kind: KindIncomeRange, Low: low, High: high})
	}
	text = cut(text, matches)

	open := incomeOpen.FindAllStringSubmatchIndex(text, -1)
	for _, m := range open {
		low := moneyValue(text[m[2]:m[3]], text[m[4]:m[5]])
		spans[KindIncomeRange] = append(spans[KindIncomeRange],
			Span{Kind: KindIncomeRange, Low: low, High: math.Inf(1)})
	}
	return cut(text, open)
}

func extractScalars(text string, re *regexp.Regexp, kind Kind, spans Spans) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}
	for _, m := range matches {
		v := parseNum(text[m[2]:m[3]])
		spans[kind] = append(spans[kind], Span{Kind: kind, Low: v, High: v})
	}
	return cut(text, matches)
}

func extractBounds(text string, spans Spans) string {
	matches := boundRe.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}
	for _, m := range matches {
		v := moneyValue(text[m[4]:m[5]], text[m[6]:m[7]])
		spans[KindSingleValue] = append(spans[KindSingleValue],
			Span{Kind: KindSingleValue, Low: v, High: v})
	}
	return cut(text, matches)
}

// cut removes matched regions from text, replacing each with a single space.
func cut(text string, matches [][]int) string {
	if len(matches) == 0 {
		return text
	}
	var b strings.Builder
	prev := 0
	for _, m := range matches {
		b.WriteString(text[prev:m[0]])
		b.WriteByte(' ')
		prev = m[1]
	}
	b.WriteString(text[prev:])
	return b.String()
}

func collapse(s string) string {
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}

func parseNum(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

// moneyValue applies the k-suffix multiplier ("$85k" -> 85000).
func moneyValue(num, suffix string) float64 {
	v := parseNum(num)
	if strings.EqualFold(suffix, "k") {
		v *= 1000
	}
	return v
}
