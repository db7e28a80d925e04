package textproc

import (
	"strconv"
	"strings"
)

// Extractor recognizes unit and model-code terms in product text.
//
// The indexing variant augments every unit match with converted quantities and
// unit synonyms so that any written form of the same physical quantity
// matches at query time. The search variant returns only the literal matches,
// because the indexed side already carries all variants.
type Extractor struct {
	augment bool
}

// NewIndexingExtractor creates the augmenting extractor used at indexing time.
func NewIndexingExtractor() *Extractor { return &Extractor{augment: true} }

// NewSearchExtractor creates the literal extractor used at query time.
func NewSearchExtractor() *Extractor { return &Extractor{} }

// Units extracts <number><unit> terms from text. The text is normalized
// first, so extraction is reproducible between indexing and querying.
func (e *Extractor) Units(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	add := func(term string) {
		if term != "" && !seen[term] {
			seen[term] = true
			out = append(out, term)
		}
	}

	for _, m := range unitTermRe.FindAllStringSubmatch(normalized, -1) {
		num, form := m[1], m[2]
		add(num + form)
		if !e.augment {
			continue
		}

		canonical := unitForms[form]
		add(num + canonical)
		for _, syn := range synonymsFor(canonical) {
			add(num + syn)
		}

		value, err := strconv.ParseFloat(num, 64)
		if err != nil {
			continue
		}
		for _, conv := range conversionsFor(canonical) {
			add(formatQuantity(value*conv.ratio) + conv.unit)
		}
	}
	return out
}

// formatQuantity renders a converted value without a trailing fraction:
// 1000 -> "1000", 0.5 -> "0.5".
func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RemoveTerms strips every occurrence of the given terms from a normalized
// query and re-collapses whitespace. Used to keep extracted unit/model tokens
// away from the morphological analyzer.
func RemoveTerms(normalized string, terms []string) string {
	s := normalized
	for _, term := range terms {
		s = strings.ReplaceAll(s, term, " ")
	}
	s = wsRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
