package textproc

import (
	"regexp"
	"sort"
	"strings"
)

// conversion is a fixed-ratio rewrite of a quantity into another unit.
type conversion struct {
	unit  string
	ratio float64
}

// unitDef describes one canonical unit: the alternative written forms that
// mean the same unit, and the converted variants emitted at indexing time.
type unitDef struct {
	canonical   string
	synonyms    []string
	conversions []conversion
}

// unitTable is the fixed unit vocabulary. Indexing emits every synonym and
// conversion so a query in any written form matches a document indexed in
// another; search-time extraction only recognizes the patterns.
var unitTable = []unitDef{
	// volume
	{canonical: "ml", synonyms: []string{"밀리리터", "미리리터"}, conversions: []conversion{{"cc", 1}}},
	{canonical: "cc", conversions: []conversion{{"ml", 1}}},
	{canonical: "l", synonyms: []string{"리터"}, conversions: []conversion{{"ml", 1000}, {"cc", 1000}}},
	// mass
	{canonical: "mg", synonyms: []string{"밀리그램"}, conversions: []conversion{{"g", 0.001}}},
	{canonical: "g", synonyms: []string{"그램", "그람"}, conversions: []conversion{{"mg", 1000}, {"kg", 0.001}}},
	{canonical: "kg", synonyms: []string{"킬로그램", "킬로", "키로"}, conversions: []conversion{{"g", 1000}}},
	{canonical: "t", synonyms: []string{"톤"}, conversions: []conversion{{"kg", 1000}}},
	// length
	{canonical: "mm", synonyms: []string{"밀리미터"}, conversions: []conversion{{"cm", 0.1}}},
	{canonical: "cm", synonyms: []string{"센티미터", "센티", "센치"}, conversions: []conversion{{"mm", 10}, {"m", 0.01}}},
	{canonical: "m", synonyms: []string{"미터"}, conversions: []conversion{{"cm", 100}}},
	{canonical: "km", synonyms: []string{"킬로미터"}, conversions: []conversion{{"m", 1000}}},
	{canonical: "inch", synonyms: []string{"인치"}, conversions: []conversion{{"cm", 2.54}}},
	// digital
	{canonical: "kb"},
	{canonical: "mb", synonyms: []string{"메가"}, conversions: []conversion{{"kb", 1024}}},
	{canonical: "gb", synonyms: []string{"기가"}, conversions: []conversion{{"mb", 1024}}},
	{canonical: "tb", synonyms: []string{"테라"}, conversions: []conversion{{"gb", 1024}}},
	// count
	{canonical: "개", synonyms: []string{"ea"}},
	{canonical: "매"},
	{canonical: "장"},
	{canonical: "권"},
	{canonical: "병"},
	{canonical: "팩"},
	{canonical: "캔"},
	{canonical: "롤"},
	{canonical: "세트"},
}

// unitForms maps every written form (canonical and synonym) to its canonical unit.
var unitForms = buildUnitForms()

// Unit-aware regexes shared by the normalizer and the extractor. The
// alternation lists longer forms first so "ml" wins over "m".
var (
	numberSpaceUnitRe *regexp.Regexp // 500 ml  -> joined
	unitThenNumberRe  *regexp.Regexp // 10cm20kg -> separated
	unitTermRe        *regexp.Regexp // <number><unit> extraction
	unitTokenRe       *regexp.Regexp // whole token is <number><unit>
)

func init() {
	alt := unitAlternation()
	numberSpaceUnitRe = regexp.MustCompile(`(\d) (` + alt + `)( |$)`)
	unitThenNumberRe = regexp.MustCompile(`(\d)(` + alt + `)(\d)`)
	unitTermRe = regexp.MustCompile(`(\d+(?:\.\d+)?)(` + alt + `)($|[^\p{L}\p{N}])`)
	unitTokenRe = regexp.MustCompile(`^\d+(?:\.\d+)?(?:` + alt + `)$`)
}

func buildUnitForms() map[string]string {
	forms := make(map[string]string)
	for _, def := range unitTable {
		forms[def.canonical] = def.canonical
		for _, syn := range def.synonyms {
			forms[syn] = def.canonical
		}
	}
	return forms
}

// unitAlternation renders all written forms as a regex alternation, longest
// first, so alternation order never shadows a longer unit with a shorter one.
func unitAlternation() string {
	forms := make([]string, 0, len(unitForms))
	for f := range unitForms {
		forms = append(forms, f)
	}
	sort.Slice(forms, func(i, j int) bool {
		if len(forms[i]) != len(forms[j]) {
			return len(forms[i]) > len(forms[j])
		}
		return forms[i] < forms[j]
	})
	return strings.Join(forms, "|")
}

func conversionsFor(canonical string) []conversion {
	for _, def := range unitTable {
		if def.canonical == canonical {
			return def.conversions
		}
	}
	return nil
}

func synonymsFor(canonical string) []string {
	for _, def := range unitTable {
		if def.canonical == canonical {
			return def.synonyms
		}
	}
	return nil
}
