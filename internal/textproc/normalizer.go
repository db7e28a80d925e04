package textproc

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalization regexes. Unit-aware patterns are built in units.go from the
// unit table so that the same token set drives joining, splitting and
// extraction.
var (
	// A whole thousand-separated number: a leading group of at most three
	// digits, then comma-joined groups of exactly three. RE2 has no
	// lookaround, so the digit boundaries on both sides are captured and
	// restored. "1,2" and "1234,567" never match.
	thousandSepRe = regexp.MustCompile(`(^|[^\d])(\d{1,3}(?:,\d{3})+)([^\d]|$)`)

	// Everything except letters, digits, whitespace and the semantically
	// meaningful . , - / + & characters. Commas that survive step 1 are not
	// thousand separators and stay as written.
	stripRe = regexp.MustCompile(`[^\p{L}\p{N}\s.,/+&-]`)

	wsRe = regexp.MustCompile(`\s+`)

	// Bare x used as a multiplication sign between two numbers (10x20x30cm).
	multSignRe = regexp.MustCompile(`(\d)x(\d)`)
)

// Normalize applies the deterministic normalization shared by indexing and
// querying: thousand-separator collapse, character stripping, whitespace
// collapse, lowercasing, NFC composition and unit-token shaping.
// Blank input yields an empty string; Normalize never fails.
func Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	s := collapseThousandSeparators(text)
	s = stripRe.ReplaceAllString(s, " ")
	s = wsRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = norm.NFC.String(s)

	s = replaceToFixpoint(multSignRe, s, "$1 x $2")
	// 500 ml -> 500ml: keep <number><unit> atomic for the extractor.
	s = replaceToFixpoint(numberSpaceUnitRe, s, "$1$2$3")
	// 10cm20kg -> 10cm 20kg: break runs of unit tokens apart.
	s = replaceToFixpoint(unitThenNumberRe, s, "$1$2 $3")

	return s
}

// collapseThousandSeparators strips the commas inside whole thousand-separated
// numbers, repeatedly: the consumed right boundary of one match can hide the
// left boundary of the next, so a single pass may miss adjacent numbers.
func collapseThousandSeparators(s string) string {
	for {
		next := thousandSepRe.ReplaceAllStringFunc(s, func(m string) string {
			sub := thousandSepRe.FindStringSubmatch(m)
			return sub[1] + strings.ReplaceAll(sub[2], ",", "") + sub[3]
		})
		if next == s {
			return s
		}
		s = next
	}
}

// replaceToFixpoint applies the replacement until the string stops changing.
// Needed where matches may abut: the regex engine resumes after a match, so a
// single pass can miss a pattern that starts inside the previous match.
func replaceToFixpoint(re *regexp.Regexp, s, repl string) string {
	for {
		next := re.ReplaceAllString(s, repl)
		if next == s {
			return s
		}
		s = next
	}
}
