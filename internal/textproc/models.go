package textproc

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Model-code patterns in priority order. They run on the lowercased text
// before character stripping, so parenthesized codes are still visible.
var (
	hyphenatedModelRe    = regexp.MustCompile(`[a-z0-9]+(?:-[a-z0-9]+)+`)
	parenthesizedModelRe = regexp.MustCompile(`\(([a-z0-9][a-z0-9-]{2,})\)`)
	genericModelRe       = regexp.MustCompile(`[a-z0-9]{3,}`)

	hasDigitRe  = regexp.MustCompile(`\d`)
	hasLetterRe = regexp.MustCompile(`[a-z]`)
)

type modelMatch struct {
	text       string
	start, end int
	priority   int
}

// Models extracts product model codes from text. Overlapping matches keep the
// longest one, so "abc-123def" never splits into "abc" and "123def".
func (e *Extractor) Models(text string) []string {
	s := norm.NFC.String(strings.ToLower(text))
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var candidates []modelMatch
	for _, loc := range hyphenatedModelRe.FindAllStringIndex(s, -1) {
		m := modelMatch{text: s[loc[0]:loc[1]], start: loc[0], end: loc[1], priority: 0}
		if validHyphenatedModel(m.text) {
			candidates = append(candidates, m)
		}
	}
	for _, loc := range parenthesizedModelRe.FindAllStringSubmatchIndex(s, -1) {
		m := modelMatch{text: s[loc[2]:loc[3]], start: loc[0], end: loc[1], priority: 1}
		if validHyphenatedModel(m.text) {
			candidates = append(candidates, m)
		}
	}
	for _, loc := range genericModelRe.FindAllStringIndex(s, -1) {
		m := modelMatch{text: s[loc[0]:loc[1]], start: loc[0], end: loc[1], priority: 2}
		if validGenericModel(m.text) {
			candidates = append(candidates, m)
		}
	}

	kept := keepLongest(candidates)

	out := make([]string, 0, len(kept))
	seen := make(map[string]bool)
	for _, m := range kept {
		if !seen[m.text] {
			seen[m.text] = true
			out = append(out, m.text)
		}
	}
	return out
}

// validHyphenatedModel accepts codes carrying a digit or at least three letters.
func validHyphenatedModel(s string) bool {
	if hasDigitRe.MatchString(s) {
		return true
	}
	letters := 0
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			letters++
		}
	}
	return letters >= 3
}

// validGenericModel requires both a digit and a letter: a bare number is a
// quantity and a bare word is vocabulary, neither is a model code. A
// number+unit token ("500ml") is a quantity too, even though it mixes both.
func validGenericModel(s string) bool {
	if !hasDigitRe.MatchString(s) || !hasLetterRe.MatchString(s) {
		return false
	}
	return !unitTokenRe.MatchString(s)
}

// keepLongest resolves overlaps by preferring longer matches, then
// higher-priority patterns, then earlier offsets. Output is offset-ordered.
func keepLongest(candidates []modelMatch) []modelMatch {
	sort.Slice(candidates, func(i, j int) bool {
		li, lj := candidates[i].end-candidates[i].start, candidates[j].end-candidates[j].start
		if li != lj {
			return li > lj
		}
		if candidates[i].priority != candidates[j].priority {
			return candidates[i].priority < candidates[j].priority
		}
		return candidates[i].start < candidates[j].start
	})

	var kept []modelMatch
	for _, c := range candidates {
		overlaps := false
		for _, k := range kept {
			if c.start < k.end && k.start < c.end {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, c)
		}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].start < kept[j].start })
	return kept
}
