package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// abbreviations never end a sentence when followed by a single period.
var abbreviations = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "vs": {}, "etc": {},
	"e.g": {}, "i.e": {}, "approx": {}, "st": {}, "jr": {}, "sr": {},
	"pt": {},
}

// SplitSentences splits text at runs of '.', '!' or '?' followed by
// whitespace or the end of the text. Periods inside numbers (98.6) and after
// known abbreviations do not split. Sentences come
// back trimmed and without their terminal punctuation; empty pieces are
// dropped.
func SplitSentences(text string) []string {
	out := make([]string, 0, 8)
	start := 0
	i := 0
	for i < len(text) {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			i++
			continue
		}
		j := i
		for j < len(text) && (text[j] == '.' || text[j] == '!' || text[j] == '?') {
			j++
		}
		atBoundary := j == len(text)
		if !atBoundary {
			r, _ := utf8.DecodeRuneInString(text[j:])
			atBoundary = unicode.IsSpace(r)
		}
		if !atBoundary || (j-i == 1 && c == '.' && isAbbreviation(text[start:i])) {
			i = j
			continue
		}
		if s := strings.TrimSpace(text[start:i]); s != "" {
			out = append(out, s)
		}
		start = j
		i = j
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// isAbbreviation reports whether the last token of prefix is a known
// abbreviation.
func isAbbreviation(prefix string) bool {
	k := strings.LastIndexFunc(prefix, unicode.IsSpace)
	tok := prefix[k+1:]
	tok = strings.TrimLeft(tok, "(\"'")
	if tok == "" {
		return false
	}
	_, ok := abbreviations[strings.ToLower(tok)]
	return ok
}
