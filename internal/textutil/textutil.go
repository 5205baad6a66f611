// Package textutil holds the pure text helpers shared by the clinical
// processors: cleaning, sentence splitting, key-term extraction, truncation
// and word counting. Nothing here allocates shared state after init, so every
// function is safe for concurrent use.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultTruncateLength is the length used by callers that have no better
// preference for preview text.
const DefaultTruncateLength = 200

// keptPunct lists the punctuation that survives cleaning. Anything outside
// letters, marks, digits, whitespace and this set is removed.
const keptPunct = ".,-/()':;!?%+°#&"

// CleanText normalizes clinical text for processing. It drops characters
// outside the clinical punctuation set, collapses every whitespace run
// (including line breaks) into one space, trims the ends and applies NFC.
// CleanText(CleanText(s)) == CleanText(s).
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			pendingSpace = true
			continue
		}
		if !keepRune(r) {
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
	}
	// NFC runs last: removing a character can leave a base letter next to a
	// combining mark that only composes once they are adjacent.
	return norm.NFC.String(b.String())
}

func keepRune(r rune) bool {
	if r == utf8.RuneError {
		return false
	}
	if unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) {
		return true
	}
	return strings.ContainsRune(keptPunct, r)
}

// CountWords returns the number of whitespace-delimited tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// TruncateText shortens text to at most maxLength runes without splitting a
// rune. When truncation happens and addEllipsis is set, "..." is appended.
func TruncateText(text string, maxLength int, addEllipsis bool) string {
	if maxLength < 0 {
		maxLength = 0
	}
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	cut := 0
	for i := range text {
		if maxLength == 0 {
			cut = i
			break
		}
		maxLength--
	}
	out := text[:cut]
	if addEllipsis {
		out += "..."
	}
	return out
}
