// Package validate gates clinical text before any processor runs and scores
// its rough documentation quality.
package validate

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hyperifyio/careflow/internal/textutil"
)

// Sentinel errors returned by Check. Their messages are shown to users as is.
var (
	ErrEmpty      = errors.New("Text cannot be empty")
	ErrWhitespace = errors.New("Text cannot be only whitespace")
	ErrTooLong    = errors.New("Text is too long (maximum 50,000 characters)")
	ErrTooShort   = errors.New("Text is too short (minimum 10 words)")
)

// Limits bounds accepted clinical text.
type Limits struct {
	MinWords int
	MaxChars int
}

// DefaultLimits are the bounds used by the package-level helpers.
var DefaultLimits = Limits{MinWords: 10, MaxChars: 50_000}

// Result is the user-facing outcome of validation.
type Result struct {
	Valid   bool   `json:"is_valid"`
	Message string `json:"error_message"`
}

// Validator checks text against configurable limits.
type Validator struct {
	Limits Limits
}

// Check returns nil when text is acceptable, otherwise one of the sentinel
// errors (wrapped with the configured bound when it differs from the default).
// Checks run in order: empty, whitespace-only, too long, too short.
func (v Validator) Check(text string) error {
	lim := v.Limits
	if lim.MinWords <= 0 {
		lim.MinWords = DefaultLimits.MinWords
	}
	if lim.MaxChars <= 0 {
		lim.MaxChars = DefaultLimits.MaxChars
	}
	if text == "" {
		return ErrEmpty
	}
	if strings.TrimSpace(text) == "" {
		return ErrWhitespace
	}
	if utf8.RuneCountInString(text) > lim.MaxChars {
		if lim.MaxChars != DefaultLimits.MaxChars {
			return &limitError{base: ErrTooLong, msg: "Text is too long (maximum " + formatThousands(lim.MaxChars) + " characters)"}
		}
		return ErrTooLong
	}
	if textutil.CountWords(text) < lim.MinWords {
		if lim.MinWords != DefaultLimits.MinWords {
			return &limitError{base: ErrTooShort, msg: "Text is too short (minimum " + formatThousands(lim.MinWords) + " words)"}
		}
		return ErrTooShort
	}
	return nil
}

// Validate converts Check into a Result.
func (v Validator) Validate(text string) Result {
	if err := v.Check(text); err != nil {
		return Result{Valid: false, Message: err.Error()}
	}
	return Result{Valid: true}
}

// Check validates text with DefaultLimits.
func Check(text string) error {
	return Validator{Limits: DefaultLimits}.Check(text)
}

// ValidateClinicalText validates text with DefaultLimits.
func ValidateClinicalText(text string) Result {
	return Validator{Limits: DefaultLimits}.Validate(text)
}

// ValidateTextLength reports whether the trimmed rune length of text lies
// within [minLength, maxLength].
func ValidateTextLength(text string, minLength, maxLength int) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	return n >= minLength && n <= maxLength
}

// limitError carries a message for non-default limits while still matching
// the sentinel with errors.Is.
type limitError struct {
	base error
	msg  string
}

func (e *limitError) Error() string { return e.msg }
func (e *limitError) Unwrap() error { return e.base }

func formatThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
