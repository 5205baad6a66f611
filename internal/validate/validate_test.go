package validate

import (
	"errors"
	"strings"
	"testing"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestValidateClinicalText_Empty(t *testing.T) {
	r := ValidateClinicalText("")
	if r.Valid || r.Message != "Text cannot be empty" {
		t.Fatalf("unexpected result: %+v", r)
	}
}

func TestValidateClinicalText_WhitespaceOnly(t *testing.T) {
	r := ValidateClinicalText(" \n\t ")
	if r.Valid || r.Message != "Text cannot be only whitespace" {
		t.Fatalf("unexpected result: %+v", r)
	}
}

func TestValidateClinicalText_WordBoundary(t *testing.T) {
	if r := ValidateClinicalText(words(9)); r.Valid {
		t.Fatalf("9 words must be invalid")
	}
	if err := Check(words(9)); !errors.Is(err, ErrTooShort) {
		t.Fatalf("expected ErrTooShort, got %v", err)
	}
	if r := ValidateClinicalText(words(10)); !r.Valid || r.Message != "" {
		t.Fatalf("10 words must be valid, got %+v", r)
	}
	if r := ValidateClinicalText(words(250)); !r.Valid {
		t.Fatalf("250 words must be valid")
	}
}

func TestValidateClinicalText_TooLong(t *testing.T) {
	text := strings.Repeat("a", 50_001)
	r := ValidateClinicalText(text)
	if r.Valid || r.Message != "Text is too long (maximum 50,000 characters)" {
		t.Fatalf("unexpected result: %+v", r)
	}
	if r := ValidateClinicalText(strings.Repeat("abcd ", 10_000)); !r.Valid {
		t.Fatalf("exactly 50,000 characters must be valid: %+v", r)
	}
}

func TestValidator_CustomLimits(t *testing.T) {
	v := Validator{Limits: Limits{MinWords: 3, MaxChars: 1_500}}
	if err := v.Check("one two three"); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	err := v.Check("one two")
	if !errors.Is(err, ErrTooShort) || err.Error() != "Text is too short (minimum 3 words)" {
		t.Fatalf("unexpected error: %v", err)
	}
	err = v.Check(strings.Repeat("x", 1_501))
	if !errors.Is(err, ErrTooLong) || err.Error() != "Text is too long (maximum 1,500 characters)" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateTextLength(t *testing.T) {
	if ValidateTextLength("   short   ", 10, 100) {
		t.Fatalf("trimmed length 5 must fail min 10")
	}
	if !ValidateTextLength("exactly ten", 10, 11) {
		t.Fatalf("expected within bounds")
	}
	if ValidateTextLength(strings.Repeat("z", 12), 1, 11) {
		t.Fatalf("expected over max")
	}
}

func TestCheckTextQuality(t *testing.T) {
	if q := CheckTextQuality("   "); q.HasContent || q.QualityScore != 0 || q.WordCount != 0 {
		t.Fatalf("expected zeroed metrics, got %+v", q)
	}
	text := "Patient reports intermittent chest pain for two days with mild exertion. " +
		"Vital signs are stable and the examination is unremarkable today. " +
		"Plan includes an ECG and follow-up with cardiology next week."
	q := CheckTextQuality(text)
	if !q.HasContent || q.SentenceCount != 3 {
		t.Fatalf("unexpected metrics: %+v", q)
	}
	if q.WordCount != 31 || q.AvgSentenceLength != 10.3 {
		t.Fatalf("unexpected counts: %+v", q)
	}
	if q.QualityScore != 100 {
		t.Fatalf("expected full score, got %d", q.QualityScore)
	}
	short := CheckTextQuality("Fever. Cough.")
	if short.QualityScore != 25 {
		t.Fatalf("expected only the size criterion, got %+v", short)
	}
}
