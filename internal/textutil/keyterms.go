package textutil

import (
	"regexp"
	"sort"
	"strings"
)

// MaxKeyTerms caps the number of terms returned by ExtractKeyTerms.
const MaxKeyTerms = 20

// vocabulary is the fixed list of clinically salient terms. Entries are
// lowercase; multi-word entries match across any whitespace.
var vocabulary = []string{
	// symptoms
	"pain", "chest pain", "abdominal pain", "back pain", "shortness of breath",
	"fatigue", "fever", "chills", "cough", "nausea", "vomiting", "headache",
	"dizziness", "rash", "swelling", "sore throat", "congestion", "diarrhea",
	"palpitations", "weakness", "numbness",
	// measurements
	"blood pressure", "heart rate", "pulse", "temperature", "respiratory rate",
	"oxygen saturation", "blood sugar", "glucose", "weight", "bmi", "a1c", "hba1c",
	// documentation nouns
	"diagnosis", "symptom", "symptoms", "complaint", "history", "assessment",
	"treatment", "medication", "medications", "vital signs", "vitals",
	"examination", "exam", "finding", "findings", "allergy", "allergies",
	"follow-up", "referral", "lab", "labs", "imaging", "x-ray", "ecg", "ekg",
	// conditions
	"diabetes", "hypertension", "asthma", "copd", "infection", "pneumonia",
}

// measurementPatterns capture numeric findings as written in the note.
var measurementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{2,3}/\d{2,3}\b`),
	regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?(?:\s*-\s*\d+(?:\.\d+)?)?\s*(?:mg/dl|mmol/l|mmhg|bpm|mcg|mg|ml|kg|lbs?)\b`),
	regexp.MustCompile(`\b\d+(?:\.\d+)?\s*°\s*[FCfc]\b`),
	regexp.MustCompile(`\b\d+(?:\.\d+)?%`),
}

type vocabTerm struct {
	term string
	re   *regexp.Regexp
}

var vocabTerms = compileVocabulary(vocabulary)

func compileVocabulary(terms []string) []vocabTerm {
	out := make([]vocabTerm, 0, len(terms))
	for _, t := range terms {
		out = append(out, vocabTerm{term: t, re: PhraseRegexp(t)})
	}
	return out
}

// PhraseRegexp compiles phrase into a case-insensitive matcher that accepts
// any whitespace between words. Word boundaries are asserted only next to
// word characters so that phrases like "c/o" still match.
func PhraseRegexp(phrase string) *regexp.Regexp {
	parts := strings.Fields(phrase)
	for i := range parts {
		parts[i] = regexp.QuoteMeta(parts[i])
	}
	pat := strings.Join(parts, `\s+`)
	if isWordByte(phrase[0]) {
		pat = `\b` + pat
	}
	if isWordByte(phrase[len(phrase)-1]) {
		pat += `\b`
	}
	return regexp.MustCompile(`(?i)` + pat)
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

type termHit struct {
	term       string
	start, end int
}

// ExtractKeyTerms returns the clinically salient terms found in text,
// ordered by first occurrence, without case-insensitive duplicates and
// capped at MaxKeyTerms. Vocabulary hits come back in lowercase canonical
// form; measurement hits come back as written. A hit nested inside a longer
// hit ("pain" inside "chest pain") is not reported separately.
func ExtractKeyTerms(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	hits := make([]termHit, 0, 16)
	for _, v := range vocabTerms {
		for _, loc := range v.re.FindAllStringIndex(text, -1) {
			hits = append(hits, termHit{term: v.term, start: loc[0], end: loc[1]})
		}
	}
	for _, re := range measurementPatterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			hits = append(hits, termHit{term: text[loc[0]:loc[1]], start: loc[0], end: loc[1]})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].start != hits[j].start {
			return hits[i].start < hits[j].start
		}
		return hits[i].end-hits[i].start > hits[j].end-hits[j].start
	})

	out := make([]string, 0, len(hits))
	seen := make(map[string]struct{}, len(hits))
	coverEnd := -1
	for _, h := range hits {
		if h.end <= coverEnd {
			continue
		}
		if h.end > coverEnd {
			coverEnd = h.end
		}
		key := strings.ToLower(h.term)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, h.term)
		if len(out) == MaxKeyTerms {
			break
		}
	}
	return out
}

// MatchKeyTerms returns how many distinct key terms appear in span.
func MatchKeyTerms(span string) int {
	return len(ExtractKeyTerms(span))
}
