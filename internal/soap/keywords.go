package soap

import (
	"regexp"

	"github.com/hyperifyio/careflow/internal/textutil"
)

// Keyword sets are disjoint: no phrase belongs to two sections.
var sectionKeywords = map[Section][]string{
	Subjective: {
		"complaint", "complains", "c/o", "reports", "reported", "states", "denies",
		"feels", "feeling", "describes", "history", "patient says", "patient reports",
		"fatigue", "tired", "chest pain", "pain", "shortness of breath", "nausea",
		"headache", "dizziness", "cough", "sore throat", "symptoms", "onset", "since",
	},
	Objective: {
		"vital signs", "vitals", "temperature", "temp", "blood pressure", "bp",
		"pulse", "heart rate", "respiratory rate", "oxygen saturation", "spo2",
		"blood sugar", "glucose", "a1c", "examination", "exam", "observed",
		"appears", "findings", "lab results", "labs", "test", "auscultation",
		"tender", "weight",
	},
	Assessment: {
		"diagnosis", "assessment", "impression", "condition", "likely", "possible",
		"consistent with", "suspected", "differential", "rule out", "controlled",
		"uncontrolled", "stable",
	},
	Plan: {
		"plan", "treatment", "medication", "prescribe", "prescribed", "recommend",
		"follow-up", "follow up", "referral", "refer", "continue", "start",
		"discontinue", "increase", "decrease", "schedule", "return", "educate",
		"education", "order",
	},
}

// numericPatterns count as one additional Objective keyword each.
var numericPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{2,3}/\d{2,3}\b`),
	regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?(?:\s*-\s*\d+(?:\.\d+)?)?\s*(?:mg/dl|mmol/l|mmhg|bpm|kg|lbs?)\b`),
	regexp.MustCompile(`\b\d+(?:\.\d+)?\s*°\s*[FCfc]\b`),
	regexp.MustCompile(`\b\d+(?:\.\d+)?%`),
}

var sectionMatchers = compileMatchers(sectionKeywords)

func compileMatchers(sets map[Section][]string) map[Section][]*regexp.Regexp {
	out := make(map[Section][]*regexp.Regexp, len(sets))
	for sec, words := range sets {
		res := make([]*regexp.Regexp, 0, len(words))
		for _, w := range words {
			res = append(res, textutil.PhraseRegexp(w))
		}
		out[sec] = res
	}
	return out
}
