package workflow

import (
	"regexp"

	"github.com/hyperifyio/careflow/internal/textutil"
)

// rule maps keyword presence (or absence) to at most one fixed suggestion
// and at most one checklist line.
type rule struct {
	name       string
	keywords   []string
	absent     bool
	urgent     bool
	suggestion string
	checklist  string

	matchers []*regexp.Regexp
}

var followUpKeywords = []string{"follow-up", "follow up", "followup", "recheck", "return", "returns", "monitor", "reassess"}

// rules are evaluated in this order and output follows it.
var rules = compileRules([]rule{
	{
		name:       "urgent_chest_pain",
		keywords:   []string{"chest pain", "chest pressure", "chest tightness"},
		urgent:     true,
		suggestion: "Chest pain mentioned - ensure urgent evaluation per local protocol",
	},
	{
		name:       "urgent_breathing",
		keywords:   []string{"shortness of breath", "difficulty breathing", "trouble breathing", "respiratory distress"},
		urgent:     true,
		suggestion: "Breathing difficulty mentioned - assess need for urgent evaluation",
	},
	{
		name:       "urgent_syncope",
		keywords:   []string{"syncope", "fainting", "fainted", "loss of consciousness"},
		urgent:     true,
		suggestion: "Syncope mentioned - ensure urgent evaluation per local protocol",
	},
	{
		name:       "urgent_bleeding",
		keywords:   []string{"severe bleeding", "hemorrhage", "heavy bleeding"},
		urgent:     true,
		suggestion: "Significant bleeding mentioned - escalate per local protocol",
	},
	{
		name:       "urgent_self_harm",
		keywords:   []string{"suicidal ideation", "suicidal", "self-harm", "self harm"},
		urgent:     true,
		suggestion: "Safety concern mentioned - follow safety assessment protocol immediately",
	},
	{
		name:       "urgent_seizure",
		keywords:   []string{"seizure", "seizures", "convulsion"},
		urgent:     true,
		suggestion: "Seizure mentioned - ensure urgent evaluation per local protocol",
	},
	{
		name:       "referral",
		keywords:   []string{"specialist", "referral", "refer", "consult", "consultation"},
		suggestion: "Referral mentioned - complete referral documentation",
		checklist:  "Referral request submitted with supporting documentation",
	},
	{
		name:      "follow_up",
		keywords:  followUpKeywords,
		checklist: "Follow-up timeframe documented and reminder set",
	},
	{
		name:       "missing_follow_up",
		keywords:   followUpKeywords,
		absent:     true,
		suggestion: "No follow-up plan documented - schedule follow-up appointment",
		checklist:  "Follow-up plan and timeframe documented",
	},
	{
		name:       "history",
		keywords:   []string{"history", "surgical history", "family history", "pmh"},
		suggestion: "Consider completing patient history section",
		checklist:  "Medical history and current medications reviewed",
	},
	{
		name:       "missing_vitals",
		keywords:   []string{"vital signs", "vitals", "blood pressure", "bp", "temperature", "temp", "pulse", "heart rate", "respiratory rate", "spo2", "oxygen saturation"},
		absent:     true,
		suggestion: "Ensure vital signs are documented",
		checklist:  "Vital signs: BP, Temp, Pulse, RR, O2 sat",
	},
	{
		name:       "lab_work",
		keywords:   []string{"lab", "labs", "test", "tests", "bloodwork", "imaging", "x-ray", "mri", "ct scan", "ecg", "ekg", "a1c"},
		suggestion: "Lab work or imaging mentioned - verify orders placed",
		checklist:  "Confirm test orders in system",
	},
	{
		name:       "medication",
		keywords:   []string{"medication", "medications", "prescribe", "prescribed", "dose", "insulin", "metformin"},
		suggestion: "Reconcile current medication list",
		checklist:  "Medication reconciliation completed",
	},
	{
		name:       "missing_allergies",
		keywords:   []string{"allergy", "allergies", "allergic", "nkda"},
		absent:     true,
		suggestion: "Document allergy status",
		checklist:  "Allergies documented (or NKDA)",
	},
	{
		name:       "symptoms",
		keywords:   []string{"pain", "fatigue", "fever", "cough", "nausea", "vomiting", "headache", "dizziness", "rash", "swelling", "sore throat"},
		suggestion: "Document onset and severity of reported symptoms",
	},
})

// generalChecklist closes every non-empty checklist.
var generalChecklist = []string{
	"Chief complaint documented",
	"Assessment and plan clearly stated",
	"Patient education provided",
	"Consent obtained if needed",
}

// reminders are the static documentation reminders.
var reminders = []string{
	"Ensure all sections of the note are complete",
	"Verify patient demographics and identifiers",
	"Document time spent on patient care",
	"Review and sign note before finalizing",
	"Check for required quality metrics documentation",
	"Verify billing/coding information if applicable",
}

const negationWords = `(?:no|not|denies|denied|deny|without|negative for|free of|absence of)`

// negationCue matches words that negate what directly follows them.
var negationCue = regexp.MustCompile(`\b` + negationWords + `\b`)

// leadingNegation matches a clause that opens with a negation cue.
var leadingNegation = regexp.MustCompile(`^\s*` + negationWords + `\b`)

// orListTail matches what may sit between a cue and a negated mention:
// nothing, or up to three words closed by "or".
var orListTail = regexp.MustCompile(`^\s*(?:(?:[a-z0-9'/-]+\s+){0,3}or\s+)?$`)

// clauseBreak matches words that start a new clause for negation scope.
var clauseBreak = regexp.MustCompile(`\b(?:and|with|while|who|which|but|however|although|though|except)\b`)

func compileRules(in []rule) []rule {
	for i := range in {
		in[i].matchers = make([]*regexp.Regexp, 0, len(in[i].keywords))
		for _, k := range in[i].keywords {
			in[i].matchers = append(in[i].matchers, textutil.PhraseRegexp(k))
		}
	}
	return in
}
