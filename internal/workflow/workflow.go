// Package workflow turns a clinical note into non-diagnostic documentation
// suggestions using fixed rule tables.
//
// Matching is keyword based and blind to negation, with one exception: when
// NegationAware is set, urgent-symptom rules skip mentions whose clause opens
// with a negation cue ("No chest pain", "denies syncope") or that directly
// follow one, possibly as part of an "or" list ("reports no fever or chest
// pain"). All other rules still fire on negated mentions.
package workflow

import (
	"strings"

	"github.com/hyperifyio/careflow/internal/outcome"
	"github.com/hyperifyio/careflow/internal/textutil"
)

// FallbackSuggestion is returned when no rule fires.
const FallbackSuggestion = "Documentation appears complete. Review for accuracy."

// Suggestions is the suggester output. PriorityItems is a subset of
// Suggestions.
type Suggestions struct {
	Suggestions            []string       `json:"suggestions"`
	PriorityItems          []string       `json:"priority_items"`
	DocumentationChecklist []string       `json:"documentation_checklist"`
	Status                 outcome.Status `json:"status"`
	Reason                 string         `json:"reason,omitempty"`
}

// Suggester evaluates the rule tables against a note.
type Suggester struct {
	// NegationAware skips negated mentions for urgent rules.
	NegationAware bool
}

// New returns a negation-aware Suggester.
func New() *Suggester {
	return &Suggester{NegationAware: true}
}

// Suggest never panics; internal failures come back as StatusError.
func (s *Suggester) Suggest(text string) Suggestions {
	return outcome.Guard("workflow", func(reason string) Suggestions {
		return Suggestions{
			Suggestions:            []string{},
			PriorityItems:          []string{},
			DocumentationChecklist: []string{},
			Status:                 outcome.StatusError,
			Reason:                 reason,
		}
	}, func() Suggestions {
		return s.suggest(text)
	})
}

func (s *Suggester) suggest(text string) Suggestions {
	out := Suggestions{
		Suggestions:            []string{},
		PriorityItems:          []string{},
		DocumentationChecklist: []string{},
	}
	clean := strings.ToLower(textutil.CleanText(text))
	if len(textutil.SplitSentences(clean)) == 0 {
		out.Status = outcome.StatusEmpty
		return out
	}
	add := func(list *[]string, item string) {
		if item == "" {
			return
		}
		for _, v := range *list {
			if v == item {
				return
			}
		}
		*list = append(*list, item)
	}
	for _, r := range rules {
		present := s.mentioned(clean, r)
		if present == r.absent {
			continue
		}
		add(&out.Suggestions, r.suggestion)
		if r.urgent {
			add(&out.PriorityItems, r.suggestion)
		}
		add(&out.DocumentationChecklist, r.checklist)
	}
	if len(out.Suggestions) == 0 {
		out.Suggestions = append(out.Suggestions, FallbackSuggestion)
	}
	for _, item := range generalChecklist {
		add(&out.DocumentationChecklist, item)
	}
	out.Status = outcome.StatusSuccess
	return out
}

// mentioned reports whether any keyword of r occurs in text. For urgent
// rules in negation-aware mode, negated occurrences do not count.
func (s *Suggester) mentioned(text string, r rule) bool {
	for _, re := range r.matchers {
		locs := re.FindAllStringIndex(text, -1)
		if len(locs) == 0 {
			continue
		}
		if !r.urgent || !s.NegationAware {
			return true
		}
		for _, loc := range locs {
			if !negated(text, loc[0]) {
				return true
			}
		}
	}
	return false
}

// negated reports whether the mention at pos is negated. The clause runs
// back to the nearest sentence punctuation, comma, semicolon or joining word
// ("and", "but", "with"). A mention is negated when its clause opens with a
// negation cue, or when the last cue in the clause is followed only by an
// "or" list leading up to the mention.
func negated(text string, pos int) bool {
	start := strings.LastIndexAny(text[:pos], ".;:,!?") + 1
	clause := text[start:pos]
	if locs := clauseBreak.FindAllStringIndex(clause, -1); len(locs) > 0 {
		clause = clause[locs[len(locs)-1][1]:]
	}
	if leadingNegation.MatchString(clause) {
		return true
	}
	cues := negationCue.FindAllStringIndex(clause, -1)
	if len(cues) == 0 {
		return false
	}
	return orListTail.MatchString(clause[cues[len(cues)-1][1]:])
}

// DocumentationReminders returns the static reminder list.
func DocumentationReminders() []string {
	out := make([]string, len(reminders))
	copy(out, reminders)
	return out
}
