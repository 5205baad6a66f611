// Package soap sorts the sentences of a clinical note into Subjective,
// Objective, Assessment and Plan sections using fixed keyword tables.
package soap

import (
	"sort"
	"strings"

	"github.com/hyperifyio/careflow/internal/outcome"
	"github.com/hyperifyio/careflow/internal/textutil"
)

// Section names one part of a SOAP note.
type Section string

const (
	Subjective Section = "subjective"
	Objective  Section = "objective"
	Assessment Section = "assessment"
	Plan       Section = "plan"
)

// Sections lists the sections in tie-break priority order.
var Sections = []Section{Subjective, Objective, Assessment, Plan}

// MinSectionWords is the word count a section must exceed to be complete.
const MinSectionWords = 3

// Note is the categorizer output. Empty sections are empty strings.
type Note struct {
	Subjective string         `json:"subjective"`
	Objective  string         `json:"objective"`
	Assessment string         `json:"assessment"`
	Plan       string         `json:"plan"`
	Status     outcome.Status `json:"status"`
	Reason     string         `json:"reason,omitempty"`
}

// Get returns the text of sec.
func (n Note) Get(sec Section) string {
	switch sec {
	case Subjective:
		return n.Subjective
	case Objective:
		return n.Objective
	case Assessment:
		return n.Assessment
	case Plan:
		return n.Plan
	}
	return ""
}

func (n *Note) set(sec Section, text string) {
	switch sec {
	case Subjective:
		n.Subjective = text
	case Objective:
		n.Objective = text
	case Assessment:
		n.Assessment = text
	case Plan:
		n.Plan = text
	}
}

// Completeness maps each section to whether it looks complete.
type Completeness map[Section]bool

// Generator builds SOAP notes. The zero value is ready to use.
type Generator struct{}

// NewGenerator returns a Generator.
func NewGenerator() *Generator { return &Generator{} }

// Generate categorizes every sentence of text. Callers validate text first.
func (g *Generator) Generate(text string) Note {
	return outcome.Guard("soap", func(reason string) Note {
		return Note{Status: outcome.StatusError, Reason: reason}
	}, func() Note {
		return generate(text)
	})
}

func generate(text string) Note {
	sentences := textutil.SplitSentences(textutil.CleanText(text))
	if len(sentences) == 0 {
		return Note{Status: outcome.StatusEmpty}
	}
	buckets := make(map[Section][]string, len(Sections))
	for _, s := range sentences {
		sec, ok := Categorize(s)
		if !ok {
			continue
		}
		buckets[sec] = append(buckets[sec], s+".")
	}
	note := Note{Status: outcome.StatusSuccess}
	for _, sec := range Sections {
		note.set(sec, strings.Join(buckets[sec], " "))
	}
	return note
}

// Categorize returns the section with the most distinct keyword hits for
// sentence. Ties go to the earlier entry of Sections. ok is false when no
// keyword matches.
func Categorize(sentence string) (Section, bool) {
	best := Section("")
	bestScore := 0
	for _, sec := range Sections {
		score := Score(sentence, sec)
		if score > bestScore {
			best, bestScore = sec, score
		}
	}
	return best, bestScore > 0
}

// Score counts the distinct keywords of sec present in sentence. A keyword
// hit nested inside a longer one ("pain" inside "chest pain") does not
// count separately.
func Score(sentence string, sec Section) int {
	var hits []keywordHit
	for i, re := range sectionMatchers[sec] {
		for _, loc := range re.FindAllStringIndex(sentence, -1) {
			hits = append(hits, keywordHit{keyword: i, start: loc[0], end: loc[1]})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].start != hits[j].start {
			return hits[i].start < hits[j].start
		}
		return hits[i].end > hits[j].end
	})
	seen := make(map[int]struct{}, len(hits))
	coverEnd := -1
	for _, h := range hits {
		if h.end <= coverEnd {
			continue
		}
		coverEnd = h.end
		seen[h.keyword] = struct{}{}
	}
	n := len(seen)
	if sec == Objective {
		for _, re := range numericPatterns {
			if re.MatchString(sentence) {
				n++
			}
		}
	}
	return n
}

type keywordHit struct {
	keyword    int
	start, end int
}

// Validate reports which sections of note have more than MinSectionWords
// words. It is a heuristic, not a clinical check.
func Validate(note Note) Completeness {
	out := make(Completeness, len(Sections))
	for _, sec := range Sections {
		out[sec] = textutil.CountWords(note.Get(sec)) > MinSectionWords
	}
	return out
}
