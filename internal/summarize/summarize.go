// Package summarize produces extractive summaries of clinical notes: it never
// writes new text, it only picks sentences from the input.
package summarize

import (
	"sort"
	"strings"

	"github.com/hyperifyio/careflow/internal/outcome"
	"github.com/hyperifyio/careflow/internal/textutil"
)

const (
	// DefaultMaxSentences is how many input sentences a summary keeps.
	DefaultMaxSentences = 3
	// MaxKeyPoints caps Result.KeyPoints.
	MaxKeyPoints = 5

	minInformativeWords = 4
	positionWeight      = 1.5
)

// Result is the summarizer output.
type Result struct {
	Summary           string         `json:"summary"`
	KeyPoints         []string       `json:"key_points"`
	OriginalWordCount int            `json:"original_word_count"`
	SummaryWordCount  int            `json:"summary_word_count"`
	Status            outcome.Status `json:"status"`
	Reason            string         `json:"reason,omitempty"`
}

// Summarizer selects informative sentences in document order.
type Summarizer struct {
	MaxSentences int
}

// New returns a Summarizer with default settings.
func New() *Summarizer {
	return &Summarizer{MaxSentences: DefaultMaxSentences}
}

// Summarize never panics; internal failures come back as StatusError.
func (s *Summarizer) Summarize(text string) Result {
	return outcome.Guard("summary", func(reason string) Result {
		return Result{Status: outcome.StatusError, Reason: reason, KeyPoints: []string{}}
	}, func() Result {
		return s.summarize(text)
	})
}

func (s *Summarizer) summarize(text string) Result {
	res := Result{KeyPoints: []string{}, OriginalWordCount: textutil.CountWords(text)}
	sentences := textutil.SplitSentences(textutil.CleanText(text))
	if len(sentences) == 0 {
		res.Status = outcome.StatusEmpty
		return res
	}
	max := s.MaxSentences
	if max <= 0 {
		max = DefaultMaxSentences
	}

	picked := make([]bool, len(sentences))
	count := 0
	for i, sent := range sentences {
		if count == max {
			break
		}
		if informative(sent) {
			picked[i] = true
			count++
		}
	}
	for i := range sentences {
		if count == max {
			break
		}
		if !picked[i] {
			picked[i] = true
			count++
		}
	}
	chosen := make([]string, 0, count)
	for i, sent := range sentences {
		if picked[i] {
			chosen = append(chosen, sent)
		}
	}

	res.Summary = strings.Join(chosen, ". ") + "."
	res.SummaryWordCount = textutil.CountWords(res.Summary)
	res.KeyPoints = rankKeyPoints(sentences)
	res.Status = outcome.StatusSuccess
	return res
}

func informative(sentence string) bool {
	return textutil.CountWords(sentence) >= minInformativeWords && textutil.MatchKeyTerms(sentence) > 0
}

// KeyPoints returns up to MaxKeyPoints sentences ranked by key-term density
// with a bias toward earlier sentences.
func KeyPoints(text string) []string {
	return rankKeyPoints(textutil.SplitSentences(textutil.CleanText(text)))
}

type scored struct {
	idx   int
	score float64
}

func rankKeyPoints(sentences []string) []string {
	n := len(sentences)
	cands := make([]scored, 0, n)
	for i, sent := range sentences {
		hits := textutil.MatchKeyTerms(sent)
		if hits == 0 {
			continue
		}
		score := float64(hits) + positionWeight*(1-float64(i)/float64(n))
		cands = append(cands, scored{idx: i, score: score})
	}
	sort.SliceStable(cands, func(a, b int) bool {
		return cands[a].score > cands[b].score
	})
	if len(cands) > MaxKeyPoints {
		cands = cands[:MaxKeyPoints]
	}
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, sentences[c.idx]+".")
	}
	return out
}
