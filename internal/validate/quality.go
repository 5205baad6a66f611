package validate

import (
	"strings"

	"github.com/hyperifyio/careflow/internal/textutil"
)

// Quality summarizes how much usable documentation a note contains.
type Quality struct {
	HasContent        bool    `json:"has_content"`
	WordCount         int     `json:"word_count"`
	SentenceCount     int     `json:"sentence_count"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	QualityScore      int     `json:"quality_score"`
}

// CheckTextQuality scores text from 0 to 100 in steps of 25: enough words,
// enough sentences, a readable average sentence length, and not oversized.
func CheckTextQuality(text string) Quality {
	if strings.TrimSpace(text) == "" {
		return Quality{}
	}
	words := textutil.CountWords(text)
	sentences := len(textutil.SplitSentences(text))
	q := Quality{HasContent: true, WordCount: words, SentenceCount: sentences}
	if sentences > 0 {
		q.AvgSentenceLength = round1(float64(words) / float64(sentences))
	}
	if words >= 20 {
		q.QualityScore += 25
	}
	if sentences >= 3 {
		q.QualityScore += 25
	}
	if q.AvgSentenceLength >= 10 && q.AvgSentenceLength <= 30 {
		q.QualityScore += 25
	}
	if words <= 5000 {
		q.QualityScore += 25
	}
	return q
}
