// Package safety flags drafted text that reads as prescriptive or
// diagnostic so reviewers look at it first. It is a coarse pattern scan and
// never blocks output.
package safety

import (
	"regexp"
	"strings"
)

const (
	StatusClear   = "clear"
	StatusFlagged = "flagged"
)

// Annotation is attached to every LLM draft.
type Annotation struct {
	Status string   `json:"status"`
	Notes  []string `json:"notes"`
}

type pattern struct {
	re   *regexp.Regexp
	note string
}

var patterns = []pattern{
	{regexp.MustCompile(`(?i)\b(?:take|start|stop|increase|decrease|double)\s+(?:\w+\s+){0,2}\d+(?:\.\d+)?\s*(?:mg|mcg|g|ml|units?)\b`), "Draft contains a dosing instruction"},
	{regexp.MustCompile(`(?i)\b(?:definitely|certainly|clearly)\s+(?:has|is|have)\b`), "Draft states a finding with certainty"},
	{regexp.MustCompile(`(?i)\b(?:confirms?|confirmed)\s+(?:the\s+)?diagnosis\b`), "Draft claims a confirmed diagnosis"},
	{regexp.MustCompile(`(?i)\b(?:no need to|does not need to|doesn't need to)\s+(?:see|seek|visit|contact)\b`), "Draft discourages seeking care"},
	{regexp.MustCompile(`(?i)\bnot\s+(?:an?\s+)?emergency\b`), "Draft rules out an emergency"},
}

// Annotate scans texts and returns the findings in pattern order without
// duplicates.
func Annotate(texts ...string) Annotation {
	joined := strings.Join(texts, "\n")
	out := Annotation{Status: StatusClear, Notes: []string{}}
	for _, p := range patterns {
		if p.re.MatchString(joined) {
			out.Notes = append(out.Notes, p.note)
		}
	}
	if len(out.Notes) > 0 {
		out.Status = StatusFlagged
	}
	return out
}

// IsContentSafe reports whether Annotate finds nothing.
func IsContentSafe(texts ...string) bool {
	return Annotate(texts...).Status == StatusClear
}
