// Package draft produces a structured documentation draft (summary bullets,
// SOAP sections, workflow suggestions and missing information) either from
// an OpenAI-compatible model or, as a fallback, from the heuristic
// processors.
package draft

import (
	"context"
	"errors"
	"strings"
)

// ErrNoDraft is returned when a drafter produced nothing usable.
var ErrNoDraft = errors.New("no usable draft")

// SOAP holds the four drafted sections.
type SOAP struct {
	Subjective string `json:"subjective"`
	Objective  string `json:"objective"`
	Assessment string `json:"assessment"`
	Plan       string `json:"plan"`
}

// Draft is the structured documentation draft.
type Draft struct {
	Summary             []string `json:"summary"`
	SOAPNote            SOAP     `json:"soap_note"`
	WorkflowSuggestions []string `json:"workflow_suggestions"`
	MissingInformation  []string `json:"missing_information"`
}

// Empty reports whether d has no content at all.
func (d Draft) Empty() bool {
	return len(d.Summary) == 0 && len(d.WorkflowSuggestions) == 0 &&
		strings.TrimSpace(d.SOAPNote.Subjective+d.SOAPNote.Objective+d.SOAPNote.Assessment+d.SOAPNote.Plan) == ""
}

// Options selects which parts to draft.
type Options struct {
	Summary  bool
	SOAP     bool
	Workflow bool
}

// AllParts enables every part.
var AllParts = Options{Summary: true, SOAP: true, Workflow: true}

// Drafter produces a Draft for a clinical note.
type Drafter interface {
	Draft(ctx context.Context, note string, opts Options) (Draft, error)
}
