package draft

import (
	"context"

	"github.com/hyperifyio/careflow/internal/soap"
	"github.com/hyperifyio/careflow/internal/summarize"
	"github.com/hyperifyio/careflow/internal/workflow"
)

// missingHints describe an incomplete SOAP section.
var missingHints = map[soap.Section]string{
	soap.Subjective: "Patient-reported history or complaints",
	soap.Objective:  "Vital signs, examination or test findings",
	soap.Assessment: "Clinical impression or assessment",
	soap.Plan:       "Plan, orders or follow-up",
}

// HeuristicDrafter builds a Draft from the keyword processors. It never
// fails and needs no network.
type HeuristicDrafter struct {
	Summarizer *summarize.Summarizer
	Generator  *soap.Generator
	Suggester  *workflow.Suggester
}

// NewHeuristic returns a HeuristicDrafter with default processors.
func NewHeuristic() *HeuristicDrafter {
	return &HeuristicDrafter{Summarizer: summarize.New(), Generator: soap.NewGenerator(), Suggester: workflow.New()}
}

func (h *HeuristicDrafter) Draft(_ context.Context, note string, opts Options) (Draft, error) {
	out := Draft{Summary: []string{}, WorkflowSuggestions: []string{}, MissingInformation: []string{}}
	if opts.Summary {
		res := h.Summarizer.Summarize(note)
		if res.Status.OK() {
			out.Summary = append(out.Summary, res.KeyPoints...)
			if len(out.Summary) == 0 {
				out.Summary = append(out.Summary, res.Summary)
			}
		}
	}
	generated := h.Generator.Generate(note)
	if opts.SOAP && generated.Status.OK() {
		out.SOAPNote = SOAP{
			Subjective: generated.Subjective,
			Objective:  generated.Objective,
			Assessment: generated.Assessment,
			Plan:       generated.Plan,
		}
	}
	if opts.Workflow {
		sug := h.Suggester.Suggest(note)
		if sug.Status.OK() {
			out.WorkflowSuggestions = append(out.WorkflowSuggestions, sug.Suggestions...)
		}
	}
	complete := soap.Validate(generated)
	for _, sec := range soap.Sections {
		if !complete[sec] {
			out.MissingInformation = append(out.MissingInformation, missingHints[sec])
		}
	}
	return out, nil
}
