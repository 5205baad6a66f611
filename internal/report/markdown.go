package report

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hyperifyio/careflow/internal/draft"
	"github.com/hyperifyio/careflow/internal/outcome"
	"github.com/hyperifyio/careflow/internal/soap"
)

var titleCase = cases.Title(language.English)

// SectionTitle returns the display title of a SOAP section.
func SectionTitle(sec soap.Section) string {
	return titleCase.String(string(sec))
}

// Markdown renders r as a Markdown document ending with the
// reproducibility footer.
func Markdown(r Report) string {
	var b strings.Builder
	b.WriteString("# CareFlow Report\n\n")
	fmt.Fprintf(&b, "Generated %s; engine %s; id %s\n\n", r.GeneratedAt.UTC().Format(time.RFC3339), r.Engine, r.ID)
	b.WriteString("> ")
	b.WriteString(Disclaimer)
	b.WriteString("\n\n")

	b.WriteString("## Input Quality\n\n")
	if !r.Validation.Valid {
		fmt.Fprintf(&b, "Validation failed: %s\n\n", r.Validation.Message)
	}
	fmt.Fprintf(&b, "Quality score %d/100 (%d words, %d sentences, %.1f words per sentence)\n\n",
		r.Quality.QualityScore, r.Quality.WordCount, r.Quality.SentenceCount, r.Quality.AvgSentenceLength)

	if r.Summary != nil {
		b.WriteString("## Summary\n\n")
		if r.Summary.Status.OK() {
			b.WriteString(r.Summary.Summary)
			b.WriteString("\n\n")
			if len(r.Summary.KeyPoints) > 0 {
				b.WriteString("### Key Points\n\n")
				writeList(&b, r.Summary.KeyPoints)
			}
			fmt.Fprintf(&b, "Condensed %d words to %d.\n\n", r.Summary.OriginalWordCount, r.Summary.SummaryWordCount)
		} else {
			writeUnavailable(&b, r.Summary.Status, r.Summary.Reason)
		}
	}

	if r.SOAP != nil {
		b.WriteString("## SOAP Note\n\n")
		if r.SOAP.Status.OK() {
			for _, sec := range soap.Sections {
				fmt.Fprintf(&b, "### %s\n\n", SectionTitle(sec))
				writeSection(&b, r.SOAP.Get(sec))
			}
			if len(r.SOAPValidation) > 0 {
				b.WriteString("### Completeness\n\n")
				for _, sec := range soap.Sections {
					state := "incomplete"
					if r.SOAPValidation[sec] {
						state = "complete"
					}
					fmt.Fprintf(&b, "- %s: %s\n", SectionTitle(sec), state)
				}
				b.WriteString("\n")
			}
		} else {
			writeUnavailable(&b, r.SOAP.Status, r.SOAP.Reason)
		}
	}

	if r.Workflow != nil {
		b.WriteString("## Workflow Suggestions\n\n")
		if r.Workflow.Status.OK() {
			if len(r.Workflow.PriorityItems) > 0 {
				b.WriteString("### Priority\n\n")
				writeList(&b, r.Workflow.PriorityItems)
			}
			b.WriteString("### Suggestions\n\n")
			writeList(&b, r.Workflow.Suggestions)
			if len(r.Workflow.DocumentationChecklist) > 0 {
				b.WriteString("### Documentation Checklist\n\n")
				for _, item := range r.Workflow.DocumentationChecklist {
					fmt.Fprintf(&b, "- [ ] %s\n", item)
				}
				b.WriteString("\n")
			}
		} else {
			writeUnavailable(&b, r.Workflow.Status, r.Workflow.Reason)
		}
	}

	if r.Draft != nil {
		writeDraft(&b, *r.Draft)
		if r.Safety != nil && len(r.Safety.Notes) > 0 {
			b.WriteString("### Safety Review\n\n")
			writeList(&b, r.Safety.Notes)
		}
	}

	if len(r.Reminders) > 0 {
		b.WriteString("## Documentation Reminders\n\n")
		writeList(&b, r.Reminders)
	}
	return appendReproFooter(b.String(), r)
}

func writeDraft(b *strings.Builder, d draft.Draft) {
	b.WriteString("## Drafted Documentation\n\n")
	if len(d.Summary) > 0 {
		b.WriteString("### Draft Summary\n\n")
		writeList(b, d.Summary)
	}
	sections := []struct {
		sec  soap.Section
		text string
	}{
		{soap.Subjective, d.SOAPNote.Subjective},
		{soap.Objective, d.SOAPNote.Objective},
		{soap.Assessment, d.SOAPNote.Assessment},
		{soap.Plan, d.SOAPNote.Plan},
	}
	for _, s := range sections {
		fmt.Fprintf(b, "### Draft %s\n\n", SectionTitle(s.sec))
		writeSection(b, s.text)
	}
	if len(d.WorkflowSuggestions) > 0 {
		b.WriteString("### Draft Workflow Suggestions\n\n")
		writeList(b, d.WorkflowSuggestions)
	}
	if len(d.MissingInformation) > 0 {
		b.WriteString("### Missing Information\n\n")
		writeList(b, d.MissingInformation)
	}
}

func writeSection(b *strings.Builder, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		text = "_" + Placeholder + "_"
	}
	b.WriteString(text)
	b.WriteString("\n\n")
}

func writeList(b *strings.Builder, items []string) {
	for _, it := range items {
		b.WriteString("- ")
		b.WriteString(it)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeUnavailable(b *strings.Builder, st outcome.Status, reason string) {
	if st == outcome.StatusEmpty {
		b.WriteString("_No content to process._\n\n")
		return
	}
	fmt.Fprintf(b, "_Processing failed: %s_\n\n", reason)
}
