package draft

import (
	"strconv"
	"strings"
)

// SystemMessage frames the model as a non-diagnostic documentation
// assistant with a strict JSON contract.
const SystemMessage = "You are a clinical documentation assistant for research and education. " +
	"You help organize free-text notes; you do not diagnose, prescribe or give treatment advice. " +
	"Use only information present in the note and never invent findings. " +
	"Respond with strict JSON only, no narration and no code fences. " +
	"The JSON schema is {\"summary\": string[], \"soap_note\": {\"subjective\": string, \"objective\": string, \"assessment\": string, \"plan\": string}, \"workflow_suggestions\": string[], \"missing_information\": string[]}."

const noteMarker = "Clinical note:\n"

// BuildUserPrompt lists the requested tasks followed by the note.
func BuildUserPrompt(note string, opts Options) string {
	var sb strings.Builder
	sb.WriteString(promptScaffold(opts))
	sb.WriteString(note)
	return sb.String()
}

func promptScaffold(opts Options) string {
	var sb strings.Builder
	sb.WriteString("Tasks:\n")
	n := 1
	task := func(s string) {
		sb.WriteString(strconv.Itoa(n))
		sb.WriteString(". ")
		sb.WriteString(s)
		sb.WriteString("\n")
		n++
	}
	if opts.Summary {
		task("Summarize the note as 5-7 short bullet points in \"summary\".")
	}
	if opts.SOAP {
		task("Organize the note into a non-diagnostic SOAP structure in \"soap_note\". Leave a section empty when the note has no content for it.")
	}
	if opts.Workflow {
		task("Suggest 3-5 documentation or workflow follow-ups in \"workflow_suggestions\". Do not suggest diagnoses or treatments.")
	}
	task("List information a reviewer would expect but that is missing from the note in \"missing_information\".")
	sb.WriteString("Omitted tasks must be returned as empty values.\n\n")
	sb.WriteString(noteMarker)
	return sb.String()
}
