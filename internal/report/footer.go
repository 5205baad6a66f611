package report

import (
	"strconv"
	"strings"
)

// appendReproFooter appends a deterministic footer recording how the report
// was produced.
func appendReproFooter(markdown string, r Report) string {
	model := strings.TrimSpace(r.Model)
	if model == "" {
		model = "none"
	}
	var b strings.Builder
	b.WriteString(markdown)
	b.WriteString("\n---\n")
	b.WriteString("Reproducibility: ")
	b.WriteString("engine=")
	b.WriteString(r.Engine)
	b.WriteString("; model=")
	b.WriteString(model)
	b.WriteString("; sections=")
	b.WriteString(strconv.Itoa(sectionCount(r)))
	b.WriteString("; llm_cache=")
	b.WriteString(strconv.FormatBool(r.CacheActive))
	b.WriteString("\n")
	return b.String()
}

func sectionCount(r Report) int {
	n := 0
	if r.Summary != nil {
		n++
	}
	if r.SOAP != nil {
		n++
	}
	if r.Workflow != nil {
		n++
	}
	return n
}
