package draft

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSON extracts a Draft from model output. It tolerates Markdown code
// fences and narration around the JSON object.
func ParseJSON(raw string) (Draft, error) {
	s := stripCodeFences(strings.TrimSpace(raw))
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return Draft{}, fmt.Errorf("parse draft json: %w", ErrNoDraft)
	}
	var d Draft
	if err := json.Unmarshal([]byte(s[start:end+1]), &d); err != nil {
		return Draft{}, fmt.Errorf("parse draft json: %w", err)
	}
	d = sanitize(d)
	if d.Empty() {
		return Draft{}, ErrNoDraft
	}
	return d, nil
}

func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag line, e.g. ```json
		s = s[nl+1:]
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

func sanitize(d Draft) Draft {
	d.Summary = cleanList(d.Summary)
	d.WorkflowSuggestions = cleanList(d.WorkflowSuggestions)
	d.MissingInformation = cleanList(d.MissingInformation)
	d.SOAPNote.Subjective = strings.TrimSpace(d.SOAPNote.Subjective)
	d.SOAPNote.Objective = strings.TrimSpace(d.SOAPNote.Objective)
	d.SOAPNote.Assessment = strings.TrimSpace(d.SOAPNote.Assessment)
	d.SOAPNote.Plan = strings.TrimSpace(d.SOAPNote.Plan)
	return d
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, item := range in {
		s := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(item), "-*• "))
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
