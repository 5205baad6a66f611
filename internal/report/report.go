// Package report defines the assembled processing result and renders it as
// Markdown, JSON, PDF or DOCX.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hyperifyio/careflow/internal/draft"
	"github.com/hyperifyio/careflow/internal/safety"
	"github.com/hyperifyio/careflow/internal/soap"
	"github.com/hyperifyio/careflow/internal/summarize"
	"github.com/hyperifyio/careflow/internal/validate"
	"github.com/hyperifyio/careflow/internal/workflow"
)

// Disclaimer is printed on every rendered report.
const Disclaimer = "AI CareFlow is for research and educational purposes only. Outputs are approximate and must not be used for real patient care."

// Placeholder stands in for an empty SOAP section.
const Placeholder = "No content identified for this section; please review and complete manually."

const (
	EngineHeuristic = "heuristic"
	EngineLLM       = "llm"
)

// Report is the result of processing one note. Optional parts are nil when
// the caller turned them off.
type Report struct {
	ID             string                `json:"id"`
	Engine         string                `json:"engine"`
	Source         string                `json:"source,omitempty"`
	Model          string                `json:"model,omitempty"`
	Validation     validate.Result       `json:"validation"`
	Quality        validate.Quality      `json:"quality"`
	Summary        *summarize.Result     `json:"summary,omitempty"`
	SOAP           *soap.Note            `json:"soap,omitempty"`
	SOAPValidation soap.Completeness     `json:"soap_validation,omitempty"`
	Workflow       *workflow.Suggestions `json:"workflow,omitempty"`
	Reminders      []string              `json:"reminders"`
	Draft          *draft.Draft          `json:"draft,omitempty"`
	Safety         *safety.Annotation    `json:"safety,omitempty"`
	CacheActive    bool                  `json:"-"`
	GeneratedAt    time.Time             `json:"generated_at"`
}

// Format selects an export encoding.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatMarkdown, FormatJSON, FormatPDF, FormatDOCX}

// ParseFormat accepts a format name or a common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md", "":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "pdf":
		return FormatPDF, nil
	case "docx", "word":
		return FormatDOCX, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "text/markdown; charset=utf-8"
}

// Extension returns the file extension of f including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatPDF:
		return ".pdf"
	case FormatDOCX:
		return ".docx"
	}
	return ".md"
}

// JSON returns the indented JSON encoding of r.
func JSON(r Report) ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return append(b, '\n'), nil
}

// Write renders r in format f to w.
func Write(w io.Writer, r Report, f Format) error {
	switch f {
	case FormatJSON:
		b, err := JSON(r)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case FormatPDF:
		return WritePDF(w, Markdown(r))
	case FormatDOCX:
		return WriteDOCX(w, Markdown(r))
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(r))
		return err
	}
	return fmt.Errorf("unsupported format %q", f)
}

// Bytes is Write into a buffer.
func Bytes(r Report, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, r, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
