package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders Markdown text to a simple PDF: headings in bold, list
// items and paragraphs as wrapped text. It is not a Markdown layout engine.
func WritePDF(w io.Writer, markdown string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("CareFlow Report", true)
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	scanner := bufio.NewScanner(strings.NewReader(markdown))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		if s == "" {
			pdf.Ln(3)
			continue
		}
		if strings.HasPrefix(s, "#") {
			i := 0
			for i < len(s) && s[i] == '#' {
				i++
			}
			text := strings.TrimSpace(s[i:])
			if text == "" {
				continue
			}
			size := 16.0
			switch {
			case i == 2:
				size = 13.0
			case i >= 3:
				size = 11.5
			}
			pdf.SetFont("Helvetica", "B", size)
			pdf.CellFormat(0, 8, tr(text), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
			continue
		}
		switch {
		case strings.HasPrefix(s, "> "):
			pdf.SetFont("Helvetica", "I", 10)
			pdf.MultiCell(0, 5, tr(strings.TrimPrefix(s, "> ")), "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
		case strings.HasPrefix(s, "- [ ] "):
			pdf.MultiCell(0, 5, tr("[ ] "+strings.TrimPrefix(s, "- [ ] ")), "", "L", false)
		case strings.HasPrefix(s, "- "):
			pdf.MultiCell(0, 5, tr("* "+strings.TrimPrefix(s, "- ")), "", "L", false)
		case s == "---":
			pdf.Ln(2)
		default:
			pdf.MultiCell(0, 5, tr(strings.Trim(s, "_")), "", "L", false)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("pdf: read markdown: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return nil
}
