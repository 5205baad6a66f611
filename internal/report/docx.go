package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"
)

// WriteDOCX renders Markdown text to a Word document with the same line
// rules as WritePDF: bold headings, italic quotes, bullet and checklist
// items, plain paragraphs.
func WriteDOCX(w io.Writer, markdown string) error {
	doc := docx.New().WithDefaultTheme().WithA4Page()

	scanner := bufio.NewScanner(strings.NewReader(markdown))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		if s == "" || s == "---" {
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
			size := "32"
			switch {
			case i == 2:
				size = "28"
			case i >= 3:
				size = "24"
			}
			doc.AddParagraph().AddText(text).Bold().Size(size)
			continue
		}
		switch {
		case strings.HasPrefix(s, "> "):
			doc.AddParagraph().AddText(strings.TrimPrefix(s, "> ")).Italic().Size("20")
		case strings.HasPrefix(s, "- [ ] "):
			doc.AddParagraph().AddText("☐ " + strings.TrimPrefix(s, "- [ ] "))
		case strings.HasPrefix(s, "- "):
			doc.AddParagraph().AddText("• " + strings.TrimPrefix(s, "- "))
		case strings.HasPrefix(s, "_") && strings.HasSuffix(s, "_"):
			doc.AddParagraph().AddText(strings.Trim(s, "_")).Italic()
		default:
			doc.AddParagraph().AddText(s)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("docx: read markdown: %w", err)
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("docx: %w", err)
	}
	return nil
}
