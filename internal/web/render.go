package web

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/hyperifyio/careflow/internal/app"
	"github.com/hyperifyio/careflow/internal/report"
	"github.com/hyperifyio/careflow/internal/samples"
	"github.com/hyperifyio/careflow/internal/soap"
)

//go:embed templates/*.html
var templateFS embed.FS

type renderer struct {
	t *template.Template
}

func newRenderer() *renderer {
	funcs := template.FuncMap{
		"sectionTitle": report.SectionTitle,
		"sectionText":  func(n *soap.Note, sec soap.Section) string { return n.Get(sec) },
	}
	return &renderer{t: template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))}
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.t.ExecuteTemplate(w, name, data)
}

// pageData feeds templates/index.html.
type pageData struct {
	Samples      []samples.Sample
	Sample       string
	Text         string
	Options      app.Options
	LLMAvailable bool
	Sections     []soap.Section
	Report       *report.Report
	Markdown     string
	Error        string
	Warning      string
	Disclaimer   string
	Placeholder  string
	Version      string
}

func (s *Server) page() pageData {
	return pageData{
		Samples:      samples.All(),
		Options:      s.app.DefaultOptions(),
		LLMAvailable: s.app.LLMAvailable(),
		Sections:     soap.Sections,
		Disclaimer:   report.Disclaimer,
		Placeholder:  report.Placeholder,
		Version:      app.BuildVersion,
	}
}
