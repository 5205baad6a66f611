package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/careflow/internal/app"
	"github.com/hyperifyio/careflow/internal/ingest"
	"github.com/hyperifyio/careflow/internal/report"
	"github.com/hyperifyio/careflow/internal/samples"
	"github.com/hyperifyio/careflow/internal/vision"
	"github.com/hyperifyio/careflow/internal/workflow"
)

// processRequest is the JSON body of /api/process and /api/export. Nil
// toggles take the configured defaults.
type processRequest struct {
	Text     string `json:"text"`
	Summary  *bool  `json:"summary"`
	SOAP     *bool  `json:"soap"`
	Workflow *bool  `json:"workflow"`
	LLM      *bool  `json:"llm"`
}

func (r processRequest) options(defaults app.Options) app.Options {
	pick := func(v *bool, def bool) bool {
		if v == nil {
			return def
		}
		return *v
	}
	return app.Options{
		Summary:  pick(r.Summary, defaults.Summary),
		SOAP:     pick(r.SOAP, defaults.SOAP),
		Workflow: pick(r.Workflow, defaults.Workflow),
		LLM:      pick(r.LLM, defaults.LLM),
	}
}

// ocrWarning is shown when an uploaded image could not be read.
const ocrWarning = "Could not extract text from the uploaded image; only the typed note was processed."

func (s *Server) bindProcess(c echo.Context) (string, app.Options, error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var req processRequest
		if err := c.Bind(&req); err != nil {
			return "", app.Options{}, echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
		}
		return req.Text, req.options(s.app.DefaultOptions()), nil
	}
	text, opts, _, err := s.bindForm(c)
	return text, opts, err
}

// bindForm reads the HTML form. Unchecked boxes are absent from the form,
// so every toggle defaults to false here. A failed image OCR is not an
// error: the typed text is used and a warning is returned.
func (s *Server) bindForm(c echo.Context) (string, app.Options, string, error) {
	checked := func(name string) bool { return c.FormValue(name) != "" }
	opts := app.Options{
		Summary:  checked("summary"),
		SOAP:     checked("soap"),
		Workflow: checked("workflow"),
		LLM:      checked("llm") && s.app.LLMAvailable(),
	}
	text := c.FormValue("text")
	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return text, opts, "", nil
		}
		return "", opts, "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	f, err := fh.Open()
	if err != nil {
		return "", opts, "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", opts, "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	note, err := s.app.Load(c.Request().Context(), fh.Filename, data)
	if errors.Is(err, ingest.ErrOCRFailed) && !errors.Is(err, vision.ErrNotImage) {
		log.Warn().Err(err).Str("stage", "ocr").Str("request_id", requestID(c)).Msg("image upload ignored")
		return text, opts, ocrWarning, nil
	}
	if err != nil {
		return "", opts, "", uploadError(err)
	}
	opts.Source = note.Source
	switch {
	case note.Kind == ingest.KindImage:
		text = vision.AppendExtracted(text, note.Text)
	case strings.TrimSpace(text) == "":
		text = note.Text
	default:
		text = text + "\n\n" + note.Text
	}
	return text, opts, "", nil
}

func uploadError(err error) error {
	switch {
	case errors.Is(err, ingest.ErrTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, ingest.ErrUnsupported), errors.Is(err, ingest.ErrNoOCR), errors.Is(err, vision.ErrNotImage):
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, err.Error())
	}
	return echo.NewHTTPError(http.StatusBadGateway, err.Error())
}

func (s *Server) index(c echo.Context) error {
	data := s.page()
	if name := c.QueryParam("sample"); name != "" {
		sample, _ := samples.Get(name)
		data.Sample = sample.Name
		data.Text = sample.Text
	}
	return c.Render(http.StatusOK, "index.html", data)
}

func (s *Server) processForm(c echo.Context) error {
	data := s.page()
	data.Text = c.FormValue("text")
	text, opts, warning, err := s.bindForm(c)
	data.Warning = warning
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			data.Error = fmt.Sprint(he.Message)
			return c.Render(he.Code, "index.html", data)
		}
		return err
	}
	data.Text = text
	data.Options = opts
	r, err := s.app.Process(c.Request().Context(), text, opts)
	if errors.Is(err, app.ErrInvalidInput) {
		data.Error = r.Validation.Message
		return c.Render(http.StatusUnprocessableEntity, "index.html", data)
	}
	if err != nil {
		return err
	}
	data.Report = &r
	data.Markdown = report.Markdown(r)
	return c.Render(http.StatusOK, "index.html", data)
}

func (s *Server) apiProcess(c echo.Context) error {
	text, opts, err := s.bindProcess(c)
	if err != nil {
		return err
	}
	r, err := s.app.Process(c.Request().Context(), text, opts)
	if errors.Is(err, app.ErrInvalidInput) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, r.Validation.Message)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) apiValidate(c echo.Context) error {
	var req processRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	res, q := s.app.Validate(req.Text)
	return c.JSON(http.StatusOK, map[string]any{"validation": res, "quality": q})
}

type sampleInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

func (s *Server) apiSamples(c echo.Context) error {
	all := samples.All()
	out := make([]sampleInfo, 0, len(all))
	for _, sm := range all {
		out = append(out, sampleInfo{Name: sm.Name, Title: sm.Title})
	}
	return c.JSON(http.StatusOK, map[string]any{"samples": out, "default": samples.Default()})
}

func (s *Server) apiSample(c echo.Context) error {
	sample, found := samples.Get(c.Param("name"))
	return c.JSON(http.StatusOK, map[string]any{"sample": sample, "fallback": !found})
}

func (s *Server) apiReminders(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"reminders": workflow.DocumentationReminders()})
}

func (s *Server) apiExport(c echo.Context) error {
	format, err := report.ParseFormat(c.Param("format"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	text, opts, err := s.bindProcess(c)
	if err != nil {
		return err
	}
	r, err := s.app.Process(c.Request().Context(), text, opts)
	if errors.Is(err, app.ErrInvalidInput) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, r.Validation.Message)
	}
	if err != nil {
		return err
	}
	body, err := report.Bytes(r, format)
	if err != nil {
		return err
	}
	name := "careflow-report-" + r.ID + format.Extension()
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, format.ContentType(), body)
}
