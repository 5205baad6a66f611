package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/careflow/internal/draft"
	"github.com/hyperifyio/careflow/internal/metrics"
	"github.com/hyperifyio/careflow/internal/report"
	"github.com/hyperifyio/careflow/internal/safety"
	"github.com/hyperifyio/careflow/internal/validate"
)

const followUpNote = "Mr. Smith returns for follow-up on type 2 diabetes. Blood sugar 140-180 mg/dL. Reports fatigue in the afternoons. No chest pain or shortness of breath. Plan: continue metformin and recheck A1c."

type fakeClient struct {
	content string
	err     error
	calls   int
}

func (f *fakeClient) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.content}}}}, nil
}

func testConfig(t *testing.T) Config {
	cfg := DefaultConfig()
	cfg.CacheDir = t.TempDir()
	return cfg
}

func newTestApp(t *testing.T, cfg Config, opts ...Option) *App {
	t.Helper()
	a, err := New(context.Background(), cfg, opts...)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	a.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }
	return a
}

func TestProcess_HeuristicEndToEnd(t *testing.T) {
	a := newTestApp(t, testConfig(t), WithMetrics(metrics.New()))
	r, err := a.Process(context.Background(), followUpNote, a.DefaultOptions())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if r.ID == "" || r.Engine != report.EngineHeuristic || !r.Validation.Valid {
		t.Fatalf("unexpected report header: %+v", r)
	}
	if r.Summary == nil || !r.Summary.Status.OK() || len(r.Summary.KeyPoints) > 5 {
		t.Fatalf("unexpected summary: %+v", r.Summary)
	}
	if r.SOAP == nil || !strings.Contains(r.SOAP.Subjective, "Reports fatigue") || !strings.Contains(r.SOAP.Objective, "Blood sugar 140-180 mg/dL") {
		t.Fatalf("unexpected soap: %+v", r.SOAP)
	}
	if r.Workflow == nil || len(r.Workflow.PriorityItems) != 0 {
		t.Fatalf("negated chest pain must not raise priority: %+v", r.Workflow)
	}
	if r.Draft != nil || r.Safety != nil {
		t.Fatalf("draft must be absent when LLM is off")
	}
	if len(r.Reminders) == 0 || r.GeneratedAt.Year() != 2026 {
		t.Fatalf("reminders/timestamp missing: %+v", r)
	}
}

func TestProcess_WordCountsAgreeOnRawInput(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	in := "Patient reports chest pain * since this morning — worse on exertion. BP 150/95 today, plan ECG *** now."
	r, err := a.Process(context.Background(), in, a.DefaultOptions())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if r.Quality.WordCount != 19 || r.Summary.OriginalWordCount != r.Quality.WordCount {
		t.Fatalf("word counts disagree: quality=%d summary=%d", r.Quality.WordCount, r.Summary.OriginalWordCount)
	}
}

func TestProcess_InvalidInput(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	r, err := a.Process(context.Background(), "Cough for two days.", a.DefaultOptions())
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if r.Validation.Valid || r.Validation.Message != validate.ErrTooShort.Error() {
		t.Fatalf("unexpected validation: %+v", r.Validation)
	}
	if r.Summary != nil || r.SOAP != nil || r.Workflow != nil {
		t.Fatalf("processors must not run on invalid input")
	}
}

func TestProcess_CustomLimitsAndToggles(t *testing.T) {
	cfg := testConfig(t)
	cfg.MinWords = 3
	cfg.DisableSOAP = true
	cfg.NaiveWorkflow = true
	a := newTestApp(t, cfg)
	r, err := a.Process(context.Background(), "No chest pain today.", a.DefaultOptions())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if r.SOAP != nil {
		t.Fatalf("soap disabled but rendered")
	}
	if len(r.Workflow.PriorityItems) == 0 {
		t.Fatalf("naive suggester should flag chest pain mentions")
	}
}

func TestProcess_LLMDraft(t *testing.T) {
	fc := &fakeClient{content: "```json\n{\"summary\":[\"Diabetes follow-up\"],\"soap_note\":{\"subjective\":\"Fatigue\",\"objective\":\"Glucose 140-180\",\"assessment\":\"Not an emergency\",\"plan\":\"Recheck A1c\"},\"workflow_suggestions\":[\"Order A1c\"],\"missing_information\":[\"Allergies\"]}\n```"}
	cfg := testConfig(t)
	cfg.UseLLM = true
	cfg.LLMModel = "test-model"
	a := newTestApp(t, cfg, WithLLMClient(fc))
	if !a.LLMAvailable() {
		t.Fatalf("expected LLM drafter wired")
	}
	r, err := a.Process(context.Background(), followUpNote, a.DefaultOptions())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if r.Engine != report.EngineLLM || r.Model != "test-model" || r.Draft == nil || r.Draft.SOAPNote.Plan != "Recheck A1c" {
		t.Fatalf("unexpected llm report: %+v", r)
	}
	if r.Safety == nil || r.Safety.Status != safety.StatusFlagged {
		t.Fatalf("expected safety flag for emergency wording: %+v", r.Safety)
	}
	// second run is served from the LLM cache
	if _, err := a.Process(context.Background(), followUpNote, a.DefaultOptions()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if fc.calls != 1 {
		t.Fatalf("expected cache hit, got %d calls", fc.calls)
	}
}

func TestProcess_LLMFailureFallsBack(t *testing.T) {
	m := metrics.New()
	cfg := testConfig(t)
	cfg.UseLLM = true
	cfg.LLMModel = "test-model"
	a := newTestApp(t, cfg, WithLLMClient(&fakeClient{content: "not json"}), WithMetrics(m))
	r, err := a.Process(context.Background(), followUpNote, a.DefaultOptions())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if r.Engine != report.EngineHeuristic || r.Draft == nil || len(r.Draft.Summary) == 0 {
		t.Fatalf("expected heuristic draft fallback: %+v", r.Draft)
	}
	if r.Model != "" {
		t.Fatalf("model must be empty for heuristic engine")
	}
}

func TestDraftFacade_NoLLM(t *testing.T) {
	var f DraftFacade
	d, engine := f.Draft(context.Background(), followUpNote, draft.AllParts, nil)
	if engine != report.EngineHeuristic || d.SOAPNote.Objective == "" {
		t.Fatalf("unexpected fallback draft %+v (%s)", d, engine)
	}
}

func TestRun_WritesReport(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(in, []byte(followUpNote), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := testConfig(t)
	cfg.InputPath = in
	cfg.Format = "markdown"
	a := newTestApp(t, cfg)
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := filepath.Join(dir, "note.careflow.md")
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(b), "## SOAP Note") || !strings.Contains(string(b), report.Disclaimer) {
		t.Fatalf("unexpected report:\n%s", b)
	}
}

func TestRun_InvalidNote(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "short.txt")
	if err := os.WriteFile(in, []byte("too short"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := testConfig(t)
	cfg.InputPath = in
	cfg.OutputPath = filepath.Join(dir, "out", "r.json")
	a := newTestApp(t, cfg)
	if err := a.Run(context.Background()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := os.Stat(cfg.OutputPath); !os.IsNotExist(err) {
		t.Fatalf("no output expected for invalid input")
	}
}

func TestOutputPathFor(t *testing.T) {
	if got := OutputPathFor("/in/visit.html", "/out", report.FormatPDF); got != filepath.Join("/out", "visit.careflow.pdf") {
		t.Fatalf("got %q", got)
	}
	if got := OutputPathFor("notes/a.txt", "", report.FormatJSON); got != filepath.Join("notes", "a.careflow.json") {
		t.Fatalf("got %q", got)
	}
}
