package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/careflow/internal/budget"
	"github.com/hyperifyio/careflow/internal/cache"
	"github.com/hyperifyio/careflow/internal/draft"
	"github.com/hyperifyio/careflow/internal/ingest"
	"github.com/hyperifyio/careflow/internal/llm"
	"github.com/hyperifyio/careflow/internal/metrics"
	"github.com/hyperifyio/careflow/internal/report"
	"github.com/hyperifyio/careflow/internal/safety"
	"github.com/hyperifyio/careflow/internal/soap"
	"github.com/hyperifyio/careflow/internal/summarize"
	"github.com/hyperifyio/careflow/internal/validate"
	"github.com/hyperifyio/careflow/internal/vision"
	"github.com/hyperifyio/careflow/internal/workflow"
)

// ErrInvalidInput wraps validation failures returned by Process.
var ErrInvalidInput = errors.New("invalid input")

type App struct {
	cfg        Config
	validator  validate.Validator
	summarizer *summarize.Summarizer
	generator  *soap.Generator
	suggester  *workflow.Suggester
	drafts     DraftFacade
	loader     *ingest.Loader
	metrics    *metrics.Recorder
	llmCache   *cache.LLMCache
	client     llm.Client
	now        func() time.Time
}

// Option customizes New.
type Option func(*App)

// WithMetrics records pipeline metrics on m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(a *App) { a.metrics = m }
}

// WithLLMClient replaces the OpenAI-compatible client built from cfg.
func WithLLMClient(c llm.Client) Option {
	return func(a *App) { a.client = c }
}

// New wires the processors. An unreachable LLM backend is not an error: the
// heuristic engine keeps working.
func New(ctx context.Context, cfg Config, opts ...Option) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	a := &App{
		cfg:        cfg,
		validator:  validate.Validator{Limits: limitsFrom(cfg)},
		summarizer: summarize.New(),
		generator:  soap.NewGenerator(),
		suggester:  &workflow.Suggester{NegationAware: !cfg.NaiveWorkflow},
		loader:     &ingest.Loader{},
		now:        time.Now,
	}
	for _, o := range opts {
		o(a)
	}
	a.drafts.fb = &draft.HeuristicDrafter{Summarizer: a.summarizer, Generator: a.generator, Suggester: a.suggester}

	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			_, _ = cache.PurgeLLMCacheByAge(cfg.CacheDir, cfg.CacheMaxAge)
		}
		if cfg.CacheMaxBytes > 0 || cfg.CacheMaxCount > 0 {
			_, _ = cache.EnforceLLMCacheLimits(cfg.CacheDir, cfg.CacheMaxBytes, cfg.CacheMaxCount)
		}
		a.llmCache = &cache.LLMCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}

	if a.client == nil && cfg.LLMConfigured() {
		provider := llm.New(llm.Config{BaseURL: cfg.LLMBaseURL, APIKey: cfg.LLMAPIKey, Timeout: cfg.LLMTimeout})
		a.client = provider
		a.preflight(ctx, provider)
	}
	if a.client != nil && trim(cfg.LLMModel) != "" {
		a.drafts.llm = &draft.LLMDrafter{
			Client:               a.client,
			Model:                cfg.LLMModel,
			Temperature:          float32(cfg.LLMTemperature),
			ReservedOutputTokens: budget.DefaultReservedOutput,
			Cache:                a.llmCache,
			CacheOnly:            cfg.LLMCacheOnly,
		}
	}
	if a.client != nil && trim(cfg.LLMVisionModel) != "" {
		a.loader.OCR = &vision.Reader{Client: a.client, Model: cfg.LLMVisionModel, Cache: a.llmCache}
	}
	return a, nil
}

// preflight lists models as a connectivity check. It only logs.
func (a *App) preflight(ctx context.Context, lister llm.ModelLister) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := lister.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing with heuristic fallback")
		return
	}
	if len(models.Models) == 0 {
		log.Warn().Msg("LLM returned zero models")
		return
	}
	log.Info().Int("count", len(models.Models)).Msg("LLM models available")
}

func limitsFrom(cfg Config) validate.Limits {
	l := validate.DefaultLimits
	if cfg.MinWords > 0 {
		l.MinWords = cfg.MinWords
	}
	if cfg.MaxChars > 0 {
		l.MaxChars = cfg.MaxChars
	}
	return l
}

// Config returns the configuration the App was built with.
func (a *App) Config() Config { return a.cfg }

// Metrics returns the recorder passed to New, possibly nil.
func (a *App) Metrics() *metrics.Recorder { return a.metrics }

// LLMAvailable reports whether the LLM drafter is wired.
func (a *App) LLMAvailable() bool { return a.drafts.llm != nil }

// Load converts an uploaded or dropped file into a note.
func (a *App) Load(ctx context.Context, name string, data []byte) (ingest.Note, error) {
	return a.loader.Load(ctx, name, data)
}

// Options selects what Process produces.
type Options struct {
	Summary  bool
	SOAP     bool
	Workflow bool
	// LLM requests a drafted documentation section.
	LLM    bool
	Source string
}

// DefaultOptions reflects the configured feature toggles.
func (a *App) DefaultOptions() Options {
	return Options{
		Summary:  !a.cfg.DisableSummary,
		SOAP:     !a.cfg.DisableSOAP,
		Workflow: !a.cfg.DisableWorkflow,
		LLM:      a.cfg.UseLLM,
	}
}

// Validate runs the validation gate and the quality metrics.
func (a *App) Validate(text string) (validate.Result, validate.Quality) {
	start := time.Now()
	res := a.validator.Validate(text)
	q := validate.CheckTextQuality(text)
	a.metrics.Validation(res.Valid)
	a.metrics.Observe("validate", time.Since(start))
	log.Debug().Str("stage", "validate").Bool("valid", res.Valid).Int("words", q.WordCount).Dur("elapsed", time.Since(start)).Msg("validated")
	return res, q
}

// Process validates text and runs the requested processors. When the text
// fails validation the returned report carries the validation result and
// the error wraps ErrInvalidInput.
func (a *App) Process(ctx context.Context, text string, opts Options) (report.Report, error) {
	start := time.Now()
	r := report.Report{
		ID:          uuid.NewString(),
		Engine:      report.EngineHeuristic,
		Source:      opts.Source,
		Reminders:   workflow.DocumentationReminders(),
		CacheActive: a.llmCache != nil,
		GeneratedAt: a.now().UTC(),
	}
	r.Validation, r.Quality = a.Validate(text)
	if !r.Validation.Valid {
		return r, fmt.Errorf("%w: %s", ErrInvalidInput, r.Validation.Message)
	}
	if opts.Summary {
		res := timed(a, "summary", func() summarize.Result { return a.summarizer.Summarize(text) },
			func(res summarize.Result) string { return string(res.Status) })
		r.Summary = &res
	}
	if opts.SOAP {
		note := timed(a, "soap", func() soap.Note { return a.generator.Generate(text) },
			func(n soap.Note) string { return string(n.Status) })
		r.SOAP = &note
		if note.Status.OK() {
			r.SOAPValidation = soap.Validate(note)
		}
	}
	if opts.Workflow {
		sug := timed(a, "workflow", func() workflow.Suggestions { return a.suggester.Suggest(text) },
			func(s workflow.Suggestions) string { return string(s.Status) })
		r.Workflow = &sug
	}
	if opts.LLM {
		d, engine := a.drafts.Draft(ctx, text, draft.Options{Summary: opts.Summary, SOAP: opts.SOAP, Workflow: opts.Workflow}, a.metrics)
		r.Draft = &d
		r.Engine = engine
		if engine == report.EngineLLM {
			r.Model = a.cfg.LLMModel
		}
		ann := safety.Annotate(draftTexts(d)...)
		r.Safety = &ann
	}
	log.Info().Str("stage", "process").Str("id", r.ID).Str("engine", r.Engine).Int("words", r.Quality.WordCount).Dur("elapsed", time.Since(start)).Msg("note processed")
	return r, nil
}

// timed runs one processor and records its status and duration.
func timed[T any](a *App, stage string, fn func() T, status func(T) string) T {
	start := time.Now()
	res := fn()
	elapsed := time.Since(start)
	st := status(res)
	a.metrics.Result(stage, st)
	a.metrics.Observe(stage, elapsed)
	log.Debug().Str("stage", stage).Str("status", st).Dur("elapsed", elapsed).Msg("processor finished")
	return res
}

func draftTexts(d draft.Draft) []string {
	out := make([]string, 0, len(d.Summary)+len(d.WorkflowSuggestions)+4)
	out = append(out, d.Summary...)
	out = append(out, d.SOAPNote.Subjective, d.SOAPNote.Objective, d.SOAPNote.Assessment, d.SOAPNote.Plan)
	out = append(out, d.WorkflowSuggestions...)
	return out
}

// DraftFacade prefers the LLM drafter and falls back to the heuristic one.
type DraftFacade struct {
	llm draft.Drafter
	fb  draft.Drafter
}

// Draft returns the draft and the engine that produced it. It never fails.
func (f *DraftFacade) Draft(ctx context.Context, note string, opts draft.Options, m *metrics.Recorder) (draft.Draft, string) {
	start := time.Now()
	if f.llm != nil {
		d, err := f.llm.Draft(ctx, note, opts)
		if err == nil {
			m.Observe("draft", time.Since(start))
			return d, report.EngineLLM
		}
		m.Fallback()
		log.Warn().Err(err).Str("stage", "draft").Msg("LLM draft failed, using heuristic fallback")
	}
	fb := f.fb
	if fb == nil {
		fb = draft.NewHeuristic()
	}
	d, _ := fb.Draft(ctx, note, opts)
	m.Observe("draft", time.Since(start))
	return d, report.EngineHeuristic
}
