// Command careflow turns free-form clinical notes into a summary, a SOAP
// note and documentation workflow suggestions. It runs as a CLI, a web
// server or an inbox watcher.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hyperifyio/careflow/internal/app"
	"github.com/hyperifyio/careflow/internal/logging"
)

// exitInvalidInput is returned when a note fails validation.
const exitInvalidInput = 2

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	root := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "careflow:", err)
		if errors.Is(err, app.ErrInvalidInput) {
			os.Exit(exitInvalidInput)
		}
		os.Exit(1)
	}
}

// cli carries resolved configuration between the root and subcommands.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	envFiles   []string
	flags      app.Config
	cfg        app.Config
	logCloser  io.Closer
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr, flags: app.DefaultConfig()}
	root := &cobra.Command{
		Use:           "careflow",
		Short:         "Heuristic clinical documentation helper (research use only)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.resolve(cmd.Flags())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logCloser != nil {
				_ = c.logCloser.Close()
			}
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "Path to YAML or JSON config file")
	pf.StringSliceVar(&c.envFiles, "env-file", app.DefaultEnvFiles, "Dotenv files loaded before resolving configuration")
	pf.BoolVarP(&c.flags.Verbose, "verbose", "v", false, "Verbose logging")
	pf.StringVar(&c.flags.LogFile, "log-file", "", "Also write JSON logs to this rotating file")
	pf.IntVar(&c.flags.MinWords, "min-words", 0, "Minimum words for a valid note (default 10)")
	pf.IntVar(&c.flags.MaxChars, "max-chars", 0, "Maximum characters for a valid note (default 50000)")
	pf.BoolVar(&c.flags.NaiveWorkflow, "naive-workflow", false, "Do not skip negated urgent symptoms")
	pf.StringVar(&c.flags.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	pf.StringVar(&c.flags.LLMModel, "llm.model", "", "Model used for drafted documentation")
	pf.StringVar(&c.flags.LLMAPIKey, "llm.key", "", "API key for the OpenAI-compatible server")
	pf.StringVar(&c.flags.LLMVisionModel, "llm.vision", "", "Model used for image OCR")
	pf.Float64Var(&c.flags.LLMTemperature, "llm.temperature", app.DefaultLLMTemperature, "Sampling temperature for drafts")
	pf.DurationVar(&c.flags.LLMTimeout, "llm.timeout", app.DefaultLLMTimeout, "Timeout for LLM requests")
	pf.StringVar(&c.flags.CacheDir, "cache.dir", app.DefaultCacheDir, "LLM cache directory (empty disables)")
	pf.DurationVar(&c.flags.CacheMaxAge, "cache.maxAge", 0, "Purge cache entries older than this; 0 disables")
	pf.BoolVar(&c.flags.CacheClear, "cache.clear", false, "Clear the cache directory on start")
	pf.BoolVar(&c.flags.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	pf.BoolVar(&c.flags.LLMCacheOnly, "cache.only", false, "Serve drafts from cache only")

	root.AddCommand(
		newProcessCmd(c),
		newServeCmd(c),
		newWatchCmd(c),
		newSamplesCmd(c),
		newRemindersCmd(c),
		newVersionCmd(c),
	)
	return root
}

// resolve applies precedence flags > env > config file > defaults and sets
// up logging.
func (c *cli) resolve(fs *pflag.FlagSet) error {
	if err := app.LoadEnvFiles(c.envFiles...); err != nil {
		return err
	}
	cfg := app.DefaultConfig()
	if c.configPath != "" {
		fc, err := app.LoadConfigFile(c.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)
	applyChangedFlags(fs, &cfg, c.flags)
	c.cfg = cfg
	c.logCloser = logging.Setup(logging.Options{Verbose: cfg.Verbose, File: cfg.LogFile, Console: c.stderr})
	log.Debug().Str("config", c.configPath).Bool("llm", cfg.LLMConfigured()).Msg("configuration resolved")
	return nil
}

// flagTargets maps a flag name to the Config field it sets.
var flagTargets = map[string]func(dst *app.Config, src app.Config){
	"verbose":           func(d *app.Config, s app.Config) { d.Verbose = s.Verbose },
	"log-file":          func(d *app.Config, s app.Config) { d.LogFile = s.LogFile },
	"min-words":         func(d *app.Config, s app.Config) { d.MinWords = s.MinWords },
	"max-chars":         func(d *app.Config, s app.Config) { d.MaxChars = s.MaxChars },
	"naive-workflow":    func(d *app.Config, s app.Config) { d.NaiveWorkflow = s.NaiveWorkflow },
	"llm.base":          func(d *app.Config, s app.Config) { d.LLMBaseURL = s.LLMBaseURL },
	"llm.model":         func(d *app.Config, s app.Config) { d.LLMModel = s.LLMModel },
	"llm.key":           func(d *app.Config, s app.Config) { d.LLMAPIKey = s.LLMAPIKey },
	"llm.vision":        func(d *app.Config, s app.Config) { d.LLMVisionModel = s.LLMVisionModel },
	"llm.temperature":   func(d *app.Config, s app.Config) { d.LLMTemperature = s.LLMTemperature },
	"llm.timeout":       func(d *app.Config, s app.Config) { d.LLMTimeout = s.LLMTimeout },
	"cache.dir":         func(d *app.Config, s app.Config) { d.CacheDir = s.CacheDir },
	"cache.maxAge":      func(d *app.Config, s app.Config) { d.CacheMaxAge = s.CacheMaxAge },
	"cache.clear":       func(d *app.Config, s app.Config) { d.CacheClear = s.CacheClear },
	"cache.strictPerms": func(d *app.Config, s app.Config) { d.CacheStrictPerms = s.CacheStrictPerms },
	"cache.only":        func(d *app.Config, s app.Config) { d.LLMCacheOnly = s.LLMCacheOnly },
	"format":            func(d *app.Config, s app.Config) { d.Format = s.Format },
	"out":               func(d *app.Config, s app.Config) { d.OutputPath = s.OutputPath },
	"no-summary":        func(d *app.Config, s app.Config) { d.DisableSummary = s.DisableSummary },
	"no-soap":           func(d *app.Config, s app.Config) { d.DisableSOAP = s.DisableSOAP },
	"no-workflow":       func(d *app.Config, s app.Config) { d.DisableWorkflow = s.DisableWorkflow },
	"llm":               func(d *app.Config, s app.Config) { d.UseLLM = s.UseLLM },
	"addr":              func(d *app.Config, s app.Config) { d.Addr = s.Addr },
	"in":                func(d *app.Config, s app.Config) { d.WatchIn = s.WatchIn },
}

func applyChangedFlags(fs *pflag.FlagSet, dst *app.Config, src app.Config) {
	fs.Visit(func(f *pflag.Flag) {
		if set, ok := flagTargets[f.Name]; ok {
			set(dst, src)
		}
	})
}

func (c *cli) newApp(ctx context.Context, opts ...app.Option) (*app.App, error) {
	return app.New(ctx, c.cfg, opts...)
}
