package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/careflow/internal/report"
)

// ProcessFile loads path through the ingest loader and processes it.
func (a *App) ProcessFile(ctx context.Context, path string, opts Options) (report.Report, error) {
	note, err := a.loader.LoadFile(ctx, path)
	if err != nil {
		return report.Report{}, err
	}
	if opts.Source == "" {
		opts.Source = note.Source
	}
	return a.Process(ctx, note.Text, opts)
}

// Run processes cfg.InputPath and writes the report to cfg.OutputPath in
// cfg.Format. Validation failures are returned as errors after logging.
func (a *App) Run(ctx context.Context) error {
	format, err := report.ParseFormat(a.cfg.Format)
	if err != nil {
		return err
	}
	r, err := a.ProcessFile(ctx, a.cfg.InputPath, a.DefaultOptions())
	if err != nil {
		return err
	}
	out := a.cfg.OutputPath
	if trim(out) == "" {
		out = OutputPathFor(a.cfg.InputPath, "", format)
	}
	if err := WriteReport(out, r, format); err != nil {
		return err
	}
	log.Info().Str("stage", "report").Str("out", out).Str("format", string(format)).Msg("wrote report")
	return nil
}

// WriteReport renders r into path, creating parent directories.
func WriteReport(path string, r report.Report, format report.Format) error {
	b, err := report.Bytes(r, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// OutputPathFor derives the report path for input. When dir is empty the
// report is written next to the input.
func OutputPathFor(input, dir string, format report.Format) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ".careflow" + format.Extension()
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base)
}
