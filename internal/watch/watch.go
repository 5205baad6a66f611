// Package watch processes notes dropped into an inbox directory and writes
// reports into an outbox directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/careflow/internal/app"
	"github.com/hyperifyio/careflow/internal/ingest"
	"github.com/hyperifyio/careflow/internal/report"
)

// DefaultDebounce waits for writers to finish before a file is processed.
const DefaultDebounce = 300 * time.Millisecond

// ProcessFunc turns one input file into a report.
type ProcessFunc func(ctx context.Context, path string) (report.Report, error)

// Watcher watches In and writes one report per note into Out.
type Watcher struct {
	In       string
	Out      string
	Format   report.Format
	Process  ProcessFunc
	Debounce time.Duration

	mu   sync.Mutex
	seen map[string]time.Time
}

// New builds a Watcher that processes files with a using its default
// options.
func New(a *app.App, in, out string, format report.Format) *Watcher {
	return &Watcher{
		In:     in,
		Out:    out,
		Format: format,
		Process: func(ctx context.Context, path string) (report.Report, error) {
			return a.ProcessFile(ctx, path, a.DefaultOptions())
		},
		Debounce: DefaultDebounce,
	}
}

// Run processes files already in In, then watches for new ones until ctx is
// done.
func (w *Watcher) Run(ctx context.Context) error {
	if w.Process == nil {
		return errors.New("watch: no process function")
	}
	for _, dir := range []string{w.In, w.Out} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("watch: create %s: %w", dir, err)
		}
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(w.In); err != nil {
		return fmt.Errorf("watch: add %s: %w", w.In, err)
	}
	log.Info().Str("stage", "watch").Str("in", w.In).Str("out", w.Out).Msg("watching inbox")

	for _, p := range w.existing() {
		w.handle(ctx, p)
	}
	return w.loop(ctx, fw.Events, fw.Errors)
}

// loop debounces events per file and processes each file once its writes
// settle. Pending debounce timers are released when loop returns.
func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ready := make(chan string)
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timers := map[string]*time.Timer{}
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 || !w.wanted(ev.Name) {
				continue
			}
			name := ev.Name
			if t, ok := timers[name]; ok {
				t.Reset(debounce)
				continue
			}
			timers[name] = time.AfterFunc(debounce, func() {
				select {
				case ready <- name:
				case <-ctx.Done():
				}
			})
		case name := <-ready:
			delete(timers, name)
			w.handle(ctx, name)
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Str("stage", "watch").Msg("watcher error")
		}
	}
}

func (w *Watcher) existing() []string {
	entries, err := os.ReadDir(w.In)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		p := filepath.Join(w.In, e.Name())
		if !e.IsDir() && w.wanted(p) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func (w *Watcher) wanted(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return ingest.IsSupported(path)
}

// handle processes path once per modification time.
func (w *Watcher) handle(ctx context.Context, path string) {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return
	}
	w.mu.Lock()
	if w.seen == nil {
		w.seen = map[string]time.Time{}
	}
	if prev, ok := w.seen[path]; ok && prev.Equal(fi.ModTime()) {
		w.mu.Unlock()
		return
	}
	w.seen[path] = fi.ModTime()
	w.mu.Unlock()

	start := time.Now()
	r, err := w.Process(ctx, path)
	if err != nil {
		log.Warn().Err(err).Str("stage", "watch").Str("file", filepath.Base(path)).Msg("note not processed")
		w.writeError(path, err)
		return
	}
	out := app.OutputPathFor(path, w.Out, w.Format)
	if err := app.WriteReport(out, r, w.Format); err != nil {
		log.Error().Err(err).Str("stage", "watch").Str("out", out).Msg("write report failed")
		return
	}
	log.Info().Str("stage", "watch").Str("file", filepath.Base(path)).Str("out", out).Dur("elapsed", time.Since(start)).Msg("note processed")
}

// writeError leaves a visible marker in Out for a rejected note.
func (w *Watcher) writeError(path string, cause error) {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".careflow.error.txt"
	msg := cause.Error()
	if errors.Is(cause, app.ErrInvalidInput) {
		msg = strings.TrimPrefix(msg, app.ErrInvalidInput.Error()+": ")
	}
	if err := os.WriteFile(filepath.Join(w.Out, name), []byte(msg+"\n"), 0o644); err != nil {
		log.Error().Err(err).Str("stage", "watch").Msg("write error marker failed")
	}
}
