package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hyperifyio/careflow/internal/app"
	"github.com/hyperifyio/careflow/internal/report"
)

const note = "Patient reports sore throat and congestion for four days. Temp 99.6°F. Plan: rest and fluids, follow-up if symptoms worsen."

func newWatcher(t *testing.T) (*Watcher, string, string) {
	t.Helper()
	cfg := app.DefaultConfig()
	cfg.CacheDir = ""
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	dir := t.TempDir()
	in, out := filepath.Join(dir, "inbox"), filepath.Join(dir, "outbox")
	w := New(a, in, out, report.FormatMarkdown)
	w.Debounce = 20 * time.Millisecond
	return w, in, out
}

func waitFor(t *testing.T, path string) string {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if b, err := os.ReadFile(path); err == nil && len(b) > 0 {
			return string(b)
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", path)
	return ""
}

func TestWatcher_ProcessesDroppedNote(t *testing.T) {
	w, in, out := newWatcher(t)
	if err := os.MkdirAll(in, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(in, "existing.txt"), []byte(note), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	got := waitFor(t, filepath.Join(out, "existing.careflow.md"))
	if !strings.Contains(got, "## SOAP Note") {
		t.Fatalf("unexpected report:\n%s", got)
	}

	// the inbox is registered before existing files are processed
	if err := os.WriteFile(filepath.Join(in, "dropped.txt"), []byte(note), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(in, "short.txt"), []byte("too short"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(in, "ignored.csv"), []byte(note), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitFor(t, filepath.Join(out, "dropped.careflow.md"))
	msg := waitFor(t, filepath.Join(out, "short.careflow.error.txt"))
	if !strings.HasPrefix(msg, "Text is too short") {
		t.Fatalf("unexpected error marker %q", msg)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not stop on cancel")
	}
	if _, err := os.Stat(filepath.Join(out, "ignored.careflow.md")); !os.IsNotExist(err) {
		t.Fatalf("unsupported file must be ignored")
	}
}

func TestWatcher_RequiresProcess(t *testing.T) {
	w := &Watcher{In: t.TempDir(), Out: t.TempDir()}
	if err := w.Run(context.Background()); err == nil {
		t.Fatalf("expected error without process function")
	}
}

func TestWatcherLoop_ClosedEventsReleasesPendingFiles(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w := &Watcher{
		In:       dir,
		Out:      t.TempDir(),
		Format:   report.FormatMarkdown,
		Debounce: 50 * time.Millisecond,
		Process: func(context.Context, string) (report.Report, error) {
			calls.Add(1)
			return report.Report{}, nil
		},
	}
	events := make(chan fsnotify.Event, 1)
	events <- fsnotify.Event{Name: filepath.Join(dir, "late.txt"), Op: fsnotify.Create}
	close(events)

	done := make(chan error, 1)
	go func() { done <- w.loop(context.Background(), events, make(chan error)) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("loop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not return after events closed")
	}
	time.Sleep(150 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Fatalf("pending file processed after loop returned: %d calls", n)
	}
}
