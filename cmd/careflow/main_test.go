package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/careflow/internal/app"
)

const note = "Mr. Smith returns for follow-up on type 2 diabetes. Blood sugar 140-180 mg/dL. Reports fatigue in the afternoons. No chest pain or shortness of breath."

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	var out, errOut bytes.Buffer
	root := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	root.SetArgs(append([]string{"--cache.dir=", "--env-file="}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestProcess_StdinMarkdown(t *testing.T) {
	out, _, err := run(t, note, "process", "--no-workflow")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !strings.Contains(out, "## SOAP Note") || strings.Contains(out, "## Workflow Suggestions") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestProcess_FileToJSON(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "note.md")
	if err := os.WriteFile(in, []byte(note), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	dst := filepath.Join(dir, "report.json")
	_, errOut, err := run(t, "", "process", in, "--format", "json", "--out", dst)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	b, err := os.ReadFile(dst)
	if err != nil || !strings.Contains(string(b), `"is_valid": true`) {
		t.Fatalf("unexpected report %s (%v)", b, err)
	}
	if !strings.Contains(errOut, "wrote "+dst) {
		t.Fatalf("expected confirmation on stderr, got %q", errOut)
	}
}

func TestProcess_DOCXOutput(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "report.docx")
	if _, _, err := run(t, note, "process", "--format", "docx", "--out", dst); err != nil {
		t.Fatalf("process: %v", err)
	}
	b, err := os.ReadFile(dst)
	if err != nil || !bytes.HasPrefix(b, []byte("PK")) {
		t.Fatalf("expected a docx archive (%v)", err)
	}
}

func TestProcess_InvalidInput(t *testing.T) {
	_, _, err := run(t, "too short", "process")
	if !errors.Is(err, app.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	_, _, err = run(t, "too short", "process", "--min-words", "2")
	if err != nil {
		t.Fatalf("custom min words should accept note: %v", err)
	}
}

func TestConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "careflow.yaml")
	if err := os.WriteFile(cfgPath, []byte("validation:\n  minWords: 50\noutput:\n  format: json\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CAREFLOW_MIN_WORDS", "20")
	// note has 25 words: the file rejects it, the env accepts it
	out, _, err := run(t, note, "--config", cfgPath, "process")
	if err != nil {
		t.Fatalf("env should override file minWords: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("file format should apply, got %q", out)
	}
	// flag beats env
	if _, _, err := run(t, note, "--config", cfgPath, "--min-words", "40", "process"); !errors.Is(err, app.ErrInvalidInput) {
		t.Fatalf("flag should override env: %v", err)
	}
}

func TestSamplesRemindersVersion(t *testing.T) {
	out, _, err := run(t, "", "samples")
	if err != nil || !strings.Contains(out, "chest_pain") || !strings.Contains(out, "follow_up") {
		t.Fatalf("samples list: %q %v", out, err)
	}
	out, errOut, err := run(t, "", "samples", "nope")
	if err != nil || !strings.Contains(errOut, "unknown sample") || !strings.Contains(out, "chest discomfort") {
		t.Fatalf("samples fallback: %q %q %v", out, errOut, err)
	}
	out, _, err = run(t, "", "reminders")
	if err != nil || !strings.HasPrefix(out, "- ") {
		t.Fatalf("reminders: %q %v", out, err)
	}
	out, _, err = run(t, "", "version")
	if err != nil || !strings.Contains(out, app.BuildVersion) {
		t.Fatalf("version: %q %v", out, err)
	}
}

func TestWatch_RequiresDirs(t *testing.T) {
	if _, _, err := run(t, "", "watch"); err == nil {
		t.Fatalf("expected error without --in/--out")
	}
}
