package draft

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/careflow/internal/cache"
)

const sampleJSON = `{"summary":["- Follow-up for diabetes","Fatigue reported"],"soap_note":{"subjective":"Reports fatigue.","objective":"Blood sugar 140-180 mg/dL.","assessment":"","plan":"Follow-up scheduled."},"workflow_suggestions":["Document vitals"],"missing_information":["Vital signs"]}`

type fakeClient struct {
	calls   int
	content string
	err     error
	last    openai.ChatCompletionRequest
}

func (f *fakeClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Role: "assistant", Content: f.content}}}}, nil
}

func TestParseJSON_StripsFencesAndBullets(t *testing.T) {
	d, err := ParseJSON("```json\n" + sampleJSON + "\n```")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(d.Summary) != 2 || d.Summary[0] != "Follow-up for diabetes" {
		t.Fatalf("unexpected summary %q", d.Summary)
	}
	if d.SOAPNote.Objective != "Blood sugar 140-180 mg/dL." {
		t.Fatalf("unexpected objective %q", d.SOAPNote.Objective)
	}
}

func TestParseJSON_NarrationAroundObject(t *testing.T) {
	d, err := ParseJSON("Here is the result:\n" + sampleJSON + "\nThanks")
	if err != nil || len(d.WorkflowSuggestions) != 1 {
		t.Fatalf("parse: %v %+v", err, d)
	}
}

func TestParseJSON_Rejects(t *testing.T) {
	for _, raw := range []string{"", "not json", "{\"summary\": [", `{"summary":[],"soap_note":{}}`} {
		if _, err := ParseJSON(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
	if _, err := ParseJSON(`{"summary":[" "]}`); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft, got %v", err)
	}
}

func TestLLMDrafter_UsesCache(t *testing.T) {
	fc := &fakeClient{content: sampleJSON}
	d := &LLMDrafter{Client: fc, Model: "gpt-4o-mini", Cache: &cache.LLMCache{Dir: t.TempDir()}}
	note := "Mr. Smith returns for follow-up on type 2 diabetes. Reports fatigue."
	first, err := d.Draft(context.Background(), note, AllParts)
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	second, err := d.Draft(context.Background(), note, AllParts)
	if err != nil {
		t.Fatalf("draft (cached): %v", err)
	}
	if fc.calls != 1 {
		t.Fatalf("expected one backend call, got %d", fc.calls)
	}
	if strings.Join(first.Summary, "|") != strings.Join(second.Summary, "|") {
		t.Fatalf("cached draft differs")
	}
	if fc.last.Messages[0].Content != SystemMessage || !strings.Contains(fc.last.Messages[1].Content, note) {
		t.Fatalf("unexpected prompt %+v", fc.last.Messages)
	}
}

func TestLLMDrafter_ErrorsAndCacheOnly(t *testing.T) {
	fc := &fakeClient{err: errors.New("boom")}
	d := &LLMDrafter{Client: fc, Model: "m"}
	if _, err := d.Draft(context.Background(), "note text", AllParts); err == nil {
		t.Fatalf("expected backend error")
	}
	fc = &fakeClient{content: "I cannot help with that."}
	d = &LLMDrafter{Client: fc, Model: "m"}
	if _, err := d.Draft(context.Background(), "note text", AllParts); err == nil {
		t.Fatalf("expected parse error")
	}
	d = &LLMDrafter{Client: fc, Model: "m", Cache: &cache.LLMCache{Dir: t.TempDir()}, CacheOnly: true}
	if _, err := d.Draft(context.Background(), "note text", AllParts); err == nil {
		t.Fatalf("expected cache-only miss")
	}
	if _, err := (&LLMDrafter{}).Draft(context.Background(), "x", AllParts); err == nil {
		t.Fatalf("expected not configured error")
	}
}

func TestLLMDrafter_OptionsClearUnrequestedParts(t *testing.T) {
	d := &LLMDrafter{Client: &fakeClient{content: sampleJSON}, Model: "m"}
	got, err := d.Draft(context.Background(), "note", Options{Summary: true})
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if len(got.WorkflowSuggestions) != 0 || got.SOAPNote.Objective != "" {
		t.Fatalf("unrequested parts must be cleared: %+v", got)
	}
}

func TestBuildUserPrompt_ListsRequestedTasks(t *testing.T) {
	p := BuildUserPrompt("NOTE", Options{SOAP: true})
	if !strings.Contains(p, "1. Organize the note") || strings.Contains(p, "bullet points") {
		t.Fatalf("unexpected prompt %q", p)
	}
	if !strings.HasSuffix(p, "Clinical note:\nNOTE") {
		t.Fatalf("note must close the prompt: %q", p)
	}
}

func TestHeuristicDrafter(t *testing.T) {
	d, err := NewHeuristic().Draft(context.Background(), "Mr. Smith returns for follow-up on type 2 diabetes. Blood sugar 140-180 mg/dL. Reports fatigue. No chest pain or shortness of breath.", AllParts)
	if err != nil {
		t.Fatalf("heuristic: %v", err)
	}
	if len(d.Summary) == 0 || len(d.WorkflowSuggestions) == 0 {
		t.Fatalf("expected content, got %+v", d)
	}
	if !strings.Contains(d.SOAPNote.Subjective, "Reports fatigue") {
		t.Fatalf("unexpected subjective %q", d.SOAPNote.Subjective)
	}
	found := false
	for _, m := range d.MissingInformation {
		if m == missingHints["assessment"] {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected missing assessment hint, got %q", d.MissingInformation)
	}
}
