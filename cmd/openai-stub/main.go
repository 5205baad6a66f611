// Command openai-stub serves a minimal OpenAI-compatible API for local runs
// and tests of the LLM drafter and the OCR reader. Drafts come from the
// heuristic engine so that responses are deterministic.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/careflow/internal/draft"
)

// DefaultOCRText is returned for every image when OCR_TEXT is unset.
const DefaultOCRText = "Vital signs: BP 128/82 mmHg, HR 76 bpm, Temp 98.2°F."

type chatMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// text returns the message content whether it was sent as a string or as
// multi-part content.
func (m chatMessage) text() (string, bool) {
	var s string
	if err := json.Unmarshal(m.Content, &s); err == nil {
		return s, false
	}
	var parts []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	_ = json.Unmarshal(m.Content, &parts)
	var sb strings.Builder
	hasImage := false
	for _, p := range parts {
		if p.Type == "image_url" {
			hasImage = true
		}
		sb.WriteString(p.Text)
	}
	return sb.String(), hasImage
}

func newHandler(model, ocrText string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   []map[string]any{{"id": model, "object": "model"}},
		})
	})
	heuristic := draft.NewHeuristic()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		sys, _ := req.Messages[0].text()
		user, hasImage := "", false
		if len(req.Messages) >= 2 {
			user, hasImage = req.Messages[len(req.Messages)-1].text()
		}
		var content string
		switch {
		case hasImage || strings.Contains(sys, "OCR assistant"):
			content = ocrText
		case strings.Contains(sys, "clinical documentation assistant"):
			note := user
			if i := strings.LastIndex(user, "Clinical note:\n"); i >= 0 {
				note = user[i+len("Clinical note:\n"):]
			}
			d, _ := heuristic.Draft(r.Context(), note, draft.AllParts)
			b, _ := json.Marshal(d)
			content = string(b)
		default:
			http.Error(w, "unexpected system prompt", http.StatusBadRequest)
			return
		}
		log.Debug().Str("model", req.Model).Int("reply_len", len(content)).Msg("stub completion")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "stub",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   req.Model,
			"choices": []map[string]any{
				{"index": 0, "finish_reason": "stop", "message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	})
	return mux
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	model := strings.TrimSpace(os.Getenv("MODEL_ID"))
	if model == "" {
		model = "test-model"
	}
	addr := strings.TrimSpace(os.Getenv("ADDR"))
	if addr == "" {
		addr = ":8081"
	}
	ocrText := os.Getenv("OCR_TEXT")
	if ocrText == "" {
		ocrText = DefaultOCRText
	}

	srv := &http.Server{Addr: addr, Handler: newHandler(model, ocrText), ReadHeaderTimeout: 5 * time.Second}
	log.Info().Str("addr", addr).Str("model", model).Msg("openai-stub listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("openai-stub stopped")
	}
	_ = srv.Shutdown(context.Background())
}
