package draft

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/careflow/internal/budget"
	"github.com/hyperifyio/careflow/internal/cache"
	"github.com/hyperifyio/careflow/internal/llm"
)

// LLMDrafter calls an OpenAI-compatible endpoint and enforces the JSON
// contract described by SystemMessage.
type LLMDrafter struct {
	Client      llm.Client
	Model       string
	Temperature float32
	// ReservedOutputTokens is kept free in the context window for the reply.
	ReservedOutputTokens int
	Cache                *cache.LLMCache
	// CacheOnly returns from cache and fails fast on a miss.
	CacheOnly bool
}

// Draft implements Drafter. Errors are returned so that callers can fall
// back to the heuristic drafter.
func (d *LLMDrafter) Draft(ctx context.Context, note string, opts Options) (Draft, error) {
	if d == nil || d.Client == nil || strings.TrimSpace(d.Model) == "" {
		return Draft{}, errors.New("llm drafter not configured")
	}
	scaffold := promptScaffold(opts)
	fitted, trimmed := budget.FitNote(d.Model, d.ReservedOutputTokens, SystemMessage, scaffold, note)
	if trimmed {
		log.Warn().Str("stage", "draft").Str("model", d.Model).Int("chars", len(note)).Int("kept", len(fitted)).Msg("note trimmed to fit model context")
	}
	user := scaffold + fitted
	key := cache.KeyFrom(d.Model, SystemMessage+"\n\n"+user)

	if d.Cache != nil {
		var cached Draft
		if d.Cache.GetJSON(ctx, key, &cached) && !cached.Empty() {
			log.Debug().Str("stage", "draft").Str("model", d.Model).Msg("draft cache hit")
			return cached, nil
		}
	}
	if d.CacheOnly {
		return Draft{}, errors.New("draft cache-only: not found")
	}

	start := time.Now()
	// prompt sizes only; the note itself is never logged
	log.Debug().Str("stage", "draft").Str("model", d.Model).Int("system_len", len(SystemMessage)).Int("user_len", len(user)).Msg("draft prompt")
	resp, err := d.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: d.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemMessage},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: d.Temperature,
		N:           1,
	})
	if err != nil {
		return Draft{}, fmt.Errorf("draft call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Draft{}, errors.New("no choices")
	}
	out, err := ParseJSON(resp.Choices[0].Message.Content)
	if err != nil {
		return Draft{}, err
	}
	out = applyOptions(out, opts)
	log.Info().Str("stage", "draft").Str("model", d.Model).Dur("elapsed", time.Since(start)).Int("summary_items", len(out.Summary)).Int("suggestions", len(out.WorkflowSuggestions)).Msg("draft ready")
	if d.Cache != nil {
		if err := d.Cache.SaveJSON(ctx, key, out); err != nil {
			log.Warn().Err(err).Str("stage", "draft").Msg("draft cache save failed")
		}
	}
	return out, nil
}

// applyOptions clears parts the caller did not request.
func applyOptions(d Draft, opts Options) Draft {
	if !opts.Summary {
		d.Summary = []string{}
	}
	if !opts.SOAP {
		d.SOAPNote = SOAP{}
	}
	if !opts.Workflow {
		d.WorkflowSuggestions = []string{}
	}
	return d
}
