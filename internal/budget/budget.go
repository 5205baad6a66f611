// Package budget sizes prompts for the optional LLM drafter so that long
// notes are trimmed before they overrun the model context.
package budget

import (
	"math"
	"strings"
)

// DefaultReservedOutput is the output reservation used when callers pass 0.
const DefaultReservedOutput = 1500

// EstimateTokensFromChars converts a character count into a conservative
// token estimate (about 4 characters per token).
func EstimateTokensFromChars(charCount int) int {
	if charCount <= 0 {
		return 0
	}
	return int(math.Ceil(float64(charCount) / 4.0))
}

// EstimateTokens returns the estimated token count of s.
func EstimateTokens(s string) int {
	return EstimateTokensFromChars(len(s))
}

// EstimatePromptTokens estimates a system plus user message pair.
func EstimatePromptTokens(system string, user string) int {
	return EstimateTokens(system) + EstimateTokens(user)
}

// ModelContextTokens returns an approximate context window for modelName.
// Unknown models fall back to 8192.
func ModelContextTokens(modelName string) int {
	name := strings.ToLower(strings.TrimSpace(modelName))
	if name == "" {
		return 8192
	}
	if v, ok := knownModelMax[name]; ok {
		return v
	}
	switch {
	case strings.HasSuffix(name, "128k"):
		return 128_000
	case strings.HasSuffix(name, "32k"):
		return 32_768
	case strings.Contains(name, "-mini"), strings.HasPrefix(name, "gpt-4o"), strings.HasPrefix(name, "gpt-4.1"):
		return 128_000
	}
	return 8192
}

// HeadroomTokens is subtracted from the context for framing overhead: the
// larger of 5% of the window or 512 tokens.
func HeadroomTokens(modelName string) int {
	dyn := int(math.Ceil(float64(ModelContextTokens(modelName)) * 0.05))
	if dyn < 512 {
		return 512
	}
	return dyn
}

// RemainingContext returns the input tokens left after the reservation,
// headroom and prompt. Never negative.
func RemainingContext(modelName string, reservedForOutput int, promptTokens int) int {
	if reservedForOutput < 0 {
		reservedForOutput = 0
	}
	remaining := ModelContextTokens(modelName) - HeadroomTokens(modelName) - reservedForOutput - promptTokens
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FitNote trims note so that the fixed prompt parts plus the note fit into
// the model window. It returns the possibly shortened note and whether it
// was trimmed.
func FitNote(modelName string, reservedForOutput int, system string, promptScaffold string, note string) (string, bool) {
	if reservedForOutput <= 0 {
		reservedForOutput = DefaultReservedOutput
	}
	room := RemainingContext(modelName, reservedForOutput, EstimatePromptTokens(system, promptScaffold))
	if EstimateTokens(note) <= room {
		return note, false
	}
	return trimByByteLimitPreservingRunes(note, room*4), true
}

// trimByByteLimitPreservingRunes cuts s to at most limit bytes on a rune
// boundary.
func trimByByteLimitPreservingRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	cut := 0
	for i := range s {
		if i > limit {
			break
		}
		cut = i
	}
	return s[:cut]
}

var knownModelMax = map[string]int{
	"gpt-4o":        128_000,
	"gpt-4o-mini":   128_000,
	"gpt-4-turbo":   128_000,
	"gpt-4.1-mini":  1_000_000,
	"gpt-3.5-turbo": 16_384,
	"llama-3":       8_192,
	"llama-3.1":     128_000,
	"gpt-oss-20b":   4_096,
	"test-model":    4_096,
}
