// Package vision reads text out of scanned or photographed notes through a
// vision-capable chat model.
package vision

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/careflow/internal/cache"
	"github.com/hyperifyio/careflow/internal/llm"
)

const (
	// Marker introduces OCR output appended to a note.
	Marker = "[Extracted text from image]:"
	// NoText replaces empty OCR output.
	NoText = "(No readable text detected.)"

	systemMessage = "You are an OCR assistant. Extract all readable text from the image exactly as written, preserving line breaks. Return plain text only. Do not interpret, summarize or add anything. If there is no readable text, return an empty response."
)

// ErrNotImage is returned for payloads that do not look like images.
var ErrNotImage = errors.New("not an image")

// Reader performs OCR with a chat model.
type Reader struct {
	Client llm.Client
	Model  string
	Cache  *cache.LLMCache
}

type cachedText struct {
	Text string `json:"text"`
}

// ExtractText returns the text found in image. mimeType may be empty, in
// which case it is sniffed from the bytes.
func (r *Reader) ExtractText(ctx context.Context, image []byte, mimeType string) (string, error) {
	if r == nil || r.Client == nil || strings.TrimSpace(r.Model) == "" {
		return "", errors.New("vision reader not configured")
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotImage, mimeType)
	}
	digest := sha256.Sum256(image)
	key := cache.KeyFrom(r.Model, systemMessage+"\n\nimage:"+hex.EncodeToString(digest[:]))
	if r.Cache != nil {
		var c cachedText
		if r.Cache.GetJSON(ctx, key, &c) {
			return c.Text, nil
		}
	}

	start := time.Now()
	resp, err := r.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: "Extract the text from this image."},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: DataURL(image, mimeType), Detail: openai.ImageURLDetailHigh}},
			}},
		},
		Temperature: 0,
		N:           1,
	})
	if err != nil {
		return "", fmt.Errorf("ocr call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	log.Info().Str("stage", "ocr").Str("model", r.Model).Int("bytes", len(image)).Int("chars", len(text)).Dur("elapsed", time.Since(start)).Msg("image text extracted")
	if r.Cache != nil {
		_ = r.Cache.SaveJSON(ctx, key, cachedText{Text: text})
	}
	return text, nil
}

// DataURL encodes image as a base64 data URL.
func DataURL(image []byte, mimeType string) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
}

// AppendExtracted appends OCR output to note under Marker.
func AppendExtracted(note, extracted string) string {
	extracted = strings.TrimSpace(extracted)
	if extracted == "" {
		extracted = NoText
	}
	note = strings.TrimRight(note, " \n\t")
	if note == "" {
		return Marker + "\n" + extracted
	}
	return note + "\n\n" + Marker + "\n" + extracted
}
