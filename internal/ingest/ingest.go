// Package ingest loads clinical notes from files and uploads. Plain text and
// Markdown are read as is, HTML exports are reduced to readable text, and
// images go through OCR when a reader is configured.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// DefaultMaxBytes bounds a single input file.
const DefaultMaxBytes = 10 << 20

var (
	ErrUnsupported = errors.New("unsupported input type")
	ErrTooLarge    = errors.New("input too large")
	ErrNoOCR       = errors.New("image input requires a vision model")
	ErrOCRFailed   = errors.New("image text extraction failed")
)

// Kind classifies an input.
type Kind string

const (
	KindText  Kind = "text"
	KindHTML  Kind = "html"
	KindImage Kind = "image"
)

// ImageReader extracts text from an image.
type ImageReader interface {
	ExtractText(ctx context.Context, image []byte, mimeType string) (string, error)
}

// Note is a loaded input ready for validation.
type Note struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Kind   Kind   `json:"kind"`
	Title  string `json:"title,omitempty"`
}

// Loader turns files or uploads into notes.
type Loader struct {
	OCR      ImageReader
	MaxBytes int64
}

// LoadFile reads path and converts it according to its type.
func (l *Loader) LoadFile(ctx context.Context, path string) (Note, error) {
	f, err := os.Open(path)
	if err != nil {
		return Note{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, l.maxBytes()+1))
	if err != nil {
		return Note{}, fmt.Errorf("read input: %w", err)
	}
	return l.Load(ctx, filepath.Base(path), data)
}

// Load converts data named name into a Note.
func (l *Loader) Load(ctx context.Context, name string, data []byte) (Note, error) {
	if int64(len(data)) > l.maxBytes() {
		return Note{}, ErrTooLarge
	}
	kind, mime := detect(name, data)
	note := Note{Source: name, Kind: kind}
	switch kind {
	case KindText:
		if !utf8.Valid(data) {
			return Note{}, fmt.Errorf("%w: %s is not UTF-8 text", ErrUnsupported, name)
		}
		note.Text = string(data)
	case KindHTML:
		doc := FromHTML(data)
		note.Text, note.Title = doc.Text, doc.Title
	case KindImage:
		if l.OCR == nil {
			return Note{}, ErrNoOCR
		}
		text, err := l.OCR.ExtractText(ctx, data, mime)
		if err != nil {
			return Note{}, fmt.Errorf("%w: %s: %w", ErrOCRFailed, name, err)
		}
		note.Text = text
	default:
		return Note{}, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
	return note, nil
}

func (l *Loader) maxBytes() int64 {
	if l == nil || l.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return l.MaxBytes
}

// detect uses the extension first and falls back to content sniffing.
func detect(name string, data []byte) (Kind, string) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".text", ".md", ".markdown", ".note":
		return KindText, "text/plain"
	case ".html", ".htm", ".xhtml":
		return KindHTML, "text/html"
	case ".png":
		return KindImage, "image/png"
	case ".jpg", ".jpeg":
		return KindImage, "image/jpeg"
	case ".gif":
		return KindImage, "image/gif"
	case ".webp":
		return KindImage, "image/webp"
	}
	mime := http.DetectContentType(data)
	switch {
	case strings.HasPrefix(mime, "text/html"):
		return KindHTML, mime
	case strings.HasPrefix(mime, "text/plain"):
		return KindText, mime
	case strings.HasPrefix(mime, "image/"):
		return KindImage, mime
	}
	return "", mime
}

// IsSupported reports whether name has an extension Load understands.
func IsSupported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".text", ".md", ".markdown", ".note", ".html", ".htm", ".xhtml", ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return true
	}
	return false
}
