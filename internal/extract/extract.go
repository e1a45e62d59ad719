// Package extract provides implementations of the text-extraction capability:
// turning a raw uploaded document (PDF, plain text, etc.) into the plain-text
// string the rest of the pipeline operates on. The core treats extraction as
// an external capability and never parses document formats itself.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/54b3r/docchat-go/internal/rag"
)

// TextExtractor converts a raw document byte stream into plain text.
// Implementations must be safe to call from multiple goroutines, must return
// an error wrapping rag.ErrExtractionFailed when no usable text can be
// produced, and rag.ErrRateLimited when the backing service throttles.
type TextExtractor interface {
	// Extract returns the plain-text content of data. mimeType is the
	// declared media type of the upload (e.g. "application/pdf").
	Extract(ctx context.Context, data []byte, mimeType string) (string, error)
}

// PlainTextExtractor handles text/* uploads without any external call: the
// bytes already are the text.
type PlainTextExtractor struct{}

// NewPlainTextExtractor constructs a PlainTextExtractor.
func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

// Extract returns the upload as a trimmed string. An empty or
// whitespace-only upload is an extraction failure, matching the contract of
// the model-backed extractors.
func (e *PlainTextExtractor) Extract(_ context.Context, data []byte, _ string) (string, error) {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("plain extractor: %w: document is empty", rag.ErrExtractionFailed)
	}
	return text, nil
}

// Router dispatches to a cheap local extractor for plain-text media types and
// to the model-backed extractor for everything else (PDF, images, Office
// formats — whatever the model can read).
type Router struct {
	// plain handles text/* media types.
	plain TextExtractor

	// binary handles all other media types.
	binary TextExtractor
}

// NewRouter constructs a Router over the given extractors.
func NewRouter(plain, binary TextExtractor) (*Router, error) {
	if plain == nil || binary == nil {
		return nil, fmt.Errorf("extract: router requires both extractors")
	}
	return &Router{plain: plain, binary: binary}, nil
}

// Extract routes by the declared media type. Parameters after a ";" in the
// mime string (e.g. "text/plain; charset=utf-8") are ignored.
func (r *Router) Extract(ctx context.Context, data []byte, mimeType string) (string, error) {
	mt := strings.TrimSpace(strings.ToLower(mimeType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if strings.HasPrefix(mt, "text/") {
		return r.plain.Extract(ctx, data, mt)
	}
	return r.binary.Extract(ctx, data, mt)
}
