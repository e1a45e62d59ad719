package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/54b3r/docchat-go/internal/rag"
)

// extractionInstruction is sent alongside the raw document bytes. The model
// must return the document content verbatim — summarisation here would
// corrupt everything downstream.
const extractionInstruction = "Extract all the text from this document as plain text. " +
	"Do not summarize, just give me the raw content."

// defaultGeminiExtractionModel is used when no model is configured. Gemini
// reads PDFs natively via inline data, so no separate PDF parser is needed.
const defaultGeminiExtractionModel = "gemini-flash-latest"

// GeminiExtractor implements TextExtractor using the Gemini API's native
// document understanding: the raw bytes are sent inline and the model is
// asked to return the verbatim text content.
type GeminiExtractor struct {
	// client is the shared Gemini API client.
	client *genai.Client

	// model is the Gemini model name used for extraction.
	model string
}

// GeminiConfig holds the settings for constructing a GeminiExtractor.
type GeminiConfig struct {
	// APIKey is the Google AI Studio API key.
	APIKey string

	// Model is the Gemini model name (default: gemini-flash-latest).
	Model string
}

// NewGeminiExtractor constructs a GeminiExtractor from the given config.
func NewGeminiExtractor(ctx context.Context, cfg *GeminiConfig) (*GeminiExtractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini extractor: API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiExtractionModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini extractor: failed to create client: %w", err)
	}

	return &GeminiExtractor{client: client, model: model}, nil
}

// Extract sends the document inline to Gemini and returns the model's text
// output. An empty response is an extraction failure; HTTP 429 from the API
// is reported as rag.ErrRateLimited so callers can tell the user to retry
// after a delay.
func (e *GeminiExtractor) Extract(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("gemini extractor: %w: document is empty", rag.ErrExtractionFailed)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
				{Text: extractionInstruction},
			},
		},
	}

	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, nil)
	if err != nil {
		if isRateLimit(err) {
			return "", fmt.Errorf("gemini extractor: %w: %v", rag.ErrRateLimited, err)
		}
		return "", fmt.Errorf("gemini extractor: %w: %v", rag.ErrExtractionFailed, err)
	}

	text := collectText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini extractor: %w: model returned no text", rag.ErrExtractionFailed)
	}

	return text, nil
}

// collectText concatenates the text parts of the first candidate.
func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			sb.WriteString(part.Text)
		}
		break
	}
	return sb.String()
}

// isRateLimit reports whether err is a Gemini API throttling response.
// The SDK surfaces HTTP 429 as an APIError with the RESOURCE_EXHAUSTED
// status; the string fallback covers errors wrapped by intermediate layers.
func isRateLimit(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
