// Package ingestion implements the document ingestion pipeline.
// It extracts the text content of an uploaded document, embeds it, and
// replaces whatever document was previously loaded in the store. The pipeline
// is invoked by the upload endpoint and the `docchat ask` CLI command.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/54b3r/docchat-go/internal/extract"
	"github.com/54b3r/docchat-go/internal/logging"
	"github.com/54b3r/docchat-go/internal/rag"
)

// previewLength is the number of characters of extracted text included in the
// ingestion result so the caller can confirm the right document was read.
const previewLength = 100

// Result summarises a successful ingestion.
type Result struct {
	// Preview is the first previewLength characters of the extracted text,
	// followed by "..." when the text was truncated.
	Preview string

	// Characters is the total length of the extracted text in runes.
	Characters int
}

// Pipeline orchestrates the extract → embed → replace flow for a single
// uploaded document.
type Pipeline struct {
	// extractor converts raw document bytes into plain text.
	extractor extract.TextExtractor

	// embedder converts the extracted text into a dense vector embedding.
	embedder rag.Embedder

	// store holds the currently loaded document.
	store rag.DocumentStore
}

// NewPipeline constructs a Pipeline from the provided dependencies.
func NewPipeline(extractor extract.TextExtractor, embedder rag.Embedder, store rag.DocumentStore) (*Pipeline, error) {
	if extractor == nil {
		return nil, fmt.Errorf("ingestion: extractor must not be nil")
	}
	if embedder == nil {
		return nil, fmt.Errorf("ingestion: embedder must not be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("ingestion: store must not be nil")
	}
	return &Pipeline{
		extractor: extractor,
		embedder:  embedder,
		store:     store,
	}, nil
}

// Ingest extracts, embeds, and stores a single document, replacing any
// previously loaded one. The store is only touched after extraction and
// embedding both succeed, so a failed upload never clobbers the current
// document.
func (p *Pipeline) Ingest(ctx context.Context, data []byte, mimeType, source string) (*Result, error) {
	log := logging.FromContext(ctx)

	text, err := p.extractor.Extract(ctx, data, mimeType)
	if err != nil {
		if errors.Is(err, rag.ErrRateLimited) || errors.Is(err, rag.ErrExtractionFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("ingestion: %w: %v", rag.ErrExtractionFailed, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("ingestion: %w: no text content found", rag.ErrExtractionFailed)
	}

	log.Debug("ingestion: text extracted",
		slog.String("source", source),
		slog.Int("characters", len(text)),
	)

	embeddings, err := p.embedder.Embed(ctx, []string{text})
	if err != nil {
		if errors.Is(err, rag.ErrRateLimited) {
			return nil, err
		}
		return nil, fmt.Errorf("ingestion: %w: %v", rag.ErrEmbeddingFailed, err)
	}
	if len(embeddings) != 1 || len(embeddings[0]) == 0 {
		return nil, fmt.Errorf("ingestion: %w: embedder returned no vector", rag.ErrEmbeddingFailed)
	}

	doc := rag.Document{
		Text:      text,
		Embedding: embeddings[0],
		Source:    source,
	}
	if err := p.store.Replace(ctx, doc); err != nil {
		return nil, fmt.Errorf("ingestion: storing document: %w", err)
	}

	runes := []rune(text)
	log.Info("ingestion: document loaded",
		slog.String("source", source),
		slog.Int("characters", len(runes)),
		slog.Int("dimensions", len(embeddings[0])),
	)

	return &Result{
		Preview:    preview(runes),
		Characters: len(runes),
	}, nil
}

// preview returns the first previewLength runes of text, with "..." appended
// when the text was truncated.
func preview(runes []rune) string {
	if len(runes) <= previewLength {
		return string(runes)
	}
	return string(runes[:previewLength]) + "..."
}
