package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/54b3r/docchat-go/internal/embedder"
	"github.com/54b3r/docchat-go/internal/extract"
	"github.com/54b3r/docchat-go/internal/rag"
	"github.com/54b3r/docchat-go/internal/server"
)

// buildDocumentStore selects the document store backend. When QDRANT_HOST is
// set the document survives restarts in a Qdrant collection; otherwise the
// in-memory store is used and a fresh upload is required after each start.
// The returned cleanup function must be called before process exit.
func buildDocumentStore(ctx context.Context, log *slog.Logger) (rag.DocumentStore, []server.Pinger, func(), error) {
	host := os.Getenv("QDRANT_HOST")
	if host == "" {
		log.Info("store: using in-memory document store")
		return rag.NewMemoryStore(), nil, func() {}, nil
	}

	port := 6334
	if v := os.Getenv("QDRANT_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}

	dims := embedder.DefaultDimensions(os.Getenv("EMBEDDING_PROVIDER"))
	if v := os.Getenv("EMBEDDING_DIMENSIONS"); v != "" {
		if d, err := strconv.Atoi(v); err == nil && d > 0 {
			dims = d
		}
	}

	collection := os.Getenv("QDRANT_COLLECTION")
	if collection == "" {
		collection = "docchat-document"
	}

	qs, err := rag.NewQdrantStore(ctx, &rag.QdrantConfig{
		Host:       host,
		Port:       port,
		Collection: collection,
		VectorSize: uint64(dims),
		APIKey:     os.Getenv("QDRANT_API_KEY"),
		UseTLS:     os.Getenv("QDRANT_TLS") == "true",
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("store: failed to connect to qdrant: %w", err)
	}

	log.Info("store: using qdrant document store",
		slog.String("host", host),
		slog.String("collection", collection),
	)

	pingers := []server.Pinger{server.NewQdrantPinger(qs.Client())}
	cleanup := func() { _ = qs.Close() }
	return qs, pingers, cleanup, nil
}

// buildExtractor constructs the text extraction router: text/* uploads are
// decoded locally, everything else (PDF and friends) goes through the Gemini
// document understanding API.
func buildExtractor(ctx context.Context) (extract.TextExtractor, error) {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("extraction requires GOOGLE_API_KEY or GEMINI_API_KEY")
	}

	gemini, err := extract.NewGeminiExtractor(ctx, &extract.GeminiConfig{
		APIKey: apiKey,
		Model:  os.Getenv("EXTRACTION_MODEL"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	return extract.NewRouter(extract.NewPlainTextExtractor(), gemini)
}

// buildPingers assembles readiness probes for local model dependencies.
// Qdrant probes are attached by buildDocumentStore; this covers Ollama when
// it backs either the chat model or the embedder.
func buildPingers() []server.Pinger {
	if os.Getenv("MODEL_PROVIDER") != "ollama" && os.Getenv("EMBEDDING_PROVIDER") != "ollama" {
		return nil
	}
	host := os.Getenv("OLLAMA_HOST")
	if host == "" {
		host = "http://localhost:11434"
	}
	return []server.Pinger{server.NewOllamaPinger(host)}
}
