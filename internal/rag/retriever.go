package rag

import (
	"context"
	"errors"
	"fmt"
)

// DefaultRetriever implements the Retriever interface by combining an
// Embedder and a DocumentStore. It embeds the question at retrieval time and
// delegates similarity search to the store.
type DefaultRetriever struct {
	// embedder converts the question text to a dense vector.
	embedder Embedder

	// store performs the dot-product similarity search.
	store DocumentStore
}

// NewRetriever constructs a DefaultRetriever from the given Embedder and
// DocumentStore.
func NewRetriever(embedder Embedder, store DocumentStore) (*DefaultRetriever, error) {
	if embedder == nil {
		return nil, fmt.Errorf("rag: embedder must not be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("rag: store must not be nil")
	}
	return &DefaultRetriever{embedder: embedder, store: store}, nil
}

// Retrieve embeds the question and returns the best-scoring stored match.
// The embedding call is skipped entirely when the store is empty, so an
// un-ingested service never spends embedding quota on doomed questions.
func (r *DefaultRetriever) Retrieve(ctx context.Context, question string) (Match, error) {
	if r.store.Empty(ctx) {
		return Match{}, ErrNoDocument
	}

	embeddings, err := r.embedder.Embed(ctx, []string{question})
	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			return Match{}, fmt.Errorf("rag: embedding question: %w", err)
		}
		return Match{}, fmt.Errorf("rag: embedding question: %w: %w", ErrEmbeddingFailed, err)
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return Match{}, fmt.Errorf("rag: %w: embedder returned an empty vector", ErrEmbeddingFailed)
	}

	matches, err := r.store.Search(ctx, embeddings[0], 1)
	if err != nil {
		return Match{}, fmt.Errorf("rag: search failed: %w", err)
	}
	if len(matches) == 0 {
		return Match{}, ErrNoDocument
	}

	return matches[0], nil
}
