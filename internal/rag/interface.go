// Package rag defines the interfaces for the retrieval-augmented QA
// pipeline: document storage, similarity retrieval, and embedding.
// Concrete implementations (in-memory, Qdrant, etc.) satisfy these
// interfaces so the answer layer never depends on a specific backend.
package rag

import (
	"context"
)

// Document is one ingested unit of content. Text and Embedding are always
// set together — a Document with one but not the other never enters a store.
type Document struct {
	// Text is the extracted plain-text content of the document.
	Text string

	// Embedding is the dense vector representation of Text. Its length is
	// fixed per deployment by the embedding model in use.
	Embedding []float32

	// Source is an optional origin label (original filename, URL, etc.).
	Source string
}

// Match is the result of a similarity search: a stored document's text
// together with the score it achieved against the query vector.
type Match struct {
	// Text is the matched document's text, returned verbatim.
	Text string

	// Source is the matched document's origin label.
	Source string

	// Score is the raw dot product between the query vector and the
	// document's embedding. Not normalised — the embedding model's native
	// scale is used deliberately.
	Score float32
}

// DocumentStore holds the current document set. The service keeps exactly
// one document at a time: Replace swaps the entire stored content for the
// new document as one atomic unit, so a reader never observes the text of
// one ingestion paired with the embedding of another.
// Implementations must be safe to call from multiple goroutines.
type DocumentStore interface {
	// Replace atomically substitutes the stored content with doc.
	Replace(ctx context.Context, doc Document) error

	// Search scores every stored document against the query vector using
	// the dot product and returns up to topK matches, best first.
	// Returns ErrNoDocument when the store is empty and ErrDimensionMismatch
	// when the query vector's length differs from a stored embedding's.
	Search(ctx context.Context, query []float32, topK int) ([]Match, error)

	// Empty reports whether no document has been stored yet.
	Empty(ctx context.Context) bool

	// Close releases any resources held by the store.
	Close() error
}

// Embedder is the interface for converting text into dense vector embeddings.
// Implementations must be safe to call from multiple goroutines, and must
// return an error wrapping ErrRateLimited when the backend signals throttling.
type Embedder interface {
	// Embed converts a batch of texts into their corresponding embeddings.
	// The returned slice is parallel to the input slice.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever is the high-level interface used by the answer layer to fetch
// the stored content most relevant to a question. It combines embedding and
// similarity search.
// Implementations must be safe to call from multiple goroutines.
type Retriever interface {
	// Retrieve returns the best-scoring stored match for the question.
	Retrieve(ctx context.Context, question string) (Match, error)
}
