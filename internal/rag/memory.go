package rag

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory DocumentStore. State is ephemeral: it starts
// empty and is lost on process exit. The service holds one document at a
// time, but the scoring loop is written over the full slice so the store
// extends to N documents without change.
type MemoryStore struct {
	// mu guards docs. Replace swaps the whole slice under the write lock so
	// readers always see a consistent text/embedding pairing.
	mu sync.RWMutex

	// docs is the stored content in insertion order.
	docs []Document
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Replace substitutes the stored content with doc. The previous document,
// if any, is discarded wholesale — text and embedding are never updated
// independently.
func (s *MemoryStore) Replace(_ context.Context, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = []Document{doc}
	return nil
}

// Empty reports whether no document has been stored yet.
func (s *MemoryStore) Empty(_ context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs) == 0
}

// Search scores every stored document against query using the raw dot
// product and returns up to topK matches ordered best first. Ties keep
// first-seen order, so results are deterministic. The best match defaults
// to the first stored document: a single-document store always returns that
// document even when its score is non-positive.
func (s *MemoryStore) Search(_ context.Context, query []float32, topK int) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.docs) == 0 {
		return nil, ErrNoDocument
	}
	if topK <= 0 {
		topK = 1
	}

	matches := make([]Match, 0, len(s.docs))
	for _, doc := range s.docs {
		score, err := dotProduct(query, doc.Embedding)
		if err != nil {
			return nil, err
		}
		matches = append(matches, Match{Text: doc.Text, Source: doc.Source, Score: score})
	}

	// Stable selection: repeatedly pick the earliest document with the
	// maximum remaining score. The document count is tiny, so the quadratic
	// scan is clearer than sorting with an index permutation.
	ordered := make([]Match, 0, topK)
	taken := make([]bool, len(matches))
	for len(ordered) < topK && len(ordered) < len(matches) {
		best := -1
		for i, m := range matches {
			if taken[i] {
				continue
			}
			if best == -1 || m.Score > matches[best].Score {
				best = i
			}
		}
		taken[best] = true
		ordered = append(ordered, matches[best])
	}

	return ordered, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

// dotProduct returns Σ a[j]·b[j]. The vectors must have equal length;
// a mismatch is adapter contract drift and is reported as
// ErrDimensionMismatch rather than silently truncated.
func dotProduct(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum, nil
}
