package rag

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore_EmptyUntilFirstReplace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := NewMemoryStore()
	if !s.Empty(ctx) {
		t.Error("new store should be empty")
	}

	if err := s.Replace(ctx, Document{Text: "hello", Embedding: []float32{1, 0}}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if s.Empty(ctx) {
		t.Error("store should not be empty after replace")
	}
}

func TestMemoryStore_SearchEmptyReturnsNoDocument(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	_, err := s.Search(context.Background(), []float32{1, 0}, 1)
	if !errors.Is(err, ErrNoDocument) {
		t.Errorf("want ErrNoDocument, got %v", err)
	}
}

func TestMemoryStore_SearchReturnsDotProduct(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := NewMemoryStore()
	if err := s.Replace(ctx, Document{
		Text:      "Skills: Go, Rust. 3 years backend.",
		Embedding: []float32{1, 0, 0},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	matches, err := s.Search(ctx, []float32{1, 0, 0}, 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("want 1 match, got %d", len(matches))
	}
	if matches[0].Score != 1 {
		t.Errorf("want score 1, got %v", matches[0].Score)
	}
	if matches[0].Text != "Skills: Go, Rust. 3 years backend." {
		t.Errorf("unexpected text: %q", matches[0].Text)
	}
}

// TestMemoryStore_SingleDocumentAlwaysReturned verifies the initial-best
// rule: with one stored document, search returns it even when the score is
// negative.
func TestMemoryStore_SingleDocumentAlwaysReturned(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := NewMemoryStore()
	if err := s.Replace(ctx, Document{Text: "only", Embedding: []float32{-1, -1}}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	matches, err := s.Search(ctx, []float32{1, 1}, 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 || matches[0].Text != "only" {
		t.Fatalf("want the only document back, got %v", matches)
	}
	if matches[0].Score != -2 {
		t.Errorf("want score -2, got %v", matches[0].Score)
	}
}

func TestMemoryStore_DimensionMismatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := NewMemoryStore()
	if err := s.Replace(ctx, Document{Text: "doc", Embedding: []float32{1, 0, 0}}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	_, err := s.Search(ctx, []float32{1, 0}, 1)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("want ErrDimensionMismatch, got %v", err)
	}
}

// TestMemoryStore_ReplaceDiscardsPriorDocument verifies the replace-on-write
// contract: after a second ingestion only the new document is reachable —
// never the old text, and never the old text paired with the new embedding.
func TestMemoryStore_ReplaceDiscardsPriorDocument(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := NewMemoryStore()
	if err := s.Replace(ctx, Document{Text: "document A", Embedding: []float32{1, 0}}); err != nil {
		t.Fatalf("replace A: %v", err)
	}
	if err := s.Replace(ctx, Document{Text: "document B", Embedding: []float32{0, 1}}); err != nil {
		t.Fatalf("replace B: %v", err)
	}

	// A query aligned with A's old embedding must still return B.
	matches, err := s.Search(ctx, []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("want exactly 1 stored document, got %d", len(matches))
	}
	if matches[0].Text != "document B" {
		t.Errorf("want document B, got %q", matches[0].Text)
	}
}

// TestMemoryStore_TieBreakFirstSeen pins the deterministic ordering rule:
// equal scores keep insertion order.
func TestMemoryStore_TieBreakFirstSeen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := NewMemoryStore()
	// Bypass Replace to exercise the general N-document scan directly.
	s.docs = []Document{
		{Text: "first", Embedding: []float32{1, 0}},
		{Text: "second", Embedding: []float32{1, 0}},
		{Text: "third", Embedding: []float32{0, 1}},
	}

	matches, err := s.Search(ctx, []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("want 3 matches, got %d", len(matches))
	}
	if matches[0].Text != "first" || matches[1].Text != "second" || matches[2].Text != "third" {
		t.Errorf("tie-break order wrong: %q, %q, %q", matches[0].Text, matches[1].Text, matches[2].Text)
	}
}

func TestMemoryStore_TopKClampedToStoredCount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := NewMemoryStore()
	if err := s.Replace(ctx, Document{Text: "doc", Embedding: []float32{1}}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	matches, err := s.Search(ctx, []float32{1}, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("want 1 match, got %d", len(matches))
	}
}
