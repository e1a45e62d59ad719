package rag

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
)

// documentPointID is the fixed point ID under which the current document is
// stored. Using one well-known ID gives the Qdrant backend the same
// replace-on-ingest semantics as the in-memory store: each upsert overwrites
// the previous document in full.
const documentPointID = "00000000-0000-0000-0000-000000000001"

// QdrantConfig holds connection parameters for a Qdrant-backed store.
type QdrantConfig struct {
	// Host is the Qdrant server hostname (default: localhost).
	Host string

	// Port is the Qdrant gRPC port (default: 6334).
	Port int

	// Collection is the Qdrant collection name to use.
	Collection string

	// VectorSize is the dimensionality of the embeddings stored in this collection.
	VectorSize uint64

	// APIKey is the optional Qdrant API key for authenticated clusters.
	APIKey string

	// UseTLS enables TLS for the gRPC connection.
	UseTLS bool
}

// QdrantStore implements DocumentStore backed by a Qdrant instance. It is an
// optional alternative to MemoryStore for deployments that want the current
// document to survive restarts.
type QdrantStore struct {
	// client is the underlying Qdrant gRPC client.
	client *qdrant.Client

	// cfg holds the resolved configuration for this store.
	cfg *QdrantConfig
}

// Client exposes the underlying Qdrant client so callers can wire readiness
// probes without opening a second connection.
func (s *QdrantStore) Client() *qdrant.Client { return s.client }

// NewQdrantStore creates a new QdrantStore, ensuring the target collection
// exists (creating it if necessary), and returns a ready-to-use DocumentStore.
func NewQdrantStore(ctx context.Context, cfg *QdrantConfig) (*QdrantStore, error) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 6334
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: failed to create client: %w", err)
	}

	store := &QdrantStore{client: client, cfg: cfg}
	if err := store.ensureCollection(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// ensureCollection creates the Qdrant collection if it does not already
// exist. Dot distance matches the scoring contract of the in-memory store.
func (s *QdrantStore) ensureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.cfg.Collection)
	if err != nil {
		return fmt.Errorf("qdrant: failed to check collection existence: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.cfg.Collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.cfg.VectorSize,
			Distance: qdrant.Distance_Dot,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: failed to create collection %q: %w", s.cfg.Collection, err)
	}

	return nil
}

// Replace upserts the document under the fixed point ID, overwriting any
// previously stored document. The upsert carries vector and payload in one
// point, so text and embedding change together or not at all.
func (s *QdrantStore) Replace(ctx context.Context, doc Document) error {
	if uint64(len(doc.Embedding)) != s.cfg.VectorSize {
		return fmt.Errorf("qdrant: replace: %w: got %d, collection expects %d",
			ErrDimensionMismatch, len(doc.Embedding), s.cfg.VectorSize)
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(documentPointID),
		Vectors: qdrant.NewVectors(doc.Embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"text":   doc.Text,
			"source": doc.Source,
		}),
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.cfg.Collection,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("qdrant: upsert failed: %w", err)
	}

	return nil
}

// Empty reports whether the collection holds no document. Errors from the
// count RPC are treated as empty so callers fall through to Search, which
// reports the failure properly.
func (s *QdrantStore) Empty(ctx context.Context) bool {
	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.cfg.Collection,
	})
	if err != nil {
		return true
	}
	return count == 0
}

// Search performs a dot-product similarity search and returns the top-k
// matches. The query vector's dimensionality must match the collection's.
func (s *QdrantStore) Search(ctx context.Context, query []float32, topK int) ([]Match, error) {
	if uint64(len(query)) != s.cfg.VectorSize {
		return nil, fmt.Errorf("qdrant: search: %w: got %d, collection expects %d",
			ErrDimensionMismatch, len(query), s.cfg.VectorSize)
	}
	if topK <= 0 {
		topK = 1
	}

	limit := uint64(topK)
	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.cfg.Collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: search failed: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoDocument
	}

	matches := make([]Match, 0, len(results))
	for _, r := range results {
		m := Match{Score: r.Score}
		if p := r.Payload; p != nil {
			if v, ok := p["text"]; ok {
				m.Text = v.GetStringValue()
			}
			if v, ok := p["source"]; ok {
				m.Source = v.GetStringValue()
			}
		}
		matches = append(matches, m)
	}

	return matches, nil
}

// Close closes the underlying Qdrant gRPC connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}
