package server

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/54b3r/docchat-go/internal/ingestion"
)

// fakeIngestor implements the ingestor interface for tests.
type fakeIngestor struct {
	// result is returned on success.
	result *ingestion.Result
	// err is returned as the error value.
	err error
	// lastMimeType records the mime type of the last Ingest call.
	lastMimeType string
	// lastSource records the source of the last Ingest call.
	lastSource string
}

func (f *fakeIngestor) Ingest(_ context.Context, _ []byte, mimeType, source string) (*ingestion.Result, error) {
	f.lastMimeType = mimeType
	f.lastSource = source
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &ingestion.Result{Preview: "preview..."}, nil
}

// fakeAnswerer implements the answerer interface for tests.
type fakeAnswerer struct {
	// answer is returned on success.
	answer string
	// err is returned as the error value.
	err error
	// lastQuestion records the question of the last Answer call.
	lastQuestion string
}

func (f *fakeAnswerer) Answer(_ context.Context, _, question string) (string, error) {
	f.lastQuestion = question
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

// newTestServer builds a *Server wired with fakes and a fresh isolated
// metrics registry so tests do not pollute prometheus.DefaultRegisterer.
func newTestServer() *Server {
	reg := prometheus.NewRegistry()
	return &Server{
		ingestor: &fakeIngestor{},
		answerer: &fakeAnswerer{},
		cfg: &Config{
			MaxUploadBytes:  defaultMaxUploadBytes,
			MetricsRegistry: reg,
			MetricsGatherer: reg,
		},
		log:     slog.Default(),
		metrics: newServerMetrics(reg),
	}
}
