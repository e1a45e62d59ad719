package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/54b3r/docchat-go/internal/ingestion"
)

// Config holds the HTTP server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1).
	Host string
	// Port is the TCP port to listen on (default: 8080).
	Port int
	// ReadTimeout is the maximum duration for reading the request.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration for writing the response.
	// Must be long enough for a full extract+embed or generate round trip.
	WriteTimeout time.Duration
	// ShutdownTimeout is the maximum duration for a graceful shutdown.
	ShutdownTimeout time.Duration
	// MaxUploadBytes caps the size of an uploaded document. Defaults to 10 MiB.
	MaxUploadBytes int64
	// Logger is the structured logger used by the server and its handlers.
	// If nil, [logging.New] is used.
	Logger *slog.Logger
	// Pingers is the ordered list of dependency probes run by GET /api/ready.
	// If empty, /api/ready returns 200 with no checks (liveness-only mode).
	Pingers []Pinger
	// RateLimit is the sustained request rate allowed per IP on rate-limited
	// endpoints (requests/second). Defaults to 10 if zero.
	RateLimit float64
	// RateBurst is the maximum instantaneous burst per IP. Defaults to 20 if zero.
	RateBurst int
	// APIKey is the Bearer token required on all protected /api/* routes.
	// If empty, authentication is disabled (development mode).
	APIKey string
	// MetricsRegistry receives the server's Prometheus metric registrations.
	// If nil, a fresh registry is created and used together with MetricsGatherer.
	MetricsRegistry prometheus.Registerer
	// MetricsGatherer backs the GET /metrics endpoint. Must gather the same
	// registry MetricsRegistry registers into.
	MetricsGatherer prometheus.Gatherer
}

// ingestor is the slice of the ingestion pipeline the upload handler needs.
// *ingestion.Pipeline satisfies it; tests inject a fake.
type ingestor interface {
	// Ingest extracts, embeds, and stores a single document.
	Ingest(ctx context.Context, data []byte, mimeType, source string) (*ingestion.Result, error)
}

// answerer is the slice of the QA orchestrator the chat handler needs.
// *qa.Orchestrator satisfies it; tests inject a fake.
type answerer interface {
	// Answer returns the model's answer for question about the loaded document.
	Answer(ctx context.Context, session, question string) (string, error)
}

// Server is the HTTP server that exposes document upload and chat.
type Server struct {
	// ingestor handles POST /api/upload.
	ingestor ingestor
	// answerer handles POST /api/chat.
	answerer answerer
	// cfg holds the resolved server configuration.
	cfg *Config
	// httpServer is the underlying net/http server.
	httpServer *http.Server
	// log is the structured logger for this server instance.
	log *slog.Logger
	// pingers is the ordered list of dependency probes for GET /api/ready.
	pingers []Pinger
	// metrics holds the Prometheus instruments owned by this server.
	metrics *serverMetrics
	// stopRL stops the rate limiter's background eviction goroutine on shutdown.
	stopRL func()
}

// uploadResponse is the JSON response for POST /api/upload.
type uploadResponse struct {
	// Message is a human-readable confirmation.
	Message string `json:"message"`
	// Preview is the first characters of the extracted text so the caller can
	// confirm the right document was read.
	Preview string `json:"preview"`
}

// chatRequest is the JSON body for POST /api/chat.
type chatRequest struct {
	// Question is the user's free-text question about the loaded document.
	Question string `json:"question"`
	// Session optionally keys conversation history across questions.
	Session string `json:"session,omitempty"`
}

// chatResponse is the JSON response for POST /api/chat.
type chatResponse struct {
	// Answer is the model's answer text, returned unmodified.
	Answer string `json:"answer"`
}

// errorResponse is the JSON body for all error statuses.
type errorResponse struct {
	// Error is the human-readable failure reason.
	Error string `json:"error"`
}
