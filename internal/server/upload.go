package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/54b3r/docchat-go/internal/logging"
	"github.com/54b3r/docchat-go/internal/rag"
)

// handleUpload handles POST /api/upload. It accepts a multipart form with a
// single document under the "file" field ("pdf" is accepted as a legacy
// alias), runs the ingestion pipeline, and returns a preview of the extracted
// text. A successful upload replaces any previously loaded document.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		file, header, err = r.FormFile("pdf")
	}
	if err != nil {
		s.metrics.ingestRequestsTotal.WithLabelValues("invalid").Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no file uploaded"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.metrics.ingestRequestsTotal.WithLabelValues("invalid").Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "could not read uploaded file — it may exceed the size limit"})
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	log.Info("upload received",
		slog.String("filename", header.Filename),
		slog.String("mime_type", mimeType),
		slog.Int("bytes", len(data)),
	)

	res, err := s.ingestor.Ingest(r.Context(), data, mimeType, header.Filename)
	if err != nil {
		outcome := s.writeError(w, r, err)
		s.metrics.ingestRequestsTotal.WithLabelValues(outcome).Inc()
		s.metrics.ingestDurationSeconds.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
		return
	}

	s.metrics.ingestRequestsTotal.WithLabelValues("ok").Inc()
	s.metrics.ingestDurationSeconds.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	s.metrics.documentLoaded.Set(1)

	writeJSON(w, http.StatusOK, uploadResponse{
		Message: "document processed successfully",
		Preview: res.Preview,
	})
}

// writeError maps pipeline and orchestrator errors onto HTTP statuses and
// returns the metrics outcome label. Throttling gets a Retry-After so clients
// know to wait rather than hammer the upstream quota further.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) string {
	log := logging.FromContext(r.Context())

	switch {
	case errors.Is(err, rag.ErrNoDocument):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "please upload a document first"})
		return "no_document"

	case errors.Is(err, rag.ErrRateLimited):
		log.Warn("upstream rate limit hit", slog.Any("error", err))
		w.Header().Set("Retry-After", "60")
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many requests — please wait 1 minute and try again"})
		return "rate_limited"

	case errors.Is(err, rag.ErrExtractionFailed):
		log.Error("extraction failed", slog.Any("error", err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to extract text from the document"})
		return "extraction_failed"

	case errors.Is(err, rag.ErrEmbeddingFailed):
		log.Error("embedding failed", slog.Any("error", err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to embed the document"})
		return "embedding_failed"

	case errors.Is(err, rag.ErrGenerationFailed):
		log.Error("generation failed", slog.Any("error", err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to generate an answer"})
		return "generation_failed"

	default:
		log.Error("request failed", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "something went wrong"})
		return "error"
	}
}
