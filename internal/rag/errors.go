package rag

import "errors"

// Failure taxonomy for the QA pipeline. Every error returned by the
// pipeline wraps exactly one of these sentinels so callers can select a
// response policy with errors.Is. The pipeline itself never retries and
// never backs off — ErrRateLimited is surfaced so the caller can tell the
// end user to wait and resubmit.
var (
	// ErrExtractionFailed indicates the text extraction adapter returned an
	// error or produced no text for the uploaded document.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrEmbeddingFailed indicates the embedding adapter returned an error
	// or an unusable vector.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrGenerationFailed indicates the generation adapter returned an error
	// or unusable output.
	ErrGenerationFailed = errors.New("answer generation failed")

	// ErrRateLimited indicates an external adapter signalled throttling.
	// Distinguished from the generic failures above so callers can apply a
	// retry-after-delay policy instead of treating the call as permanent.
	ErrRateLimited = errors.New("rate limited by upstream service")

	// ErrNoDocument indicates a question was asked before any successful
	// ingestion. This is the caller-visible "upload a document first" state.
	ErrNoDocument = errors.New("no document has been ingested")

	// ErrDimensionMismatch indicates the query vector and a stored embedding
	// have different lengths. This is adapter contract drift (for example an
	// embedding model change between ingestion and query), not user error.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
