package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown loader, provider or processor type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrMissingCredential indicates a required API key is not set.
	// This is fatal at startup, before any document is loaded.
	ErrMissingCredential = errors.New("missing credential")

	// ErrLLMUnavailable indicates the LLM service is not configured or failed.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured or failed.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is closed or missing.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrDimensionMismatch indicates a vector of the wrong size was supplied.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrExtractorUnavailable indicates the text extractor for a loader is missing.
	ErrExtractorUnavailable = errors.New("text extractor unavailable")

	// ErrEmptyIndex indicates ingestion produced no chunks.
	ErrEmptyIndex = errors.New("no chunks indexed")

	// ErrEmptyAnswer indicates the model returned no usable text.
	ErrEmptyAnswer = errors.New("model returned no text")
)
