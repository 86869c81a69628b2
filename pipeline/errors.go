package pipeline

import "errors"

var (
	// ErrRepositoryRequired is returned when a record repository is not provided.
	ErrRepositoryRequired = errors.New("record repository required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrAnalysisFailed is returned when the document analysis stage fails.
	ErrAnalysisFailed = errors.New("document analysis failed")

	// ErrEmbeddingFailed is returned when embedding any fragment of a
	// document fails. No chunks are stored for the document in that case.
	ErrEmbeddingFailed = errors.New("embedding generation failed")

	// ErrInvalidMaxAttempts is returned when a retry is configured with a
	// non-positive attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than 0")
)
