package ai

import "errors"

var (
	// ErrAnalyzerRequired is returned when a document analyzer is not provided.
	ErrAnalyzerRequired = errors.New("document analyzer required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)
