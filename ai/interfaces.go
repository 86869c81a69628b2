package ai

import "context"

// DocumentAnalyzer converts raw document bytes into structured markdown text
// using an external layout/OCR analysis service.
// Implementations must be thread-safe for concurrent use.
type DocumentAnalyzer interface {
	// AnalyzeDocument submits the document content for analysis and blocks
	// until the external job completes, then returns the markdown text of
	// the final result. The markdown may embed <figure>...</figure> blocks
	// and <!-- PageBreak --> markers.
	// The call is bounded by ctx; callers should set a deadline.
	// Returns an error if the service fails, times out, or rejects the
	// document format. No partial result is ever returned.
	AnalyzeDocument(ctx context.Context, content []byte) (string, error)
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider aggregates the external AI services the pipeline calls.
// A provider is constructed once and passed by reference into each stage,
// ensuring the services share configuration without hidden global state.
type Provider interface {
	// Analyzer returns the document analysis service.
	// The returned DocumentAnalyzer is safe for concurrent use.
	Analyzer() DocumentAnalyzer

	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
