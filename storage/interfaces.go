package storage

import (
	"context"

	"github.com/docmill/docmill/core"
)

// RecordRepository persists every record the pipeline produces, keyed by
// the lineage tree's root document. Implementations must be thread-safe
// and support concurrent access.
type RecordRepository interface {
	// AddDocument stores a root document.
	// Sets IngestedAt. Re-adding the same content overwrites in place,
	// since record IDs are content-derived.
	AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// AddAnalysisResult stores a document's analysis result.
	// Exactly one result exists per document; a re-run overwrites it.
	AddAnalysisResult(ctx context.Context, result *core.AnalysisResult) (*core.AnalysisResult, error)

	// AddFragments stores a document's fragments in one transaction.
	AddFragments(ctx context.Context, docID core.ID, fragments ...*core.Fragment) ([]*core.Fragment, error)

	// AddChunks stores a document's chunks in one transaction.
	AddChunks(ctx context.Context, docID core.ID, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// GetDocument retrieves a document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// ListDocuments retrieves all stored documents.
	ListDocuments(ctx context.Context) ([]*core.Document, error)

	// GetAnalysisResult retrieves the analysis result of a document.
	// Returns ErrNotFound if no result is stored.
	GetAnalysisResult(ctx context.Context, docID core.ID) (*core.AnalysisResult, error)

	// GetFragments retrieves a document's fragments ordered by sequence index.
	GetFragments(ctx context.Context, docID core.ID) ([]*core.Fragment, error)

	// GetChunks retrieves a document's chunks ordered by sequence index.
	GetChunks(ctx context.Context, docID core.ID) ([]*core.Chunk, error)

	// FindSimilarChunks finds stored chunks similar to the given vector
	// across all documents. Returns chunks with similarity >= minSimilarity,
	// up to limit results, ordered by similarity score (highest first).
	FindSimilarChunks(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.ChunkMatch, error)

	// DeleteDocumentTree removes a document and every record derived from it.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocumentTree(ctx context.Context, id core.ID) error

	// Close closes the repository and releases resources.
	Close() error
}
