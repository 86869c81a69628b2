package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/docmill/docmill/core"
	"github.com/docmill/docmill/storage"
)

func newTestTree(t *testing.T, fileName, markdown string) (*core.Document, *core.AnalysisResult, []*core.Fragment, []*core.Chunk) {
	t.Helper()

	doc := core.NewDocument(fileName, []byte("raw bytes of "+fileName), "application/pdf")
	result := core.NewAnalysisResult(doc, markdown)

	fragments := []*core.Fragment{
		core.NewFragment(result, 1, "# Heading\n\nFirst section.", 1),
		core.NewFragment(result, 2, "Second section.", 2),
	}

	chunks := []*core.Chunk{
		core.NewChunk(fragments[0], 1, []float32{1, 0, 0}),
		core.NewChunk(fragments[1], 2, []float32{0, 1, 0}),
	}

	return doc, result, fragments, chunks
}

func TestRecordRepositoryDocumentRoundTrip(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	doc, _, _, _ := newTestTree(t, "report.pdf", "# Report")

	added, err := repo.AddDocument(ctx, doc)
	if err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}
	if added.IngestedAt.IsZero() {
		t.Fatal("Expected IngestedAt to be set")
	}

	retrieved, err := repo.GetDocument(ctx, doc.Id)
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}
	if retrieved.Id != doc.Id {
		t.Fatalf("Expected ID %d, got %d", doc.Id, retrieved.Id)
	}
	if retrieved.FileName() != "report.pdf" {
		t.Fatalf("Expected file name 'report.pdf', got '%s'", retrieved.FileName())
	}
	if string(retrieved.Content) != string(doc.Content) {
		t.Fatal("Content mismatch after round trip")
	}
}

func TestRecordRepositoryGetDocumentNotFound(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() {
		repo.Close()
		backend.Close()
	}()

	_, err = repo.GetDocument(context.Background(), core.ID(12345))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestRecordRepositoryAnalysisResult(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	doc, result, _, _ := newTestTree(t, "report.pdf", "# Report\n\nBody text.")

	if _, err := repo.AddDocument(ctx, doc); err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}
	if _, err := repo.AddAnalysisResult(ctx, result); err != nil {
		t.Fatalf("Failed to add analysis result: %v", err)
	}

	retrieved, err := repo.GetAnalysisResult(ctx, doc.Id)
	if err != nil {
		t.Fatalf("Failed to get analysis result: %v", err)
	}
	if retrieved.Markdown != result.Markdown {
		t.Fatal("Markdown mismatch after round trip")
	}
	if len(retrieved.SourceIds) != 1 || retrieved.SourceIds[0] != doc.Id {
		t.Fatalf("Expected source IDs [%d], got %v", doc.Id, retrieved.SourceIds)
	}

	_, err = repo.GetAnalysisResult(ctx, core.ID(999))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unknown document, got %v", err)
	}
}

func TestRecordRepositoryFragmentsOrdered(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	doc, result, _, _ := newTestTree(t, "report.pdf", "ignored")

	// Insert out of order; the prefix scan must still return sequence order.
	fragments := []*core.Fragment{
		core.NewFragment(result, 3, "third", 2),
		core.NewFragment(result, 1, "first", 1),
		core.NewFragment(result, 2, "second", 1),
	}
	if _, err := repo.AddFragments(ctx, doc.Id, fragments...); err != nil {
		t.Fatalf("Failed to add fragments: %v", err)
	}

	retrieved, err := repo.GetFragments(ctx, doc.Id)
	if err != nil {
		t.Fatalf("Failed to get fragments: %v", err)
	}
	if len(retrieved) != 3 {
		t.Fatalf("Expected 3 fragments, got %d", len(retrieved))
	}
	for i, fragment := range retrieved {
		if fragment.Index != i+1 {
			t.Fatalf("Expected index %d at position %d, got %d", i+1, i, fragment.Index)
		}
	}
	if retrieved[0].Content != "first" || retrieved[2].Content != "third" {
		t.Fatal("Fragments not returned in sequence order")
	}
}

func TestRecordRepositoryChunksRoundTrip(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	doc, _, _, chunks := newTestTree(t, "report.pdf", "# Report")

	if _, err := repo.AddChunks(ctx, doc.Id, chunks...); err != nil {
		t.Fatalf("Failed to add chunks: %v", err)
	}

	retrieved, err := repo.GetChunks(ctx, doc.Id)
	if err != nil {
		t.Fatalf("Failed to get chunks: %v", err)
	}
	if len(retrieved) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(retrieved))
	}
	if retrieved[0].PageNumber() != 1 || retrieved[1].PageNumber() != 2 {
		t.Fatalf("Expected page numbers 1 and 2, got %d and %d",
			retrieved[0].PageNumber(), retrieved[1].PageNumber())
	}
	if len(retrieved[0].Vector) != 3 {
		t.Fatalf("Expected vector length 3, got %d", len(retrieved[0].Vector))
	}
}

func TestRecordRepositoryListDocuments(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		doc, _, _, _ := newTestTree(t, name, "# "+name)
		if _, err := repo.AddDocument(ctx, doc); err != nil {
			t.Fatalf("Failed to add document %s: %v", name, err)
		}
	}

	docs, err := repo.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("Failed to list documents: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("Expected 3 documents, got %d", len(docs))
	}
}

func TestRecordRepositoryFindSimilarChunks(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	doc, result, _, _ := newTestTree(t, "report.pdf", "ignored")

	fragments := []*core.Fragment{
		core.NewFragment(result, 1, "about cats", 1),
		core.NewFragment(result, 2, "about dogs", 1),
		core.NewFragment(result, 3, "about fish", 2),
	}
	chunks := []*core.Chunk{
		core.NewChunk(fragments[0], 1, []float32{1, 0, 0}),
		core.NewChunk(fragments[1], 2, []float32{0.8, 0.6, 0}),
		core.NewChunk(fragments[2], 3, []float32{0, 0, 1}),
	}
	if _, err := repo.AddChunks(ctx, doc.Id, chunks...); err != nil {
		t.Fatalf("Failed to add chunks: %v", err)
	}

	matches, err := repo.FindSimilarChunks(ctx, []float32{1, 0, 0}, 0.5, 10)
	if err != nil {
		t.Fatalf("Failed to search chunks: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches above threshold, got %d", len(matches))
	}
	if matches[0].Chunk.Content != "about cats" {
		t.Fatalf("Expected best match 'about cats', got '%s'", matches[0].Chunk.Content)
	}
	if matches[0].Score < matches[1].Score {
		t.Fatal("Expected matches ordered by descending score")
	}

	// Limit caps the result set after ranking.
	matches, err = repo.FindSimilarChunks(ctx, []float32{1, 0, 0}, 0.0, 1)
	if err != nil {
		t.Fatalf("Failed to search chunks with limit: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected 1 match with limit 1, got %d", len(matches))
	}
}

func TestRecordRepositoryDeleteDocumentTree(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	doc, result, fragments, chunks := newTestTree(t, "report.pdf", "# Report")

	if _, err := repo.AddDocument(ctx, doc); err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}
	if _, err := repo.AddAnalysisResult(ctx, result); err != nil {
		t.Fatalf("Failed to add analysis result: %v", err)
	}
	if _, err := repo.AddFragments(ctx, doc.Id, fragments...); err != nil {
		t.Fatalf("Failed to add fragments: %v", err)
	}
	if _, err := repo.AddChunks(ctx, doc.Id, chunks...); err != nil {
		t.Fatalf("Failed to add chunks: %v", err)
	}

	// A second document must survive the delete.
	other, _, _, _ := newTestTree(t, "other.pdf", "# Other")
	if _, err := repo.AddDocument(ctx, other); err != nil {
		t.Fatalf("Failed to add second document: %v", err)
	}

	if err := repo.DeleteDocumentTree(ctx, doc.Id); err != nil {
		t.Fatalf("Failed to delete document tree: %v", err)
	}

	if _, err := repo.GetDocument(ctx, doc.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected document gone, got %v", err)
	}
	if _, err := repo.GetAnalysisResult(ctx, doc.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected analysis result gone, got %v", err)
	}
	if remaining, _ := repo.GetFragments(ctx, doc.Id); len(remaining) != 0 {
		t.Fatalf("Expected no fragments, got %d", len(remaining))
	}
	if remaining, _ := repo.GetChunks(ctx, doc.Id); len(remaining) != 0 {
		t.Fatalf("Expected no chunks, got %d", len(remaining))
	}
	if _, err := repo.GetDocument(ctx, other.Id); err != nil {
		t.Fatalf("Expected second document to survive, got %v", err)
	}

	if err := repo.DeleteDocumentTree(ctx, doc.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestRecordRepositoryRejectsInvalidRecords(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	if _, err := repo.AddDocument(ctx, nil); err == nil {
		t.Fatal("Expected error adding nil document")
	}
	if _, err := repo.AddDocument(ctx, &core.Document{}); err == nil {
		t.Fatal("Expected error adding empty document")
	}
	if _, err := repo.AddFragments(ctx, core.ID(1), &core.Fragment{}); err == nil {
		t.Fatal("Expected error adding invalid fragment")
	}
}
