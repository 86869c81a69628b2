package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent([]byte("hello world"))
		id2 := IDFromContent([]byte("hello world"))
		assert.Equal(t, id1, id2)
	})

	t.Run("different content different ID", func(t *testing.T) {
		id1 := IDFromContent([]byte("hello"))
		id2 := IDFromContent([]byte("world"))
		assert.NotEqual(t, id1, id2)
	})
}

func TestDeriveID(t *testing.T) {
	source := IDFromContent([]byte("source"))

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, DeriveID(source, LabelFragment, 1), DeriveID(source, LabelFragment, 1))
	})

	t.Run("siblings with same content get distinct IDs", func(t *testing.T) {
		assert.NotEqual(t, DeriveID(source, LabelFragment, 1), DeriveID(source, LabelFragment, 2))
	})

	t.Run("labels disambiguate", func(t *testing.T) {
		assert.NotEqual(t, DeriveID(source, LabelFragment, 1), DeriveID(source, LabelChunk, 1))
	})
}

func TestMergeMetadata(t *testing.T) {
	base := map[string]string{"file_name": "test.pdf", "lang": "en"}
	extra := map[string]string{"page_number": "3", "lang": "fr"}

	merged := MergeMetadata(base, extra)

	// Superset of base keys
	assert.Equal(t, "test.pdf", merged["file_name"])
	// Extra overrides base
	assert.Equal(t, "fr", merged["lang"])
	assert.Equal(t, "3", merged["page_number"])

	// Inputs untouched
	assert.Equal(t, "en", base["lang"])
	assert.NotContains(t, base, "page_number")
	assert.Len(t, extra, 2)
}

func TestMergeMetadata_NilInputs(t *testing.T) {
	assert.Empty(t, MergeMetadata(nil, nil))
	assert.Equal(t, map[string]string{"a": "1"}, MergeMetadata(nil, map[string]string{"a": "1"}))
	assert.Equal(t, map[string]string{"a": "1"}, MergeMetadata(map[string]string{"a": "1"}, nil))
}

func TestLineageDerivation(t *testing.T) {
	doc := NewDocument("report.pdf", []byte("%PDF-1.7 fake"), "application/pdf")
	require.Equal(t, LabelDocument, doc.Label)
	require.Equal(t, "report.pdf", doc.Metadata[MetaFileName])
	require.Empty(t, doc.SourceIds)

	result := NewAnalysisResult(doc, "# Title\n\nBody text.")
	assert.Equal(t, []ID{doc.Id}, result.SourceIds)
	assert.Equal(t, "text/markdown", result.MimeType)
	assert.Equal(t, "report.pdf", result.FileName())

	fragment := NewFragment(result, 1, "Body text.", 2)
	assert.Equal(t, []ID{result.Id}, fragment.SourceIds)
	assert.Equal(t, 1, fragment.Index)
	assert.Equal(t, 2, fragment.PageNumber)
	assert.Equal(t, "2", fragment.Metadata[MetaPageNumber])
	// Metadata superset of the source's
	assert.Equal(t, "report.pdf", fragment.Metadata[MetaFileName])

	chunk := NewChunk(fragment, 1, []float32{0.1, 0.2})
	assert.Equal(t, []ID{fragment.Id}, chunk.SourceIds)
	assert.Equal(t, fragment.Content, chunk.Content)
	assert.Equal(t, 2, chunk.PageNumber())
	assert.Equal(t, "report.pdf", chunk.FileName())

	// Derivation never mutates the source's metadata
	fragment.Metadata["injected"] = "x"
	assert.NotContains(t, chunk.Metadata, "injected")
}

func TestChunkPageNumber_Fallback(t *testing.T) {
	chunk := &Chunk{Record: Record{Metadata: map[string]string{}}}
	assert.Equal(t, 1, chunk.PageNumber())

	chunk.Metadata[MetaPageNumber] = "not-a-number"
	assert.Equal(t, 1, chunk.PageNumber())
}
