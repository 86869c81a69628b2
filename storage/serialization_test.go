package storage

import (
	"testing"
	"time"

	"github.com/docmill/docmill/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() *core.Document {
	doc := core.NewDocument("report.pdf", []byte("%PDF-1.7 content"), "application/pdf")
	doc.IngestedAt = time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	return doc
}

func TestMarshalUnmarshalID(t *testing.T) {
	id := core.IDFromContent([]byte("some content"))

	got, err := UnmarshalID(MarshalID(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestUnmarshalID_Truncated(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalDocument(t *testing.T) {
	doc := testDocument()

	got, err := UnmarshalDocument(MarshalDocument(doc))
	require.NoError(t, err)

	assert.Equal(t, doc.Id, got.Id)
	assert.Equal(t, doc.Label, got.Label)
	assert.Equal(t, doc.Index, got.Index)
	assert.Equal(t, doc.MimeType, got.MimeType)
	assert.Equal(t, doc.Metadata, got.Metadata)
	assert.Equal(t, doc.Content, got.Content)
	assert.Equal(t, doc.FileName(), got.FileName())
	assert.True(t, doc.IngestedAt.Equal(got.IngestedAt))
}

func TestMarshalUnmarshalAnalysisResult(t *testing.T) {
	result := core.NewAnalysisResult(testDocument(), "# Title\n\n<!-- PageBreak -->\nBody")
	result.IngestedAt = time.Now().UTC().Truncate(time.Microsecond)

	got, err := UnmarshalAnalysisResult(MarshalAnalysisResult(result))
	require.NoError(t, err)

	assert.Equal(t, result.Id, got.Id)
	assert.Equal(t, result.Markdown, got.Markdown)
	assert.Equal(t, result.SourceIds, got.SourceIds)
	assert.Equal(t, result.Metadata, got.Metadata)
	assert.True(t, result.IngestedAt.Equal(got.IngestedAt))
}

func TestMarshalUnmarshalFragment(t *testing.T) {
	result := core.NewAnalysisResult(testDocument(), "markdown")
	fragment := core.NewFragment(result, 3, "fragment text with unicode: héllo 世界", 2)
	fragment.IngestedAt = time.Now().UTC().Truncate(time.Microsecond)

	got, err := UnmarshalFragment(MarshalFragment(fragment))
	require.NoError(t, err)

	assert.Equal(t, fragment.Id, got.Id)
	assert.Equal(t, 3, got.Index)
	assert.Equal(t, 2, got.PageNumber)
	assert.Equal(t, fragment.Content, got.Content)
	assert.Equal(t, fragment.Metadata, got.Metadata)
	assert.Equal(t, fragment.SourceIds, got.SourceIds)
}

func TestMarshalUnmarshalChunk(t *testing.T) {
	result := core.NewAnalysisResult(testDocument(), "markdown")
	fragment := core.NewFragment(result, 1, "text", 1)
	chunk := core.NewChunk(fragment, 1, []float32{0.25, -1.5, 0, 3.14159})
	chunk.IngestedAt = time.Now().UTC().Truncate(time.Microsecond)

	got, err := UnmarshalChunk(MarshalChunk(chunk))
	require.NoError(t, err)

	assert.Equal(t, chunk.Id, got.Id)
	assert.Equal(t, chunk.Content, got.Content)
	assert.Equal(t, chunk.Vector, got.Vector)
	assert.Equal(t, chunk.Metadata, got.Metadata)
}

func TestUnmarshalDocument_Truncated(t *testing.T) {
	data := MarshalDocument(testDocument())

	_, err := UnmarshalDocument(data[:len(data)/2])
	assert.Error(t, err)
}
