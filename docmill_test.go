package docmill

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docmill/docmill/ai/mock"
	"github.com/docmill/docmill/core"
	"github.com/docmill/docmill/search"
)

func newTestMill(t *testing.T) *Mill {
	t.Helper()

	mill, err := New("", WithInMemoryStorage(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	t.Cleanup(func() { mill.Close() })

	return mill
}

func TestMillEndToEnd(t *testing.T) {
	mill := newTestMill(t)
	ctx := context.Background()

	p, err := mill.NewPipeline()
	require.NoError(t, err)
	defer p.Release()

	// The mock analyzer echoes document bytes as markdown.
	markdown := "# Guide\n\nHow to configure the analyzer endpoint and key."
	doc := core.NewDocument("guide.md", []byte(markdown), "text/markdown")

	ingestion, err := p.IngestDocument(ctx, doc)
	require.NoError(t, err)
	require.NotEmpty(t, ingestion.Chunks)

	// Search finds the ingested content.
	searcher, err := mill.NewSearcher(search.WithMinSimilarity(0.99))
	require.NoError(t, err)

	results, err := searcher.FindSimilar(ctx, ingestion.Chunks[0].Content, 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, ingestion.Chunks[0].Id, results[0].Chunk.Id)

	// Export emits one feed line per chunk.
	exporter, err := mill.NewExporter()
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := exporter.ExportDocument(ctx, &buf, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, len(ingestion.Chunks), n)

	// Repository exposes the stored lineage.
	docs, err := mill.Repository().ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestMillCloseIdempotentResources(t *testing.T) {
	mill, err := New("", WithInMemoryStorage(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	assert.NoError(t, mill.Close())
}

func TestNewMillRequiresAnalyzerConfig(t *testing.T) {
	// Without an injected provider, the default configuration has no
	// analyzer endpoint and construction must fail.
	_, err := New("", WithInMemoryStorage())
	assert.Error(t, err)
}
