package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/docmill/docmill/ai"
	"github.com/docmill/docmill/core"
	"github.com/docmill/docmill/splitter"
	"github.com/docmill/docmill/storage"
)

// Default retry policy for embedding calls.
const (
	DefaultMaxRetries     = 3
	DefaultRetryBaseDelay = 500 * time.Millisecond
)

// Pipeline orchestrates the ingestion of documents: layout analysis,
// markdown splitting, and embedding. Each stage persists its records before
// the next stage runs, so a failed ingestion leaves the document's lineage
// inspectable up to the failing stage.
type Pipeline struct {
	repository     storage.RecordRepository
	provider       ai.Provider
	splitter       *splitter.Splitter
	embeddingPool  *ants.Pool
	embeddingStage *embeddingStage
	maxRetries     int
	retryBaseDelay time.Duration
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.embeddingPool = pool
		return nil
	}
}

// WithSplitter sets a custom markdown splitter.
func WithSplitter(s *splitter.Splitter) Option {
	return func(p *Pipeline) error {
		if s == nil {
			return fmt.Errorf("splitter required")
		}
		p.splitter = s
		return nil
	}
}

// WithRetry sets the retry policy for embedding calls.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.maxRetries = maxAttempts
		p.retryBaseDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	repository storage.RecordRepository,
	provider ai.Provider,
	opts ...Option,
) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository:     repository,
		provider:       provider,
		embeddingPool:  pool,
		maxRetries:     DefaultMaxRetries,
		retryBaseDelay: DefaultRetryBaseDelay,
		logger:         slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	if p.splitter == nil {
		s, err := splitter.New(splitter.WithLogger(p.logger))
		if err != nil {
			p.Release()
			return nil, err
		}
		p.splitter = s
	}

	stage, err := newEmbeddingStage(provider.Embedder(), p.embeddingPool,
		p.maxRetries, p.retryBaseDelay, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.embeddingStage = stage

	return p, nil
}

// Ingestion reports every record a single ingestion produced.
type Ingestion struct {
	Document       *core.Document
	AnalysisResult *core.AnalysisResult
	Fragments      []*core.Fragment
	Chunks         []*core.Chunk
}

// IngestFile reads a file from disk and ingests it as a document.
// The MIME type is inferred from the file extension, falling back to
// content sniffing.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (*Ingestion, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = http.DetectContentType(content)
	}

	doc := core.NewDocument(filepath.Base(path), content, mimeType)
	return p.IngestDocument(ctx, doc)
}

// IngestDocument runs a document through all pipeline stages. Analysis and
// embedding are all-or-nothing: if the analyzer rejects the document, or any
// fragment fails to embed after retries, the ingestion fails and no chunks
// are stored.
func (p *Pipeline) IngestDocument(ctx context.Context, doc *core.Document) (*Ingestion, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	logger := p.logger.With("document", doc.Id, "file", doc.FileName())
	logger.Info("ingesting document", "bytes", len(doc.Content))

	doc, err := p.repository.AddDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	ingestion := &Ingestion{Document: doc}

	markdown, err := p.provider.Analyzer().AnalyzeDocument(ctx, doc.Content)
	if err != nil {
		logger.Error("error analyzing document", "err", err)
		return ingestion, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	result, err := p.repository.AddAnalysisResult(ctx, core.NewAnalysisResult(doc, markdown))
	if err != nil {
		return ingestion, err
	}
	ingestion.AnalysisResult = result

	fragments, err := p.splitter.Split(result)
	if err != nil {
		logger.Error("error splitting analysis result", "err", err)
		return ingestion, err
	}
	if len(fragments) == 0 {
		logger.Warn("analysis produced no fragments")
		return ingestion, nil
	}

	fragments, err = p.repository.AddFragments(ctx, doc.Id, fragments...)
	if err != nil {
		return ingestion, err
	}
	ingestion.Fragments = fragments

	chunks, err := p.embeddingStage.process(ctx, fragments)
	if err != nil {
		return ingestion, err
	}

	chunks, err = p.repository.AddChunks(ctx, doc.Id, chunks...)
	if err != nil {
		return ingestion, err
	}
	ingestion.Chunks = chunks

	logger.Info("document ingested",
		"fragments", len(fragments), "chunks", len(chunks))

	return ingestion, nil
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}
