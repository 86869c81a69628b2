package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/docmill/docmill/ai"
	"github.com/docmill/docmill/core"
)

// embeddingStage turns a document's fragments into vectorized chunks.
// Fragments are embedded in contiguous batches spread across the worker
// pool; the chunk slice comes back in fragment order regardless of batch
// completion order. If any batch fails after retries, the whole stage
// fails and no chunks are returned.
type embeddingStage struct {
	embedder       ai.Embedder
	pool           *ants.Pool
	maxRetries     int
	retryBaseDelay time.Duration
	logger         *slog.Logger
}

func newEmbeddingStage(embedder ai.Embedder, pool *ants.Pool, maxRetries int, retryBaseDelay time.Duration, logger *slog.Logger) (*embeddingStage, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if pool == nil {
		return nil, fmt.Errorf("worker pool required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingStage{
		embedder:       embedder,
		pool:           pool,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
		logger:         logger.With("stage", "embedding"),
	}, nil
}

// process embeds every fragment and returns one chunk per fragment,
// positioned by the fragment's sequence index.
func (es *embeddingStage) process(ctx context.Context, fragments []*core.Fragment) ([]*core.Chunk, error) {
	if len(fragments) == 0 {
		return nil, nil
	}

	es.logger.Debug("generating embeddings for fragments", "fragments", len(fragments))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	chunks := make([]*core.Chunk, len(fragments))

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	// One batch per pool worker, each covering a contiguous run of fragments.
	batchSize := (len(fragments) + es.pool.Cap() - 1) / es.pool.Cap()
	if batchSize < 1 {
		batchSize = 1
	}

	for start := 0; start < len(fragments); start += batchSize {
		end := min(start+batchSize, len(fragments))
		batch := fragments[start:end]
		offset := start

		wg.Add(1)
		err := es.pool.Submit(func() {
			defer wg.Done()

			texts := make([]string, len(batch))
			for i, fragment := range batch {
				texts[i] = fragment.Content
			}

			var vectors [][]float32
			err := RetryWithBackoff(ctx, func() error {
				var embedErr error
				vectors, embedErr = es.embedder.EmbedTexts(ctx, texts)
				return embedErr
			}, es.maxRetries, es.retryBaseDelay)
			if err != nil {
				es.logger.Error("error embedding fragments",
					"first", batch[0].Index, "last", batch[len(batch)-1].Index, "err", err)
				fail(fmt.Errorf("fragments %d-%d: %w", batch[0].Index, batch[len(batch)-1].Index, err))
				return
			}
			if len(vectors) != len(batch) {
				fail(fmt.Errorf("embedding result mismatch: expected %d, received %d", len(batch), len(vectors)))
				return
			}

			for i, fragment := range batch {
				chunks[offset+i] = core.NewChunk(fragment, fragment.Index, vectors[i])
			}
		})
		if err != nil {
			wg.Done()
			fail(err)
			break
		}
	}

	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, firstErr)
	}

	return chunks, nil
}
