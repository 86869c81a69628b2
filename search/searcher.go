package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/docmill/docmill/ai"
	"github.com/docmill/docmill/core"
	"github.com/docmill/docmill/storage"
)

// DefaultMinSimilarity is the cosine similarity floor below which a chunk is
// not considered a match.
const DefaultMinSimilarity = 0.60

// Searcher provides semantic search over ingested document chunks.
type Searcher struct {
	repository    storage.RecordRepository
	embedder      ai.Embedder
	minSimilarity float32
	logger        *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMinSimilarity sets the similarity floor for semantic matches.
// Default is DefaultMinSimilarity.
func WithMinSimilarity(min float32) Option {
	return func(s *Searcher) error {
		s.minSimilarity = min
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	repository storage.RecordRepository,
	provider ai.Provider,
	opts ...Option,
) (*Searcher, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	s := &Searcher{
		repository:    repository,
		embedder:      provider.Embedder(),
		minSimilarity: DefaultMinSimilarity,
		logger:        slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// FindSimilar searches for chunks similar to the query.
// Returns up to maxHits results, ranked by relevance score.
func (s *Searcher) FindSimilar(ctx context.Context, query string, maxHits int) ([]*core.ChunkMatch, error) {
	return s.FindSimilarWithMonitor(ctx, query, maxHits, nil)
}

// FindSimilarWithMonitor searches for chunks similar to the query with monitoring.
// The monitor receives callbacks at each stage of the search process.
//
// Scoring starts from cosine similarity; chunks whose text contains every
// significant query word get a verbatim boost so exact-phrase hits rank
// above merely-related text.
func (s *Searcher) FindSimilarWithMonitor(ctx context.Context, query string, maxHits int, monitor SearchMonitor) ([]*core.ChunkMatch, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	matches, err := s.repository.FindSimilarChunks(ctx, embedding, s.minSimilarity, maxHits)
	if err != nil {
		s.logger.Error("error querying for similar chunks", "err", err)
		return nil, err
	}
	monitor.AfterSemanticSearch(matches)

	results := make([]*core.ChunkMatch, 0, len(matches))
	for _, match := range matches {
		score := match.Score

		// Verbatim match boost
		if containsAllQueryWords(match.Chunk.Content, query) {
			score += 0.3
			monitor.VerbatimHit(match.Chunk)
		}

		results = append(results, &core.ChunkMatch{
			Chunk: match.Chunk,
			Score: score,
		})
	}

	// Sort by score descending
	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > maxHits {
		results = results[:maxHits]
	}
	monitor.Finish(results)

	return results, nil
}
