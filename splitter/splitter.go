package splitter

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/docmill/docmill/core"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// DefaultMaxChars is the maximum fragment size in characters.
	DefaultMaxChars = 2000

	// PageBreakMarker is the literal the analysis service embeds between pages.
	PageBreakMarker = "<!-- PageBreak -->"
)

// figurePattern matches <figure>...</figure> blocks, non-greedy, spanning newlines.
var figurePattern = regexp.MustCompile(`(?s)<figure>.*?</figure>`)

// Splitter turns one AnalysisResult into an ordered sequence of Fragments.
//
// The markdown text is split along markdown block boundaries at a bounded
// chunk size with no boundary trimming, then each chunk has its figure
// blocks stripped and is assigned a page number from a running counter of
// page-break markers. Splitting decisions are made on the original
// figure-inclusive text; only the emitted fragment content is stripped.
type Splitter struct {
	inner    textsplitter.TextSplitter
	maxChars int
	logger   *slog.Logger
}

// Option configures a Splitter.
type Option func(*Splitter) error

// WithMaxChars sets the maximum fragment size in characters.
// Default is DefaultMaxChars. Ignored when a custom text splitter is injected.
func WithMaxChars(n int) Option {
	return func(s *Splitter) error {
		if n < 1 {
			return fmt.Errorf("%w: max chars %d", ErrInvalidMaxChars, n)
		}
		s.maxChars = n
		return nil
	}
}

// WithTextSplitter replaces the underlying markdown text splitter.
// Used by tests to drive exact chunk boundaries.
func WithTextSplitter(inner textsplitter.TextSplitter) Option {
	return func(s *Splitter) error {
		s.inner = inner
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Splitter) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// New creates a Splitter. Unless overridden, it splits with a
// markdown-structure-aware splitter bounded at DefaultMaxChars characters
// and zero overlap. A single atomic markdown block larger than the bound
// falls back to a character-level split inside the underlying library.
func New(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		maxChars: DefaultMaxChars,
		logger:   slog.Default().With("component", "splitter"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.inner == nil {
		inner := textsplitter.NewMarkdownTextSplitter(
			textsplitter.WithChunkSize(s.maxChars),
			textsplitter.WithChunkOverlap(0),
			textsplitter.WithCodeBlocks(true),
		)
		s.inner = inner
	}

	return s, nil
}

// Split produces the ordered Fragment sequence for one AnalysisResult.
//
// Page numbers start at 1. When a chunk's post-stripping content begins
// with PageBreakMarker the counter is incremented before the fragment's
// page number is recorded, so the fragment that opens a new page carries
// that page's number. Chunks emptied by figure stripping are still
// emitted: every chunk yields exactly one Fragment.
func (s *Splitter) Split(result *core.AnalysisResult) ([]*core.Fragment, error) {
	if result == nil {
		return nil, ErrNilAnalysisResult
	}

	chunks, err := s.inner.SplitText(result.Markdown)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSplitFailed, err)
	}

	fragments := make([]*core.Fragment, 0, len(chunks))
	page := 1
	for i, chunk := range chunks {
		content := stripFigures(chunk)
		if strings.HasPrefix(content, PageBreakMarker) {
			page++
		}
		fragments = append(fragments, core.NewFragment(result, i+1, content, page))
	}

	s.logger.Debug("split analysis result",
		"result", result.Id, "fragments", len(fragments), "pages", page)

	return fragments, nil
}

// stripFigures removes every <figure>...</figure> block from text and
// reassembles the surviving segments joined by single spaces.
func stripFigures(text string) string {
	return strings.Join(figurePattern.Split(text, -1), " ")
}
