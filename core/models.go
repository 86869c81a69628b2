package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for pipeline records.
// IDs are content-derived so that re-ingesting the same document
// produces the same lineage tree.
type ID uint64

// IDFromContent generates a deterministic ID from content bytes using BLAKE2b hashing.
// Identical content always produces the same ID.
func IDFromContent(content []byte) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(content)
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DeriveID generates a deterministic ID for a record derived from source.
// The label and sibling index disambiguate records derived from the same
// source, including siblings whose content is identical (e.g. fragments
// emptied by figure stripping).
func DeriveID(source ID, label string, index int) ID {
	buf := make([]byte, 8, 8+len(label)+10)
	binary.LittleEndian.PutUint64(buf, uint64(source))
	buf = append(buf, label...)
	buf = strconv.AppendInt(buf, int64(index), 10)
	return IDFromContent(buf)
}

// Record labels identifying each stage's output.
const (
	LabelDocument       = "document"
	LabelAnalysisResult = "analysis_result"
	LabelFragment       = "md_fragment"
	LabelChunk          = "chunk"
)

// Metadata keys propagated through the lineage tree.
const (
	MetaFileName   = "file_name"
	MetaPageNumber = "page_number"
)

// Record is the base shape shared by every pipeline record: identity,
// stage label, 1-based sibling index, MIME type of the content payload,
// propagated metadata, and the lineage link back to the record(s) it was
// derived from. Records never mutate their sources; derivation always
// creates a new record.
type Record struct {
	Id         ID
	Label      string
	Index      int // 1-based position within the sibling group
	MimeType   string
	Metadata   map[string]string
	SourceIds  []ID
	IngestedAt time.Time // set by the repository when the record is stored
}

// FileName returns the record's inherited source file name, if any.
func (r *Record) FileName() string {
	return r.Metadata[MetaFileName]
}

// MergeMetadata returns a new metadata map containing every entry of base
// overlaid with extra. Keys in extra override keys in base; neither input
// is mutated. This is the single metadata propagation point for record
// derivation, which keeps derived metadata a superset of the source's.
func MergeMetadata(base, extra map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// Document is a raw input document, the root of a lineage tree.
// Created externally (e.g. read from a file) and immutable once created.
type Document struct {
	Record
	Content []byte
}

// NewDocument creates a Document from raw content bytes and a source file name.
// The file name travels in metadata so every derived record inherits it.
func NewDocument(fileName string, content []byte, mimeType string) *Document {
	id := IDFromContent(append([]byte(fileName+":"), content...))
	return &Document{
		Record: Record{
			Id:       id,
			Label:    LabelDocument,
			Index:    1,
			MimeType: mimeType,
			Metadata: map[string]string{MetaFileName: fileName},
		},
		Content: content,
	}
}

// AnalysisResult is the structured markdown output of layout/OCR analysis
// for one Document. Exactly one is produced per Document.
type AnalysisResult struct {
	Record
	Markdown string
}

// NewAnalysisResult derives an AnalysisResult from its source Document.
func NewAnalysisResult(doc *Document, markdown string) *AnalysisResult {
	return &AnalysisResult{
		Record: Record{
			Id:        DeriveID(doc.Id, LabelAnalysisResult, 1),
			Label:     LabelAnalysisResult,
			Index:     1,
			MimeType:  "text/markdown",
			Metadata:  MergeMetadata(doc.Metadata, nil),
			SourceIds: []ID{doc.Id},
		},
		Markdown: markdown,
	}
}

// Fragment is a bounded-size piece of split markdown text carrying
// page and file lineage metadata.
type Fragment struct {
	Record
	Content    string
	PageNumber int
}

// NewFragment derives a Fragment from its source AnalysisResult.
// index is 1-based among the result's fragments.
func NewFragment(result *AnalysisResult, index int, content string, pageNumber int) *Fragment {
	return &Fragment{
		Record: Record{
			Id:       DeriveID(result.Id, LabelFragment, index),
			Label:    LabelFragment,
			Index:    index,
			MimeType: "text/markdown",
			Metadata: MergeMetadata(result.Metadata, map[string]string{
				MetaPageNumber: strconv.Itoa(pageNumber),
			}),
			SourceIds: []ID{result.Id},
		},
		Content:    content,
		PageNumber: pageNumber,
	}
}

// Chunk is a Fragment plus its embedding vector: the pipeline's terminal,
// indexable unit.
type Chunk struct {
	Record
	Content string
	Vector  []float32
}

// NewChunk derives a Chunk from its source Fragment.
// index is 1-based in fragment iteration order.
func NewChunk(fragment *Fragment, index int, vector []float32) *Chunk {
	return &Chunk{
		Record: Record{
			Id:        DeriveID(fragment.Id, LabelChunk, index),
			Label:     LabelChunk,
			Index:     index,
			MimeType:  fragment.MimeType,
			Metadata:  MergeMetadata(fragment.Metadata, nil),
			SourceIds: []ID{fragment.Id},
		},
		Content: fragment.Content,
		Vector:  vector,
	}
}

// PageNumber returns the chunk's inherited page number, or 1 if the
// metadata entry is missing or malformed.
func (c *Chunk) PageNumber() int {
	if v, ok := c.Metadata[MetaPageNumber]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 1
}

// ChunkMatch is a chunk returned from vector similarity search.
type ChunkMatch struct {
	Chunk *Chunk
	Score float32
}
