package badger

import (
	"encoding/binary"

	"github.com/docmill/docmill/core"
)

// Key prefixes for different record types
const (
	documentPrefix       = "doc:"
	analysisResultPrefix = "ares:"
	fragmentPrefix       = "frag:"
	chunkPrefix          = "chun:"
)

// appendID appends an ID in BigEndian order so lexicographic sort works correctly.
func appendID(buf []byte, id core.ID) []byte {
	return binary.BigEndian.AppendUint64(buf, uint64(id))
}

// appendIndex appends a sibling index in BigEndian order so a prefix scan
// yields records in sequence order.
func appendIndex(buf []byte, index int) []byte {
	return binary.BigEndian.AppendUint32(buf, uint32(index))
}

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return appendID([]byte(documentPrefix), id)
}

// makeAnalysisResultKey generates the key of a document's single analysis result.
func makeAnalysisResultKey(docID core.ID) []byte {
	return appendID([]byte(analysisResultPrefix), docID)
}

// makeFragmentKey generates a composite key for a fragment.
// Format: prefix:docID:index
func makeFragmentKey(docID core.ID, index int) []byte {
	return appendIndex(appendID([]byte(fragmentPrefix), docID), index)
}

// makePartialFragmentKey generates the scan prefix for a document's fragments.
func makePartialFragmentKey(docID core.ID) []byte {
	return appendID([]byte(fragmentPrefix), docID)
}

// makeChunkKey generates a composite key for a chunk.
// Format: prefix:docID:index
func makeChunkKey(docID core.ID, index int) []byte {
	return appendIndex(appendID([]byte(chunkPrefix), docID), index)
}

// makePartialChunkKey generates the scan prefix for a document's chunks.
func makePartialChunkKey(docID core.ID) []byte {
	return appendID([]byte(chunkPrefix), docID)
}
