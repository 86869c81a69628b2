// Copyright 2025 The Docmill Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"time"

	"github.com/docmill/docmill/core"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// mus-format serializers for the pipeline record types. Written by hand in
// the XxxMUS style: one serializer value per type, fields encoded in
// declaration order.

// idSer serializes core.ID as a varint uint64.
type idSer struct{}

func (idSer) Marshal(id core.ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idSer) Unmarshal(bs []byte) (core.ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return core.ID(v), n, err
}

func (idSer) Size(id core.ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idSer) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

// IDMUS serializes core.ID values.
var IDMUS = idSer{}

var (
	metadataSer  = ord.NewMapSer[string, string](ord.String, ord.String)
	sourceIdsSer = ord.NewSliceSer[core.ID](IDMUS)
	vectorSer    = ord.NewSliceSer[float32](raw.Float32)
)

// recordSer serializes the shared core.Record base shape.
type recordSer struct{}

func (recordSer) Marshal(r core.Record, bs []byte) (n int) {
	n = IDMUS.Marshal(r.Id, bs)
	n += ord.String.Marshal(r.Label, bs[n:])
	n += varint.Int.Marshal(r.Index, bs[n:])
	n += ord.String.Marshal(r.MimeType, bs[n:])
	n += metadataSer.Marshal(r.Metadata, bs[n:])
	n += sourceIdsSer.Marshal(r.SourceIds, bs[n:])
	n += varint.Int64.Marshal(r.IngestedAt.UnixMicro(), bs[n:])
	return
}

func (recordSer) Unmarshal(bs []byte) (r core.Record, n int, err error) {
	var n1 int
	if r.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if r.Label, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.Index, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.MimeType, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.Metadata, n1, err = metadataSer.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.SourceIds, n1, err = sourceIdsSer.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	r.IngestedAt = time.UnixMicro(micros).UTC()
	return
}

func (recordSer) Size(r core.Record) int {
	return IDMUS.Size(r.Id) +
		ord.String.Size(r.Label) +
		varint.Int.Size(r.Index) +
		ord.String.Size(r.MimeType) +
		metadataSer.Size(r.Metadata) +
		sourceIdsSer.Size(r.SourceIds) +
		varint.Int64.Size(r.IngestedAt.UnixMicro())
}

func (s recordSer) Skip(bs []byte) (n int, err error) {
	if _, n, err = s.Unmarshal(bs); err != nil {
		return
	}
	return
}

// RecordMUS serializes the shared record base shape.
var RecordMUS = recordSer{}

// documentSer serializes core.Document.
type documentSer struct{}

func (documentSer) Marshal(d core.Document, bs []byte) (n int) {
	n = RecordMUS.Marshal(d.Record, bs)
	n += ord.String.Marshal(string(d.Content), bs[n:])
	return
}

func (documentSer) Unmarshal(bs []byte) (d core.Document, n int, err error) {
	var n1 int
	if d.Record, n, err = RecordMUS.Unmarshal(bs); err != nil {
		return
	}
	var content string
	if content, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	d.Content = []byte(content)
	return
}

func (documentSer) Size(d core.Document) int {
	return RecordMUS.Size(d.Record) +
		ord.String.Size(string(d.Content))
}

func (s documentSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// DocumentMUS serializes core.Document values.
var DocumentMUS = documentSer{}

// analysisResultSer serializes core.AnalysisResult.
type analysisResultSer struct{}

func (analysisResultSer) Marshal(r core.AnalysisResult, bs []byte) (n int) {
	n = RecordMUS.Marshal(r.Record, bs)
	n += ord.String.Marshal(r.Markdown, bs[n:])
	return
}

func (analysisResultSer) Unmarshal(bs []byte) (r core.AnalysisResult, n int, err error) {
	var n1 int
	if r.Record, n, err = RecordMUS.Unmarshal(bs); err != nil {
		return
	}
	if r.Markdown, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	return
}

func (analysisResultSer) Size(r core.AnalysisResult) int {
	return RecordMUS.Size(r.Record) + ord.String.Size(r.Markdown)
}

func (s analysisResultSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// AnalysisResultMUS serializes core.AnalysisResult values.
var AnalysisResultMUS = analysisResultSer{}

// fragmentSer serializes core.Fragment.
type fragmentSer struct{}

func (fragmentSer) Marshal(f core.Fragment, bs []byte) (n int) {
	n = RecordMUS.Marshal(f.Record, bs)
	n += ord.String.Marshal(f.Content, bs[n:])
	n += varint.Int.Marshal(f.PageNumber, bs[n:])
	return
}

func (fragmentSer) Unmarshal(bs []byte) (f core.Fragment, n int, err error) {
	var n1 int
	if f.Record, n, err = RecordMUS.Unmarshal(bs); err != nil {
		return
	}
	if f.Content, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return f, n + n1, err
	}
	n += n1
	if f.PageNumber, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return f, n + n1, err
	}
	n += n1
	return
}

func (fragmentSer) Size(f core.Fragment) int {
	return RecordMUS.Size(f.Record) +
		ord.String.Size(f.Content) +
		varint.Int.Size(f.PageNumber)
}

func (s fragmentSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// FragmentMUS serializes core.Fragment values.
var FragmentMUS = fragmentSer{}

// chunkSer serializes core.Chunk.
type chunkSer struct{}

func (chunkSer) Marshal(c core.Chunk, bs []byte) (n int) {
	n = RecordMUS.Marshal(c.Record, bs)
	n += ord.String.Marshal(c.Content, bs[n:])
	n += vectorSer.Marshal(c.Vector, bs[n:])
	return
}

func (chunkSer) Unmarshal(bs []byte) (c core.Chunk, n int, err error) {
	var n1 int
	if c.Record, n, err = RecordMUS.Unmarshal(bs); err != nil {
		return
	}
	if c.Content, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Vector, n1, err = vectorSer.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	return
}

func (chunkSer) Size(c core.Chunk) int {
	return RecordMUS.Size(c.Record) +
		ord.String.Size(c.Content) +
		vectorSer.Size(c.Vector)
}

func (s chunkSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// ChunkMUS serializes core.Chunk values.
var ChunkMUS = chunkSer{}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, IDMUS.Size(id))
	IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := IDMUS.Unmarshal(data)
	return id, err
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, DocumentMUS.Size(*doc))
	DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// MarshalAnalysisResult serializes an AnalysisResult to bytes.
func MarshalAnalysisResult(result *core.AnalysisResult) []byte {
	buf := make([]byte, AnalysisResultMUS.Size(*result))
	AnalysisResultMUS.Marshal(*result, buf)
	return buf
}

// UnmarshalAnalysisResult deserializes an AnalysisResult from bytes.
func UnmarshalAnalysisResult(data []byte) (*core.AnalysisResult, error) {
	result, _, err := AnalysisResultMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// MarshalFragment serializes a Fragment to bytes.
func MarshalFragment(fragment *core.Fragment) []byte {
	buf := make([]byte, FragmentMUS.Size(*fragment))
	FragmentMUS.Marshal(*fragment, buf)
	return buf
}

// UnmarshalFragment deserializes a Fragment from bytes.
func UnmarshalFragment(data []byte) (*core.Fragment, error) {
	fragment, _, err := FragmentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &fragment, nil
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, ChunkMUS.Size(*chunk))
	ChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk, _, err := ChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}
