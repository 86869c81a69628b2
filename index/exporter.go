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


package index

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"

	"github.com/docmill/docmill/core"
	"github.com/docmill/docmill/storage"
)

// Entry is one line of the index feed. Field names follow the flat schema
// of vector search indexes; page_number stays a string because index key
// and filter fields are string-typed.
type Entry struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Vector     []float32 `json:"vector"`
	PageNumber string    `json:"page_number"`
	FileName   string    `json:"file_name"`
}

// Exporter writes ingested chunks as a JSON-lines index feed.
type Exporter struct {
	repository storage.RecordRepository
	logger     *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewExporter creates a new index feed exporter.
func NewExporter(repository storage.RecordRepository, opts ...Option) (*Exporter, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}

	e := &Exporter{
		repository: repository,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// ExportDocument writes one feed line per chunk of the document.
// Returns the number of entries written.
func (e *Exporter) ExportDocument(ctx context.Context, w io.Writer, docID core.ID) (int, error) {
	if w == nil {
		return 0, ErrWriterRequired
	}

	chunks, err := e.repository.GetChunks(ctx, docID)
	if err != nil {
		return 0, err
	}

	enc := json.NewEncoder(w)
	for _, chunk := range chunks {
		if err := enc.Encode(entryFromChunk(chunk)); err != nil {
			return 0, err
		}
	}

	e.logger.Debug("exported document chunks", "document", docID, "entries", len(chunks))
	return len(chunks), nil
}

// ExportAll writes the feed for every ingested document.
// Returns the number of entries written.
func (e *Exporter) ExportAll(ctx context.Context, w io.Writer) (int, error) {
	if w == nil {
		return 0, ErrWriterRequired
	}

	docs, err := e.repository.ListDocuments(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, doc := range docs {
		n, err := e.ExportDocument(ctx, w, doc.Id)
		if err != nil {
			return total, err
		}
		total += n
	}

	e.logger.Info("exported index feed", "documents", len(docs), "entries", total)
	return total, nil
}

func entryFromChunk(chunk *core.Chunk) Entry {
	return Entry{
		ID:         strconv.FormatUint(uint64(chunk.Id), 10),
		Content:    chunk.Content,
		Vector:     chunk.Vector,
		PageNumber: strconv.Itoa(chunk.PageNumber()),
		FileName:   chunk.FileName(),
	}
}
