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


package docmill

import (
	"log/slog"

	"github.com/docmill/docmill/ai"
	"github.com/docmill/docmill/ai/docintel"
	"github.com/docmill/docmill/ai/openai"
	"github.com/docmill/docmill/index"
	"github.com/docmill/docmill/pipeline"
	"github.com/docmill/docmill/search"
	"github.com/docmill/docmill/storage"
	"github.com/docmill/docmill/storage/badger"
)

// Mill bundles the storage backend, record repository, and AI services,
// and hands out the pipeline, searcher, and exporter wired to them.
type Mill struct {
	backend  *badger.Backend
	repo     storage.RecordRepository
	provider ai.Provider
	logger   *slog.Logger
}

// MillOption configures a Mill.
type MillOption func(*millOptions)

type millOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig sets the configuration used to build the document analysis
// and embedding services.
func WithAIConfig(config *ai.Config) MillOption {
	return func(o *millOptions) {
		o.aiConfig = config
	}
}

// WithProvider supplies a pre-built AI provider instead of constructing one
// from configuration. Useful for tests and alternative service backends.
func WithProvider(provider ai.Provider) MillOption {
	return func(o *millOptions) {
		o.provider = provider
	}
}

// WithInMemoryStorage keeps all records in memory instead of on disk.
func WithInMemoryStorage() MillOption {
	return func(o *millOptions) {
		o.inMemory = true
	}
}

// New opens the document store at filePath and wires the AI services.
func New(filePath string, opts ...MillOption) (*Mill, error) {
	options := &millOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	repo, err := badger.NewRecordRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		analyzer, err := docintel.NewAnalyzer(options.aiConfig)
		if err != nil {
			repo.Close()
			backend.Close()
			return nil, err
		}

		embedder, err := openai.NewEmbedder(options.aiConfig)
		if err != nil {
			repo.Close()
			backend.Close()
			return nil, err
		}

		provider, err = ai.NewProvider(analyzer, embedder)
		if err != nil {
			repo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Mill{
		backend:  backend,
		repo:     repo,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases the AI provider and the storage backend.
func (m *Mill) Close() error {
	if err := m.provider.Close(); err != nil {
		m.logger.Error("error closing AI provider", "err", err)
	}

	if err := m.repo.Close(); err != nil {
		m.logger.Error("error closing record repository", "err", err)
		return err
	}

	if err := m.backend.Close(); err != nil {
		m.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Repository returns the record repository backing this mill.
func (m *Mill) Repository() storage.RecordRepository {
	return m.repo
}

// NewPipeline returns an ingestion pipeline wired to this mill's repository
// and AI services.
func (m *Mill) NewPipeline(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	return pipeline.NewPipeline(m.repo, m.provider, opts...)
}

// NewSearcher returns a searcher over this mill's ingested chunks.
func (m *Mill) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(m.repo, m.provider, opts...)
}

// NewExporter returns an index feed exporter over this mill's chunks.
func (m *Mill) NewExporter(opts ...index.Option) (*index.Exporter, error) {
	return index.NewExporter(m.repo, opts...)
}
