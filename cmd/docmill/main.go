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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/docmill/docmill/ai"
	"github.com/docmill/docmill/ai/docintel"
	"github.com/docmill/docmill/ai/openai"
	"github.com/docmill/docmill/core"
	"github.com/docmill/docmill/index"
	"github.com/docmill/docmill/pipeline"
	"github.com/docmill/docmill/search"
	"github.com/docmill/docmill/splitter"
	"github.com/docmill/docmill/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "docmill",
		Usage: "Document ingestion and semantic search over analyzed content",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Analyze, split, and embed documents",
				ArgsUsage: "FILE...",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "analyzer-endpoint",
						Usage:    "Document analysis service endpoint URL",
						Required: true,
						EnvVars:  []string{"DOCMILL_ANALYZER_ENDPOINT"},
					},
					&cli.StringFlag{
						Name:     "analyzer-key",
						Usage:    "Document analysis service API key",
						Required: true,
						EnvVars:  []string{"DOCMILL_ANALYZER_KEY"},
					},
					&cli.StringFlag{
						Name:  "analyzer-model",
						Usage: "Layout analysis model name",
						Value: "prebuilt-layout",
					},
					&cli.DurationFlag{
						Name:  "poll-interval",
						Usage: "Interval between analysis job status polls",
						Value: 2 * time.Second,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:    "embedding-token",
						Usage:   "Embedding service API token",
						EnvVars: []string{"DOCMILL_EMBEDDING_TOKEN"},
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "text-embedding-3-small",
					},
					&cli.IntFlag{
						Name:  "max-chars",
						Usage: "Maximum characters per fragment",
						Value: splitter.DefaultMaxChars,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for concurrent embedding",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for embedding calls",
						Value: pipeline.DefaultMaxRetries,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: pipeline.DefaultRetryBaseDelay,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search ingested chunks by semantic similarity",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:    "embedding-token",
						Usage:   "Embedding service API token",
						EnvVars: []string{"DOCMILL_EMBEDDING_TOKEN"},
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "text-embedding-3-small",
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Similarity floor for matches",
						Value: search.DefaultMinSimilarity,
					},
					&cli.IntFlag{
						Name:  "max-hits",
						Usage: "Maximum number of results",
						Value: 10,
					},
				},
			},
			{
				Name:      "show",
				Usage:     "List ingested documents, or show one document's records",
				ArgsUsage: "[DOCUMENT_ID]",
				Action:    showCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
			{
				Name:      "export",
				Usage:     "Export chunks as a JSON-lines index feed",
				ArgsUsage: "[DOCUMENT_ID]",
				Action:    exportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file (defaults to stdout)",
					},
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a document and all records derived from it",
				ArgsUsage: "DOCUMENT_ID",
				Action:    deleteCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() == 0 {
		return fmt.Errorf("at least one file argument is required")
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewRecordRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	aiConfig := ai.NewConfig(
		ai.WithAnalyzerEndpoint(c.String("analyzer-endpoint")),
		ai.WithAnalyzerAPIKey(c.String("analyzer-key")),
		ai.WithAnalyzerModel(c.String("analyzer-model")),
		ai.WithPollInterval(c.Duration("poll-interval")),
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingToken(c.String("embedding-token")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	analyzer, err := docintel.NewAnalyzer(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}
	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}
	provider, err := ai.NewProvider(analyzer, embedder)
	if err != nil {
		return err
	}

	s, err := splitter.New(splitter.WithMaxChars(c.Int("max-chars")))
	if err != nil {
		return fmt.Errorf("failed to create splitter: %w", err)
	}

	opts := []pipeline.Option{
		pipeline.WithSplitter(s),
		pipeline.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
	}
	if c.IsSet("pool-size") {
		opts = append(opts, pipeline.WithPoolSize(c.Int("pool-size")))
	}

	p, err := pipeline.NewPipeline(repo, provider, opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer p.Release()

	for _, path := range c.Args().Slice() {
		ingestion, err := p.IngestFile(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to ingest %s: %w", path, err)
		}
		fmt.Fprintf(os.Stderr, "%s: document %d, %d fragments, %d chunks\n",
			path, ingestion.Document.Id, len(ingestion.Fragments), len(ingestion.Chunks))
	}

	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query argument is required")
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewRecordRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingToken(c.String("embedding-token")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.ValidateEmbedding(); err != nil {
		return fmt.Errorf("invalid embedding configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}
	provider, err := ai.NewProvider(noAnalyzer{}, embedder)
	if err != nil {
		return err
	}

	searcher, err := search.NewSearcher(repo, provider,
		search.WithMinSimilarity(float32(c.Float64("min-similarity"))))
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	results, err := searcher.FindSimilar(ctx, query, c.Int("max-hits"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, result := range results {
		fmt.Printf("%2d. [%.3f] %s p.%d\n", i+1, result.Score,
			result.Chunk.FileName(), result.Chunk.PageNumber())
		fmt.Printf("    %s\n\n", summarize(result.Chunk.Content, 200))
	}

	return nil
}

func showCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewRecordRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	if c.NArg() == 0 {
		docs, err := repo.ListDocuments(ctx)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			fmt.Printf("%d\t%s\t%s\t%s\n", doc.Id, doc.FileName(), doc.MimeType,
				doc.IngestedAt.Format(time.RFC3339))
		}
		return nil
	}

	docID, err := parseDocumentID(c.Args().First())
	if err != nil {
		return err
	}

	doc, err := repo.GetDocument(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}
	fmt.Printf("Document %d: %s (%s, %d bytes)\n", doc.Id, doc.FileName(), doc.MimeType, len(doc.Content))

	fragments, err := repo.GetFragments(ctx, docID)
	if err != nil {
		return err
	}
	chunks, err := repo.GetChunks(ctx, docID)
	if err != nil {
		return err
	}
	fmt.Printf("Fragments: %d, chunks: %d\n", len(fragments), len(chunks))

	for _, fragment := range fragments {
		fmt.Printf("  #%d p.%s %s\n", fragment.Index,
			fragment.Metadata[core.MetaPageNumber], summarize(fragment.Content, 80))
	}

	return nil
}

func exportCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewRecordRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	exporter, err := index.NewExporter(repo)
	if err != nil {
		return err
	}

	out := os.Stdout
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var n int
	if c.NArg() > 0 {
		docID, err := parseDocumentID(c.Args().First())
		if err != nil {
			return err
		}
		n, err = exporter.ExportDocument(ctx, out, docID)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
	} else {
		n, err = exporter.ExportAll(ctx, out)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
	}

	fmt.Fprintf(os.Stderr, "Exported %d entries\n", n)
	return nil
}

func deleteCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() == 0 {
		return fmt.Errorf("document ID argument is required")
	}
	docID, err := parseDocumentID(c.Args().First())
	if err != nil {
		return err
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewRecordRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	if err := repo.DeleteDocumentTree(ctx, docID); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Deleted document %d and derived records\n", docID)
	return nil
}

// noAnalyzer satisfies ai.DocumentAnalyzer for commands that never analyze.
type noAnalyzer struct{}

func (noAnalyzer) AnalyzeDocument(context.Context, []byte) (string, error) {
	return "", fmt.Errorf("document analysis not configured")
}

func parseDocumentID(arg string) (core.ID, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid document ID %q: %w", arg, err)
	}
	return core.ID(id), nil
}

func summarize(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	// Truncate on runes so multibyte characters survive intact.
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
