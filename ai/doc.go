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


// Package ai provides abstractions for the external AI services Docmill calls.
//
// This package defines interfaces for the two outbound service boundaries of
// the ingestion pipeline: document layout/OCR analysis and text embeddings.
// It follows the dependency inversion principle, allowing the pipeline and
// business logic to depend on abstractions rather than concrete service
// clients.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - DocumentAnalyzer: Converts raw document bytes into structured markdown
//   - Embedder: Generates vector embeddings from text
//   - Provider: Aggregates the services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes three implementation sub-packages:
//
//   - ai/docintel: Document analysis via an Azure Document Intelligence style
//     REST API (submit-then-poll, blocking at the boundary)
//   - ai/openai: Embeddings via OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Production constructors (docintel.NewAnalyzer, openai.NewEmbedder) return
// INTERFACE types to enforce abstraction and prevent accidental coupling to
// concrete implementations.
//
//	analyzer, err := docintel.NewAnalyzer(config)  // returns ai.DocumentAnalyzer
//
// Test utility constructors (mock.NewMockAnalyzer, mock.NewMockEmbedder)
// return CONCRETE types to enable test assertions and behavior injection via
// the mock's public fields and methods (CallCount, injectable funcs, Reset).
//
// # Usage Example
//
//	config := ai.NewConfig(
//	    ai.WithAnalyzerEndpoint("https://my-resource.cognitiveservices.azure.com"),
//	    ai.WithAnalyzerAPIKey(key),
//	)
//	analyzer, err := docintel.NewAnalyzer(config)
//	embedder, err := openai.NewEmbedder(config)
//	provider, err := ai.NewProvider(analyzer, embedder)
//	defer provider.Close()
//
//	markdown, err := provider.Analyzer().AnalyzeDocument(ctx, pdfBytes)
//	vectors, err := provider.Embedder().EmbedTexts(ctx, texts)
package ai
