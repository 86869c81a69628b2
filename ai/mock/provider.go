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


package mock

import "github.com/docmill/docmill/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates mock analyzer and embedder instances.
type MockProvider struct {
	analyzer *MockAnalyzer
	embedder *MockEmbedder
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use GetMockAnalyzer()/GetMockEmbedder() to access concrete types for test assertions.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		analyzer: NewMockAnalyzer(),
		embedder: NewMockEmbedder(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(analyzer *MockAnalyzer, embedder *MockEmbedder) ai.Provider {
	return &MockProvider{
		analyzer: analyzer,
		embedder: embedder,
	}
}

// Analyzer returns the mock document analyzer.
func (p *MockProvider) Analyzer() ai.DocumentAnalyzer {
	return p.analyzer
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockAnalyzer returns the underlying mock analyzer for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockAnalyzer() *MockAnalyzer {
	return p.analyzer
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}
