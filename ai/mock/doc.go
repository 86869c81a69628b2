// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.DocumentAnalyzer,
// ai.Embedder, and ai.Provider for use in unit tests. The mocks allow tests
// to run without external AI service dependencies and enable controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	markdown, err := mockProvider.Analyzer().AnalyzeDocument(ctx, content)
//
//	// Custom behavior injection
//	mockEmbedder := mock.NewMockEmbedder()
//	mockEmbedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
//	    return nil, errors.New("rate limited")
//	}
//
//	// Check call counts
//	count := mockEmbedder.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockAnalyzer: Echoes the document bytes back as markdown text
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockProvider: Aggregates mock analyzer and embedder
package mock
