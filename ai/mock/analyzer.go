package mock

import (
	"context"
	"sync/atomic"
)

// MockAnalyzer is a test double for ai.DocumentAnalyzer.
// It allows custom behavior injection via a function field.
// Safe for concurrent use as long as AnalyzeFunc is not reassigned
// while calls are in flight.
type MockAnalyzer struct {
	// AnalyzeFunc is called by AnalyzeDocument if set.
	// If nil, uses default behavior: the content bytes echoed back as markdown.
	AnalyzeFunc func(ctx context.Context, content []byte) (string, error)

	callCount atomic.Int64
}

// NewMockAnalyzer creates a mock analyzer with default echo behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{}
}

// AnalyzeDocument returns the injected result, or echoes the content as
// markdown text by default. Echoing keeps tests deterministic and lets a
// test drive the splitter with exact markdown by handing it in as the
// document's bytes.
func (m *MockAnalyzer) AnalyzeDocument(ctx context.Context, content []byte) (string, error) {
	m.callCount.Add(1)

	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, content)
	}

	return string(content), nil
}

// CallCount returns the number of times AnalyzeDocument was called.
func (m *MockAnalyzer) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and injected behavior.
func (m *MockAnalyzer) Reset() {
	m.callCount.Store(0)
	m.AnalyzeFunc = nil
}
