package ai

// serviceProvider bundles independently constructed services into a Provider.
type serviceProvider struct {
	analyzer DocumentAnalyzer
	embedder Embedder
}

// NewProvider aggregates a document analyzer and an embedder into a Provider.
// The concrete services are constructed by their own packages (ai/docintel,
// ai/openai, ai/mock); this constructor only bundles them.
//
// Returns the Provider interface to enforce abstraction.
func NewProvider(analyzer DocumentAnalyzer, embedder Embedder) (Provider, error) {
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	return &serviceProvider{
		analyzer: analyzer,
		embedder: embedder,
	}, nil
}

// Analyzer returns the document analysis service.
func (p *serviceProvider) Analyzer() DocumentAnalyzer {
	return p.analyzer
}

// Embedder returns the text embedding service.
func (p *serviceProvider) Embedder() Embedder {
	return p.embedder
}

// Close is a no-op; the bundled services do not require explicit cleanup.
func (p *serviceProvider) Close() error {
	return nil
}
