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


package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for the external AI services.
type Config struct {
	// AnalyzerEndpoint is the base URL of the document analysis service.
	// Example: "https://my-resource.cognitiveservices.azure.com"
	AnalyzerEndpoint string

	// AnalyzerAPIKey authenticates requests to the document analysis service.
	AnalyzerAPIKey string

	// AnalyzerModel is the analysis model identifier.
	// Default: "prebuilt-layout"
	AnalyzerModel string

	// AnalyzerAPIVersion selects the analysis service API version.
	// Default: "2024-11-30"
	AnalyzerAPIVersion string

	// PollInterval is the delay between result polls while an analysis
	// job is running.
	// Default: 2s
	PollInterval time.Duration

	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// EmbeddingToken authenticates requests to the embedding service.
	// Use "none" for local OpenAI-compatible services without authentication.
	EmbeddingToken string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "text-embedding-3-small", "embeddinggemma"
	EmbeddingModel string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAnalyzerEndpoint sets the document analysis service base URL.
func WithAnalyzerEndpoint(endpoint string) ConfigOption {
	return func(c *Config) {
		c.AnalyzerEndpoint = endpoint
	}
}

// WithAnalyzerAPIKey sets the document analysis service API key.
func WithAnalyzerAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.AnalyzerAPIKey = key
	}
}

// WithAnalyzerModel sets the analysis model identifier.
func WithAnalyzerModel(model string) ConfigOption {
	return func(c *Config) {
		c.AnalyzerModel = model
	}
}

// WithAnalyzerAPIVersion sets the analysis service API version.
func WithAnalyzerAPIVersion(version string) ConfigOption {
	return func(c *Config) {
		c.AnalyzerAPIVersion = version
	}
}

// WithPollInterval sets the delay between analysis result polls.
func WithPollInterval(interval time.Duration) ConfigOption {
	return func(c *Config) {
		c.PollInterval = interval
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingToken sets the embedding service API token.
func WithEmbeddingToken(token string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingToken = token
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible embedding service. The analyzer endpoint and key have
// no usable defaults and must be provided.
func DefaultConfig() *Config {
	return &Config{
		AnalyzerModel:      "prebuilt-layout",
		AnalyzerAPIVersion: "2024-11-30",
		PollInterval:       2 * time.Second,
		EmbeddingHost:      "http://localhost:11434/v1",
		EmbeddingToken:     "none",
		EmbeddingModel:     "text-embedding-3-small",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//   cfg := NewConfig(
//       WithAnalyzerEndpoint("https://my-resource.cognitiveservices.azure.com"),
//       WithAnalyzerAPIKey(key),
//       WithEmbeddingModel("text-embedding-3-small"),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// The analyzer endpoint loses any trailing slash, and the embedding host
// gains the /v1 suffix required by most OpenAI-compatible APIs (Ollama,
// LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.AnalyzerEndpoint = strings.TrimSuffix(c.AnalyzerEndpoint, "/")

	// Ensure EmbeddingHost ends with /v1 for OpenAI-compatible APIs
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	// Normalize first to ensure hosts are in correct format
	c.Normalize()

	if c.AnalyzerEndpoint == "" {
		return errors.New("ai config: AnalyzerEndpoint is required")
	}
	if c.AnalyzerAPIKey == "" {
		return errors.New("ai config: AnalyzerAPIKey is required")
	}
	if c.AnalyzerModel == "" {
		return errors.New("ai config: AnalyzerModel is required")
	}
	if c.AnalyzerAPIVersion == "" {
		return errors.New("ai config: AnalyzerAPIVersion is required")
	}
	if c.PollInterval <= 0 {
		return errors.New("ai config: PollInterval must be positive")
	}
	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	return nil
}

// ValidateEmbedding checks only the embedding-related fields. Tools that
// never call the analyzer (e.g. search) use this instead of Validate.
func (c *Config) ValidateEmbedding() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	return nil
}
