// Copyright 2025 Calyptra
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

// Config holds configuration for AI service providers.
type Config struct {
	// APIURL is the base URL for the OpenAI-compatible API.
	// Example: "http://localhost:11434/v1" for a local server
	APIURL string

	// APIKey authenticates against the API. Local OpenAI-compatible
	// servers usually accept any value; empty means no key configured.
	APIKey string

	// Model is the chat model identifier used for generation.
	// Example: "qwen2.5:14b", "gpt-4o-mini"
	Model string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// Context is the model's total context window in tokens.
	Context int

	// MaxRAGContext caps how many tokens of retrieved evidence are packed
	// into a synthesis request. Defaults to half of Context.
	MaxRAGContext int

	// Timeout bounds each model call. Zero means no timeout.
	Timeout time.Duration

	// Temperature is the base sampling temperature. Generators may nudge
	// it upward temporarily to escape degenerate responses.
	Temperature float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAPIURL sets the API base URL.
func WithAPIURL(url string) ConfigOption {
	return func(c *Config) {
		c.APIURL = url
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithModel sets the chat model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithContext sets the model context window size in tokens.
func WithContext(tokens int) ConfigOption {
	return func(c *Config) {
		c.Context = tokens
	}
}

// WithMaxRAGContext sets the retrieved-evidence token cap.
func WithMaxRAGContext(tokens int) ConfigOption {
	return func(c *Config) {
		c.MaxRAGContext = tokens
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithTemperature sets the base sampling temperature.
func WithTemperature(t float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = t
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services.
func DefaultConfig() *Config {
	return &Config{
		APIURL:         "http://localhost:11434/v1",
		Model:          "qwen2.5:14b",
		EmbeddingModel: "embeddinggemma",
		Context:        16384,
		MaxRAGContext:  8192,
		Timeout:        600 * time.Second,
		Temperature:    0.2,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//   cfg := NewConfig(
//       WithAPIURL("http://localhost:11434"),
//       WithModel("qwen2.5:14b"),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to the API URL if missing, which is
// required by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc), and
// derives MaxRAGContext from Context when unset.
func (c *Config) Normalize() {
	if c.APIURL != "" && !strings.HasSuffix(c.APIURL, "/v1") {
		c.APIURL = strings.TrimSuffix(c.APIURL, "/")
		c.APIURL = c.APIURL + "/v1"
	}
	if c.MaxRAGContext <= 0 && c.Context > 0 {
		c.MaxRAGContext = c.Context / 2
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.APIURL == "" {
		return errors.New("ai config: APIURL is required")
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.Context < 1 {
		return errors.New("ai config: Context must be positive")
	}
	if c.MaxRAGContext > c.Context {
		return errors.New("ai config: MaxRAGContext cannot exceed Context")
	}
	if c.Temperature < 0 || c.Temperature > 2.0 {
		return errors.New("ai config: Temperature must be between 0 and 2")
	}
	return nil
}
