package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:11434/v1", cfg.APIURL)
	assert.Equal(t, "qwen2.5:14b", cfg.Model)
	assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	assert.Equal(t, 16384, cfg.Context)
	assert.Equal(t, 8192, cfg.MaxRAGContext)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "http://localhost:11434/v1", cfg.APIURL)
		assert.Equal(t, 8192, cfg.MaxRAGContext)
	})

	t.Run("with custom url and key", func(t *testing.T) {
		cfg := NewConfig(
			WithAPIURL("http://custom:8080/v1"),
			WithAPIKey("secret"),
		)

		assert.Equal(t, "http://custom:8080/v1", cfg.APIURL)
		assert.Equal(t, "secret", cfg.APIKey)
	})

	t.Run("with custom models", func(t *testing.T) {
		cfg := NewConfig(
			WithModel("gpt-4o-mini"),
			WithEmbeddingModel("text-embedding-3-small"),
		)

		assert.Equal(t, "gpt-4o-mini", cfg.Model)
		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithContext(32768),
			WithMaxRAGContext(20000),
			WithTimeout(5*time.Minute),
			WithTemperature(0.7),
		)

		assert.Equal(t, 32768, cfg.Context)
		assert.Equal(t, 20000, cfg.MaxRAGContext)
		assert.Equal(t, 5*time.Minute, cfg.Timeout)
		assert.InDelta(t, 0.7, cfg.Temperature, 0.0001)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "already has /v1",
			url:      "http://localhost:11434/v1",
			expected: "http://localhost:11434/v1",
		},
		{
			name:     "missing /v1",
			url:      "http://localhost:11434",
			expected: "http://localhost:11434/v1",
		},
		{
			name:     "has trailing slash",
			url:      "http://localhost:11434/",
			expected: "http://localhost:11434/v1",
		},
		{
			name:     "empty url",
			url:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{APIURL: tt.url}
			cfg.Normalize()
			assert.Equal(t, tt.expected, cfg.APIURL)
		})
	}

	t.Run("derives MaxRAGContext from Context", func(t *testing.T) {
		cfg := &Config{Context: 8192}
		cfg.Normalize()
		assert.Equal(t, 4096, cfg.MaxRAGContext)
	})
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			APIURL:         "http://localhost:11434",
			Model:          "qwen2.5:14b",
			EmbeddingModel: "embeddinggemma",
			Context:        16384,
		}
	}

	t.Run("valid config", func(t *testing.T) {
		cfg := valid()
		err := cfg.Validate()
		assert.NoError(t, err)

		// Should also normalize
		assert.Equal(t, "http://localhost:11434/v1", cfg.APIURL)
		assert.Equal(t, 8192, cfg.MaxRAGContext)
	})

	t.Run("missing api url", func(t *testing.T) {
		cfg := valid()
		cfg.APIURL = ""
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "APIURL")
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := valid()
		cfg.Model = ""
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Model")
	})

	t.Run("missing embedding model", func(t *testing.T) {
		cfg := valid()
		cfg.EmbeddingModel = ""
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "EmbeddingModel")
	})

	t.Run("rag context larger than context", func(t *testing.T) {
		cfg := valid()
		cfg.MaxRAGContext = 32768
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "MaxRAGContext")
	})

	t.Run("temperature out of range", func(t *testing.T) {
		cfg := valid()
		cfg.Temperature = 2.5
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Temperature")
	})
}

func TestConfigValidate_Integration(t *testing.T) {
	cfg := NewConfig()
	err := cfg.Validate()
	require.NoError(t, err)

	cfg = DefaultConfig()
	err = cfg.Validate()
	require.NoError(t, err)
}
