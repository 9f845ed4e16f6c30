package core

// LLMConfig holds the model-endpoint settings exposed through the config
// interface. Field names follow the wire contract; the object is persisted
// so it survives process restarts.
type LLMConfig struct {
	APIURL         string  `json:"api_url"`
	APIKey         string  `json:"api_key"`
	Model          string  `json:"model"`
	EmbeddingModel string  `json:"embedding_model"`
	Context        int     `json:"context"`         // Model context window, tokens
	MaxRAGContext  int     `json:"max_rag_context"` // Cap on retrieved context, tokens
	Timeout        float64 `json:"timeout"`         // Per-request timeout, seconds
	Temperature    float64 `json:"temperature"`
}

// DefaultLLMConfig returns settings for a local OpenAI-compatible service.
func DefaultLLMConfig() *LLMConfig {
	return &LLMConfig{
		APIURL:         "http://localhost:11434/v1",
		APIKey:         "",
		Model:          "qwen2.5:7b",
		EmbeddingModel: "embeddinggemma",
		Context:        32768,
		MaxRAGContext:  16384,
		Timeout:        120.0,
		Temperature:    0.0,
	}
}

// Merge overlays the non-zero fields of other onto c.
// Used by the config update endpoint, which sends partial objects.
func (c *LLMConfig) Merge(other *LLMConfig) {
	if other == nil {
		return
	}
	if other.APIURL != "" {
		c.APIURL = other.APIURL
	}
	if other.APIKey != "" {
		c.APIKey = other.APIKey
	}
	if other.Model != "" {
		c.Model = other.Model
	}
	if other.EmbeddingModel != "" {
		c.EmbeddingModel = other.EmbeddingModel
	}
	if other.Context > 0 {
		c.Context = other.Context
	}
	if other.MaxRAGContext > 0 {
		c.MaxRAGContext = other.MaxRAGContext
	}
	if other.Timeout > 0 {
		c.Timeout = other.Timeout
	}
	if other.Temperature > 0 {
		c.Temperature = other.Temperature
	}
}
