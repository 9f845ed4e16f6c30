package ai

import "context"

// Message roles accepted by Generator implementations.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn of a chat exchange sent to a language model.
type Message struct {
	Role    string
	Content string
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces chat completions from a language model.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate returns the model's complete response to the given messages.
	Generate(ctx context.Context, msgs []Message) (string, error)

	// GenerateStream streams the model's response token by token via onToken
	// and returns the accumulated text. If onToken returns an error the
	// stream is aborted and the partial text is returned alongside the error.
	GenerateStream(ctx context.Context, msgs []Message, onToken func(token string) error) (string, error)

	// IncreaseTemperature nudges the sampling temperature up by a small step,
	// capped at 2.0. Used to escape repeated malformed or empty responses.
	IncreaseTemperature()

	// ResetTemperature restores the configured base temperature.
	ResetTemperature()
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Generator instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Generator returns the chat completion service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
