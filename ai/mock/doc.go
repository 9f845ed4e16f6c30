// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Generator,
// and ai.AIProvider for use in unit tests. The mocks allow tests to run
// without external AI service dependencies and enable controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vec, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Scripted generator responses, streamed word by word
//	gen := mock.NewMockGenerator(`{"start": "2024-03-10T00:00:00Z", "end": "2024-03-11T00:00:00Z"}`)
//	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), gen)
//
//	// Check call counts
//	count := gen.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockGenerator: Replays scripted responses, last one repeating
//   - MockProvider: Aggregates mock embedder and generator
package mock
