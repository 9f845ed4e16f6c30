package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/calyptra/forage/ai"
)

// MockGenerator is a test double for ai.Generator.
// It replays scripted responses and supports token-by-token streaming.
type MockGenerator struct {
	// GenerateFunc is called by Generate and GenerateStream if set,
	// bypassing the scripted responses.
	GenerateFunc func(ctx context.Context, msgs []ai.Message) (string, error)

	// Err, if set, is returned by every call.
	Err error

	mu        sync.Mutex
	responses []string
	callCount int
	increases int
	resets    int
}

// NewMockGenerator creates a mock generator that replays the given
// responses in order. The last response repeats once the script runs out;
// with no responses the generator returns an empty string.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator(responses ...string) *MockGenerator {
	return &MockGenerator{responses: responses}
}

// Generate returns the next scripted response.
func (m *MockGenerator) Generate(ctx context.Context, msgs []ai.Message) (string, error) {
	return m.GenerateStream(ctx, msgs, nil)
}

// GenerateStream streams the next scripted response word by word through
// onToken. If onToken returns an error the stream stops and the partial
// text is returned alongside the error.
func (m *MockGenerator) GenerateStream(ctx context.Context, msgs []ai.Message, onToken func(token string) error) (string, error) {
	m.mu.Lock()
	m.callCount++
	response := ""
	if m.GenerateFunc == nil {
		if n := len(m.responses); n > 0 {
			idx := m.callCount - 1
			if idx >= n {
				idx = n - 1
			}
			response = m.responses[idx]
		}
	}
	err := m.Err
	fn := m.GenerateFunc
	m.mu.Unlock()

	if err != nil {
		return "", err
	}
	if fn != nil {
		var genErr error
		response, genErr = fn(ctx, msgs)
		if genErr != nil {
			return "", genErr
		}
	}

	if onToken == nil {
		return response, nil
	}

	var sb strings.Builder
	for _, token := range tokenize(response) {
		if err := ctx.Err(); err != nil {
			return sb.String(), err
		}
		sb.WriteString(token)
		if err := onToken(token); err != nil {
			return sb.String(), err
		}
	}
	return sb.String(), nil
}

// IncreaseTemperature records a temperature nudge.
func (m *MockGenerator) IncreaseTemperature() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.increases++
}

// ResetTemperature records a temperature reset.
func (m *MockGenerator) ResetTemperature() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets++
}

// CallCount returns the number of Generate/GenerateStream calls.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// TemperatureIncreases returns how many times IncreaseTemperature was called.
func (m *MockGenerator) TemperatureIncreases() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.increases
}

// Reset clears call counts, custom functions, and the injected error.
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.increases = 0
	m.resets = 0
	m.GenerateFunc = nil
	m.Err = nil
}

// tokenize splits a response into streamable chunks, preserving whitespace
// so the concatenation of all tokens equals the original text.
func tokenize(s string) []string {
	var tokens []string
	start := 0
	for i, r := range s {
		if r == ' ' || r == '\n' {
			tokens = append(tokens, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		tokens = append(tokens, s[start:])
	}
	return tokens
}
