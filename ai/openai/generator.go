package openai

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/calyptra/forage/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const temperatureStep = 0.05

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client  llms.Model
	timeout time.Duration
	logger  *slog.Logger

	mu          sync.Mutex
	temperature float64
	base        float64
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that
	// don't require authentication
	token := config.APIKey
	if token == "" {
		token = "none"
	}
	client, err := openai.New(
		openai.WithBaseURL(config.APIURL),
		openai.WithToken(token),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:      client,
		timeout:     config.Timeout,
		temperature: config.Temperature,
		base:        config.Temperature,
		logger:      slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// IncreaseTemperature nudges the sampling temperature up, capped at 2.0.
func (g *Generator) IncreaseTemperature() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.temperature = min(g.temperature+temperatureStep, 2.0)
}

// ResetTemperature restores the configured base temperature.
func (g *Generator) ResetTemperature() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.temperature = g.base
}

func (g *Generator) currentTemperature() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.temperature
}

// Generate returns the model's complete response to the given messages.
func (g *Generator) Generate(ctx context.Context, msgs []ai.Message) (string, error) {
	return g.GenerateStream(ctx, msgs, nil)
}

// GenerateStream streams the model's response token by token via onToken
// and returns the accumulated text. A nil onToken collects without
// streaming. If onToken returns an error the stream is aborted and the
// partial text is returned alongside the error.
func (g *Generator) GenerateStream(ctx context.Context, msgs []ai.Message, onToken func(token string) error) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var sb strings.Builder
	stream := func(_ context.Context, chunk []byte) error {
		token := string(chunk)
		sb.WriteString(token)
		if onToken != nil {
			return onToken(token)
		}
		return nil
	}

	t0 := time.Now()
	_, err := g.client.GenerateContent(ctx, toContent(msgs),
		llms.WithTemperature(g.currentTemperature()),
		llms.WithStreamingFunc(stream),
	)
	text := sb.String()
	if err != nil {
		g.logger.Error("chat completion failed", "err", err)
		return text, err
	}

	elapsed := time.Since(t0)
	tokens := ai.EstimateTokens(text)
	if tokens > 0 && elapsed > 0 {
		g.logger.Info("chat completion finished",
			"elapsed", elapsed.Round(time.Millisecond),
			"tokens", tokens,
			"tokens_per_sec", float64(tokens)/elapsed.Seconds())
	}
	return text, nil
}

func toContent(msgs []ai.Message) []llms.MessageContent {
	content := make([]llms.MessageContent, 0, len(msgs))
	for _, m := range msgs {
		role := llms.ChatMessageTypeHuman
		switch m.Role {
		case ai.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case ai.RoleAssistant:
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(m.Content)},
		})
	}
	return content
}
