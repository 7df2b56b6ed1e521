package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

var (
	ErrMissingAPIKey = errors.New("gemini api key not set")
	ErrNoCandidates  = errors.New("model returned no candidates")
	ErrEmptyContent  = errors.New("model returned empty content")
)

const (
	truncationNotice      = "\n\n[Content truncated due to length...]"
	defaultMaxPromptChars = 30000
)

// Generator produces model text for a prompt. A non-nil schema asks the
// model for JSON shaped like it.
type Generator interface {
	Generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}

// GeminiGenerator implements Generator on top of the Gemini API
type GeminiGenerator struct {
	client         *genai.Client
	model          string
	temperature    float32
	maxPromptChars int
	logger         *zap.Logger
}

// GeminiOption is a functional option for GeminiGenerator
type GeminiOption func(*GeminiGenerator)

// WithModel sets the model name
func WithModel(name string) GeminiOption {
	return func(g *GeminiGenerator) {
		g.model = name
	}
}

// WithTemperature sets the sampling temperature
func WithTemperature(t float32) GeminiOption {
	return func(g *GeminiGenerator) {
		g.temperature = t
	}
}

// WithMaxPromptChars sets the length above which prompts are truncated
func WithMaxPromptChars(n int) GeminiOption {
	return func(g *GeminiGenerator) {
		g.maxPromptChars = n
	}
}

// WithGeneratorLogger sets the logger
func WithGeneratorLogger(logger *zap.Logger) GeminiOption {
	return func(g *GeminiGenerator) {
		g.logger = logger
	}
}

// NewGeminiGenerator creates a Gemini client authenticated with apiKey
func NewGeminiGenerator(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	g := &GeminiGenerator{
		client:         client,
		model:          "gemini-1.5-flash",
		temperature:    0.2,
		maxPromptChars: defaultMaxPromptChars,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Close releases the underlying client
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// Generate sends one prompt and concatenates the text parts of every candidate
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	if n := len(prompt); g.maxPromptChars > 0 && n > g.maxPromptChars {
		g.logger.Warn("prompt too long, truncating",
			zap.Int("chars", n),
			zap.Int("limit", g.maxPromptChars))
		prompt = truncatePrompt(prompt, g.maxPromptChars)
	}

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(g.temperature)
	if schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = schema
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("gemini blocked prompt: %v", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", ErrNoCandidates
	}

	var text strings.Builder
	for i, candidate := range resp.Candidates {
		if candidate.FinishReason != genai.FinishReasonStop && candidate.FinishReason != genai.FinishReasonUnspecified {
			g.logger.Warn("candidate finished early",
				zap.Int("candidate", i),
				zap.Any("finish_reason", candidate.FinishReason))
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
	}

	if text.Len() == 0 {
		return "", ErrEmptyContent
	}
	return text.String(), nil
}

// truncatePrompt cuts prompt to limit bytes and marks the cut
func truncatePrompt(prompt string, limit int) string {
	if len(prompt) <= limit {
		return prompt
	}
	return strings.ToValidUTF8(prompt[:limit], "") + truncationNotice
}
