package genmodel

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when GEMINI_MODEL is not set.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider sends prompts to the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini-backed provider. apiKey comes from the
// GEMINI_API_KEY environment (possibly loaded from SSM at cold start).
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

// Name implements Provider.
func (p *GeminiProvider) Name() string { return "gemini" }

// Complete implements Provider.
func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](temperature),
		MaxOutputTokens: maxTokens,
	}

	invokeStart := time.Now()
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content with %s: %w", p.model, err)
	}

	completion := resp.Text()
	if completion == "" {
		return "", fmt.Errorf("model %s returned no text content", p.model)
	}

	log.Debug().
		Str("model", p.model).
		Int("completionLength", len(completion)).
		Dur("elapsed", time.Since(invokeStart)).
		Msg("Gemini completion received")
	return completion, nil
}
