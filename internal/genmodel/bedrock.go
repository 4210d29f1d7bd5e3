package genmodel

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/rs/zerolog/log"
)

// DefaultBedrockModelID is the Claude model invoked when BEDROCK_MODEL_ID
// is not set.
const DefaultBedrockModelID = "anthropic.claude-3-5-sonnet-20241022-v2:0"

const (
	anthropicVersion = "bedrock-2023-05-31"
	maxTokens        = 2048
	temperature      = 0.7
)

// BedrockProvider invokes an Anthropic model through Amazon Bedrock using
// the messages payload format.
type BedrockProvider struct {
	client  *bedrockruntime.Client
	modelID string
}

var _ Provider = (*BedrockProvider)(nil)

// NewBedrockProvider creates a provider for the given model id.
func NewBedrockProvider(client *bedrockruntime.Client, modelID string) *BedrockProvider {
	if modelID == "" {
		modelID = DefaultBedrockModelID
	}
	return &BedrockProvider{client: client, modelID: modelID}
}

// Name implements Provider.
func (p *BedrockProvider) Name() string { return "bedrock" }

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Messages         []anthropicMessage `json:"messages"`
	MaxTokens        int                `json:"max_tokens"`
	Temperature      float64            `json:"temperature"`
	AnthropicVersion string             `json:"anthropic_version"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete implements Provider.
func (p *BedrockProvider) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(anthropicRequest{
		Messages:         []anthropicMessage{{Role: "user", Content: prompt}},
		MaxTokens:        maxTokens,
		Temperature:      temperature,
		AnthropicVersion: anthropicVersion,
	})
	if err != nil {
		return "", fmt.Errorf("encode model request: %w", err)
	}

	invokeStart := time.Now()
	result, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(p.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        payload,
	})
	if err != nil {
		return "", fmt.Errorf("invoke model %s: %w", p.modelID, err)
	}

	var resp anthropicResponse
	if err := json.Unmarshal(result.Body, &resp); err != nil {
		return "", fmt.Errorf("decode model response: %w", err)
	}

	var completion string
	for _, block := range resp.Content {
		if block.Type == "text" {
			completion += block.Text
		}
	}
	if completion == "" {
		return "", fmt.Errorf("model %s returned no text content", p.modelID)
	}

	log.Debug().
		Str("modelId", p.modelID).
		Int("completionLength", len(completion)).
		Dur("elapsed", time.Since(invokeStart)).
		Msg("Bedrock completion received")
	return completion, nil
}
