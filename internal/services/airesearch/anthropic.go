package airesearch

import (
	"context"
	"fmt"
	"log"

	"github.com/liushuangls/go-anthropic/v2"

	"trashspot-backend/internal/models"
)

const anthropicModel = anthropic.ModelClaude3Dot5HaikuLatest

// AnthropicProvider researches areas through the Anthropic messages API.
type AnthropicProvider struct {
	client *anthropic.Client
}

// NewAnthropicProvider creates a provider backed by the given API key.
func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	return &AnthropicProvider{client: anthropic.NewClient(apiKey)}
}

// Name identifies the provider in audit rows.
func (p *AnthropicProvider) Name() string { return "anthropic" }

// Research asks the model for bin candidates in the area.
func (p *AnthropicProvider) Research(ctx context.Context, area *models.Area) ([]Candidate, error) {
	resp, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropicModel,
		MaxTokens: 4096,
		System:    "You answer with strict JSON only, no prose.",
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(researchPrompt(area)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}

	text := ""
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			text = *block.Text
			break
		}
	}
	if text == "" {
		return nil, fmt.Errorf("anthropic returned no text content")
	}

	candidates, err := parseCandidates(text)
	if err != nil {
		log.Printf("⚠️  Anthropic reply was not valid JSON, ignoring: %v", err)
		return []Candidate{}, nil
	}
	return candidates, nil
}
