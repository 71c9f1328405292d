package airesearch

import (
	"context"
	"fmt"
	"log"

	"github.com/sashabaranov/go-openai"

	"trashspot-backend/internal/models"
)

const openaiModel = openai.GPT4oMini

// OpenAIProvider researches areas through the OpenAI chat completions API.
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a provider backed by the given API key.
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	return &OpenAIProvider{client: openai.NewClient(apiKey)}
}

// Name identifies the provider in audit rows.
func (p *OpenAIProvider) Name() string { return "openai" }

// Research asks the model for bin candidates in the area.
func (p *OpenAIProvider) Research(ctx context.Context, area *models.Area) ([]Candidate, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openaiModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You answer with strict JSON only, no prose.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: researchPrompt(area),
			},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	// An unparseable reply contributes nothing rather than failing the
	// whole area.
	candidates, err := parseCandidates(resp.Choices[0].Message.Content)
	if err != nil {
		log.Printf("⚠️  OpenAI reply was not valid JSON, ignoring: %v", err)
		return []Candidate{}, nil
	}
	return candidates, nil
}
