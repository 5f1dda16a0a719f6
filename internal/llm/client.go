package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is the chat model used for strategy generation
const DefaultModel = "gpt-4o-mini"

// ErrNoChoices is returned when the model reply contains no choices
var ErrNoChoices = errors.New("no completion choices returned")

// ChatAPI defines the interface for the remote completion call
type ChatAPI interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type OpenAIAdapter struct {
	client *openai.Client
	model  string
}

func NewOpenAIAdapter(apiKey, model string) *OpenAIAdapter {
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIAdapter{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Complete sends a single-turn user prompt and returns the raw reply text.
func (a *OpenAIAdapter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return resp.Choices[0].Message.Content, nil
}
