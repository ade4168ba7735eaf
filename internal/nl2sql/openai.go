package nl2sql

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const maxCompletionTokens = 500

// OpenAI translates questions through the chat completions API.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, model string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w for provider %s", ErrNoAPIKey, ProviderOpenAI)
	}
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

func (o *OpenAI) Translate(ctx context.Context, req Request) (Result, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt(req.SchemaInfo)},
	}
	for _, turn := range req.History {
		messages = append(messages,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: turn.Question},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: turn.SQL},
		)
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt(req),
	})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    messages,
		Temperature: 0,
		MaxTokens:   maxCompletionTokens,
	})
	if err != nil {
		return Result{}, fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("openai returned no choices")
	}

	return Result{
		SQL:      CleanSQL(resp.Choices[0].Message.Content),
		Provider: ProviderOpenAI,
		Model:    o.model,
	}, nil
}
