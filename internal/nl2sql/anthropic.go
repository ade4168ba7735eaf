package nl2sql

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic translates questions through the Claude messages API.
type Anthropic struct {
	client *anthropic.Client
	model  string
}

func NewAnthropic(apiKey, model string) (*Anthropic, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w for provider %s", ErrNoAPIKey, ProviderAnthropic)
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Anthropic{
		client: &client,
		model:  model,
	}, nil
}

func (a *Anthropic) Translate(ctx context.Context, req Request) (Result, error) {
	var messages []anthropic.MessageParam
	for _, turn := range req.History {
		messages = append(messages,
			anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Question)),
			anthropic.NewAssistantMessage(anthropic.NewTextBlock(turn.SQL)),
		)
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt(req))))

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: maxCompletionTokens,
		System: []anthropic.TextBlockParam{
			{Text: SystemPrompt(req.SchemaInfo)},
		},
		Messages: messages,
	}

	message, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return Result{}, fmt.Errorf("anthropic message failed: %w", err)
	}
	if len(message.Content) == 0 {
		return Result{}, fmt.Errorf("anthropic returned empty response")
	}

	responseText := ""
	for _, block := range message.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			responseText += textBlock.Text
		}
	}
	if responseText == "" {
		return Result{}, fmt.Errorf("anthropic returned no text content")
	}

	return Result{
		SQL:      CleanSQL(responseText),
		Provider: ProviderAnthropic,
		Model:    a.model,
	}, nil
}
