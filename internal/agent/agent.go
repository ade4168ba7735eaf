// Package agent builds a tool-using Fantasy agent that can explore the
// database on its own to answer open-ended questions.
package agent

import (
	"context"
	"fmt"
	"os"

	"charm.land/fantasy"
	"charm.land/fantasy/providers/anthropic"
)

const (
	defaultModel        = "claude-haiku-4-5"
	defaultSystemPrompt = "You are a data analyst assistant. You have access to tools that list tables, show table schemas and run read-only SQL queries against the user's database. Use these tools to gather the data you need, then answer the question in clear prose. Always check the schema before writing SQL, and only run SELECT queries."
)

// InitDBFunc opens the database for tool calls.
type InitDBFunc func() (DBInterface, func(), error)

// DBInterface is the database surface exposed to agent tools.
type DBInterface interface {
	Tables() ([]string, error)
	Schema(table string) (string, error)
	Query(ctx context.Context, sql string) ([]map[string]interface{}, error)
	Close() error
}

// AgentConfig holds the configuration for creating an ask agent
type AgentConfig struct {
	apiKey       string
	model        string
	systemPrompt string
	initDB       InitDBFunc
}

// AgentOption is a functional option for configuring the agent
type AgentOption func(*AgentConfig) error

// WithAPIKey sets the Anthropic API key
func WithAPIKey(apiKey string) AgentOption {
	return func(c *AgentConfig) error {
		if apiKey == "" {
			return fmt.Errorf("API key cannot be empty")
		}
		c.apiKey = apiKey
		return nil
	}
}

// WithAPIKeyFromEnv sets the API key from the ANTHROPIC_API_KEY environment variable
func WithAPIKeyFromEnv() AgentOption {
	return func(c *AgentConfig) error {
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
		c.apiKey = apiKey
		return nil
	}
}

// WithModel sets the Claude model to use (default: claude-haiku-4-5)
func WithModel(model string) AgentOption {
	return func(c *AgentConfig) error {
		if model == "" {
			return fmt.Errorf("model cannot be empty")
		}
		c.model = model
		return nil
	}
}

// WithSystemPrompt sets a custom system prompt
func WithSystemPrompt(prompt string) AgentOption {
	return func(c *AgentConfig) error {
		c.systemPrompt = prompt
		return nil
	}
}

// WithDBInitializer sets the database initialization function
func WithDBInitializer(initDB InitDBFunc) AgentOption {
	return func(c *AgentConfig) error {
		c.initDB = initDB
		return nil
	}
}

// NewAskAgent creates a Fantasy agent wired with database exploration
// tools. It uses the options pattern for configuration.
func NewAskAgent(opts ...AgentOption) (fantasy.Agent, error) {
	config := &AgentConfig{
		model:        defaultModel,
		systemPrompt: defaultSystemPrompt,
	}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if config.apiKey == "" {
		return nil, fmt.Errorf("API key is required (use WithAPIKey or WithAPIKeyFromEnv)")
	}
	if config.initDB == nil {
		return nil, fmt.Errorf("database initializer is required (use WithDBInitializer)")
	}

	provider, err := anthropic.New(anthropic.WithAPIKey(config.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
	}

	ctx := context.Background()

	model, err := provider.LanguageModel(ctx, config.model)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Claude model: %w", err)
	}

	agentTools := CreateDatabaseTools(config.initDB)

	agent := fantasy.NewAgent(
		model,
		fantasy.WithSystemPrompt(config.systemPrompt),
		fantasy.WithTools(agentTools...),
	)

	return agent, nil
}

// GenerateResponse is a convenience function that creates an agent and generates a response in one call
func GenerateResponse(ctx context.Context, question string, opts ...AgentOption) (string, error) {
	agent, err := NewAskAgent(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create agent: %w", err)
	}

	result, err := agent.Generate(ctx, fantasy.AgentCall{Prompt: question})
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	return result.Response.Content.Text(), nil
}
