// Package nl2sql turns natural language questions into SQL statements
// using an LLM provider.
package nl2sql

import (
	"context"
	"errors"
	"fmt"
)

// Supported provider names.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ErrNoAPIKey is returned when a provider is constructed without a key.
var ErrNoAPIKey = errors.New("nl2sql: missing API key")

// Turn is one prior question/SQL exchange passed back to the model so
// follow-up questions can reference earlier answers.
type Turn struct {
	Question string
	SQL      string
}

// Request carries everything a provider needs for one translation.
type Request struct {
	Question   string
	SchemaInfo string
	History    []Turn

	// Set on retry after a failed execution. Attempt starts at 1.
	PreviousSQL string
	ExecError   string
	Attempt     int
}

// Result is a generated SQL statement with provenance.
type Result struct {
	SQL      string
	Provider string
	Model    string
}

// Translator converts a natural language question into SQL.
type Translator interface {
	Translate(ctx context.Context, req Request) (Result, error)
}

// New constructs the provider named by name.
func New(provider, model, apiKey string) (Translator, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAI(apiKey, model)
	case ProviderAnthropic:
		return NewAnthropic(apiKey, model)
	default:
		return nil, fmt.Errorf("nl2sql: unsupported provider %q", provider)
	}
}
