package main

import (
	"context"
	"fmt"
	"strings"

	"easysql/internal/nl2sql"
)

// Answer is the full outcome of one natural language question.
type Answer struct {
	Question  string       `json:"question"`
	SQL       string       `json:"sql"`
	Provider  string       `json:"provider"`
	Model     string       `json:"model"`
	Attempts  int          `json:"attempts"`
	Table     *ResultTable `json:"table"`
	ChartType ChartType    `json:"chart_type"`
}

// Assistant ties the translator to the database and runs the
// generate, validate, execute cycle with self-correction.
type Assistant struct {
	db         *DB
	translator nl2sql.Translator
	maxRetries int
}

// NewAssistant builds the assistant from settings and an open database.
func NewAssistant(settings *Settings, db *DB) (*Assistant, error) {
	return NewAssistantFor(settings, db, settings.LLMProvider, settings.LLMModel)
}

// NewAssistantFor builds an assistant for an explicit provider and
// model, falling back to the settings defaults when either is empty.
// The web UI uses this to honor the per-request model selection.
func NewAssistantFor(settings *Settings, db *DB, provider, model string) (*Assistant, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		provider = settings.LLMProvider
	}
	if model = strings.TrimSpace(model); model == "" {
		if provider == settings.LLMProvider {
			model = settings.LLMModel
		} else {
			model = DefaultModel(provider)
		}
	}

	translator, err := nl2sql.New(provider, model, settings.APIKeyFor(provider))
	if err != nil {
		if logger != nil {
			logger.Error("Translator initialization failed", "error", err, "provider", provider)
		}
		return nil, err
	}

	if logger != nil {
		logger.Info("Assistant initialized",
			"provider", provider,
			"model", model,
			"max_sql_retries", settings.SQLMaxRetries)
	}

	return &Assistant{
		db:         db,
		translator: translator,
		maxRetries: settings.SQLMaxRetries,
	}, nil
}

// Ask converts the question to SQL, executes it and returns the result.
// Failed executions are retried with the error fed back to the model.
func (a *Assistant) Ask(ctx context.Context, question string, history []nl2sql.Turn) (*Answer, error) {
	if a.db == nil {
		return nil, fmt.Errorf("database not available")
	}

	schemaInfo, err := a.db.SchemaInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	var lastError error
	var previousSQL string

	for attempt := 1; attempt <= a.maxRetries; attempt++ {
		req := nl2sql.Request{
			Question:   question,
			SchemaInfo: schemaInfo,
			History:    history,
			Attempt:    attempt,
		}
		if attempt > 1 {
			req.PreviousSQL = previousSQL
			req.ExecError = lastError.Error()
			if logger != nil {
				logger.Info("Retrying SQL generation with error correction",
					"question", question,
					"attempt", attempt,
					"previous_error", lastError.Error())
			}
		} else if logger != nil {
			logger.Info("Generating SQL for question", "question", question, "attempt", attempt)
		}

		result, err := a.translator.Translate(ctx, req)
		if err != nil {
			// The model itself is unreachable, retrying will not help.
			if logger != nil {
				logger.Error("SQL generation failed", "error", err, "question", question, "attempt", attempt)
			}
			return nil, fmt.Errorf("SQL generation failed: %w", err)
		}

		previousSQL = result.SQL

		if err := nl2sql.ValidateQuery(result.SQL); err != nil {
			lastError = err
			if logger != nil {
				logger.Warn("Generated SQL rejected by validator",
					"error", err,
					"sql_preview", truncateString(result.SQL, 150),
					"attempt", attempt)
			}
			if attempt >= a.maxRetries {
				return nil, fmt.Errorf("generated SQL rejected after %d attempts: %w", attempt, err)
			}
			continue
		}

		if logger != nil {
			logger.Info("Executing generated SQL",
				"sql_preview", truncateString(result.SQL, 150),
				"attempt", attempt)
		}

		table, err := a.db.ExecuteQuery(ctx, result.SQL)
		if err != nil {
			lastError = err
			if logger != nil {
				logger.Warn("SQL execution failed, will retry if attempts remain",
					"error", err,
					"sql", result.SQL,
					"attempt", attempt,
					"max_retries", a.maxRetries)
			}
			if attempt >= a.maxRetries {
				return nil, fmt.Errorf("SQL execution failed after %d attempts: %w\n\nLast SQL:\n%s",
					attempt, err, result.SQL)
			}
			continue
		}

		if err := a.db.SaveQueryHistory(question, result.SQL, table.RowCount()); err != nil && logger != nil {
			logger.Warn("History persistence failed", "error", err)
		}

		return &Answer{
			Question:  question,
			SQL:       result.SQL,
			Provider:  result.Provider,
			Model:     result.Model,
			Attempts:  attempt,
			Table:     table,
			ChartType: DetectChartType(table),
		}, nil
	}

	return nil, fmt.Errorf("SQL generation exhausted %d attempts: %w", a.maxRetries, lastError)
}
