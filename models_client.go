package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// ModelInfo is one selectable LLM model.
type ModelInfo struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
}

// ModelsClient lists the models available for each provider, caching
// the catalog in the database.
type ModelsClient struct {
	httpClient *http.Client
	db         *DB
	settings   *Settings
	cacheTTL   time.Duration

	openaiBaseURL    string
	anthropicBaseURL string
}

const modelCacheTable = "model_cache"

// Shown when a provider catalog cannot be fetched.
var fallbackModels = map[string][]string{
	ProviderOpenAI:    {"gpt-4o", "gpt-4o-mini", "gpt-4-turbo", "gpt-3.5-turbo"},
	ProviderAnthropic: {"claude-haiku-4-5", "claude-sonnet-4-5", "claude-3-5-haiku-latest"},
}

// NewModelsClient creates a catalog client. db may be nil, in which
// case caching is skipped.
func NewModelsClient(settings *Settings, db *DB) *ModelsClient {
	c := &ModelsClient{
		httpClient:       &http.Client{Timeout: 15 * time.Second},
		db:               db,
		settings:         settings,
		cacheTTL:         24 * time.Hour,
		openaiBaseURL:    "https://api.openai.com",
		anthropicBaseURL: "https://api.anthropic.com",
	}
	if db != nil {
		if err := c.createCacheTable(); err != nil && logger != nil {
			logger.Warn("Failed to create model cache table", "error", err)
		}
	}
	return c
}

// List returns the model IDs for a provider, from cache when fresh.
func (c *ModelsClient) List(ctx context.Context, provider string) ([]ModelInfo, error) {
	if cached, err := c.getCached(provider); err == nil && len(cached) > 0 {
		return cached, nil
	}

	models, err := c.fetch(ctx, provider)
	if err != nil {
		if logger != nil {
			logger.Warn("Model catalog fetch failed, using fallback list", "error", err, "provider", provider)
		}
		return c.fallback(provider), nil
	}

	if err := c.cache(provider, models); err != nil && logger != nil {
		logger.Warn("Failed to cache model catalog", "error", err, "provider", provider)
	}
	return models, nil
}

func (c *ModelsClient) fallback(provider string) []ModelInfo {
	ids := fallbackModels[provider]
	models := make([]ModelInfo, 0, len(ids))
	for _, id := range ids {
		models = append(models, ModelInfo{ID: id, Provider: provider})
	}
	return models
}

func (c *ModelsClient) fetch(ctx context.Context, provider string) ([]ModelInfo, error) {
	switch provider {
	case ProviderOpenAI:
		return c.fetchOpenAI(ctx)
	case ProviderAnthropic:
		return c.fetchAnthropic(ctx)
	default:
		return nil, fmt.Errorf("unsupported provider %q", provider)
	}
}

type modelListResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (c *ModelsClient) fetchOpenAI(ctx context.Context) ([]ModelInfo, error) {
	if c.settings.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.openaiBaseURL+"/v1/models", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.settings.OpenAIAPIKey)

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var parsed modelListResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse model list: %w", err)
	}

	var models []ModelInfo
	for _, m := range parsed.Data {
		// The catalog includes embeddings, audio and image models.
		if !strings.HasPrefix(m.ID, "gpt-") && !strings.HasPrefix(m.ID, "o") {
			continue
		}
		models = append(models, ModelInfo{ID: m.ID, Provider: ProviderOpenAI})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

func (c *ModelsClient) fetchAnthropic(ctx context.Context) ([]ModelInfo, error) {
	if c.settings.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.anthropicBaseURL+"/v1/models", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.settings.AnthropicAPIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var parsed modelListResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse model list: %w", err)
	}

	var models []ModelInfo
	for _, m := range parsed.Data {
		models = append(models, ModelInfo{ID: m.ID, Provider: ProviderAnthropic})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

func (c *ModelsClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d (body: %s)", resp.StatusCode, truncateString(string(body), 200))
	}
	return body, nil
}

func (c *ModelsClient) createCacheTable() error {
	_, err := c.db.conn.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			provider VARCHAR(50) PRIMARY KEY,
			models VARCHAR(8000),
			fetched_at TIMESTAMP
		)
	`, modelCacheTable))
	return err
}

func (c *ModelsClient) getCached(provider string) ([]ModelInfo, error) {
	if c.db == nil {
		return nil, fmt.Errorf("no cache database")
	}

	query := fmt.Sprintf(`SELECT models, fetched_at FROM %s WHERE provider = %s`,
		modelCacheTable, c.db.placeholder(1))

	var blob string
	var fetchedAt time.Time
	if err := c.db.conn.QueryRow(query, provider).Scan(&blob, &fetchedAt); err != nil {
		return nil, err
	}
	if time.Since(fetchedAt) > c.cacheTTL {
		return nil, fmt.Errorf("cache expired")
	}

	var models []ModelInfo
	if err := json.Unmarshal([]byte(blob), &models); err != nil {
		return nil, err
	}
	return models, nil
}

func (c *ModelsClient) cache(provider string, models []ModelInfo) error {
	if c.db == nil {
		return nil
	}

	blob, err := json.Marshal(models)
	if err != nil {
		return err
	}

	del := fmt.Sprintf(`DELETE FROM %s WHERE provider = %s`, modelCacheTable, c.db.placeholder(1))
	if _, err := c.db.conn.Exec(del, provider); err != nil {
		return err
	}
	ins := fmt.Sprintf(`INSERT INTO %s (provider, models, fetched_at) VALUES (%s, %s, %s)`,
		modelCacheTable, c.db.placeholder(1), c.db.placeholder(2), c.db.placeholder(3))
	_, err = c.db.conn.Exec(ins, provider, string(blob), time.Now().UTC())
	return err
}
