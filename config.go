package main

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LookupFunc resolves a configuration key, typically os.LookupEnv.
type LookupFunc func(string) (string, bool)

// Settings holds all application configuration read from the environment.
type Settings struct {
	// Database
	DBType       string // duckdb, sqlite, postgres, mysql
	DBPath       string // file path for duckdb/sqlite backends
	PGHost       string
	PGPort       int
	PGDatabase   string
	PGUser       string
	PGPassword   string
	MySQLHost    string
	MySQLPort    int
	MySQLDatabase string
	MySQLUser    string
	MySQLPassword string

	// LLM
	OpenAIAPIKey    string
	AnthropicAPIKey string
	LLMProvider     string // openai or anthropic
	LLMModel        string
	SQLMaxRetries   int

	// Server / limits
	HTTPPort int
	MaxRows  int
}

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// LoadSettings loads a .env file if present and reads configuration from
// the process environment.
func LoadSettings() (*Settings, error) {
	// Missing .env is fine; only real parse errors matter.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		if logger != nil {
			logger.Warn("Failed to load .env file", "error", err)
		}
	}
	return LoadSettingsFrom(os.LookupEnv)
}

// LoadSettingsFrom reads configuration through the given lookup function.
func LoadSettingsFrom(lookup LookupFunc) (*Settings, error) {
	if lookup == nil {
		return nil, fmt.Errorf("lookup function is required")
	}

	s := &Settings{
		DBType:        "duckdb",
		DBPath:        "data/sample.db",
		PGHost:        "localhost",
		PGPort:        5432,
		MySQLHost:     "localhost",
		MySQLPort:     3306,
		LLMProvider:   ProviderOpenAI,
		SQLMaxRetries: 3,
		HTTPPort:      3000,
		MaxRows:       1000,
	}

	applyString(lookup, "EASYSQL_DB_TYPE", &s.DBType)
	applyString(lookup, "EASYSQL_DB_PATH", &s.DBPath)
	applyString(lookup, "EASYSQL_PG_HOST", &s.PGHost)
	if err := applyInt(lookup, "EASYSQL_PG_PORT", &s.PGPort); err != nil {
		return nil, err
	}
	applyString(lookup, "EASYSQL_PG_DB", &s.PGDatabase)
	applyString(lookup, "EASYSQL_PG_USER", &s.PGUser)
	applyString(lookup, "EASYSQL_PG_PASSWORD", &s.PGPassword)
	applyString(lookup, "EASYSQL_MYSQL_HOST", &s.MySQLHost)
	if err := applyInt(lookup, "EASYSQL_MYSQL_PORT", &s.MySQLPort); err != nil {
		return nil, err
	}
	applyString(lookup, "EASYSQL_MYSQL_DB", &s.MySQLDatabase)
	applyString(lookup, "EASYSQL_MYSQL_USER", &s.MySQLUser)
	applyString(lookup, "EASYSQL_MYSQL_PASSWORD", &s.MySQLPassword)

	applyString(lookup, "OPENAI_API_KEY", &s.OpenAIAPIKey)
	applyString(lookup, "ANTHROPIC_API_KEY", &s.AnthropicAPIKey)
	applyString(lookup, "EASYSQL_LLM_PROVIDER", &s.LLMProvider)
	applyString(lookup, "EASYSQL_LLM_MODEL", &s.LLMModel)
	if err := applyInt(lookup, "EASYSQL_SQL_MAX_RETRIES", &s.SQLMaxRetries); err != nil {
		return nil, err
	}
	if err := applyInt(lookup, "EASYSQL_HTTP_PORT", &s.HTTPPort); err != nil {
		return nil, err
	}
	if err := applyInt(lookup, "EASYSQL_MAX_ROWS", &s.MaxRows); err != nil {
		return nil, err
	}

	s.DBType = strings.ToLower(strings.TrimSpace(s.DBType))
	s.LLMProvider = strings.ToLower(strings.TrimSpace(s.LLMProvider))

	switch s.LLMProvider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", s.LLMProvider)
	}

	// Cap retries to avoid excessive API calls
	if s.SQLMaxRetries < 1 {
		s.SQLMaxRetries = 1
	} else if s.SQLMaxRetries > 5 {
		s.SQLMaxRetries = 5
	}

	if s.LLMModel == "" {
		s.LLMModel = DefaultModel(s.LLMProvider)
	}

	return s, nil
}

// DefaultModel returns the default model ID for a provider.
func DefaultModel(provider string) string {
	if provider == ProviderAnthropic {
		return "claude-haiku-4-5"
	}
	return "gpt-4o"
}

// APIKey returns the API key for the configured provider.
func (s *Settings) APIKey() string {
	return s.APIKeyFor(s.LLMProvider)
}

// APIKeyFor returns the API key for the named provider.
func (s *Settings) APIKeyFor(provider string) string {
	if provider == ProviderAnthropic {
		return s.AnthropicAPIKey
	}
	return s.OpenAIAPIKey
}

// DSN returns the database/sql driver name and connection string for the
// configured backend.
func (s *Settings) DSN() (driver, dsn string, err error) {
	switch s.DBType {
	case "duckdb":
		return "duckdb", s.DBPath, nil
	case "sqlite":
		return "sqlite", s.DBPath, nil
	case "postgres", "postgresql":
		if s.PGDatabase == "" || s.PGUser == "" {
			return "", "", fmt.Errorf("postgres backend requires EASYSQL_PG_DB and EASYSQL_PG_USER")
		}
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(s.PGUser, s.PGPassword),
			Host:   fmt.Sprintf("%s:%d", s.PGHost, s.PGPort),
			Path:   "/" + s.PGDatabase,
		}
		return "pgx", u.String(), nil
	case "mysql":
		if s.MySQLDatabase == "" || s.MySQLUser == "" {
			return "", "", fmt.Errorf("mysql backend requires EASYSQL_MYSQL_DB and EASYSQL_MYSQL_USER")
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			s.MySQLUser, s.MySQLPassword, s.MySQLHost, s.MySQLPort, s.MySQLDatabase)
		return "mysql", dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported database type: %q", s.DBType)
	}
}

// FileBacked reports whether the configured backend stores its data in a
// local file the application may need to create and seed.
func (s *Settings) FileBacked() bool {
	return s.DBType == "duckdb" || s.DBType == "sqlite"
}

func applyString(lookup LookupFunc, key string, target *string) {
	if raw, ok := lookup(key); ok && strings.TrimSpace(raw) != "" {
		*target = strings.TrimSpace(raw)
	}
}

func applyInt(lookup LookupFunc, key string, target *int) error {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*target = value
	return nil
}
