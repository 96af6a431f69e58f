// Package config loads process configuration from NEEVA_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/DataScyther/Neeva-AI-sub000/internal/writequeue"
)

// Completion providers.
const (
	ProviderAuto       = "auto"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderNone       = "none"
)

// Document store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverBadger   = "badger"
)

// Config holds the configuration for the neeva binary.
// Environment variables are parsed with the NEEVA_ prefix.
type Config struct {
	// Completion backend
	LLMProvider       string        `envconfig:"LLM_PROVIDER" default:"auto"`
	GeminiAPIKey      string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel       string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	GeminiBaseURL     string        `envconfig:"GEMINI_BASE_URL"`
	OpenRouterAPIKey  string        `envconfig:"OPENROUTER_API_KEY"`
	OpenRouterModel   string        `envconfig:"OPENROUTER_MODEL" default:"google/gemini-2.0-flash-exp:free"`
	OpenRouterBaseURL string        `envconfig:"OPENROUTER_BASE_URL" default:"https://openrouter.ai/api/v1"`
	RequestTimeout    time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	HTTPDebug         bool          `envconfig:"HTTP_DEBUG"`

	// Gateway policy
	MaxAttempts        int           `envconfig:"MAX_ATTEMPTS" default:"3"`
	BaseDelay          time.Duration `envconfig:"BASE_DELAY" default:"1s"`
	MaxDelay           time.Duration `envconfig:"MAX_DELAY" default:"10s"`
	Cooldown           time.Duration `envconfig:"COOLDOWN" default:"60s"`
	MaxContextMessages int           `envconfig:"MAX_CONTEXT_MESSAGES" default:"20"`

	// Persistence
	StoreDriver string            `envconfig:"STORE_DRIVER" default:"memory"`
	SQLitePath  string            `envconfig:"SQLITE_PATH" default:"~/.neeva/neeva.db"`
	PostgresDSN string            `envconfig:"POSTGRES_DSN"`
	BadgerDir   string            `envconfig:"BADGER_DIR" default:"~/.neeva/badger"`
	Write       writequeue.Config `envconfig:"WRITE"`

	// Identity tokens accepted by the HTTP façade
	IdentitySecret string `envconfig:"IDENTITY_SECRET"`
	IdentityIssuer string `envconfig:"IDENTITY_ISSUER" default:"neeva"`

	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// ResolveDefaults derives LLMProvider when set to "auto" or empty, validates
// the store driver and expands a leading "~/" in filesystem paths.
func (c *Config) ResolveDefaults() error {
	switch strings.ToLower(c.LLMProvider) {
	case "", ProviderAuto:
		switch {
		case c.GeminiAPIKey != "":
			c.LLMProvider = ProviderGemini
		case c.OpenRouterAPIKey != "":
			c.LLMProvider = ProviderOpenRouter
		default:
			c.LLMProvider = ProviderNone
		}
	case ProviderGemini, ProviderOpenRouter, ProviderNone:
		c.LLMProvider = strings.ToLower(c.LLMProvider)
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER: %s", c.LLMProvider)
	}

	c.StoreDriver = strings.ToLower(c.StoreDriver)
	switch c.StoreDriver {
	case DriverMemory, DriverSQLite, DriverBadger:
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("STORE_DRIVER=postgres requires POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}

	var err error
	if c.SQLitePath, err = expandHome(c.SQLitePath); err != nil {
		return err
	}
	if c.BadgerDir, err = expandHome(c.BadgerDir); err != nil {
		return err
	}
	return nil
}

// APIKey returns the credential for the resolved provider.
func (c *Config) APIKey() string {
	switch c.LLMProvider {
	case ProviderGemini:
		return c.GeminiAPIKey
	case ProviderOpenRouter:
		return c.OpenRouterAPIKey
	}
	return ""
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", p, err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// New creates a Config by parsing environment variables, e.g.
// NEEVA_STORE_DRIVER=sqlite or NEEVA_WRITE_SHARDS=8.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("NEEVA", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("llm_provider", cfg.LLMProvider).
		Bool("api_key_present", cfg.APIKey() != "").
		Dur("request_timeout", cfg.RequestTimeout).
		Int("max_attempts", cfg.MaxAttempts).
		Dur("cooldown", cfg.Cooldown).
		Str("store_driver", cfg.StoreDriver).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Int("write_shards", cfg.Write.Shards).
		Bool("identity_secret_present", cfg.IdentitySecret != "").
		Str("http_addr", cfg.HTTPAddr).
		Msg("Configuration loaded")

	return &cfg, nil
}
