// Package config loads and validates the Inkwell TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	AI      AIConfig      `toml:"ai"`
	Limits  LimitsConfig  `toml:"limits"`
	Secrets SecretsConfig `toml:"secrets"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `toml:"port"`
}

// AIConfig holds AI provider settings. API keys are not configured here;
// they are stored encrypted through the settings endpoint.
type AIConfig struct {
	DefaultProvider string `toml:"default_provider"`
	OpenAIModel     string `toml:"openai_model"`
	AnthropicModel  string `toml:"anthropic_model"`
}

// LimitsConfig holds the rate-limit and content-size budgets.
type LimitsConfig struct {
	RateMaxRequests    int `toml:"rate_max_requests"`
	RateWindowSeconds  int `toml:"rate_window_seconds"`
	CategorizeMaxChars int `toml:"categorize_max_chars"`
	RewriteMaxChars    int `toml:"rewrite_max_chars"`
	MinContentChars    int `toml:"min_content_chars"`
}

// SecretsConfig holds the key protecting stored vendor credentials.
type SecretsConfig struct {
	Key string `toml:"key"`
}

const defaultConfigContent = `[server]
port = 8080

[ai]
default_provider = "openai"       # "openai" or "anthropic"
openai_model = "gpt-4o-mini"
anthropic_model = "claude-haiku-4-5"

[limits]
rate_max_requests = 10            # AI requests per user per window
rate_window_seconds = 60
categorize_max_chars = 8000
rewrite_max_chars = 12000
min_content_chars = 50

[secrets]
key = ""                          # or set INKWELL_SECRET_KEY
`

// Load reads and parses the TOML config from the given path. If the file
// does not exist, a default config file is created there. Environment
// variables override file values with highest priority.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Validate explicitly-set values before applying defaults, so an
	// explicit "port = 0" is an error rather than silently replaced.
	if err := validateExplicit(&cfg, md); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// createDefault writes the default config content to path, creating parent
// directories as needed.
func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// validateExplicit checks values that were explicitly set in the TOML file.
func validateExplicit(cfg *Config, md toml.MetaData) error {
	if md.IsDefined("server", "port") {
		if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
			return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
		}
	}
	if md.IsDefined("limits", "rate_max_requests") && cfg.Limits.RateMaxRequests < 1 {
		return fmt.Errorf("invalid limits.rate_max_requests %d: must be >= 1", cfg.Limits.RateMaxRequests)
	}
	if md.IsDefined("limits", "rate_window_seconds") && cfg.Limits.RateWindowSeconds < 1 {
		return fmt.Errorf("invalid limits.rate_window_seconds %d: must be >= 1", cfg.Limits.RateWindowSeconds)
	}
	return nil
}

// applyDefaults sets default values for any zero-valued fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.AI.DefaultProvider == "" {
		cfg.AI.DefaultProvider = "openai"
	}
	if cfg.AI.OpenAIModel == "" {
		cfg.AI.OpenAIModel = "gpt-4o-mini"
	}
	if cfg.AI.AnthropicModel == "" {
		cfg.AI.AnthropicModel = "claude-haiku-4-5"
	}
	if cfg.Limits.RateMaxRequests == 0 {
		cfg.Limits.RateMaxRequests = 10
	}
	if cfg.Limits.RateWindowSeconds == 0 {
		cfg.Limits.RateWindowSeconds = 60
	}
	if cfg.Limits.CategorizeMaxChars == 0 {
		cfg.Limits.CategorizeMaxChars = 8000
	}
	if cfg.Limits.RewriteMaxChars == 0 {
		cfg.Limits.RewriteMaxChars = 12000
	}
	if cfg.Limits.MinContentChars == 0 {
		cfg.Limits.MinContentChars = 50
	}
}

// applyEnvOverrides applies environment variable overrides, which take
// highest priority.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("INKWELL_SECRET_KEY"); v != "" {
		cfg.Secrets.Key = v
	}
	if v := os.Getenv("INKWELL_DEFAULT_PROVIDER"); v != "" {
		cfg.AI.DefaultProvider = v
	}
}

// validate checks that configuration values are within acceptable ranges.
func validate(cfg *Config) error {
	switch cfg.AI.DefaultProvider {
	case "openai", "anthropic":
		// valid
	default:
		return fmt.Errorf("invalid ai.default_provider %q: must be \"openai\" or \"anthropic\"", cfg.AI.DefaultProvider)
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}

	if cfg.Secrets.Key == "" {
		return errors.New("secrets.key is required: set it in the config file or via INKWELL_SECRET_KEY")
	}

	return nil
}
