// Package config loads storefront client configuration from a YAML file
// or from STOREFRONT_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

// Config is everything the CLI needs to construct a client.
type Config struct {
	// BaseURL is the storefront API origin, e.g. https://api.example.com.
	BaseURL string `yaml:"base_url" env:"STOREFRONT_BASE_URL"`

	// CredentialsFile is where tokens are persisted between runs.
	CredentialsFile string `yaml:"credentials_file" env:"STOREFRONT_CREDENTIALS_FILE"`

	// RequestTimeout bounds each HTTP request.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"STOREFRONT_REQUEST_TIMEOUT"`

	// PollInterval is how often the notification unread counter refreshes.
	PollInterval time.Duration `yaml:"poll_interval" env:"STOREFRONT_POLL_INTERVAL"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"STOREFRONT_LOG_LEVEL"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		BaseURL:         "http://localhost:8090",
		CredentialsFile: home + "/.storefront/credentials.json",
		RequestTimeout:  30 * time.Second,
		PollInterval:    30 * time.Second,
		LogLevel:        "info",
	}
}

// Load reads configuration from a YAML file, then applies environment
// overrides on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := envdecode.Decode(cfg); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from path if the file exists, and
// falls back to defaults plus environment overrides otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	cfg := Default()
	if err := envdecode.Decode(cfg); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required fields are set and sane.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base_url must start with http:// or https://")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}
