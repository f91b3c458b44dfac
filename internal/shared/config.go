package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Sync        SyncConfig        `toml:"sync"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Canvas CanvasConfig `toml:"canvas"`
}

// CanvasConfig contains Canvas API credentials.
//
// The CANVAS_URL and CANVAS_TOKEN environment variables take precedence
// over values from the config file.
type CanvasConfig struct {
	BaseURL     string `toml:"base_url"`
	AccessToken string `toml:"access_token"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// SyncConfig contains roster sync behavior settings.
type SyncConfig struct {
	PageSize    int     `toml:"page_size"`
	Attempts    int     `toml:"attempts"`
	RetryWaitMS int     `toml:"retry_wait_ms"`
	RateLimit   float64 `toml:"rate_limit"`
	Notify      bool    `toml:"notify"`
}

// RetryWait returns the configured pause between enrollment attempts.
func (s SyncConfig) RetryWait() time.Duration {
	return time.Duration(s.RetryWaitMS) * time.Millisecond
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides Canvas credentials with the CANVAS_URL and CANVAS_TOKEN
// environment variables when set.
func (c *Config) ApplyEnv() {
	if url := os.Getenv("CANVAS_URL"); url != "" {
		c.Credentials.Canvas.BaseURL = url
	}
	if token := os.Getenv("CANVAS_TOKEN"); token != "" {
		c.Credentials.Canvas.AccessToken = token
	}
}

// ValidateCredentials checks that both the base URL and access token are
// present. Commands that touch the API call this before any network activity.
func (c *Config) ValidateCredentials() error {
	if c.Credentials.Canvas.BaseURL == "" || c.Credentials.Canvas.AccessToken == "" {
		return fmt.Errorf("%w: CANVAS_URL and CANVAS_TOKEN must be set (env or config.toml)", ErrMissingCredentials)
	}
	return nil
}
