package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Exchange    ExchangeConfig    `toml:"exchange"`
	Catalog     CatalogConfig     `toml:"catalog"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Intake      IntakeConfig      `toml:"intake"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains the public OAuth client settings.
//
// No client secret lives here: the PKCE flow only needs the client id, and the secret (if any) belongs to the
// token exchange backend.
type SpotifyConfig struct {
	ClientID    string   `toml:"client_id"`
	RedirectURI string   `toml:"redirect_uri"`
	AuthURL     string   `toml:"auth_url"`
	TokenURL    string   `toml:"token_url"`
	Scopes      []string `toml:"scopes"`
}

// ExchangeConfig points at the trusted backend that swaps an authorization code for an access token.
//
// When URL is empty the CLI exchanges the code with the token endpoint directly (public client flow).
// ClientSecret and Listen are only read by `exchange serve`.
type ExchangeConfig struct {
	URL          string `toml:"url"`
	Listen       string `toml:"listen"`
	ClientSecret string `toml:"client_secret"`
}

// CatalogConfig tunes the catalog API client.
type CatalogConfig struct {
	BaseURL           string  `toml:"base_url"`
	MaxRetries        int     `toml:"max_retries"`
	MaxRetryWait      int     `toml:"max_retry_wait"` // seconds
	RequestsPerSecond float64 `toml:"requests_per_second"`
	TimeoutSeconds    int     `toml:"timeout"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains the local OAuth callback server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// IntakeConfig controls which files in a folder count as tracks.
type IntakeConfig struct {
	Extensions []string `toml:"extensions"`
}

// RetryWait returns the Retry-After ceiling as a duration.
func (c CatalogConfig) RetryWait() time.Duration {
	return time.Duration(c.MaxRetryWait) * time.Second
}

// Timeout returns the per-request HTTP timeout.
func (c CatalogConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks the fields the login and sync commands cannot work without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Credentials.Spotify.ClientID) == "" {
		return fmt.Errorf("%w: credentials.spotify.client_id is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Credentials.Spotify.RedirectURI) == "" {
		return fmt.Errorf("%w: credentials.spotify.redirect_uri is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Catalog.BaseURL) == "" {
		return fmt.Errorf("%w: catalog.base_url is required", ErrInvalidConfig)
	}
	if c.Catalog.MaxRetries < 0 {
		return fmt.Errorf("%w: catalog.max_retries must not be negative", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// LoadConfigOrDefault loads path when it exists and falls back to [DefaultConfig] otherwise.
func LoadConfigOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
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
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
