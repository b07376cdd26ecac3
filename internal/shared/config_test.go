package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./spotdir.db" {
			t.Errorf("expected database path ./spotdir.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}
		if config.Catalog.BaseURL != "https://api.spotify.com/v1" {
			t.Errorf("expected catalog base URL https://api.spotify.com/v1, got %s", config.Catalog.BaseURL)
		}
		if config.Catalog.MaxRetries != 5 {
			t.Errorf("expected 5 max retries, got %d", config.Catalog.MaxRetries)
		}
		if config.Catalog.RetryWait() != 30*time.Second {
			t.Errorf("expected 30s retry wait, got %v", config.Catalog.RetryWait())
		}
		if config.Credentials.Spotify.ClientID != "your_spotify_client_id" {
			t.Errorf("expected spotify client_id your_spotify_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if len(config.Credentials.Spotify.Scopes) == 0 {
			t.Error("expected default scopes")
		}
		if config.Exchange.URL != "" {
			t.Errorf("expected empty exchange URL by default, got %s", config.Exchange.URL)
		}
		if len(config.Intake.Extensions) == 0 {
			t.Error("expected default intake extensions")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 8080

[credentials.spotify]
client_id = "test_client_id"
redirect_uri = "http://localhost:8080/callback"

[exchange]
url = "https://exchange.example.com/api/token"

[catalog]
max_retries = 2
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}
		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Exchange.URL != "https://exchange.example.com/api/token" {
			t.Errorf("unexpected exchange URL %s", config.Exchange.URL)
		}
		if config.Catalog.MaxRetries != 2 {
			t.Errorf("expected max_retries 2, got %d", config.Catalog.MaxRetries)
		}
		if config.Catalog.BaseURL != "https://api.spotify.com/v1" {
			t.Errorf("expected omitted base_url to keep default, got %s", config.Catalog.BaseURL)
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[database\npath="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("LoadConfigOrDefault Missing File", func(t *testing.T) {
		config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
		if err != nil {
			t.Fatalf("expected defaults, got error %v", err)
		}
		if config.Server.Port != 3000 {
			t.Errorf("expected default port, got %d", config.Server.Port)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name    string
			mutate  func(c *Config)
			wantErr bool
		}{
			{name: "defaults are valid", mutate: func(c *Config) {}},
			{name: "missing client id", mutate: func(c *Config) { c.Credentials.Spotify.ClientID = " " }, wantErr: true},
			{name: "missing redirect uri", mutate: func(c *Config) { c.Credentials.Spotify.RedirectURI = "" }, wantErr: true},
			{name: "missing base url", mutate: func(c *Config) { c.Catalog.BaseURL = "" }, wantErr: true},
			{name: "negative retries", mutate: func(c *Config) { c.Catalog.MaxRetries = -1 }, wantErr: true},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)

				err := config.Validate()
				if (err != nil) != tt.wantErr {
					t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
				if err != nil && !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})
}
