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
		t.Setenv(APIKeyEnv, "")
		config := DefaultConfig()

		if config.Storage.Driver != "sqlite" {
			t.Errorf("expected storage driver sqlite, got %s", config.Storage.Driver)
		}

		if config.Storage.Path != "./reelx.db" {
			t.Errorf("expected storage path ./reelx.db, got %s", config.Storage.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.TMDB.BaseURL != "https://api.themoviedb.org/3" {
			t.Errorf("expected TMDB base URL, got %s", config.TMDB.BaseURL)
		}

		if config.TMDB.Language != "en-US" {
			t.Errorf("expected language en-US, got %s", config.TMDB.Language)
		}

		if config.TMDB.Timeout() != 10*time.Second {
			t.Errorf("expected 10s timeout, got %v", config.TMDB.Timeout())
		}
	})

	t.Run("environment overrides api key", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "env-key")
		if got := DefaultConfig().TMDB.APIKey; got != "env-key" {
			t.Errorf("expected env-key, got %q", got)
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

		if config.Storage.Path != DefaultConfig().Storage.Path {
			t.Errorf("created config storage path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "")
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[tmdb]
api_key = "file-key"
timeout_seconds = 3

[storage]
driver = "bolt"
path = "/custom/reelx.bolt"

[server]
host = "0.0.0.0"
port = 8080
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Storage.Driver != "bolt" {
			t.Errorf("expected driver bolt, got %s", config.Storage.Driver)
		}

		if config.Server.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected addr 0.0.0.0:8080, got %s", config.Server.Addr())
		}

		if config.TMDB.APIKey != "file-key" {
			t.Errorf("expected api key file-key, got %s", config.TMDB.APIKey)
		}

		if config.TMDB.Timeout() != 3*time.Second {
			t.Errorf("expected 3s timeout, got %v", config.TMDB.Timeout())
		}

		if config.TMDB.Language != "en-US" {
			t.Errorf("missing keys should keep defaults, got language %q", config.TMDB.Language)
		}
	})

	t.Run("LoadConfig rejects malformed toml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[tmdb\nbroken"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
