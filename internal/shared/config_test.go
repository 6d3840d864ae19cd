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

		if config.Database.Path != "./moviweb.db" {
			t.Errorf("expected database path ./moviweb.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 5001 {
			t.Errorf("expected server port 5001, got %d", config.Server.Port)
		}

		if config.OMDb.BaseURL != "http://www.omdbapi.com/" {
			t.Errorf("expected omdb base URL http://www.omdbapi.com/, got %s", config.OMDb.BaseURL)
		}

		if config.OMDb.APIKey != "" {
			t.Errorf("expected empty default api key, got %s", config.OMDb.APIKey)
		}

		if config.Cache.Enabled() {
			t.Error("expected cache to be disabled by default")
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
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
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 8080

[omdb]
api_key = "test_api_key"
timeout = "2s"

[cache]
redis_addr = "localhost:6379"
ttl = "1h"
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

		if config.Server.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected addr 0.0.0.0:8080, got %s", config.Server.Addr())
		}

		if config.OMDb.APIKey != "test_api_key" {
			t.Errorf("expected api key test_api_key, got %s", config.OMDb.APIKey)
		}

		if config.OMDb.BaseURL != "http://www.omdbapi.com/" {
			t.Errorf("expected omitted base_url to keep default, got %s", config.OMDb.BaseURL)
		}

		if d, err := config.OMDb.TimeoutDuration(); err != nil || d != 2*time.Second {
			t.Errorf("expected 2s timeout, got %v (%v)", d, err)
		}

		if !config.Cache.Enabled() {
			t.Error("expected cache to be enabled")
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}

		config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
		if err != nil {
			t.Fatalf("LoadConfigOrDefault() error = %v", err)
		}
		if config.Server.Port != DefaultConfig().Server.Port {
			t.Error("expected default config when file is missing")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv(OMDbAPIKeyEnv, "from-env")

		config := DefaultConfig()
		config.ApplyEnv()

		if config.OMDb.APIKey != "from-env" {
			t.Errorf("expected api key from env, got %s", config.OMDb.APIKey)
		}
	})

	t.Run("LoadDotEnv", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte("MOVIWEB_TEST_DOTENV=loaded\n"), 0644); err != nil {
			t.Fatalf("failed to write .env: %v", err)
		}
		t.Cleanup(func() { os.Unsetenv("MOVIWEB_TEST_DOTENV") })

		if err := LoadDotEnv(envPath, filepath.Join(t.TempDir(), "missing.env")); err != nil {
			t.Fatalf("LoadDotEnv() error = %v", err)
		}

		if got := os.Getenv("MOVIWEB_TEST_DOTENV"); got != "loaded" {
			t.Errorf("expected MOVIWEB_TEST_DOTENV=loaded, got %q", got)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name   string
			mutate func(*Config)
		}{
			{name: "empty database path", mutate: func(c *Config) { c.Database.Path = "" }},
			{name: "zero port", mutate: func(c *Config) { c.Server.Port = 0 }},
			{name: "bad read timeout", mutate: func(c *Config) { c.Server.ReadTimeout = "soon" }},
			{name: "bad log level", mutate: func(c *Config) { c.Server.LogLevel = "loud" }},
			{name: "negative lookup timeout", mutate: func(c *Config) { c.OMDb.Timeout = "-1s" }},
			{name: "bad cache ttl", mutate: func(c *Config) { c.Cache.TTL = "forever" }},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)

				if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})
}
