package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("LoadConfig missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Storage.Path != "./skipify.db" {
			t.Errorf("expected storage path ./skipify.db, got %s", config.Storage.Path)
		}

		if config.Storage.Backend != BackendSQLite {
			t.Errorf("expected sqlite backend, got %s", config.Storage.Backend)
		}

		if config.API.ReadTimeout != 8*time.Second {
			t.Errorf("expected 8s read timeout, got %v", config.API.ReadTimeout)
		}

		if config.API.UploadTimeout != 15*time.Second {
			t.Errorf("expected 15s upload timeout, got %v", config.API.UploadTimeout)
		}

		if config.Session.StartupTimeout != 3*time.Second {
			t.Errorf("expected 3s startup timeout, got %v", config.Session.StartupTimeout)
		}

		if len(config.Library.Extensions) != 4 {
			t.Errorf("expected 4 supported extensions, got %v", config.Library.Extensions)
		}

		if config.Server.Addr() != "127.0.0.1:5000" {
			t.Errorf("expected server addr 127.0.0.1:5000, got %s", config.Server.Addr())
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

		if config.Storage.Path != DefaultConfig().Storage.Path {
			t.Errorf("created config storage path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
base_url = "http://10.0.2.2:5000"
read_timeout = "2s"

[storage]
backend = "bolt"
path = "/custom/skipify.bolt"

[library]
music_dir = "/sdcard/Music"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "http://10.0.2.2:5000" {
			t.Errorf("expected base url http://10.0.2.2:5000, got %s", config.API.BaseURL)
		}

		if config.API.ReadTimeout != 2*time.Second {
			t.Errorf("expected 2s read timeout, got %v", config.API.ReadTimeout)
		}

		if config.API.UploadTimeout != 15*time.Second {
			t.Errorf("expected default upload timeout to survive, got %v", config.API.UploadTimeout)
		}

		if config.Storage.Backend != BackendBolt {
			t.Errorf("expected bolt backend, got %s", config.Storage.Backend)
		}

		if config.Library.MusicDir != "/sdcard/Music" {
			t.Errorf("expected music dir /sdcard/Music, got %s", config.Library.MusicDir)
		}
	})

	t.Run("LoadConfig Rejects Unknown Backend", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[storage]\nbackend = \"redis\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
