package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Storage backends accepted by [StorageConfig.Backend].
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	Session SessionConfig `toml:"session"`
	Library LibraryConfig `toml:"library"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
}

// APIConfig configures the remote client adapter.
type APIConfig struct {
	BaseURL       string        `toml:"base_url"`
	ReadTimeout   time.Duration `toml:"read_timeout"`
	UploadTimeout time.Duration `toml:"upload_timeout"`
	RateLimit     float64       `toml:"rate_limit"`
}

// StorageConfig selects and configures the on-device key-value store.
type StorageConfig struct {
	Backend      string `toml:"backend"`
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// SessionConfig bounds the startup credential probe.
type SessionConfig struct {
	StartupTimeout time.Duration `toml:"startup_timeout"`
}

// LibraryConfig locates audio files on the device.
type LibraryConfig struct {
	MusicDir   string   `toml:"music_dir"`
	Extensions []string `toml:"extensions"`
}

// ServerConfig contains settings for the loopback development API.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Addr returns host:port for the development server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys absent from the file keep the values of [DefaultConfig]. A missing file wraps [ErrMissingConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate checks values the rest of the application relies on.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Storage.Backend) {
	case BackendSQLite, BackendBolt, BackendMemory:
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Storage.Backend)
	}

	if c.API.ReadTimeout <= 0 || c.API.UploadTimeout <= 0 {
		return fmt.Errorf("%w: api timeouts must be positive", ErrInvalidConfig)
	}

	if c.Session.StartupTimeout <= 0 {
		return fmt.Errorf("%w: session startup_timeout must be positive", ErrInvalidConfig)
	}

	if c.API.RateLimit < 0 {
		return fmt.Errorf("%w: api rate_limit cannot be negative", ErrInvalidConfig)
	}

	return nil
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
