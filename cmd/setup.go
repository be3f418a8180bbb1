package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/skipify/internal/repositories"
	"github.com/desertthunder/skipify/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file when missing and opens the configured store, which runs migrations for
// the SQLite backend.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath
	if configPath == "" {
		configPath = "config.toml"
	}

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("using existing config", "path", configPath)
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load created config: %w", err)
		}
		r.config = config
	}

	r.logger.Info("initializing local store", "backend", r.config.Storage.Backend, "path", r.config.Storage.Path)

	store, err := repositories.OpenStore(r.config.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize local store: %w", err)
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("failed to close local store: %w", err)
	}

	if dir := r.config.Library.MusicDir; dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			r.logger.Warn("failed to create music directory", "path", dir, "error", err)
		}
	}

	r.writePlain("✓ Setup complete\n")
	r.writePlain("Config: %s\n", configPath)
	r.writePlain("Store:  %s (%s)\n", r.config.Storage.Path, r.config.Storage.Backend)
	r.writePlainln("Next steps:")
	r.writePlain("1. Run 'skipify auth login -e you@example.com -p ...' or 'skipify auth offline'\n")
	r.writePlain("2. Run 'skipify songs scan %s' to import audio files\n", r.config.Library.MusicDir)
	return nil
}
