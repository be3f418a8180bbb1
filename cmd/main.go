package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/skipify/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := os.Getenv("SKIPIFY_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}

	config, err := shared.LoadConfig(configPath)
	switch {
	case errors.Is(err, shared.ErrMissingConfig):
		config = shared.DefaultConfig()
	case err != nil:
		logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		config = shared.DefaultConfig()
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	})
	defer runner.Close()

	if err := runner.app().Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		runner.Close()
		logger.Fatal(describe(err))
	}
}
