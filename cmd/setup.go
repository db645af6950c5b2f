package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/ytcat/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates a config file from the template when missing and migrates the job database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config, err := r.loadOrCreateConfig(configPath)
	if err != nil {
		return err
	}

	r.logger.Info("migrating job database", "path", config.Database.Path)
	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to prepare database: %w", err)
	}
	db.Close()

	r.writePlain("✓ Config: %s\n", configPath)
	r.writePlain("✓ Database: %s\n", config.Database.Path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set youtube.api_key in %s (or export %s)\n", configPath, shared.APIKeyEnv)
	r.writePlain("2. Set oauth.client_id and oauth.client_secret, then run 'ytcat auth login'\n")
	return nil
}

func (r *Runner) loadOrCreateConfig(path string) (*shared.Config, error) {
	if _, err := os.Stat(path); err != nil {
		r.logger.Info("config file not found, creating from template", "path", path)
		if err := shared.CreateConfigFile(path); err != nil {
			return nil, fmt.Errorf("failed to create config file: %w", err)
		}
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "error", err)
		return shared.DefaultConfig(), nil
	}
	return config, nil
}
