package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/vibevault/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the default configuration file to the --config path unless one already exists.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if r.configPath == "" {
		return fmt.Errorf("%w: --config path is required", shared.ErrMissingArgument)
	}

	if _, err := os.Stat(r.configPath); err == nil {
		r.writePlain("Config file already exists: %s\n", r.configPath)
		return nil
	}

	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	r.logger.Info("config file created", "path", r.configPath)

	r.writePlain("✓ Config file created: %s\n", r.configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set credentials.spotify.client_id and client_secret (or CLIENT_ID / CLIENT_SECRET)\n")
	r.writePlain("2. Run 'vibevault serve' and then 'vibevault tui'\n")
	return nil
}

// SetupDatabase initializes the track cache database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if r.config.Database.Path == "" {
		return fmt.Errorf("%w: database.path is not set", shared.ErrMissingConfig)
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	r.writePlain("✓ Database ready: %s\n", r.config.Database.Path)
	return nil
}
