package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/desertthunder/tmx/internal/shared"
	"github.com/urfave/cli/v3"
)

// resolveConfig loads the config at path, writing the embedded template first when no file exists.
func (r *Runner) resolveConfig(path string) (*shared.Config, error) {
	_, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := shared.CreateConfigFile(path); err != nil {
			return nil, err
		}
		r.logger.Info("config file created", "path", path)
	case err != nil:
		return nil, fmt.Errorf("failed to stat config: %w", err)
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

// SetupDatabase prepares a workspace for `tmx serve`: a config file and a migrated SQLite database.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config, err := r.resolveConfig(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}
	defer db.Close()

	applied, err := shared.RunMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := shared.CurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	r.logger.Info("setup complete", "database", config.Database.Path, "applied", applied, "version", version)
	return nil
}
