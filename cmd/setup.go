package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/reelx/internal/repositories"
	"github.com/desertthunder/reelx/internal/shared"
)

// SetupConfig writes the embedded example config to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if path == "" {
		path = "config.toml"
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return r.writePlain("✓ Config written to %s\n", path)
}

// SetupDatabase initializes the configured store, running SQLite migrations (or rolling the latest one back).
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	storage := r.config.Storage
	r.logger.Info("initializing storage", "driver", storage.Driver, "path", storage.Path)

	switch strings.ToLower(storage.Driver) {
	case "", "sqlite", "sqlite3":
		return r.setupSQLite(storage, cmd.Bool("rollback"))
	case "bolt", "bbolt":
		db, err := shared.NewBoltDatabase(storage.Path)
		if err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
		store, err := repositories.NewBoltStore(db)
		if err != nil {
			return err
		}
		defer store.Close()

		return r.writePlain("✓ Bolt store ready at %s\n", storage.Path)
	case "memory":
		return r.writePlain("Memory storage needs no setup; nothing persists between runs.\n")
	default:
		return fmt.Errorf("%w: unknown storage driver %q", shared.ErrInvalidConfig, storage.Driver)
	}
}

func (r *Runner) setupSQLite(storage shared.StorageConfig, rollback bool) error {
	db, err := shared.NewDatabase(storage.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	if storage.MaxOpenConns > 0 {
		shared.ConfigureDatabase(db, storage.MaxOpenConns, storage.MaxIdleConns)
	}

	if rollback {
		r.logger.Info("rolling back latest migration")
		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
	} else {
		r.logger.Info("running database migrations")
		applied, err := shared.RunMigrations(db)
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		r.logger.Info("migrations applied", "count", applied)
	}

	version, ok, err := shared.CurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if !ok {
		return r.writePlain("✓ Database at %s has no migrations applied\n", storage.Path)
	}
	return r.writePlain("✓ Database at %s is at schema version %d\n", storage.Path, version)
}

// SetupAPIKey stores the TMDB API key used when the config and environment carry none.
func (r *Runner) SetupAPIKey(ctx context.Context, cmd *cli.Command) error {
	key := strings.TrimSpace(cmd.StringArg("key"))
	if key == "" {
		return fmt.Errorf("%w: api key is required", shared.ErrMissingArgument)
	}

	if !r.prefs.SaveAPIKey(key) {
		return fmt.Errorf("%w: failed to save api key", shared.ErrStorage)
	}
	r.tmdb.SetAPIKey(key)

	if r.config.TMDB.APIKey != "" {
		r.logger.Warn("config or environment api key takes precedence over the stored key", "env", shared.APIKeyEnv)
	}
	return r.writePlain("✓ API key saved\n")
}
