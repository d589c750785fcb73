package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/texttube/internal/repositories"
	"github.com/desertthunder/texttube/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if _, err := os.Stat(r.configPath); err != nil && r.configPath != "" {
		r.logger.Info("config file not found, creating from template", "path", r.configPath)
		if err := shared.CreateConfigFile(r.configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		}
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)
	db, err := r.database()
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	states, err := shared.MigrationStatus(db)
	if err != nil {
		return err
	}
	r.logger.Infof("setup complete for database: %v (%d migrations)", r.config.Database.Path, len(states))
	return nil
}

// SetupConfig writes the example configuration file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if path == "" {
		path = r.configPath
	}
	if path == "" {
		return fmt.Errorf("%w: --output is required", shared.ErrMissingArgument)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)
	return r.writePlain("%s\n", path)
}

// SetupStatus prints each migration with the time it was applied.
func (r *Runner) SetupStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	states, err := shared.MigrationStatus(db)
	if err != nil {
		return err
	}

	r.writePlainHeader("Migrations")
	for _, s := range states {
		applied := "pending"
		if s.AppliedAt != nil {
			applied = s.AppliedAt.Local().Format("2006-01-02 15:04:05")
		}
		r.writePlain("%04d  %-32s %s\n", s.Version, s.Name, applied)
	}

	videos := repositories.NewVideoRepository(db)
	count, err := videos.Count()
	if err != nil {
		return err
	}
	latest, err := videos.List(map[string]any{"limit": 1})
	if err != nil {
		return err
	}

	r.writePlainHeader("Catalogue")
	r.writePlain("Videos: %d\n", count)
	if len(latest) > 0 {
		r.writePlain("Latest: %s (%s)\n", latest[0].Title(), shared.FormatDate(latest[0].CreatedAt()))
	}
	return nil
}

// SetupRollback reverts the newest applied migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RollbackMigration(db); err != nil {
		return err
	}
	r.logger.Info("rolled back latest migration", "database", r.config.Database.Path)
	return nil
}
