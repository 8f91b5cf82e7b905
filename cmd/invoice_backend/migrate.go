package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/platform/config"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			return runMigrations(cfg, logger, func(m *migrate.Migrate) error { return m.Up() })
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations, one step unless a count is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = n
			}
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			return runMigrations(cfg, logger, func(m *migrate.Migrate) error { return m.Steps(-steps) })
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			return runMigrations(cfg, logger, func(m *migrate.Migrate) error {
				v, dirty, err := m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					logger.Info("No migrations applied")
					return nil
				}
				if err != nil {
					return err
				}
				logger.Info("Schema version", slog.Uint64("version", uint64(v)), slog.Bool("dirty", dirty))
				return nil
			})
		},
	})

	return cmd
}

// runMigrations opens a database/sql connection through the pgx stdlib driver and applies step.
func runMigrations(cfg *config.Config, logger *slog.Logger, step func(m *migrate.Migrate) error) error {
	if cfg.DatabaseURL == "" {
		return errors.New("PGSQL_URL is required for migrations")
	}

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	err = step(m)
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
		err = nil
	}
	if err != nil {
		var dirty migrate.ErrDirty
		if errors.As(err, &dirty) {
			return fmt.Errorf("database is dirty at version %d, fix it and force the version: %w", dirty.Version, err)
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
		return errors.Join(sourceErr, dbErr)
	}
	logger.Info("Database migrations finished")
	return nil
}
