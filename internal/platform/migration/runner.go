// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the SQL files under data/migrations with
// golang-migrate. The API server runs [RunUp] at startup; mangactl exposes
// every operation to operators.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// open builds a migrator with golang-migrate output routed to logger.
func open(dsn, migrationsPath string, logger *slog.Logger) (*migrate.Migrate, error) {
	migrator, err := migrate.New("file://"+migrationsPath, toPgx5DSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("migration: failed to initialize: %w", err)
	}
	if logger != nil {
		migrator.Log = slogBridge{logger: logger.With(slog.String("component", "migrate"))}
	}
	return migrator, nil
}

func closeMigrator(migrator *migrate.Migrate, logger *slog.Logger) {
	sourceErr, databaseErr := migrator.Close()
	if err := errors.Join(sourceErr, databaseErr); err != nil && logger != nil {
		logger.Warn("migration_close_failed", slog.Any("error", err))
	}
}

// version maps golang-migrate's "no migration yet" sentinel to version 0.
func version(migrator *migrate.Migrate) (uint, bool, error) {
	current, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migration: failed to read version: %w", err)
	}
	return current, dirty, nil
}

/*
RunUp applies every pending migration.

Description: A dirty schema (a previous migration failed half-way) is refused;
it needs an operator to inspect and force the version.

Returns:
  - error: Dirty schema, unreadable migrations or a failing statement
*/
func RunUp(dsn, migrationsPath string, logger *slog.Logger) error {
	migrator, err := open(dsn, migrationsPath, logger)
	if err != nil {
		return err
	}
	defer closeMigrator(migrator, logger)

	from, dirty, err := version(migrator)
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("migration: schema is dirty at version %d", from)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_up_to_date", slog.Uint64("version", uint64(from)))
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	to, _, _ := version(migrator)
	logger.Info("migration_applied",
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)
	return nil
}

// Down rolls back the given number of applied migrations.
func Down(dsn, migrationsPath string, steps int, logger *slog.Logger) error {
	if steps < 1 {
		return fmt.Errorf("migration: steps must be at least 1, got %d", steps)
	}

	migrator, err := open(dsn, migrationsPath, logger)
	if err != nil {
		return err
	}
	defer closeMigrator(migrator, logger)

	if err := migrator.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration: down failed: %w", err)
	}

	to, _, _ := version(migrator)
	logger.Info("migration_rolled_back", slog.Int("steps", steps), slog.Uint64("to_version", uint64(to)))
	return nil
}

// Version reports the applied version and whether it is dirty.
func Version(dsn, migrationsPath string) (uint, bool, error) {
	migrator, err := open(dsn, migrationsPath, nil)
	if err != nil {
		return 0, false, err
	}
	defer closeMigrator(migrator, nil)

	return version(migrator)
}

// toPgx5DSN rewrites postgres:// and postgresql:// URLs to the pgx5:// scheme
// the golang-migrate driver registers. Keyword DSNs are returned unchanged.
func toPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, found := strings.CutPrefix(dsn, prefix); found {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// slogBridge implements migrate.Logger.
type slogBridge struct {
	logger *slog.Logger
}

func (bridge slogBridge) Printf(format string, args ...any) {
	bridge.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (bridge slogBridge) Verbose() bool {
	return false
}
