// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/taibuivan/mangaverse/internal/core/catalog"
	"github.com/taibuivan/mangaverse/internal/core/engagement"
	"github.com/taibuivan/mangaverse/internal/platform/migration"
	pgstore "github.com/taibuivan/mangaverse/internal/platform/postgres"
	"github.com/taibuivan/mangaverse/internal/platform/sec"
	"github.com/taibuivan/mangaverse/internal/users/account"
	"github.com/taibuivan/mangaverse/internal/users/auth"
)

// # Migrations

func newMigrateCmd(env *environment) *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrate.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return migration.RunUp(env.cfg.DatabaseURL, env.cfg.MigrationPath, env.logger)
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return migration.Down(env.cfg.DatabaseURL, env.cfg.MigrationPath, steps, env.logger)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	migrate.AddCommand(down)

	migrate.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			version, dirty, err := migration.Version(env.cfg.DatabaseURL, env.cfg.MigrationPath)
			if err != nil {
				return err
			}
			cmd.Printf("version=%d dirty=%t\n", version, dirty)
			return nil
		},
	})

	return migrate
}

// # Catalog Maintenance

// withPool opens a pool for the duration of fn.
func (env *environment) withPool(ctx context.Context, fn func(pool *pgxpool.Pool) error) error {
	pool, err := pgstore.NewPool(ctx, env.cfg.Postgres(), env.logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(pool)
}

func (env *environment) catalogService(pool *pgxpool.Pool) *catalog.Service {
	service := catalog.NewService(
		catalog.NewMangaRepository(pool),
		catalog.NewChapterRepository(pool),
		pgstore.NewTxManager(pool),
		nil,
		nil,
		env.logger,
	)
	service.SetRatingSource(engagement.NewRatingRepository(pool))
	return service
}

func newReconcileCmd(env *environment) *cobra.Command {
	var mangaID string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Re-derive cached manga aggregates from their chapters and ratings",
		Long: `Recomputes chapter count, latest chapter, last update time, languages,
average rating and rating count for one manga or for the whole catalogue.
Safe to run against a live system.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
				service := env.catalogService(pool)

				if mangaID != "" {
					manga, err := service.ReconcileManga(cmd.Context(), mangaID)
					if err != nil {
						return err
					}
					cmd.Printf("reconciled %s: %d chapters, languages %v, rating %.2f over %d\n",
							manga.ID, manga.ChapterCount, manga.Languages, manga.AverageRating, manga.RatingCount)
					return nil
				}

				count, err := service.ReconcileAll(cmd.Context())
				if err != nil {
					return fmt.Errorf("reconciled %d manga before failing: %w", count, err)
				}
				cmd.Printf("reconciled %d manga\n", count)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&mangaID, "manga", "", "reconcile a single manga by ID")
	return cmd
}

func newStatsCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print catalogue statistics as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
				stats, err := env.catalogService(pool).Statistics(cmd.Context())
				if err != nil {
					return err
				}

				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(stats)
			})
		},
	}
}

// # User Administration

func newUsersCmd(env *environment) *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "Administer user accounts",
	}

	users.AddCommand(&cobra.Command{
		Use:   "set-role <login> <role>",
		Short: "Change the role of an account identified by email or username",
		Long: `Grants or revokes moderator and admin roles. This is the way to create the
first administrator of a fresh deployment.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := sec.UserRole(args[1])
			if !role.IsValid() {
				return fmt.Errorf("unknown role %q: want user, moderator or admin", args[1])
			}

			return env.withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
				user, err := auth.NewUserRepository(pool).FindByLogin(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				updated, err := account.NewAccountRepository(pool).UpdateRole(cmd.Context(), user.ID, role)
				if err != nil {
					return err
				}

				env.logger.Info("user_role_set",
					slog.String("user_id", updated.ID),
					slog.String("role", string(updated.Role)),
				)
				cmd.Printf("%s is now %s\n", updated.Username, updated.Role)
				return nil
			})
		},
	})

	return users
}
