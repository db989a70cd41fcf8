// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command mangactl is the operator CLI for a Mangaverse deployment.
//
// It reads the same environment as the API server and talks to PostgreSQL
// directly:
//
//	mangactl migrate up
//	mangactl migrate down [--steps n]
//	mangactl migrate version
//	mangactl reconcile [--manga <id>]
//	mangactl stats
//	mangactl users set-role <login> <role>
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taibuivan/mangaverse/internal/platform/config"
	"github.com/taibuivan/mangaverse/internal/platform/constants"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// environment is resolved once per invocation by the root command.
type environment struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	env := &environment{}
	var verbose bool

	root := &cobra.Command{
		Use:           "mangactl",
		Short:         "Operate a Mangaverse deployment",
		Version:       constants.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			env.logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
				With(slog.String("app", "mangactl"))

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			env.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newMigrateCmd(env),
		newReconcileCmd(env),
		newStatsCmd(env),
		newUsersCmd(env),
	)

	return root
}
