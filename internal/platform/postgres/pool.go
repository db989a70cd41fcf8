// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres owns the pgx connection pool and the transaction boundary
// used by every repository.
//
// The pool is built once in main and passed explicitly to each repository
// constructor. Repositories reach the active transaction, if any, through [Conn].
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangaverse/internal/platform/constants"
)

const (
	maxConnLifetime   = time.Hour
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = time.Minute
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
)

// PoolConfig sizes the pool. Zero values fall back to 25 max and 2 min connections.
type PoolConfig struct {
	DSN      string
	MaxConns int32
	MinConns int32
}

/*
NewPool connects to PostgreSQL and verifies the connection with a ping.

Description: Every session is tagged with application_name and a
statement_timeout equal to the HTTP request deadline, so an abandoned
request cannot leave a query running.

Parameters:
  - ctx: Bounds the initial connect and ping
  - config: DSN and pool sizing
  - logger: Receives the "postgres_pool_connected" event

Returns:
  - *pgxpool.Pool: A pool the caller must Close
  - error: Invalid DSN or unreachable server
*/
func NewPool(ctx context.Context, config PoolConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(config.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	poolConfig.MaxConns = 25
	if config.MaxConns > 0 {
		poolConfig.MaxConns = config.MaxConns
	}
	poolConfig.MinConns = 2
	if config.MinConns > 0 {
		poolConfig.MinConns = min(config.MinConns, poolConfig.MaxConns)
	}

	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	runtimeParams := poolConfig.ConnConfig.RuntimeParams
	runtimeParams["application_name"] = constants.AppName
	runtimeParams["statement_timeout"] = strconv.FormatInt(constants.GlobalRequestTimeout.Milliseconds(), 10)

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.String("database", poolConfig.ConnConfig.Database),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
		slog.Int("min_conns", int(poolConfig.MinConns)),
	)

	return pool, nil
}

// Ping checks that the pool can reach the server within a short deadline.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}
