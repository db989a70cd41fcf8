// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis connects the optional read cache.

Only catalog.RedisCache uses the client. PostgreSQL stays the source of truth:
an unreachable Redis at runtime degrades to cache misses, while an unreachable
Redis at startup fails fast so misconfiguration is noticed.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/mangaverse/internal/platform/constants"
)

const (
	poolSize     = 10
	minIdleConns = 2
	dialTimeout  = 3 * time.Second
	ioTimeout    = 500 * time.Millisecond
	pingTimeout  = 2 * time.Second
)

/*
NewClient parses a redis:// URL, connects and pings.

Description: Read and write timeouts are short because every cache call sits
on a request path that can fall back to PostgreSQL.

Returns:
  - *redis.Client: A client the caller must Close
  - error: Invalid URL or unreachable server
*/
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.ClientName = constants.AppName
	options.PoolSize = poolSize
	options.MinIdleConns = minIdleConns
	options.DialTimeout = dialTimeout
	options.ReadTimeout = ioTimeout
	options.WriteTimeout = ioTimeout

	client := redis.NewClient(options)

	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// Ping checks the server within a short deadline.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
