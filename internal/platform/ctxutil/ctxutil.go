// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil reads and writes the per-request values that middleware
// attaches to a [context.Context]: correlation ID, logger and caller identity.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/mangaverse/internal/platform/ctxkey"
	"github.com/taibuivan/mangaverse/internal/platform/sec"
)

// # Request Tracing

// WithRequestID attaches the correlation ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.RequestID, id)
}

// RequestID returns the correlation ID, or "" outside a request.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.RequestID).(string)
	return id
}

// # Structured Logging

// WithLogger attaches a request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.Logger, logger)
}

// Logger returns the request-scoped logger, falling back to [slog.Default].
func Logger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.Logger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Caller Identity

// WithClaims attaches the verified token claims.
func WithClaims(ctx context.Context, claims *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.Claims, claims)
}

// Claims returns the verified token claims, or nil for anonymous requests.
func Claims(ctx context.Context) *sec.AuthClaims {
	claims, _ := ctx.Value(ctxkey.Claims).(*sec.AuthClaims)
	return claims
}

// Caller returns the identity handed to domain services. Anonymous requests
// yield the zero [sec.Caller].
func Caller(ctx context.Context) sec.Caller {
	return sec.CallerFromClaims(Claims(ctx))
}
