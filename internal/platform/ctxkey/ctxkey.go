// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey holds the keys under which per-request values are stored in a
// [context.Context]. Only ctxutil should read or write them.
package ctxkey

// key is unexported so that no other package can build a colliding key.
type key uint8

const (
	// RequestID holds the X-Request-ID correlation string.
	RequestID key = iota + 1

	// Claims holds the verified *sec.AuthClaims of the caller.
	Claims

	// Logger holds the request-scoped *slog.Logger.
	Logger
)
