// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangaverse/internal/platform/ctxutil"
	"github.com/taibuivan/mangaverse/internal/platform/sec"
)

/*
TestRequestID round-trips the correlation ID.
*/
func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.RequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", ctxutil.RequestID(ctx))
}

/*
TestLogger falls back to the default logger until one is attached.
*/
func TestLogger(t *testing.T) {
	ctx := context.Background()
	assert.Same(t, slog.Default(), ctxutil.Logger(ctx))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Same(t, logger, ctxutil.Logger(ctxutil.WithLogger(ctx, logger)))
}

/*
TestCaller derives the domain identity from the attached claims.
*/
func TestCaller(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ctxutil.Claims(ctx))
	assert.Equal(t, sec.Caller{}, ctxutil.Caller(ctx))

	ctx = ctxutil.WithClaims(ctx, &sec.AuthClaims{UserID: "u-7", Username: "makima", Role: string(sec.RoleModerator)})

	claims := ctxutil.Claims(ctx)
	require.NotNil(t, claims)
	assert.Equal(t, "makima", claims.Username)

	caller := ctxutil.Caller(ctx)
	assert.Equal(t, sec.Caller{UserID: "u-7", Role: sec.RoleModerator}, caller)
	assert.True(t, caller.CanModerate())
}
