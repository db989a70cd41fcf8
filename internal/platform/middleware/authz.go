// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/platform/constants"
	"github.com/taibuivan/mangaverse/internal/platform/ctxutil"
	"github.com/taibuivan/mangaverse/internal/platform/respond"
	"github.com/taibuivan/mangaverse/internal/platform/sec"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

/*
Authenticate resolves the caller from an "Authorization: Bearer <token>" header.

Description: Requests without the header continue anonymously; each service
decides whether that is acceptable. A malformed header or a token that fails
verification is rejected with 401 rather than downgraded to anonymous.
On success the claims and a logger carrying user_id are attached to the context.
*/
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			header := request.Header.Get(constants.HeaderAuthorization)
			if header == "" {
				next.ServeHTTP(writer, request)
				return
			}

			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			claims, err := verifier.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			ctx := ctxutil.WithClaims(request.Context(), claims)
			ctx = ctxutil.WithLogger(ctx, ctxutil.Logger(ctx).With(slog.String("user_id", claims.UserID)))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401. Mount after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.Claims(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole rejects anonymous requests with 401 and callers below role with
// 403. It implies [RequireAuth].
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			caller := ctxutil.Caller(request.Context())
			if caller.UserID == "" {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if !caller.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
