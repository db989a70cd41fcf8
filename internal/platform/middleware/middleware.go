// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware holds the HTTP decorators mounted by the API router.

Order matters. The router mounts them as:

	RequestID -> StructuredLogger -> (metrics) -> Timeout -> RateLimit
	  -> PanicRecovery -> Authenticate -> CORS

so that every log line, including the one for a recovered panic, carries the
request ID, and the caller identity is known before any domain handler runs.
*/
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/platform/constants"
	"github.com/taibuivan/mangaverse/internal/platform/ctxutil"
	"github.com/taibuivan/mangaverse/internal/platform/respond"
)

// # Request Tracing

// RequestID reuses the client's X-Request-ID or mints a UUIDv7, and echoes it
// back on the response.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if requestID == "" {
				requestID = newRequestID()
			}

			writer.Header().Set(constants.HeaderXRequestID, requestID)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithRequestID(request.Context(), requestID)))
		})
	}
}

func newRequestID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// # Activity Logging

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

/*
StructuredLogger attaches a request-scoped logger to the context and emits one
"http_request_finished" line per request.

Description: 5xx responses log at ERROR and 4xx at WARN. [Authenticate] later
adds the caller's user ID to the same logger for domain log lines.
*/
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startedAt := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.RequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(recorder, request.WithContext(ctx))

			level := slog.LevelInfo
			switch {
			case recorder.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case recorder.status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			requestLogger.Log(ctx, level, "http_request_finished",
				slog.Int("status", recorder.status),
				slog.Int64("latency_ms", time.Since(startedAt).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			)
		})
	}
}

// # Rate Limiting

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter keeps one token bucket per client IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

func newRateLimiter(limit rate.Limit, burst int) *rateLimiter {
	return &rateLimiter{visitors: make(map[string]*visitor), limit: limit, burst: burst}
}

// reserve reports whether ip may proceed, and otherwise how long it should wait.
func (limiter *rateLimiter) reserve(ip string, now time.Time) (bool, time.Duration) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	entry, found := limiter.visitors[ip]
	if !found {
		entry = &visitor{limiter: rate.NewLimiter(limiter.limit, limiter.burst)}
		limiter.visitors[ip] = entry
	}
	entry.lastSeen = now

	if entry.limiter.AllowN(now, 1) {
		return true, 0
	}

	reservation := entry.limiter.ReserveN(now, 1)
	delay := reservation.DelayFrom(now)
	reservation.CancelAt(now)
	return false, delay
}

// evictIdle forgets clients that have not been seen for ttl.
func (limiter *rateLimiter) evictIdle(now time.Time, ttl time.Duration) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	for ip, entry := range limiter.visitors {
		if now.Sub(entry.lastSeen) > ttl {
			delete(limiter.visitors, ip)
		}
	}
}

/*
RateLimit throttles each client IP with a token bucket.

Description: Rejected requests receive 429 RATE_LIMITED with a Retry-After
header. Idle clients are evicted by a janitor goroutine that stops when
context is cancelled.
*/
func RateLimit(context context.Context) func(http.Handler) http.Handler {
	limiter := newRateLimiter(rate.Limit(constants.DefaultRateLimitRPS), constants.DefaultRateLimitBurst)

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				limiter.evictIdle(now, constants.RateLimitClientTTL)
			case <-context.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			allowed, retryAfter := limiter.reserve(RealIP(request), time.Now())
			if !allowed {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				writer.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(seconds))
				respond.Error(writer, request, apperr.RateLimited(seconds))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Reliability

// PanicRecovery turns a handler panic into a 500 response and logs the stack.
// A nil logger falls back to the request-scoped one.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}

				stack := make([]byte, 4096)
				stack = stack[:runtime.Stack(stack, false)]

				panicLogger := logger
				if panicLogger == nil {
					panicLogger = ctxutil.Logger(request.Context())
				}
				panicLogger.ErrorContext(request.Context(), "panic_recovered",
					slog.String("request_id", ctxutil.RequestID(request.Context())),
					slog.Any("panic", recovered),
					slog.String("stack", string(stack)),
				)

				respond.Error(writer, request, apperr.Internal(fmt.Errorf("panic: %v", recovered)))
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// AppConfig is the slice of configuration the CORS policy needs.
type AppConfig interface {
	IsDevelopment() bool
	OriginSuffix() string
}

// CORS allows any origin in development and only origins ending in the
// configured suffix otherwise. Preflight requests are answered with 204.
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			if originAllowed(cfg, origin) {
				header := writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				header.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization, X-Request-ID")
				header.Set("Access-Control-Expose-Headers", "X-Request-ID, Retry-After")
				header.Set("Access-Control-Allow-Credentials", "true")
				header.Set("Access-Control-Max-Age", "300")
				header.Add("Vary", constants.HeaderOrigin)
			}

			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

func originAllowed(cfg AppConfig, origin string) bool {
	if cfg.IsDevelopment() {
		return true
	}
	suffix := cfg.OriginSuffix()
	return suffix != "" && strings.HasSuffix(origin, suffix)
}

// # Helpers

// RealIP returns the client address, preferring X-Real-IP and then the first
// X-Forwarded-For hop over the socket address.
func RealIP(request *http.Request) string {
	if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
