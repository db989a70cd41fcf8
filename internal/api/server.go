// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api assembles the public HTTP surface: the middleware chain, the
infrastructure endpoints and the versioned domain routes.

Domain packages only export chi routers. Mount points and cross-domain
nesting, such as ratings under /mangas/{mangaID}, are decided here.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/mangaverse/internal/core/catalog"
	"github.com/taibuivan/mangaverse/internal/core/engagement"
	"github.com/taibuivan/mangaverse/internal/platform/constants"
	"github.com/taibuivan/mangaverse/internal/platform/metrics"
	"github.com/taibuivan/mangaverse/internal/platform/middleware"
	"github.com/taibuivan/mangaverse/internal/users/account"
	"github.com/taibuivan/mangaverse/internal/users/auth"
)

// # Server Definitions

// Server owns the listening [http.Server] and its router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// ServerConfig is the subset of configuration the HTTP layer reads.
type ServerConfig interface {
	middleware.AppConfig
	Port() string
}

// Handlers is everything the router mounts. Metrics may be nil.
type Handlers struct {
	Liveness   http.HandlerFunc
	Readiness  http.HandlerFunc
	Auth       *auth.Handler
	Account    *account.Handler
	Catalog    *catalog.Handler
	Engagement *engagement.Handler
	Metrics    *metrics.Metrics
}

// NewServer builds the router and binds it to cfg.Port() with the default
// server timeouts.
func NewServer(context context.Context, cfg ServerConfig, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := NewRouter(context, cfg, log, verifier, h)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port(),
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// NewRouter is split from [NewServer] so tests can drive it with httptest.
func NewRouter(context context.Context, cfg middleware.AppConfig, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	if h.Metrics != nil {
		r.Use(h.Metrics.Middleware)
	}
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/users", h.Account.Routes())
		api.Mount("/mangas", h.Catalog.MangaRoutes(h.Engagement.MangaRoutes))
		api.Mount("/chapters", h.Catalog.ChapterRoutes(h.Engagement.ChapterRoutes))
		api.Mount("/comments", h.Engagement.CommentRoutes())
		api.Mount("/library", h.Engagement.LibraryRoutes())
		api.Mount("/notifications", h.Engagement.NotificationRoutes())
	})

	return r
}

// ListenAndServe blocks until the server stops. After [Server.Shutdown] it
// returns [http.ErrServerClosed].
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests for at most timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
