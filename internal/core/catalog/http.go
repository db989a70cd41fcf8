// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangaverse/internal/platform/middleware"
	"github.com/taibuivan/mangaverse/internal/platform/sec"
)

// # Handler Implementation

// Handler implements the HTTP layer for catalog discovery and management.
type Handler struct {
	service *Service
}

// NewHandler constructs a new catalog [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MangaRoutes returns the router mounted at /mangas. Extensions register
// manga-scoped routes owned by other modules on the same router.
//
// # Routing Strategy
//
//   - Discovery (Public): Listing, search, feeds and details of published manga.
//   - Management (Restricted): Requires [sec.RoleAdmin] for every mutation.
func (handler *Handler) MangaRoutes(extensions ...func(router chi.Router)) chi.Router {
	router := chi.NewRouter()

	for _, extend := range extensions {
		extend(router)
	}

	// ## Public Discovery Endpoints
	router.Get("/", handler.listMangas)
	router.Get("/search", handler.searchManga)
	router.Get("/filter", handler.filterManga)
	router.Get("/popular", handler.popularManga)
	router.Get("/latest", handler.latestUpdates)
	router.Get("/new", handler.newReleases)
	router.Get("/genres", handler.listGenres)
	router.Get("/{ref}", handler.getManga)
	router.Get("/{mangaID}/chapters", handler.listChapters)

	// ## Content Management (Admin Protected)
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Get("/statistics", handler.statistics)
		admin.Post("/", handler.createManga)
		admin.Patch("/{mangaID}", handler.updateManga)
		admin.Delete("/{mangaID}", handler.deleteManga)
		admin.Put("/{mangaID}/state", handler.setPublicationState)

		admin.Post("/{mangaID}/chapters", handler.createChapter)
		admin.Delete("/{mangaID}/chapters/{chapterID}", handler.deleteChapter)
	})

	return router
}

// ChapterRoutes returns the router mounted at /chapters.
func (handler *Handler) ChapterRoutes(extensions ...func(router chi.Router)) chi.Router {
	router := chi.NewRouter()

	for _, extend := range extensions {
		extend(router)
	}

	router.Get("/most-read", handler.mostReadChapters)
	router.Get("/recent", handler.recentChapters)
	router.Get("/{chapterID}", handler.getChapter)
	router.Post("/{chapterID}/read", handler.recordChapterRead)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Patch("/{chapterID}", handler.updateChapter)
		admin.Post("/{chapterID}/languages", handler.addLanguageVariant)
		admin.Delete("/{chapterID}/languages/{lang}", handler.removeLanguageVariant)
	})

	return router
}
