// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement

import (
	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangaverse/internal/platform/middleware"
	"github.com/taibuivan/mangaverse/internal/platform/sec"
)

// # Handler Implementation

// Handler implements the HTTP layer for reader engagement.
type Handler struct {
	service *Service
}

// NewHandler constructs a new engagement [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MangaRoutes registers manga-scoped engagement routes on the /mangas router.
//
// # Routing Strategy
//
//   - Public: Ratings and comments of a visible manga.
//   - Reader: Rating, bookmark and progress mutations require authentication.
func (handler *Handler) MangaRoutes(router chi.Router) {
	router.Get("/{mangaID}/ratings", handler.listRatings)
	router.Get("/{mangaID}/comments", handler.listMangaComments)

	router.Group(func(reader chi.Router) {
		reader.Use(middleware.RequireAuth)

		reader.Get("/{mangaID}/rating", handler.getUserRating)
		reader.Put("/{mangaID}/rating", handler.rateManga)
		reader.Delete("/{mangaID}/rating", handler.deleteRating)
		reader.Post("/{mangaID}/bookmark", handler.toggleBookmark)
		reader.Put("/{mangaID}/progress", handler.updateReadingProgress)
		reader.Post("/{mangaID}/chapters/{chapterID}/toggle-read", handler.toggleChapterRead)
	})
}

// ChapterRoutes registers chapter-scoped engagement routes on the /chapters router.
func (handler *Handler) ChapterRoutes(router chi.Router) {
	router.Get("/{chapterID}/comments", handler.listChapterComments)
}

// CommentRoutes returns the router mounted at /comments.
func (handler *Handler) CommentRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/", handler.addComment)
	router.Patch("/{commentID}", handler.editComment)
	router.Delete("/{commentID}", handler.deleteComment)
	router.Post("/{commentID}/replies", handler.addReply)
	router.Post("/{commentID}/reactions", handler.toggleReaction)

	router.Group(func(moderator chi.Router) {
		moderator.Use(middleware.RequireRole(sec.RoleModerator))
		moderator.Post("/{commentID}/moderation", handler.moderateComment)
	})

	return router
}

// LibraryRoutes returns the router mounted at /library.
func (handler *Handler) LibraryRoutes() chi.Router {
	router := chi.NewRouter()

	// ## Shared Lists (Public)
	router.Get("/users/{userID}/lists", handler.getUserLists)
	router.Get("/lists/{listID}", handler.getList)

	// ## Personal Library
	router.Group(func(reader chi.Router) {
		reader.Use(middleware.RequireAuth)

		reader.Get("/bookmarks", handler.listBookmarks)
		reader.Get("/history", handler.readingHistory)
		reader.Get("/continue", handler.nextChapters)
		reader.Get("/recommendations", handler.recommendations)

		reader.Get("/lists", handler.myLists)
		reader.Post("/lists", handler.createList)
		reader.Patch("/lists/{listID}", handler.updateList)
		reader.Delete("/lists/{listID}", handler.deleteList)
		reader.Post("/lists/{listID}/items", handler.addToList)
		reader.Delete("/lists/{listID}/items/{mangaID}", handler.removeFromList)
	})

	return router
}

// NotificationRoutes returns the router mounted at /notifications.
func (handler *Handler) NotificationRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.listNotifications)
	router.Get("/unread-count", handler.unreadCount)
	router.Post("/read-all", handler.markAllRead)
	router.Post("/{notificationID}/read", handler.markRead)

	return router
}
