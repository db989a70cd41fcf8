// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement

import (
	"net/http"

	"github.com/taibuivan/mangaverse/internal/platform/constants"
	requestutil "github.com/taibuivan/mangaverse/internal/platform/request"
	"github.com/taibuivan/mangaverse/internal/platform/respond"
)

// # Bookmarks

/*
POST /api/v1/mangas/{mangaID}/bookmark.

Response:
  - 200: {"bookmarked": bool}
*/
func (handler *Handler) toggleBookmark(writer http.ResponseWriter, request *http.Request) {
	bookmarked, err := handler.service.ToggleBookmark(request.Context(), requestutil.Caller(request), requestutil.ID(request, "mangaID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"bookmarked": bookmarked})
}

// GET /api/v1/library/bookmarks.
func (handler *Handler) listBookmarks(writer http.ResponseWriter, request *http.Request) {
	bookmarks, err := handler.service.ListBookmarks(request.Context(), requestutil.Caller(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		constants.FieldItems: bookmarks,
		constants.FieldTotal: len(bookmarks),
	})
}

// # Reading Progress

// progressRequest is the inbound JSON schema for a progress update.
type progressRequest struct {
	ChapterID string        `json:"chapter_id"`
	Page      int           `json:"last_read_page"`
	Status    ReadingStatus `json:"reading_status"`
}

/*
PUT /api/v1/mangas/{mangaID}/progress.

Request:
  - chapter_id: string
  - last_read_page: int (At least 1)
  - reading_status: string (Defaults to reading)

Response:
  - 200: ReadingProgress
  - 404: ErrNotFound: Chapter not part of the manga
*/
func (handler *Handler) updateReadingProgress(writer http.ResponseWriter, request *http.Request) {
	var input progressRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	progress, err := handler.service.UpdateReadingProgress(request.Context(), requestutil.Caller(request), requestutil.ID(request, "mangaID"), ProgressInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, progress)
}

// POST /api/v1/mangas/{mangaID}/chapters/{chapterID}/toggle-read.
func (handler *Handler) toggleChapterRead(writer http.ResponseWriter, request *http.Request) {
	progress, err := handler.service.ToggleChapterRead(request.Context(), requestutil.Caller(request),
		requestutil.ID(request, "mangaID"), requestutil.ID(request, "chapterID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, progress)
}

// GET /api/v1/library/history.
func (handler *Handler) readingHistory(writer http.ResponseWriter, request *http.Request) {
	history, err := handler.service.GetReadingHistory(request.Context(), requestutil.Caller(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, history)
}

// GET /api/v1/library/continue.
func (handler *Handler) nextChapters(writer http.ResponseWriter, request *http.Request) {
	next, err := handler.service.GetNextChapters(request.Context(), requestutil.Caller(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, next)
}

// GET /api/v1/library/recommendations.
func (handler *Handler) recommendations(writer http.ResponseWriter, request *http.Request) {
	mangas, err := handler.service.GetRecommendations(request.Context(), requestutil.Caller(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, mangas)
}

// # Custom Lists

// listRequest is the inbound JSON schema for a custom list.
type listRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

// GET /api/v1/library/lists.
func (handler *Handler) myLists(writer http.ResponseWriter, request *http.Request) {
	caller := requestutil.Caller(request)
	handler.respondLists(writer, request, caller.UserID)
}

// GET /api/v1/library/users/{userID}/lists.
func (handler *Handler) getUserLists(writer http.ResponseWriter, request *http.Request) {
	handler.respondLists(writer, request, requestutil.ID(request, "userID"))
}

func (handler *Handler) respondLists(writer http.ResponseWriter, request *http.Request, userID string) {
	lists, err := handler.service.GetLists(request.Context(), requestutil.Caller(request), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		constants.FieldItems: lists,
		constants.FieldTotal: len(lists),
	})
}

// GET /api/v1/library/lists/{listID}.
func (handler *Handler) getList(writer http.ResponseWriter, request *http.Request) {
	list, err := handler.service.GetList(request.Context(), requestutil.Caller(request), requestutil.ID(request, "listID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, list)
}

// POST /api/v1/library/lists.
func (handler *Handler) createList(writer http.ResponseWriter, request *http.Request) {
	var input listRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	list, err := handler.service.CreateList(request.Context(), requestutil.Caller(request), ListInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, list)
}

// PATCH /api/v1/library/lists/{listID}.
func (handler *Handler) updateList(writer http.ResponseWriter, request *http.Request) {
	var input listRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	list, err := handler.service.UpdateList(request.Context(), requestutil.Caller(request), requestutil.ID(request, "listID"), ListInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, list)
}

// DELETE /api/v1/library/lists/{listID}.
func (handler *Handler) deleteList(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteList(request.Context(), requestutil.Caller(request), requestutil.ID(request, "listID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// listItemRequest names the manga to add to a list.
type listItemRequest struct {
	MangaID string `json:"manga_id"`
}

// POST /api/v1/library/lists/{listID}/items.
func (handler *Handler) addToList(writer http.ResponseWriter, request *http.Request) {
	var input listItemRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	list, err := handler.service.AddToList(request.Context(), requestutil.Caller(request), requestutil.ID(request, "listID"), input.MangaID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, list)
}

// DELETE /api/v1/library/lists/{listID}/items/{mangaID}.
func (handler *Handler) removeFromList(writer http.ResponseWriter, request *http.Request) {
	list, err := handler.service.RemoveFromList(request.Context(), requestutil.Caller(request),
		requestutil.ID(request, "listID"), requestutil.ID(request, "mangaID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, list)
}
