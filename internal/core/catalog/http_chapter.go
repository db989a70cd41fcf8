// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"
	"time"

	"github.com/taibuivan/mangaverse/internal/platform/constants"
	requestutil "github.com/taibuivan/mangaverse/internal/platform/request"
	"github.com/taibuivan/mangaverse/internal/platform/respond"
)

// # Chapter Retrieval

/*
GET /api/v1/mangas/{mangaID}/chapters.

Response:
  - 200: []Chapter: Ordered by number ascending
  - 404: ErrNotFound: Manga missing or not visible
*/
func (handler *Handler) listChapters(writer http.ResponseWriter, request *http.Request) {
	chapters, err := handler.service.ListChapters(request.Context(), requestutil.Caller(request), requestutil.ID(request, "mangaID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		constants.FieldItems: chapters,
		constants.FieldTotal: len(chapters),
	})
}

// GET /api/v1/chapters/{chapterID}.
func (handler *Handler) getChapter(writer http.ResponseWriter, request *http.Request) {
	chapter, err := handler.service.GetChapter(request.Context(), requestutil.Caller(request), requestutil.ID(request, "chapterID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapter)
}

// GET /api/v1/chapters/most-read.
func (handler *Handler) mostReadChapters(writer http.ResponseWriter, request *http.Request) {
	items, err := handler.service.MostReadChapters(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, items)
}

// GET /api/v1/chapters/recent.
func (handler *Handler) recentChapters(writer http.ResponseWriter, request *http.Request) {
	items, err := handler.service.RecentChapters(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, items)
}

/*
POST /api/v1/chapters/{chapterID}/read.

Description: Counts a read against the chapter and its manga. Anonymous
readers are counted too; per-user progress lives in the library endpoints.
*/
func (handler *Handler) recordChapterRead(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.RecordChapterRead(request.Context(), requestutil.ID(request, "chapterID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Chapter Management

// chapterRequest is the inbound JSON schema for chapter creation.
type chapterRequest struct {
	Number         float64           `json:"number"`
	Volume         *int              `json:"volume"`
	ReleaseDate    *time.Time        `json:"release_date"`
	CoverImage     string            `json:"cover_image"`
	BackCoverImage string            `json:"back_cover_image"`
	Languages      []LanguageVariant `json:"languages"`
}

/*
POST /api/v1/mangas/{mangaID}/chapters.

Response:
  - 201: Chapter
  - 400: ValidationError
  - 404: ErrNotFound: Manga missing
  - 409: ErrConflict: Chapter number already used in this manga
*/
func (handler *Handler) createChapter(writer http.ResponseWriter, request *http.Request) {
	mangaID := requestutil.ID(request, "mangaID")

	var input chapterRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapter, err := handler.service.CreateChapter(request.Context(), mangaID, ChapterInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, chapter)
}

// updateChapterRequest is the inbound JSON schema for a partial chapter update.
type updateChapterRequest struct {
	Number         *float64           `json:"number"`
	Volume         *int               `json:"volume"`
	ReleaseDate    *time.Time         `json:"release_date"`
	CoverImage     *string            `json:"cover_image"`
	BackCoverImage *string            `json:"back_cover_image"`
	Languages      *[]LanguageVariant `json:"languages"`
}

/*
PATCH /api/v1/chapters/{chapterID}.

Response:
  - 200: Chapter
  - 404: ErrNotFound
  - 409: ErrConflict: New number already used in this manga
*/
func (handler *Handler) updateChapter(writer http.ResponseWriter, request *http.Request) {
	var input updateChapterRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapter, err := handler.service.UpdateChapter(request.Context(), requestutil.ID(request, "chapterID"), ChapterPatch(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapter)
}

/*
DELETE /api/v1/mangas/{mangaID}/chapters/{chapterID}.

Response:
  - 200: DeleteChapterResult: The removed chapter and the refreshed manga
  - 404: ErrNotFound
*/
func (handler *Handler) deleteChapter(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.DeleteChapter(request.Context(),
		requestutil.ID(request, "mangaID"),
		requestutil.ID(request, "chapterID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
POST /api/v1/chapters/{chapterID}/languages.

Response:
  - 201: Chapter
  - 409: ErrConflict: The chapter already carries this language
*/
func (handler *Handler) addLanguageVariant(writer http.ResponseWriter, request *http.Request) {
	var variant LanguageVariant
	if err := requestutil.DecodeJSON(request, &variant); err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapter, err := handler.service.AddLanguageVariant(request.Context(), requestutil.ID(request, "chapterID"), variant)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, chapter)
}

/*
DELETE /api/v1/chapters/{chapterID}/languages/{lang}.

Response:
  - 200: Chapter
  - 404: ErrNotFound: Chapter missing or language not carried
*/
func (handler *Handler) removeLanguageVariant(writer http.ResponseWriter, request *http.Request) {
	chapter, err := handler.service.RemoveLanguageVariant(request.Context(),
		requestutil.ID(request, "chapterID"),
		requestutil.ID(request, "lang"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapter)
}
