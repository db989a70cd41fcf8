// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"

	requestutil "github.com/taibuivan/mangaverse/internal/platform/request"
	"github.com/taibuivan/mangaverse/internal/platform/respond"
	"github.com/taibuivan/mangaverse/pkg/pagination"
	"github.com/taibuivan/mangaverse/pkg/query"
)

// # Manga Discovery

/*
GET /api/v1/mangas.

Description: Paginated catalogue. Only administrators may widen the
publication state beyond published.

Request:
  - genres: string (Comma separated tag values)
  - demographic, status, content_rating, state: string (Comma separated)
  - q: string (Title substring)
  - page, limit: int

Response:
  - 200: []Manga: Paginated list
*/
func (handler *Handler) listMangas(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	filter := parseFilter(request)

	mangas, total, err := handler.service.ListMangas(request.Context(), requestutil.Caller(request), filter, paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, mangas, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/mangas/filter.

Description: Discovery filter over published manga, ordered by popularity.

Response:
  - 200: []Manga: Paginated list with page, total and total_pages
*/
func (handler *Handler) filterManga(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	mangas, total, err := handler.service.FilterManga(request.Context(), parseFilter(request), paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, mangas, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/mangas/search?q=.

Response:
  - 200: []Manga: Up to ten published manga
  - 400: ValidationError: Missing query
*/
func (handler *Handler) searchManga(writer http.ResponseWriter, request *http.Request) {
	mangas, err := handler.service.SearchManga(request.Context(), request.URL.Query().Get("q"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, mangas)
}

// GET /api/v1/mangas/popular.
func (handler *Handler) popularManga(writer http.ResponseWriter, request *http.Request) {
	mangas, err := handler.service.PopularManga(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, mangas)
}

// GET /api/v1/mangas/latest.
func (handler *Handler) latestUpdates(writer http.ResponseWriter, request *http.Request) {
	mangas, err := handler.service.LatestUpdates(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, mangas)
}

// GET /api/v1/mangas/new.
func (handler *Handler) newReleases(writer http.ResponseWriter, request *http.Request) {
	mangas, err := handler.service.NewReleases(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, mangas)
}

// GET /api/v1/mangas/genres.
func (handler *Handler) listGenres(writer http.ResponseWriter, request *http.Request) {
	genres, err := handler.service.Genres(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, genres)
}

// GET /api/v1/mangas/statistics.
func (handler *Handler) statistics(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.service.Statistics(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stats)
}

/*
GET /api/v1/mangas/{ref}.

Description: Resolves a manga by UUID or slug.

Request:
  - ref: string (UUID or slug)
  - include: string (Comma separated: chapters, comments, ratings, related)

Response:
  - 200: MangaDetail
  - 404: ErrNotFound: Missing or not visible
*/
func (handler *Handler) getManga(writer http.ResponseWriter, request *http.Request) {
	ref := requestutil.ID(request, "ref")

	include := Include{}
	for _, name := range query.StringSlice(request.URL.Query().Get("include")) {
		switch name {
		case "chapters":
			include.Chapters = true
		case "comments":
			include.Comments = true
		case "ratings":
			include.Ratings = true
		case "related":
			include.Related = true
		}
	}

	detail, err := handler.service.GetManga(request.Context(), requestutil.Caller(request), ref, include)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

// # Manga Management

// mangaRequest is the inbound JSON schema for manga creation.
type mangaRequest struct {
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Author        string        `json:"author"`
	Tags          []Tag         `json:"tags"`
	Demographic   Demographic   `json:"demographic"`
	Status        Status        `json:"status"`
	ContentRating ContentRating `json:"content_rating"`
	CoverImage    string        `json:"cover_image"`
	BannerImage   string        `json:"banner_image"`
	Related       []Relation    `json:"related_manga"`
}

/*
POST /api/v1/mangas.

Response:
  - 201: Manga: Created in the draft state
  - 400: ValidationError
  - 404: ErrNotFound: Unknown related manga
*/
func (handler *Handler) createManga(writer http.ResponseWriter, request *http.Request) {
	var input mangaRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	manga, err := handler.service.CreateManga(request.Context(), MangaInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, manga)
}

// updateMangaRequest is the inbound JSON schema for a partial manga update.
type updateMangaRequest struct {
	Title         *string        `json:"title"`
	Description   *string        `json:"description"`
	Author        *string        `json:"author"`
	Tags          *[]Tag         `json:"tags"`
	Demographic   *Demographic   `json:"demographic"`
	Status        *Status        `json:"status"`
	ContentRating *ContentRating `json:"content_rating"`
	CoverImage    *string        `json:"cover_image"`
	BannerImage   *string        `json:"banner_image"`
	Related       *[]Relation    `json:"related_manga"`
}

/*
PATCH /api/v1/mangas/{mangaID}.

Response:
  - 200: Manga
  - 404: ErrNotFound
*/
func (handler *Handler) updateManga(writer http.ResponseWriter, request *http.Request) {
	mangaID := requestutil.ID(request, "mangaID")

	var input updateMangaRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	manga, err := handler.service.UpdateManga(request.Context(), mangaID, MangaPatch(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, manga)
}

// stateRequest is the inbound JSON schema for a publication state change.
type stateRequest struct {
	State PublicationState `json:"publication_state"`
}

/*
PUT /api/v1/mangas/{mangaID}/state.

Response:
  - 200: Manga
  - 400: ValidationError: Unknown state
*/
func (handler *Handler) setPublicationState(writer http.ResponseWriter, request *http.Request) {
	mangaID := requestutil.ID(request, "mangaID")

	var input stateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	manga, err := handler.service.SetPublicationState(request.Context(), mangaID, input.State)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, manga)
}

/*
DELETE /api/v1/mangas/{mangaID}.

Response:
  - 204: Deleted with all dependent content
  - 404: ErrNotFound
*/
func (handler *Handler) deleteManga(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteManga(request.Context(), requestutil.ID(request, "mangaID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Internal Helpers

// parseFilter reads the discovery filter from the query string.
func parseFilter(request *http.Request) Filter {
	params := request.URL.Query()

	return Filter{
		Query:         params.Get("q"),
		Genres:        query.StringSlice(params.Get("genres")),
		Demographic:   query.Enum[Demographic](params.Get("demographic")),
		Status:        query.Enum[Status](params.Get("status")),
		ContentRating: query.Enum[ContentRating](params.Get("content_rating")),
		States:        query.Enum[PublicationState](params.Get("state")),
	}
}
