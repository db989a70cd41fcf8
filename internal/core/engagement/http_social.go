// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement

import (
	"net/http"

	"github.com/taibuivan/mangaverse/internal/platform/constants"
	requestutil "github.com/taibuivan/mangaverse/internal/platform/request"
	"github.com/taibuivan/mangaverse/internal/platform/respond"
)

// # Ratings

// GET /api/v1/mangas/{mangaID}/ratings.
func (handler *Handler) listRatings(writer http.ResponseWriter, request *http.Request) {
	ratings, err := handler.service.ListRatings(request.Context(), requestutil.Caller(request), requestutil.ID(request, "mangaID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		constants.FieldItems: ratings,
		constants.FieldTotal: len(ratings),
	})
}

// GET /api/v1/mangas/{mangaID}/rating.
func (handler *Handler) getUserRating(writer http.ResponseWriter, request *http.Request) {
	rating, err := handler.service.GetUserRating(request.Context(), requestutil.Caller(request), requestutil.ID(request, "mangaID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, rating)
}

// ratingRequest is the inbound JSON schema for a rating.
type ratingRequest struct {
	Score  int    `json:"score"`
	Review string `json:"review"`
}

/*
PUT /api/v1/mangas/{mangaID}/rating.

Description: Creates the caller's rating or overwrites the existing one.

Response:
  - 200: Rating
  - 400: ValidationError: Score outside 1..10
  - 404: ErrNotFound: Manga missing or not visible
*/
func (handler *Handler) rateManga(writer http.ResponseWriter, request *http.Request) {
	var input ratingRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	rating, err := handler.service.RateManga(request.Context(), requestutil.Caller(request), requestutil.ID(request, "mangaID"), RatingInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, rating)
}

// DELETE /api/v1/mangas/{mangaID}/rating.
func (handler *Handler) deleteRating(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteRating(request.Context(), requestutil.Caller(request), requestutil.ID(request, "mangaID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Comments

// GET /api/v1/mangas/{mangaID}/comments.
func (handler *Handler) listMangaComments(writer http.ResponseWriter, request *http.Request) {
	handler.listComments(writer, request, CommentTarget{MangaID: requestutil.ID(request, "mangaID")})
}

// GET /api/v1/chapters/{chapterID}/comments.
func (handler *Handler) listChapterComments(writer http.ResponseWriter, request *http.Request) {
	handler.listComments(writer, request, CommentTarget{ChapterID: requestutil.ID(request, "chapterID")})
}

func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request, target CommentTarget) {
	comments, err := handler.service.ListComments(request.Context(), requestutil.Caller(request), target)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		constants.FieldItems: comments,
		constants.FieldTotal: len(comments),
	})
}

// commentRequest is the inbound JSON schema for a new comment.
type commentRequest struct {
	MangaID   string `json:"manga_id"`
	ChapterID string `json:"chapter_id"`
	Content   string `json:"content"`
}

/*
POST /api/v1/comments.

Request:
  - manga_id or chapter_id: string (Exactly one)
  - content: string

Response:
  - 201: Comment
  - 400: ValidationError
  - 404: ErrNotFound: Target missing or not visible
*/
func (handler *Handler) addComment(writer http.ResponseWriter, request *http.Request) {
	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.AddComment(request.Context(), requestutil.Caller(request), CommentInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

// contentRequest carries the body of an edit or a reply.
type contentRequest struct {
	Content string `json:"content"`
}

/*
PATCH /api/v1/comments/{commentID}.

Response:
  - 200: Comment
  - 403: ErrForbidden: Caller is not the author
*/
func (handler *Handler) editComment(writer http.ResponseWriter, request *http.Request) {
	var input contentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.EditComment(request.Context(), requestutil.Caller(request), requestutil.ID(request, "commentID"), input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

// DELETE /api/v1/comments/{commentID}.
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteComment(request.Context(), requestutil.Caller(request), requestutil.ID(request, "commentID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// POST /api/v1/comments/{commentID}/replies.
func (handler *Handler) addReply(writer http.ResponseWriter, request *http.Request) {
	var input contentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.AddReply(request.Context(), requestutil.Caller(request), requestutil.ID(request, "commentID"), input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

// reactionRequest is the inbound JSON schema for a reaction toggle.
type reactionRequest struct {
	Reaction ReactionType `json:"reaction_type"`
}

// POST /api/v1/comments/{commentID}/reactions.
func (handler *Handler) toggleReaction(writer http.ResponseWriter, request *http.Request) {
	var input reactionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.ToggleReaction(request.Context(), requestutil.Caller(request), requestutil.ID(request, "commentID"), input.Reaction)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

// moderationRequest is the inbound JSON schema for a moderator decision.
type moderationRequest struct {
	Action ModerationAction `json:"action"`
}

/*
POST /api/v1/comments/{commentID}/moderation.

Response:
  - 200: Comment: After approve or reject
  - 204: After delete
  - 403: ErrForbidden: Caller is not a moderator
*/
func (handler *Handler) moderateComment(writer http.ResponseWriter, request *http.Request) {
	var input moderationRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.ModerateComment(request.Context(), requestutil.Caller(request), requestutil.ID(request, "commentID"), input.Action)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if comment == nil {
		respond.NoContent(writer)
		return
	}

	respond.OK(writer, comment)
}
