// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement

import (
	"net/http"

	requestutil "github.com/taibuivan/mangaverse/internal/platform/request"
	"github.com/taibuivan/mangaverse/internal/platform/respond"
	"github.com/taibuivan/mangaverse/pkg/convert"
	"github.com/taibuivan/mangaverse/pkg/pagination"
)

// # Notifications

/*
GET /api/v1/notifications.

Request:
  - unread: bool (Only unread notifications)
  - page, limit: int

Response:
  - 200: []Notification: Paginated, newest first
*/
func (handler *Handler) listNotifications(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	unreadOnly := convert.ToBool(request.URL.Query().Get("unread"))

	notifications, total, err := handler.service.GetNotifications(request.Context(), requestutil.Caller(request), unreadOnly, paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, notifications, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// GET /api/v1/notifications/unread-count.
func (handler *Handler) unreadCount(writer http.ResponseWriter, request *http.Request) {
	count, err := handler.service.UnreadCount(request.Context(), requestutil.Caller(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]int{"unread": count})
}

/*
POST /api/v1/notifications/{notificationID}/read.

Response:
  - 204: Marked read
  - 404: ErrNotFound: Missing or owned by another reader
*/
func (handler *Handler) markRead(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.MarkRead(request.Context(), requestutil.Caller(request), requestutil.ID(request, "notificationID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// POST /api/v1/notifications/read-all.
func (handler *Handler) markAllRead(writer http.ResponseWriter, request *http.Request) {
	updated, err := handler.service.MarkAllRead(request.Context(), requestutil.Caller(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]int64{"updated": updated})
}
