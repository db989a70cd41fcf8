// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement

import (
	"context"
	"log/slog"

	"github.com/taibuivan/mangaverse/internal/platform/sec"
	"github.com/taibuivan/mangaverse/pkg/pagination"
)

// # Notifications

// GetNotifications returns a page of the caller's notifications, newest first, and the total.
func (service *Service) GetNotifications(context context.Context, caller sec.Caller, unreadOnly bool, page pagination.Params) ([]*Notification, int, error) {
	if err := requireUser(caller); err != nil {
		return nil, 0, err
	}
	page = page.Clamp()
	return service.notifications.List(context, caller.UserID, unreadOnly, page.Limit, page.Offset())
}

// MarkRead marks one of the caller's notifications read.
func (service *Service) MarkRead(context context.Context, caller sec.Caller, notificationID string) error {
	if err := requireUser(caller); err != nil {
		return err
	}
	return service.notifications.MarkRead(context, caller.UserID, notificationID)
}

// MarkAllRead marks every unread notification of the caller read.
func (service *Service) MarkAllRead(context context.Context, caller sec.Caller) (int64, error) {
	if err := requireUser(caller); err != nil {
		return 0, err
	}

	updated, err := service.notifications.MarkAllRead(context, caller.UserID)
	if err != nil {
		return 0, err
	}

	service.logger.Debug("notifications_marked_read",
		slog.String("user_id", caller.UserID),
		slog.Int64("count", updated),
	)

	return updated, nil
}

// UnreadCount returns how many of the caller's notifications are unread.
func (service *Service) UnreadCount(context context.Context, caller sec.Caller) (int, error) {
	if err := requireUser(caller); err != nil {
		return 0, err
	}
	return service.notifications.UnreadCount(context, caller.UserID)
}
