// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangaverse/internal/platform/database/schema"
	"github.com/taibuivan/mangaverse/internal/platform/dberr"
	pgstore "github.com/taibuivan/mangaverse/internal/platform/postgres"
)

// # Notification Repository

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository constructs a PostgreSQL backed notification store.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

// Subscribers returns the readers who bookmarked a manga and accept new-chapter alerts.
func (repository *notificationRepository) Subscribers(context context.Context, mangaID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT b.%s::text
		FROM %s b
		JOIN %s a ON a.%s = b.%s
		WHERE b.%s = $1 AND a.%s`,
		schema.LibraryBookmark.UserID,
		schema.LibraryBookmark.Table,
		schema.UsersAccount.Table, schema.UsersAccount.ID, schema.LibraryBookmark.UserID,
		schema.LibraryBookmark.MangaID, schema.UsersAccount.NotifyNewChapters,
	)

	rows, err := pgstore.Conn(context, repository.pool).Query(context, query, mangaID)
	if err != nil {
		return nil, dberr.Wrap(err, "Notification", "list subscribers")
	}

	subscribers, err := pgx.CollectRows(rows, pgx.RowTo[string])
	return subscribers, dberr.Wrap(err, "Notification", "list subscribers")
}

/*
CreateMany bulk-inserts notifications with the COPY protocol.

Returns:
  - int64: Rows written
  - error: Database execution errors
*/
func (repository *notificationRepository) CreateMany(context context.Context, notifications []*Notification) (int64, error) {
	if len(notifications) == 0 {
		return 0, nil
	}

	table := strings.SplitN(schema.SocialNotification.Table, ".", 2)
	columns := []string{
		schema.SocialNotification.ID, schema.SocialNotification.UserID, schema.SocialNotification.Type,
		schema.SocialNotification.Content, schema.SocialNotification.MangaID, schema.SocialNotification.ChapterID,
		schema.SocialNotification.IsRead, schema.SocialNotification.CreatedAt,
	}

	written, err := pgstore.Conn(context, repository.pool).CopyFrom(context,
		pgx.Identifier(table),
		columns,
		pgx.CopyFromSlice(len(notifications), func(index int) ([]any, error) {
			notification := notifications[index]
			return []any{
				notification.ID, notification.UserID, string(notification.Type), notification.Content,
				notification.MangaID, notification.ChapterID, notification.IsRead, notification.CreatedAt,
			}, nil
		}),
	)

	return written, dberr.Wrap(err, "Notification", "create notifications")
}

// List returns a page of a reader's notifications, newest first, and the total.
func (repository *notificationRepository) List(context context.Context, userID string, unreadOnly bool, limit, offset int) ([]*Notification, int, error) {
	query := fmt.Sprintf(`
		SELECT %s::text, %s::text, %s, %s, %s::text, %s::text, %s, %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1 AND (NOT $2 OR NOT %s)
		ORDER BY %s DESC
		LIMIT $3 OFFSET $4`,
		schema.SocialNotification.ID, schema.SocialNotification.UserID, schema.SocialNotification.Type,
		schema.SocialNotification.Content, schema.SocialNotification.MangaID, schema.SocialNotification.ChapterID,
		schema.SocialNotification.IsRead, schema.SocialNotification.CreatedAt,
		schema.SocialNotification.Table,
		schema.SocialNotification.UserID, schema.SocialNotification.IsRead,
		schema.SocialNotification.CreatedAt,
	)

	rows, err := pgstore.Conn(context, repository.pool).Query(context, query, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Notification", "list notifications")
	}
	defer rows.Close()

	notifications := []*Notification{}
	total := 0

	for rows.Next() {
		notification := &Notification{}
		err := rows.Scan(
			&notification.ID, &notification.UserID, &notification.Type, &notification.Content,
			&notification.MangaID, &notification.ChapterID, &notification.IsRead, &notification.CreatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Notification", "scan notification")
		}
		notifications = append(notifications, notification)
	}

	return notifications, total, dberr.Wrap(rows.Err(), "Notification", "list notifications")
}

// MarkRead marks one of the reader's notifications read. Another reader's notification is NotFound.
func (repository *notificationRepository) MarkRead(context context.Context, userID, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1 AND %s = $2`,
		schema.SocialNotification.Table, schema.SocialNotification.IsRead,
		schema.SocialNotification.ID, schema.SocialNotification.UserID,
	)

	tag, err := pgstore.Conn(context, repository.pool).Exec(context, query, id, userID)
	if err != nil {
		return dberr.Wrap(err, "Notification", "mark notification read")
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Notification", "mark notification read")
	}

	return nil
}

// MarkAllRead marks every unread notification of the reader read.
func (repository *notificationRepository) MarkAllRead(context context.Context, userID string) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1 AND NOT %s`,
		schema.SocialNotification.Table, schema.SocialNotification.IsRead,
		schema.SocialNotification.UserID, schema.SocialNotification.IsRead,
	)

	tag, err := pgstore.Conn(context, repository.pool).Exec(context, query, userID)
	if err != nil {
		return 0, dberr.Wrap(err, "Notification", "mark all notifications read")
	}

	return tag.RowsAffected(), nil
}

// UnreadCount returns the number of unread notifications of the reader.
func (repository *notificationRepository) UnreadCount(context context.Context, userID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1 AND NOT %s`,
		schema.SocialNotification.Table, schema.SocialNotification.UserID, schema.SocialNotification.IsRead,
	)

	var count int
	err := pgstore.Conn(context, repository.pool).QueryRow(context, query, userID).Scan(&count)
	return count, dberr.Wrap(err, "Notification", "count unread notifications")
}
