// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement

import (
	"context"

	"github.com/taibuivan/mangaverse/internal/core/catalog"
)

// # Repository Interfaces

// RatingRepository persists ratings. (user, manga) is unique.
type RatingRepository interface {
	// Upsert inserts the rating or overwrites the score and review of the existing one.
	Upsert(context context.Context, rating *Rating) error
	Delete(context context.Context, userID, mangaID string) error
	Find(context context.Context, userID, mangaID string) (*Rating, error)
	ListByManga(context context.Context, mangaID string) ([]*Rating, error)
	ScoresForManga(context context.Context, mangaID string) ([]int, error)
	// MangasRatedBy returns the IDs of every manga the user rated.
	MangasRatedBy(context context.Context, userID string) ([]string, error)
}

// CommentRepository persists comments with their replies and reactions.
type CommentRepository interface {
	Create(context context.Context, comment *Comment) error
	FindByID(context context.Context, id string) (*Comment, error)
	// LockByID reads a comment and holds its row lock until the transaction ends.
	LockByID(context context.Context, id string) (*Comment, error)
	Update(context context.Context, comment *Comment) error
	Delete(context context.Context, id string) error
	ListByTarget(context context.Context, target CommentTarget, includeRejected bool) ([]*Comment, error)
	ListByUser(context context.Context, userID string) ([]*Comment, error)
}

// ProgressRepository persists reading progress, one row per (user, manga).
type ProgressRepository interface {
	// LockOrCreate returns the locked progress row, creating an empty one first when absent.
	LockOrCreate(context context.Context, userID, mangaID string) (*ReadingProgress, error)
	Save(context context.Context, progress *ReadingProgress) error
	ListByUser(context context.Context, userID string) ([]*ReadingProgress, error)
	History(context context.Context, userID string) ([]*HistoryEntry, error)
	// PruneChapter removes a chapter from every read set and returns the rows touched.
	PruneChapter(context context.Context, chapterID string) (int64, error)
}

// BookmarkRepository persists the bookmark set of each reader.
type BookmarkRepository interface {
	Add(context context.Context, userID, mangaID string) error
	// Remove reports whether a bookmark existed.
	Remove(context context.Context, userID, mangaID string) (bool, error)
	ListByUser(context context.Context, userID string) ([]*Bookmark, error)
}

// ListRepository persists custom lists and their items.
type ListRepository interface {
	Create(context context.Context, list *List) error
	FindByID(context context.Context, id string) (*List, error)
	ListByUser(context context.Context, userID string, publicOnly bool) ([]*List, error)
	Update(context context.Context, list *List) error
	Delete(context context.Context, id string) error
	AddItem(context context.Context, listID, mangaID string) error
	RemoveItem(context context.Context, listID, mangaID string) error
}

// NotificationRepository persists per-reader notifications.
type NotificationRepository interface {
	// Subscribers returns the readers who bookmarked the manga and accept new-chapter alerts.
	Subscribers(context context.Context, mangaID string) ([]string, error)
	CreateMany(context context.Context, notifications []*Notification) (int64, error)
	List(context context.Context, userID string, unreadOnly bool, limit, offset int) ([]*Notification, int, error)
	MarkRead(context context.Context, userID, id string) error
	MarkAllRead(context context.Context, userID string) (int64, error)
	UnreadCount(context context.Context, userID string) (int, error)
}

// Repositories bundles the engagement stores.
type Repositories struct {
	Ratings       RatingRepository
	Comments      CommentRepository
	Progress      ProgressRepository
	Bookmarks     BookmarkRepository
	Lists         ListRepository
	Notifications NotificationRepository
}

// # Catalog Collaboration

// Catalog is the part of the catalog service engagement writes through.
// Every derived manga field is owned by the catalog; engagement only feeds it.
type Catalog interface {
	LockManga(context context.Context, id string) (*catalog.Manga, error)
	ApplyRatingSummary(context context.Context, id string, summary catalog.RatingSummary) error
	Invalidate(context context.Context, id string)
	FindManga(context context.Context, id string) (*catalog.Manga, error)
	FindChapter(context context.Context, id string) (*catalog.Chapter, error)
	MangasByIDs(context context.Context, ids []string) ([]*catalog.Manga, error)
	PublishedByGenres(context context.Context, genres, exclude []string, limit int) ([]*catalog.Manga, error)
	NextChapter(context context.Context, mangaID, chapterID string) (*catalog.Chapter, error)
	FirstChapter(context context.Context, mangaID string) (*catalog.Chapter, error)
	AttachComment(context context.Context, mangaID, chapterID, commentID string) error
	DetachComment(context context.Context, mangaID, chapterID, commentID string) error
}
