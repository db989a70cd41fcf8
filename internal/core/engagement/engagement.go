// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package engagement owns reader interactions with the catalogue.

Core Responsibility:

  - Ratings: One score per reader and manga; the manga average follows every change.
  - Comments: Threaded discussion on manga and chapters with reactions and moderation.
  - Library: Reading progress, bookmarks and custom lists.
  - Notifications: New-chapter alerts for readers who bookmarked a manga.
  - Discovery: Continue-reading and genre based recommendations.
*/
package engagement

import (
	"time"

	"github.com/taibuivan/mangaverse/internal/core/catalog"
)

// # Ratings

// Rating is a reader's score for a manga. A reader holds at most one per manga.
type Rating struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MangaID   string    `json:"manga_id"`
	Score     int       `json:"score"`
	Review    string    `json:"review"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Comments

// CommentStatus is the moderation state of a comment.
type CommentStatus string

const (
	CommentPending  CommentStatus = "pending"
	CommentApproved CommentStatus = "approved"
	CommentRejected CommentStatus = "rejected"
)

// ModerationAction is a moderator decision on a comment.
type ModerationAction string

const (
	ModerationApprove ModerationAction = "approve"
	ModerationReject  ModerationAction = "reject"
	ModerationDelete  ModerationAction = "delete"
)

// IsValid reports whether a is a recognised [ModerationAction].
func (a ModerationAction) IsValid() bool {
	return a == ModerationApprove || a == ModerationReject || a == ModerationDelete
}

// ReactionType is the kind of reaction a reader leaves on a comment.
type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

// IsValid reports whether r is a recognised [ReactionType].
func (r ReactionType) IsValid() bool {
	return r == ReactionLike || r == ReactionDislike
}

// Reply is an append-only answer to a comment.
type Reply struct {
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment targets exactly one manga or one chapter.
type Comment struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	MangaID   string        `json:"manga_id,omitempty"`
	ChapterID string        `json:"chapter_id,omitempty"`
	Content   string        `json:"content"`
	Status    CommentStatus `json:"status"`
	Replies   []Reply       `json:"replies"`
	Likes     []string      `json:"likes"`
	Dislikes  []string      `json:"dislikes"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

/*
ToggleReaction flips the user's reaction on the comment.

Description: Likes and dislikes are mutually exclusive per user. Choosing a
reaction the user already holds removes it; choosing the other one moves the
user across.
*/
func (c *Comment) ToggleReaction(userID string, reaction ReactionType) {
	same, opposite := &c.Likes, &c.Dislikes
	if reaction == ReactionDislike {
		same, opposite = &c.Dislikes, &c.Likes
	}

	if containsID(*same, userID) {
		*same = withoutID(*same, userID)
		return
	}

	*same = append(*same, userID)
	*opposite = withoutID(*opposite, userID)
}

// CommentTarget names the manga or chapter a comment list belongs to.
type CommentTarget struct {
	MangaID   string
	ChapterID string
}

// # Library

// ReadingStatus is a reader's coarse state for one manga. Transitions are free-form.
type ReadingStatus string

const (
	StatusPlanning  ReadingStatus = "planning"
	StatusReading   ReadingStatus = "reading"
	StatusCompleted ReadingStatus = "completed"
	StatusDropped   ReadingStatus = "dropped"
)

// IsValid reports whether s is a recognised [ReadingStatus].
func (s ReadingStatus) IsValid() bool {
	switch s {
	case StatusPlanning, StatusReading, StatusCompleted, StatusDropped:
		return true
	}
	return false
}

// ReadingProgress is a reader's cursor in one manga. There is one per (user, manga).
type ReadingProgress struct {
	UserID            string        `json:"user_id"`
	MangaID           string        `json:"manga_id"`
	LastReadChapterID *string       `json:"last_read_chapter_id"`
	ChaptersRead      []string      `json:"chapters_read"`
	LastReadPage      int           `json:"last_read_page"`
	Status            ReadingStatus `json:"reading_status"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// Record moves the cursor to a chapter and page and marks the chapter read.
func (p *ReadingProgress) Record(chapterID string, page int, status ReadingStatus) {
	p.LastReadChapterID = &chapterID
	p.LastReadPage = page
	p.Status = status

	if !containsID(p.ChaptersRead, chapterID) {
		p.ChaptersRead = append(p.ChaptersRead, chapterID)
	}
}

/*
ToggleChapter flips the read state of a chapter.

Description: Marking a chapter read also moves the last-read pointer to it.
Marking it unread leaves the pointer where it was.

Returns:
  - bool: true when the chapter is now read
*/
func (p *ReadingProgress) ToggleChapter(chapterID string) bool {
	if containsID(p.ChaptersRead, chapterID) {
		p.ChaptersRead = withoutID(p.ChaptersRead, chapterID)
		return false
	}

	p.ChaptersRead = append(p.ChaptersRead, chapterID)
	p.LastReadChapterID = &chapterID
	return true
}

// HistoryEntry is a reading progress row joined with its manga.
type HistoryEntry struct {
	ReadingProgress
	MangaTitle string `json:"manga_title"`
	MangaSlug  string `json:"manga_slug"`
	CoverImage string `json:"cover_image"`
}

// ContinueReading pairs a progress entry with the chapter to read next.
type ContinueReading struct {
	MangaID     string           `json:"manga_id"`
	MangaTitle  string           `json:"manga_title"`
	NextChapter *catalog.Chapter `json:"next_chapter"`
}

// Bookmark is a manga saved by a reader.
type Bookmark struct {
	MangaID    string    `json:"manga_id"`
	MangaTitle string    `json:"manga_title"`
	MangaSlug  string    `json:"manga_slug"`
	CoverImage string    `json:"cover_image"`
	CreatedAt  time.Time `json:"created_at"`
}

// List is a named, optionally public collection of manga owned by a reader.
type List struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	MangaIDs    []string  `json:"manga_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// # Notifications

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationNewChapter NotificationType = "new_chapter"
)

// Notification is a message addressed to one reader.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Content   string           `json:"content"`
	MangaID   *string          `json:"manga_id,omitempty"`
	ChapterID *string          `json:"chapter_id,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}

// # Field Identifiers

const (
	FieldScore     = "score"
	FieldReview    = "review"
	FieldContent   = "content"
	FieldTarget    = "target"
	FieldAction    = "action"
	FieldReaction  = "reaction_type"
	FieldChapterID = "chapter_id"
	FieldPage      = "last_read_page"
	FieldStatus    = "reading_status"
	FieldName      = "name"
)

// # Internal Helpers

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// withoutID never returns nil, so an emptied set is stored as '{}' rather than NULL.
func withoutID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
