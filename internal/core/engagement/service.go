// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/taibuivan/mangaverse/internal/core/catalog"
	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	pgstore "github.com/taibuivan/mangaverse/internal/platform/postgres"
	"github.com/taibuivan/mangaverse/internal/platform/sec"
	"github.com/taibuivan/mangaverse/pkg/uuid"
)

// # Service Layer

// Service implements every engagement use case. Writes that touch a manga's
// derived fields go through [Catalog] inside the same transaction.
type Service struct {
	ratings       RatingRepository
	comments      CommentRepository
	progress      ProgressRepository
	bookmarks     BookmarkRepository
	lists         ListRepository
	notifications NotificationRepository
	catalog       Catalog
	transactor    pgstore.Transactor
	logger        *slog.Logger
	now           func() time.Time
}

// NewService constructs a new engagement [Service].
func NewService(repositories Repositories, catalogService Catalog, transactor pgstore.Transactor, logger *slog.Logger) *Service {
	return &Service{
		ratings:       repositories.Ratings,
		comments:      repositories.Comments,
		progress:      repositories.Progress,
		bookmarks:     repositories.Bookmarks,
		lists:         repositories.Lists,
		notifications: repositories.Notifications,
		catalog:       catalogService,
		transactor:    transactor,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// requireUser rejects anonymous callers.
func requireUser(caller sec.Caller) error {
	if caller.UserID == "" {
		return apperr.Unauthorized("Authentication required")
	}
	return nil
}

// visibleManga loads a manga and hides unpublished ones from non-administrators.
func (service *Service) visibleManga(context context.Context, caller sec.Caller, mangaID string) (*catalog.Manga, error) {
	manga, err := service.catalog.FindManga(context, mangaID)
	if err != nil {
		return nil, err
	}

	if !manga.IsPublished() && !caller.Role.AtLeast(sec.RoleAdmin) {
		return nil, apperr.NotFound("Manga")
	}

	return manga, nil
}

// # Chapter Events

/*
ChapterCreated notifies every reader who bookmarked the manga and accepts
new-chapter alerts.

Description: Runs after the chapter commit. A failure here is reported to the
catalog, which logs it; the chapter stays created.
*/
func (service *Service) ChapterCreated(context context.Context, manga *catalog.Manga, chapter *catalog.Chapter) error {
	subscribers, err := service.notifications.Subscribers(context, manga.ID)
	if err != nil {
		return err
	}

	if len(subscribers) == 0 {
		return nil
	}

	createdAt := service.now()
	content := fmt.Sprintf("Chapter %s of %s is out", strconv.FormatFloat(chapter.Number, 'f', -1, 64), manga.Title)

	notifications := make([]*Notification, 0, len(subscribers))
	for _, userID := range subscribers {
		mangaID, chapterID := manga.ID, chapter.ID
		notifications = append(notifications, &Notification{
			ID:        uuid.New(),
			UserID:    userID,
			Type:      NotificationNewChapter,
			Content:   content,
			MangaID:   &mangaID,
			ChapterID: &chapterID,
			CreatedAt: createdAt,
		})
	}

	written, err := service.notifications.CreateMany(context, notifications)
	if err != nil {
		return err
	}

	service.logger.Info("new_chapter_notifications_sent",
		slog.String("manga_id", manga.ID),
		slog.String("chapter_id", chapter.ID),
		slog.Int64("recipients", written),
	)

	return nil
}

// ChapterDeleted removes the deleted chapter from every reader's read set.
func (service *Service) ChapterDeleted(context context.Context, mangaID, chapterID string) error {
	pruned, err := service.progress.PruneChapter(context, chapterID)
	if err != nil {
		return err
	}

	service.logger.Info("reading_progress_pruned",
		slog.String("manga_id", mangaID),
		slog.String("chapter_id", chapterID),
		slog.Int64("rows", pruned),
	)

	return nil
}

/*
RemoveUserContent detaches everything a departing user contributed to catalog aggregates.

Description: Each of the user's comments leaves its parent comment list and
each rated manga has its rating summary re-derived without the user's score.
Bookmarks, lists, progress and notifications go with the account row itself.
Runs inside the caller's transaction when one is active.
*/
func (service *Service) RemoveUserContent(ctx context.Context, userID string) error {
	touched := map[string]struct{}{}

	err := service.transactor.WithinTx(ctx, func(txContext context.Context) error {
		comments, err := service.comments.ListByUser(txContext, userID)
		if err != nil {
			return err
		}

		for _, comment := range comments {
			if err := service.removeComment(txContext, comment); err != nil {
				return err
			}
			if comment.MangaID != "" {
				touched[comment.MangaID] = struct{}{}
			}
		}

		rated, err := service.ratings.MangasRatedBy(txContext, userID)
		if err != nil {
			return err
		}

		for _, mangaID := range rated {
			if _, err := service.catalog.LockManga(txContext, mangaID); err != nil {
				return err
			}
			if err := service.ratings.Delete(txContext, userID, mangaID); err != nil {
				return err
			}
			if _, err := service.refreshRatingSummary(txContext, mangaID); err != nil {
				return err
			}
			touched[mangaID] = struct{}{}
		}

		return nil
	})
	if err != nil {
		return err
	}

	for mangaID := range touched {
		service.catalog.Invalidate(ctx, mangaID)
	}

	service.logger.Info("user_content_removed",
		slog.String("user_id", userID),
		slog.Int("mangas", len(touched)),
	)

	return nil
}

// # Manga Detail Includes

// MangaComments returns the visible comments of a manga for eager loading.
func (service *Service) MangaComments(context context.Context, mangaID string) (any, error) {
	return service.comments.ListByTarget(context, CommentTarget{MangaID: mangaID}, false)
}

// MangaRatings returns the ratings of a manga for eager loading.
func (service *Service) MangaRatings(context context.Context, mangaID string) (any, error) {
	return service.ratings.ListByManga(context, mangaID)
}
