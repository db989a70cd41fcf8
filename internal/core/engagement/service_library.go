// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/taibuivan/mangaverse/internal/core/catalog"
	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/platform/constants"
	"github.com/taibuivan/mangaverse/internal/platform/sec"
	"github.com/taibuivan/mangaverse/internal/platform/validate"
	"github.com/taibuivan/mangaverse/pkg/slice"
	"github.com/taibuivan/mangaverse/pkg/uuid"
)

// # Bookmarks

/*
ToggleBookmark adds the manga to the caller's bookmarks, or removes it when
already present.

Returns:
  - bool: true when the manga is bookmarked after the call
  - error: NotFound (manga), Unauthorized
*/
func (service *Service) ToggleBookmark(ctx context.Context, caller sec.Caller, mangaID string) (bool, error) {
	if err := requireUser(caller); err != nil {
		return false, err
	}

	if _, err := service.visibleManga(ctx, caller, mangaID); err != nil {
		return false, err
	}

	var bookmarked bool

	err := service.transactor.WithinTx(ctx, func(txContext context.Context) error {
		removed, err := service.bookmarks.Remove(txContext, caller.UserID, mangaID)
		if err != nil {
			return err
		}

		if removed {
			return nil
		}

		bookmarked = true
		return service.bookmarks.Add(txContext, caller.UserID, mangaID)
	})
	if err != nil {
		return false, err
	}

	service.logger.Info("bookmark_toggled",
		slog.String("user_id", caller.UserID),
		slog.String("manga_id", mangaID),
		slog.Bool("bookmarked", bookmarked),
	)

	return bookmarked, nil
}

// ListBookmarks returns the caller's bookmarks, newest first.
func (service *Service) ListBookmarks(context context.Context, caller sec.Caller) ([]*Bookmark, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	return service.bookmarks.ListByUser(context, caller.UserID)
}

// # Custom Lists

// ListInput carries the editable fields of a custom list.
type ListInput struct {
	Name        string
	Description string
	IsPublic    bool
}

func (input ListInput) validate() error {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name)
	validator.MaxLen(FieldName, input.Name, 100)
	validator.MaxLen("description", input.Description, 1000)
	return validator.Err()
}

// CreateList creates an empty list owned by the caller.
func (service *Service) CreateList(context context.Context, caller sec.Caller, input ListInput) (*List, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	list := &List{
		ID:          uuid.New(),
		UserID:      caller.UserID,
		Name:        input.Name,
		Description: input.Description,
		IsPublic:    input.IsPublic,
		MangaIDs:    []string{},
	}

	if err := service.lists.Create(context, list); err != nil {
		return nil, err
	}

	service.logger.Info("list_created", slog.String("list_id", list.ID), slog.String("user_id", caller.UserID))
	return list, nil
}

// GetLists returns every list of a user to its owner and only public ones to anyone else.
func (service *Service) GetLists(context context.Context, caller sec.Caller, userID string) ([]*List, error) {
	return service.lists.ListByUser(context, userID, !caller.Owns(userID))
}

// GetList returns a list. A private list is NotFound for anyone but its owner.
func (service *Service) GetList(context context.Context, caller sec.Caller, listID string) (*List, error) {
	list, err := service.lists.FindByID(context, listID)
	if err != nil {
		return nil, err
	}

	if !list.IsPublic && !caller.Owns(list.UserID) {
		return nil, apperr.NotFound("List")
	}

	return list, nil
}

// UpdateList replaces the editable fields of the caller's list.
func (service *Service) UpdateList(context context.Context, caller sec.Caller, listID string, input ListInput) (*List, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	list, err := service.ownedList(context, caller, listID)
	if err != nil {
		return nil, err
	}

	list.Name = input.Name
	list.Description = input.Description
	list.IsPublic = input.IsPublic

	if err := service.lists.Update(context, list); err != nil {
		return nil, err
	}

	return list, nil
}

// DeleteList removes the caller's list with its items.
func (service *Service) DeleteList(context context.Context, caller sec.Caller, listID string) error {
	if _, err := service.ownedList(context, caller, listID); err != nil {
		return err
	}

	if err := service.lists.Delete(context, listID); err != nil {
		return err
	}

	service.logger.Info("list_deleted", slog.String("list_id", listID), slog.String("user_id", caller.UserID))
	return nil
}

// AddToList adds a manga to the caller's list. Adding a member again is a no-op.
func (service *Service) AddToList(context context.Context, caller sec.Caller, listID, mangaID string) (*List, error) {
	list, err := service.ownedList(context, caller, listID)
	if err != nil {
		return nil, err
	}

	if _, err := service.visibleManga(context, caller, mangaID); err != nil {
		return nil, err
	}

	if err := service.lists.AddItem(context, listID, mangaID); err != nil {
		return nil, err
	}

	if !containsID(list.MangaIDs, mangaID) {
		list.MangaIDs = append(list.MangaIDs, mangaID)
	}

	return list, nil
}

// RemoveFromList removes a manga from the caller's list.
func (service *Service) RemoveFromList(context context.Context, caller sec.Caller, listID, mangaID string) (*List, error) {
	list, err := service.ownedList(context, caller, listID)
	if err != nil {
		return nil, err
	}

	if err := service.lists.RemoveItem(context, listID, mangaID); err != nil {
		return nil, err
	}

	list.MangaIDs = withoutID(list.MangaIDs, mangaID)
	return list, nil
}

// ownedList loads a list the caller may edit.
func (service *Service) ownedList(context context.Context, caller sec.Caller, listID string) (*List, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	list, err := service.lists.FindByID(context, listID)
	if err != nil {
		return nil, err
	}

	if !caller.Owns(list.UserID) {
		if !list.IsPublic {
			return nil, apperr.NotFound("List")
		}
		return nil, apperr.Forbidden("Only the owner can change this list")
	}

	return list, nil
}

// # Reading Progress

// ProgressInput moves a reader's cursor within a manga.
type ProgressInput struct {
	ChapterID string
	Page      int
	Status    ReadingStatus
}

/*
UpdateReadingProgress records where the caller stopped reading a manga.

Description: The progress entry is created on first use. The cursor, page and
status are overwritten and the chapter joins the read set. Repeating the same
call leaves the entry unchanged.

Parameters:
  - input: ProgressInput (Status defaults to reading)

Returns:
  - *ReadingProgress: The stored entry
  - error: ValidationError, NotFound (manga or chapter), Unauthorized
*/
func (service *Service) UpdateReadingProgress(context context.Context, caller sec.Caller, mangaID string, input ProgressInput) (*ReadingProgress, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = StatusReading
	}

	validator := &validate.Validator{}
	validator.Required(FieldChapterID, input.ChapterID)
	validator.Custom(FieldPage, input.Page < 1, "Must be at least 1")
	validator.Custom(FieldStatus, !input.Status.IsValid(), "Must be one of: planning, reading, completed, dropped")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.checkChapterOf(context, caller, mangaID, input.ChapterID); err != nil {
		return nil, err
	}

	progress, err := service.withProgress(context, caller.UserID, mangaID, func(progress *ReadingProgress) {
		progress.Record(input.ChapterID, input.Page, input.Status)
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("reading_progress_updated",
		slog.String("user_id", caller.UserID),
		slog.String("manga_id", mangaID),
		slog.String("chapter_id", input.ChapterID),
		slog.Int("page", input.Page),
	)

	return progress, nil
}

/*
ToggleChapterRead flips the read state of one chapter for the caller.

Description: Marking a chapter read moves the last-read pointer to it. Marking
it unread leaves the pointer untouched, so two calls restore the read set but
may leave the pointer on the toggled chapter.
*/
func (service *Service) ToggleChapterRead(context context.Context, caller sec.Caller, mangaID, chapterID string) (*ReadingProgress, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	if err := service.checkChapterOf(context, caller, mangaID, chapterID); err != nil {
		return nil, err
	}

	var read bool

	progress, err := service.withProgress(context, caller.UserID, mangaID, func(progress *ReadingProgress) {
		read = progress.ToggleChapter(chapterID)
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("chapter_read_toggled",
		slog.String("user_id", caller.UserID),
		slog.String("chapter_id", chapterID),
		slog.Bool("read", read),
	)

	return progress, nil
}

// GetReadingHistory returns the caller's progress entries, most recently updated first.
func (service *Service) GetReadingHistory(context context.Context, caller sec.Caller) ([]*HistoryEntry, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	return service.progress.History(context, caller.UserID)
}

/*
GetNextChapters lists the chapter to read next in every manga the caller has
progress in.

Description: The next chapter follows the last-read pointer by number. Entries
without a pointer start at the first chapter. Manga the caller has finished
are left out.
*/
func (service *Service) GetNextChapters(context context.Context, caller sec.Caller) ([]*ContinueReading, error) {
	history, err := service.GetReadingHistory(context, caller)
	if err != nil {
		return nil, err
	}

	result := make([]*ContinueReading, 0, len(history))

	for _, entry := range history {
		var next *catalog.Chapter

		if entry.LastReadChapterID != nil {
			next, err = service.catalog.NextChapter(context, entry.MangaID, *entry.LastReadChapterID)
		} else {
			next, err = service.catalog.FirstChapter(context, entry.MangaID)
		}

		if apperr.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if next == nil {
			continue
		}

		result = append(result, &ContinueReading{
			MangaID:     entry.MangaID,
			MangaTitle:  entry.MangaTitle,
			NextChapter: next,
		})
	}

	return result, nil
}

// # Recommendations

/*
GetRecommendations suggests published manga from the caller's favourite genres.

Description: Genre tags are tallied across every manga with reading progress.
The most frequent genres seed a popularity-ordered lookup that skips manga the
caller already reads. Ties between genres are broken alphabetically.
*/
func (service *Service) GetRecommendations(context context.Context, caller sec.Caller) ([]*catalog.Manga, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	entries, err := service.progress.ListByUser(context, caller.UserID)
	if err != nil {
		return nil, err
	}

	readIDs := slice.Map(entries, func(entry *ReadingProgress) string { return entry.MangaID })
	if len(readIDs) == 0 {
		return []*catalog.Manga{}, nil
	}

	mangas, err := service.catalog.MangasByIDs(context, readIDs)
	if err != nil {
		return nil, err
	}

	genres := TopGenres(mangas, constants.RecommendationTopGenres)

	return service.catalog.PublishedByGenres(context, genres, readIDs, constants.RecommendationLimit)
}

// TopGenres returns up to n genres ordered by how many of mangas carry them.
func TopGenres(mangas []*catalog.Manga, n int) []string {
	counts := map[string]int{}
	for _, manga := range mangas {
		for _, genre := range manga.Genres() {
			counts[genre]++
		}
	}

	genres := make([]string, 0, len(counts))
	for genre := range counts {
		genres = append(genres, genre)
	}

	slices.SortFunc(genres, func(a, b string) int {
		if byCount := cmp.Compare(counts[b], counts[a]); byCount != 0 {
			return byCount
		}
		return cmp.Compare(a, b)
	})

	if len(genres) > n {
		genres = genres[:n]
	}

	return genres
}

// # Internal Helpers

// withProgress edits the caller's progress entry for a manga under its row lock.
func (service *Service) withProgress(ctx context.Context, userID, mangaID string, edit func(progress *ReadingProgress)) (*ReadingProgress, error) {
	var result *ReadingProgress

	err := service.transactor.WithinTx(ctx, func(txContext context.Context) error {
		progress, err := service.progress.LockOrCreate(txContext, userID, mangaID)
		if err != nil {
			return err
		}

		edit(progress)

		result = progress
		return service.progress.Save(txContext, progress)
	})

	return result, err
}

// checkChapterOf verifies the chapter belongs to a manga the caller can see.
func (service *Service) checkChapterOf(context context.Context, caller sec.Caller, mangaID, chapterID string) error {
	if _, err := service.visibleManga(context, caller, mangaID); err != nil {
		return err
	}

	chapter, err := service.catalog.FindChapter(context, chapterID)
	if err != nil {
		return err
	}

	if chapter.MangaID != mangaID {
		return apperr.NotFound("Chapter")
	}

	return nil
}
