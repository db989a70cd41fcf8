// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/platform/sec"
	"github.com/taibuivan/mangaverse/internal/platform/validate"
	"github.com/taibuivan/mangaverse/pkg/uuid"
)

// ChapterInput carries the fields of a new chapter.
type ChapterInput struct {
	Number         float64
	Volume         *int
	ReleaseDate    *time.Time
	CoverImage     string
	BackCoverImage string
	Languages      []LanguageVariant
}

// DeleteChapterResult reports the removed chapter and its refreshed manga.
type DeleteChapterResult struct {
	DeletedChapter *Chapter `json:"deleted_chapter"`
	Manga          *Manga   `json:"manga"`
}

// # Chapter Retrieval

// ListChapters returns the chapters of a visible manga ordered by number.
func (service *Service) ListChapters(context context.Context, caller sec.Caller, mangaID string) ([]*Chapter, error) {
	if _, err := service.visibleManga(context, caller, mangaID); err != nil {
		return nil, err
	}
	return service.chapterRepo.ListByManga(context, mangaID)
}

// GetChapter returns a chapter whose manga is visible to the caller.
func (service *Service) GetChapter(context context.Context, caller sec.Caller, id string) (*Chapter, error) {
	chapter, err := service.chapterRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if _, err := service.visibleManga(context, caller, chapter.MangaID); err != nil {
		return nil, apperr.NotFound("Chapter")
	}

	return chapter, nil
}

// visibleManga loads a manga and hides unpublished ones from non-administrators.
func (service *Service) visibleManga(context context.Context, caller sec.Caller, mangaID string) (*Manga, error) {
	manga, err := service.FindManga(context, mangaID)
	if err != nil {
		return nil, err
	}

	if !manga.IsPublished() && !caller.Role.AtLeast(sec.RoleAdmin) {
		return nil, apperr.NotFound("Manga")
	}

	return manga, nil
}

// # Chapter Mutations

/*
CreateChapter adds a numbered chapter under a manga.

Description: Inserts the chapter and re-derives the manga's count, latest
chapter, language set and first-chapter timestamp in one transaction.
Listeners are told about the chapter after commit.

Parameters:
  - context: context.Context
  - mangaID: string (UUID)
  - input: ChapterInput

Returns:
  - *Chapter: The created chapter
  - error: NotFound (manga), Conflict (number taken), ValidationError
*/
func (service *Service) CreateChapter(ctx context.Context, mangaID string, input ChapterInput) (*Chapter, error) {
	chapter := &Chapter{
		ID:             uuid.New(),
		MangaID:        mangaID,
		Number:         input.Number,
		Volume:         input.Volume,
		ReleaseDate:    input.ReleaseDate,
		CoverImage:     input.CoverImage,
		BackCoverImage: input.BackCoverImage,
		Languages:      input.Languages,
		CommentIDs:     []string{},
	}

	if chapter.Languages == nil {
		chapter.Languages = []LanguageVariant{}
	}

	if err := validateChapter(chapter); err != nil {
		return nil, err
	}

	manga, err := service.withMangaLocked(ctx, mangaID, func(txContext context.Context, _ *Manga) error {
		return service.chapterRepo.Create(txContext, chapter)
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("chapter_created",
		slog.String("chapter_id", chapter.ID),
		slog.String("manga_id", mangaID),
		slog.Float64("number", chapter.Number),
	)

	if manga.IsPublished() {
		service.notifyCreated(ctx, manga, chapter)
	}

	return chapter, nil
}

/*
UpdateChapter applies a patch to a chapter.

Description: The manga aggregate is re-derived in full from every sibling
chapter, because a changed number can move the latest pointer and a removed
language may or may not still be carried by a sibling.
*/
func (service *Service) UpdateChapter(context context.Context, chapterID string, patch ChapterPatch) (*Chapter, error) {
	return service.mutateChapter(context, chapterID, "chapter_updated", func(chapter *Chapter) error {
		patch.apply(chapter)
		return validateChapter(chapter)
	})
}

/*
DeleteChapter removes a chapter from a manga.

Returns:
  - *DeleteChapterResult: The deleted chapter and the manga with its refreshed aggregate
  - error: NotFound when the chapter does not exist under mangaID
*/
func (service *Service) DeleteChapter(ctx context.Context, mangaID, chapterID string) (*DeleteChapterResult, error) {
	var deleted *Chapter

	manga, err := service.withMangaLocked(ctx, mangaID, func(txContext context.Context, _ *Manga) error {
		chapter, err := service.chapterRepo.FindByID(txContext, chapterID)
		if err != nil {
			return err
		}

		if chapter.MangaID != mangaID {
			return apperr.NotFound("Chapter")
		}

		if err := service.chapterRepo.Delete(txContext, chapterID); err != nil {
			return err
		}

		deleted = chapter
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("chapter_deleted",
		slog.String("chapter_id", chapterID),
		slog.String("manga_id", mangaID),
		slog.Int("remaining", manga.ChapterCount),
	)

	service.notifyDeleted(ctx, mangaID, chapterID)

	return &DeleteChapterResult{DeletedChapter: deleted, Manga: manga}, nil
}

// AddLanguageVariant appends a variant to a chapter. A language already
// carried by the chapter is a Conflict.
func (service *Service) AddLanguageVariant(context context.Context, chapterID string, variant LanguageVariant) (*Chapter, error) {
	if err := validateVariant(variant); err != nil {
		return nil, err
	}

	return service.mutateChapter(context, chapterID, "language_variant_added", func(chapter *Chapter) error {
		return chapter.AddVariant(variant)
	})
}

// RemoveLanguageVariant drops a variant from a chapter. A language the
// chapter does not carry is NotFound, and the chapter is left unchanged.
func (service *Service) RemoveLanguageVariant(context context.Context, chapterID, lang string) (*Chapter, error) {
	return service.mutateChapter(context, chapterID, "language_variant_removed", func(chapter *Chapter) error {
		return chapter.RemoveVariant(lang)
	})
}

/*
mutateChapter edits one chapter document under its manga's lock.

Description: The chapter is read once to learn its manga, then re-read inside
the transaction after the lock is held, so the edit applies to the latest
committed document.
*/
func (service *Service) mutateChapter(ctx context.Context, chapterID, event string, edit func(chapter *Chapter) error) (*Chapter, error) {
	current, err := service.chapterRepo.FindByID(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	var updated *Chapter

	_, err = service.withMangaLocked(ctx, current.MangaID, func(txContext context.Context, _ *Manga) error {
		chapter, err := service.chapterRepo.FindByID(txContext, chapterID)
		if err != nil {
			return err
		}

		if err := edit(chapter); err != nil {
			return err
		}

		if err := service.chapterRepo.Update(txContext, chapter); err != nil {
			return err
		}

		updated = chapter
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info(event,
		slog.String("chapter_id", chapterID),
		slog.String("manga_id", updated.MangaID),
		slog.Any("languages", updated.LanguageCodes()),
	)

	return updated, nil
}

// # Reader Interactions

// RecordChapterRead counts one read on the chapter and on its manga, then
// evicts the cached manga so its reads total is not served stale.
func (service *Service) RecordChapterRead(ctx context.Context, chapterID string) error {
	var mangaID string

	err := service.transactor.WithinTx(ctx, func(txContext context.Context) error {
		chapter, err := service.chapterRepo.FindByID(txContext, chapterID)
		if err != nil {
			return err
		}

		if err := service.chapterRepo.IncrementReadCount(txContext, chapterID); err != nil {
			return err
		}

		mangaID = chapter.MangaID
		return service.mangaRepo.IncrementReads(txContext, chapter.MangaID)
	})
	if err != nil {
		return err
	}

	service.cache.InvalidateManga(ctx, mangaID)
	return nil
}

// # Validation

func validateChapter(chapter *Chapter) error {
	validator := &validate.Validator{}
	validator.NonNegative(FieldNumber, chapter.Number)

	if chapter.Volume != nil {
		validator.NonNegative(FieldVolume, float64(*chapter.Volume))
	}
	if chapter.CoverImage != "" {
		validator.URL(FieldCoverImage, chapter.CoverImage)
	}
	if chapter.BackCoverImage != "" {
		validator.URL("back_cover_image", chapter.BackCoverImage)
	}

	seen := make(map[string]struct{}, len(chapter.Languages))
	for _, variant := range chapter.Languages {
		if _, duplicate := seen[variant.Lang]; duplicate {
			validator.Custom(FieldLanguages, true, "Language '"+variant.Lang+"' appears more than once")
		}
		seen[variant.Lang] = struct{}{}
	}

	if err := validator.Err(); err != nil {
		return err
	}

	for _, variant := range chapter.Languages {
		if err := validateVariant(variant); err != nil {
			return err
		}
	}

	return nil
}

func validateVariant(variant LanguageVariant) error {
	validator := &validate.Validator{}
	validator.Required(FieldLang, variant.Lang)
	validator.MaxLen(FieldLang, variant.Lang, 10)
	validator.MaxLen(FieldTitle, variant.Title, 255)

	if variant.Parity != "" {
		validator.Custom(FieldParity, !variant.Parity.IsValid(), "Must be one of: even, odd")
	}

	for _, page := range variant.Pages {
		if page == "" {
			validator.Custom(FieldPages, true, "Page references cannot be empty")
			break
		}
	}

	return validator.Err()
}
