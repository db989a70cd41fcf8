// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/platform/constants"
	"github.com/taibuivan/mangaverse/internal/platform/sec"
	"github.com/taibuivan/mangaverse/internal/platform/validate"
	"github.com/taibuivan/mangaverse/pkg/pagination"
	"github.com/taibuivan/mangaverse/pkg/slug"
	"github.com/taibuivan/mangaverse/pkg/uuid"
)

// # Manga Inputs

// MangaInput carries the editable fields of a new manga.
type MangaInput struct {
	Title         string
	Description   string
	Author        string
	Tags          []Tag
	Demographic   Demographic
	Status        Status
	ContentRating ContentRating
	CoverImage    string
	BannerImage   string
	Related       []Relation
}

// MangaPatch carries the optional fields of a manga update.
type MangaPatch struct {
	Title         *string
	Description   *string
	Author        *string
	Tags          *[]Tag
	Demographic   *Demographic
	Status        *Status
	ContentRating *ContentRating
	CoverImage    *string
	BannerImage   *string
	Related       *[]Relation
}

// # Manga Retrieval

/*
ListMangas returns a page of the catalogue.

Description: Readers only ever see published manga. Administrators see every
state unless the filter narrows it.

Parameters:
  - context: context.Context
  - caller: sec.Caller
  - filter: Filter
  - page: pagination.Params

Returns:
  - []*Manga: The requested page
  - int: Total matches
  - error: Storage failures
*/
func (service *Service) ListMangas(context context.Context, caller sec.Caller, filter Filter, page pagination.Params) ([]*Manga, int, error) {
	if !caller.Role.AtLeast(sec.RoleAdmin) {
		filter.States = []PublicationState{StatePublished}
	}
	return service.listPage(context, filter, page.Clamp())
}

// FilterManga returns a page of published manga matching the discovery filter.
func (service *Service) FilterManga(context context.Context, filter Filter, page pagination.Params) ([]*Manga, int, error) {
	filter.States = []PublicationState{StatePublished}
	return service.listPage(context, filter, page.Clamp())
}

// listPage loads one page and its total. An empty page past the first one
// carries no total, so it is counted separately.
func (service *Service) listPage(context context.Context, filter Filter, page pagination.Params) ([]*Manga, int, error) {
	mangas, total, err := service.mangaRepo.List(context, filter, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}

	if len(mangas) == 0 && page.Offset() > 0 {
		total, err = service.mangaRepo.Count(context, filter)
		if err != nil {
			return nil, 0, err
		}
	}

	return mangas, total, nil
}

// SearchManga returns published manga whose title contains text, case-insensitively.
func (service *Service) SearchManga(context context.Context, text string) ([]*Manga, error) {
	validator := &validate.Validator{}
	validator.Required("q", text)
	validator.MaxLen("q", text, 200)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	filter := Filter{Query: text, States: []PublicationState{StatePublished}}
	mangas, _, err := service.mangaRepo.List(context, filter, constants.SearchResultLimit, 0)
	return mangas, err
}

/*
GetManga resolves a manga by ID or slug with optional related documents.

Description: Unpublished manga are reported as NotFound to anyone but an
administrator. Comment and rating includes are served by the registered
[DetailLoader] and silently omitted when none is registered.

Parameters:
  - context: context.Context
  - caller: sec.Caller
  - ref: string (UUID or slug)
  - include: Include

Returns:
  - *MangaDetail: The manga and requested includes
  - error: NotFound
*/
func (service *Service) GetManga(context context.Context, caller sec.Caller, ref string, include Include) (*MangaDetail, error) {
	manga, err := service.resolveManga(context, ref)
	if err != nil {
		return nil, err
	}

	if !manga.IsPublished() && !caller.Role.AtLeast(sec.RoleAdmin) {
		return nil, apperr.NotFound("Manga")
	}

	detail := &MangaDetail{Manga: manga}

	if include.Chapters {
		if detail.Chapters, err = service.chapterRepo.ListByManga(context, manga.ID); err != nil {
			return nil, err
		}
	}

	if include.Related {
		if detail.Related, err = service.mangaRepo.ListRelations(context, manga.ID); err != nil {
			return nil, err
		}
	}

	if service.details != nil && include.Comments {
		if detail.Comments, err = service.details.MangaComments(context, manga.ID); err != nil {
			return nil, err
		}
	}

	if service.details != nil && include.Ratings {
		if detail.Ratings, err = service.details.MangaRatings(context, manga.ID); err != nil {
			return nil, err
		}
	}

	return detail, nil
}

// resolveManga loads a manga by ID through the cache, or by slug from the store.
func (service *Service) resolveManga(context context.Context, ref string) (*Manga, error) {
	if !uuid.IsValid(ref) {
		return service.mangaRepo.FindBySlug(context, ref)
	}
	return service.FindManga(context, ref)
}

// FindManga loads a manga by ID through the read cache.
func (service *Service) FindManga(context context.Context, id string) (*Manga, error) {
	if manga, ok := service.cache.GetManga(context, id); ok {
		service.metrics.RecordCacheLookup(true)
		return manga, nil
	}
	service.metrics.RecordCacheLookup(false)

	manga, err := service.mangaRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	service.cache.SetManga(context, manga)
	return manga, nil
}

// # Manga Mutations

/*
CreateManga registers a new manga in the draft state.

Description: The slug is derived from the title; a collision appends a short
suffix of the new ID. Relations are validated and written in the same
transaction as the manga row.

Parameters:
  - context: context.Context
  - input: MangaInput

Returns:
  - *Manga: The created manga
  - error: Validation, NotFound for unknown related manga
*/
func (service *Service) CreateManga(ctx context.Context, input MangaInput) (*Manga, error) {
	manga := &Manga{
		ID:               uuid.New(),
		Title:            input.Title,
		Description:      input.Description,
		Author:           input.Author,
		Tags:             input.Tags,
		Demographic:      input.Demographic,
		Status:           input.Status,
		PublicationState: StateDraft,
		ContentRating:    input.ContentRating,
		CoverImage:       input.CoverImage,
		BannerImage:      input.BannerImage,
		Languages:        []string{},
		CommentIDs:       []string{},
	}

	if manga.Tags == nil {
		manga.Tags = []Tag{}
	}
	if manga.Status == "" {
		manga.Status = StatusOngoing
	}
	if manga.ContentRating == "" {
		manga.ContentRating = ContentRatingSafe
	}

	if err := validateManga(manga); err != nil {
		return nil, err
	}

	err := service.transactor.WithinTx(ctx, func(txContext context.Context) error {
		slugValue, err := service.uniqueSlug(txContext, manga.Title, manga.ID)
		if err != nil {
			return err
		}
		manga.Slug = slugValue

		if err := service.mangaRepo.Create(txContext, manga); err != nil {
			return err
		}

		return service.replaceRelations(txContext, manga.ID, input.Related)
	})
	if err != nil {
		return nil, err
	}

	service.cache.InvalidateManga(ctx, manga.ID)

	service.logger.Info("manga_created",
		slog.String("manga_id", manga.ID),
		slog.String("slug", manga.Slug),
	)

	return manga, nil
}

/*
UpdateManga applies a patch to the editable metadata of a manga.

Description: The slug stays stable across title changes. Moving the status to
completed stamps finishedAt once. A non-nil Related replaces the full
relation set.
*/
func (service *Service) UpdateManga(ctx context.Context, id string, patch MangaPatch) (*Manga, error) {
	var updated *Manga

	err := service.transactor.WithinTx(ctx, func(txContext context.Context) error {
		manga, err := service.mangaRepo.LockByID(txContext, id)
		if err != nil {
			return err
		}

		patch.apply(manga)

		if manga.Status == StatusCompleted && manga.FinishedAt == nil {
			now := time.Now().UTC()
			manga.FinishedAt = &now
		}

		if err := validateManga(manga); err != nil {
			return err
		}

		if err := service.mangaRepo.Update(txContext, manga); err != nil {
			return err
		}

		if patch.Related != nil {
			if err := service.replaceRelations(txContext, manga.ID, *patch.Related); err != nil {
				return err
			}
		}

		updated = manga
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.cache.InvalidateManga(ctx, id)

	service.logger.Info("manga_updated", slog.String("manga_id", id))
	return updated, nil
}

/*
SetPublicationState moves a manga through the editorial workflow.

Description: The first transition to published stamps publishedAt. Later
transitions keep the original timestamp.
*/
func (service *Service) SetPublicationState(ctx context.Context, id string, state PublicationState) (*Manga, error) {
	if !state.IsValid() {
		return nil, validate.RequiredError(FieldPublicationState, "Unknown publication state")
	}

	var updated *Manga

	err := service.transactor.WithinTx(ctx, func(txContext context.Context) error {
		manga, err := service.mangaRepo.LockByID(txContext, id)
		if err != nil {
			return err
		}

		manga.PublicationState = state
		if state == StatePublished && manga.PublishedAt == nil {
			now := time.Now().UTC()
			manga.PublishedAt = &now
		}

		if err := service.mangaRepo.Update(txContext, manga); err != nil {
			return err
		}

		updated = manga
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.cache.InvalidateManga(ctx, id)

	service.logger.Info("manga_publication_state_changed",
		slog.String("manga_id", id),
		slog.String("state", string(state)),
	)

	return updated, nil
}

/*
DeleteManga removes a manga and everything that belongs to it.

Description: Chapters, comments, ratings, relations in both directions,
reading progress, bookmarks, list items and notifications are removed by the
schema's cascades inside the same statement.
*/
func (service *Service) DeleteManga(ctx context.Context, id string) error {
	err := service.transactor.WithinTx(ctx, func(txContext context.Context) error {
		if _, err := service.mangaRepo.LockByID(txContext, id); err != nil {
			return err
		}
		return service.mangaRepo.Delete(txContext, id)
	})
	if err != nil {
		return err
	}

	service.cache.InvalidateManga(ctx, id)

	service.logger.Info("manga_deleted", slog.String("manga_id", id))
	return nil
}

// # Internal Helpers

func (patch MangaPatch) apply(manga *Manga) {
	if patch.Title != nil {
		manga.Title = *patch.Title
	}
	if patch.Description != nil {
		manga.Description = *patch.Description
	}
	if patch.Author != nil {
		manga.Author = *patch.Author
	}
	if patch.Tags != nil {
		manga.Tags = *patch.Tags
	}
	if patch.Demographic != nil {
		manga.Demographic = *patch.Demographic
	}
	if patch.Status != nil {
		manga.Status = *patch.Status
	}
	if patch.ContentRating != nil {
		manga.ContentRating = *patch.ContentRating
	}
	if patch.CoverImage != nil {
		manga.CoverImage = *patch.CoverImage
	}
	if patch.BannerImage != nil {
		manga.BannerImage = *patch.BannerImage
	}
}

// validateManga checks the editable fields of a manga.
func validateManga(manga *Manga) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, manga.Title)
	validator.MaxLen(FieldTitle, manga.Title, 255)
	validator.Required(FieldAuthor, manga.Author)
	validator.Required(FieldCoverImage, manga.CoverImage)
	validator.URL(FieldCoverImage, manga.CoverImage)

	if manga.BannerImage != "" {
		validator.URL(FieldBannerImage, manga.BannerImage)
	}

	validator.Custom(FieldDemographic, !manga.Demographic.IsValid(), "Must be one of: shounen, shoujo, seinen, josei")
	validator.Custom(FieldStatus, !manga.Status.IsValid(), "Must be one of: ongoing, completed, cancelled, hiatus")
	validator.Custom(FieldContentRating, !manga.ContentRating.IsValid(), "Must be one of: safe, suggestive, erotica, pornographic")

	for _, tag := range manga.Tags {
		if !tag.Type.IsValid() || tag.Value == "" {
			validator.Custom(FieldTags, true, "Each tag needs a type (genre, theme, format) and a value")
			break
		}
	}

	return validator.Err()
}

// replaceRelations validates and stores the outgoing relations of a manga.
func (service *Service) replaceRelations(context context.Context, mangaID string, relations []Relation) error {
	validator := &validate.Validator{}
	seen := make(map[string]struct{}, len(relations))
	ids := make([]string, 0, len(relations))

	for _, relation := range relations {
		validator.Custom(FieldRelatedManga, relation.MangaID == mangaID, "A manga cannot be related to itself")
		validator.Custom(FieldRelatedManga, !relation.Type.IsValid(), "Unknown relationship type '"+string(relation.Type)+"'")
		validator.Custom(FieldRelatedManga, !uuid.IsValid(relation.MangaID), "Related manga must be referenced by ID")

		if _, duplicate := seen[relation.MangaID]; duplicate {
			validator.Custom(FieldRelatedManga, true, "A manga can only be related once")
			continue
		}
		seen[relation.MangaID] = struct{}{}
		ids = append(ids, relation.MangaID)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	found, err := service.mangaRepo.FindByIDs(context, ids)
	if err != nil {
		return err
	}

	if len(found) != len(ids) {
		return apperr.NotFound("Related manga")
	}

	return service.mangaRepo.ReplaceRelations(context, mangaID, relations)
}

// uniqueSlug derives a slug from the title and disambiguates it with the ID on collision.
func (service *Service) uniqueSlug(context context.Context, title, id string) (string, error) {
	candidate := slug.From(title)
	if candidate == "" {
		return id, nil
	}

	_, err := service.mangaRepo.FindBySlug(context, candidate)
	switch {
	case apperr.IsNotFound(err):
		return candidate, nil
	case err != nil:
		return "", err
	}

	return candidate + "-" + id[len(id)-8:], nil
}
