// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement

import (
	"context"
	"log/slog"

	"github.com/taibuivan/mangaverse/internal/core/catalog"
	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/platform/sec"
	"github.com/taibuivan/mangaverse/internal/platform/validate"
	"github.com/taibuivan/mangaverse/pkg/uuid"
)

// RatingInput carries a reader's score and optional review.
type RatingInput struct {
	Score  int
	Review string
}

// # Rating Mutations

/*
RateManga creates or overwrites the caller's rating of a manga.

Description: The manga row is locked before the upsert so concurrent ratings
of the same manga recompute the average one after another. The average is
re-derived from every stored score, never adjusted incrementally.

Parameters:
  - context: context.Context
  - caller: sec.Caller (Authenticated reader)
  - mangaID: string (UUID)
  - input: RatingInput (Score in [1, 10])

Returns:
  - *Rating: The stored rating
  - error: ValidationError, NotFound (manga), Unauthorized
*/
func (service *Service) RateManga(ctx context.Context, caller sec.Caller, mangaID string, input RatingInput) (*Rating, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Range(FieldScore, input.Score, 1, 10)
	validator.MaxLen(FieldReview, input.Review, 2000)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	rating := &Rating{
		ID:      uuid.New(),
		UserID:  caller.UserID,
		MangaID: mangaID,
		Score:   input.Score,
		Review:  input.Review,
	}

	var summary catalog.RatingSummary

	err := service.transactor.WithinTx(ctx, func(txContext context.Context) error {
		if err := service.lockVisibleManga(txContext, caller, mangaID); err != nil {
			return err
		}

		if err := service.ratings.Upsert(txContext, rating); err != nil {
			return err
		}

		var err error
		summary, err = service.refreshRatingSummary(txContext, mangaID)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.catalog.Invalidate(ctx, mangaID)

	service.logger.Info("rating_upserted",
		slog.String("manga_id", mangaID),
		slog.String("user_id", caller.UserID),
		slog.Int("score", rating.Score),
		slog.Float64("average_rating", summary.Average),
	)

	return rating, nil
}

// DeleteRating removes the caller's rating of a manga and re-derives the average.
func (service *Service) DeleteRating(ctx context.Context, caller sec.Caller, mangaID string) error {
	if err := requireUser(caller); err != nil {
		return err
	}

	err := service.transactor.WithinTx(ctx, func(txContext context.Context) error {
		if _, err := service.catalog.LockManga(txContext, mangaID); err != nil {
			return err
		}

		if err := service.ratings.Delete(txContext, caller.UserID, mangaID); err != nil {
			return err
		}

		_, err := service.refreshRatingSummary(txContext, mangaID)
		return err
	})
	if err != nil {
		return err
	}

	service.catalog.Invalidate(ctx, mangaID)

	service.logger.Info("rating_deleted",
		slog.String("manga_id", mangaID),
		slog.String("user_id", caller.UserID),
	)

	return nil
}

// # Rating Retrieval

// ListRatings returns the ratings of a visible manga.
func (service *Service) ListRatings(context context.Context, caller sec.Caller, mangaID string) ([]*Rating, error) {
	if _, err := service.visibleManga(context, caller, mangaID); err != nil {
		return nil, err
	}
	return service.ratings.ListByManga(context, mangaID)
}

// GetUserRating returns the caller's own rating of a manga.
func (service *Service) GetUserRating(context context.Context, caller sec.Caller, mangaID string) (*Rating, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	return service.ratings.Find(context, caller.UserID, mangaID)
}

// # Internal Helpers

// lockVisibleManga locks a manga the caller is allowed to interact with.
func (service *Service) lockVisibleManga(context context.Context, caller sec.Caller, mangaID string) error {
	manga, err := service.catalog.LockManga(context, mangaID)
	if err != nil {
		return err
	}

	if !manga.IsPublished() && !caller.Role.AtLeast(sec.RoleAdmin) {
		return apperr.NotFound("Manga")
	}

	return nil
}

// refreshRatingSummary re-derives the manga's rating fields from every stored score.
func (service *Service) refreshRatingSummary(context context.Context, mangaID string) (catalog.RatingSummary, error) {
	scores, err := service.ratings.ScoresForManga(context, mangaID)
	if err != nil {
		return catalog.RatingSummary{}, err
	}

	summary := catalog.DeriveRatingSummary(scores)
	return summary, service.catalog.ApplyRatingSummary(context, mangaID, summary)
}
