// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"log/slog"

	"github.com/taibuivan/mangaverse/internal/platform/metrics"
	pgstore "github.com/taibuivan/mangaverse/internal/platform/postgres"
)

// # Collaborators

// ChapterListener receives chapter lifecycle events after the write commits.
// Listener errors are logged and never undo the chapter mutation.
type ChapterListener interface {
	ChapterCreated(context context.Context, manga *Manga, chapter *Chapter) error
	ChapterDeleted(context context.Context, mangaID, chapterID string) error
}

// DetailLoader resolves the engagement documents that GetManga can eager-load.
type DetailLoader interface {
	MangaComments(context context.Context, mangaID string) (any, error)
	MangaRatings(context context.Context, mangaID string) (any, error)
}

// RatingSource lists the scores behind a manga's rating summary. Reconcile
// uses it to re-derive averageRating and ratingCount.
type RatingSource interface {
	ScoresForManga(context context.Context, mangaID string) ([]int, error)
}

// # Service Layer

// Service is the single entry point for catalog mutations. It keeps the
// manga's chapter-derived fields equal to a fresh derivation from its chapters.
type Service struct {
	mangaRepo   MangaRepository
	chapterRepo ChapterRepository
	transactor  pgstore.Transactor
	cache       Cache
	metrics     *metrics.Metrics
	logger      *slog.Logger
	listeners   []ChapterListener
	details     DetailLoader
	ratings     RatingSource
}

// NewService constructs a new [Service] with its required repositories.
// A nil cache disables caching.
func NewService(
	mangaRepo MangaRepository,
	chapterRepo ChapterRepository,
	transactor pgstore.Transactor,
	cache Cache,
	collectors *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	if collectors == nil {
		collectors = metrics.NewNop()
	}

	return &Service{
		mangaRepo:   mangaRepo,
		chapterRepo: chapterRepo,
		transactor:  transactor,
		cache:       cache,
		metrics:     collectors,
		logger:      logger,
	}
}

// RegisterListener subscribes a listener to chapter lifecycle events.
func (service *Service) RegisterListener(listener ChapterListener) {
	service.listeners = append(service.listeners, listener)
}

// SetDetailLoader wires the loader used for comment and rating includes.
func (service *Service) SetDetailLoader(loader DetailLoader) {
	service.details = loader
}

// SetRatingSource wires the scores reconcile derives rating summaries from.
// Without one, reconcile repairs only the chapter aggregate.
func (service *Service) SetRatingSource(source RatingSource) {
	service.ratings = source
}

// # Aggregate Maintenance

/*
withMangaLocked runs a chapter mutation and the manga recompute as one unit.

Description: Opens a transaction, locks the manga row, runs mutate, then
re-derives every chapter-derived field from a fresh scan of the chapters.
Concurrent writers to the same manga queue on the row lock, so no recompute
can act on a stale read. The cache is evicted only after commit.

Parameters:
  - context: context.Context
  - mangaID: string (UUID)
  - mutate: func (Child write; receives the transaction context and the locked manga)

Returns:
  - *Manga: The manga with its derived fields refreshed
  - error: NotFound if the manga is missing, or any mutate failure
*/
func (service *Service) withMangaLocked(ctx context.Context, mangaID string, mutate func(context context.Context, manga *Manga) error) (*Manga, error) {
	var result *Manga

	err := service.transactor.WithinTx(ctx, func(txContext context.Context) error {
		manga, err := service.mangaRepo.LockByID(txContext, mangaID)
		if err != nil {
			return err
		}

		if err := mutate(txContext, manga); err != nil {
			return err
		}

		if err := service.recompute(txContext, manga); err != nil {
			return err
		}

		result = manga
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.cache.InvalidateManga(ctx, mangaID)
	return result, nil
}

// recompute re-derives the chapter aggregate and writes it to the manga row.
func (service *Service) recompute(context context.Context, manga *Manga) error {
	summaries, err := service.chapterRepo.ListSummaries(context, manga.ID)
	if err != nil {
		service.metrics.RecordRecompute("chapters", err)
		return err
	}

	aggregate := DeriveAggregate(summaries)

	err = service.mangaRepo.ApplyAggregate(context, manga.ID, aggregate)
	service.metrics.RecordRecompute("chapters", err)
	if err != nil {
		return err
	}

	manga.applyAggregate(aggregate)

	service.logger.Debug("manga_aggregate_recomputed",
		slog.String("manga_id", manga.ID),
		slog.Int("chapter_count", aggregate.ChapterCount),
		slog.Any("languages", aggregate.Languages),
	)

	return nil
}

/*
ReconcileManga re-derives one manga's chapter aggregate and rating summary
without changing any chapter or rating.

Description: This is the repair path for aggregates left stale by a failure
outside a transaction (a manual SQL edit, a restored backup). Both are
re-derived under the same manga row lock.
*/
func (service *Service) ReconcileManga(ctx context.Context, mangaID string) (*Manga, error) {
	return service.withMangaLocked(ctx, mangaID, service.reconcileRatings)
}

// reconcileRatings rewrites the rating summary from a fresh read of the scores.
func (service *Service) reconcileRatings(context context.Context, manga *Manga) error {
	if service.ratings == nil {
		return nil
	}

	scores, err := service.ratings.ScoresForManga(context, manga.ID)
	if err != nil {
		service.metrics.RecordRecompute("ratings", err)
		return err
	}

	summary := DeriveRatingSummary(scores)
	if err := service.ApplyRatingSummary(context, manga.ID, summary); err != nil {
		return err
	}

	manga.AverageRating = summary.Average
	manga.RatingCount = summary.Count
	return nil
}

/*
ReconcileAll runs [Service.ReconcileManga] for every manga.

Returns:
  - int: Number of manga reconciled
  - error: The first failure; earlier manga stay reconciled
*/
func (service *Service) ReconcileAll(context context.Context) (int, error) {
	ids, err := service.mangaRepo.ListIDs(context)
	if err != nil {
		return 0, err
	}

	for index, id := range ids {
		if err := context.Err(); err != nil {
			return index, err
		}
		if _, err := service.ReconcileManga(context, id); err != nil {
			return index, err
		}
	}

	service.logger.Info("catalog_reconciled", slog.Int("manga_count", len(ids)))
	return len(ids), nil
}

// notifyCreated fans a chapter creation out to listeners, logging failures.
func (service *Service) notifyCreated(context context.Context, manga *Manga, chapter *Chapter) {
	for _, listener := range service.listeners {
		if err := listener.ChapterCreated(context, manga, chapter); err != nil {
			service.logger.Warn("chapter_created_listener_failed",
				slog.String("chapter_id", chapter.ID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// notifyDeleted fans a chapter deletion out to listeners, logging failures.
func (service *Service) notifyDeleted(context context.Context, mangaID, chapterID string) {
	for _, listener := range service.listeners {
		if err := listener.ChapterDeleted(context, mangaID, chapterID); err != nil {
			service.logger.Warn("chapter_deleted_listener_failed",
				slog.String("chapter_id", chapterID),
				slog.String("error", err.Error()),
			)
		}
	}
}
