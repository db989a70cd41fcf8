// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"strconv"
	"time"

	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/platform/constants"
)

// # Discovery Feeds

// PopularManga returns the most popular published manga.
func (service *Service) PopularManga(context context.Context) ([]*Manga, error) {
	return service.feed(context, FeedQuery{Kind: FeedPopular, Limit: constants.PopularFeedSize})
}

// LatestUpdates returns published manga ordered by their latest chapter.
func (service *Service) LatestUpdates(context context.Context) ([]*Manga, error) {
	return service.feed(context, FeedQuery{Kind: FeedLatest, Limit: constants.LatestUpdatesFeedSize})
}

// NewReleases returns manga published within the release window.
func (service *Service) NewReleases(context context.Context) ([]*Manga, error) {
	since := time.Now().UTC().Add(-constants.NewReleaseWindow)
	return service.feed(context, FeedQuery{Kind: FeedNew, Since: since, Limit: constants.NewReleasesFeedSize})
}

func (service *Service) feed(context context.Context, query FeedQuery) ([]*Manga, error) {
	key := "manga:" + string(query.Kind) + ":" + strconv.Itoa(query.Limit)

	var cached []*Manga
	if service.cache.GetFeed(context, key, &cached) {
		service.metrics.RecordCacheLookup(true)
		return cached, nil
	}
	service.metrics.RecordCacheLookup(false)

	mangas, err := service.mangaRepo.ListFeed(context, query)
	if err != nil {
		return nil, err
	}

	service.cache.SetFeed(context, key, mangas)
	return mangas, nil
}

// Genres returns every genre in use on published manga with its manga count.
func (service *Service) Genres(context context.Context) ([]GenreCount, error) {
	var cached []GenreCount
	if service.cache.GetFeed(context, "genres", &cached) {
		service.metrics.RecordCacheLookup(true)
		return cached, nil
	}
	service.metrics.RecordCacheLookup(false)

	genres, err := service.mangaRepo.ListGenres(context)
	if err != nil {
		return nil, err
	}

	service.cache.SetFeed(context, "genres", genres)
	return genres, nil
}

// Statistics summarises the catalogue for administrators.
func (service *Service) Statistics(context context.Context) (*Statistics, error) {
	return service.mangaRepo.Statistics(context)
}

// MostReadChapters returns the most read chapters of published manga.
func (service *Service) MostReadChapters(context context.Context) ([]*ChapterFeedItem, error) {
	return service.chapterRepo.ListMostRead(context, constants.MostReadChaptersSize)
}

// RecentChapters returns the newest chapters of published manga.
func (service *Service) RecentChapters(context context.Context) ([]*ChapterFeedItem, error) {
	return service.chapterRepo.ListRecent(context, constants.RecentChaptersSize)
}

// # Engagement Collaboration

// LockManga reads and row-locks a manga inside the caller's transaction.
func (service *Service) LockManga(context context.Context, id string) (*Manga, error) {
	return service.mangaRepo.LockByID(context, id)
}

// ApplyRatingSummary writes the rating-derived fields inside the caller's transaction.
func (service *Service) ApplyRatingSummary(context context.Context, id string, summary RatingSummary) error {
	err := service.mangaRepo.ApplyRatingSummary(context, id, summary)
	service.metrics.RecordRecompute("ratings", err)
	return err
}

// Invalidate evicts a manga and the feeds from the read cache.
func (service *Service) Invalidate(context context.Context, id string) {
	service.cache.InvalidateManga(context, id)
}

// MangasByIDs loads the manga among ids that still exist.
func (service *Service) MangasByIDs(context context.Context, ids []string) ([]*Manga, error) {
	return service.mangaRepo.FindByIDs(context, ids)
}

// PublishedByGenres returns popular published manga sharing any genre, minus exclude.
func (service *Service) PublishedByGenres(context context.Context, genres, exclude []string, limit int) ([]*Manga, error) {
	if len(genres) == 0 {
		return []*Manga{}, nil
	}
	return service.mangaRepo.FindPublishedByGenres(context, genres, exclude, limit)
}

// FindChapter loads a chapter by ID without visibility checks.
func (service *Service) FindChapter(context context.Context, id string) (*Chapter, error) {
	return service.chapterRepo.FindByID(context, id)
}

/*
NextChapter returns the chapter after chapterID in reading order, or nil when
chapterID is the last one.
*/
func (service *Service) NextChapter(context context.Context, mangaID, chapterID string) (*Chapter, error) {
	current, err := service.chapterRepo.FindByID(context, chapterID)
	if err != nil {
		return nil, err
	}

	next, err := service.chapterRepo.FindNext(context, mangaID, current.Number)
	if apperr.IsNotFound(err) {
		return nil, nil
	}

	return next, err
}

// FirstChapter returns the lowest-numbered chapter of a manga, or nil when it has none.
func (service *Service) FirstChapter(context context.Context, mangaID string) (*Chapter, error) {
	first, err := service.chapterRepo.FindNext(context, mangaID, -1)
	if apperr.IsNotFound(err) {
		return nil, nil
	}
	return first, err
}

/*
AttachComment records a comment in its target's comment list.

Parameters:
  - mangaID: string (Set for a manga comment)
  - chapterID: string (Set for a chapter comment; takes precedence)
  - commentID: string
*/
func (service *Service) AttachComment(context context.Context, mangaID, chapterID, commentID string) error {
	if chapterID != "" {
		return service.chapterRepo.AppendComment(context, chapterID, commentID)
	}
	return service.mangaRepo.AppendComment(context, mangaID, commentID)
}

// DetachComment removes a comment from its target's comment list.
func (service *Service) DetachComment(context context.Context, mangaID, chapterID, commentID string) error {
	if chapterID != "" {
		return service.chapterRepo.RemoveComment(context, chapterID, commentID)
	}
	return service.mangaRepo.RemoveComment(context, mangaID, commentID)
}
