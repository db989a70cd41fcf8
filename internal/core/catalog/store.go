// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"time"
)

// # Manga Data Access

// FeedKind selects one of the discovery feeds.
type FeedKind string

const (
	FeedPopular FeedKind = "popular"
	FeedLatest  FeedKind = "latest"
	FeedNew     FeedKind = "new"
)

// FeedQuery parameterises [MangaRepository.ListFeed].
type FeedQuery struct {
	Kind  FeedKind
	Since time.Time
	Limit int
}

// MangaRepository defines the data access contract for the manga aggregate root.
//
// Every method reads and writes through the transaction bound to the context,
// when there is one.
type MangaRepository interface {

	/*
		List returns a page of manga matching the filter, ordered by popularity.

		Returns:
		  - []*Manga: The page
		  - int: Total matches across all pages, or zero when the page is empty
		  - error: Storage failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Manga, int, error)

	// Count returns the number of manga matching the filter.
	Count(context context.Context, filter Filter) (int, error)

	// FindByID returns the manga with the given ID, or NotFound.
	FindByID(context context.Context, id string) (*Manga, error)

	// FindBySlug returns the manga with the given slug, or NotFound.
	FindBySlug(context context.Context, slug string) (*Manga, error)

	// FindByIDs returns the manga among ids that exist. Order is unspecified.
	FindByIDs(context context.Context, ids []string) ([]*Manga, error)

	/*
		LockByID reads the manga and holds a row lock until the surrounding
		transaction ends.

		Description: Concurrent writers to the same manga's chapters or ratings
		serialise on this lock, so every recompute sees the committed result of
		the previous one.

		Returns:
		  - *Manga: The locked row
		  - error: NotFound if missing
	*/
	LockByID(context context.Context, id string) (*Manga, error)

	// Create persists a new manga. Derived fields start at their zero values.
	Create(context context.Context, manga *Manga) error

	// Update persists the editable metadata of a manga. Derived fields are untouched.
	Update(context context.Context, manga *Manga) error

	// Delete removes the manga. Dependent rows are removed by the schema's cascades.
	Delete(context context.Context, id string) error

	/*
		ApplyAggregate overwrites the chapter-derived fields.

		Description: FirstChapterPublished is written only when the stored value
		is NULL.

		Parameters:
		  - id: string (Manga UUID)
		  - aggregate: Aggregate (Derived from a fresh chapter scan)
	*/
	ApplyAggregate(context context.Context, id string, aggregate Aggregate) error

	// ApplyRatingSummary overwrites averageRating and ratingCount.
	ApplyRatingSummary(context context.Context, id string, summary RatingSummary) error

	// IncrementReads atomically bumps the read counter and popularity score.
	IncrementReads(context context.Context, id string) error

	// AppendComment adds a comment reference to the manga's comment list.
	AppendComment(context context.Context, id, commentID string) error

	// RemoveComment drops a comment reference from the manga's comment list.
	RemoveComment(context context.Context, id, commentID string) error

	// ListRelations returns the related manga resolved to summaries.
	ListRelations(context context.Context, id string) ([]*RelatedManga, error)

	// ReplaceRelations swaps the full set of outgoing relations.
	ReplaceRelations(context context.Context, id string, relations []Relation) error

	// ListFeed returns published manga for one discovery feed.
	ListFeed(context context.Context, query FeedQuery) ([]*Manga, error)

	/*
		FindPublishedByGenres returns published manga carrying any of genres.

		Parameters:
		  - genres: []string (Genre tag values)
		  - exclude: []string (Manga UUIDs to leave out)
		  - limit: int

		Returns:
		  - []*Manga: Ordered by popularity score descending
	*/
	FindPublishedByGenres(context context.Context, genres, exclude []string, limit int) ([]*Manga, error)

	// ListGenres returns every genre on published manga with its manga count.
	ListGenres(context context.Context) ([]GenreCount, error)

	// Statistics summarises the whole catalogue.
	Statistics(context context.Context) (*Statistics, error)

	// ListIDs returns the ID of every manga.
	ListIDs(context context.Context) ([]string, error)
}

// # Chapter Data Access

// ChapterRepository defines the data access contract for chapters.
type ChapterRepository interface {

	// ListByManga returns every chapter of a manga ordered by number ascending.
	ListByManga(context context.Context, mangaID string) ([]*Chapter, error)

	/*
		ListSummaries returns the number, creation time and language codes of
		every chapter of a manga.

		Description: This is the authoritative input to [DeriveAggregate].
	*/
	ListSummaries(context context.Context, mangaID string) ([]ChapterSummary, error)

	// FindByID returns the chapter with the given ID, or NotFound.
	FindByID(context context.Context, id string) (*Chapter, error)

	// FindNext returns the chapter following number in the manga, or NotFound.
	FindNext(context context.Context, mangaID string, number float64) (*Chapter, error)

	// Create persists a new chapter. A duplicate (manga, number) pair is a Conflict.
	Create(context context.Context, chapter *Chapter) error

	// Update persists the full chapter document. A duplicate number is a Conflict.
	Update(context context.Context, chapter *Chapter) error

	// Delete removes the chapter, or fails with NotFound.
	Delete(context context.Context, id string) error

	// IncrementReadCount atomically bumps the chapter's read counter.
	IncrementReadCount(context context.Context, id string) error

	// AppendComment adds a comment reference to the chapter's comment list.
	AppendComment(context context.Context, id, commentID string) error

	// RemoveComment drops a comment reference from the chapter's comment list.
	RemoveComment(context context.Context, id, commentID string) error

	// ListMostRead returns chapters of published manga by read count descending.
	ListMostRead(context context.Context, limit int) ([]*ChapterFeedItem, error)

	// ListRecent returns chapters of published manga by creation time descending.
	ListRecent(context context.Context, limit int) ([]*ChapterFeedItem, error)
}
