// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog owns the Manga aggregate and its Chapters.

A Manga caches several fields derived from its chapters (chapter count, latest
chapter, language set) and from its ratings (average rating). Every mutation
that can change a source of those fields goes through [Service], which re-derives
the cached values from a fresh read of the children inside the same
transaction as the write.

Core Responsibility:

  - Catalogue: Manga metadata, publication workflow, related series.
  - Chapters: Numbered chapters with embedded per-language page sequences.
  - Discovery: Filtering, search, feeds and statistics over published manga.
*/
package catalog

import "time"

// # Domain Enums

// Demographic is the target readership of a manga.
type Demographic string

const (
	DemographicShounen Demographic = "shounen"
	DemographicShoujo  Demographic = "shoujo"
	DemographicSeinen  Demographic = "seinen"
	DemographicJosei   Demographic = "josei"
)

// IsValid reports whether d is a recognised [Demographic] value.
func (d Demographic) IsValid() bool {
	switch d {
	case DemographicShounen, DemographicShoujo, DemographicSeinen, DemographicJosei:
		return true
	}
	return false
}

// Status represents the serialisation status of a manga.
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusHiatus    Status = "hiatus"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOngoing, StatusCompleted, StatusCancelled, StatusHiatus:
		return true
	}
	return false
}

// PublicationState is the editorial workflow state of a manga.
type PublicationState string

const (
	StateDraft     PublicationState = "draft"
	StateSubmitted PublicationState = "submitted"
	StatePublished PublicationState = "published"
	StateRejected  PublicationState = "rejected"
)

// IsValid reports whether p is a recognised [PublicationState] value.
func (p PublicationState) IsValid() bool {
	switch p {
	case StateDraft, StateSubmitted, StatePublished, StateRejected:
		return true
	}
	return false
}

// ContentRating classifies the audience suitability of a manga.
type ContentRating string

const (
	ContentRatingSafe         ContentRating = "safe"
	ContentRatingSuggestive   ContentRating = "suggestive"
	ContentRatingErotica      ContentRating = "erotica"
	ContentRatingPornographic ContentRating = "pornographic"
)

// IsValid reports whether c is a recognised [ContentRating] value.
func (c ContentRating) IsValid() bool {
	switch c {
	case ContentRatingSafe, ContentRatingSuggestive, ContentRatingErotica, ContentRatingPornographic:
		return true
	}
	return false
}

// TagType groups tags into genres, themes and formats.
type TagType string

const (
	TagGenre  TagType = "genre"
	TagTheme  TagType = "theme"
	TagFormat TagType = "format"
)

// IsValid reports whether t is a recognised [TagType] value.
func (t TagType) IsValid() bool {
	switch t {
	case TagGenre, TagTheme, TagFormat:
		return true
	}
	return false
}

// RelationshipType describes how two manga relate.
type RelationshipType string

const (
	RelationPrequel          RelationshipType = "prequel"
	RelationSequel           RelationshipType = "sequel"
	RelationSideStory        RelationshipType = "side_story"
	RelationSpinOff          RelationshipType = "spin_off"
	RelationAlternateVersion RelationshipType = "alternate_version"
	RelationSharedUniverse   RelationshipType = "shared_universe"
)

// IsValid reports whether r is a recognised [RelationshipType] value.
func (r RelationshipType) IsValid() bool {
	switch r {
	case RelationPrequel, RelationSequel, RelationSideStory, RelationSpinOff,
		RelationAlternateVersion, RelationSharedUniverse:
		return true
	}
	return false
}

// # Domain Entities

// Tag is a typed label attached to a manga.
type Tag struct {
	Type  TagType `json:"type"`
	Value string  `json:"value"`
}

// Manga is the catalog aggregate root.
//
// ChapterCount, LatestChapterID, LastChapterUpdated, Languages, AverageRating
// and RatingCount are derived. They are written only by the recompute paths.
type Manga struct {
	ID               string           `json:"id"`
	Slug             string           `json:"slug"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Author           string           `json:"author"`
	Tags             []Tag            `json:"tags"`
	Demographic      Demographic      `json:"demographic"`
	Status           Status           `json:"status"`
	PublicationState PublicationState `json:"publication_state"`
	ContentRating    ContentRating    `json:"content_rating"`
	CoverImage       string           `json:"cover_image"`
	BannerImage      string           `json:"banner_image,omitempty"`
	PublishedAt      *time.Time       `json:"published_at,omitempty"`
	FinishedAt       *time.Time       `json:"finished_at,omitempty"`

	// Derived from chapters
	ChapterCount          int        `json:"chapter_count"`
	LatestChapterID       *string    `json:"latest_chapter_id"`
	LastChapterUpdated    *time.Time `json:"last_chapter_updated"`
	FirstChapterPublished *time.Time `json:"first_chapter_published,omitempty"`
	Languages             []string   `json:"languages"`

	// Derived from ratings
	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`

	Reads           int64    `json:"reads"`
	PopularityScore float64  `json:"popularity_score"`
	CommentIDs      []string `json:"comment_ids"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPublished reports whether the manga is visible to readers.
func (m *Manga) IsPublished() bool {
	return m.PublicationState == StatePublished
}

// Genres returns the values of the manga's genre tags.
func (m *Manga) Genres() []string {
	genres := make([]string, 0, len(m.Tags))
	for _, tag := range m.Tags {
		if tag.Type == TagGenre {
			genres = append(genres, tag.Value)
		}
	}
	return genres
}

// applyAggregate copies re-derived chapter fields onto the in-memory manga.
func (m *Manga) applyAggregate(aggregate Aggregate) {
	m.ChapterCount = aggregate.ChapterCount
	m.LatestChapterID = aggregate.LatestChapterID
	m.LastChapterUpdated = aggregate.LastChapterUpdated
	m.Languages = aggregate.Languages
	if m.FirstChapterPublished == nil {
		m.FirstChapterPublished = aggregate.FirstChapterPublished
	}
}

// Relation links a manga to another one.
type Relation struct {
	MangaID string           `json:"manga_id"`
	Type    RelationshipType `json:"relationship_type"`
}

// RelatedManga is a relation resolved to a summary of the target manga.
type RelatedManga struct {
	MangaID          string           `json:"manga_id"`
	RelationshipType RelationshipType `json:"relationship_type"`
	Title            string           `json:"title"`
	Slug             string           `json:"slug"`
	CoverImage       string           `json:"cover_image"`
}

// MangaDetail is a manga with the optional eager-loaded documents.
type MangaDetail struct {
	*Manga
	Chapters []*Chapter      `json:"chapters,omitempty"`
	Related  []*RelatedManga `json:"related_manga,omitempty"`
	Comments any             `json:"comments,omitempty"`
	Ratings  any             `json:"ratings,omitempty"`
}

// Include selects which related documents GetManga loads.
type Include struct {
	Chapters bool
	Comments bool
	Ratings  bool
	Related  bool
}

// Filter holds the criteria for manga discovery.
type Filter struct {
	Genres        []string
	Demographic   []Demographic
	Status        []Status
	ContentRating []ContentRating
	States        []PublicationState
	Query         string
}

// GenreCount is the number of manga carrying a genre.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// Statistics summarises the catalogue for administrators.
type Statistics struct {
	MangaByState  map[PublicationState]int `json:"manga_by_state"`
	TotalManga    int                      `json:"total_manga"`
	TotalChapters int                      `json:"total_chapters"`
	TotalReads    int64                    `json:"total_reads"`
	AverageRating float64                  `json:"average_rating"`
}

// # Field Identifiers

const (
	FieldTitle            = "title"
	FieldAuthor           = "author"
	FieldDescription      = "description"
	FieldDemographic      = "demographic"
	FieldStatus           = "status"
	FieldPublicationState = "publication_state"
	FieldContentRating    = "content_rating"
	FieldCoverImage       = "cover_image"
	FieldBannerImage      = "banner_image"
	FieldTags             = "tags"
	FieldRelatedManga     = "related_manga"
	FieldNumber           = "number"
	FieldVolume           = "volume"
	FieldLanguages        = "languages"
	FieldLang             = "lang"
	FieldPages            = "pages"
	FieldParity           = "parity"
)
