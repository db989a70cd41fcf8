// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"time"

	"github.com/taibuivan/mangaverse/internal/platform/apperr"
)

// Parity marks whether a variant's first page is a left or right spread page.
type Parity string

const (
	ParityEven Parity = "even"
	ParityOdd  Parity = "odd"
)

// IsValid reports whether p is a recognised [Parity] value.
func (p Parity) IsValid() bool {
	return p == ParityEven || p == ParityOdd
}

// LanguageVariant is one localised rendition of a chapter.
type LanguageVariant struct {
	Lang        string   `json:"lang"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Pages       []string `json:"pages"`
	Parity      Parity   `json:"parity,omitempty"`
}

// Chapter is a numbered unit of content under a manga.
type Chapter struct {
	ID             string            `json:"id"`
	MangaID        string            `json:"manga_id"`
	Number         float64           `json:"number"`
	Volume         *int              `json:"volume,omitempty"`
	ReleaseDate    *time.Time        `json:"release_date,omitempty"`
	ReadCount      int64             `json:"read_count"`
	CoverImage     string            `json:"cover_image,omitempty"`
	BackCoverImage string            `json:"back_cover_image,omitempty"`
	Languages      []LanguageVariant `json:"languages"`
	CommentIDs     []string          `json:"comment_ids"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// LanguageCodes returns the language codes carried by the chapter, in variant order.
func (c *Chapter) LanguageCodes() []string {
	codes := make([]string, 0, len(c.Languages))
	for _, variant := range c.Languages {
		codes = append(codes, variant.Lang)
	}
	return codes
}

// HasLanguage reports whether the chapter carries a variant for lang.
func (c *Chapter) HasLanguage(lang string) bool {
	for _, variant := range c.Languages {
		if variant.Lang == lang {
			return true
		}
	}
	return false
}

// AddVariant appends a variant. A chapter carries at most one variant per language.
func (c *Chapter) AddVariant(variant LanguageVariant) error {
	if c.HasLanguage(variant.Lang) {
		return apperr.Conflict("Chapter already has a '" + variant.Lang + "' variant")
	}
	c.Languages = append(c.Languages, variant)
	return nil
}

// RemoveVariant drops the variant for lang, or fails with NotFound when absent.
func (c *Chapter) RemoveVariant(lang string) error {
	for index, variant := range c.Languages {
		if variant.Lang == lang {
			c.Languages = append(c.Languages[:index:index], c.Languages[index+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Language variant")
}

// ChapterSummary is the slice of a chapter needed to derive the manga aggregate.
type ChapterSummary struct {
	ID        string
	Number    float64
	CreatedAt time.Time
	Languages []string
}

// Summary projects the chapter onto a [ChapterSummary].
func (c *Chapter) Summary() ChapterSummary {
	return ChapterSummary{
		ID:        c.ID,
		Number:    c.Number,
		CreatedAt: c.CreatedAt,
		Languages: c.LanguageCodes(),
	}
}

// ChapterPatch carries the optional fields of a chapter update.
type ChapterPatch struct {
	Number         *float64
	Volume         *int
	ReleaseDate    *time.Time
	CoverImage     *string
	BackCoverImage *string
	Languages      *[]LanguageVariant
}

// apply writes the set fields of the patch onto chapter.
func (p ChapterPatch) apply(chapter *Chapter) {
	if p.Number != nil {
		chapter.Number = *p.Number
	}
	if p.Volume != nil {
		chapter.Volume = p.Volume
	}
	if p.ReleaseDate != nil {
		chapter.ReleaseDate = p.ReleaseDate
	}
	if p.CoverImage != nil {
		chapter.CoverImage = *p.CoverImage
	}
	if p.BackCoverImage != nil {
		chapter.BackCoverImage = *p.BackCoverImage
	}
	if p.Languages != nil {
		chapter.Languages = *p.Languages
	}
}

// ChapterFeedItem is a chapter listed in a cross-manga feed.
type ChapterFeedItem struct {
	ChapterID  string    `json:"chapter_id"`
	Number     float64   `json:"number"`
	ReadCount  int64     `json:"read_count"`
	CreatedAt  time.Time `json:"created_at"`
	MangaID    string    `json:"manga_id"`
	MangaTitle string    `json:"manga_title"`
	MangaSlug  string    `json:"manga_slug"`
	CoverImage string    `json:"cover_image"`
}
