// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangaverse/internal/core/catalog"
)

/*
TestDeriveAggregate checks the chapter-derived manga fields.
*/
func TestDeriveAggregate(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		chapters  []catalog.ChapterSummary
		count     int
		latestID  string
		languages []string
		earliest  time.Time
	}{
		{
			name:      "no_chapters",
			chapters:  nil,
			count:     0,
			languages: []string{},
		},
		{
			name: "latest_is_highest_number_not_newest",
			chapters: []catalog.ChapterSummary{
				{ID: "c5", Number: 5, CreatedAt: base, Languages: []string{"en"}},
				{ID: "c2", Number: 2, CreatedAt: base.Add(time.Hour), Languages: []string{"en"}},
			},
			count:     2,
			latestID:  "c5",
			languages: []string{"en"},
			earliest:  base,
		},
		{
			name: "languages_are_sorted_union",
			chapters: []catalog.ChapterSummary{
				{ID: "c1", Number: 1, CreatedAt: base.Add(time.Hour), Languages: []string{"fr", "en"}},
				{ID: "c2", Number: 2, CreatedAt: base, Languages: []string{"en", "es"}},
			},
			count:     2,
			latestID:  "c2",
			languages: []string{"en", "es", "fr"},
			earliest:  base,
		},
		{
			name: "fractional_numbers",
			chapters: []catalog.ChapterSummary{
				{ID: "c10", Number: 10, CreatedAt: base},
				{ID: "c10.5", Number: 10.5, CreatedAt: base},
			},
			count:     2,
			latestID:  "c10.5",
			languages: []string{},
			earliest:  base,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aggregate := catalog.DeriveAggregate(tt.chapters)

			assert.Equal(t, tt.count, aggregate.ChapterCount)
			assert.Equal(t, tt.languages, aggregate.Languages)

			if tt.latestID == "" {
				assert.Nil(t, aggregate.LatestChapterID)
				assert.Nil(t, aggregate.LastChapterUpdated)
				assert.Nil(t, aggregate.FirstChapterPublished)
				return
			}

			require.NotNil(t, aggregate.LatestChapterID)
			assert.Equal(t, tt.latestID, *aggregate.LatestChapterID)
			require.NotNil(t, aggregate.FirstChapterPublished)
			assert.Equal(t, tt.earliest, *aggregate.FirstChapterPublished)
		})
	}
}

/*
TestDeriveRatingSummary checks the rating mean.
*/
func TestDeriveRatingSummary(t *testing.T) {
	tests := []struct {
		name    string
		scores  []int
		average float64
		count   int
	}{
		{"no_ratings", nil, 0, 0},
		{"single", []int{7}, 7, 1},
		{"mean_of_two", []int{8, 4}, 6, 2},
		{"non_integer_mean", []int{10, 9, 9}, 28.0 / 3.0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := catalog.DeriveRatingSummary(tt.scores)
			assert.InDelta(t, tt.average, summary.Average, 1e-9)
			assert.Equal(t, tt.count, summary.Count)
		})
	}
}

/*
TestChapter_Variants covers adding and removing language variants on a chapter.
*/
func TestChapter_Variants(t *testing.T) {
	chapter := &catalog.Chapter{Languages: []catalog.LanguageVariant{{Lang: "en"}}}

	require.NoError(t, chapter.AddVariant(catalog.LanguageVariant{Lang: "es"}))
	assert.Equal(t, []string{"en", "es"}, chapter.LanguageCodes())

	err := chapter.AddVariant(catalog.LanguageVariant{Lang: "en"})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", errorCode(err))

	require.NoError(t, chapter.RemoveVariant("en"))
	assert.Equal(t, []string{"es"}, chapter.LanguageCodes())

	err = chapter.RemoveVariant("en")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", errorCode(err))
	assert.Equal(t, []string{"es"}, chapter.LanguageCodes())
}
