// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mangaverse/internal/core/catalog"
	"github.com/taibuivan/mangaverse/internal/core/engagement"
)

/*
TestComment_ToggleReaction verifies likes and dislikes stay mutually exclusive.
*/
func TestComment_ToggleReaction(t *testing.T) {
	tests := []struct {
		name         string
		likes        []string
		dislikes     []string
		reaction     engagement.ReactionType
		wantLikes    []string
		wantDislikes []string
	}{
		{
			name:         "Like from neutral",
			likes:        []string{},
			dislikes:     []string{},
			reaction:     engagement.ReactionLike,
			wantLikes:    []string{"u1"},
			wantDislikes: []string{},
		},
		{
			name:         "Like again removes it",
			likes:        []string{"u1", "u2"},
			dislikes:     []string{},
			reaction:     engagement.ReactionLike,
			wantLikes:    []string{"u2"},
			wantDislikes: []string{},
		},
		{
			name:         "Dislike moves the user across",
			likes:        []string{"u1"},
			dislikes:     []string{"u3"},
			reaction:     engagement.ReactionDislike,
			wantLikes:    []string{},
			wantDislikes: []string{"u3", "u1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comment := &engagement.Comment{Likes: tt.likes, Dislikes: tt.dislikes}

			comment.ToggleReaction("u1", tt.reaction)

			assert.Equal(t, tt.wantLikes, comment.Likes)
			assert.Equal(t, tt.wantDislikes, comment.Dislikes)
		})
	}
}

/*
TestReadingProgress_ToggleChapter verifies the asymmetric pointer policy.
Marking read moves the pointer; marking unread leaves it alone.
*/
func TestReadingProgress_ToggleChapter(t *testing.T) {
	earlier := "c1"
	progress := &engagement.ReadingProgress{
		LastReadChapterID: &earlier,
		ChaptersRead:      []string{"c1"},
	}

	assert.True(t, progress.ToggleChapter("c2"))
	assert.Equal(t, []string{"c1", "c2"}, progress.ChaptersRead)
	assert.Equal(t, "c2", *progress.LastReadChapterID)

	assert.False(t, progress.ToggleChapter("c2"))
	assert.Equal(t, []string{"c1"}, progress.ChaptersRead)
	assert.Equal(t, "c2", *progress.LastReadChapterID, "Unread must not move the pointer")
}

/*
TestReadingProgress_Record verifies repeated records are idempotent.
*/
func TestReadingProgress_Record(t *testing.T) {
	progress := &engagement.ReadingProgress{ChaptersRead: []string{}}

	progress.Record("c1", 4, engagement.StatusReading)
	progress.Record("c1", 4, engagement.StatusReading)

	assert.Equal(t, []string{"c1"}, progress.ChaptersRead)
	assert.Equal(t, "c1", *progress.LastReadChapterID)
	assert.Equal(t, 4, progress.LastReadPage)
	assert.Equal(t, engagement.StatusReading, progress.Status)
}

/*
TestTopGenres verifies frequency ordering with alphabetical tie breaks.
*/
func TestTopGenres(t *testing.T) {
	withGenres := func(genres ...string) *catalog.Manga {
		manga := &catalog.Manga{}
		for _, genre := range genres {
			manga.Tags = append(manga.Tags, catalog.Tag{Type: catalog.TagGenre, Value: genre})
		}
		manga.Tags = append(manga.Tags, catalog.Tag{Type: catalog.TagTheme, Value: "school"})
		return manga
	}

	mangas := []*catalog.Manga{
		withGenres("action", "drama"),
		withGenres("action", "comedy"),
		withGenres("romance", "drama"),
		withGenres("action", "horror"),
	}

	assert.Equal(t, []string{"action", "drama", "comedy"}, engagement.TopGenres(mangas, 3))
	assert.Empty(t, engagement.TopGenres(nil, 3))
}
