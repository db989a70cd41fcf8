// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangaverse/internal/core/catalog"
	"github.com/taibuivan/mangaverse/internal/core/engagement"
	"github.com/taibuivan/mangaverse/internal/platform/sec"
	"github.com/taibuivan/mangaverse/pkg/pagination"
)

// # Ratings

/*
TestService_RateManga verifies the upsert contract and the derived average.
*/
func TestService_RateManga(t *testing.T) {
	ctx := context.Background()

	t.Run("Second rating overwrites the first", func(t *testing.T) {
		f := newFixture()
		manga := f.manga("berserk", true, 0)

		first, err := f.service.RateManga(ctx, reader("u1"), manga.ID, engagement.RatingInput{Score: 7})
		require.NoError(t, err)

		second, err := f.service.RateManga(ctx, reader("u1"), manga.ID, engagement.RatingInput{Score: 3, Review: "fell off"})
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		ratings, err := f.service.ListRatings(ctx, reader("u2"), manga.ID)
		require.NoError(t, err)
		require.Len(t, ratings, 1)
		assert.Equal(t, 3, ratings[0].Score)

		stored := f.storedManga(manga.ID)
		assert.Equal(t, 3.0, stored.AverageRating)
		assert.Equal(t, 1, stored.RatingCount)
		assert.Contains(t, f.invalidated, manga.ID)
	})

	t.Run("Average follows every reader", func(t *testing.T) {
		f := newFixture()
		manga := f.manga("vagabond", true, 0)

		_, err := f.service.RateManga(ctx, reader("u1"), manga.ID, engagement.RatingInput{Score: 8})
		require.NoError(t, err)
		_, err = f.service.RateManga(ctx, reader("u2"), manga.ID, engagement.RatingInput{Score: 4})
		require.NoError(t, err)

		stored := f.storedManga(manga.ID)
		assert.Equal(t, 6.0, stored.AverageRating)
		assert.Equal(t, 2, stored.RatingCount)

		require.NoError(t, f.service.DeleteRating(ctx, reader("u2"), manga.ID))

		stored = f.storedManga(manga.ID)
		assert.Equal(t, 8.0, stored.AverageRating)
		assert.Equal(t, 1, stored.RatingCount)
	})

	t.Run("Concurrent ratings keep the average exact", func(t *testing.T) {
		f := newFixture()
		manga := f.manga("monster", true, 0)

		var wg sync.WaitGroup
		for index := 1; index <= 10; index++ {
			wg.Add(1)
			go func(score int) {
				defer wg.Done()
				_, err := f.service.RateManga(ctx, reader(string(rune('a'+score))), manga.ID, engagement.RatingInput{Score: score})
				assert.NoError(t, err)
			}(index)
		}
		wg.Wait()

		stored := f.storedManga(manga.ID)
		assert.Equal(t, 10, stored.RatingCount)
		assert.Equal(t, 5.5, stored.AverageRating)
	})
}

/*
TestService_RateManga_Rejects verifies failure paths leave the manga untouched.
*/
func TestService_RateManga_Rejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	published := f.manga("pluto", true, 0)
	draft := f.manga("draft", false, 0)

	tests := []struct {
		name     string
		caller   sec.Caller
		mangaID  string
		score    int
		wantCode string
	}{
		{"Score below range", reader("u1"), published.ID, 0, "VALIDATION_ERROR"},
		{"Score above range", reader("u1"), published.ID, 11, "VALIDATION_ERROR"},
		{"Anonymous caller", sec.Caller{}, published.ID, 5, "UNAUTHORIZED"},
		{"Unknown manga", reader("u1"), "missing", 5, "NOT_FOUND"},
		{"Unpublished manga", reader("u1"), draft.ID, 5, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.RateManga(ctx, tt.caller, tt.mangaID, engagement.RatingInput{Score: tt.score})
			assert.Equal(t, tt.wantCode, errorCode(err))
		})
	}

	assert.Zero(t, f.storedManga(published.ID).RatingCount)
	assert.Zero(t, f.storedManga(published.ID).AverageRating)

	_, err := f.service.RateManga(ctx, admin("a1"), draft.ID, engagement.RatingInput{Score: 9})
	assert.NoError(t, err, "Administrators may rate unpublished manga")
}

// # Comments

/*
TestService_CommentLifecycle verifies comment ownership, parent attachment and moderation.
*/
func TestService_CommentLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	manga := f.manga("dorohedoro", true, 0)
	chapter := f.chapter(manga.ID, 1)

	onManga, err := f.service.AddComment(ctx, reader("author"), engagement.CommentInput{MangaID: manga.ID, Content: "great"})
	require.NoError(t, err)
	assert.Equal(t, engagement.CommentPending, onManga.Status)
	assert.Equal(t, []string{onManga.ID}, f.storedManga(manga.ID).CommentIDs)

	onChapter, err := f.service.AddComment(ctx, reader("author"), engagement.CommentInput{ChapterID: chapter.ID, Content: "wow"})
	require.NoError(t, err)
	assert.Equal(t, []string{onChapter.ID}, f.storedChapter(chapter.ID).CommentIDs)
	assert.Equal(t, []string{onManga.ID}, f.storedManga(manga.ID).CommentIDs)

	t.Run("Only the author edits", func(t *testing.T) {
		_, err := f.service.EditComment(ctx, reader("intruder"), onManga.ID, "mine now")
		assert.Equal(t, "FORBIDDEN", errorCode(err))

		_, err = f.service.EditComment(ctx, moderator("mod"), onManga.ID, "moderated")
		assert.Equal(t, "FORBIDDEN", errorCode(err))

		edited, err := f.service.EditComment(ctx, reader("author"), onManga.ID, "really great")
		require.NoError(t, err)
		assert.Equal(t, "really great", edited.Content)
	})

	t.Run("Non-owner cannot delete", func(t *testing.T) {
		err := f.service.DeleteComment(ctx, reader("intruder"), onChapter.ID)
		assert.Equal(t, "FORBIDDEN", errorCode(err))
		assert.Equal(t, []string{onChapter.ID}, f.storedChapter(chapter.ID).CommentIDs)
	})

	t.Run("Moderator deletes and the parent forgets", func(t *testing.T) {
		require.NoError(t, f.service.DeleteComment(ctx, moderator("mod"), onChapter.ID))
		assert.Empty(t, f.storedChapter(chapter.ID).CommentIDs)

		err := f.service.DeleteComment(ctx, moderator("mod"), onChapter.ID)
		assert.Equal(t, "NOT_FOUND", errorCode(err))
	})

	t.Run("Rejected comments are hidden from readers", func(t *testing.T) {
		rejected, err := f.service.ModerateComment(ctx, moderator("mod"), onManga.ID, engagement.ModerationReject)
		require.NoError(t, err)
		assert.Equal(t, engagement.CommentRejected, rejected.Status)
		assert.Equal(t, []string{onManga.ID}, f.storedManga(manga.ID).CommentIDs, "Reject keeps the reference")

		visible, err := f.service.ListComments(ctx, reader("u1"), engagement.CommentTarget{MangaID: manga.ID})
		require.NoError(t, err)
		assert.Empty(t, visible)

		all, err := f.service.ListComments(ctx, moderator("mod"), engagement.CommentTarget{MangaID: manga.ID})
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("Readers cannot moderate", func(t *testing.T) {
		_, err := f.service.ModerateComment(ctx, reader("author"), onManga.ID, engagement.ModerationApprove)
		assert.Equal(t, "FORBIDDEN", errorCode(err))

		_, err = f.service.ModerateComment(ctx, moderator("mod"), onManga.ID, "shadowban")
		assert.Equal(t, "VALIDATION_ERROR", errorCode(err))
	})

	t.Run("Moderation delete detaches the comment", func(t *testing.T) {
		result, err := f.service.ModerateComment(ctx, moderator("mod"), onManga.ID, engagement.ModerationDelete)
		require.NoError(t, err)
		assert.Nil(t, result)
		assert.Empty(t, f.storedManga(manga.ID).CommentIDs)
		assert.Zero(t, f.commentCount())
		assert.Contains(t, f.invalidated, manga.ID)
		assert.Empty(t, f.invalidatedInTx, "Cache evicted before commit")
	})
}

/*
TestService_AddComment_Validation verifies the target and content rules.
*/
func TestService_AddComment_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	manga := f.manga("blame", true, 0)
	chapter := f.chapter(manga.ID, 1)
	draft := f.manga("hidden", false, 0)

	tests := []struct {
		name     string
		input    engagement.CommentInput
		wantCode string
	}{
		{"No target", engagement.CommentInput{Content: "hi"}, "VALIDATION_ERROR"},
		{"Two targets", engagement.CommentInput{MangaID: manga.ID, ChapterID: chapter.ID, Content: "hi"}, "VALIDATION_ERROR"},
		{"Empty content", engagement.CommentInput{MangaID: manga.ID}, "VALIDATION_ERROR"},
		{"Unknown chapter", engagement.CommentInput{ChapterID: "missing", Content: "hi"}, "NOT_FOUND"},
		{"Unpublished manga", engagement.CommentInput{MangaID: draft.ID, Content: "hi"}, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.AddComment(ctx, reader("u1"), tt.input)
			assert.Equal(t, tt.wantCode, errorCode(err))
		})
	}

	assert.Zero(t, f.commentCount())
}

/*
TestService_RepliesAndReactions verifies replies append in order and reactions stay exclusive.
*/
func TestService_RepliesAndReactions(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	manga := f.manga("gantz", true, 0)

	comment, err := f.service.AddComment(ctx, reader("author"), engagement.CommentInput{MangaID: manga.ID, Content: "first"})
	require.NoError(t, err)

	_, err = f.service.AddReply(ctx, reader("u1"), comment.ID, "agree")
	require.NoError(t, err)
	replied, err := f.service.AddReply(ctx, reader("u2"), comment.ID, "disagree")
	require.NoError(t, err)

	require.Len(t, replied.Replies, 2)
	assert.Equal(t, "agree", replied.Replies[0].Content)
	assert.Equal(t, "u2", replied.Replies[1].UserID)

	_, err = f.service.ToggleReaction(ctx, reader("u1"), comment.ID, engagement.ReactionLike)
	require.NoError(t, err)
	reacted, err := f.service.ToggleReaction(ctx, reader("u1"), comment.ID, engagement.ReactionDislike)
	require.NoError(t, err)

	assert.Empty(t, reacted.Likes)
	assert.Equal(t, []string{"u1"}, reacted.Dislikes)

	reacted, err = f.service.ToggleReaction(ctx, reader("u1"), comment.ID, engagement.ReactionDislike)
	require.NoError(t, err)
	assert.Empty(t, reacted.Dislikes)

	_, err = f.service.ToggleReaction(ctx, reader("u1"), comment.ID, "love")
	assert.Equal(t, "VALIDATION_ERROR", errorCode(err))
}

// # Library

/*
TestService_ToggleBookmark verifies the bookmark toggle is a symmetric difference.
*/
func TestService_ToggleBookmark(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	manga := f.manga("akira", true, 0)

	bookmarked, err := f.service.ToggleBookmark(ctx, reader("u1"), manga.ID)
	require.NoError(t, err)
	assert.True(t, bookmarked)

	bookmarks, err := f.service.ListBookmarks(ctx, reader("u1"))
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "akira", bookmarks[0].MangaTitle)

	bookmarked, err = f.service.ToggleBookmark(ctx, reader("u1"), manga.ID)
	require.NoError(t, err)
	assert.False(t, bookmarked)

	bookmarks, err = f.service.ListBookmarks(ctx, reader("u1"))
	require.NoError(t, err)
	assert.Empty(t, bookmarks)
}

/*
TestService_UpdateReadingProgress verifies one entry per manga and idempotent repeats.
*/
func TestService_UpdateReadingProgress(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	manga := f.manga("hunter", true, 0)
	other := f.manga("other", true, 0)
	first := f.chapter(manga.ID, 1)
	second := f.chapter(manga.ID, 2)
	foreign := f.chapter(other.ID, 1)

	input := engagement.ProgressInput{ChapterID: first.ID, Page: 12}

	once, err := f.service.UpdateReadingProgress(ctx, reader("u1"), manga.ID, input)
	require.NoError(t, err)
	twice, err := f.service.UpdateReadingProgress(ctx, reader("u1"), manga.ID, input)
	require.NoError(t, err)

	assert.Equal(t, once.ChaptersRead, twice.ChaptersRead)
	assert.Equal(t, []string{first.ID}, twice.ChaptersRead)
	assert.Equal(t, engagement.StatusReading, twice.Status)
	assert.Equal(t, 12, twice.LastReadPage)

	moved, err := f.service.UpdateReadingProgress(ctx, reader("u1"), manga.ID,
		engagement.ProgressInput{ChapterID: second.ID, Page: 1, Status: engagement.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID, second.ID}, moved.ChaptersRead)
	assert.Equal(t, second.ID, *moved.LastReadChapterID)
	assert.Equal(t, engagement.StatusCompleted, moved.Status)

	history, err := f.service.GetReadingHistory(ctx, reader("u1"))
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "hunter", history[0].MangaTitle)

	t.Run("Rejects", func(t *testing.T) {
		tests := []struct {
			name     string
			input    engagement.ProgressInput
			wantCode string
		}{
			{"Page below one", engagement.ProgressInput{ChapterID: first.ID, Page: 0}, "VALIDATION_ERROR"},
			{"Unknown status", engagement.ProgressInput{ChapterID: first.ID, Page: 1, Status: "binging"}, "VALIDATION_ERROR"},
			{"Missing chapter", engagement.ProgressInput{Page: 1}, "VALIDATION_ERROR"},
			{"Chapter of another manga", engagement.ProgressInput{ChapterID: foreign.ID, Page: 1}, "NOT_FOUND"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.service.UpdateReadingProgress(ctx, reader("u1"), manga.ID, tt.input)
				assert.Equal(t, tt.wantCode, errorCode(err))
			})
		}
	})
}

/*
TestService_ToggleChapterRead verifies two toggles restore the read set and
that the unread step leaves the pointer alone.
*/
func TestService_ToggleChapterRead(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	manga := f.manga("mushishi", true, 0)
	first := f.chapter(manga.ID, 1)
	second := f.chapter(manga.ID, 2)

	_, err := f.service.UpdateReadingProgress(ctx, reader("u1"), manga.ID, engagement.ProgressInput{ChapterID: first.ID, Page: 3})
	require.NoError(t, err)

	marked, err := f.service.ToggleChapterRead(ctx, reader("u1"), manga.ID, second.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first.ID, second.ID}, marked.ChaptersRead)
	assert.Equal(t, second.ID, *marked.LastReadChapterID)

	unmarked, err := f.service.ToggleChapterRead(ctx, reader("u1"), manga.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID}, unmarked.ChaptersRead)
	assert.Equal(t, second.ID, *unmarked.LastReadChapterID)

	unmarked, err = f.service.ToggleChapterRead(ctx, reader("u1"), manga.ID, first.ID)
	require.NoError(t, err)
	assert.Empty(t, unmarked.ChaptersRead)
	assert.NotNil(t, unmarked.ChaptersRead)
}

/*
TestService_Lists verifies list ownership and privacy.
*/
func TestService_Lists(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	manga := f.manga("nana", true, 0)

	private, err := f.service.CreateList(ctx, reader("owner"), engagement.ListInput{Name: "Secret"})
	require.NoError(t, err)
	public, err := f.service.CreateList(ctx, reader("owner"), engagement.ListInput{Name: "Favourites", IsPublic: true})
	require.NoError(t, err)

	t.Run("Private list is invisible to others", func(t *testing.T) {
		_, err := f.service.GetList(ctx, reader("stranger"), private.ID)
		assert.Equal(t, "NOT_FOUND", errorCode(err))

		own, err := f.service.GetList(ctx, reader("owner"), private.ID)
		require.NoError(t, err)
		assert.Equal(t, "Secret", own.Name)
	})

	t.Run("Others only see public lists", func(t *testing.T) {
		seen, err := f.service.GetLists(ctx, reader("stranger"), "owner")
		require.NoError(t, err)
		require.Len(t, seen, 1)
		assert.Equal(t, public.ID, seen[0].ID)

		mine, err := f.service.GetLists(ctx, reader("owner"), "owner")
		require.NoError(t, err)
		assert.Len(t, mine, 2)
	})

	t.Run("Items are a set", func(t *testing.T) {
		_, err := f.service.AddToList(ctx, reader("owner"), public.ID, manga.ID)
		require.NoError(t, err)
		list, err := f.service.AddToList(ctx, reader("owner"), public.ID, manga.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{manga.ID}, list.MangaIDs)

		list, err = f.service.RemoveFromList(ctx, reader("owner"), public.ID, manga.ID)
		require.NoError(t, err)
		assert.Empty(t, list.MangaIDs)

		_, err = f.service.RemoveFromList(ctx, reader("owner"), public.ID, manga.ID)
		assert.Equal(t, "NOT_FOUND", errorCode(err))
	})

	t.Run("Only the owner edits", func(t *testing.T) {
		_, err := f.service.AddToList(ctx, reader("stranger"), public.ID, manga.ID)
		assert.Equal(t, "FORBIDDEN", errorCode(err))

		_, err = f.service.UpdateList(ctx, reader("stranger"), private.ID, engagement.ListInput{Name: "Mine"})
		assert.Equal(t, "NOT_FOUND", errorCode(err))

		err = f.service.DeleteList(ctx, reader("stranger"), public.ID)
		assert.Equal(t, "FORBIDDEN", errorCode(err))

		updated, err := f.service.UpdateList(ctx, reader("owner"), private.ID, engagement.ListInput{Name: "Shared", IsPublic: true})
		require.NoError(t, err)
		assert.True(t, updated.IsPublic)

		require.NoError(t, f.service.DeleteList(ctx, reader("owner"), private.ID))
		_, err = f.service.GetList(ctx, reader("owner"), private.ID)
		assert.Equal(t, "NOT_FOUND", errorCode(err))
	})
}

// # Discovery

/*
TestService_GetNextChapters verifies continue-reading follows the pointer by number.
*/
func TestService_GetNextChapters(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	reading := f.manga("reading", true, 0)
	finished := f.manga("finished", true, 0)
	r1 := f.chapter(reading.ID, 1)
	f.chapter(reading.ID, 3)
	r2 := f.chapter(reading.ID, 2)
	last := f.chapter(finished.ID, 1)

	_, err := f.service.UpdateReadingProgress(ctx, reader("u1"), reading.ID, engagement.ProgressInput{ChapterID: r1.ID, Page: 1})
	require.NoError(t, err)
	_, err = f.service.UpdateReadingProgress(ctx, reader("u1"), finished.ID, engagement.ProgressInput{ChapterID: last.ID, Page: 1})
	require.NoError(t, err)

	next, err := f.service.GetNextChapters(ctx, reader("u1"))
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, reading.ID, next[0].MangaID)
	assert.Equal(t, r2.ID, next[0].NextChapter.ID)
}

/*
TestService_GetRecommendations verifies genre seeding, exclusion and popularity order.
*/
func TestService_GetRecommendations(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	read := f.manga("read", true, 50, "action", "fantasy")
	readChapter := f.chapter(read.ID, 1)
	popular := f.manga("popular", true, 90, "fantasy")
	niche := f.manga("niche", true, 10, "action")
	f.manga("unrelated", true, 99, "romance")
	f.manga("unpublished", false, 100, "action")

	empty, err := f.service.GetRecommendations(ctx, reader("u1"))
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = f.service.UpdateReadingProgress(ctx, reader("u1"), read.ID, engagement.ProgressInput{ChapterID: readChapter.ID, Page: 1})
	require.NoError(t, err)

	recommended, err := f.service.GetRecommendations(ctx, reader("u1"))
	require.NoError(t, err)

	ids := make([]string, 0, len(recommended))
	for _, manga := range recommended {
		ids = append(ids, manga.ID)
	}
	assert.Equal(t, []string{popular.ID, niche.ID}, ids)
}

// # Notifications

/*
TestService_ChapterEvents verifies new-chapter fan-out and read-set pruning.
*/
func TestService_ChapterEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	manga := f.manga("chainsaw", true, 0)
	chapter := f.chapter(manga.ID, 12.5)

	for _, user := range []string{"u1", "u2", "quiet"} {
		_, err := f.service.ToggleBookmark(ctx, reader(user), manga.ID)
		require.NoError(t, err)
	}
	f.optedOut["quiet"] = true

	require.NoError(t, f.service.ChapterCreated(ctx, manga, chapter))

	notifications, total, err := f.service.GetNotifications(ctx, reader("u1"), false, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, notifications, 1)
	assert.Equal(t, engagement.NotificationNewChapter, notifications[0].Type)
	assert.Equal(t, "Chapter 12.5 of chainsaw is out", notifications[0].Content)
	assert.Equal(t, chapter.ID, *notifications[0].ChapterID)

	_, total, err = f.service.GetNotifications(ctx, reader("quiet"), false, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Zero(t, total)

	t.Run("Read state is per owner", func(t *testing.T) {
		err := f.service.MarkRead(ctx, reader("u2"), notifications[0].ID)
		assert.Equal(t, "NOT_FOUND", errorCode(err))

		require.NoError(t, f.service.MarkRead(ctx, reader("u1"), notifications[0].ID))

		unread, err := f.service.UnreadCount(ctx, reader("u1"))
		require.NoError(t, err)
		assert.Zero(t, unread)

		updated, err := f.service.MarkAllRead(ctx, reader("u2"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated)
	})

	t.Run("Deleted chapter leaves every read set", func(t *testing.T) {
		_, err := f.service.ToggleChapterRead(ctx, reader("u1"), manga.ID, chapter.ID)
		require.NoError(t, err)

		require.NoError(t, f.service.ChapterDeleted(ctx, manga.ID, chapter.ID))

		history, err := f.service.GetReadingHistory(ctx, reader("u1"))
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Empty(t, history[0].ChaptersRead)
	})
}

/*
TestService_RemoveUserContent verifies aggregates no longer count a removed user.
*/
func TestService_RemoveUserContent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	manga := f.manga("blame", true, 0)
	chapter := f.chapter(manga.ID, 1)

	_, err := f.service.RateManga(ctx, reader("leaving"), manga.ID, engagement.RatingInput{Score: 2})
	require.NoError(t, err)
	_, err = f.service.RateManga(ctx, reader("staying"), manga.ID, engagement.RatingInput{Score: 10})
	require.NoError(t, err)

	_, err = f.service.AddComment(ctx, reader("leaving"), engagement.CommentInput{ChapterID: chapter.ID, Content: "bye"})
	require.NoError(t, err)
	kept, err := f.service.AddComment(ctx, reader("staying"), engagement.CommentInput{MangaID: manga.ID, Content: "hi"})
	require.NoError(t, err)

	require.NoError(t, f.service.RemoveUserContent(ctx, "leaving"))

	stored := f.storedManga(manga.ID)
	assert.Equal(t, 10.0, stored.AverageRating)
	assert.Equal(t, 1, stored.RatingCount)
	assert.Equal(t, []string{kept.ID}, stored.CommentIDs)
	assert.Empty(t, f.storedChapter(chapter.ID).CommentIDs)
	assert.Equal(t, 1, f.commentCount())
	assert.Contains(t, f.invalidated, manga.ID)

	require.NoError(t, f.service.RemoveUserContent(ctx, "nobody"))
}

var _ catalog.ChapterListener = (*engagement.Service)(nil)
