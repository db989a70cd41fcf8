// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/mangaverse/internal/core/catalog"
	"github.com/taibuivan/mangaverse/internal/core/engagement"
	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/platform/sec"
)

// world is the shared in-memory state behind every fake repository.
type world struct {
	txMu sync.Mutex
	mu   sync.Mutex

	mangas        map[string]*catalog.Manga
	chapters      map[string]*catalog.Chapter
	ratings       map[string]*engagement.Rating
	comments      map[string]*engagement.Comment
	progress      map[string]*engagement.ReadingProgress
	bookmarks     map[string]time.Time
	lists         map[string]*engagement.List
	notifications []*engagement.Notification
	optedOut      map[string]bool
	invalidated   []string

	// invalidatedInTx holds evictions issued before the unit of work committed.
	invalidatedInTx []string

	clock time.Time
	seq   int
}

func newWorld() *world {
	return &world{
		mangas:    map[string]*catalog.Manga{},
		chapters:  map[string]*catalog.Chapter{},
		ratings:   map[string]*engagement.Rating{},
		comments:  map[string]*engagement.Comment{},
		progress:  map[string]*engagement.ReadingProgress{},
		bookmarks: map[string]time.Time{},
		lists:     map[string]*engagement.List{},
		optedOut:  map[string]bool{},
		clock:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick advances the fake clock so orderings by time are deterministic.
func (w *world) tick() time.Time {
	w.clock = w.clock.Add(time.Second)
	return w.clock
}

func (w *world) nextID(prefix string) string {
	w.seq++
	return fmt.Sprintf("%s-%d", prefix, w.seq)
}

type txMarker struct{}

// WithinTx serialises units of work. Nested calls join the outer one.
func (w *world) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txMarker{}) != nil {
		return fn(ctx)
	}

	w.txMu.Lock()
	defer w.txMu.Unlock()

	return fn(context.WithValue(ctx, txMarker{}, true))
}

func pairKey(userID, mangaID string) string {
	return userID + "|" + mangaID
}

func clone[T any](value *T) *T {
	raw, _ := json.Marshal(value)
	out := new(T)
	_ = json.Unmarshal(raw, out)
	return out
}

// # Ratings

type ratingStore struct{ *world }

func (store ratingStore) Upsert(_ context.Context, rating *engagement.Rating) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	now := store.tick()
	key := pairKey(rating.UserID, rating.MangaID)

	if existing, ok := store.ratings[key]; ok {
		rating.ID = existing.ID
		rating.CreatedAt = existing.CreatedAt
	} else {
		rating.CreatedAt = now
	}

	rating.UpdatedAt = now
	store.ratings[key] = clone(rating)
	return nil
}

func (store ratingStore) Delete(_ context.Context, userID, mangaID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	key := pairKey(userID, mangaID)
	if _, ok := store.ratings[key]; !ok {
		return apperr.NotFound("Rating")
	}
	delete(store.ratings, key)
	return nil
}

func (store ratingStore) Find(_ context.Context, userID, mangaID string) (*engagement.Rating, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	rating, ok := store.ratings[pairKey(userID, mangaID)]
	if !ok {
		return nil, apperr.NotFound("Rating")
	}
	return clone(rating), nil
}

func (store ratingStore) ListByManga(_ context.Context, mangaID string) ([]*engagement.Rating, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	ratings := []*engagement.Rating{}
	for _, rating := range store.ratings {
		if rating.MangaID == mangaID {
			ratings = append(ratings, clone(rating))
		}
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].UpdatedAt.After(ratings[j].UpdatedAt) })
	return ratings, nil
}

func (store ratingStore) ScoresForManga(_ context.Context, mangaID string) ([]int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	scores := []int{}
	for _, rating := range store.ratings {
		if rating.MangaID == mangaID {
			scores = append(scores, rating.Score)
		}
	}
	return scores, nil
}

func (store ratingStore) MangasRatedBy(_ context.Context, userID string) ([]string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	ids := []string{}
	for _, rating := range store.ratings {
		if rating.UserID == userID {
			ids = append(ids, rating.MangaID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// # Comments

type commentStore struct{ *world }

func (store commentStore) Create(_ context.Context, comment *engagement.Comment) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	comment.CreatedAt = store.tick()
	comment.UpdatedAt = comment.CreatedAt
	store.comments[comment.ID] = clone(comment)
	return nil
}

func (store commentStore) FindByID(_ context.Context, id string) (*engagement.Comment, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	comment, ok := store.comments[id]
	if !ok {
		return nil, apperr.NotFound("Comment")
	}
	return clone(comment), nil
}

func (store commentStore) LockByID(ctx context.Context, id string) (*engagement.Comment, error) {
	return store.FindByID(ctx, id)
}

func (store commentStore) Update(_ context.Context, comment *engagement.Comment) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.comments[comment.ID]; !ok {
		return apperr.NotFound("Comment")
	}
	comment.UpdatedAt = store.tick()
	store.comments[comment.ID] = clone(comment)
	return nil
}

func (store commentStore) Delete(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.comments[id]; !ok {
		return apperr.NotFound("Comment")
	}
	delete(store.comments, id)
	return nil
}

func (store commentStore) ListByTarget(_ context.Context, target engagement.CommentTarget, includeRejected bool) ([]*engagement.Comment, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	comments := []*engagement.Comment{}
	for _, comment := range store.comments {
		if comment.MangaID != target.MangaID || comment.ChapterID != target.ChapterID {
			continue
		}
		if !includeRejected && comment.Status == engagement.CommentRejected {
			continue
		}
		comments = append(comments, clone(comment))
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.Before(comments[j].CreatedAt) })
	return comments, nil
}

func (store commentStore) ListByUser(_ context.Context, userID string) ([]*engagement.Comment, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	comments := []*engagement.Comment{}
	for _, comment := range store.comments {
		if comment.UserID == userID {
			comments = append(comments, clone(comment))
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.Before(comments[j].CreatedAt) })
	return comments, nil
}

// # Reading Progress

type progressStore struct{ *world }

func (store progressStore) LockOrCreate(_ context.Context, userID, mangaID string) (*engagement.ReadingProgress, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.mangas[mangaID]; !ok {
		return nil, apperr.NotFound("Manga")
	}

	key := pairKey(userID, mangaID)
	progress, ok := store.progress[key]
	if !ok {
		progress = &engagement.ReadingProgress{
			UserID:       userID,
			MangaID:      mangaID,
			ChaptersRead: []string{},
			LastReadPage: 1,
			Status:       engagement.StatusReading,
			UpdatedAt:    store.tick(),
		}
		store.progress[key] = progress
	}
	return clone(progress), nil
}

func (store progressStore) Save(_ context.Context, progress *engagement.ReadingProgress) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	key := pairKey(progress.UserID, progress.MangaID)
	if _, ok := store.progress[key]; !ok {
		return apperr.NotFound("Reading progress")
	}
	progress.UpdatedAt = store.tick()
	store.progress[key] = clone(progress)
	return nil
}

func (store progressStore) ListByUser(_ context.Context, userID string) ([]*engagement.ReadingProgress, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	return store.userProgress(userID), nil
}

func (w *world) userProgress(userID string) []*engagement.ReadingProgress {
	entries := []*engagement.ReadingProgress{}
	for _, progress := range w.progress {
		if progress.UserID == userID {
			entries = append(entries, clone(progress))
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].UpdatedAt.After(entries[j].UpdatedAt) })
	return entries
}

func (store progressStore) History(_ context.Context, userID string) ([]*engagement.HistoryEntry, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	history := []*engagement.HistoryEntry{}
	for _, progress := range store.userProgress(userID) {
		manga := store.mangas[progress.MangaID]
		history = append(history, &engagement.HistoryEntry{
			ReadingProgress: *progress,
			MangaTitle:      manga.Title,
			MangaSlug:       manga.Slug,
			CoverImage:      manga.CoverImage,
		})
	}
	return history, nil
}

func (store progressStore) PruneChapter(_ context.Context, chapterID string) (int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	var touched int64
	for _, progress := range store.progress {
		remaining := []string{}
		for _, id := range progress.ChaptersRead {
			if id != chapterID {
				remaining = append(remaining, id)
			}
		}
		if len(remaining) != len(progress.ChaptersRead) {
			progress.ChaptersRead = remaining
			touched++
		}
	}
	return touched, nil
}

// # Bookmarks

type bookmarkStore struct{ *world }

func (store bookmarkStore) Add(_ context.Context, userID, mangaID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	key := pairKey(userID, mangaID)
	if _, ok := store.bookmarks[key]; !ok {
		store.bookmarks[key] = store.tick()
	}
	return nil
}

func (store bookmarkStore) Remove(_ context.Context, userID, mangaID string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	key := pairKey(userID, mangaID)
	_, ok := store.bookmarks[key]
	delete(store.bookmarks, key)
	return ok, nil
}

func (store bookmarkStore) ListByUser(_ context.Context, userID string) ([]*engagement.Bookmark, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	bookmarks := []*engagement.Bookmark{}
	for _, manga := range store.mangas {
		createdAt, ok := store.bookmarks[pairKey(userID, manga.ID)]
		if !ok {
			continue
		}
		bookmarks = append(bookmarks, &engagement.Bookmark{
			MangaID:    manga.ID,
			MangaTitle: manga.Title,
			MangaSlug:  manga.Slug,
			CoverImage: manga.CoverImage,
			CreatedAt:  createdAt,
		})
	}
	sort.Slice(bookmarks, func(i, j int) bool { return bookmarks[i].CreatedAt.After(bookmarks[j].CreatedAt) })
	return bookmarks, nil
}

// # Custom Lists

type listStore struct{ *world }

func (store listStore) Create(_ context.Context, list *engagement.List) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	list.CreatedAt = store.tick()
	list.UpdatedAt = list.CreatedAt
	store.lists[list.ID] = clone(list)
	return nil
}

func (store listStore) FindByID(_ context.Context, id string) (*engagement.List, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	list, ok := store.lists[id]
	if !ok {
		return nil, apperr.NotFound("List")
	}
	return clone(list), nil
}

func (store listStore) ListByUser(_ context.Context, userID string, publicOnly bool) ([]*engagement.List, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	lists := []*engagement.List{}
	for _, list := range store.lists {
		if list.UserID == userID && (!publicOnly || list.IsPublic) {
			lists = append(lists, clone(list))
		}
	}
	sort.Slice(lists, func(i, j int) bool { return lists[i].CreatedAt.Before(lists[j].CreatedAt) })
	return lists, nil
}

func (store listStore) Update(_ context.Context, list *engagement.List) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	stored, ok := store.lists[list.ID]
	if !ok {
		return apperr.NotFound("List")
	}
	stored.Name, stored.Description, stored.IsPublic = list.Name, list.Description, list.IsPublic
	stored.UpdatedAt = store.tick()
	list.UpdatedAt = stored.UpdatedAt
	return nil
}

func (store listStore) Delete(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.lists[id]; !ok {
		return apperr.NotFound("List")
	}
	delete(store.lists, id)
	return nil
}

func (store listStore) AddItem(_ context.Context, listID, mangaID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	list, ok := store.lists[listID]
	if !ok {
		return apperr.NotFound("List")
	}
	for _, id := range list.MangaIDs {
		if id == mangaID {
			return nil
		}
	}
	list.MangaIDs = append(list.MangaIDs, mangaID)
	return nil
}

func (store listStore) RemoveItem(_ context.Context, listID, mangaID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	list, ok := store.lists[listID]
	if !ok {
		return apperr.NotFound("List")
	}
	for index, id := range list.MangaIDs {
		if id == mangaID {
			list.MangaIDs = append(list.MangaIDs[:index:index], list.MangaIDs[index+1:]...)
			return nil
		}
	}
	return apperr.NotFound("List item")
}

// # Notifications

type notificationStore struct{ *world }

func (store notificationStore) Subscribers(_ context.Context, mangaID string) ([]string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	subscribers := []string{}
	for key := range store.bookmarks {
		userID, bookmarked, _ := strings.Cut(key, "|")
		if bookmarked == mangaID && !store.optedOut[userID] {
			subscribers = append(subscribers, userID)
		}
	}
	sort.Strings(subscribers)
	return subscribers, nil
}

func (store notificationStore) CreateMany(_ context.Context, notifications []*engagement.Notification) (int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, notification := range notifications {
		store.notifications = append(store.notifications, clone(notification))
	}
	return int64(len(notifications)), nil
}

func (store notificationStore) List(_ context.Context, userID string, unreadOnly bool, limit, offset int) ([]*engagement.Notification, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	matched := []*engagement.Notification{}
	for index := len(store.notifications) - 1; index >= 0; index-- {
		notification := store.notifications[index]
		if notification.UserID == userID && (!unreadOnly || !notification.IsRead) {
			matched = append(matched, clone(notification))
		}
	}

	total := len(matched)
	if offset >= total {
		return []*engagement.Notification{}, total, nil
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

func (store notificationStore) MarkRead(_ context.Context, userID, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, notification := range store.notifications {
		if notification.ID == id && notification.UserID == userID {
			notification.IsRead = true
			return nil
		}
	}
	return apperr.NotFound("Notification")
}

func (store notificationStore) MarkAllRead(_ context.Context, userID string) (int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	var updated int64
	for _, notification := range store.notifications {
		if notification.UserID == userID && !notification.IsRead {
			notification.IsRead = true
			updated++
		}
	}
	return updated, nil
}

func (store notificationStore) UnreadCount(_ context.Context, userID string) (int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	count := 0
	for _, notification := range store.notifications {
		if notification.UserID == userID && !notification.IsRead {
			count++
		}
	}
	return count, nil
}

// # Catalog

type catalogStub struct{ *world }

func (stub catalogStub) LockManga(ctx context.Context, id string) (*catalog.Manga, error) {
	return stub.FindManga(ctx, id)
}

func (stub catalogStub) FindManga(_ context.Context, id string) (*catalog.Manga, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()

	manga, ok := stub.mangas[id]
	if !ok {
		return nil, apperr.NotFound("Manga")
	}
	return clone(manga), nil
}

func (stub catalogStub) ApplyRatingSummary(_ context.Context, id string, summary catalog.RatingSummary) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()

	manga, ok := stub.mangas[id]
	if !ok {
		return apperr.NotFound("Manga")
	}
	manga.AverageRating, manga.RatingCount = summary.Average, summary.Count
	return nil
}

func (stub catalogStub) Invalidate(ctx context.Context, id string) {
	stub.mu.Lock()
	defer stub.mu.Unlock()

	stub.invalidated = append(stub.invalidated, id)
	if ctx.Value(txMarker{}) != nil {
		stub.invalidatedInTx = append(stub.invalidatedInTx, id)
	}
}

func (stub catalogStub) FindChapter(_ context.Context, id string) (*catalog.Chapter, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()

	chapter, ok := stub.chapters[id]
	if !ok {
		return nil, apperr.NotFound("Chapter")
	}
	return clone(chapter), nil
}

func (stub catalogStub) MangasByIDs(_ context.Context, ids []string) ([]*catalog.Manga, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()

	mangas := []*catalog.Manga{}
	for _, id := range ids {
		if manga, ok := stub.mangas[id]; ok {
			mangas = append(mangas, clone(manga))
		}
	}
	return mangas, nil
}

func (stub catalogStub) PublishedByGenres(_ context.Context, genres, exclude []string, limit int) ([]*catalog.Manga, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()

	excluded := map[string]bool{}
	for _, id := range exclude {
		excluded[id] = true
	}

	mangas := []*catalog.Manga{}
	for _, manga := range stub.mangas {
		if !manga.IsPublished() || excluded[manga.ID] || !sharesGenre(manga, genres) {
			continue
		}
		mangas = append(mangas, clone(manga))
	}

	sort.Slice(mangas, func(i, j int) bool { return mangas[i].PopularityScore > mangas[j].PopularityScore })
	if len(mangas) > limit {
		mangas = mangas[:limit]
	}
	return mangas, nil
}

func sharesGenre(manga *catalog.Manga, genres []string) bool {
	for _, genre := range manga.Genres() {
		for _, wanted := range genres {
			if genre == wanted {
				return true
			}
		}
	}
	return false
}

func (stub catalogStub) NextChapter(_ context.Context, mangaID, chapterID string) (*catalog.Chapter, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()

	current, ok := stub.chapters[chapterID]
	if !ok {
		return nil, apperr.NotFound("Chapter")
	}
	return stub.chapterAfter(mangaID, current.Number), nil
}

func (stub catalogStub) FirstChapter(_ context.Context, mangaID string) (*catalog.Chapter, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()

	return stub.chapterAfter(mangaID, -1), nil
}

func (w *world) chapterAfter(mangaID string, number float64) *catalog.Chapter {
	var next *catalog.Chapter
	for _, chapter := range w.chapters {
		if chapter.MangaID != mangaID || chapter.Number <= number {
			continue
		}
		if next == nil || chapter.Number < next.Number {
			next = chapter
		}
	}
	if next == nil {
		return nil
	}
	return clone(next)
}

func (stub catalogStub) AttachComment(_ context.Context, mangaID, chapterID, commentID string) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()

	if chapterID != "" {
		chapter, ok := stub.chapters[chapterID]
		if !ok {
			return apperr.NotFound("Chapter")
		}
		chapter.CommentIDs = append(chapter.CommentIDs, commentID)
		return nil
	}

	manga, ok := stub.mangas[mangaID]
	if !ok {
		return apperr.NotFound("Manga")
	}
	manga.CommentIDs = append(manga.CommentIDs, commentID)
	return nil
}

func (stub catalogStub) DetachComment(_ context.Context, mangaID, chapterID, commentID string) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()

	remove := func(ids []string) []string {
		out := []string{}
		for _, id := range ids {
			if id != commentID {
				out = append(out, id)
			}
		}
		return out
	}

	if chapterID != "" {
		if chapter, ok := stub.chapters[chapterID]; ok {
			chapter.CommentIDs = remove(chapter.CommentIDs)
		}
		return nil
	}

	if manga, ok := stub.mangas[mangaID]; ok {
		manga.CommentIDs = remove(manga.CommentIDs)
	}
	return nil
}

// # Fixture

type fixture struct {
	*world
	service *engagement.Service
}

func newFixture() *fixture {
	w := newWorld()
	repositories := engagement.Repositories{
		Ratings:       ratingStore{w},
		Comments:      commentStore{w},
		Progress:      progressStore{w},
		Bookmarks:     bookmarkStore{w},
		Lists:         listStore{w},
		Notifications: notificationStore{w},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		world:   w,
		service: engagement.NewService(repositories, catalogStub{w}, w, logger),
	}
}

// manga seeds a manga. Published manga are visible to readers.
func (f *fixture) manga(title string, published bool, popularity float64, genres ...string) *catalog.Manga {
	f.mu.Lock()
	defer f.mu.Unlock()

	state := catalog.StateDraft
	if published {
		state = catalog.StatePublished
	}

	tags := make([]catalog.Tag, 0, len(genres))
	for _, genre := range genres {
		tags = append(tags, catalog.Tag{Type: catalog.TagGenre, Value: genre})
	}

	manga := &catalog.Manga{
		ID:               f.nextID("manga"),
		Slug:             title,
		Title:            title,
		Tags:             tags,
		PublicationState: state,
		CoverImage:       "https://cdn.example.com/" + title + ".jpg",
		PopularityScore:  popularity,
		CommentIDs:       []string{},
	}
	f.mangas[manga.ID] = manga
	return clone(manga)
}

func (f *fixture) chapter(mangaID string, number float64) *catalog.Chapter {
	f.mu.Lock()
	defer f.mu.Unlock()

	chapter := &catalog.Chapter{
		ID:         f.nextID("chapter"),
		MangaID:    mangaID,
		Number:     number,
		CommentIDs: []string{},
	}
	f.chapters[chapter.ID] = chapter
	return clone(chapter)
}

func (f *fixture) storedManga(id string) *catalog.Manga {
	f.mu.Lock()
	defer f.mu.Unlock()
	return clone(f.mangas[id])
}

func (f *fixture) storedChapter(id string) *catalog.Chapter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return clone(f.chapters[id])
}

func (f *fixture) commentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.comments)
}

func reader(id string) sec.Caller {
	return sec.Caller{UserID: id, Role: sec.RoleUser}
}

func moderator(id string) sec.Caller {
	return sec.Caller{UserID: id, Role: sec.RoleModerator}
}

func admin(id string) sec.Caller {
	return sec.Caller{UserID: id, Role: sec.RoleAdmin}
}

func errorCode(err error) string {
	if appErr := apperr.As(err); appErr != nil {
		return appErr.Code
	}
	return ""
}
