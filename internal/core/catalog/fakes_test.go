// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/mangaverse/internal/core/catalog"
	"github.com/taibuivan/mangaverse/internal/platform/apperr"
)

// memoryStore is an in-memory catalog with transactional rollback.
// WithinTx serialises units of work the way the manga row lock does.
type memoryStore struct {
	txMu      sync.Mutex
	mu        sync.RWMutex
	mangas    map[string]*catalog.Manga
	chapters  map[string]*catalog.Chapter
	relations map[string][]catalog.Relation
	clock     time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		mangas:    map[string]*catalog.Manga{},
		chapters:  map[string]*catalog.Chapter{},
		relations: map[string][]catalog.Relation{},
		clock:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

type txMarker struct{}

func (store *memoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txMarker{}) != nil {
		return fn(ctx)
	}

	store.txMu.Lock()
	defer store.txMu.Unlock()

	snapshot := store.snapshot()
	if err := fn(context.WithValue(ctx, txMarker{}, true)); err != nil {
		store.restore(snapshot)
		return err
	}
	return nil
}

type storeSnapshot struct {
	mangas    map[string]*catalog.Manga
	chapters  map[string]*catalog.Chapter
	relations map[string][]catalog.Relation
}

func (store *memoryStore) snapshot() storeSnapshot {
	store.mu.RLock()
	defer store.mu.RUnlock()

	snap := storeSnapshot{
		mangas:    map[string]*catalog.Manga{},
		chapters:  map[string]*catalog.Chapter{},
		relations: map[string][]catalog.Relation{},
	}
	for id, manga := range store.mangas {
		snap.mangas[id] = cloneManga(manga)
	}
	for id, chapter := range store.chapters {
		snap.chapters[id] = cloneChapter(chapter)
	}
	for id, relations := range store.relations {
		snap.relations[id] = append([]catalog.Relation(nil), relations...)
	}
	return snap
}

func (store *memoryStore) restore(snap storeSnapshot) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.mangas, store.chapters, store.relations = snap.mangas, snap.chapters, snap.relations
}

func (store *memoryStore) tick() time.Time {
	store.clock = store.clock.Add(time.Minute)
	return store.clock
}

func cloneManga(manga *catalog.Manga) *catalog.Manga {
	var out catalog.Manga
	payload, _ := json.Marshal(manga)
	_ = json.Unmarshal(payload, &out)
	return &out
}

func cloneChapter(chapter *catalog.Chapter) *catalog.Chapter {
	var out catalog.Chapter
	payload, _ := json.Marshal(chapter)
	_ = json.Unmarshal(payload, &out)
	return &out
}

// # Manga Repository

type mangaRepo struct{ store *memoryStore }

// List reports the total only alongside rows, like a window count.
func (repo mangaRepo) List(_ context.Context, filter catalog.Filter, limit, offset int) ([]*catalog.Manga, int, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	var matched []*catalog.Manga
	for _, manga := range repo.store.mangas {
		if matchesFilter(manga, filter) {
			matched = append(matched, cloneManga(manga))
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].PopularityScore != matched[j].PopularityScore {
			return matched[i].PopularityScore > matched[j].PopularityScore
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	if offset == end {
		return []*catalog.Manga{}, 0, nil
	}
	return matched[offset:end], total, nil
}

func (repo mangaRepo) Count(_ context.Context, filter catalog.Filter) (int, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	count := 0
	for _, manga := range repo.store.mangas {
		if matchesFilter(manga, filter) {
			count++
		}
	}
	return count, nil
}

func matchesFilter(manga *catalog.Manga, filter catalog.Filter) bool {
	if len(filter.States) > 0 && !containsValue(filter.States, manga.PublicationState) {
		return false
	}
	if len(filter.Demographic) > 0 && !containsValue(filter.Demographic, manga.Demographic) {
		return false
	}
	if len(filter.Status) > 0 && !containsValue(filter.Status, manga.Status) {
		return false
	}
	if len(filter.ContentRating) > 0 && !containsValue(filter.ContentRating, manga.ContentRating) {
		return false
	}
	if filter.Query != "" && !strings.Contains(strings.ToLower(manga.Title), strings.ToLower(filter.Query)) {
		return false
	}
	if len(filter.Genres) > 0 {
		found := false
		for _, tag := range manga.Tags {
			if containsValue(filter.Genres, tag.Value) {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsValue[T comparable](values []T, target T) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

func (repo mangaRepo) FindByID(_ context.Context, id string) (*catalog.Manga, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	manga, ok := repo.store.mangas[id]
	if !ok {
		return nil, apperr.NotFound("Manga")
	}
	return cloneManga(manga), nil
}

func (repo mangaRepo) FindBySlug(_ context.Context, slug string) (*catalog.Manga, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	for _, manga := range repo.store.mangas {
		if manga.Slug == slug {
			return cloneManga(manga), nil
		}
	}
	return nil, apperr.NotFound("Manga")
}

func (repo mangaRepo) FindByIDs(_ context.Context, ids []string) ([]*catalog.Manga, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	out := []*catalog.Manga{}
	for _, id := range ids {
		if manga, ok := repo.store.mangas[id]; ok {
			out = append(out, cloneManga(manga))
		}
	}
	return out, nil
}

func (repo mangaRepo) LockByID(ctx context.Context, id string) (*catalog.Manga, error) {
	return repo.FindByID(ctx, id)
}

func (repo mangaRepo) Create(_ context.Context, manga *catalog.Manga) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	for _, existing := range repo.store.mangas {
		if existing.Slug == manga.Slug {
			return apperr.Conflict("Manga already exists")
		}
	}

	manga.CreatedAt = repo.store.tick()
	manga.UpdatedAt = manga.CreatedAt
	repo.store.mangas[manga.ID] = cloneManga(manga)
	return nil
}

func (repo mangaRepo) Update(_ context.Context, manga *catalog.Manga) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	stored, ok := repo.store.mangas[manga.ID]
	if !ok {
		return apperr.NotFound("Manga")
	}

	updated := cloneManga(manga)
	updated.ChapterCount = stored.ChapterCount
	updated.LatestChapterID = stored.LatestChapterID
	updated.LastChapterUpdated = stored.LastChapterUpdated
	updated.FirstChapterPublished = stored.FirstChapterPublished
	updated.Languages = stored.Languages
	updated.AverageRating = stored.AverageRating
	updated.RatingCount = stored.RatingCount
	updated.UpdatedAt = repo.store.tick()
	repo.store.mangas[manga.ID] = updated
	return nil
}

func (repo mangaRepo) Delete(_ context.Context, id string) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if _, ok := repo.store.mangas[id]; !ok {
		return apperr.NotFound("Manga")
	}
	delete(repo.store.mangas, id)
	delete(repo.store.relations, id)
	for chapterID, chapter := range repo.store.chapters {
		if chapter.MangaID == id {
			delete(repo.store.chapters, chapterID)
		}
	}
	return nil
}

func (repo mangaRepo) ApplyAggregate(_ context.Context, id string, aggregate catalog.Aggregate) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	manga, ok := repo.store.mangas[id]
	if !ok {
		return apperr.NotFound("Manga")
	}
	manga.ChapterCount = aggregate.ChapterCount
	manga.LatestChapterID = aggregate.LatestChapterID
	manga.LastChapterUpdated = aggregate.LastChapterUpdated
	manga.Languages = aggregate.Languages
	if manga.FirstChapterPublished == nil {
		manga.FirstChapterPublished = aggregate.FirstChapterPublished
	}
	return nil
}

func (repo mangaRepo) ApplyRatingSummary(_ context.Context, id string, summary catalog.RatingSummary) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	manga, ok := repo.store.mangas[id]
	if !ok {
		return apperr.NotFound("Manga")
	}
	manga.AverageRating = summary.Average
	manga.RatingCount = summary.Count
	return nil
}

func (repo mangaRepo) IncrementReads(_ context.Context, id string) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if manga, ok := repo.store.mangas[id]; ok {
		manga.Reads++
		manga.PopularityScore++
	}
	return nil
}

func (repo mangaRepo) AppendComment(_ context.Context, id, commentID string) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	manga, ok := repo.store.mangas[id]
	if !ok {
		return apperr.NotFound("Manga")
	}
	manga.CommentIDs = append(manga.CommentIDs, commentID)
	return nil
}

func (repo mangaRepo) RemoveComment(_ context.Context, id, commentID string) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if manga, ok := repo.store.mangas[id]; ok {
		manga.CommentIDs = removeValue(manga.CommentIDs, commentID)
	}
	return nil
}

func removeValue(values []string, target string) []string {
	out := []string{}
	for _, value := range values {
		if value != target {
			out = append(out, value)
		}
	}
	return out
}

func (repo mangaRepo) ListRelations(_ context.Context, id string) ([]*catalog.RelatedManga, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	out := []*catalog.RelatedManga{}
	for _, relation := range repo.store.relations[id] {
		target := repo.store.mangas[relation.MangaID]
		out = append(out, &catalog.RelatedManga{
			MangaID:          relation.MangaID,
			RelationshipType: relation.Type,
			Title:            target.Title,
			Slug:             target.Slug,
		})
	}
	return out, nil
}

func (repo mangaRepo) ReplaceRelations(_ context.Context, id string, relations []catalog.Relation) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	repo.store.relations[id] = append([]catalog.Relation(nil), relations...)
	return nil
}

func (repo mangaRepo) ListFeed(ctx context.Context, query catalog.FeedQuery) ([]*catalog.Manga, error) {
	mangas, _, err := repo.List(ctx, catalog.Filter{States: []catalog.PublicationState{catalog.StatePublished}}, query.Limit, 0)
	return mangas, err
}

func (repo mangaRepo) FindPublishedByGenres(ctx context.Context, genres, exclude []string, limit int) ([]*catalog.Manga, error) {
	candidates, _, err := repo.List(ctx, catalog.Filter{States: []catalog.PublicationState{catalog.StatePublished}}, 1000, 0)
	if err != nil {
		return nil, err
	}

	out := []*catalog.Manga{}
	for _, manga := range candidates {
		if containsValue(exclude, manga.ID) {
			continue
		}
		for _, genre := range manga.Genres() {
			if containsValue(genres, genre) {
				out = append(out, manga)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (repo mangaRepo) ListGenres(context.Context) ([]catalog.GenreCount, error) {
	return []catalog.GenreCount{}, nil
}

func (repo mangaRepo) Statistics(context.Context) (*catalog.Statistics, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	stats := &catalog.Statistics{MangaByState: map[catalog.PublicationState]int{}}
	for _, manga := range repo.store.mangas {
		stats.MangaByState[manga.PublicationState]++
		stats.TotalManga++
		stats.TotalChapters += manga.ChapterCount
	}
	return stats, nil
}

func (repo mangaRepo) ListIDs(context.Context) ([]string, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	ids := []string{}
	for id := range repo.store.mangas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// # Chapter Repository

type chapterRepo struct{ store *memoryStore }

func (repo chapterRepo) byManga(mangaID string) []*catalog.Chapter {
	out := []*catalog.Chapter{}
	for _, chapter := range repo.store.chapters {
		if chapter.MangaID == mangaID {
			out = append(out, cloneChapter(chapter))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (repo chapterRepo) ListByManga(_ context.Context, mangaID string) ([]*catalog.Chapter, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()
	return repo.byManga(mangaID), nil
}

func (repo chapterRepo) ListSummaries(_ context.Context, mangaID string) ([]catalog.ChapterSummary, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	out := []catalog.ChapterSummary{}
	for _, chapter := range repo.byManga(mangaID) {
		out = append(out, chapter.Summary())
	}
	return out, nil
}

func (repo chapterRepo) FindByID(_ context.Context, id string) (*catalog.Chapter, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	chapter, ok := repo.store.chapters[id]
	if !ok {
		return nil, apperr.NotFound("Chapter")
	}
	return cloneChapter(chapter), nil
}

func (repo chapterRepo) FindNext(_ context.Context, mangaID string, number float64) (*catalog.Chapter, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	for _, chapter := range repo.byManga(mangaID) {
		if chapter.Number > number {
			return chapter, nil
		}
	}
	return nil, apperr.NotFound("Chapter")
}

func (repo chapterRepo) numberTaken(chapter *catalog.Chapter) bool {
	for _, existing := range repo.store.chapters {
		if existing.ID != chapter.ID && existing.MangaID == chapter.MangaID && existing.Number == chapter.Number {
			return true
		}
	}
	return false
}

func (repo chapterRepo) Create(_ context.Context, chapter *catalog.Chapter) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if repo.numberTaken(chapter) {
		return apperr.Conflict("Chapter number already exists for this manga")
	}

	chapter.CreatedAt = repo.store.tick()
	chapter.UpdatedAt = chapter.CreatedAt
	repo.store.chapters[chapter.ID] = cloneChapter(chapter)
	return nil
}

func (repo chapterRepo) Update(_ context.Context, chapter *catalog.Chapter) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if _, ok := repo.store.chapters[chapter.ID]; !ok {
		return apperr.NotFound("Chapter")
	}
	if repo.numberTaken(chapter) {
		return apperr.Conflict("Chapter number already exists for this manga")
	}

	chapter.UpdatedAt = repo.store.tick()
	repo.store.chapters[chapter.ID] = cloneChapter(chapter)
	return nil
}

func (repo chapterRepo) Delete(_ context.Context, id string) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if _, ok := repo.store.chapters[id]; !ok {
		return apperr.NotFound("Chapter")
	}
	delete(repo.store.chapters, id)
	return nil
}

func (repo chapterRepo) IncrementReadCount(_ context.Context, id string) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	chapter, ok := repo.store.chapters[id]
	if !ok {
		return apperr.NotFound("Chapter")
	}
	chapter.ReadCount++
	return nil
}

func (repo chapterRepo) AppendComment(_ context.Context, id, commentID string) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	chapter, ok := repo.store.chapters[id]
	if !ok {
		return apperr.NotFound("Chapter")
	}
	chapter.CommentIDs = append(chapter.CommentIDs, commentID)
	return nil
}

func (repo chapterRepo) RemoveComment(_ context.Context, id, commentID string) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if chapter, ok := repo.store.chapters[id]; ok {
		chapter.CommentIDs = removeValue(chapter.CommentIDs, commentID)
	}
	return nil
}

func (repo chapterRepo) ListMostRead(context.Context, int) ([]*catalog.ChapterFeedItem, error) {
	return []*catalog.ChapterFeedItem{}, nil
}

func (repo chapterRepo) ListRecent(context.Context, int) ([]*catalog.ChapterFeedItem, error) {
	return []*catalog.ChapterFeedItem{}, nil
}

// # Listener

type recordingListener struct {
	mu       sync.Mutex
	created  []string
	deleted  []string
	failWith error
}

func (listener *recordingListener) ChapterCreated(_ context.Context, _ *catalog.Manga, chapter *catalog.Chapter) error {
	listener.mu.Lock()
	defer listener.mu.Unlock()
	listener.created = append(listener.created, chapter.ID)
	return listener.failWith
}

func (listener *recordingListener) ChapterDeleted(_ context.Context, _, chapterID string) error {
	listener.mu.Lock()
	defer listener.mu.Unlock()
	listener.deleted = append(listener.deleted, chapterID)
	return listener.failWith
}

// recordingCache never hits and remembers every eviction.
type recordingCache struct {
	catalog.NopCache

	mu      sync.Mutex
	evicted []string
}

func (cache *recordingCache) InvalidateManga(_ context.Context, id string) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.evicted = append(cache.evicted, id)
}

func (cache *recordingCache) evictions() []string {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	return append([]string(nil), cache.evicted...)
}

// scoreTable serves rating scores keyed by manga ID.
type scoreTable map[string][]int

func (table scoreTable) ScoresForManga(_ context.Context, mangaID string) ([]int, error) {
	return table[mangaID], nil
}

// # Fixture

type fixture struct {
	store    *memoryStore
	service  *catalog.Service
	listener *recordingListener
	cache    *recordingCache
}

func newFixture() *fixture {
	store := newMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := &recordingCache{}

	service := catalog.NewService(mangaRepo{store}, chapterRepo{store}, store, cache, nil, logger)
	listener := &recordingListener{}
	service.RegisterListener(listener)

	return &fixture{store: store, service: service, listener: listener, cache: cache}
}

func (f *fixture) manga(title string) *catalog.Manga {
	manga, err := f.service.CreateManga(context.Background(), catalog.MangaInput{
		Title:       title,
		Author:      "Author",
		Demographic: catalog.DemographicShounen,
		CoverImage:  "https://cdn.example/cover.jpg",
		Tags:        []catalog.Tag{{Type: catalog.TagGenre, Value: "action"}},
	})
	if err != nil {
		panic(err)
	}
	return manga
}

func (f *fixture) publish(id string) {
	if _, err := f.service.SetPublicationState(context.Background(), id, catalog.StatePublished); err != nil {
		panic(err)
	}
}

func (f *fixture) chapter(mangaID string, number float64, langs ...string) *catalog.Chapter {
	variants := make([]catalog.LanguageVariant, 0, len(langs))
	for _, lang := range langs {
		variants = append(variants, catalog.LanguageVariant{Lang: lang, Title: "Chapter", Pages: []string{"https://cdn.example/p1.jpg"}})
	}

	chapter, err := f.service.CreateChapter(context.Background(), mangaID, catalog.ChapterInput{Number: number, Languages: variants})
	if err != nil {
		panic(err)
	}
	return chapter
}

func (f *fixture) stored(id string) *catalog.Manga {
	manga, err := mangaRepo{f.store}.FindByID(context.Background(), id)
	if err != nil {
		panic(err)
	}
	return manga
}
