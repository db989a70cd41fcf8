// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangaverse/internal/platform/database/schema"
	"github.com/taibuivan/mangaverse/internal/platform/dberr"
	pgstore "github.com/taibuivan/mangaverse/internal/platform/postgres"
)

// # Reading Progress Repository

type progressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository constructs a PostgreSQL backed reading progress store.
func NewProgressRepository(pool *pgxpool.Pool) ProgressRepository {
	return &progressRepository{pool: pool}
}

func progressColumns(alias string) string {
	return fmt.Sprintf("%[1]s.%[2]s::text, %[1]s.%[3]s::text, %[1]s.%[4]s::text, %[1]s.%[5]s::text[], %[1]s.%[6]s, %[1]s.%[7]s, %[1]s.%[8]s",
		alias,
		schema.LibraryReadingProgress.UserID, schema.LibraryReadingProgress.MangaID,
		schema.LibraryReadingProgress.LastReadChapterID, schema.LibraryReadingProgress.ChaptersRead,
		schema.LibraryReadingProgress.LastReadPage, schema.LibraryReadingProgress.ReadingStatus,
		schema.LibraryReadingProgress.UpdatedAt,
	)
}

func scanProgress(row pgx.Row, extra ...any) (*ReadingProgress, error) {
	progress := &ReadingProgress{}

	targets := []any{
		&progress.UserID, &progress.MangaID, &progress.LastReadChapterID, &progress.ChaptersRead,
		&progress.LastReadPage, &progress.Status, &progress.UpdatedAt,
	}

	if err := row.Scan(append(targets, extra...)...); err != nil {
		return nil, err
	}

	return progress, nil
}

/*
LockOrCreate returns the progress row for (user, manga) under a row lock.

Description: The insert is a no-op when the row already exists, so two
concurrent first reads of the same manga still end up sharing one row. A
missing user or manga surfaces as NotFound through the foreign keys.
*/
func (repository *progressRepository) LockOrCreate(context context.Context, userID, mangaID string) (*ReadingProgress, error) {
	conn := pgstore.Conn(context, repository.pool)

	insert := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		schema.LibraryReadingProgress.Table, schema.LibraryReadingProgress.UserID, schema.LibraryReadingProgress.MangaID,
	)

	if _, err := conn.Exec(context, insert, userID, mangaID); err != nil {
		return nil, dberr.Wrap(err, "Manga", "create reading progress")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s p WHERE p.%s = $1 AND p.%s = $2 FOR UPDATE`,
		progressColumns("p"), schema.LibraryReadingProgress.Table,
		schema.LibraryReadingProgress.UserID, schema.LibraryReadingProgress.MangaID,
	)

	progress, err := scanProgress(conn.QueryRow(context, query, userID, mangaID))
	if err != nil {
		return nil, dberr.Wrap(err, "Reading progress", "lock reading progress")
	}

	return progress, nil
}

// Save writes the mutable fields of a progress row.
func (repository *progressRepository) Save(context context.Context, progress *ReadingProgress) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = $4::uuid[], %s = $5, %s = $6, %s = now()
		WHERE %s = $1 AND %s = $2
		RETURNING %s`,
		schema.LibraryReadingProgress.Table,
		schema.LibraryReadingProgress.LastReadChapterID, schema.LibraryReadingProgress.ChaptersRead,
		schema.LibraryReadingProgress.LastReadPage, schema.LibraryReadingProgress.ReadingStatus,
		schema.LibraryReadingProgress.UpdatedAt,
		schema.LibraryReadingProgress.UserID, schema.LibraryReadingProgress.MangaID,
		schema.LibraryReadingProgress.UpdatedAt,
	)

	err := pgstore.Conn(context, repository.pool).QueryRow(context, query,
		progress.UserID, progress.MangaID, progress.LastReadChapterID, progress.ChaptersRead,
		progress.LastReadPage, progress.Status,
	).Scan(&progress.UpdatedAt)

	return dberr.Wrap(err, "Reading progress", "save reading progress")
}

// ListByUser returns every progress row of a reader, most recent first.
func (repository *progressRepository) ListByUser(context context.Context, userID string) ([]*ReadingProgress, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s p WHERE p.%s = $1 ORDER BY p.%s DESC`,
		progressColumns("p"), schema.LibraryReadingProgress.Table,
		schema.LibraryReadingProgress.UserID, schema.LibraryReadingProgress.UpdatedAt,
	)

	rows, err := pgstore.Conn(context, repository.pool).Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "Reading progress", "list reading progress")
	}
	defer rows.Close()

	entries := []*ReadingProgress{}
	for rows.Next() {
		progress, err := scanProgress(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "Reading progress", "scan reading progress")
		}
		entries = append(entries, progress)
	}

	return entries, dberr.Wrap(rows.Err(), "Reading progress", "list reading progress")
}

// History returns the reader's progress joined with manga title and cover.
func (repository *progressRepository) History(context context.Context, userID string) ([]*HistoryEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s, m.%s, m.%s, m.%s
		FROM %s p
		JOIN %s m ON m.%s = p.%s
		WHERE p.%s = $1
		ORDER BY p.%s DESC`,
		progressColumns("p"),
		schema.CoreManga.Title, schema.CoreManga.Slug, schema.CoreManga.CoverImage,
		schema.LibraryReadingProgress.Table,
		schema.CoreManga.Table, schema.CoreManga.ID, schema.LibraryReadingProgress.MangaID,
		schema.LibraryReadingProgress.UserID,
		schema.LibraryReadingProgress.UpdatedAt,
	)

	rows, err := pgstore.Conn(context, repository.pool).Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "Reading progress", "list reading history")
	}
	defer rows.Close()

	entries := []*HistoryEntry{}
	for rows.Next() {
		entry := &HistoryEntry{}
		progress, err := scanProgress(rows, &entry.MangaTitle, &entry.MangaSlug, &entry.CoverImage)
		if err != nil {
			return nil, dberr.Wrap(err, "Reading progress", "scan reading history")
		}
		entry.ReadingProgress = *progress
		entries = append(entries, entry)
	}

	return entries, dberr.Wrap(rows.Err(), "Reading progress", "list reading history")
}

// PruneChapter removes a deleted chapter from every read set that holds it.
func (repository *progressRepository) PruneChapter(context context.Context, chapterID string) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = array_remove(%s, $1::uuid) WHERE $1::uuid = ANY(%s)`,
		schema.LibraryReadingProgress.Table,
		schema.LibraryReadingProgress.ChaptersRead, schema.LibraryReadingProgress.ChaptersRead,
		schema.LibraryReadingProgress.ChaptersRead,
	)

	tag, err := pgstore.Conn(context, repository.pool).Exec(context, query, chapterID)
	if err != nil {
		return 0, dberr.Wrap(err, "Reading progress", "prune chapter")
	}

	return tag.RowsAffected(), nil
}

// # Bookmark Repository

type bookmarkRepository struct {
	pool *pgxpool.Pool
}

// NewBookmarkRepository constructs a PostgreSQL backed bookmark store.
func NewBookmarkRepository(pool *pgxpool.Pool) BookmarkRepository {
	return &bookmarkRepository{pool: pool}
}

// Add bookmarks a manga. Adding an existing bookmark is a no-op.
func (repository *bookmarkRepository) Add(context context.Context, userID, mangaID string) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		schema.LibraryBookmark.Table, schema.LibraryBookmark.UserID, schema.LibraryBookmark.MangaID,
	)

	_, err := pgstore.Conn(context, repository.pool).Exec(context, query, userID, mangaID)
	return dberr.Wrap(err, "Manga", "add bookmark")
}

// Remove deletes a bookmark and reports whether one existed.
func (repository *bookmarkRepository) Remove(context context.Context, userID, mangaID string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.LibraryBookmark.Table, schema.LibraryBookmark.UserID, schema.LibraryBookmark.MangaID,
	)

	tag, err := pgstore.Conn(context, repository.pool).Exec(context, query, userID, mangaID)
	if err != nil {
		return false, dberr.Wrap(err, "Bookmark", "remove bookmark")
	}

	return tag.RowsAffected() > 0, nil
}

// ListByUser returns the reader's bookmarks joined with manga, newest first.
func (repository *bookmarkRepository) ListByUser(context context.Context, userID string) ([]*Bookmark, error) {
	query := fmt.Sprintf(`
		SELECT b.%s::text, m.%s, m.%s, m.%s, b.%s
		FROM %s b
		JOIN %s m ON m.%s = b.%s
		WHERE b.%s = $1
		ORDER BY b.%s DESC`,
		schema.LibraryBookmark.MangaID,
		schema.CoreManga.Title, schema.CoreManga.Slug, schema.CoreManga.CoverImage,
		schema.LibraryBookmark.CreatedAt,
		schema.LibraryBookmark.Table,
		schema.CoreManga.Table, schema.CoreManga.ID, schema.LibraryBookmark.MangaID,
		schema.LibraryBookmark.UserID,
		schema.LibraryBookmark.CreatedAt,
	)

	rows, err := pgstore.Conn(context, repository.pool).Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "Bookmark", "list bookmarks")
	}

	bookmarks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Bookmark, error) {
		bookmark := &Bookmark{}
		err := row.Scan(&bookmark.MangaID, &bookmark.MangaTitle, &bookmark.MangaSlug, &bookmark.CoverImage, &bookmark.CreatedAt)
		return bookmark, err
	})

	return bookmarks, dberr.Wrap(err, "Bookmark", "list bookmarks")
}

// # Custom List Repository

type listRepository struct {
	pool *pgxpool.Pool
}

// NewListRepository constructs a PostgreSQL backed custom list store.
func NewListRepository(pool *pgxpool.Pool) ListRepository {
	return &listRepository{pool: pool}
}

// listSelect reads a list with its manga IDs aggregated in insertion order.
func listSelect() string {
	return fmt.Sprintf(`
		SELECT l.%s::text, l.%s::text, l.%s, l.%s, l.%s, l.%s, l.%s,
		       COALESCE(ARRAY(SELECT i.%s::text FROM %s i WHERE i.%s = l.%s ORDER BY i.%s), '{}')
		FROM %s l`,
		schema.LibraryCustomList.ID, schema.LibraryCustomList.UserID,
		schema.LibraryCustomList.Name, schema.LibraryCustomList.Description, schema.LibraryCustomList.IsPublic,
		schema.LibraryCustomList.CreatedAt, schema.LibraryCustomList.UpdatedAt,
		schema.LibraryCustomListItem.MangaID, schema.LibraryCustomListItem.Table,
		schema.LibraryCustomListItem.ListID, schema.LibraryCustomList.ID, schema.LibraryCustomListItem.AddedAt,
		schema.LibraryCustomList.Table,
	)
}

func scanList(row pgx.Row) (*List, error) {
	list := &List{}
	err := row.Scan(&list.ID, &list.UserID, &list.Name, &list.Description, &list.IsPublic,
		&list.CreatedAt, &list.UpdatedAt, &list.MangaIDs)
	return list, err
}

// Create inserts an empty list.
func (repository *listRepository) Create(context context.Context, list *List) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s`,
		schema.LibraryCustomList.Table,
		schema.LibraryCustomList.ID, schema.LibraryCustomList.UserID, schema.LibraryCustomList.Name,
		schema.LibraryCustomList.Description, schema.LibraryCustomList.IsPublic,
		schema.LibraryCustomList.CreatedAt, schema.LibraryCustomList.UpdatedAt,
	)

	err := pgstore.Conn(context, repository.pool).QueryRow(context, query,
		list.ID, list.UserID, list.Name, list.Description, list.IsPublic,
	).Scan(&list.CreatedAt, &list.UpdatedAt)

	return dberr.Wrap(err, "List", "create list")
}

// FindByID returns a list with its items.
func (repository *listRepository) FindByID(context context.Context, id string) (*List, error) {
	query := fmt.Sprintf(`%s WHERE l.%s = $1`, listSelect(), schema.LibraryCustomList.ID)

	list, err := scanList(pgstore.Conn(context, repository.pool).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "List", "find list")
	}

	return list, nil
}

// ListByUser returns a reader's lists, optionally only the public ones.
func (repository *listRepository) ListByUser(context context.Context, userID string, publicOnly bool) ([]*List, error) {
	query := fmt.Sprintf(`%s WHERE l.%s = $1 AND (NOT $2 OR l.%s) ORDER BY l.%s DESC`,
		listSelect(), schema.LibraryCustomList.UserID, schema.LibraryCustomList.IsPublic, schema.LibraryCustomList.CreatedAt,
	)

	rows, err := pgstore.Conn(context, repository.pool).Query(context, query, userID, publicOnly)
	if err != nil {
		return nil, dberr.Wrap(err, "List", "list lists")
	}

	lists, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*List, error) {
		return scanList(row)
	})

	return lists, dberr.Wrap(err, "List", "list lists")
}

// Update writes the list metadata.
func (repository *listRepository) Update(context context.Context, list *List) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = now()
		WHERE %s = $1
		RETURNING %s`,
		schema.LibraryCustomList.Table,
		schema.LibraryCustomList.Name, schema.LibraryCustomList.Description, schema.LibraryCustomList.IsPublic,
		schema.LibraryCustomList.UpdatedAt,
		schema.LibraryCustomList.ID,
		schema.LibraryCustomList.UpdatedAt,
	)

	err := pgstore.Conn(context, repository.pool).QueryRow(context, query,
		list.ID, list.Name, list.Description, list.IsPublic,
	).Scan(&list.UpdatedAt)

	return dberr.Wrap(err, "List", "update list")
}

// Delete removes a list and its items.
func (repository *listRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.LibraryCustomList.Table, schema.LibraryCustomList.ID)

	tag, err := pgstore.Conn(context, repository.pool).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "List", "delete list")
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "List", "delete list")
	}

	return nil
}

// AddItem adds a manga to a list. Adding a manga twice is a no-op.
func (repository *listRepository) AddItem(context context.Context, listID, mangaID string) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		schema.LibraryCustomListItem.Table, schema.LibraryCustomListItem.ListID, schema.LibraryCustomListItem.MangaID,
	)

	_, err := pgstore.Conn(context, repository.pool).Exec(context, query, listID, mangaID)
	return dberr.Wrap(err, "Manga", "add list item")
}

// RemoveItem removes a manga from a list.
func (repository *listRepository) RemoveItem(context context.Context, listID, mangaID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.LibraryCustomListItem.Table, schema.LibraryCustomListItem.ListID, schema.LibraryCustomListItem.MangaID,
	)

	tag, err := pgstore.Conn(context, repository.pool).Exec(context, query, listID, mangaID)
	if err != nil {
		return dberr.Wrap(err, "List item", "remove list item")
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "List item", "remove list item")
	}

	return nil
}
