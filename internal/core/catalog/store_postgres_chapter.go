// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/platform/database/schema"
	"github.com/taibuivan/mangaverse/internal/platform/dberr"
	pgstore "github.com/taibuivan/mangaverse/internal/platform/postgres"
)

// chapterRepository implements the [ChapterRepository] interface using pgx.
type chapterRepository struct {
	pool *pgxpool.Pool
}

// NewChapterRepository constructs a PostgreSQL backed chapter store.
func NewChapterRepository(pool *pgxpool.Pool) ChapterRepository {
	return &chapterRepository{pool: pool}
}

// chapterSelect lists the chapter columns in the order [scanChapter] expects.
func chapterSelect(alias string) string {
	columns := schema.CoreChapter.Columns()
	selected := make([]string, len(columns))

	for index, column := range columns {
		qualified := alias + "." + column
		switch column {
		case schema.CoreChapter.MangaID:
			qualified += "::text"
		case schema.CoreChapter.CommentIDs:
			qualified += "::text[]"
		}
		selected[index] = qualified
	}

	return strings.Join(selected, ", ")
}

func scanChapter(row pgx.Row) (*Chapter, error) {
	chapter := &Chapter{}
	var languagesJSON []byte

	err := row.Scan(
		&chapter.ID, &chapter.MangaID, &chapter.Number, &chapter.Volume, &chapter.ReleaseDate,
		&chapter.ReadCount, &chapter.CoverImage, &chapter.BackCoverImage, &languagesJSON,
		&chapter.CommentIDs, &chapter.CreatedAt, &chapter.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(languagesJSON, &chapter.Languages); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal language variants: %w", err)
	}

	return chapter, nil
}

// wrapChapterWrite turns the (manga, number) unique violation into a domain Conflict.
func wrapChapterWrite(err error, action string) error {
	if dberr.IsUniqueViolation(err) {
		conflict := apperr.Conflict("Chapter number already exists for this manga")
		conflict.Cause = err
		return conflict
	}
	return dberr.Wrap(err, "Chapter", action)
}

// # Chapter Repository Implementation

// ListByManga returns every chapter of a manga ordered by number.
func (repository *chapterRepository) ListByManga(context context.Context, mangaID string) ([]*Chapter, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s c WHERE c.%s = $1 ORDER BY c.%s ASC`,
		chapterSelect("c"), schema.CoreChapter.Table, schema.CoreChapter.MangaID, schema.CoreChapter.Number,
	)

	rows, err := pgstore.Conn(context, repository.pool).Query(context, query, mangaID)
	if err != nil {
		return nil, dberr.Wrap(err, "Chapter", "list chapters")
	}
	defer rows.Close()

	chapters := []*Chapter{}
	for rows.Next() {
		chapter, err := scanChapter(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "Chapter", "scan chapter")
		}
		chapters = append(chapters, chapter)
	}

	return chapters, dberr.Wrap(rows.Err(), "Chapter", "list chapters")
}

/*
ListSummaries reads the aggregate inputs of every chapter of a manga.

Description: Language codes are extracted from the JSONB variant documents in
the database, so page lists are never transferred for a recompute.
*/
func (repository *chapterRepository) ListSummaries(context context.Context, mangaID string) ([]ChapterSummary, error) {
	query := fmt.Sprintf(`
		SELECT c.%s::text, c.%s, c.%s,
			COALESCE(ARRAY(SELECT v->>'lang' FROM jsonb_array_elements(c.%s) v), '{}')
		FROM %s c
		WHERE c.%s = $1
		ORDER BY c.%s ASC`,
		schema.CoreChapter.ID, schema.CoreChapter.Number, schema.CoreChapter.CreatedAt,
		schema.CoreChapter.Languages,
		schema.CoreChapter.Table,
		schema.CoreChapter.MangaID,
		schema.CoreChapter.Number,
	)

	rows, err := pgstore.Conn(context, repository.pool).Query(context, query, mangaID)
	if err != nil {
		return nil, dberr.Wrap(err, "Chapter", "list chapter summaries")
	}
	defer rows.Close()

	summaries := []ChapterSummary{}
	for rows.Next() {
		var summary ChapterSummary
		if err := rows.Scan(&summary.ID, &summary.Number, &summary.CreatedAt, &summary.Languages); err != nil {
			return nil, dberr.Wrap(err, "Chapter", "scan chapter summary")
		}
		summaries = append(summaries, summary)
	}

	return summaries, dberr.Wrap(rows.Err(), "Chapter", "list chapter summaries")
}

// FindByID retrieves a chapter by its primary key.
func (repository *chapterRepository) FindByID(context context.Context, id string) (*Chapter, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s c WHERE c.%s = $1`,
		chapterSelect("c"), schema.CoreChapter.Table, schema.CoreChapter.ID,
	)

	chapter, err := scanChapter(pgstore.Conn(context, repository.pool).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Chapter", "find chapter by id")
	}

	return chapter, nil
}

// FindNext returns the lowest-numbered chapter above number.
func (repository *chapterRepository) FindNext(context context.Context, mangaID string, number float64) (*Chapter, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s c
		WHERE c.%s = $1 AND c.%s > $2
		ORDER BY c.%s ASC
		LIMIT 1`,
		chapterSelect("c"), schema.CoreChapter.Table,
		schema.CoreChapter.MangaID, schema.CoreChapter.Number,
		schema.CoreChapter.Number,
	)

	chapter, err := scanChapter(pgstore.Conn(context, repository.pool).QueryRow(context, query, mangaID, number))
	if err != nil {
		return nil, dberr.Wrap(err, "Chapter", "find next chapter")
	}

	return chapter, nil
}

/*
Create inserts a chapter with its embedded language variants.

Returns:
  - error: Conflict when the manga already has a chapter with this number
*/
func (repository *chapterRepository) Create(context context.Context, chapter *Chapter) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s`,
		schema.CoreChapter.Table,
		schema.CoreChapter.ID, schema.CoreChapter.MangaID, schema.CoreChapter.Number, schema.CoreChapter.Volume,
		schema.CoreChapter.ReleaseDate, schema.CoreChapter.CoverImage, schema.CoreChapter.BackCoverImage,
		schema.CoreChapter.Languages,
		schema.CoreChapter.CreatedAt, schema.CoreChapter.UpdatedAt,
	)

	languagesJSON, err := json.Marshal(chapter.Languages)
	if err != nil {
		return fmt.Errorf("postgres: failed to marshal language variants: %w", err)
	}

	err = pgstore.Conn(context, repository.pool).QueryRow(context, query,
		chapter.ID, chapter.MangaID, chapter.Number, chapter.Volume,
		chapter.ReleaseDate, chapter.CoverImage, chapter.BackCoverImage, languagesJSON,
	).Scan(&chapter.CreatedAt, &chapter.UpdatedAt)

	return wrapChapterWrite(err, "create chapter")
}

// Update rewrites the editable chapter columns and the full variant document.
func (repository *chapterRepository) Update(context context.Context, chapter *Chapter) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.CoreChapter.Table,
		schema.CoreChapter.Number, schema.CoreChapter.Volume, schema.CoreChapter.ReleaseDate,
		schema.CoreChapter.CoverImage, schema.CoreChapter.BackCoverImage, schema.CoreChapter.Languages,
		schema.CoreChapter.UpdatedAt,
		schema.CoreChapter.ID,
		schema.CoreChapter.UpdatedAt,
	)

	languagesJSON, err := json.Marshal(chapter.Languages)
	if err != nil {
		return fmt.Errorf("postgres: failed to marshal language variants: %w", err)
	}

	err = pgstore.Conn(context, repository.pool).QueryRow(context, query,
		chapter.ID, chapter.Number, chapter.Volume, chapter.ReleaseDate,
		chapter.CoverImage, chapter.BackCoverImage, languagesJSON,
	).Scan(&chapter.UpdatedAt)

	return wrapChapterWrite(err, "update chapter")
}

// Delete removes a chapter row. Its comments and notifications cascade.
func (repository *chapterRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreChapter.Table, schema.CoreChapter.ID)

	tag, err := pgstore.Conn(context, repository.pool).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "Chapter", "delete chapter")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Chapter")
	}

	return nil
}

// IncrementReadCount bumps the chapter read counter atomically.
func (repository *chapterRepository) IncrementReadCount(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1`,
		schema.CoreChapter.Table, schema.CoreChapter.ReadCount, schema.CoreChapter.ReadCount, schema.CoreChapter.ID,
	)

	tag, err := pgstore.Conn(context, repository.pool).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "Chapter", "increment chapter reads")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Chapter")
	}

	return nil
}

// AppendComment appends a comment ID to the chapter's comment list.
func (repository *chapterRepository) AppendComment(context context.Context, id, commentID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = array_append(%s, $2::uuid) WHERE %s = $1`,
		schema.CoreChapter.Table, schema.CoreChapter.CommentIDs, schema.CoreChapter.CommentIDs, schema.CoreChapter.ID,
	)

	tag, err := pgstore.Conn(context, repository.pool).Exec(context, query, id, commentID)
	if err != nil {
		return dberr.Wrap(err, "Chapter", "attach comment")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Chapter")
	}

	return nil
}

// RemoveComment removes a comment ID from the chapter's comment list.
func (repository *chapterRepository) RemoveComment(context context.Context, id, commentID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = array_remove(%s, $2::uuid) WHERE %s = $1`,
		schema.CoreChapter.Table, schema.CoreChapter.CommentIDs, schema.CoreChapter.CommentIDs, schema.CoreChapter.ID,
	)

	_, err := pgstore.Conn(context, repository.pool).Exec(context, query, id, commentID)
	return dberr.Wrap(err, "Chapter", "detach comment")
}

// # Chapter Feeds

// ListMostRead returns the most read chapters of published manga.
func (repository *chapterRepository) ListMostRead(context context.Context, limit int) ([]*ChapterFeedItem, error) {
	return repository.listFeed(context, schema.CoreChapter.ReadCount, limit)
}

// ListRecent returns the most recently created chapters of published manga.
func (repository *chapterRepository) ListRecent(context context.Context, limit int) ([]*ChapterFeedItem, error) {
	return repository.listFeed(context, schema.CoreChapter.CreatedAt, limit)
}

func (repository *chapterRepository) listFeed(context context.Context, orderColumn string, limit int) ([]*ChapterFeedItem, error) {
	query := fmt.Sprintf(`
		SELECT c.%s::text, c.%s, c.%s, c.%s, m.%s::text, m.%s, m.%s, m.%s
		FROM %s c
		JOIN %s m ON m.%s = c.%s
		WHERE m.%s = $1
		ORDER BY c.%s DESC, c.%s DESC
		LIMIT $2`,
		schema.CoreChapter.ID, schema.CoreChapter.Number, schema.CoreChapter.ReadCount, schema.CoreChapter.CreatedAt,
		schema.CoreManga.ID, schema.CoreManga.Title, schema.CoreManga.Slug, schema.CoreManga.CoverImage,
		schema.CoreChapter.Table,
		schema.CoreManga.Table, schema.CoreManga.ID, schema.CoreChapter.MangaID,
		schema.CoreManga.PublicationState,
		orderColumn, schema.CoreChapter.ID,
	)

	rows, err := pgstore.Conn(context, repository.pool).Query(context, query, string(StatePublished), limit)
	if err != nil {
		return nil, dberr.Wrap(err, "Chapter", "list chapter feed")
	}
	defer rows.Close()

	items := []*ChapterFeedItem{}
	for rows.Next() {
		item := &ChapterFeedItem{}
		err := rows.Scan(
			&item.ChapterID, &item.Number, &item.ReadCount, &item.CreatedAt,
			&item.MangaID, &item.MangaTitle, &item.MangaSlug, &item.CoverImage,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "Chapter", "scan chapter feed")
		}
		items = append(items, item)
	}

	return items, dberr.Wrap(rows.Err(), "Chapter", "list chapter feed")
}
