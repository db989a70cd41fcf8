// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
The PostgreSQL implementation of the catalog stores.

Manga tags and chapter language variants are JSONB documents owned by their
row, so the aggregate is read and written in a single round-trip. Every
repository resolves its connection through [postgres.Conn], which makes it
participate in the transaction opened by [Service] when there is one.
*/
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangaverse/internal/platform/database/schema"
	"github.com/taibuivan/mangaverse/internal/platform/dberr"
	pgstore "github.com/taibuivan/mangaverse/internal/platform/postgres"
	"github.com/taibuivan/mangaverse/pkg/slice"
)

// # PostgreSQL Repositories

// mangaRepository implements the [MangaRepository] interface using pgx.
type mangaRepository struct {
	pool *pgxpool.Pool
}

// NewMangaRepository constructs a PostgreSQL backed manga store.
func NewMangaRepository(pool *pgxpool.Pool) MangaRepository {
	return &mangaRepository{pool: pool}
}

// mangaSelect lists the manga columns in the order [scanManga] expects.
func mangaSelect(alias string) string {
	columns := schema.CoreManga.Columns()
	selected := make([]string, len(columns))

	for index, column := range columns {
		qualified := alias + "." + column
		switch column {
		case schema.CoreManga.LatestChapterID:
			qualified += "::text"
		case schema.CoreManga.CommentIDs:
			qualified += "::text[]"
		}
		selected[index] = qualified
	}

	return strings.Join(selected, ", ")
}

// scanManga hydrates a manga from a row selected with [mangaSelect].
// extra receives any trailing columns.
func scanManga(row pgx.Row, extra ...any) (*Manga, error) {
	manga := &Manga{}
	var tagsJSON []byte

	targets := []any{
		&manga.ID, &manga.Slug, &manga.Title, &manga.Description, &manga.Author, &tagsJSON,
		&manga.Demographic, &manga.Status, &manga.PublicationState, &manga.ContentRating,
		&manga.CoverImage, &manga.BannerImage, &manga.PublishedAt, &manga.FinishedAt,
		&manga.ChapterCount, &manga.LatestChapterID, &manga.LastChapterUpdated, &manga.FirstChapterPublished, &manga.Languages,
		&manga.AverageRating, &manga.RatingCount, &manga.Reads, &manga.PopularityScore, &manga.CommentIDs,
		&manga.CreatedAt, &manga.UpdatedAt,
	}

	if err := row.Scan(append(targets, extra...)...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tagsJSON, &manga.Tags); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal tags: %w", err)
	}

	return manga, nil
}

// collectManga drains rows selected with [mangaSelect].
func collectManga(rows pgx.Rows, action string) ([]*Manga, error) {
	defer rows.Close()

	mangas := []*Manga{}
	for rows.Next() {
		manga, err := scanManga(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "Manga", action)
		}
		mangas = append(mangas, manga)
	}

	return mangas, dberr.Wrap(rows.Err(), "Manga", action)
}

// # Manga Repository Implementation

/*
List returns a filtered, paginated slice of manga and the total count.

Description: Uses COUNT(*) OVER() for the total so a page costs one query.
The window count rides on the returned rows, so a page past the end reports
a total of zero. [Service] falls back to [mangaRepository.Count] for that case.

Parameters:
  - context: context.Context
  - filter: Filter (States, genres, enums, title substring)
  - limit: int
  - offset: int

Returns:
  - []*Manga: Ordered by popularity score descending
  - int: Total matches, zero when the page is empty
  - error: Database execution errors
*/
func (repository *mangaRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Manga, int, error) {
	where, args := mangaFilterClause(filter)
	argID := len(args) + 1

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s m
		WHERE TRUE%s
		ORDER BY m.%s DESC, m.%s DESC
		LIMIT $%d OFFSET $%d
	`, mangaSelect("m"), schema.CoreManga.Table, where,
		schema.CoreManga.PopularityScore, schema.CoreManga.ID, argID, argID+1)
	args = append(args, limit, offset)

	rows, err := pgstore.Conn(context, repository.pool).Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Manga", "list manga")
	}
	defer rows.Close()

	mangas := []*Manga{}
	var totalCount int

	for rows.Next() {
		manga, err := scanManga(rows, &totalCount)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Manga", "scan manga")
		}
		mangas = append(mangas, manga)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Manga", "list manga")
	}

	return mangas, totalCount, nil
}

// Count returns how many manga match the filter.
func (repository *mangaRepository) Count(context context.Context, filter Filter) (int, error) {
	where, args := mangaFilterClause(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s m WHERE TRUE%s`, schema.CoreManga.Table, where)

	var total int
	if err := pgstore.Conn(context, repository.pool).QueryRow(context, query, args...).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "Manga", "count manga")
	}
	return total, nil
}

// mangaFilterClause renders the filter as AND conditions on alias m, with
// positional arguments starting at $1.
func mangaFilterClause(filter Filter) (string, []any) {
	var clause strings.Builder
	var args []any
	argID := 1

	// Publication state filtering
	if len(filter.States) > 0 {
		clause.WriteString(fmt.Sprintf(" AND m.%s = ANY($%d)", schema.CoreManga.PublicationState, argID))
		args = append(args, slice.Map(filter.States, func(state PublicationState) string { return string(state) }))
		argID++
	}

	// Genre filtering over the JSONB tag document
	if len(filter.Genres) > 0 {
		clause.WriteString(fmt.Sprintf(
			" AND EXISTS (SELECT 1 FROM jsonb_array_elements(m.%s) t WHERE t->>'value' = ANY($%d))",
			schema.CoreManga.Tags, argID,
		))
		args = append(args, filter.Genres)
		argID++
	}

	if len(filter.Demographic) > 0 {
		clause.WriteString(fmt.Sprintf(" AND m.%s = ANY($%d)", schema.CoreManga.Demographic, argID))
		args = append(args, slice.Map(filter.Demographic, func(value Demographic) string { return string(value) }))
		argID++
	}

	if len(filter.Status) > 0 {
		clause.WriteString(fmt.Sprintf(" AND m.%s = ANY($%d)", schema.CoreManga.Status, argID))
		args = append(args, slice.Map(filter.Status, func(value Status) string { return string(value) }))
		argID++
	}

	if len(filter.ContentRating) > 0 {
		clause.WriteString(fmt.Sprintf(" AND m.%s = ANY($%d)", schema.CoreManga.ContentRating, argID))
		args = append(args, slice.Map(filter.ContentRating, func(value ContentRating) string { return string(value) }))
		argID++
	}

	// Case-insensitive title substring
	if filter.Query != "" {
		clause.WriteString(fmt.Sprintf(" AND m.%s ILIKE '%%' || $%d || '%%'", schema.CoreManga.Title, argID))
		args = append(args, escapeLike(filter.Query))
	}

	return clause.String(), args
}

// FindByID retrieves a manga by its primary key.
func (repository *mangaRepository) FindByID(context context.Context, id string) (*Manga, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s m WHERE m.%s = $1`,
		mangaSelect("m"), schema.CoreManga.Table, schema.CoreManga.ID,
	)

	manga, err := scanManga(pgstore.Conn(context, repository.pool).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Manga", "find manga by id")
	}

	return manga, nil
}

// FindBySlug retrieves a manga by its unique slug.
func (repository *mangaRepository) FindBySlug(context context.Context, slug string) (*Manga, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s m WHERE m.%s = $1`,
		mangaSelect("m"), schema.CoreManga.Table, schema.CoreManga.Slug,
	)

	manga, err := scanManga(pgstore.Conn(context, repository.pool).QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "Manga", "find manga by slug")
	}

	return manga, nil
}

// FindByIDs retrieves every manga whose ID is in ids.
func (repository *mangaRepository) FindByIDs(context context.Context, ids []string) ([]*Manga, error) {
	if len(ids) == 0 {
		return []*Manga{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s m WHERE m.%s = ANY($1::uuid[])`,
		mangaSelect("m"), schema.CoreManga.Table, schema.CoreManga.ID,
	)

	rows, err := pgstore.Conn(context, repository.pool).Query(context, query, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "Manga", "find manga by ids")
	}

	return collectManga(rows, "find manga by ids")
}

/*
LockByID reads a manga with SELECT ... FOR UPDATE.

Description: Must run inside [pgstore.Transactor.WithinTx]; outside a
transaction the lock is released as soon as the statement completes.
*/
func (repository *mangaRepository) LockByID(context context.Context, id string) (*Manga, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s m WHERE m.%s = $1 FOR UPDATE`,
		mangaSelect("m"), schema.CoreManga.Table, schema.CoreManga.ID,
	)

	manga, err := scanManga(pgstore.Conn(context, repository.pool).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Manga", "lock manga")
	}

	return manga, nil
}

/*
Create persists a new manga row.

Parameters:
  - context: context.Context
  - manga: *Manga (ID, slug and editable metadata set by the service)

Returns:
  - error: Conflict on a duplicate slug
*/
func (repository *mangaRepository) Create(context context.Context, manga *Manga) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING %s, %s`,
		schema.CoreManga.Table,
		schema.CoreManga.ID, schema.CoreManga.Slug, schema.CoreManga.Title, schema.CoreManga.Description,
		schema.CoreManga.Author, schema.CoreManga.Tags, schema.CoreManga.Demographic, schema.CoreManga.Status,
		schema.CoreManga.PublicationState, schema.CoreManga.ContentRating, schema.CoreManga.CoverImage,
		schema.CoreManga.BannerImage, schema.CoreManga.PublishedAt, schema.CoreManga.FinishedAt,
		schema.CoreManga.CreatedAt, schema.CoreManga.UpdatedAt,
	)

	tagsJSON, err := json.Marshal(manga.Tags)
	if err != nil {
		return fmt.Errorf("postgres: failed to marshal tags: %w", err)
	}

	err = pgstore.Conn(context, repository.pool).QueryRow(context, query,
		manga.ID, manga.Slug, manga.Title, manga.Description,
		manga.Author, tagsJSON, string(manga.Demographic), string(manga.Status),
		string(manga.PublicationState), string(manga.ContentRating), manga.CoverImage,
		manga.BannerImage, manga.PublishedAt, manga.FinishedAt,
	).Scan(&manga.CreatedAt, &manga.UpdatedAt)

	return dberr.Wrap(err, "Manga", "create manga")
}

// Update persists the editable metadata of a manga.
func (repository *mangaRepository) Update(context context.Context, manga *Manga) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8,
			%s = $9, %s = $10, %s = $11, %s = $12, %s = $13, %s = $14, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.CoreManga.Table,
		schema.CoreManga.Slug, schema.CoreManga.Title, schema.CoreManga.Description, schema.CoreManga.Author,
		schema.CoreManga.Tags, schema.CoreManga.Demographic, schema.CoreManga.Status,
		schema.CoreManga.PublicationState, schema.CoreManga.ContentRating, schema.CoreManga.CoverImage,
		schema.CoreManga.BannerImage, schema.CoreManga.PublishedAt, schema.CoreManga.FinishedAt,
		schema.CoreManga.UpdatedAt,
		schema.CoreManga.ID,
		schema.CoreManga.UpdatedAt,
	)

	tagsJSON, err := json.Marshal(manga.Tags)
	if err != nil {
		return fmt.Errorf("postgres: failed to marshal tags: %w", err)
	}

	err = pgstore.Conn(context, repository.pool).QueryRow(context, query,
		manga.ID, manga.Slug, manga.Title, manga.Description, manga.Author,
		tagsJSON, string(manga.Demographic), string(manga.Status),
		string(manga.PublicationState), string(manga.ContentRating), manga.CoverImage,
		manga.BannerImage, manga.PublishedAt, manga.FinishedAt,
	).Scan(&manga.UpdatedAt)

	return dberr.Wrap(err, "Manga", "update manga")
}

// Delete removes a manga row; chapters, comments, ratings and library rows cascade.
func (repository *mangaRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreManga.Table, schema.CoreManga.ID)

	tag, err := pgstore.Conn(context, repository.pool).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "Manga", "delete manga")
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Manga", "delete manga")
	}

	return nil
}

// ApplyAggregate overwrites the chapter-derived columns of a manga.
func (repository *mangaRepository) ApplyAggregate(context context.Context, id string, aggregate Aggregate) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3::uuid, %s = $4, %s = $5,
			%s = COALESCE(%s, $6),
			%s = NOW()
		WHERE %s = $1`,
		schema.CoreManga.Table,
		schema.CoreManga.ChapterCount, schema.CoreManga.LatestChapterID,
		schema.CoreManga.LastChapterUpdated, schema.CoreManga.Languages,
		schema.CoreManga.FirstChapterPublished, schema.CoreManga.FirstChapterPublished,
		schema.CoreManga.UpdatedAt,
		schema.CoreManga.ID,
	)

	tag, err := pgstore.Conn(context, repository.pool).Exec(context, query,
		id, aggregate.ChapterCount, aggregate.LatestChapterID,
		aggregate.LastChapterUpdated, aggregate.Languages, aggregate.FirstChapterPublished,
	)
	if err != nil {
		return dberr.Wrap(err, "Manga", "apply chapter aggregate")
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Manga", "apply chapter aggregate")
	}

	return nil
}

// ApplyRatingSummary overwrites the rating-derived columns of a manga.
func (repository *mangaRepository) ApplyRatingSummary(context context.Context, id string, summary RatingSummary) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.CoreManga.Table,
		schema.CoreManga.AverageRating, schema.CoreManga.RatingCount,
		schema.CoreManga.ID,
	)

	tag, err := pgstore.Conn(context, repository.pool).Exec(context, query, id, summary.Average, summary.Count)
	if err != nil {
		return dberr.Wrap(err, "Manga", "apply rating summary")
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Manga", "apply rating summary")
	}

	return nil
}

// IncrementReads bumps the read counter and popularity score in one statement.
func (repository *mangaRepository) IncrementReads(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + 1, %s = %s + 1 WHERE %s = $1`,
		schema.CoreManga.Table,
		schema.CoreManga.Reads, schema.CoreManga.Reads,
		schema.CoreManga.PopularityScore, schema.CoreManga.PopularityScore,
		schema.CoreManga.ID,
	)

	_, err := pgstore.Conn(context, repository.pool).Exec(context, query, id)
	return dberr.Wrap(err, "Manga", "increment manga reads")
}

// AppendComment appends a comment ID to the manga's comment list.
func (repository *mangaRepository) AppendComment(context context.Context, id, commentID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = array_append(%s, $2::uuid) WHERE %s = $1`,
		schema.CoreManga.Table, schema.CoreManga.CommentIDs, schema.CoreManga.CommentIDs, schema.CoreManga.ID,
	)

	tag, err := pgstore.Conn(context, repository.pool).Exec(context, query, id, commentID)
	if err != nil {
		return dberr.Wrap(err, "Manga", "attach comment")
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Manga", "attach comment")
	}

	return nil
}

// RemoveComment removes a comment ID from the manga's comment list.
func (repository *mangaRepository) RemoveComment(context context.Context, id, commentID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = array_remove(%s, $2::uuid) WHERE %s = $1`,
		schema.CoreManga.Table, schema.CoreManga.CommentIDs, schema.CoreManga.CommentIDs, schema.CoreManga.ID,
	)

	_, err := pgstore.Conn(context, repository.pool).Exec(context, query, id, commentID)
	return dberr.Wrap(err, "Manga", "detach comment")
}

// # Relations

// ListRelations resolves the outgoing relations of a manga to summaries.
func (repository *mangaRepository) ListRelations(context context.Context, id string) ([]*RelatedManga, error) {
	query := fmt.Sprintf(`
		SELECT r.%s::text, r.%s, m.%s, m.%s, m.%s
		FROM %s r
		JOIN %s m ON m.%s = r.%s
		WHERE r.%s = $1
		ORDER BY m.%s ASC`,
		schema.CoreMangaRelation.RelatedID, schema.CoreMangaRelation.RelationshipType,
		schema.CoreManga.Title, schema.CoreManga.Slug, schema.CoreManga.CoverImage,
		schema.CoreMangaRelation.Table,
		schema.CoreManga.Table, schema.CoreManga.ID, schema.CoreMangaRelation.RelatedID,
		schema.CoreMangaRelation.MangaID,
		schema.CoreManga.Title,
	)

	rows, err := pgstore.Conn(context, repository.pool).Query(context, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, "Manga", "list relations")
	}
	defer rows.Close()

	related := []*RelatedManga{}
	for rows.Next() {
		item := &RelatedManga{}
		if err := rows.Scan(&item.MangaID, &item.RelationshipType, &item.Title, &item.Slug, &item.CoverImage); err != nil {
			return nil, dberr.Wrap(err, "Manga", "scan relation")
		}
		related = append(related, item)
	}

	return related, dberr.Wrap(rows.Err(), "Manga", "list relations")
}

// ReplaceRelations deletes every outgoing relation and inserts the given set.
func (repository *mangaRepository) ReplaceRelations(context context.Context, id string, relations []Relation) error {
	conn := pgstore.Conn(context, repository.pool)

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CoreMangaRelation.Table, schema.CoreMangaRelation.MangaID,
	)
	if _, err := conn.Exec(context, deleteQuery, id); err != nil {
		return dberr.Wrap(err, "Relation", "clear relations")
	}

	if len(relations) == 0 {
		return nil
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		SELECT $1, r.related, r.kind
		FROM unnest($2::uuid[], $3::text[]) AS r(related, kind)`,
		schema.CoreMangaRelation.Table,
		schema.CoreMangaRelation.MangaID, schema.CoreMangaRelation.RelatedID, schema.CoreMangaRelation.RelationshipType,
	)

	relatedIDs := slice.Map(relations, func(relation Relation) string { return relation.MangaID })
	kinds := slice.Map(relations, func(relation Relation) string { return string(relation.Type) })

	_, err := conn.Exec(context, insertQuery, id, relatedIDs, kinds)
	return dberr.Wrap(err, "Relation", "insert relations")
}

// # Discovery

// ListFeed returns published manga for one of the discovery feeds.
func (repository *mangaRepository) ListFeed(context context.Context, feed FeedQuery) ([]*Manga, error) {
	var where, order string
	args := []any{string(StatePublished), feed.Limit}

	switch feed.Kind {
	case FeedLatest:
		where = fmt.Sprintf("m.%s IS NOT NULL", schema.CoreManga.LastChapterUpdated)
		order = fmt.Sprintf("m.%s DESC", schema.CoreManga.LastChapterUpdated)
	case FeedNew:
		where = fmt.Sprintf("m.%s >= $3", schema.CoreManga.PublishedAt)
		order = fmt.Sprintf("m.%s DESC", schema.CoreManga.PublishedAt)
		args = append(args, feed.Since)
	default:
		where = "TRUE"
		order = fmt.Sprintf("m.%s DESC", schema.CoreManga.PopularityScore)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s m
		WHERE m.%s = $1 AND %s
		ORDER BY %s, m.%s DESC
		LIMIT $2`,
		mangaSelect("m"), schema.CoreManga.Table,
		schema.CoreManga.PublicationState, where,
		order, schema.CoreManga.ID,
	)

	rows, err := pgstore.Conn(context, repository.pool).Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "Manga", "list "+string(feed.Kind)+" feed")
	}

	return collectManga(rows, "list "+string(feed.Kind)+" feed")
}

// FindPublishedByGenres returns popular published manga sharing any genre tag.
func (repository *mangaRepository) FindPublishedByGenres(context context.Context, genres, exclude []string, limit int) ([]*Manga, error) {
	if exclude == nil {
		exclude = []string{}
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s m
		WHERE m.%s = $1
		  AND EXISTS (
			SELECT 1 FROM jsonb_array_elements(m.%s) t
			WHERE t->>'type' = $2 AND t->>'value' = ANY($3)
		  )
		  AND NOT (m.%s = ANY($4::uuid[]))
		ORDER BY m.%s DESC, m.%s DESC
		LIMIT $5`,
		mangaSelect("m"), schema.CoreManga.Table,
		schema.CoreManga.PublicationState,
		schema.CoreManga.Tags,
		schema.CoreManga.ID,
		schema.CoreManga.PopularityScore, schema.CoreManga.ID,
	)

	rows, err := pgstore.Conn(context, repository.pool).Query(context, query,
		string(StatePublished), string(TagGenre), genres, exclude, limit,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Manga", "find manga by genres")
	}

	return collectManga(rows, "find manga by genres")
}

// ListGenres counts published manga per genre tag value.
func (repository *mangaRepository) ListGenres(context context.Context) ([]GenreCount, error) {
	query := fmt.Sprintf(`
		SELECT t->>'value' AS genre, COUNT(*) AS total
		FROM %s m, jsonb_array_elements(m.%s) t
		WHERE m.%s = $1 AND t->>'type' = $2
		GROUP BY genre
		ORDER BY genre ASC`,
		schema.CoreManga.Table, schema.CoreManga.Tags,
		schema.CoreManga.PublicationState,
	)

	rows, err := pgstore.Conn(context, repository.pool).Query(context, query, string(StatePublished), string(TagGenre))
	if err != nil {
		return nil, dberr.Wrap(err, "Manga", "list genres")
	}
	defer rows.Close()

	genres := []GenreCount{}
	for rows.Next() {
		var genre GenreCount
		if err := rows.Scan(&genre.Genre, &genre.Count); err != nil {
			return nil, dberr.Wrap(err, "Manga", "scan genre")
		}
		genres = append(genres, genre)
	}

	return genres, dberr.Wrap(rows.Err(), "Manga", "list genres")
}

/*
Statistics aggregates catalogue-wide totals in two queries.

Returns:
  - *Statistics: Manga per state, chapter and read totals, mean rating over rated manga
*/
func (repository *mangaRepository) Statistics(context context.Context) (*Statistics, error) {
	conn := pgstore.Conn(context, repository.pool)

	stats := &Statistics{MangaByState: map[PublicationState]int{}}

	stateQuery := fmt.Sprintf(`SELECT %s, COUNT(*) FROM %s GROUP BY %s`,
		schema.CoreManga.PublicationState, schema.CoreManga.Table, schema.CoreManga.PublicationState,
	)

	rows, err := conn.Query(context, stateQuery)
	if err != nil {
		return nil, dberr.Wrap(err, "Manga", "count manga by state")
	}

	for rows.Next() {
		var state PublicationState
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			rows.Close()
			return nil, dberr.Wrap(err, "Manga", "scan state count")
		}
		stats.MangaByState[state] = count
		stats.TotalManga += count
	}
	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Manga", "count manga by state")
	}

	totalsQuery := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(%s), 0)::int,
			COALESCE(SUM(%s), 0)::bigint,
			COALESCE(AVG(%s) FILTER (WHERE %s > 0), 0)::float8
		FROM %s`,
		schema.CoreManga.ChapterCount,
		schema.CoreManga.Reads,
		schema.CoreManga.AverageRating, schema.CoreManga.RatingCount,
		schema.CoreManga.Table,
	)

	err = conn.QueryRow(context, totalsQuery).Scan(&stats.TotalChapters, &stats.TotalReads, &stats.AverageRating)
	if err != nil {
		return nil, dberr.Wrap(err, "Manga", "aggregate catalogue totals")
	}

	return stats, nil
}

// ListIDs returns the ID of every manga.
func (repository *mangaRepository) ListIDs(context context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s::text FROM %s ORDER BY %s`,
		schema.CoreManga.ID, schema.CoreManga.Table, schema.CoreManga.CreatedAt,
	)

	rows, err := pgstore.Conn(context, repository.pool).Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "Manga", "list manga ids")
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	return ids, dberr.Wrap(err, "Manga", "list manga ids")
}

// escapeLike escapes the LIKE wildcards in user input.
func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}
