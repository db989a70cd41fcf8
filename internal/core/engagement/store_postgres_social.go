// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangaverse/internal/platform/database/schema"
	"github.com/taibuivan/mangaverse/internal/platform/dberr"
	pgstore "github.com/taibuivan/mangaverse/internal/platform/postgres"
)

// # Rating Repository

type ratingRepository struct {
	pool *pgxpool.Pool
}

// NewRatingRepository constructs a PostgreSQL backed rating store.
func NewRatingRepository(pool *pgxpool.Pool) RatingRepository {
	return &ratingRepository{pool: pool}
}

var ratingColumns = fmt.Sprintf("%s::text, %s::text, %s::text, %s, %s, %s, %s",
	schema.SocialRating.ID, schema.SocialRating.UserID, schema.SocialRating.MangaID,
	schema.SocialRating.Score, schema.SocialRating.Review,
	schema.SocialRating.CreatedAt, schema.SocialRating.UpdatedAt,
)

func scanRating(row pgx.Row) (*Rating, error) {
	rating := &Rating{}
	err := row.Scan(&rating.ID, &rating.UserID, &rating.MangaID, &rating.Score, &rating.Review, &rating.CreatedAt, &rating.UpdatedAt)
	return rating, err
}

/*
Upsert writes the reader's rating for a manga.

Description: The (userid, mangaid) unique key turns a second rating into an
update of the first, so the stored ID and creation time are kept.
*/
func (repository *ratingRepository) Upsert(context context.Context, rating *Rating) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (%s, %s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = now()
		RETURNING %s::text, %s, %s`,
		schema.SocialRating.Table,
		schema.SocialRating.ID, schema.SocialRating.UserID, schema.SocialRating.MangaID,
		schema.SocialRating.Score, schema.SocialRating.Review,
		schema.SocialRating.UserID, schema.SocialRating.MangaID,
		schema.SocialRating.Score, schema.SocialRating.Score,
		schema.SocialRating.Review, schema.SocialRating.Review,
		schema.SocialRating.UpdatedAt,
		schema.SocialRating.ID, schema.SocialRating.CreatedAt, schema.SocialRating.UpdatedAt,
	)

	err := pgstore.Conn(context, repository.pool).QueryRow(context, query,
		rating.ID, rating.UserID, rating.MangaID, rating.Score, rating.Review,
	).Scan(&rating.ID, &rating.CreatedAt, &rating.UpdatedAt)

	return dberr.Wrap(err, "Rating", "upsert rating")
}

// Delete removes the reader's rating for a manga.
func (repository *ratingRepository) Delete(context context.Context, userID, mangaID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.SocialRating.Table, schema.SocialRating.UserID, schema.SocialRating.MangaID,
	)

	tag, err := pgstore.Conn(context, repository.pool).Exec(context, query, userID, mangaID)
	if err != nil {
		return dberr.Wrap(err, "Rating", "delete rating")
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Rating", "delete rating")
	}

	return nil
}

// Find returns the reader's rating for a manga.
func (repository *ratingRepository) Find(context context.Context, userID, mangaID string) (*Rating, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		ratingColumns, schema.SocialRating.Table, schema.SocialRating.UserID, schema.SocialRating.MangaID,
	)

	rating, err := scanRating(pgstore.Conn(context, repository.pool).QueryRow(context, query, userID, mangaID))
	if err != nil {
		return nil, dberr.Wrap(err, "Rating", "find rating")
	}

	return rating, nil
}

// ListByManga returns every rating of a manga, newest first.
func (repository *ratingRepository) ListByManga(context context.Context, mangaID string) ([]*Rating, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		ratingColumns, schema.SocialRating.Table, schema.SocialRating.MangaID, schema.SocialRating.UpdatedAt,
	)

	rows, err := pgstore.Conn(context, repository.pool).Query(context, query, mangaID)
	if err != nil {
		return nil, dberr.Wrap(err, "Rating", "list ratings")
	}
	defer rows.Close()

	ratings := []*Rating{}
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "Rating", "scan rating")
		}
		ratings = append(ratings, rating)
	}

	return ratings, dberr.Wrap(rows.Err(), "Rating", "list ratings")
}

// ScoresForManga returns the score of every rating of a manga.
func (repository *ratingRepository) ScoresForManga(context context.Context, mangaID string) ([]int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.SocialRating.Score, schema.SocialRating.Table, schema.SocialRating.MangaID,
	)

	rows, err := pgstore.Conn(context, repository.pool).Query(context, query, mangaID)
	if err != nil {
		return nil, dberr.Wrap(err, "Rating", "list scores")
	}

	scores, err := pgx.CollectRows(rows, pgx.RowTo[int])
	return scores, dberr.Wrap(err, "Rating", "list scores")
}

// MangasRatedBy returns the IDs of every manga the user rated.
func (repository *ratingRepository) MangasRatedBy(context context.Context, userID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s::text FROM %s WHERE %s = $1`,
		schema.SocialRating.MangaID, schema.SocialRating.Table, schema.SocialRating.UserID,
	)

	rows, err := pgstore.Conn(context, repository.pool).Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "Rating", "list rated mangas")
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	return ids, dberr.Wrap(err, "Rating", "list rated mangas")
}

// # Comment Repository

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository constructs a PostgreSQL backed comment store.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

var commentColumns = fmt.Sprintf(
	"%s::text, %s::text, COALESCE(%s::text, ''), COALESCE(%s::text, ''), %s, %s, %s, %s::text[], %s::text[], %s, %s",
	schema.SocialComment.ID, schema.SocialComment.UserID,
	schema.SocialComment.MangaID, schema.SocialComment.ChapterID,
	schema.SocialComment.Content, schema.SocialComment.Status, schema.SocialComment.Replies,
	schema.SocialComment.Likes, schema.SocialComment.Dislikes,
	schema.SocialComment.CreatedAt, schema.SocialComment.UpdatedAt,
)

func scanComment(row pgx.Row) (*Comment, error) {
	comment := &Comment{}
	var repliesJSON []byte

	err := row.Scan(
		&comment.ID, &comment.UserID, &comment.MangaID, &comment.ChapterID,
		&comment.Content, &comment.Status, &repliesJSON,
		&comment.Likes, &comment.Dislikes,
		&comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(repliesJSON, &comment.Replies); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal replies: %w", err)
	}

	return comment, nil
}

// nullableID maps an empty reference to SQL NULL.
func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// Create inserts a comment on a manga or a chapter.
func (repository *commentRepository) Create(context context.Context, comment *Comment) error {
	replies, err := json.Marshal(comment.Replies)
	if err != nil {
		return fmt.Errorf("postgres: failed to marshal replies: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s`,
		schema.SocialComment.Table,
		schema.SocialComment.ID, schema.SocialComment.UserID,
		schema.SocialComment.MangaID, schema.SocialComment.ChapterID,
		schema.SocialComment.Content, schema.SocialComment.Status, schema.SocialComment.Replies,
		schema.SocialComment.CreatedAt, schema.SocialComment.UpdatedAt,
	)

	err = pgstore.Conn(context, repository.pool).QueryRow(context, query,
		comment.ID, comment.UserID, nullableID(comment.MangaID), nullableID(comment.ChapterID),
		comment.Content, comment.Status, replies,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)

	return dberr.Wrap(err, "Comment", "create comment")
}

// FindByID returns a comment.
func (repository *commentRepository) FindByID(context context.Context, id string) (*Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		commentColumns, schema.SocialComment.Table, schema.SocialComment.ID,
	)

	comment, err := scanComment(pgstore.Conn(context, repository.pool).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Comment", "find comment")
	}

	return comment, nil
}

// LockByID returns a comment and holds its row lock for the current transaction.
func (repository *commentRepository) LockByID(context context.Context, id string) (*Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
		commentColumns, schema.SocialComment.Table, schema.SocialComment.ID,
	)

	comment, err := scanComment(pgstore.Conn(context, repository.pool).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Comment", "lock comment")
	}

	return comment, nil
}

// Update writes the mutable comment fields.
func (repository *commentRepository) Update(context context.Context, comment *Comment) error {
	replies, err := json.Marshal(comment.Replies)
	if err != nil {
		return fmt.Errorf("postgres: failed to marshal replies: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5::uuid[], %s = $6::uuid[], %s = now()
		WHERE %s = $1
		RETURNING %s`,
		schema.SocialComment.Table,
		schema.SocialComment.Content, schema.SocialComment.Status, schema.SocialComment.Replies,
		schema.SocialComment.Likes, schema.SocialComment.Dislikes, schema.SocialComment.UpdatedAt,
		schema.SocialComment.ID,
		schema.SocialComment.UpdatedAt,
	)

	err = pgstore.Conn(context, repository.pool).QueryRow(context, query,
		comment.ID, comment.Content, comment.Status, replies, comment.Likes, comment.Dislikes,
	).Scan(&comment.UpdatedAt)

	return dberr.Wrap(err, "Comment", "update comment")
}

// Delete removes a comment.
func (repository *commentRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.SocialComment.Table, schema.SocialComment.ID)

	tag, err := pgstore.Conn(context, repository.pool).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "Comment", "delete comment")
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Comment", "delete comment")
	}

	return nil
}

// ListByTarget returns the comments of a manga or chapter, oldest first.
func (repository *commentRepository) ListByTarget(context context.Context, target CommentTarget, includeRejected bool) ([]*Comment, error) {
	column, id := schema.SocialComment.MangaID, target.MangaID
	if target.ChapterID != "" {
		column, id = schema.SocialComment.ChapterID, target.ChapterID
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND ($2 OR %s <> $3) ORDER BY %s ASC`,
		commentColumns, schema.SocialComment.Table, column,
		schema.SocialComment.Status, schema.SocialComment.CreatedAt,
	)

	rows, err := pgstore.Conn(context, repository.pool).Query(context, query, id, includeRejected, CommentRejected)
	if err != nil {
		return nil, dberr.Wrap(err, "Comment", "list comments")
	}
	defer rows.Close()

	comments := []*Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "Comment", "scan comment")
		}
		comments = append(comments, comment)
	}

	return comments, dberr.Wrap(rows.Err(), "Comment", "list comments")
}

// ListByUser returns every comment written by a user.
func (repository *commentRepository) ListByUser(context context.Context, userID string) ([]*Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		commentColumns, schema.SocialComment.Table, schema.SocialComment.UserID, schema.SocialComment.CreatedAt,
	)

	rows, err := pgstore.Conn(context, repository.pool).Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "Comment", "list user comments")
	}
	defer rows.Close()

	comments := []*Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "Comment", "scan comment")
		}
		comments = append(comments, comment)
	}

	return comments, dberr.Wrap(rows.Err(), "Comment", "list user comments")
}
