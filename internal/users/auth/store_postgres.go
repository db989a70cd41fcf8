// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangaverse/internal/platform/database/schema"
	"github.com/taibuivan/mangaverse/internal/platform/dberr"
	pgstore "github.com/taibuivan/mangaverse/internal/platform/postgres"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// UserSelect lists the account columns in the order [ScanUser] expects.
func UserSelect() string {
	columns := schema.UsersAccount.Columns()
	selected := make([]string, len(columns))

	for index, column := range columns {
		if column == schema.UsersAccount.ID {
			column += "::text"
		}
		selected[index] = column
	}

	return strings.Join(selected, ", ")
}

// ScanUser hydrates a user from a row selected with [UserSelect].
// extra receives any trailing columns.
func ScanUser(row pgx.Row, extra ...any) (*User, error) {
	user := &User{}

	targets := []any{
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.ProfileImage,
		&user.Role, &user.ContentFilter, &user.NotifyNewChapters, &user.CreatedAt, &user.UpdatedAt,
	}

	if err := row.Scan(append(targets, extra...)...); err != nil {
		return nil, err
	}

	return user, nil
}

/*
Create persists a new user record into the users.account table.

Description: A duplicate username or email surfaces as Conflict through the
unique constraints.

Returns:
  - error: apperr.Conflict or database errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s`,
		schema.UsersAccount.Table,
		schema.UsersAccount.ID, schema.UsersAccount.Username, schema.UsersAccount.Email,
		schema.UsersAccount.PasswordHash, schema.UsersAccount.ProfileImage, schema.UsersAccount.Role,
		schema.UsersAccount.ContentFilter, schema.UsersAccount.NotifyNewChapters,
		schema.UsersAccount.CreatedAt, schema.UsersAccount.UpdatedAt,
	)

	err := pgstore.Conn(context, repository.pool).QueryRow(context, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.ProfileImage,
		user.Role, user.ContentFilter, user.NotifyNewChapters,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	return dberr.Wrap(err, "User", "create user")
}

// FindByID retrieves a user record by ID.
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		UserSelect(), schema.UsersAccount.Table, schema.UsersAccount.ID,
	)

	user, err := ScanUser(pgstore.Conn(context, repository.pool).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "find user")
	}

	return user, nil
}

/*
FindByLogin retrieves a user by email or username.

Description: Email comparison is case-insensitive, username comparison is exact.
*/
func (repository *PostgresUserRepository) FindByLogin(context context.Context, login string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE lower(%s) = lower($1) OR %s = $1 LIMIT 1`,
		UserSelect(), schema.UsersAccount.Table, schema.UsersAccount.Email, schema.UsersAccount.Username,
	)

	user, err := ScanUser(pgstore.Conn(context, repository.pool).QueryRow(context, query, login))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "find user by login")
	}

	return user, nil
}

// UpdatePassword replaces only the user's password hash.
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, passwordHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		schema.UsersAccount.Table, schema.UsersAccount.PasswordHash,
		schema.UsersAccount.UpdatedAt, schema.UsersAccount.ID,
	)

	tag, err := pgstore.Conn(context, repository.pool).Exec(context, query, userID, passwordHash)
	if err != nil {
		return dberr.Wrap(err, "User", "update password")
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "User", "update password")
	}

	return nil
}
