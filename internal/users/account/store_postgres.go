// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangaverse/internal/platform/database/schema"
	"github.com/taibuivan/mangaverse/internal/platform/dberr"
	pgstore "github.com/taibuivan/mangaverse/internal/platform/postgres"
	"github.com/taibuivan/mangaverse/internal/platform/sec"
	"github.com/taibuivan/mangaverse/internal/users/auth"
)

// # Repository Implementations

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new Postgres implementation for profile management.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// FindByID retrieves a user record from the users.account table.
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		auth.UserSelect(), schema.UsersAccount.Table, schema.UsersAccount.ID,
	)

	user, err := auth.ScanUser(pgstore.Conn(context, repository.pool).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "find account")
	}

	return user, nil
}

// update sets the given column assignments and returns the refreshed row.
func (repository *PostgresAccountRepository) update(context context.Context, id, action, assignments string, arguments ...any) (*auth.User, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s, %s = now() WHERE %s = $1 RETURNING %s`,
		schema.UsersAccount.Table, assignments, schema.UsersAccount.UpdatedAt,
		schema.UsersAccount.ID, auth.UserSelect(),
	)

	row := pgstore.Conn(context, repository.pool).QueryRow(context, query, append([]any{id}, arguments...)...)

	user, err := auth.ScanUser(row)
	if err != nil {
		return nil, dberr.Wrap(err, "User", action)
	}

	return user, nil
}

// UpdateProfileImage stores a new avatar URL. Empty clears it.
func (repository *PostgresAccountRepository) UpdateProfileImage(context context.Context, id, profileImage string) (*auth.User, error) {
	return repository.update(context, id, "update profile image",
		fmt.Sprintf("%s = $2", schema.UsersAccount.ProfileImage), profileImage)
}

// UpdatePreferences overwrites the reader settings of the account.
func (repository *PostgresAccountRepository) UpdatePreferences(context context.Context, id string, preferences Preferences) (*auth.User, error) {
	return repository.update(context, id, "update preferences",
		fmt.Sprintf("%s = $2, %s = $3", schema.UsersAccount.ContentFilter, schema.UsersAccount.NotifyNewChapters),
		preferences.ContentFilter, preferences.NotifyNewChapters)
}

// UpdateRole changes the account role.
func (repository *PostgresAccountRepository) UpdateRole(context context.Context, id string, role sec.UserRole) (*auth.User, error) {
	return repository.update(context, id, "update role",
		fmt.Sprintf("%s = $2", schema.UsersAccount.Role), role)
}

/*
List returns a filtered page of accounts and the total count.

Description: Uses COUNT(*) OVER() for the total so a page costs one query.
*/
func (repository *PostgresAccountRepository) List(context context.Context, filter UserFilter) ([]*auth.User, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total_count FROM %s WHERE 1=1`,
		auth.UserSelect(), schema.UsersAccount.Table,
	))

	arguments := []any{}

	if filter.Query != "" {
		arguments = append(arguments, filter.Query)
		queryBuilder.WriteString(fmt.Sprintf(" AND (%s ILIKE '%%' || $%d || '%%' OR %s ILIKE '%%' || $%d || '%%')",
			schema.UsersAccount.Username, len(arguments), schema.UsersAccount.Email, len(arguments)))
	}

	if filter.Role != "" {
		arguments = append(arguments, filter.Role)
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.UsersAccount.Role, len(arguments)))
	}

	arguments = append(arguments, filter.Page.Limit, filter.Page.Offset())
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC LIMIT $%d OFFSET $%d",
		schema.UsersAccount.CreatedAt, len(arguments)-1, len(arguments)))

	rows, err := pgstore.Conn(context, repository.pool).Query(context, queryBuilder.String(), arguments...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "User", "list accounts")
	}
	defer rows.Close()

	var totalCount int
	users := []*auth.User{}

	for rows.Next() {
		user, err := auth.ScanUser(rows, &totalCount)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "User", "scan account")
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "User", "list accounts")
	}

	return users, totalCount, nil
}

// Delete removes the account row. Dependent library rows cascade.
func (repository *PostgresAccountRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.UsersAccount.Table, schema.UsersAccount.ID)

	tag, err := pgstore.Conn(context, repository.pool).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "User", "delete account")
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "User", "delete account")
	}

	return nil
}
