// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
)

// UserRepository is the persistence the credential flows need. Lookups return
// apperr.NotFound when no account matches.
type UserRepository interface {
	FindByID(context context.Context, id string) (*User, error)

	// FindByLogin matches login against the email, case-insensitively, or the
	// exact username.
	FindByLogin(context context.Context, login string) (*User, error)

	// Create returns apperr.Conflict when the email or username is taken.
	Create(context context.Context, user *User) error

	UpdatePassword(context context.Context, userID, passwordHash string) error
}
