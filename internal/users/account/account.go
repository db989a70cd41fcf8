// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles profile management, reader preferences and user administration.

It lets users view and update their own account, choose which content ratings
they see and whether they are notified about new chapters. Administrators list
accounts, change roles and remove users.

# Architecture

  - Entities: [Preferences]. The account itself is [auth.User].
  - Domain: This package depends on the auth package for the User entity.
  - Cleanup: a [ContentRemover] detaches a deleted user's ratings and comments
    from catalog aggregates before the account row goes.
*/
package account

import (
	"context"

	"github.com/taibuivan/mangaverse/internal/platform/sec"
	"github.com/taibuivan/mangaverse/internal/users/auth"
	"github.com/taibuivan/mangaverse/pkg/pagination"
)

// # Domain Entities

// Preferences are the reader settings stored on the account.
type Preferences struct {
	ContentFilter     auth.ContentFilter `json:"content_filter"`
	NotifyNewChapters bool               `json:"notify_new_chapters"`
}

// UserFilter narrows the administrative user listing.
type UserFilter struct {
	// Query matches a substring of the username or email.
	Query string
	Role  sec.UserRole
	Page  pagination.Params
}

// # Field Identifiers

const (
	FieldProfileImage      = "profile_image"
	FieldContentFilter     = "content_filter"
	FieldNotifyNewChapters = "notify_new_chapters"
	FieldRole              = "role"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	// UpdateProfileImage stores a new avatar URL. Empty clears it.
	UpdateProfileImage(context context.Context, id, profileImage string) (*auth.User, error)

	// UpdatePreferences overwrites the reader settings of the account.
	UpdatePreferences(context context.Context, id string, preferences Preferences) (*auth.User, error)

	// UpdateRole changes the account role.
	UpdateRole(context context.Context, id string, role sec.UserRole) (*auth.User, error)

	/*
		List returns one page of accounts ordered by creation time, newest first.

		Returns:
		  - []*auth.User: Page content
		  - int: Total accounts matching the filter
		  - error: storage failures
	*/
	List(context context.Context, filter UserFilter) ([]*auth.User, int, error)

	// Delete removes the account row. Dependent library rows cascade.
	Delete(context context.Context, id string) error
}

// ContentRemover detaches a user's contributions from catalog aggregates.
type ContentRemover interface {
	RemoveUserContent(context context.Context, userID string) error
}
