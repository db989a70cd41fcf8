// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the identity boundary of the platform.

It owns the User entity, registration with bcrypt password hashing and the
login flow that exchanges credentials for an RS256 access token.

# Architecture

Entities defined here have no storage dependencies. The account package builds
profile, preference and administration use cases on top of [User].
*/
package auth

import (
	"time"

	"github.com/taibuivan/mangaverse/internal/platform/sec"
)

// # Domain Entities

// ContentFilter is the most explicit content rating a reader wants to see.
type ContentFilter string

const (
	FilterSafe         ContentFilter = "safe"
	FilterSuggestive   ContentFilter = "suggestive"
	FilterErotica      ContentFilter = "erotica"
	FilterPornographic ContentFilter = "pornographic"
)

// IsValid reports whether f is a recognised [ContentFilter].
func (f ContentFilter) IsValid() bool {
	switch f {
	case FilterSafe, FilterSuggestive, FilterErotica, FilterPornographic:
		return true
	}
	return false
}

// User represents a registered account.
type User struct {
	ID                string        `json:"id"`
	Username          string        `json:"username"`
	Email             string        `json:"email"`
	PasswordHash      string        `json:"-"`
	ProfileImage      string        `json:"profile_image,omitempty"`
	Role              sec.UserRole  `json:"role"`
	ContentFilter     ContentFilter `json:"content_filter"`
	NotifyNewChapters bool          `json:"notify_new_chapters"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// Field names reported in validation errors.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldLogin           = "login"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
)
