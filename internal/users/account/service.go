// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	pgstore "github.com/taibuivan/mangaverse/internal/platform/postgres"
	"github.com/taibuivan/mangaverse/internal/platform/sec"
	"github.com/taibuivan/mangaverse/internal/platform/validate"
	"github.com/taibuivan/mangaverse/internal/users/auth"
	"github.com/taibuivan/mangaverse/pkg/pointer"
)

// # Service Layer

// Service orchestrates business logic for user accounts and preferences.
type Service struct {
	accountRepository AccountRepository
	transactor        pgstore.Transactor
	remover           ContentRemover
	logger            *slog.Logger
}

// NewService constructs a new [Service]. remover may be nil when no
// aggregate keeps references to user content.
func NewService(accountRepo AccountRepository, transactor pgstore.Transactor, remover ContentRemover, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		transactor:        transactor,
		remover:           remover,
		logger:            logger,
	}
}

func requireUser(caller sec.Caller) error {
	if caller.UserID == "" {
		return apperr.Unauthorized("Authentication required")
	}
	return nil
}

func requireAdmin(caller sec.Caller) error {
	if err := requireUser(caller); err != nil {
		return err
	}
	if !caller.Role.AtLeast(sec.RoleAdmin) {
		return apperr.Forbidden("Administrator role required")
	}
	return nil
}

// # Profile Management

// GetProfile retrieves the full private identity of the caller.
func (service *Service) GetProfile(context context.Context, caller sec.Caller) (*auth.User, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	return service.accountRepository.FindByID(context, caller.UserID)
}

// PublicProfile is the subset of an account anyone may see.
type PublicProfile struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	ProfileImage string       `json:"profile_image,omitempty"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
}

// GetPublicProfile returns the public view of any account.
func (service *Service) GetPublicProfile(context context.Context, userID string) (*PublicProfile, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	return &PublicProfile{
		ID:           user.ID,
		Username:     user.Username,
		ProfileImage: user.ProfileImage,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
	}, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
type UpdateProfileInput struct {
	ProfileImage *string `json:"profile_image"`
}

/*
UpdateProfile applies a partial set of changes to the caller's account.

Description: A nil field is left untouched. An empty profile image clears it.

Returns:
  - *auth.User: The updated user profile
  - error: Validation or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, caller sec.Caller, input UpdateProfileInput) (*auth.User, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	if input.ProfileImage == nil {
		return service.accountRepository.FindByID(context, caller.UserID)
	}

	image := strings.TrimSpace(*input.ProfileImage)
	if image != "" {
		validator := &validate.Validator{}
		if err := validator.URL(FieldProfileImage, image).MaxLen(FieldProfileImage, image, 2048).Err(); err != nil {
			return nil, err
		}
	}

	user, err := service.accountRepository.UpdateProfileImage(context, caller.UserID, image)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", caller.UserID))
	return user, nil
}

/*
DeleteAccount permanently removes the caller's account.

Description: Ratings and comments are detached from catalog aggregates first.
Both steps share one transaction.
*/
func (service *Service) DeleteAccount(context context.Context, caller sec.Caller) error {
	if err := requireUser(caller); err != nil {
		return err
	}

	if err := service.deleteUser(context, caller.UserID); err != nil {
		return err
	}

	service.logger.Warn("user_account_deleted", slog.String("user_id", caller.UserID))
	return nil
}

func (service *Service) deleteUser(ctx context.Context, userID string) error {
	return service.transactor.WithinTx(ctx, func(txContext context.Context) error {
		if _, err := service.accountRepository.FindByID(txContext, userID); err != nil {
			return err
		}

		if service.remover != nil {
			if err := service.remover.RemoveUserContent(txContext, userID); err != nil {
				return fmt.Errorf("account_service_remove_content_failed: %w", err)
			}
		}

		return service.accountRepository.Delete(txContext, userID)
	})
}

// # Preferences Management

// GetPreferences returns the reader settings of the caller.
func (service *Service) GetPreferences(context context.Context, caller sec.Caller) (*Preferences, error) {
	user, err := service.GetProfile(context, caller)
	if err != nil {
		return nil, err
	}

	return &Preferences{ContentFilter: user.ContentFilter, NotifyNewChapters: user.NotifyNewChapters}, nil
}

// PreferencesInput is a partial update of [Preferences].
type PreferencesInput struct {
	ContentFilter     *auth.ContentFilter `json:"content_filter"`
	NotifyNewChapters *bool               `json:"notify_new_chapters"`
}

/*
UpdatePreferences merges the provided settings into the caller's preferences.

Returns:
  - *Preferences: The persisted settings
  - error: Validation or storage failures
*/
func (service *Service) UpdatePreferences(context context.Context, caller sec.Caller, input PreferencesInput) (*Preferences, error) {
	current, err := service.GetPreferences(context, caller)
	if err != nil {
		return nil, err
	}

	if input.ContentFilter != nil {
		if !input.ContentFilter.IsValid() {
			return nil, validate.RequiredError(FieldContentFilter, "must be one of safe, suggestive, erotica, pornographic")
		}
		current.ContentFilter = *input.ContentFilter
	}

	current.NotifyNewChapters = pointer.Fallback(input.NotifyNewChapters, current.NotifyNewChapters)

	user, err := service.accountRepository.UpdatePreferences(context, caller.UserID, *current)
	if err != nil {
		return nil, fmt.Errorf("account_service_save_preferences_failed: %w", err)
	}

	service.logger.Info("user_preferences_updated",
		slog.String("user_id", caller.UserID),
		slog.String("content_filter", string(user.ContentFilter)),
		slog.Bool("notify_new_chapters", user.NotifyNewChapters),
	)

	return &Preferences{ContentFilter: user.ContentFilter, NotifyNewChapters: user.NotifyNewChapters}, nil
}

// # Administration

// ListUsers returns one page of accounts. Administrators only.
func (service *Service) ListUsers(context context.Context, caller sec.Caller, filter UserFilter) ([]*auth.User, int, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, 0, err
	}

	if filter.Role != "" && !filter.Role.IsValid() {
		return nil, 0, validate.RequiredError(FieldRole, "must be one of user, moderator, admin")
	}

	filter.Page = filter.Page.Clamp()
	filter.Query = strings.TrimSpace(filter.Query)

	return service.accountRepository.List(context, filter)
}

/*
UpdateUserRole changes another account's role. Administrators only.

Description: Administrators cannot change their own role, so the last
administrator can never demote themselves out of the system.
*/
func (service *Service) UpdateUserRole(context context.Context, caller sec.Caller, userID string, role sec.UserRole) (*auth.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	if !role.IsValid() {
		return nil, validate.RequiredError(FieldRole, "must be one of user, moderator, admin")
	}

	if caller.Owns(userID) {
		return nil, apperr.Unprocessable("Administrators cannot change their own role")
	}

	user, err := service.accountRepository.UpdateRole(context, userID, role)
	if err != nil {
		return nil, err
	}

	service.logger.Warn("user_role_updated",
		slog.String("admin_id", caller.UserID),
		slog.String("user_id", userID),
		slog.String("role", string(role)),
	)

	return user, nil
}

// DeleteUser removes another account. Administrators only.
func (service *Service) DeleteUser(context context.Context, caller sec.Caller, userID string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	if caller.Owns(userID) {
		return apperr.Unprocessable("Use account deletion to remove your own account")
	}

	if err := service.deleteUser(context, userID); err != nil {
		return err
	}

	service.logger.Warn("user_deleted_by_admin",
		slog.String("admin_id", caller.UserID),
		slog.String("user_id", userID),
	)

	return nil
}
