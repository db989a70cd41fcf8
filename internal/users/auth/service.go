// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/platform/sec"
	"github.com/taibuivan/mangaverse/internal/platform/validate"
	"github.com/taibuivan/mangaverse/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// Password and username bounds enforced on registration.
const (
	minUsernameLength = 3
	maxUsernameLength = 32
	minPasswordLength = 8
	maxPasswordLength = 72
)

// Service implements user authentication use cases.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
	accessTTL      time.Duration
	logger         *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(userRepo UserRepository, tokenProvider TokenProvider, accessTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProvider,
		accessTTL:      accessTTL,
		logger:         logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (input RegisterInput) validate() error {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, minUsernameLength).
		MaxLen(FieldUsername, input.Username, maxUsernameLength).
		Custom(FieldUsername, strings.ContainsAny(input.Username, " @"), "must not contain spaces or '@'").
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, minPasswordLength).
		MaxLen(FieldPassword, input.Password, maxPasswordLength)

	return validator.Err()
}

/*
Register validates, hashes, and persists a brand new user account.

Description: New accounts start with the user role, the safe content filter
and new chapter notifications enabled.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Validation, Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := input.validate(); err != nil {
		return nil, err
	}

	// Hash before touching storage so a slow bcrypt never holds a connection
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:                uuid.New(),
		Username:          input.Username,
		Email:             input.Email,
		PasswordHash:      hashedPassword,
		Role:              sec.RoleUser,
		ContentFilter:     FilterSafe,
		NotifyNewChapters: true,
	}

	// The unique indexes on email and username report duplicates as Conflict
	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.IsConflict(err) {
			return nil, apperr.Conflict("Username or email is already registered")
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.logger.Info("user_registered", slog.String("user_id", user.ID))
	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginSession represents a successfully issued access token.
type LoginSession struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   time.Duration `json:"-"`
	User        *User         `json:"user"`
}

/*
Login validates user credentials and issues an access token.

Description: The login may be an email or a username. Unknown accounts and
wrong passwords produce the same Unauthorized error.

Returns:
  - *LoginSession: Signed token and the authenticated user
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByLogin(context, strings.TrimSpace(input.Login))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.logger.Warn("login_rejected", slog.String("user_id", user.ID))
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(user.Role), service.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   service.accessTTL,
		User:        user,
	}, nil
}

// # Credential Management

/*
ChangePassword allows an authenticated user to update their credentials.

Description: The current password must match before the new hash is stored.
Issued access tokens stay valid until they expire.

Returns:
  - error: Validation, Unauthorized or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) error {
	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, currentPassword).
		Required(FieldNewPassword, newPassword).
		MinLen(FieldNewPassword, newPassword, minPasswordLength).
		MaxLen(FieldNewPassword, newPassword, maxPasswordLength)
	if err := validator.Err(); err != nil {
		return err
	}

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	service.logger.Info("password_changed", slog.String("user_id", userID))
	return nil
}
