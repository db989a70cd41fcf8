// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangaverse/internal/platform/middleware"
	requestutil "github.com/taibuivan/mangaverse/internal/platform/request"
	"github.com/taibuivan/mangaverse/internal/platform/respond"
	"github.com/taibuivan/mangaverse/internal/platform/validate"
)

// Handler exposes the credential endpoints under /api/v1/auth.
type Handler struct {
	service *Service
}

// NewHandler wires a [Handler] to the auth [Service].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the auth endpoints.
//
//	POST /register         public
//	POST /login            public
//	POST /change-password  bearer token
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.With(middleware.RequireAuth).Post("/change-password", handler.changePassword)

	return router
}

// # Payloads

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// tokenResponse is the body of a successful login. ExpiresIn is in seconds.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        *User  `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// # Endpoints

// register answers 201 with the new user, 400 on bad input and 409 when the
// username or email is taken.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input RegisterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.service.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, user)
}

// login answers 200 with a bearer token, or 401 for any credential mismatch.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input LoginInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	session, err := handler.service.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tokenResponse{
		AccessToken: session.AccessToken,
		TokenType:   session.TokenType,
		ExpiresIn:   int64(session.ExpiresIn / time.Second),
		User:        session.User,
	})
}

// changePassword requires the current password even though the caller already
// holds a valid token.
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body changePasswordRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.service.ChangePassword(request.Context(), claims.UserID, body.CurrentPassword, body.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, messageResponse{Message: "Password changed"})
}
