// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangaverse/internal/platform/middleware"
	requestutil "github.com/taibuivan/mangaverse/internal/platform/request"
	"github.com/taibuivan/mangaverse/internal/platform/respond"
	"github.com/taibuivan/mangaverse/internal/platform/sec"
	"github.com/taibuivan/mangaverse/pkg/pagination"
)

// Handler serves /api/v1/users.
type Handler struct {
	service *Service
}

// NewHandler wires a [Handler] to the account [Service].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the self-service endpoints under /me, the public profile and
// the admin-only listing and role management.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Route("/me", func(me chi.Router) {
		me.Use(middleware.RequireAuth)

		me.Get("/", handler.getMe)
		me.Patch("/", handler.updateMe)
		me.Delete("/", handler.deleteMe)
		me.Get("/preferences", handler.getPreferences)
		me.Patch("/preferences", handler.updatePreferences)
	})

	router.Get("/{userID}", handler.getUserProfile)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Get("/", handler.listUsers)
		admin.Put("/{userID}/role", handler.updateRole)
		admin.Delete("/{userID}", handler.deleteUser)
	})

	return router
}

// # Self Service

// getMe returns the caller's full account, email included.
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.service.GetProfile(request.Context(), requestutil.Caller(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	var input UpdateProfileInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateProfile(request.Context(), requestutil.Caller(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteAccount(request.Context(), requestutil.Caller(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// getUserProfile never exposes the email.
func (handler *Handler) getUserProfile(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.service.GetPublicProfile(request.Context(), requestutil.ID(request, "userID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

func (handler *Handler) getPreferences(writer http.ResponseWriter, request *http.Request) {
	preferences, err := handler.service.GetPreferences(request.Context(), requestutil.Caller(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, preferences)
}

func (handler *Handler) updatePreferences(writer http.ResponseWriter, request *http.Request) {
	var input PreferencesInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	preferences, err := handler.service.UpdatePreferences(request.Context(), requestutil.Caller(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, preferences)
}

// # Administration

// listUsers accepts q, role, page and limit query parameters.
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	users, total, err := handler.service.ListUsers(request.Context(), requestutil.Caller(request), UserFilter{
		Query: request.URL.Query().Get("q"),
		Role:  sec.UserRole(request.URL.Query().Get(FieldRole)),
		Page:  page,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(page.Page, page.Limit, total))
}

type updateRoleRequest struct {
	Role sec.UserRole `json:"role"`
}

// updateRole answers 422 when an admin targets their own account.
func (handler *Handler) updateRole(writer http.ResponseWriter, request *http.Request) {
	var input updateRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateUserRole(request.Context(), requestutil.Caller(request), requestutil.ID(request, "userID"), input.Role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteUser(request.Context(), requestutil.Caller(request), requestutil.ID(request, "userID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
