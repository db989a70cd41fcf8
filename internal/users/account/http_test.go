// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangaverse/internal/platform/ctxutil"
	"github.com/taibuivan/mangaverse/internal/platform/sec"
	"github.com/taibuivan/mangaverse/internal/users/account"
)

func serveAs(f *fixture, userID string, role sec.UserRole, method, target, body string) *httptest.ResponseRecorder {
	routes := account.NewHandler(f.service).Routes()

	request := httptest.NewRequest(method, target, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if userID != "" {
		claims := &sec.AuthClaims{UserID: userID, Role: string(role)}
		request = request.WithContext(ctxutil.WithClaims(request.Context(), claims))
	}

	recorder := httptest.NewRecorder()
	routes.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_Routes checks authentication, role gates and payload shapes.
*/
func TestHandler_Routes(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name   string
		userID string
		role   sec.UserRole
		method string
		target string
		body   string
		status int
	}{
		{"anonymous_me", "", "", http.MethodGet, "/me", "", http.StatusUnauthorized},
		{"own_me", "alice", sec.RoleUser, http.MethodGet, "/me", "", http.StatusOK},
		{"public_profile", "", "", http.MethodGet, "/bob", "", http.StatusOK},
		{"missing_profile", "", "", http.MethodGet, "/ghost", "", http.StatusNotFound},
		{"bad_filter", "alice", sec.RoleUser, http.MethodPatch, "/me/preferences", `{"content_filter":"gore"}`, http.StatusBadRequest},
		{"reader_lists_users", "alice", sec.RoleUser, http.MethodGet, "/", "", http.StatusForbidden},
		{"admin_lists_users", "admin", sec.RoleAdmin, http.MethodGet, "/?limit=2", "", http.StatusOK},
		{"admin_promotes", "admin", sec.RoleAdmin, http.MethodPut, "/alice/role", `{"role":"moderator"}`, http.StatusOK},
		{"admin_own_role", "admin", sec.RoleAdmin, http.MethodPut, "/admin/role", `{"role":"user"}`, http.StatusUnprocessableEntity},
		{"admin_deletes", "admin", sec.RoleAdmin, http.MethodDelete, "/bob", "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serveAs(f, tt.userID, tt.role, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, recorder.Code, recorder.Body.String())
		})
	}
}

/*
TestHandler_PreferencesPayload verifies the preferences envelope and that private fields stay hidden.
*/
func TestHandler_PreferencesPayload(t *testing.T) {
	f := newFixture()

	updated := serveAs(f, "alice", sec.RoleUser, http.MethodPatch, "/me/preferences", `{"content_filter":"erotica","notify_new_chapters":false}`)
	require.Equal(t, http.StatusOK, updated.Code, updated.Body.String())
	assert.JSONEq(t, `{"data":{"content_filter":"erotica","notify_new_chapters":false}}`, updated.Body.String())

	public := serveAs(f, "", "", http.MethodGet, "/alice", "")
	require.Equal(t, http.StatusOK, public.Code)

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(public.Body.Bytes(), &envelope))
	assert.NotContains(t, envelope.Data, "email")
	assert.Equal(t, "alice", envelope.Data["username"])
}
