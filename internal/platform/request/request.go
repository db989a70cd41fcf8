// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil extracts inputs from inbound HTTP requests: JSON bodies,
chi path parameters and the caller identity left by the auth middleware.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/platform/ctxutil"
	"github.com/taibuivan/mangaverse/internal/platform/sec"
	"github.com/taibuivan/mangaverse/internal/platform/validate"
)

/*
DecodeJSON decodes the request body into target.

Parameters:
  - request: *http.Request
  - target: any (pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON for an empty or malformed body
*/
func DecodeJSON(request *http.Request, target any) error {
	if request.Body == nil {
		return validate.ErrInvalidJSON
	}
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// ID returns a named path parameter such as {mangaID}, {ref} or {lang}.
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
RequiredClaims returns the verified token claims of an authenticated request.

Returns:
  - *sec.AuthClaims: Claims set by middleware.Authenticate
  - error: apperr.Unauthorized for anonymous requests
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.Claims(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

// Caller returns the requester's identity. Services decide whether an
// anonymous caller is acceptable.
func Caller(request *http.Request) sec.Caller {
	return ctxutil.Caller(request.Context())
}
