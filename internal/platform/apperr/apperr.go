// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr is the error taxonomy shared by every service and handler.

Services return an [*AppError] for anything the client should see; the HTTP
layer renders it through respond.Error. Any other error reaching a handler is
treated as a 500 and its text is never sent to the client.

	| Code                | Status | Raised for                                  |
	|---------------------|--------|---------------------------------------------|
	| NOT_FOUND           | 404    | missing manga, chapter, comment, list, user |
	| CONFLICT            | 409    | duplicate chapter number, slug, username    |
	| VALIDATION_ERROR    | 400    | bad field values, carries FieldError detail |
	| UNAUTHORIZED        | 401    | missing or invalid credentials              |
	| FORBIDDEN           | 403    | acting on content owned by someone else     |
	| UNPROCESSABLE       | 422    | well-formed but disallowed requests         |
	| RATE_LIMITED        | 429    | per-IP token bucket exhausted               |
	| SERVICE_UNAVAILABLE | 503    | database or cache unreachable               |
	| INTERNAL_ERROR      | 500    | anything else                               |
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable codes carried in the "code" field of error responses.
const (
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeValidation    = "VALIDATION_ERROR"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeUnprocessable = "UNPROCESSABLE"
	CodeRateLimited   = "RATE_LIMITED"
	CodeUnavailable   = "SERVICE_UNAVAILABLE"
	CodeInternal      = "INTERNAL_ERROR"
)

// AppError is a client-facing failure. Cause is for server logs only.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError is one failed field of a VALIDATION_ERROR.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap exposes Cause to [errors.Is] and [errors.As].
func (e *AppError) Unwrap() error { return e.Cause }

func newError(code string, status int, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// # Client Errors

// NotFound reports a missing resource, e.g. NotFound("Manga") -> "Manga not found".
func NotFound(resource string) *AppError {
	return newError(CodeNotFound, http.StatusNotFound, resource+" not found")
}

// Unauthorized reports missing or rejected credentials.
func Unauthorized(msg string) *AppError {
	return newError(CodeUnauthorized, http.StatusUnauthorized, msg)
}

// Forbidden reports an authenticated caller acting beyond their rights.
func Forbidden(msg string) *AppError {
	return newError(CodeForbidden, http.StatusForbidden, msg)
}

// Conflict reports a uniqueness violation.
func Conflict(msg string) *AppError {
	return newError(CodeConflict, http.StatusConflict, msg)
}

// ValidationError reports invalid input with optional per-field detail.
func ValidationError(msg string, details ...FieldError) *AppError {
	err := newError(CodeValidation, http.StatusBadRequest, msg)
	err.Details = details
	return err
}

// Unprocessable reports a valid request the current state does not allow.
func Unprocessable(msg string) *AppError {
	return newError(CodeUnprocessable, http.StatusUnprocessableEntity, msg)
}

// RateLimited reports an exhausted request budget.
func RateLimited(retryAfterSeconds int) *AppError {
	return newError(CodeRateLimited, http.StatusTooManyRequests,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
}

// # Server Errors

// Internal hides an unexpected failure behind a generic message.
func Internal(cause error) *AppError {
	err := newError(CodeInternal, http.StatusInternalServerError, "An unexpected error occurred")
	err.Cause = cause
	return err
}

// Unavailable reports an unreachable backing store.
func Unavailable(cause error) *AppError {
	err := newError(CodeUnavailable, http.StatusServiceUnavailable, "The service is temporarily unavailable")
	err.Cause = cause
	return err
}

// # Classification

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsAppError reports whether err's chain contains an [*AppError].
func IsAppError(err error) bool {
	return As(err) != nil
}

// IsNotFound reports whether err is a NOT_FOUND [AppError].
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsConflict reports whether err is a CONFLICT [AppError].
func IsConflict(err error) bool {
	return hasCode(err, CodeConflict)
}

func hasCode(err error, code string) bool {
	appErr := As(err)
	return appErr != nil && appErr.Code == code
}
