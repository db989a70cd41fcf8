// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond writes every API response in one of three JSON envelopes:
//
//	{"data": ...}                      single resource
//	{"data": [...], "meta": {...}}     paginated list
//	{"error": "...", "code": "...", "details": [...]}
//
// Handlers never call json.Encoder directly.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/platform/ctxutil"
	"github.com/taibuivan/mangaverse/pkg/pagination"
)

// # Envelopes

// SuccessEnvelope wraps a single resource.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// PaginatedEnvelope wraps one page of a list and its [pagination.Meta].
type PaginatedEnvelope struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// ErrorEnvelope carries the client-facing part of an [apperr.AppError].
type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// # Writers

// JSON writes payload with an explicit status.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes 200 with data in a [SuccessEnvelope].
func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Data: data})
}

// Created writes 201 with data in a [SuccessEnvelope].
func Created(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusCreated, SuccessEnvelope{Data: data})
}

// Paginated writes 200 with a list page and its metadata.
func Paginated(writer http.ResponseWriter, data any, metadata pagination.Meta) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{Data: data, Meta: metadata})
}

// NoContent writes 204.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

/*
Error renders err as an [ErrorEnvelope].

Description: Errors outside the apperr taxonomy become a generic 500 so that
driver messages never reach the client. Every 5xx is logged with the request
ID for correlation.
*/
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	context := request.Context()
	logger := ctxutil.Logger(context)

	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= http.StatusInternalServerError {
		logger.ErrorContext(context, "request_failed",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.RequestID(context)),
			slog.Any("cause", err),
		)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}
