// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/mangaverse/internal/platform/apperr"
)

// PostgreSQL SQLSTATE codes we classify.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
//   - pgx.ErrNoRows becomes NotFound(resource).
//   - Unique violations become Conflict.
//   - Foreign key violations become NotFound for the referenced row.
//   - Check violations become ValidationError.
//   - Malformed input such as a non-UUID id becomes NotFound(resource).
//   - Connection failures become Unavailable.
//
// Anything else is returned as a wrapped plain error and rendered as 500.
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	if apperr.IsAppError(err) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case codeUniqueViolation:
			conflict := apperr.Conflict(resource + " already exists")
			conflict.Cause = err
			return conflict
		case codeForeignKeyViolation:
			notFound := apperr.NotFound("Referenced resource")
			notFound.Cause = err
			return notFound
		case codeCheckViolation:
			return apperr.ValidationError("Value violates a " + resource + " constraint")
		case codeInvalidText:
			notFound := apperr.NotFound(resource)
			notFound.Cause = err
			return notFound
		}
	}

	if IsUnavailable(err) {
		return apperr.Unavailable(err)
	}

	return fmt.Errorf("postgres: failed to %s: %w", action, err)
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgError *pgconn.PgError
	return errors.As(err, &pgError) && pgError.Code == codeUniqueViolation
}

// IsUnavailable reports whether err means the database could not be reached.
func IsUnavailable(err error) bool {
	var connectError *pgconn.ConnectError
	if errors.As(err, &connectError) {
		return true
	}
	var netError *net.OpError
	if errors.As(err, &netError) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
