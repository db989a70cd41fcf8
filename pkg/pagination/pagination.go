// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination holds the page/limit contract shared by every list endpoint
// (manga listings, notifications, user administration).
//
// Requests carry "?page=2&limit=50". Responses carry a [Meta] block next to the
// data so clients can render page controls without a second count query.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 20
	// MaxLimit caps a single page.
	MaxLimit = 100
	// DefaultPage is the first page (1-indexed).
	DefaultPage = 1
)

// Params holds the requested page and limit.
type Params struct {
	Page  int
	Limit int
}

// Clamp replaces out-of-range values with the defaults.
func (p Params) Clamp() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		p.Limit = DefaultLimit
	}
	return p
}

// Offset returns the SQL OFFSET for the page.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination block of a list response.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta derives TotalPages from total and limit.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// FromRequest parses "page" and "limit" from the query string and clamps them.
func FromRequest(r *http.Request) Params {
	return Params{
		Page:  parseIntParam(r, "page", DefaultPage),
		Limit: parseIntParam(r, "limit", DefaultLimit),
	}.Clamp()
}

func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	return n
}
