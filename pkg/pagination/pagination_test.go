// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mangaverse/pkg/pagination"
)

/*
TestFromRequest clamps page and limit into the supported range.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		want   pagination.Params
		offset int
	}{
		{"defaults", "", pagination.Params{Page: 1, Limit: 20}, 0},
		{"explicit", "?page=3&limit=50", pagination.Params{Page: 3, Limit: 50}, 100},
		{"negative_page", "?page=-2", pagination.Params{Page: 1, Limit: 20}, 0},
		{"limit_above_max", "?limit=500", pagination.Params{Page: 1, Limit: 20}, 0},
		{"malformed", "?page=two&limit=x", pagination.Params{Page: 1, Limit: 20}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := pagination.FromRequest(httptest.NewRequest("GET", "/mangas"+tt.query, nil))
			assert.Equal(t, tt.want, params)
			assert.Equal(t, tt.offset, params.Offset())
		})
	}
}

/*
TestNewMeta rounds total pages up.
*/
func TestNewMeta(t *testing.T) {
	assert.Equal(t, 3, pagination.NewMeta(1, 20, 41).TotalPages)
	assert.Equal(t, 0, pagination.NewMeta(1, 20, 0).TotalPages)
	assert.Equal(t, 0, pagination.NewMeta(1, 0, 10).TotalPages)
}
