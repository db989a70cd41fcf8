// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/platform/validate"
)

func fields(t *testing.T, err error) []string {
	t.Helper()

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)

	names := make([]string, len(appErr.Details))
	for i, detail := range appErr.Details {
		names[i] = detail.Field
	}
	return names
}

/*
TestValidator_StringRules runs each string rule against passing and failing input.
*/
func TestValidator_StringRules(t *testing.T) {
	tests := []struct {
		name  string
		apply func(v *validate.Validator)
		valid bool
	}{
		{"required_ok", func(v *validate.Validator) { v.Required("title", "Berserk") }, true},
		{"required_blank", func(v *validate.Validator) { v.Required("title", "   ") }, false},
		{"min_len_counts_runes", func(v *validate.Validator) { v.MinLen("title", "ワンピース", 5) }, true},
		{"min_len_short", func(v *validate.Validator) { v.MinLen("username", "ab", 3) }, false},
		{"max_len_counts_runes", func(v *validate.Validator) { v.MaxLen("title", "進撃の巨人", 5) }, true},
		{"max_len_long", func(v *validate.Validator) { v.MaxLen("title", "Vinland Saga", 5) }, false},
		{"email_ok", func(v *validate.Validator) { v.Email("email", "reader@mangaverse.app") }, true},
		{"email_missing_domain", func(v *validate.Validator) { v.Email("email", "reader@") }, false},
		{"url_https", func(v *validate.Validator) { v.URL("cover_image", "https://cdn.mangaverse.app/c/1.webp") }, true},
		{"url_relative", func(v *validate.Validator) { v.URL("cover_image", "/c/1.webp") }, false},
		{"url_ftp", func(v *validate.Validator) { v.URL("cover_image", "ftp://example.org/1.webp") }, false},
		{"one_of_ok", func(v *validate.Validator) { v.OneOf("reaction", "like", "like", "dislike") }, true},
		{"one_of_unknown", func(v *validate.Validator) { v.OneOf("reaction", "love", "like", "dislike") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			tt.apply(v)

			assert.Equal(t, !tt.valid, v.HasErrors())
			if tt.valid {
				assert.NoError(t, v.Err())
			} else {
				assert.Len(t, fields(t, v.Err()), 1)
			}
		})
	}
}

/*
TestValidator_NumericRules covers rating scores and chapter numbering.
*/
func TestValidator_NumericRules(t *testing.T) {
	v := &validate.Validator{}
	v.Range("score", 11, 1, 10).NonNegative("number", -0.5).Custom("page", true, "Must be at least 1")
	assert.Equal(t, []string{"score", "number", "page"}, fields(t, v.Err()))

	ok := &validate.Validator{}
	ok.Range("score", 10, 1, 10).NonNegative("number", 10.5).Custom("page", false, "unused")
	assert.NoError(t, ok.Err())
}

/*
TestValidator_AccumulatesInOrder reports every failure of a chain at once.
*/
func TestValidator_AccumulatesInOrder(t *testing.T) {
	v := &validate.Validator{}
	err := v.
		Required("username", "").
		MinLen("username", "", 3).
		Email("email", "not-an-email").
		Err()

	assert.Equal(t, []string{"username", "username", "email"}, fields(t, err))
}

/*
TestRequiredError builds a single-field failure.
*/
func TestRequiredError(t *testing.T) {
	err := validate.RequiredError("role", "must be one of user, moderator, admin")
	assert.Equal(t, []string{"role"}, fields(t, err))
	assert.Equal(t, "must be one of user, moderator, admin", err.Details[0].Message)
}
