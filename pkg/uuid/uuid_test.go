// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mangaverse/pkg/uuid"
)

/*
TestNew issues distinct, valid, time-ordered identifiers.
*/
func TestNew(t *testing.T) {
	first, second := uuid.New(), uuid.New()

	assert.True(t, uuid.IsValid(first))
	assert.NotEqual(t, first, second)
	assert.LessOrEqual(t, first[:13], second[:13])
}

/*
TestIsValid distinguishes identifiers from slugs.
*/
func TestIsValid(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"0190a5f2-7c1e-7d3a-9b4f-2c6e8a1d0f35", true},
		{"one-piece", false},
		{"{0190a5f2-7c1e-7d3a-9b4f-2c6e8a1d0f35}", false},
		{"urn:uuid:0190a5f2-7c1e-7d3a-9b4f-2c6e8a1d0f35", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, uuid.IsValid(tt.value))
		})
	}
}
