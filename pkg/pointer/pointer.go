// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer holds generic helpers for optional fields in patch payloads.
package pointer

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}

// Fallback dereferences p, or returns fallback when the field was omitted.
func Fallback[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
