// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuid issues the primary keys of every table: UUIDv7 strings, which
// sort by creation time and keep PostgreSQL B-tree inserts append-only.
package uuid

import "github.com/google/uuid"

// New returns a fresh UUIDv7 string. It panics only if the OS entropy source fails.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}

// IsValid reports whether s is a canonical 36-character UUID of any version.
// Manga references use it to tell an ID from a slug.
func IsValid(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
