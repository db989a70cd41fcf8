// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// # Password Hashing

// HashPassword returns the bcrypt hash of password at the default cost.
// Passwords longer than 72 bytes are rejected by bcrypt rather than truncated.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("sec: password exceeds 72 bytes: %w", err)
	}
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether password matches the stored bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
