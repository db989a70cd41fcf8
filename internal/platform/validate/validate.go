// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate collects field-level failures and reports them as a single
// VALIDATION_ERROR.
//
//	validator := &validate.Validator{}
//	validator.Required("title", input.Title).MaxLen("title", input.Title, 255)
//	if err := validator.Err(); err != nil {
//		return nil, err
//	}
//
// Services own domain validation. Repositories never validate.
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/mangaverse/internal/platform/apperr"
)

// ErrInvalidJSON is returned for a request body that cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator accumulates failures in call order. Use one per operation.
type Validator struct {
	errs []apperr.FieldError
}

// # String Rules

// Required fails on an empty or whitespace-only value.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MinLen counts runes, so "ワンピース" has length 5.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("Minimum %d characters", min))
	}
	return v
}

// MaxLen counts runes.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// Email fails unless value parses as a single RFC 5322 address.
func (v *Validator) Email(field, value string) *Validator {
	if _, err := mail.ParseAddress(value); err != nil {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// URL fails unless value is an absolute http or https URL.
func (v *Validator) URL(field, value string) *Validator {
	parsed, err := url.Parse(value)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		v.add(field, "Must be a valid http(s) URL")
	}
	return v
}

// OneOf fails unless value is one of allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, candidate := range allowed {
		if value == candidate {
			return v
		}
	}
	v.add(field, "Must be one of: "+strings.Join(allowed, ", "))
	return v
}

// # Numeric Rules

// Range fails unless min <= value <= max.
func (v *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.add(field, fmt.Sprintf("Must be between %d and %d", min, max))
	}
	return v
}

// NonNegative fails on values below zero. Chapter numbers may be fractional.
func (v *Validator) NonNegative(field string, value float64) *Validator {
	if value < 0 {
		v.add(field, "Must not be negative")
	}
	return v
}

// Custom records message when failed is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// # Results

// HasErrors reports whether any rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// Err returns nil when every rule passed, otherwise one VALIDATION_ERROR
// carrying every failure.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError builds a single-field VALIDATION_ERROR outside a chain.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{Field: field, Message: message})
}
