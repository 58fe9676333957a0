// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package inventory

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when an id matches no category or item.
	ErrNotFound = errors.New("inventory: not found")

	// ErrValidation is the sentinel FieldErrors unwraps to.
	ErrValidation = errors.New("inventory: validation failed")
)

// FieldError is a validation message attached to a form field.
type FieldError struct {
	Field   string
	Message string
}

// FieldErrors lists every rejected field of a form submission, in form order.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, e := range fe {
		parts[i] = e.Field + ": " + e.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (fe FieldErrors) Unwrap() error { return ErrValidation }

// Get returns the first message for field, or "" if the field passed.
func (fe FieldErrors) Get(field string) string {
	for _, e := range fe {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}
