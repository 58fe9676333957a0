// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// categoryPath is the canonical path prefix for category detail pages.
const categoryPath = "/inventory/category/"

// Category groups inventory items. Name is unique by application check only.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// URL returns the canonical detail path for the category.
func (c Category) URL() string {
	return categoryPath + c.ID.String()
}

// CategoryOption is a category annotated for a multi-select form.
type CategoryOption struct {
	Category
	Checked bool `json:"checked"`
}
