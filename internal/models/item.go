// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// itemPath is the canonical path prefix for item detail pages.
const itemPath = "/inventory/item/"

// Item is a stocked product. CategoryIDs is what gets stored; Categories is
// filled in by reference expansion and never persisted.
type Item struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InStock     int             `json:"in_stock"`
	Price       decimal.Decimal `json:"price"`
	CategoryIDs []uuid.UUID     `json:"category_ids"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Virtual field populated by the inventory services.
	Categories []Category `json:"categories,omitempty"`
}

// URL returns the canonical detail path for the item.
func (i Item) URL() string {
	return itemPath + i.ID.String()
}

// HasCategory reports whether the item references the given category.
func (i Item) HasCategory(id uuid.UUID) bool {
	for _, c := range i.CategoryIDs {
		if c == id {
			return true
		}
	}
	return false
}
