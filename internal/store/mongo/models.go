// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mongo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shelfkeeper/internal/models"
)

// ── Category model ────────────────────────────────────────────────

type categoryModel struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toCategoryModel(c *models.Category) *categoryModel {
	return &categoryModel{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func fromCategoryModel(m *categoryModel) (*models.Category, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse category id %q: %w", m.ID, err)
	}
	return &models.Category{
		ID:          id,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

// ── Item model ────────────────────────────────────────────────────

// itemModel keeps the price as its canonical decimal string; Decimal128
// holds only 34 significant digits.
type itemModel struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	InStock     int       `bson:"in_stock"`
	Price       string    `bson:"price"`
	Category    []string  `bson:"category"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toItemModel(i *models.Item) *itemModel {
	refs := make([]string, len(i.CategoryIDs))
	for n, id := range i.CategoryIDs {
		refs[n] = id.String()
	}
	return &itemModel{
		ID:          i.ID.String(),
		Name:        i.Name,
		Description: i.Description,
		InStock:     i.InStock,
		Price:       i.Price.String(),
		Category:    refs,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func fromItemModel(m *itemModel) (*models.Item, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse item id %q: %w", m.ID, err)
	}
	price, err := decimal.NewFromString(m.Price)
	if err != nil {
		return nil, fmt.Errorf("decode price %q: %w", m.Price, err)
	}
	refs := make([]uuid.UUID, 0, len(m.Category))
	for _, s := range m.Category {
		ref, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("parse category ref %q: %w", s, err)
		}
		refs = append(refs, ref)
	}
	return &models.Item{
		ID:          id,
		Name:        m.Name,
		Description: m.Description,
		InStock:     m.InStock,
		Price:       price,
		CategoryIDs: refs,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}
