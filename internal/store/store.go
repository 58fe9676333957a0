// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store defines the persistence contract shared by the Postgres,
// MongoDB and in-memory backends. Lookups by id return (nil, nil) when the
// record does not exist; only infrastructure failures produce an error.
package store

import (
	"context"

	"github.com/google/uuid"

	"shelfkeeper/internal/models"
)

// CategoryRepository persists categories.
type CategoryRepository interface {
	// Create inserts c, assigning its ID and timestamps.
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	// FindByName returns the first category whose name matches exactly.
	FindByName(ctx context.Context, name string) (*models.Category, error)
	// FindByIDs returns the categories that exist among ids, ordered by name.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error)
	// List returns every category ordered by name ascending.
	List(ctx context.Context) ([]models.Category, error)
	// Update overwrites name and description. Returns nil if the id is unknown.
	Update(ctx context.Context, c *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

// ItemRepository persists items together with their category references.
type ItemRepository interface {
	Create(ctx context.Context, i *models.Item) (*models.Item, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	// FindByCategory returns items referencing categoryID, ordered by name.
	FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Item, error)
	List(ctx context.Context) ([]models.Item, error)
	// Update overwrites every field but the id. Returns nil if the id is unknown.
	Update(ctx context.Context, i *models.Item) (*models.Item, error)
	// Delete removes the item. Deleting a missing id is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

// Store is a constructed handle over one backend. Callers own its lifecycle:
// Migrate once at startup, Close on shutdown.
type Store interface {
	Categories() CategoryRepository
	Items() ItemRepository
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
