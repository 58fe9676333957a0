// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package postgres implements store.Store on PostgreSQL through database/sql
// and the pgx driver. The schema is owned by the database package migrations.
package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"shelfkeeper/internal/database"
	"shelfkeeper/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store wraps a *sql.DB. The caller opens the pool; Close closes it.
type Store struct {
	db         *sql.DB
	categories *CategoryStore
	items      *ItemStore
}

// New returns a Store backed by db.
func New(db *sql.DB) *Store {
	return &Store{
		db:         db,
		categories: NewCategoryStore(db),
		items:      NewItemStore(db),
	}
}

// Categories returns the category repository.
func (s *Store) Categories() store.CategoryRepository { return s.categories }

// Items returns the item repository.
func (s *Store) Items() store.ItemRepository { return s.items }

// Migrate applies the embedded goose migrations.
func (s *Store) Migrate(_ context.Context) error {
	return database.Migrate(s.db)
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// uuidStrings renders ids for an = ANY($1::uuid[]) parameter.
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
