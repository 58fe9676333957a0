// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mongo implements store.Store on MongoDB. Categories and items live
// in their own collections; an item document embeds its category ids as an
// array, which is what the blocked-delete query matches on.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"shelfkeeper/internal/store"
)

// Collection name constants.
const (
	colCategories = "categories"
	colItems      = "items"
)

var _ store.Store = (*Store)(nil)

// Store is a MongoDB implementation of store.Store. It owns the client and
// disconnects it on Close.
type Store struct {
	client *mongod.Client
	db     *mongod.Database

	categories *CategoryStore
	items      *ItemStore
}

// Connect dials uri, verifies it with a ping, and returns a Store over the
// named database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongod.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	slog.Info("mongo connected", "database", database)
	return New(client, database), nil
}

// New returns a Store over an already connected client.
func New(client *mongod.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:     client,
		db:         db,
		categories: &CategoryStore{col: db.Collection(colCategories)},
		items:      &ItemStore{col: db.Collection(colItems)},
	}
}

// Categories returns the category repository.
func (s *Store) Categories() store.CategoryRepository { return s.categories }

// Items returns the item repository.
func (s *Store) Items() store.ItemRepository { return s.items }

// Migrate creates the indexes the queries rely on.
func (s *Store) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo: migrate %s indexes: %w", col, err)
		}
	}
	slog.Info("mongo indexes ensured")
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// migrationIndexes returns the index definitions for both collections.
func migrationIndexes() map[string][]mongod.IndexModel {
	return map[string][]mongod.IndexModel{
		colCategories: {
			// Name lookups for the duplicate check. Not unique.
			{Keys: bson.D{{Key: "name", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		colItems: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
			// Multikey index over the embedded category ids.
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
	}
}

// byName sorts results by name, then id for a stable order.
func byName() *options.FindOptionsBuilder {
	return options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
}

// now returns the current UTC time truncated to what BSON dates store.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// isNoDocuments returns true when err indicates no MongoDB documents found.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongod.ErrNoDocuments)
}
