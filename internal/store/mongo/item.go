// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"shelfkeeper/internal/models"
)

// ItemStore manages the items collection.
type ItemStore struct {
	col *mongod.Collection
}

func (s *ItemStore) Create(ctx context.Context, i *models.Item) (*models.Item, error) {
	out := *i
	out.ID = uuid.New()
	out.CreatedAt = now()
	out.UpdatedAt = out.CreatedAt
	out.CategoryIDs = append([]uuid.UUID(nil), i.CategoryIDs...)
	out.Categories = nil

	m := toItemModel(&out)
	if _, err := s.col.InsertOne(ctx, m); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return &out, nil
}

func (s *ItemStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var m itemModel
	err := s.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&m)
	if isNoDocuments(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find item by id: %w", err)
	}
	return fromItemModel(&m)
}

func (s *ItemStore) find(ctx context.Context, filter any) ([]models.Item, error) {
	cursor, err := s.col.Find(ctx, filter, byName())
	if err != nil {
		return nil, err
	}

	var ms []itemModel
	if err := cursor.All(ctx, &ms); err != nil {
		return nil, err
	}

	items := make([]models.Item, 0, len(ms))
	for n := range ms {
		it, err := fromItemModel(&ms[n])
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, nil
}

// FindByCategory matches items whose category array contains categoryID.
func (s *ItemStore) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Item, error) {
	items, err := s.find(ctx, bson.M{"category": categoryID.String()})
	if err != nil {
		return nil, fmt.Errorf("find items by category: %w", err)
	}
	return items, nil
}

func (s *ItemStore) List(ctx context.Context) ([]models.Item, error) {
	items, err := s.find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Update overwrites every field but the id and creation time. Returns nil
// if the id is unknown.
func (s *ItemStore) Update(ctx context.Context, i *models.Item) (*models.Item, error) {
	m := toItemModel(i)
	update := bson.M{"$set": bson.M{
		"name":        m.Name,
		"description": m.Description,
		"in_stock":    m.InStock,
		"price":       m.Price,
		"category":    m.Category,
		"updated_at":  now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var out itemModel
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": m.ID}, update, opts).Decode(&out)
	if isNoDocuments(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return fromItemModel(&out)
}

func (s *ItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": id.String()}); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (s *ItemStore) Count(ctx context.Context) (int, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return int(n), nil
}
