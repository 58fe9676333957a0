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

// CategoryStore manages the categories collection.
type CategoryStore struct {
	col *mongod.Collection
}

func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	out := *c
	out.ID = uuid.New()
	out.CreatedAt = now()
	out.UpdatedAt = out.CreatedAt

	if _, err := s.col.InsertOne(ctx, toCategoryModel(&out)); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &out, nil
}

func (s *CategoryStore) findOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) (*models.Category, error) {
	var m categoryModel
	err := s.col.FindOne(ctx, filter, opts...).Decode(&m)
	if isNoDocuments(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fromCategoryModel(&m)
}

func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.findOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindByName returns the oldest category with exactly this name.
func (s *CategoryStore) FindByName(ctx context.Context, name string) (*models.Category, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	c, err := s.findOne(ctx, bson.M{"name": name}, opts)
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return c, nil
}

func (s *CategoryStore) find(ctx context.Context, filter any) ([]models.Category, error) {
	cursor, err := s.col.Find(ctx, filter, byName())
	if err != nil {
		return nil, err
	}

	var ms []categoryModel
	if err := cursor.All(ctx, &ms); err != nil {
		return nil, err
	}

	cats := make([]models.Category, 0, len(ms))
	for i := range ms {
		c, err := fromCategoryModel(&ms[i])
		if err != nil {
			return nil, err
		}
		cats = append(cats, *c)
	}
	return cats, nil
}

func (s *CategoryStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	refs := make([]string, len(ids))
	for i, id := range ids {
		refs[i] = id.String()
	}
	cats, err := s.find(ctx, bson.M{"_id": bson.M{"$in": refs}})
	if err != nil {
		return nil, fmt.Errorf("find categories by ids: %w", err)
	}
	return cats, nil
}

func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	cats, err := s.find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// Update overwrites name and description. Returns nil if the id is unknown.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) (*models.Category, error) {
	update := bson.M{"$set": bson.M{
		"name":        c.Name,
		"description": c.Description,
		"updated_at":  now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var m categoryModel
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": c.ID.String()}, update, opts).Decode(&m)
	if isNoDocuments(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return fromCategoryModel(&m)
}

func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": id.String()}); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (s *CategoryStore) Count(ctx context.Context) (int, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return int(n), nil
}
