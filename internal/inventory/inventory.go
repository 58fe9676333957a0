// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package inventory implements the category and item workflows: input
// normalization, validation, referential checks and the store calls that
// follow. Handlers turn the returned outcomes into pages or redirects.
package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"shelfkeeper/internal/models"
	"shelfkeeper/internal/store"
)

// Counts is the pair of totals shown on the index page.
type Counts struct {
	Items      int `json:"items"`
	Categories int `json:"categories"`
}

// CountsCache stores Counts between mutations. Implementations must treat
// failures as misses.
type CountsCache interface {
	Counts(ctx context.Context) (Counts, bool)
	SetCounts(ctx context.Context, c Counts)
	InvalidateCounts(ctx context.Context)
}

// Option configures a service.
type Option func(*options)

type options struct {
	counts CountsCache
}

// WithCountsCache makes the services read and invalidate cached totals.
func WithCountsCache(c CountsCache) Option {
	return func(o *options) { o.counts = c }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) invalidateCounts(ctx context.Context) {
	if o.counts != nil {
		o.counts.InvalidateCounts(ctx)
	}
}

// countTotals reads both totals concurrently.
func countTotals(ctx context.Context, categories store.CategoryRepository, items store.ItemRepository) (Counts, error) {
	var c Counts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := items.Count(gctx)
		if err != nil {
			return fmt.Errorf("count items: %w", err)
		}
		c.Items = n
		return nil
	})
	g.Go(func() error {
		n, err := categories.Count(gctx)
		if err != nil {
			return fmt.Errorf("count categories: %w", err)
		}
		c.Categories = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return Counts{}, err
	}
	return c, nil
}

// expand fills Categories on each item from its CategoryIDs, keeping the
// stored reference order. References to deleted categories are skipped.
func expand(ctx context.Context, categories store.CategoryRepository, items []models.Item) error {
	var ids []uuid.UUID
	for _, it := range items {
		ids = append(ids, it.CategoryIDs...)
	}
	if len(ids) == 0 {
		return nil
	}

	found, err := categories.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("expand categories: %w", err)
	}
	byID := make(map[uuid.UUID]models.Category, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}

	for i := range items {
		items[i].Categories = make([]models.Category, 0, len(items[i].CategoryIDs))
		for _, id := range items[i].CategoryIDs {
			if c, ok := byID[id]; ok {
				items[i].Categories = append(items[i].Categories, c)
			}
		}
	}
	return nil
}
