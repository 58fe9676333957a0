// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"shelfkeeper/internal/models"
	"shelfkeeper/internal/store"
)

// CategoryService runs the category workflows.
type CategoryService struct {
	categories store.CategoryRepository
	items      store.ItemRepository
	opts       options
}

// NewCategoryService creates a CategoryService. The item repository is
// needed to find items that block a delete.
func NewCategoryService(categories store.CategoryRepository, items store.ItemRepository, opts ...Option) *CategoryService {
	return &CategoryService{categories: categories, items: items, opts: buildOptions(opts)}
}

// CategoryOutcome reports the result of a create or update.
type CategoryOutcome struct {
	// Category is the written category, or the existing one whose name
	// matched. Nil when the form was rejected.
	Category *models.Category
	// Form is the trimmed submission, echoed back on rejection.
	Form   CategoryForm
	Errors FieldErrors
	// Existing is true when a category with the same name already existed
	// and nothing was written.
	Existing bool
}

// Rejected reports whether the form failed validation.
func (o *CategoryOutcome) Rejected() bool { return len(o.Errors) > 0 }

// CategoryDetail is a category with the items that reference it.
type CategoryDetail struct {
	Category models.Category
	Items    []models.Item
}

// CategoryDeletion reports the result of a delete attempt.
type CategoryDeletion struct {
	// Category is nil when it did not exist.
	Category *models.Category
	// Items lists the items that prevented the delete.
	Items   []models.Item
	Deleted bool
}

// Blocked reports whether referencing items prevented the delete.
func (d *CategoryDeletion) Blocked() bool { return len(d.Items) > 0 }

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// Get returns a single category or ErrNotFound.
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// Detail returns the category and its items with references expanded.
func (s *CategoryService) Detail(ctx context.Context, id uuid.UUID) (*CategoryDetail, error) {
	cat, items, err := s.loadWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, ErrNotFound
	}
	if err := expand(ctx, s.categories, items); err != nil {
		return nil, err
	}
	return &CategoryDetail{Category: *cat, Items: items}, nil
}

// Create validates the form and stores a new category, unless one with the
// same name already exists, in which case that one is returned.
func (s *CategoryService) Create(ctx context.Context, form CategoryForm) (*CategoryOutcome, error) {
	form = form.trimmed()
	out := &CategoryOutcome{Form: form}

	errs, err := fieldErrors(form.Validate(), categoryFields)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		out.Errors = errs
		return out, nil
	}

	cat := models.Category{Name: Escape(form.Name), Description: Escape(form.Description)}

	existing, err := s.categories.FindByName(ctx, cat.Name)
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	if existing != nil {
		slog.Debug("category already exists", "name", cat.Name, "id", existing.ID)
		out.Category = existing
		out.Existing = true
		return out, nil
	}

	created, err := s.categories.Create(ctx, &cat)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.opts.invalidateCounts(ctx)

	out.Category = created
	return out, nil
}

// Update validates the form and overwrites the category's name and
// description. If a different category already has the name, nothing is
// written and that category is returned.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, form CategoryForm) (*CategoryOutcome, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	form = form.trimmed()
	out := &CategoryOutcome{Form: form}

	errs, err := fieldErrors(form.Validate(), categoryFields)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		out.Errors = errs
		return out, nil
	}

	cat := models.Category{ID: id, Name: Escape(form.Name), Description: Escape(form.Description)}

	dup, err := s.categories.FindByName(ctx, cat.Name)
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	if dup != nil && dup.ID != id {
		out.Category = dup
		out.Existing = true
		return out, nil
	}

	updated, err := s.categories.Update(ctx, &cat)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	out.Category = updated
	return out, nil
}

// Delete removes the category unless items still reference it. A missing
// category counts as already deleted.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) (*CategoryDeletion, error) {
	cat, items, err := s.loadWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return &CategoryDeletion{Deleted: true}, nil
	}
	if len(items) > 0 {
		if err := expand(ctx, s.categories, items); err != nil {
			return nil, err
		}
		return &CategoryDeletion{Category: cat, Items: items}, nil
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete category: %w", err)
	}
	s.opts.invalidateCounts(ctx)
	return &CategoryDeletion{Category: cat, Deleted: true}, nil
}

// DeletePreview loads what a delete would act on without removing anything.
func (s *CategoryService) DeletePreview(ctx context.Context, id uuid.UUID) (*CategoryDeletion, error) {
	cat, items, err := s.loadWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CategoryDeletion{Category: cat, Items: items}, nil
}

// loadWithItems fetches the category and its referencing items in parallel.
// The category is nil if it does not exist.
func (s *CategoryService) loadWithItems(ctx context.Context, id uuid.UUID) (*models.Category, []models.Item, error) {
	var (
		cat   *models.Category
		items []models.Item
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.categories.FindByID(gctx, id)
		if err != nil {
			return fmt.Errorf("find category: %w", err)
		}
		cat = c
		return nil
	})
	g.Go(func() error {
		list, err := s.items.FindByCategory(gctx, id)
		if err != nil {
			return fmt.Errorf("find items by category: %w", err)
		}
		items = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return cat, items, nil
}
