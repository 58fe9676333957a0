// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"shelfkeeper/internal/models"
	"shelfkeeper/internal/store"
)

// ItemService runs the item workflows and the index totals.
type ItemService struct {
	items      store.ItemRepository
	categories store.CategoryRepository
	opts       options
}

// NewItemService creates an ItemService.
func NewItemService(items store.ItemRepository, categories store.CategoryRepository, opts ...Option) *ItemService {
	return &ItemService{items: items, categories: categories, opts: buildOptions(opts)}
}

// ItemOutcome reports the result of a create or update.
type ItemOutcome struct {
	// Item is the written item. Nil when the form was rejected.
	Item *models.Item
	// Form is the normalized submission, echoed back on rejection.
	Form ItemForm
	// Categories is every category, flagged with the submitted selection.
	// Only set on rejection.
	Categories []models.CategoryOption
	Errors     FieldErrors
}

// Rejected reports whether the form failed validation.
func (o *ItemOutcome) Rejected() bool { return len(o.Errors) > 0 }

// IndexCounts returns the total number of items and categories.
func (s *ItemService) IndexCounts(ctx context.Context) (Counts, error) {
	if s.opts.counts != nil {
		if c, ok := s.opts.counts.Counts(ctx); ok {
			return c, nil
		}
	}

	c, err := countTotals(ctx, s.categories, s.items)
	if err != nil {
		return Counts{}, err
	}
	if s.opts.counts != nil {
		s.opts.counts.SetCounts(ctx, c)
	}
	return c, nil
}

// List returns all items ordered by name with categories expanded.
func (s *ItemService) List(ctx context.Context) ([]models.Item, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if err := expand(ctx, s.categories, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Detail returns the item with its categories expanded, or ErrNotFound.
func (s *ItemService) Detail(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find item: %w", err)
	}
	if item == nil {
		return nil, ErrNotFound
	}
	list := []models.Item{*item}
	if err := expand(ctx, s.categories, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// FormOptions returns every category flagged with selected, for rendering
// an empty or pre-filled item form.
func (s *ItemService) FormOptions(ctx context.Context, selected []string) ([]models.CategoryOption, error) {
	all, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return MarkChecked(all, selected), nil
}

// Create validates the form and stores a new item.
func (s *ItemService) Create(ctx context.Context, form ItemForm) (*ItemOutcome, error) {
	form = form.trimmed()
	item, out, err := s.check(ctx, form)
	if err != nil || out.Rejected() {
		return out, err
	}

	created, err := s.items.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	s.opts.invalidateCounts(ctx)

	out.Item = created
	return out, nil
}

// Update validates the form and overwrites every field of the item.
func (s *ItemService) Update(ctx context.Context, id uuid.UUID, form ItemForm) (*ItemOutcome, error) {
	existing, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find item: %w", err)
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	form = form.trimmed()
	item, out, err := s.check(ctx, form)
	if err != nil || out.Rejected() {
		return out, err
	}
	item.ID = id

	updated, err := s.items.Update(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	out.Item = updated
	return out, nil
}

// Delete removes the item. A missing item is not an error.
func (s *ItemService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	s.opts.invalidateCounts(ctx)
	return nil
}

// check validates a normalized form and builds the item to store. On
// rejection the outcome carries the flagged category list.
func (s *ItemService) check(ctx context.Context, form ItemForm) (*models.Item, *ItemOutcome, error) {
	out := &ItemOutcome{Form: form}

	errs, err := fieldErrors(form.Validate(), itemFields)
	if err != nil {
		return nil, nil, err
	}

	var item *models.Item
	if len(errs) == 0 {
		p, perrs := form.parse()
		errs = perrs
		if len(errs) == 0 {
			missing, err := s.missingCategories(ctx, p.categories)
			if err != nil {
				return nil, nil, err
			}
			if missing {
				errs = append(errs, FieldError{Field: "category", Message: msgCategoryNotFound})
			}
		}
		item = &models.Item{
			Name:        Escape(form.Name),
			Description: Escape(form.Description),
			InStock:     p.inStock,
			Price:       p.price,
			CategoryIDs: p.categories,
		}
	}

	if len(errs) > 0 {
		opts, err := s.FormOptions(ctx, form.Category)
		if err != nil {
			return nil, nil, err
		}
		out.Errors = errs
		out.Categories = opts
		return nil, out, nil
	}
	return item, out, nil
}

// missingCategories reports whether any of ids has no stored category.
func (s *ItemService) missingCategories(ctx context.Context, ids []uuid.UUID) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}
	found, err := s.categories.FindByIDs(ctx, ids)
	if err != nil {
		return false, fmt.Errorf("find categories: %w", err)
	}
	return len(found) != len(ids), nil
}
