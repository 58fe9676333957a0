// Package memory is an in-memory implementation of store.Store.
// Safe for concurrent access. Intended for tests and local development.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"shelfkeeper/internal/models"
	"shelfkeeper/internal/store"
)

var (
	_ store.Store              = (*Store)(nil)
	_ store.CategoryRepository = (*categories)(nil)
	_ store.ItemRepository     = (*items)(nil)
)

// Store holds categories and items in maps guarded by a single lock.
type Store struct {
	mu sync.RWMutex

	categories map[uuid.UUID]models.Category
	items      map[uuid.UUID]models.Item
}

// New returns a new empty Store.
func New() *Store {
	return &Store{
		categories: make(map[uuid.UUID]models.Category),
		items:      make(map[uuid.UUID]models.Item),
	}
}

// Categories returns the category repository view of the store.
func (m *Store) Categories() store.CategoryRepository { return (*categories)(m) }

// Items returns the item repository view of the store.
func (m *Store) Items() store.ItemRepository { return (*items)(m) }

// Migrate is a no-op for the memory store.
func (m *Store) Migrate(_ context.Context) error { return nil }

// Ping always succeeds for the memory store.
func (m *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (m *Store) Close() error { return nil }

func now() time.Time {
	return time.Now().UTC()
}

// ──────────────────────────────────────────────────
// Categories
// ──────────────────────────────────────────────────

type categories Store

func (c *categories) Create(_ context.Context, cat *models.Category) (*models.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := *cat
	out.ID = uuid.New()
	out.CreatedAt = now()
	out.UpdatedAt = out.CreatedAt
	c.categories[out.ID] = out
	return &out, nil
}

func (c *categories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cat, ok := c.categories[id]
	if !ok {
		return nil, nil
	}
	return &cat, nil
}

func (c *categories) FindByName(_ context.Context, name string) (*models.Category, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// Pick the oldest match so repeated lookups are stable.
	var found *models.Category
	for _, cat := range c.categories {
		if cat.Name != name {
			continue
		}
		if found == nil || cat.CreatedAt.Before(found.CreatedAt) {
			cp := cat
			found = &cp
		}
	}
	return found, nil
}

func (c *categories) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.Category, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[uuid.UUID]bool, len(ids))
	result := make([]models.Category, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if cat, ok := c.categories[id]; ok {
			result = append(result, cat)
		}
	}
	sortCategories(result)
	return result, nil
}

func (c *categories) List(_ context.Context) ([]models.Category, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]models.Category, 0, len(c.categories))
	for _, cat := range c.categories {
		result = append(result, cat)
	}
	sortCategories(result)
	return result, nil
}

func (c *categories) Update(_ context.Context, cat *models.Category) (*models.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.categories[cat.ID]
	if !ok {
		return nil, nil
	}
	existing.Name = cat.Name
	existing.Description = cat.Description
	existing.UpdatedAt = now()
	c.categories[cat.ID] = existing
	return &existing, nil
}

func (c *categories) Delete(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.categories, id)
	return nil
}

func (c *categories) Count(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.categories), nil
}

func sortCategories(cats []models.Category) {
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].Name != cats[j].Name {
			return cats[i].Name < cats[j].Name
		}
		return cats[i].ID.String() < cats[j].ID.String()
	})
}

// ──────────────────────────────────────────────────
// Items
// ──────────────────────────────────────────────────

type items Store

func (s *items) Create(_ context.Context, item *models.Item) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := copyItem(*item)
	out.ID = uuid.New()
	out.CreatedAt = now()
	out.UpdatedAt = out.CreatedAt
	s.items[out.ID] = out
	return ptrItem(out), nil
}

func (s *items) FindByID(_ context.Context, id uuid.UUID) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return ptrItem(item), nil
}

func (s *items) FindByCategory(_ context.Context, categoryID uuid.UUID) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.Item
	for _, item := range s.items {
		if item.HasCategory(categoryID) {
			result = append(result, copyItem(item))
		}
	}
	sortItems(result)
	return result, nil
}

func (s *items) List(_ context.Context) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Item, 0, len(s.items))
	for _, item := range s.items {
		result = append(result, copyItem(item))
	}
	sortItems(result)
	return result, nil
}

func (s *items) Update(_ context.Context, item *models.Item) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[item.ID]
	if !ok {
		return nil, nil
	}
	out := copyItem(*item)
	out.CreatedAt = existing.CreatedAt
	out.UpdatedAt = now()
	s.items[out.ID] = out
	return ptrItem(out), nil
}

func (s *items) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	return nil
}

func (s *items) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items), nil
}

// copyItem detaches the category slice and drops expanded references,
// which are never persisted.
func copyItem(item models.Item) models.Item {
	item.CategoryIDs = slices.Clone(item.CategoryIDs)
	item.Categories = nil
	return item
}

func ptrItem(item models.Item) *models.Item {
	out := copyItem(item)
	return &out
}

func sortItems(list []models.Item) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID.String() < list[j].ID.String()
	})
}
