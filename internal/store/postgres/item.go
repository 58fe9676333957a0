// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"shelfkeeper/internal/models"
)

// ItemStore manages items and their category links in the database.
type ItemStore struct {
	db *sql.DB
}

// NewItemStore returns a new ItemStore.
func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

const itemColumns = `id, name, description, in_stock, price, created_at, updated_at`

// scanItem scans a row into an Item struct. Category ids are loaded separately.
func scanItem(scanner interface{ Scan(...any) error }) (*models.Item, error) {
	var i models.Item
	err := scanner.Scan(
		&i.ID, &i.Name, &i.Description, &i.InStock,
		&i.Price, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// queryItems runs an item query and attaches category ids to every row.
func (s *ItemStore) queryItems(ctx context.Context, query string, args ...any) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachCategories(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// attachCategories loads item_categories for all items in one query.
func (s *ItemStore) attachCategories(ctx context.Context, items []models.Item) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(items))
	index := make(map[uuid.UUID]int, len(items))
	for n, it := range items {
		ids[n] = it.ID
		index[it.ID] = n
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, category_id FROM item_categories
		WHERE item_id = ANY($1::uuid[])
		ORDER BY item_id, position`, uuidStrings(ids))
	if err != nil {
		return fmt.Errorf("load item categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID, categoryID uuid.UUID
		if err := rows.Scan(&itemID, &categoryID); err != nil {
			return fmt.Errorf("scan item category: %w", err)
		}
		n := index[itemID]
		items[n].CategoryIDs = append(items[n].CategoryIDs, categoryID)
	}
	return rows.Err()
}

// List returns all items ordered by name.
func (s *ItemStore) List(ctx context.Context) ([]models.Item, error) {
	items, err := s.queryItems(ctx, `SELECT `+itemColumns+` FROM items ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// FindByCategory returns items linked to categoryID, ordered by name.
func (s *ItemStore) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Item, error) {
	items, err := s.queryItems(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE id IN (SELECT item_id FROM item_categories WHERE category_id = $1)
		ORDER BY name, id`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("find items by category: %w", err)
	}
	return items, nil
}

// FindByID retrieves an item by ID. Returns nil if not found.
func (s *ItemStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
	i, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find item by id: %w", err)
	}

	list := []models.Item{*i}
	if err := s.attachCategories(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// Create inserts the item and its category links in one transaction.
func (s *ItemStore) Create(ctx context.Context, i *models.Item) (*models.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		INSERT INTO items (name, description, in_stock, price)
		VALUES ($1, $2, $3, $4)
		RETURNING `+itemColumns,
		i.Name, i.Description, i.InStock, i.Price,
	)
	result, err := scanItem(row)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	if err := insertLinks(ctx, tx, result.ID, i.CategoryIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit item: %w", err)
	}

	result.CategoryIDs = append([]uuid.UUID(nil), i.CategoryIDs...)
	return result, nil
}

// Update overwrites the item and replaces its category links. Returns nil
// if the id is unknown.
func (s *ItemStore) Update(ctx context.Context, i *models.Item) (*models.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		UPDATE items SET
			name = $1, description = $2, in_stock = $3, price = $4,
			updated_at = NOW()
		WHERE id = $5
		RETURNING `+itemColumns,
		i.Name, i.Description, i.InStock, i.Price, i.ID,
	)
	result, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM item_categories WHERE item_id = $1`, i.ID); err != nil {
		return nil, fmt.Errorf("clear item categories: %w", err)
	}
	if err := insertLinks(ctx, tx, i.ID, i.CategoryIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit item: %w", err)
	}

	result.CategoryIDs = append([]uuid.UUID(nil), i.CategoryIDs...)
	return result, nil
}

// insertLinks writes item_categories rows preserving selection order.
func insertLinks(ctx context.Context, tx *sql.Tx, itemID uuid.UUID, categoryIDs []uuid.UUID) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO item_categories (item_id, category_id, position)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`)
	if err != nil {
		return fmt.Errorf("prepare item categories: %w", err)
	}
	defer stmt.Close()

	for pos, categoryID := range categoryIDs {
		if _, err := stmt.ExecContext(ctx, itemID, categoryID, pos); err != nil {
			return fmt.Errorf("insert item category: %w", err)
		}
	}
	return nil
}

// Delete removes an item by ID. Links go with it (ON DELETE CASCADE).
func (s *ItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// Count returns the number of items.
func (s *ItemStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}
