package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shelfkeeper/internal/models"
)

func TestItemStoreCRUD(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	cats := NewCategoryStore(db)
	items := NewItemStore(db)

	a, err := cats.Create(ctx, &models.Category{Name: "A " + uuid.NewString()[:8]})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	b, err := cats.Create(ctx, &models.Category{Name: "B " + uuid.NewString()[:8]})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	t.Cleanup(func() {
		cats.Delete(context.Background(), a.ID)
		cats.Delete(context.Background(), b.ID)
	})

	price := decimal.RequireFromString("123456789012345678901234567890.123456789")
	created, err := items.Create(ctx, &models.Item{
		Name:        "Hammer",
		Description: "Steel",
		InStock:     10,
		Price:       price,
		CategoryIDs: []uuid.UUID{b.ID, a.ID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { items.Delete(context.Background(), created.ID) })

	got, err := items.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !got.Price.Equal(price) {
		t.Errorf("price: got %s, want %s", got.Price, price)
	}
	if len(got.CategoryIDs) != 2 || got.CategoryIDs[0] != b.ID || got.CategoryIDs[1] != a.ID {
		t.Errorf("category ids: got %v, want [%s %s]", got.CategoryIDs, b.ID, a.ID)
	}

	byCat, err := items.FindByCategory(ctx, a.ID)
	if err != nil {
		t.Fatalf("FindByCategory: %v", err)
	}
	if len(byCat) != 1 || byCat[0].ID != created.ID {
		t.Errorf("FindByCategory: got %d items, want 1", len(byCat))
	}

	got.CategoryIDs = []uuid.UUID{b.ID}
	got.InStock = 3
	if _, err := items.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}

	byCat, err = items.FindByCategory(ctx, a.ID)
	if err != nil {
		t.Fatalf("FindByCategory: %v", err)
	}
	if len(byCat) != 0 {
		t.Errorf("FindByCategory after unlink: got %d items, want 0", len(byCat))
	}

	if err := items.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := items.Delete(ctx, created.ID); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}
