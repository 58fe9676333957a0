package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"shelfkeeper/internal/models"
)

func TestCategoryStoreCRUD(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	s := NewCategoryStore(db)

	name := "Tools " + uuid.NewString()[:8]
	created, err := s.Create(ctx, &models.Category{Name: name, Description: "Hand tools"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { s.Delete(context.Background(), created.ID) })

	if created.ID == uuid.Nil {
		t.Error("Create did not assign an ID")
	}

	found, err := s.FindByName(ctx, name)
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if found == nil || found.ID != created.ID {
		t.Fatalf("FindByName: got %v, want id %s", found, created.ID)
	}

	created.Description = "Updated"
	updated, err := s.Update(ctx, created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Description != "Updated" {
		t.Errorf("description: got %q, want %q", updated.Description, "Updated")
	}

	byIDs, err := s.FindByIDs(ctx, []uuid.UUID{created.ID, uuid.New()})
	if err != nil {
		t.Fatalf("FindByIDs: %v", err)
	}
	if len(byIDs) != 1 {
		t.Errorf("FindByIDs: got %d categories, want 1", len(byIDs))
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, err := s.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if gone != nil {
		t.Error("category still present after Delete")
	}
}

func TestCategoryStoreUpdateMissing(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	got, err := s.Update(context.Background(), &models.Category{ID: uuid.New(), Name: "Ghost"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got != nil {
		t.Errorf("Update of missing id: got %v, want nil", got)
	}
}
