package store_test

import (
	"testing"

	"shelfkeeper/internal/store"
	"shelfkeeper/internal/store/memory"
	"shelfkeeper/internal/store/mongo"
	"shelfkeeper/internal/store/postgres"
)

// Every backend must satisfy the same contract.
var (
	_ store.Store = (*memory.Store)(nil)
	_ store.Store = (*postgres.Store)(nil)
	_ store.Store = (*mongo.Store)(nil)
)

func TestMemoryRepositoriesShareState(t *testing.T) {
	var s store.Store = memory.New()
	if s.Categories() == nil || s.Items() == nil {
		t.Fatal("repositories must not be nil")
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}
