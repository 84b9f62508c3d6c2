package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	calls := 0
	unsubscribe := store.Subscribe(func() { calls++ })

	older := sampleItem()
	newer := sampleItem()
	newer.ID = "newer"
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)

	for _, it := range []models.RegistryItem{older, newer} {
		if err := store.Insert(ctx, it); err != nil {
			t.Fatalf("Insert(%s) error = %v", it.ID, err)
		}
	}
	if err := store.Insert(ctx, older); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate Insert() error = %v, want ErrDuplicate", err)
	}

	items, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(items) != 2 || items[0].ID != "newer" {
		t.Fatalf("ListAll() = %d items, first %q", len(items), items[0].ID)
	}

	updated := older.Clone()
	updated.Description = "changed"
	if err := store.Update(ctx, updated); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	missing := sampleItem()
	missing.ID = "missing"
	if err := store.Update(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update(missing) error = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "newer"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, "newer"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete() error = %v, want ErrNotFound", err)
	}

	items, _ = store.ListAll(ctx)
	if len(items) != 1 || items[0].Description != "changed" {
		t.Fatalf("ListAll() after writes = %+v", items)
	}
	if calls != 4 {
		t.Errorf("subscriber called %d times, want 4", calls)
	}

	unsubscribe()
	_ = store.Delete(ctx, older.ID)
	if calls != 4 {
		t.Errorf("subscriber called after unsubscribe")
	}
}
