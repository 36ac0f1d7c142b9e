package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"stocktab/internal/db"
	"stocktab/internal/model"
)

func validDraft() ItemDraft {
	return ItemDraft{
		Name:     "Flour",
		Category: "Baking",
		Quantity: 50,
		Unit:     "kg",
		Supplier: "Millworks",
		Date:     "2026-03-01",
	}
}

func addItem(t *testing.T, database *sql.DB, draft ItemDraft) *model.Item {
	t.Helper()
	item, err := AddItem(context.Background(), database, draft)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	return item
}

func TestAddItem(t *testing.T) {
	database := db.NewTestDB(t)

	item := addItem(t, database, validDraft())

	if !strings.HasPrefix(item.ID, "B") || len(item.ID) != 5 {
		t.Errorf("expected id like B0001, got %q", item.ID)
	}
	if item.Quantity != 50 {
		t.Errorf("expected quantity 50, got %d", item.Quantity)
	}
	if item.ReorderLevel != model.ReorderCap {
		t.Errorf("expected default reorder level %d, got %d", model.ReorderCap, item.ReorderLevel)
	}
	if item.LastUpdated.Format("2006-01-02") != "2026-03-01" {
		t.Errorf("expected last updated 2026-03-01, got %v", item.LastUpdated)
	}
}

func TestAddItemUniqueIDs(t *testing.T) {
	database := db.NewTestDB(t)

	seen := make(map[string]bool)
	for range 5 {
		item := addItem(t, database, validDraft())
		if seen[item.ID] {
			t.Fatalf("duplicate id %q", item.ID)
		}
		seen[item.ID] = true
	}
}

func TestAddItemClampsReorderLevel(t *testing.T) {
	database := db.NewTestDB(t)

	level := 500
	draft := validDraft()
	draft.ReorderLevel = &level

	item := addItem(t, database, draft)
	if item.ReorderLevel != model.ReorderCap {
		t.Errorf("expected reorder level clamped to %d, got %d", model.ReorderCap, item.ReorderLevel)
	}

	level = -3
	item = addItem(t, database, draft)
	if item.ReorderLevel != 0 {
		t.Errorf("expected reorder level clamped to 0, got %d", item.ReorderLevel)
	}
}

func TestAddItemValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	draft := ItemDraft{Quantity: -1, Date: "not-a-date"}
	_, err := AddItem(ctx, database, draft)

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []string{"name", "category", "quantity", "unit", "supplier", "date"}
	if len(ve.Fields) != len(want) {
		t.Fatalf("expected fields %v, got %v", want, ve.Fields)
	}
	for i, f := range want {
		if ve.Fields[i] != f {
			t.Errorf("expected field %q at %d, got %q", f, i, ve.Fields[i])
		}
	}

	// Nothing may be inserted on failure.
	items, _ := ListItems(ctx, database)
	if len(items) != 0 {
		t.Errorf("expected no items after failed add, got %d", len(items))
	}
}

func TestStockInAndOutRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := addItem(t, database, validDraft())

	updated, err := StockIn(ctx, database, item.ID, 25, nil)
	if err != nil {
		t.Fatalf("StockIn: %v", err)
	}
	if updated.Quantity != 75 {
		t.Errorf("expected quantity 75, got %d", updated.Quantity)
	}

	updated, err = StockOut(ctx, database, item.ID, 25, nil)
	if err != nil {
		t.Fatalf("StockOut: %v", err)
	}
	if updated.Quantity != item.Quantity {
		t.Errorf("expected round trip back to %d, got %d", item.Quantity, updated.Quantity)
	}
}

func TestStockOutInsufficient(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	draft := validDraft()
	draft.Quantity = 5
	item := addItem(t, database, draft)

	_, err := StockOut(ctx, database, item.ID, 999, nil)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// Quantity must be untouched.
	got, _ := GetItem(ctx, database, item.ID)
	if got.Quantity != 5 {
		t.Errorf("expected quantity 5 after rejected stock out, got %d", got.Quantity)
	}
}

func TestStockInvalidAmount(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := addItem(t, database, validDraft())

	for _, amount := range []int{0, -5} {
		if _, err := StockIn(ctx, database, item.ID, amount, nil); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("StockIn(%d): expected ErrInvalidAmount, got %v", amount, err)
		}
		if _, err := StockOut(ctx, database, item.ID, amount, nil); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("StockOut(%d): expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestStockUnknownItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := StockIn(ctx, database, "X9999", 1, nil); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestArchive(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := addItem(t, database, validDraft())

	removed, err := Archive(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if removed.Name != item.Name {
		t.Errorf("expected removed record %q, got %q", item.Name, removed.Name)
	}
	if removed.ArchivedAt == nil {
		t.Error("expected archived_at to be set")
	}

	// Gone from the active set, present in the archive.
	items, _ := ListItems(ctx, database)
	if len(items) != 0 {
		t.Errorf("expected 0 active items, got %d", len(items))
	}
	archived, _ := ListArchived(ctx, database)
	if len(archived) != 1 {
		t.Errorf("expected 1 archived item, got %d", len(archived))
	}

	// Archived items can no longer be mutated.
	if _, err := StockIn(ctx, database, item.ID, 1, nil); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound for archived item, got %v", err)
	}
	if _, err := Archive(ctx, database, item.ID); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound for double archive, got %v", err)
	}
}

func TestSetReorderLevelClamps(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := addItem(t, database, validDraft())

	updated, err := SetReorderLevel(ctx, database, item.ID, 500)
	if err != nil {
		t.Fatalf("SetReorderLevel: %v", err)
	}
	if updated.ReorderLevel != model.ReorderCap {
		t.Errorf("expected reorder level %d, got %d", model.ReorderCap, updated.ReorderLevel)
	}

	if _, err := SetReorderLevel(ctx, database, "X9999", 5); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestEnforceReorderCapIdempotent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := addItem(t, database, validDraft())

	// Bypass the store API to simulate a bulk load with an out-of-range level.
	if _, err := database.ExecContext(ctx,
		`UPDATE items SET reorder_level = 300 WHERE id = ?`, item.ID); err != nil {
		t.Fatal(err)
	}

	if err := EnforceReorderCap(ctx, database); err != nil {
		t.Fatalf("EnforceReorderCap: %v", err)
	}
	first, _ := GetItem(ctx, database, item.ID)
	if first.ReorderLevel != model.ReorderCap {
		t.Errorf("expected reorder level %d, got %d", model.ReorderCap, first.ReorderLevel)
	}

	if err := EnforceReorderCap(ctx, database); err != nil {
		t.Fatalf("EnforceReorderCap (second run): %v", err)
	}
	second, _ := GetItem(ctx, database, item.ID)
	if second.ReorderLevel != first.ReorderLevel {
		t.Errorf("expected idempotent result %d, got %d", first.ReorderLevel, second.ReorderLevel)
	}
}

func TestListItemsInsertionOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	names := []string{"Zucchini", "Apple", "Mango"}
	for _, name := range names {
		draft := validDraft()
		draft.Name = name
		addItem(t, database, draft)
	}

	items, err := ListItems(ctx, database)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, name := range names {
		if items[i].Name != name {
			t.Errorf("expected %q at %d, got %q", name, i, items[i].Name)
		}
	}
}

func TestItemImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := addItem(t, database, validDraft())

	if err := SetItemImage(ctx, database, item.ID, []byte("fake image data"), "image/jpeg"); err != nil {
		t.Fatalf("SetItemImage: %v", err)
	}

	data, mime, err := GetItemImage(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItemImage: %v", err)
	}
	if string(data) != "fake image data" {
		t.Errorf("expected image data, got %q", string(data))
	}
	if mime != "image/jpeg" {
		t.Errorf("expected mime 'image/jpeg', got %q", mime)
	}
}
