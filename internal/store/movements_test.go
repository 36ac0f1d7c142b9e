package store

import (
	"context"
	"testing"

	"stocktab/internal/db"
	"stocktab/internal/model"
)

func TestStockChangesRecordMovements(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := addItem(t, database, validDraft())

	user, err := CreateUser(ctx, database, "clerk", "hash", false)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if _, err := StockIn(ctx, database, item.ID, 10, &user.ID); err != nil {
		t.Fatalf("StockIn: %v", err)
	}
	if _, err := StockOut(ctx, database, item.ID, 4, &user.ID); err != nil {
		t.Fatalf("StockOut: %v", err)
	}

	history, err := GetItemHistory(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItemHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(history))
	}

	// Newest first.
	if history[0].Kind != model.MovementOut || history[0].Delta != 4 {
		t.Errorf("expected latest movement out/4, got %s/%d", history[0].Kind, history[0].Delta)
	}
	if history[1].Kind != model.MovementIn || history[1].Delta != 10 {
		t.Errorf("expected first movement in/10, got %s/%d", history[1].Kind, history[1].Delta)
	}
	if history[0].Username != "clerk" {
		t.Errorf("expected username 'clerk', got %q", history[0].Username)
	}
	if history[0].ItemName != item.Name {
		t.Errorf("expected item name %q, got %q", item.Name, history[0].ItemName)
	}
}

func TestRejectedStockOutRecordsNothing(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	draft := validDraft()
	draft.Quantity = 1
	item := addItem(t, database, draft)

	StockOut(ctx, database, item.ID, 99, nil)

	history, _ := GetItemHistory(ctx, database, item.ID)
	if len(history) != 0 {
		t.Errorf("expected no movements after rejected stock out, got %d", len(history))
	}
}

func TestListMovementsAcrossItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first := addItem(t, database, validDraft())
	second := addItem(t, database, validDraft())

	StockIn(ctx, database, first.ID, 1, nil)
	StockIn(ctx, database, second.ID, 2, nil)

	movements, err := ListMovements(ctx, database)
	if err != nil {
		t.Fatalf("ListMovements: %v", err)
	}
	if len(movements) != 2 {
		t.Errorf("expected 2 movements, got %d", len(movements))
	}
}
