package view

import (
	"errors"
	"testing"
	"time"

	"stocktab/internal/model"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func sampleItems() []model.Item {
	return []model.Item{
		{ID: "A0001", Name: "Apples", Category: "Fruit", Quantity: 0, Unit: "kg", ReorderLevel: model.ReorderCap, LastUpdated: day(3)},
		{ID: "B0002", Name: "Bread", Category: "Bakery", Quantity: 5, Unit: "pcs", ReorderLevel: model.ReorderCap, LastUpdated: day(1)},
		{ID: "C0003", Name: "Cheese", Category: "Dairy", Quantity: 50, Unit: "kg", ReorderLevel: model.ReorderCap, LastUpdated: day(2)},
	}
}

func defaultState() State {
	return State{Category: CategoryAll, SortBy: SortByName, Order: Ascending}
}

func TestProjectDerivesStatusAndReorder(t *testing.T) {
	state := defaultState()
	state.SortBy = SortByQuantity

	p, err := Project(sampleItems(), state)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	wantIDs := []string{"A0001", "B0002", "C0003"}
	wantStatus := []model.StockStatus{model.StatusOutOfStock, model.StatusLowStock, model.StatusInStock}
	wantReorder := []bool{true, true, false}

	if len(p.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(p.Rows))
	}
	for i, row := range p.Rows {
		if row.ID != wantIDs[i] {
			t.Errorf("row %d: expected id %q, got %q", i, wantIDs[i], row.ID)
		}
		if row.Status != wantStatus[i] {
			t.Errorf("row %d: expected status %q, got %q", i, wantStatus[i], row.Status)
		}
		if row.NeedsReorder != wantReorder[i] {
			t.Errorf("row %d: expected needsReorder %v, got %v", i, wantReorder[i], row.NeedsReorder)
		}
	}
}

func TestProjectFiltersByCategory(t *testing.T) {
	state := defaultState()
	state.Category = "Dairy"

	p, err := Project(sampleItems(), state)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if p.Shown != 1 || p.Rows[0].Name != "Cheese" {
		t.Errorf("expected only Cheese, got %+v", p.Rows)
	}
	if p.Total != 3 {
		t.Errorf("expected total 3, got %d", p.Total)
	}
}

func TestProjectSearchMatchesIDAndName(t *testing.T) {
	state := defaultState()

	// Case-insensitive substring against the name.
	state.Query = "bReAd"
	p, _ := Project(sampleItems(), state)
	if p.Shown != 1 || p.Rows[0].ID != "B0002" {
		t.Errorf("expected Bread by name, got %+v", p.Rows)
	}

	// And against the ID.
	state.Query = "c00"
	p, _ = Project(sampleItems(), state)
	if p.Shown != 1 || p.Rows[0].ID != "C0003" {
		t.Errorf("expected Cheese by id, got %+v", p.Rows)
	}

	state.Query = "no-such-item"
	p, _ = Project(sampleItems(), state)
	if p.Shown != 0 {
		t.Errorf("expected no rows, got %d", p.Shown)
	}
}

func TestProjectSortStability(t *testing.T) {
	// All quantities equal: sort by quantity must preserve input order.
	items := []model.Item{
		{ID: "A0001", Name: "Third", Quantity: 5},
		{ID: "B0002", Name: "First", Quantity: 5},
		{ID: "C0003", Name: "Second", Quantity: 5},
	}
	state := defaultState()
	state.SortBy = SortByQuantity

	p, err := Project(items, state)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	for i, want := range []string{"A0001", "B0002", "C0003"} {
		if p.Rows[i].ID != want {
			t.Errorf("row %d: expected %q, got %q", i, want, p.Rows[i].ID)
		}
	}
}

func TestProjectSortDescending(t *testing.T) {
	state := defaultState()
	state.SortBy = SortByQuantity
	state.Order = Descending

	p, _ := Project(sampleItems(), state)
	for i, want := range []string{"C0003", "B0002", "A0001"} {
		if p.Rows[i].ID != want {
			t.Errorf("row %d: expected %q, got %q", i, want, p.Rows[i].ID)
		}
	}
}

func TestProjectSortByDateComparesCalendarValue(t *testing.T) {
	state := defaultState()
	state.SortBy = SortByLastUpdated

	p, _ := Project(sampleItems(), state)
	for i, want := range []string{"B0002", "C0003", "A0001"} {
		if p.Rows[i].ID != want {
			t.Errorf("row %d: expected %q, got %q", i, want, p.Rows[i].ID)
		}
	}
}

func TestProjectSortsStringsCaseInsensitively(t *testing.T) {
	items := []model.Item{
		{ID: "A0001", Name: "banana"},
		{ID: "B0002", Name: "Apple"},
		{ID: "C0003", Name: "cherry"},
	}
	state := defaultState()

	p, _ := Project(items, state)
	for i, want := range []string{"Apple", "banana", "cherry"} {
		if p.Rows[i].Name != want {
			t.Errorf("row %d: expected %q, got %q", i, want, p.Rows[i].Name)
		}
	}
}

func TestProjectInvalidSortKey(t *testing.T) {
	state := defaultState()
	state.SortBy = SortKey("emoji")

	_, err := Project(sampleItems(), state)
	if !errors.Is(err, ErrInvalidSortKey) {
		t.Errorf("expected ErrInvalidSortKey, got %v", err)
	}
}

func TestProjectSummary(t *testing.T) {
	state := defaultState()
	state.Category = "Fruit"

	p, _ := Project(sampleItems(), state)
	want := "Showing 1 of 3 items, sorted by name (ascending)"
	if p.Summary != want {
		t.Errorf("expected summary %q, got %q", want, p.Summary)
	}
}

func TestParseSortKey(t *testing.T) {
	key, err := ParseSortKey("")
	if err != nil || key != SortByName {
		t.Errorf("expected empty to default to name, got %q, %v", key, err)
	}

	if _, err := ParseSortKey("quantity"); err != nil {
		t.Errorf("expected quantity to parse, got %v", err)
	}

	if _, err := ParseSortKey("owner"); !errors.Is(err, ErrInvalidSortKey) {
		t.Errorf("expected ErrInvalidSortKey, got %v", err)
	}
}

func TestParseSortOrder(t *testing.T) {
	if order, err := ParseSortOrder(""); err != nil || order != Ascending {
		t.Errorf("expected empty to default to ascending, got %q, %v", order, err)
	}
	if _, err := ParseSortOrder("sideways"); !errors.Is(err, ErrInvalidSortKey) {
		t.Errorf("expected ErrInvalidSortKey, got %v", err)
	}
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	items := sampleItems()
	state := defaultState()
	state.SortBy = SortByQuantity
	state.Order = Descending

	if _, err := Project(items, state); err != nil {
		t.Fatal(err)
	}

	// The snapshot order must be untouched.
	for i, want := range []string{"A0001", "B0002", "C0003"} {
		if items[i].ID != want {
			t.Errorf("input mutated: expected %q at %d, got %q", want, i, items[i].ID)
		}
	}
}
