// Package view computes the filtered, sorted, derived table rows shown to
// the user. Projection is read-only: it never mutates the item snapshot.
package view

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"stocktab/internal/model"
)

// ErrInvalidSortKey is returned for sort keys that don't name an item field.
var ErrInvalidSortKey = errors.New("invalid sort key")

// SortKey enumerates the sortable item fields.
type SortKey string

// Sort keys.
const (
	SortByID           SortKey = "id"
	SortByName         SortKey = "name"
	SortByCategory     SortKey = "category"
	SortByQuantity     SortKey = "quantity"
	SortByUnit         SortKey = "unit"
	SortBySupplier     SortKey = "supplier"
	SortByReorderLevel SortKey = "reorder_level"
	SortByLastUpdated  SortKey = "last_updated"
)

// SortOrder is the sort direction.
type SortOrder string

// Sort orders.
const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// CategoryAll disables category filtering.
const CategoryAll = "all"

// State is the transient view state owned by the UI shell and passed in on
// every projection request.
type State struct {
	Query    string
	Category string
	SortBy   SortKey
	Order    SortOrder
}

// Row is one rendered table row: the item plus its derived display attributes.
type Row struct {
	model.Item
	Status       model.StockStatus `json:"status"`
	NeedsReorder bool              `json:"needs_reorder"`
}

// Projection is the derived view of the item snapshot.
type Projection struct {
	Rows     []Row  `json:"rows"`
	Shown    int    `json:"shown"`
	Total    int    `json:"total"`
	SortDesc string `json:"sort_description"`
	Summary  string `json:"summary"`
}

// ParseSortKey validates a sort key string, defaulting to name when empty.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortByName, nil
	}
	switch k := SortKey(s); k {
	case SortByID, SortByName, SortByCategory, SortByQuantity, SortByUnit,
		SortBySupplier, SortByReorderLevel, SortByLastUpdated:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, s)
}

// ParseSortOrder validates a sort order string, defaulting to ascending.
func ParseSortOrder(s string) (SortOrder, error) {
	switch s {
	case "", string(Ascending):
		return Ascending, nil
	case string(Descending):
		return Descending, nil
	}
	return "", fmt.Errorf("%w: bad order %q", ErrInvalidSortKey, s)
}

// Project filters the snapshot by the view state, stable-sorts it, and
// derives the per-row display attributes.
func Project(items []model.Item, state State) (*Projection, error) {
	compare, err := comparator(state.SortBy)
	if err != nil {
		return nil, err
	}
	if state.Order != Ascending && state.Order != Descending {
		return nil, fmt.Errorf("%w: bad order %q", ErrInvalidSortKey, state.Order)
	}

	filtered := make([]model.Item, 0, len(items))
	for _, item := range items {
		if matches(item, state) {
			filtered = append(filtered, item)
		}
	}

	// Stable sort so equal keys keep their filter-stage relative order.
	sort.SliceStable(filtered, func(i, j int) bool {
		c := compare(filtered[i], filtered[j])
		if state.Order == Descending {
			return c > 0
		}
		return c < 0
	})

	rows := make([]Row, len(filtered))
	for i, item := range filtered {
		rows[i] = Row{
			Item:         item,
			Status:       model.StatusForQuantity(item.Quantity),
			NeedsReorder: item.Quantity <= item.ReorderLevel,
		}
	}

	p := &Projection{
		Rows:     rows,
		Shown:    len(rows),
		Total:    len(items),
		SortDesc: sortDescription(state.SortBy, state.Order),
	}
	p.Summary = fmt.Sprintf("Showing %d of %d items, %s", p.Shown, p.Total, p.SortDesc)
	return p, nil
}

// matches applies the category and search filters.
func matches(item model.Item, state State) bool {
	if state.Category != "" && state.Category != CategoryAll && item.Category != state.Category {
		return false
	}
	if state.Query == "" {
		return true
	}
	q := strings.ToLower(state.Query)
	return strings.Contains(strings.ToLower(item.ID), q) ||
		strings.Contains(strings.ToLower(item.Name), q)
}

// comparator returns the typed three-way comparison for a sort key.
// Strings compare case-insensitively, numbers numerically, dates by value.
func comparator(key SortKey) (func(a, b model.Item) int, error) {
	switch key {
	case SortByID:
		return func(a, b model.Item) int { return compareFold(a.ID, b.ID) }, nil
	case SortByName:
		return func(a, b model.Item) int { return compareFold(a.Name, b.Name) }, nil
	case SortByCategory:
		return func(a, b model.Item) int { return compareFold(a.Category, b.Category) }, nil
	case SortByQuantity:
		return func(a, b model.Item) int { return a.Quantity - b.Quantity }, nil
	case SortByUnit:
		return func(a, b model.Item) int { return compareFold(a.Unit, b.Unit) }, nil
	case SortBySupplier:
		return func(a, b model.Item) int { return compareFold(a.Supplier, b.Supplier) }, nil
	case SortByReorderLevel:
		return func(a, b model.Item) int { return a.ReorderLevel - b.ReorderLevel }, nil
	case SortByLastUpdated:
		return func(a, b model.Item) int { return a.LastUpdated.Compare(b.LastUpdated) }, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidSortKey, string(key))
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// sortDescription renders a human-readable description of the sort state.
func sortDescription(key SortKey, order SortOrder) string {
	name := strings.ReplaceAll(string(key), "_", " ")
	direction := "ascending"
	if order == Descending {
		direction = "descending"
	}
	return fmt.Sprintf("sorted by %s (%s)", name, direction)
}
