package model

import "time"

// Item represents a stock item in the inventory table.
type Item struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	Quantity     int        `json:"quantity"`
	Unit         string     `json:"unit"`
	Supplier     string     `json:"supplier,omitempty"`
	ReorderLevel int        `json:"reorder_level"`
	ImageMime    string     `json:"image_mime,omitempty"`
	LastUpdated  time.Time  `json:"last_updated"`
	CreatedAt    time.Time  `json:"created_at"`
	ArchivedAt   *time.Time `json:"archived_at,omitempty"`
}

// ReorderCap is the global upper bound on per-item reorder levels.
// Missing or invalid reorder levels default to it.
const ReorderCap = 20

// LowStockThreshold is the quantity below which an item counts as low stock.
const LowStockThreshold = 20

// StockStatus is the display label derived from an item's quantity.
type StockStatus string

// Stock statuses.
const (
	StatusOutOfStock StockStatus = "out_of_stock"
	StatusLowStock   StockStatus = "low_stock"
	StatusInStock    StockStatus = "in_stock"
)

// StatusForQuantity derives the stock status from a quantity.
func StatusForQuantity(quantity int) StockStatus {
	switch {
	case quantity == 0:
		return StatusOutOfStock
	case quantity < LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// ClampReorderLevel clamps a reorder level into [0, ReorderCap].
func ClampReorderLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > ReorderCap {
		return ReorderCap
	}
	return level
}
