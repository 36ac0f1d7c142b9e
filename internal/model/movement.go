package model

import "time"

// Movement represents a single stock-in or stock-out applied to an item.
type Movement struct {
	ID      int64     `json:"id"`
	ItemID  string    `json:"item_id"`
	Kind    string    `json:"kind"`
	Delta   int       `json:"delta"`
	MovedAt time.Time `json:"moved_at"`
	MovedBy *int64    `json:"moved_by,omitempty"`

	// Joined fields (not always populated).
	ItemName string `json:"item_name,omitempty"`
	Username string `json:"username,omitempty"`
}

// Movement kinds.
const (
	MovementIn  = "in"
	MovementOut = "out"
)
