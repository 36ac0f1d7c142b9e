package model

import "time"

// User represents an authentication user. A single boolean flag separates
// administrators (who can add and archive items and manage accounts) from
// everyone else.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Admin        bool       `json:"admin"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}
