// Package notify shapes mutation outcomes for the UI: every store result
// becomes a notification the shell can surface (toast, flash message, log).
package notify

import (
	"errors"
	"log/slog"

	"stocktab/internal/store"
	"stocktab/internal/view"
)

// Kind classifies a notification.
type Kind string

// Notification kinds.
const (
	Success Kind = "success"
	Warning Kind = "warning"
	Error   Kind = "error"
)

// Notification is a user-facing outcome message.
type Notification struct {
	Kind   Kind   `json:"kind"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

// Notifier receives mutation outcomes.
type Notifier interface {
	Notify(n Notification)
}

// ForError maps a store error to a notification. Insufficient stock is a
// warning (the user asked for too much); everything else user-facing is an
// error with the store's message as detail.
func ForError(err error) Notification {
	var ve *store.ValidationError
	switch {
	case errors.As(err, &ve):
		return Notification{Kind: Error, Title: "Invalid item", Detail: ve.Error()}
	case errors.Is(err, store.ErrInvalidAmount):
		return Notification{Kind: Error, Title: "Invalid amount", Detail: err.Error()}
	case errors.Is(err, store.ErrInsufficientStock):
		return Notification{Kind: Warning, Title: "Insufficient stock", Detail: err.Error()}
	case errors.Is(err, store.ErrItemNotFound):
		return Notification{Kind: Error, Title: "Item not found", Detail: err.Error()}
	case errors.Is(err, view.ErrInvalidSortKey):
		return Notification{Kind: Error, Title: "Invalid sort key", Detail: err.Error()}
	}
	return Notification{Kind: Error, Title: "Something went wrong"}
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	switch n.Kind {
	case Warning:
		slog.Warn(n.Title, "detail", n.Detail)
	case Error:
		slog.Error(n.Title, "detail", n.Detail)
	default:
		slog.Info(n.Title, "detail", n.Detail)
	}
}
