package store

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for rejected mutations. Every failure leaves the store
// unchanged and is recoverable by the user.
var (
	ErrItemNotFound      = errors.New("item not found")
	ErrInvalidAmount     = errors.New("amount must be a positive integer")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ValidationError reports the missing or invalid fields of an item draft.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid item: %s", strings.Join(e.Fields, ", "))
}

// IsUserError reports whether err is a rejected user action rather than an
// internal failure.
func IsUserError(err error) bool {
	var ve *ValidationError
	return errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.As(err, &ve)
}
