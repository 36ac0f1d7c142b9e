package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"stocktab/internal/notify"
	"stocktab/internal/store"
	"stocktab/internal/view"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// storeError maps a store or projection error to an HTTP status and writes
// the matching notification as the response body.
func storeError(w http.ResponseWriter, err error) {
	var ve *store.ValidationError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &ve), errors.Is(err, store.ErrInvalidAmount), errors.Is(err, view.ErrInvalidSortKey):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrInsufficientStock):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		slog.Error("internal error", "error", err)
	}
	jsonResponse(w, status, notify.ForError(err))
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
