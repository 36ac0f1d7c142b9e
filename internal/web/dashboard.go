package web

import (
	"log/slog"
	"net/http"

	"stocktab/internal/model"
	"stocktab/internal/store"
)

// Dashboard handles GET /.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	items, err := store.ListItems(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list items", "error", err)
	}

	var low, out, reorder int
	for _, item := range items {
		switch model.StatusForQuantity(item.Quantity) {
		case model.StatusLowStock:
			low++
		case model.StatusOutOfStock:
			out++
		}
		if item.Quantity <= item.ReorderLevel {
			reorder++
		}
	}

	movements, err := store.ListMovements(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list movements", "error", err)
	}
	if len(movements) > 10 {
		movements = movements[:10]
	}

	s.Templates.Render(w, "dashboard.html", &struct {
		PageData
		TotalItems   int
		LowStock     int
		OutOfStock   int
		NeedsReorder int
		Recent       []model.Movement
	}{
		PageData:     PageData{Title: "Dashboard", User: claims, Flash: takeFlash(w, r)},
		TotalItems:   len(items),
		LowStock:     low,
		OutOfStock:   out,
		NeedsReorder: reorder,
		Recent:       movements,
	})
}
