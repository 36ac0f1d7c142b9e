package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"stocktab/internal/imaging"
	"stocktab/internal/model"
	"stocktab/internal/notify"
	"stocktab/internal/store"
	"stocktab/internal/view"
)

// ItemsPage handles GET /items: the inventory table, re-rendered with the
// current search, filter, and sort state.
func (s *Server) ItemsPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	q := r.URL.Query()

	sortBy, err := view.ParseSortKey(q.Get("sort"))
	if err != nil {
		sortBy = view.SortByName
	}
	order, err := view.ParseSortOrder(q.Get("order"))
	if err != nil {
		order = view.Ascending
	}

	state := view.State{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		SortBy:   sortBy,
		Order:    order,
	}

	items, err := store.ListItems(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list items", "error", err)
	}

	projection, err := view.Project(items, state)
	if err != nil {
		slog.Error("failed to project items", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Templates.Render(w, "items.html", &struct {
		PageData
		Projection *view.Projection
		State      view.State
		Categories []string
	}{
		PageData:   PageData{Title: "Inventory", User: claims, Flash: takeFlash(w, r)},
		Projection: projection,
		State:      state,
		Categories: categories(items),
	})
}

// flashError surfaces a failed mutation as a flash message and redirects.
// User mistakes (bad input, not enough stock) are not worth log noise;
// anything else gets logged before the user sees a generic message.
func flashError(w http.ResponseWriter, r *http.Request, err error, to string) {
	if !store.IsUserError(err) {
		slog.Error("mutation failed", "path", r.URL.Path, "error", err)
	}
	setFlash(w, notify.ForError(err))
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// categories returns the distinct item categories, sorted, for the filter
// dropdown.
func categories(items []model.Item) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range items {
		if !seen[item.Category] {
			seen[item.Category] = true
			out = append(out, item.Category)
		}
	}
	sort.Strings(out)
	return out
}

// ItemDetailPage handles GET /items/{id}.
func (s *Server) ItemDetailPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id := r.PathValue("id")

	item, err := store.GetItem(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if item == nil {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}

	history, err := store.GetItemHistory(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get item history", "error", err)
	}

	s.Templates.Render(w, "item_detail.html", &struct {
		PageData
		Item    *model.Item
		Status  model.StockStatus
		History []model.Movement
	}{
		PageData: PageData{Title: item.Name, User: claims, Flash: takeFlash(w, r)},
		Item:     item,
		Status:   model.StatusForQuantity(item.Quantity),
		History:  history,
	})
}

// ItemAddSubmit handles POST /items.
func (s *Server) ItemAddSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if !claims.Admin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	draft := store.ItemDraft{
		Name:     r.FormValue("name"),
		Category: r.FormValue("category"),
		Unit:     r.FormValue("unit"),
		Supplier: r.FormValue("supplier"),
		Date:     r.FormValue("date"),
	}
	draft.Quantity, _ = strconv.Atoi(r.FormValue("quantity"))
	if v := r.FormValue("reorder_level"); v != "" {
		if level, err := strconv.Atoi(v); err == nil {
			draft.ReorderLevel = &level
		}
	}

	item, err := store.AddItem(r.Context(), s.DB, draft)
	if err != nil {
		flashError(w, r, err, "/items")
		return
	}

	slog.Info("item added", "user", claims.Username, "item", item.ID, "name", item.Name)
	setFlash(w, notify.Notification{Kind: notify.Success, Title: fmt.Sprintf("Added %s (%s)", item.Name, item.ID)})
	http.Redirect(w, r, "/items", http.StatusSeeOther)
}

// ItemStockSubmit handles POST /items/{id}/stock. The action form field
// selects stock-in or stock-out.
func (s *Server) ItemStockSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id := r.PathValue("id")

	amount, _ := strconv.Atoi(r.FormValue("amount"))
	userID := claims.UserID

	var item *model.Item
	var err error
	var verb string
	switch r.FormValue("action") {
	case "out":
		item, err = store.StockOut(r.Context(), s.DB, id, amount, &userID)
		verb = "removed from"
	default:
		item, err = store.StockIn(r.Context(), s.DB, id, amount, &userID)
		verb = "added to"
	}

	if err != nil {
		flashError(w, r, err, "/items")
		return
	}

	slog.Info("stock changed", "user", claims.Username, "item", item.ID, "quantity", item.Quantity)
	setFlash(w, notify.Notification{
		Kind:  notify.Success,
		Title: fmt.Sprintf("%d %s %s, now %d %s", amount, verb, item.Name, item.Quantity, item.Unit),
	})
	http.Redirect(w, r, "/items", http.StatusSeeOther)
}

// ItemReorderSubmit handles POST /items/{id}/reorder-level.
func (s *Server) ItemReorderSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id := r.PathValue("id")

	level, err := strconv.Atoi(r.FormValue("level"))
	if err != nil {
		// Invalid input falls back to the cap, same as item creation.
		level = model.ReorderCap
	}

	item, err := store.SetReorderLevel(r.Context(), s.DB, id, level)
	if err != nil {
		flashError(w, r, err, "/items")
		return
	}

	slog.Info("reorder level changed", "user", claims.Username, "item", item.ID, "level", item.ReorderLevel)
	setFlash(w, notify.Notification{
		Kind:  notify.Success,
		Title: fmt.Sprintf("Reorder level for %s set to %d", item.Name, item.ReorderLevel),
	})
	http.Redirect(w, r, fmt.Sprintf("/items/%s", id), http.StatusSeeOther)
}

// ItemArchiveSubmit handles POST /items/{id}/archive. The confirmation
// dialog happens client-side before this is submitted.
func (s *Server) ItemArchiveSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if !claims.Admin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	item, err := store.Archive(r.Context(), s.DB, r.PathValue("id"))
	if err != nil {
		flashError(w, r, err, "/items")
		return
	}

	slog.Info("item archived", "user", claims.Username, "item", item.ID, "name", item.Name)
	setFlash(w, notify.Notification{Kind: notify.Success, Title: fmt.Sprintf("Archived %s", item.Name)})
	http.Redirect(w, r, "/items", http.StatusSeeOther)
}

// ArchivePage handles GET /archive.
func (s *Server) ArchivePage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	items, err := store.ListArchived(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list archived items", "error", err)
	}

	s.Templates.Render(w, "archive.html", &struct {
		PageData
		Items []model.Item
	}{
		PageData: PageData{Title: "Archive", User: claims, Flash: takeFlash(w, r)},
		Items:    items,
	})
}

// ItemImageSubmit handles POST /items/{id}/image.
func (s *Server) ItemImageSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id := r.PathValue("id")

	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		http.Error(w, "file too large", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := imaging.Process(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := store.SetItemImage(r.Context(), s.DB, id, result.Data, result.MIME); err != nil {
		flashError(w, r, err, "/items")
		return
	}

	slog.Info("item image uploaded", "user", claims.Username, "item", id)
	http.Redirect(w, r, fmt.Sprintf("/items/%s", id), http.StatusSeeOther)
}

// ItemImageGet handles GET /items/{id}/image.
func (s *Server) ItemImageGet(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetItemImage(r.Context(), s.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get image", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write image response", "error", err)
	}
}
