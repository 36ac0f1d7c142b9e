package api

import (
	"context"
	"database/sql"
	"net/http"

	"stocktab/internal/imaging"
	"stocktab/internal/model"
	"stocktab/internal/store"
	"stocktab/internal/view"
)

// ItemsHandler handles inventory item endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type createItemRequest struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Quantity     int    `json:"quantity"`
	Unit         string `json:"unit"`
	Supplier     string `json:"supplier"`
	ReorderLevel *int   `json:"reorder_level"`
	Date         string `json:"date"`
}

type stockRequest struct {
	Amount int `json:"amount"`
}

type reorderLevelRequest struct {
	Level int `json:"level"`
}

// List handles GET /api/items. Query parameters q, category, sort, and order
// drive the projection; the response is the projected table, not the raw
// snapshot.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	state, err := viewStateFromQuery(r)
	if err != nil {
		storeError(w, err)
		return
	}

	items, err := store.ListItems(r.Context(), h.DB)
	if err != nil {
		storeError(w, err)
		return
	}

	projection, err := view.Project(items, state)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, projection)
}

// viewStateFromQuery builds the transient view state from query parameters.
func viewStateFromQuery(r *http.Request) (view.State, error) {
	q := r.URL.Query()

	sortBy, err := view.ParseSortKey(q.Get("sort"))
	if err != nil {
		return view.State{}, err
	}
	order, err := view.ParseSortOrder(q.Get("order"))
	if err != nil {
		return view.State{}, err
	}

	return view.State{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		SortBy:   sortBy,
		Order:    order,
	}, nil
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := store.AddItem(r.Context(), h.DB, store.ItemDraft{
		Name:         req.Name,
		Category:     req.Category,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Supplier:     req.Supplier,
		ReorderLevel: req.ReorderLevel,
		Date:         req.Date,
	})
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}
	if item == nil {
		storeError(w, store.ErrItemNotFound)
		return
	}

	history, err := store.GetItemHistory(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}
	if history == nil {
		history = []model.Movement{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"item":    item,
		"history": history,
	})
}

// StockIn handles POST /api/items/{id}/stock-in.
func (h *ItemsHandler) StockIn(w http.ResponseWriter, r *http.Request) {
	h.applyStock(w, r, store.StockIn)
}

// StockOut handles POST /api/items/{id}/stock-out.
func (h *ItemsHandler) StockOut(w http.ResponseWriter, r *http.Request) {
	h.applyStock(w, r, store.StockOut)
}

type stockFunc func(ctx context.Context, db *sql.DB, id string, amount int, userID *int64) (*model.Item, error)

func (h *ItemsHandler) applyStock(w http.ResponseWriter, r *http.Request, apply stockFunc) {
	var req stockRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var userID *int64
	if claims := GetClaims(r.Context()); claims != nil {
		userID = &claims.UserID
	}

	item, err := apply(r.Context(), h.DB, r.PathValue("id"), req.Amount, userID)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// SetReorderLevel handles PUT /api/items/{id}/reorder-level.
func (h *ItemsHandler) SetReorderLevel(w http.ResponseWriter, r *http.Request) {
	var req reorderLevelRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := store.SetReorderLevel(r.Context(), h.DB, r.PathValue("id"), req.Level)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Archive handles DELETE /api/items/{id}. The removed record is returned so
// the caller can surface what was archived.
func (h *ItemsHandler) Archive(w http.ResponseWriter, r *http.Request) {
	item, err := store.Archive(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// ListArchived handles GET /api/archive.
func (h *ItemsHandler) ListArchived(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListArchived(r.Context(), h.DB)
	if err != nil {
		storeError(w, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// GetHistory handles GET /api/items/{id}/history.
func (h *ItemsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := store.GetItemHistory(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}
	if history == nil {
		history = []model.Movement{}
	}
	jsonResponse(w, http.StatusOK, history)
}

// UploadImage handles PUT /api/items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	result, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetItemImage(r.Context(), h.DB, r.PathValue("id"), result.Data, result.MIME); err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetItemImage(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
