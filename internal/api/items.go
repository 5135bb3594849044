package api

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"github.com/zalaj/garderoba/internal/imaging"
	"github.com/zalaj/garderoba/internal/model"
	"github.com/zalaj/garderoba/internal/store"
)

// maxCoverUpload caps item cover uploads before decoding.
const maxCoverUpload = 5 << 20 // 5 MiB

// ItemsHandler handles item and variant endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type createItemRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type createVariantRequest struct {
	Color    string `json:"color"`
	Size     string `json:"size"`
	Location string `json:"location"`
	Stock    int    `json:"stock"`
}

type updateVariantRequest struct {
	Color    string `json:"color"`
	Size     string `json:"size"`
	Location string `json:"location"`
}

type adjustStockRequest struct {
	Delta int `json:"delta"`
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	items, err := store.ListItems(r.Context(), h.DB, category)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, req.Name, req.Category)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}, including the item's variants.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}

	item.Variants, err = store.ListVariants(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list variants")
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := store.UpdateItem(r.Context(), h.DB, id, req.Name, req.Category); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item updated"})
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// UploadImage handles PUT /api/items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	result, err := imaging.Process(http.MaxBytesReader(w, r.Body, maxCoverUpload))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	r.Body.Close()

	if err := store.SetItemImage(r.Context(), h.DB, id, result.Data, result.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	image, mime, err := store.GetItemImage(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}
	if len(image) == 0 {
		jsonError(w, http.StatusNotFound, "item has no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Write(image)
}

// CreateVariant handles POST /api/items/{id}/variants.
func (h *ItemsHandler) CreateVariant(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req createVariantRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Color == "" && req.Size == "" {
		jsonError(w, http.StatusBadRequest, "color or size required")
		return
	}

	variant, err := store.CreateVariant(r.Context(), h.DB, itemID, req.Color, req.Size, req.Location, req.Stock)
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, variant)
}

// UpdateVariant handles PUT /api/variants/{id}.
func (h *ItemsHandler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid variant id")
		return
	}

	var req updateVariantRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.UpdateVariant(r.Context(), h.DB, id, req.Color, req.Size, req.Location); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update variant")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "variant updated"})
}

// AdjustStock handles POST /api/variants/{id}/stock for corrections
// (receiving new units, writing off damage). Loans never go through here.
func (h *ItemsHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid variant id")
		return
	}

	var req adjustStockRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Delta == 0 {
		jsonError(w, http.StatusBadRequest, "non-zero delta required")
		return
	}

	if err := store.AdjustStock(r.Context(), h.DB, id, req.Delta); err != nil {
		storeError(w, err)
		return
	}

	actor := ActorFromContext(r.Context())
	detail := "variant " + strconv.FormatInt(id, 10)
	if variant, err := store.GetVariant(r.Context(), h.DB, id); err == nil {
		detail = variant.Label()
	}
	store.RecordAudit(r.Context(), h.DB, actor.FullName, "stock adjusted",
		fmt.Sprintf("%s by %+d", detail, req.Delta))

	jsonResponse(w, http.StatusOK, map[string]string{"message": "stock adjusted"})
}

// GetVariant handles GET /api/variants/{id}.
func (h *ItemsHandler) GetVariant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid variant id")
		return
	}

	variant, err := store.GetVariant(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, variant)
}
