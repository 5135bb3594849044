package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/zalaj/garderoba/internal/cart"
	"github.com/zalaj/garderoba/internal/store"
)

// CartHandler handles reservation staging endpoints. The staging itself is
// in-memory and advisory; nothing here touches stock.
type CartHandler struct {
	DB      *sql.DB
	Staging *cart.Staging
}

type addCartRequest struct {
	VariantID int64 `json:"variant_id"`
}

// cartLine is a staged entry with its advisory remaining count.
type cartLine struct {
	cart.Entry
	Remaining int `json:"remaining"`
}

// List handles GET /api/cart. Each line's remaining count is computed as the
// live stock minus the unit this actor has staged; it is display advice only
// and is re-validated at checkout.
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())
	entries := h.Staging.List(actor.ID)

	lines := make([]cartLine, 0, len(entries))
	for _, e := range entries {
		line := cartLine{Entry: e}
		variant, err := store.GetVariant(r.Context(), h.DB, e.VariantID)
		if err == nil {
			line.Remaining = variant.Stock - 1
			if line.Remaining < 0 {
				line.Remaining = 0
			}
		}
		lines = append(lines, line)
	}

	jsonResponse(w, http.StatusOK, lines)
}

// Add handles POST /api/cart.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addCartRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.VariantID <= 0 {
		jsonError(w, http.StatusBadRequest, "variant_id required")
		return
	}

	variant, err := store.GetVariant(r.Context(), h.DB, req.VariantID)
	if err != nil {
		storeError(w, err)
		return
	}

	actor := ActorFromContext(r.Context())
	entry := cart.Entry{
		VariantID: variant.ID,
		ItemID:    variant.ItemID,
		ItemName:  variant.ItemName,
		Color:     variant.Color,
		Size:      variant.Size,
		Location:  variant.Location,
	}

	if err := h.Staging.Add(actor.ID, entry); err != nil {
		if errors.Is(err, cart.ErrAlreadyStaged) {
			jsonError(w, http.StatusConflict, "variant already staged")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to stage variant")
		return
	}

	jsonResponse(w, http.StatusCreated, entry)
}

// Remove handles DELETE /api/cart/{variantID}.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	variantID, err := strconv.ParseInt(r.PathValue("variantID"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid variant id")
		return
	}

	actor := ActorFromContext(r.Context())
	if !h.Staging.Remove(actor.ID, variantID) {
		jsonError(w, http.StatusNotFound, "variant not staged")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "removed"})
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())
	h.Staging.Clear(actor.ID)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}
