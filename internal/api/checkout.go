package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/zalaj/garderoba/internal/cart"
	"github.com/zalaj/garderoba/internal/store"
)

// CheckoutHandler converts staged reservations into transactions and loans.
type CheckoutHandler struct {
	DB      *sql.DB
	Staging *cart.Staging
}

type checkoutRequest struct {
	MemberID       *int64  `json:"member_id"`
	GuestName      string  `json:"guest_name"`
	Category       string  `json:"category"`
	CategoryDetail string  `json:"category_detail"`
	VariantIDs     []int64 `json:"variant_ids"`
}

// Create handles POST /api/checkout. If variant_ids is omitted, the actor's
// entire staged cart is checked out.
func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := ActorFromContext(r.Context())

	variantIDs := req.VariantIDs
	if len(variantIDs) == 0 {
		for _, e := range h.Staging.List(actor.ID) {
			variantIDs = append(variantIDs, e.VariantID)
		}
	}

	transaction, err := store.Checkout(r.Context(), h.DB, store.CheckoutInput{
		Actor: actor,
		Borrower: store.BorrowerRef{
			MemberID:  req.MemberID,
			GuestName: req.GuestName,
		},
		Category:       req.Category,
		CategoryDetail: req.CategoryDetail,
		VariantIDs:     variantIDs,
	})
	if err != nil {
		storeError(w, err)
		return
	}

	// The committed variants no longer belong in staging.
	for _, id := range variantIDs {
		h.Staging.Remove(actor.ID, id)
	}

	slog.Info("checkout completed", "actor", actor.Username,
		"transaction", transaction.ID, "loans", len(transaction.Loans),
		"category", transaction.Category)
	jsonResponse(w, http.StatusCreated, transaction)
}
