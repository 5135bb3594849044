package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/zalaj/garderoba/internal/model"
	"github.com/zalaj/garderoba/internal/store"
)

// LoansHandler handles loan and transaction read endpoints.
type LoansHandler struct {
	DB *sql.DB
}

// List handles GET /api/loans. Members only see their own loans; reviewers
// may filter by any borrower and status.
func (h *LoansHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	status := r.URL.Query().Get("status")
	var borrowerID int64

	if actor.Can(model.CapReviewReturns) {
		if v := r.URL.Query().Get("borrower_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				jsonError(w, http.StatusBadRequest, "invalid borrower_id")
				return
			}
			borrowerID = id
		}
	} else {
		borrowerID = actor.ID
	}

	loans, err := store.ListLoans(r.Context(), h.DB, status, borrowerID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list loans")
		return
	}
	if loans == nil {
		loans = []model.Loan{}
	}
	jsonResponse(w, http.StatusOK, loans)
}

// Get handles GET /api/loans/{id}.
func (h *LoansHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	loan, err := store.GetLoan(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}

	actor := ActorFromContext(r.Context())
	if !actor.Can(model.CapReviewReturns) {
		if loan.BorrowerID == nil || *loan.BorrowerID != actor.ID {
			jsonError(w, http.StatusForbidden, "insufficient permissions")
			return
		}
	}

	jsonResponse(w, http.StatusOK, loan)
}

// ListOverdue handles GET /api/loans/overdue?days=N. Consumed by the external
// reminder job; includes borrower contact info.
func (h *LoansHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, http.StatusBadRequest, "invalid days")
			return
		}
		days = n
	}

	loans, err := store.ListOverdueLoans(r.Context(), h.DB, time.Duration(days)*24*time.Hour)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list overdue loans")
		return
	}
	if loans == nil {
		loans = []model.Loan{}
	}
	jsonResponse(w, http.StatusOK, loans)
}

// ListTransactions handles GET /api/transactions.
func (h *LoansHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	var borrowerID int64
	if actor.Can(model.CapReviewReturns) {
		if v := r.URL.Query().Get("borrower_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				jsonError(w, http.StatusBadRequest, "invalid borrower_id")
				return
			}
			borrowerID = id
		}
	} else {
		borrowerID = actor.ID
	}

	transactions, err := store.ListTransactions(r.Context(), h.DB, borrowerID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	if transactions == nil {
		transactions = []model.Transaction{}
	}
	jsonResponse(w, http.StatusOK, transactions)
}

// GetTransaction handles GET /api/transactions/{id}.
func (h *LoansHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	transaction, err := store.GetTransaction(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, transaction)
}
