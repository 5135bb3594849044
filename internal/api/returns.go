package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/zalaj/garderoba/internal/imaging"
	"github.com/zalaj/garderoba/internal/model"
	"github.com/zalaj/garderoba/internal/store"
)

// maxEvidenceUpload caps evidence uploads before decoding.
const maxEvidenceUpload = 10 << 20 // 10 MiB

// ReturnsHandler handles return submission and the reviewer verification
// workflow.
type ReturnsHandler struct {
	DB *sql.DB
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// SubmitEvidence handles POST /api/loans/{id}/return. The request body is the
// evidence photo; it is validated, normalized and stored, and the resulting
// reference moves the loan into pending_return. Evidence is append-only, so
// the loan and the actor are checked before the blob is persisted; a
// submission that would be refused anyway must not leave an orphaned image
// behind.
func (h *ReturnsHandler) SubmitEvidence(w http.ResponseWriter, r *http.Request) {
	loanID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	actor := ActorFromContext(r.Context())
	loan, err := store.GetLoan(r.Context(), h.DB, loanID)
	if err != nil {
		storeError(w, err)
		return
	}
	if !model.CanTransition(actor, loan, model.LoanStatusPendingReturn) {
		storeError(w, fmt.Errorf("submit return for loan %d: %w", loanID, store.ErrUnauthorized))
		return
	}
	if loan.Status != model.LoanStatusBorrowed {
		storeError(w, fmt.Errorf("loan %d: %w", loanID, store.ErrInvalidTransition))
		return
	}

	result, err := imaging.Process(http.MaxBytesReader(w, r.Body, maxEvidenceUpload))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	r.Body.Close()

	ref, err := store.SaveEvidence(r.Context(), h.DB, result.Data, result.MIME)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to store evidence")
		return
	}

	// SubmitReturn re-checks the status with a compare-and-set; a race lost
	// between the check above and here still fails cleanly.
	if err := store.SubmitReturn(r.Context(), h.DB, actor, loanID, ref); err != nil {
		storeError(w, err)
		return
	}

	slog.Info("return submitted", "actor", actor.Username, "loan", loanID, "evidence", ref)
	jsonResponse(w, http.StatusOK, map[string]string{"evidence_ref": ref})
}

// ListPending handles GET /api/returns/pending, grouped by transaction.
func (h *ReturnsHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	grouped, err := store.ListPendingReturns(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list pending returns")
		return
	}
	if grouped == nil {
		grouped = []model.Transaction{}
	}
	jsonResponse(w, http.StatusOK, grouped)
}

// Approve handles POST /api/loans/{id}/approve.
func (h *ReturnsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	loanID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	actor := ActorFromContext(r.Context())
	if err := store.ApproveReturn(r.Context(), h.DB, actor, loanID); err != nil {
		storeError(w, err)
		return
	}

	slog.Info("return approved", "reviewer", actor.Username, "loan", loanID)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "return approved"})
}

// Reject handles POST /api/loans/{id}/reject.
func (h *ReturnsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	loanID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	var req rejectRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := ActorFromContext(r.Context())
	if err := store.RejectReturn(r.Context(), h.DB, actor, loanID, req.Reason); err != nil {
		storeError(w, err)
		return
	}

	slog.Info("return rejected", "reviewer", actor.Username, "loan", loanID, "reason", req.Reason)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "return rejected"})
}

// MarkLost handles POST /api/loans/{id}/lost.
func (h *ReturnsHandler) MarkLost(w http.ResponseWriter, r *http.Request) {
	loanID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	actor := ActorFromContext(r.Context())
	if err := store.MarkLost(r.Context(), h.DB, actor, loanID); err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "loan marked lost"})
}

// GetEvidence handles GET /api/evidence/{ref}.
func (h *ReturnsHandler) GetEvidence(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ref")
	if ref == "" {
		jsonError(w, http.StatusBadRequest, "evidence ref required")
		return
	}

	data, mime, err := store.GetEvidence(r.Context(), h.DB, ref)
	if err != nil {
		storeError(w, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Write(data)
}
