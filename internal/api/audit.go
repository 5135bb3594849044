package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/zalaj/garderoba/internal/model"
	"github.com/zalaj/garderoba/internal/store"
)

// AuditHandler exposes the read side of the audit log.
type AuditHandler struct {
	DB *sql.DB
}

// List handles GET /api/audit?limit=N.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := store.ListAudit(r.Context(), h.DB, limit)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list audit log")
		return
	}
	if entries == nil {
		entries = []model.AuditEntry{}
	}
	jsonResponse(w, http.StatusOK, entries)
}
