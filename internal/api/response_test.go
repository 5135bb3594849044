package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zalaj/garderoba/internal/store"
)

func TestStoreErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("loan 1: %w", store.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("approve: %w", store.ErrUnauthorized), http.StatusForbidden},
		{fmt.Errorf("loan 1: %w", store.ErrInvalidTransition), http.StatusConflict},
		{fmt.Errorf("variant 1: %w", store.ErrInsufficientStock), http.StatusUnprocessableEntity},
		{fmt.Errorf("borrower: %w", store.ErrInvalidBorrower), http.StatusUnprocessableEntity},
		{fmt.Errorf("loan 1: %w", store.ErrMissingEvidence), http.StatusUnprocessableEntity},
		{fmt.Errorf("loan 1: %w", store.ErrMissingReason), http.StatusUnprocessableEntity},
		{fmt.Errorf("unknown loan category %q: %w", "vacation", store.ErrInvalidRequest), http.StatusBadRequest},
		{errors.New("beginning transaction: disk I/O error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		storeError(rec, tt.err)
		if rec.Code != tt.want {
			t.Errorf("storeError(%v) = %d, want %d", tt.err, rec.Code, tt.want)
		}
	}
}

func TestStoreErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	storeError(rec, errors.New("beginning transaction: disk I/O error"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "disk I/O") {
		t.Errorf("internal error detail leaked to the client: %s", rec.Body.String())
	}

	// Validation errors stay readable.
	rec = httptest.NewRecorder()
	storeError(rec, fmt.Errorf("stock must not be negative: %w", store.ErrInvalidRequest))
	if !strings.Contains(rec.Body.String(), "stock must not be negative") {
		t.Errorf("validation detail missing from response: %s", rec.Body.String())
	}
}
