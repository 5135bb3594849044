package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zalaj/garderoba/internal/model"
)

// BorrowerRef names who a checkout is for: a registered member or a free-text
// guest. Exactly one must be set.
type BorrowerRef struct {
	MemberID  *int64
	GuestName string
}

// CheckoutInput carries everything the checkout engine needs.
type CheckoutInput struct {
	Actor          *model.Actor
	Borrower       BorrowerRef
	Category       string
	CategoryDetail string
	VariantIDs     []int64
}

// Checkout converts a staged reservation into a transaction with one loan per
// variant, decrementing each variant's stock. The operation is all-or-nothing:
// the first exhausted variant aborts the database transaction, which restores
// every decrement already applied, and no transaction or loan rows survive.
func Checkout(ctx context.Context, db *sql.DB, in CheckoutInput) (*model.Transaction, error) {
	if in.Actor == nil {
		return nil, fmt.Errorf("checkout: %w", ErrUnauthorized)
	}
	if !in.Actor.Can(model.CapCheckout) {
		return nil, fmt.Errorf("checkout: %w", ErrUnauthorized)
	}
	if len(in.VariantIDs) == 0 {
		return nil, fmt.Errorf("checkout requires at least one variant: %w", ErrInvalidRequest)
	}
	seen := make(map[int64]bool, len(in.VariantIDs))
	for _, id := range in.VariantIDs {
		if seen[id] {
			return nil, fmt.Errorf("variant %d listed twice in checkout: %w", id, ErrInvalidRequest)
		}
		seen[id] = true
	}

	if err := validateBorrower(ctx, db, in); err != nil {
		return nil, err
	}
	if !model.ValidCategory(in.Category) {
		return nil, fmt.Errorf("unknown loan category %q: %w", in.Category, ErrInvalidRequest)
	}
	if model.CategoryRequiresDetail(in.Category) && in.CategoryDetail == "" {
		return nil, fmt.Errorf("loan category %q requires a detail text: %w", in.Category, ErrInvalidRequest)
	}
	if model.CategoryRequiresGuest(in.Category) && in.Borrower.GuestName == "" {
		return nil, fmt.Errorf("loan category %q requires a guest borrower: %w", in.Category, ErrInvalidBorrower)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Take one unit per variant. The first failure aborts; the rollback above
	// hands back everything taken so far.
	for _, variantID := range in.VariantIDs {
		if err := tryDecrementStock(ctx, tx, variantID, 1); err != nil {
			return nil, err
		}
	}

	var borrowerID any
	var guestName any
	if in.Borrower.MemberID != nil {
		borrowerID = *in.Borrower.MemberID
	} else {
		guestName = in.Borrower.GuestName
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (actor_id, borrower_id, guest_name, category, category_detail)
		 VALUES (?, ?, ?, ?, ?)`,
		in.Actor.ID, borrowerID, guestName, in.Category, in.CategoryDetail,
	)
	if err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}
	transactionID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting transaction id: %w", err)
	}

	for _, variantID := range in.VariantIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO loans (transaction_id, variant_id, borrower_id, guest_name, status, assigned_by)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			transactionID, variantID, borrowerID, guestName, model.LoanStatusBorrowed, in.Actor.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("creating loan for variant %d: %w", variantID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing checkout: %w", err)
	}

	created, err := GetTransaction(ctx, db, transactionID)
	if err != nil {
		return nil, err
	}

	RecordAudit(ctx, db, in.Actor.FullName, "checkout",
		fmt.Sprintf("%d item(s) for %s (%s)", len(in.VariantIDs), borrowerLabel(created), in.Category))

	return created, nil
}

// validateBorrower rejects a malformed borrower descriptor before any stock
// is touched.
func validateBorrower(ctx context.Context, db *sql.DB, in CheckoutInput) error {
	hasMember := in.Borrower.MemberID != nil
	hasGuest := in.Borrower.GuestName != ""

	if hasMember == hasGuest {
		return fmt.Errorf("exactly one of member or guest name must be given: %w", ErrInvalidBorrower)
	}

	if hasMember {
		member, err := GetActor(ctx, db, *in.Borrower.MemberID)
		if err != nil {
			return fmt.Errorf("borrower: %w", ErrInvalidBorrower)
		}
		if member.DeletedAt != nil {
			return fmt.Errorf("borrower account is deleted: %w", ErrInvalidBorrower)
		}
	}
	return nil
}

func borrowerLabel(t *model.Transaction) string {
	if t.GuestName != "" {
		return t.GuestName
	}
	if t.BorrowerName != "" {
		return t.BorrowerName
	}
	return "unknown borrower"
}
