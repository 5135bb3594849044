package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zalaj/garderoba/internal/model"
)

const loanColumns = `l.id, l.transaction_id, l.variant_id, l.borrower_id, l.guest_name, l.status,
	        l.borrowed_at, l.returned_at, l.evidence_ref, l.reject_reason, l.assigned_by,
	        i.name AS item_name, v.color, v.size, COALESCE(a.full_name, '') AS borrower_name`

const loanJoins = `FROM loans l
	 JOIN variants v ON v.id = l.variant_id
	 JOIN items i ON i.id = v.item_id
	 LEFT JOIN actors a ON a.id = l.borrower_id`

// GetLoan returns a loan by ID with display fields joined, or ErrNotFound.
func GetLoan(ctx context.Context, db *sql.DB, id int64) (*model.Loan, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+loanColumns+` `+loanJoins+` WHERE l.id = ?`, id,
	)
	loan, err := scanLoanRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("loan %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting loan: %w", err)
	}
	return loan, nil
}

// ListLoans returns loans, optionally filtered by status and/or borrower.
func ListLoans(ctx context.Context, db *sql.DB, status string, borrowerID int64) ([]model.Loan, error) {
	query := `SELECT ` + loanColumns + ` ` + loanJoins + ` WHERE 1=1`
	var args []any

	if status != "" {
		query += ` AND l.status = ?`
		args = append(args, status)
	}
	if borrowerID > 0 {
		query += ` AND l.borrower_id = ?`
		args = append(args, borrowerID)
	}

	query += ` ORDER BY l.borrowed_at DESC, l.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing loans: %w", err)
	}
	defer rows.Close()

	return scanLoans(rows)
}

// SubmitReturn moves a borrowed loan into pending_return. The borrower (or a
// reviewer acting on their behalf) must supply a non-empty evidence
// reference; any earlier rejection reason is cleared so the reviewer sees a
// clean resubmission.
func SubmitReturn(ctx context.Context, db *sql.DB, actor *model.Actor, loanID int64, evidenceRef string) error {
	loan, err := GetLoan(ctx, db, loanID)
	if err != nil {
		return err
	}
	if !model.CanTransition(actor, loan, model.LoanStatusPendingReturn) {
		return fmt.Errorf("submit return for loan %d: %w", loanID, ErrUnauthorized)
	}
	if evidenceRef == "" {
		return fmt.Errorf("submit return for loan %d: %w", loanID, ErrMissingEvidence)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE loans SET status = ?, evidence_ref = ?, reject_reason = NULL
		 WHERE id = ? AND status = ?`,
		model.LoanStatusPendingReturn, evidenceRef, loanID, model.LoanStatusBorrowed,
	)
	if err != nil {
		return fmt.Errorf("submitting return: %w", err)
	}
	if err := requireTransition(result, loanID); err != nil {
		return err
	}

	RecordAudit(ctx, db, actor.FullName, "return submitted",
		fmt.Sprintf("%s (%s/%s) for %s", loan.ItemName, loan.Color, loan.Size, loan.BorrowerLabel()))
	return nil
}

// ApproveReturn closes a pending_return loan and hands the unit back to
// stock. The status update is conditioned on the loan still being in
// pending_return, so a concurrent second approval (or rejection) loses the
// race and cannot increment stock twice.
func ApproveReturn(ctx context.Context, db *sql.DB, reviewer *model.Actor, loanID int64) error {
	loan, err := GetLoan(ctx, db, loanID)
	if err != nil {
		return err
	}
	if !model.CanTransition(reviewer, loan, model.LoanStatusReturned) {
		return fmt.Errorf("approve return for loan %d: %w", loanID, ErrUnauthorized)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE loans SET status = ?, returned_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.LoanStatusReturned, loanID, model.LoanStatusPendingReturn,
	)
	if err != nil {
		return fmt.Errorf("approving return: %w", err)
	}
	if err := requireTransition(result, loanID); err != nil {
		return err
	}

	if err := incrementStock(ctx, tx, loan.VariantID, 1); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing approval: %w", err)
	}

	RecordAudit(ctx, db, reviewer.FullName, "return approved",
		fmt.Sprintf("%s (%s/%s) from %s", loan.ItemName, loan.Color, loan.Size, loan.BorrowerLabel()))
	return nil
}

// RejectReturn sends a pending_return loan back to borrowed. The evidence
// reference is cleared so the borrower must resubmit; the reason stays on the
// loan so the borrower can see why. Stock is untouched.
func RejectReturn(ctx context.Context, db *sql.DB, reviewer *model.Actor, loanID int64, reason string) error {
	loan, err := GetLoan(ctx, db, loanID)
	if err != nil {
		return err
	}
	if !model.CanTransition(reviewer, loan, model.LoanStatusBorrowed) {
		return fmt.Errorf("reject return for loan %d: %w", loanID, ErrUnauthorized)
	}
	if reason == "" {
		return fmt.Errorf("reject return for loan %d: %w", loanID, ErrMissingReason)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE loans SET status = ?, evidence_ref = NULL, reject_reason = ?
		 WHERE id = ? AND status = ?`,
		model.LoanStatusBorrowed, reason, loanID, model.LoanStatusPendingReturn,
	)
	if err != nil {
		return fmt.Errorf("rejecting return: %w", err)
	}
	if err := requireTransition(result, loanID); err != nil {
		return err
	}

	RecordAudit(ctx, db, reviewer.FullName, "return rejected",
		fmt.Sprintf("%s (%s/%s) from %s: %s", loan.ItemName, loan.Color, loan.Size, loan.BorrowerLabel(), reason))
	return nil
}

// MarkLost writes off a borrowed loan as lost. Stock is untouched: the unit
// left the shelf at checkout and is not coming back.
func MarkLost(ctx context.Context, db *sql.DB, actor *model.Actor, loanID int64) error {
	loan, err := GetLoan(ctx, db, loanID)
	if err != nil {
		return err
	}
	if !model.CanTransition(actor, loan, model.LoanStatusLost) {
		return fmt.Errorf("mark loan %d lost: %w", loanID, ErrUnauthorized)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE loans SET status = ? WHERE id = ? AND status = ?`,
		model.LoanStatusLost, loanID, model.LoanStatusBorrowed,
	)
	if err != nil {
		return fmt.Errorf("marking loan lost: %w", err)
	}
	if err := requireTransition(result, loanID); err != nil {
		return err
	}

	RecordAudit(ctx, db, actor.FullName, "loan marked lost",
		fmt.Sprintf("%s (%s/%s) held by %s", loan.ItemName, loan.Color, loan.Size, loan.BorrowerLabel()))
	return nil
}

// ListPendingReturns returns all loans awaiting verification, grouped by
// their parent transaction for reviewer convenience.
func ListPendingReturns(ctx context.Context, db *sql.DB) ([]model.Transaction, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+loanColumns+` `+loanJoins+`
		 WHERE l.status = ?
		 ORDER BY l.transaction_id, l.id`,
		model.LoanStatusPendingReturn,
	)
	if err != nil {
		return nil, fmt.Errorf("listing pending returns: %w", err)
	}
	defer rows.Close()

	loans, err := scanLoans(rows)
	if err != nil {
		return nil, err
	}

	var grouped []model.Transaction
	byID := make(map[int64]int)
	for _, loan := range loans {
		idx, ok := byID[loan.TransactionID]
		if !ok {
			t, err := GetTransaction(ctx, db, loan.TransactionID)
			if err != nil {
				return nil, err
			}
			t.Loans = nil
			grouped = append(grouped, *t)
			idx = len(grouped) - 1
			byID[loan.TransactionID] = idx
		}
		grouped[idx].Loans = append(grouped[idx].Loans, loan)
	}
	return grouped, nil
}

// ListOverdueLoans returns borrowed loans older than the given age, with
// borrower contact info joined. Consumed by the external reminder job; this
// core only answers the query.
func ListOverdueLoans(ctx context.Context, db *sql.DB, olderThan time.Duration) ([]model.Loan, error) {
	cutoff := time.Now().Add(-olderThan).UTC()

	rows, err := db.QueryContext(ctx,
		`SELECT `+loanColumns+`, COALESCE(a.phone_number, '') `+loanJoins+`
		 WHERE l.status = ? AND l.borrowed_at < ?
		 ORDER BY l.borrowed_at`,
		model.LoanStatusBorrowed, cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("listing overdue loans: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		var l model.Loan
		var guestName, evidenceRef, rejectReason, phone sql.NullString
		if err := rows.Scan(&l.ID, &l.TransactionID, &l.VariantID, &l.BorrowerID, &guestName, &l.Status,
			&l.BorrowedAt, &l.ReturnedAt, &evidenceRef, &rejectReason, &l.AssignedBy,
			&l.ItemName, &l.Color, &l.Size, &l.BorrowerName, &phone); err != nil {
			return nil, fmt.Errorf("scanning overdue loan: %w", err)
		}
		l.GuestName = guestName.String
		l.EvidenceRef = evidenceRef.String
		l.RejectReason = rejectReason.String
		l.BorrowerPhone = phone.String
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

// requireTransition turns a zero-row conditional update into
// ErrInvalidTransition. The loan is known to exist at this point, so zero
// rows means its status changed under the caller.
func requireTransition(result sql.Result, loanID int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking transition: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("loan %d: %w", loanID, ErrInvalidTransition)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoanRow(row rowScanner) (*model.Loan, error) {
	var l model.Loan
	var guestName, evidenceRef, rejectReason sql.NullString
	err := row.Scan(&l.ID, &l.TransactionID, &l.VariantID, &l.BorrowerID, &guestName, &l.Status,
		&l.BorrowedAt, &l.ReturnedAt, &evidenceRef, &rejectReason, &l.AssignedBy,
		&l.ItemName, &l.Color, &l.Size, &l.BorrowerName)
	if err != nil {
		return nil, err
	}
	l.GuestName = guestName.String
	l.EvidenceRef = evidenceRef.String
	l.RejectReason = rejectReason.String
	return &l, nil
}

func scanLoans(rows *sql.Rows) ([]model.Loan, error) {
	var loans []model.Loan
	for rows.Next() {
		loan, err := scanLoanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning loan: %w", err)
		}
		loans = append(loans, *loan)
	}
	return loans, rows.Err()
}
