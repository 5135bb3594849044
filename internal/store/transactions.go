package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zalaj/garderoba/internal/model"
)

// GetTransaction returns a transaction with its loans, or ErrNotFound.
func GetTransaction(ctx context.Context, db *sql.DB, id int64) (*model.Transaction, error) {
	t := &model.Transaction{}
	var guestName, detail sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT t.id, t.actor_id, t.borrower_id, t.guest_name, t.category, t.category_detail,
		        t.created_at, act.full_name AS actor_name, COALESCE(b.full_name, '') AS borrower_name
		 FROM transactions t
		 JOIN actors act ON act.id = t.actor_id
		 LEFT JOIN actors b ON b.id = t.borrower_id
		 WHERE t.id = ?`, id,
	).Scan(&t.ID, &t.ActorID, &t.BorrowerID, &guestName, &t.Category, &detail,
		&t.CreatedAt, &t.ActorName, &t.BorrowerName)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting transaction: %w", err)
	}
	t.GuestName = guestName.String
	t.CategoryDetail = detail.String

	rows, err := db.QueryContext(ctx,
		`SELECT `+loanColumns+` `+loanJoins+` WHERE l.transaction_id = ? ORDER BY l.id`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("getting transaction loans: %w", err)
	}
	defer rows.Close()

	t.Loans, err = scanLoans(rows)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTransactions returns checkout history, newest first, optionally
// filtered by borrower. Loans are not nested here; use GetTransaction for
// the full picture.
func ListTransactions(ctx context.Context, db *sql.DB, borrowerID int64) ([]model.Transaction, error) {
	query := `SELECT t.id, t.actor_id, t.borrower_id, t.guest_name, t.category, t.category_detail,
	                 t.created_at, act.full_name AS actor_name, COALESCE(b.full_name, '') AS borrower_name
	          FROM transactions t
	          JOIN actors act ON act.id = t.actor_id
	          LEFT JOIN actors b ON b.id = t.borrower_id
	          WHERE 1=1`
	var args []any

	if borrowerID > 0 {
		query += ` AND t.borrower_id = ?`
		args = append(args, borrowerID)
	}

	query += ` ORDER BY t.created_at DESC, t.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var guestName, detail sql.NullString
		if err := rows.Scan(&t.ID, &t.ActorID, &t.BorrowerID, &guestName, &t.Category, &detail,
			&t.CreatedAt, &t.ActorName, &t.BorrowerName); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		t.GuestName = guestName.String
		t.CategoryDetail = detail.String
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
