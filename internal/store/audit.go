package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/zalaj/garderoba/internal/model"
)

// RecordAudit appends an entry to the audit log. It is fire-and-forget: a
// failed write must never roll back or fail the business operation it
// describes, so the error is surfaced to operators through the log instead
// of the caller.
func RecordAudit(ctx context.Context, db *sql.DB, actorName, action, details string) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO audit_log (actor_name, action, details) VALUES (?, ?, ?)`,
		actorName, action, details,
	)
	if err != nil {
		slog.Error("audit write failed", "actor", actorName, "action", action, "error", err)
	}
}

// ListAudit returns the newest audit entries, up to limit.
func ListAudit(ctx context.Context, db *sql.DB, limit int) ([]model.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, actor_name, action, details, created_at
		 FROM audit_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing audit log: %w", err)
	}
	defer rows.Close()

	var entries []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		var details sql.NullString
		if err := rows.Scan(&e.ID, &e.ActorName, &e.Action, &details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		e.Details = details.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
