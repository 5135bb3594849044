package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// SaveEvidence stores a processed evidence image and returns its opaque
// reference. Evidence is append-only; nothing in the core ever inspects the
// bytes again, it only hands out the reference.
func SaveEvidence(ctx context.Context, db *sql.DB, data []byte, mime string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("evidence data is empty: %w", ErrInvalidRequest)
	}

	ref := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO evidence (ref, data, mime) VALUES (?, ?, ?)`,
		ref, data, mime,
	)
	if err != nil {
		return "", fmt.Errorf("saving evidence: %w", err)
	}
	return ref, nil
}

// GetEvidence returns the stored image for a reference, or ErrNotFound.
func GetEvidence(ctx context.Context, db *sql.DB, ref string) ([]byte, string, error) {
	var data []byte
	var mime string
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM evidence WHERE ref = ?`, ref,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", fmt.Errorf("evidence %q: %w", ref, ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting evidence: %w", err)
	}
	return data, mime, nil
}
