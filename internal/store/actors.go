package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zalaj/garderoba/internal/model"
)

// CreateActor creates a new actor account.
func CreateActor(ctx context.Context, db *sql.DB, username, passwordHash, fullName, phoneNumber, role string) (*model.Actor, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO actors (username, password_hash, full_name, phone_number, role)
		 VALUES (?, ?, ?, ?, ?)`,
		username, passwordHash, fullName, phoneNumber, role,
	)
	if err != nil {
		return nil, fmt.Errorf("creating actor: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting actor id: %w", err)
	}

	return GetActor(ctx, db, id)
}

// GetActor returns an actor by ID, or ErrNotFound.
func GetActor(ctx context.Context, db *sql.DB, id int64) (*model.Actor, error) {
	a := &model.Actor{}
	var phone sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, full_name, phone_number, role, created_at, deleted_at
		 FROM actors WHERE id = ?`, id,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.FullName, &phone, &a.Role, &a.CreatedAt, &a.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("actor %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting actor: %w", err)
	}
	a.PhoneNumber = phone.String
	return a, nil
}

// GetActorByUsername returns an actor by username (including soft-deleted
// accounts, so auth checks can tell "deleted" from "never existed").
func GetActorByUsername(ctx context.Context, db *sql.DB, username string) (*model.Actor, error) {
	a := &model.Actor{}
	var phone sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, full_name, phone_number, role, created_at, deleted_at
		 FROM actors WHERE username = ?`, username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.FullName, &phone, &a.Role, &a.CreatedAt, &a.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting actor by username: %w", err)
	}
	a.PhoneNumber = phone.String
	return a, nil
}

// ListActors returns all non-deleted actors.
func ListActors(ctx context.Context, db *sql.DB) ([]model.Actor, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, username, password_hash, full_name, phone_number, role, created_at, deleted_at
		 FROM actors WHERE deleted_at IS NULL ORDER BY full_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing actors: %w", err)
	}
	defer rows.Close()

	var actors []model.Actor
	for rows.Next() {
		var a model.Actor
		var phone sql.NullString
		if err := rows.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.FullName, &phone, &a.Role, &a.CreatedAt, &a.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning actor: %w", err)
		}
		a.PhoneNumber = phone.String
		actors = append(actors, a)
	}
	return actors, rows.Err()
}

// UpdateActor updates an actor's profile and role.
func UpdateActor(ctx context.Context, db *sql.DB, id int64, fullName, phoneNumber, role string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE actors SET full_name = ?, phone_number = ?, role = ? WHERE id = ? AND deleted_at IS NULL`,
		fullName, phoneNumber, role, id,
	)
	if err != nil {
		return fmt.Errorf("updating actor: %w", err)
	}
	return nil
}

// UpdateActorPassword updates an actor's password hash.
func UpdateActorPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE actors SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating actor password: %w", err)
	}
	return nil
}

// DeleteActor soft-deletes an actor. Their loans and audit trail remain.
func DeleteActor(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE actors SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting actor: %w", err)
	}
	return nil
}
