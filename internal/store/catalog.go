package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zalaj/garderoba/internal/model"
)

// CreateItem creates a new item.
func CreateItem(ctx context.Context, db *sql.DB, name, category string) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (name, category) VALUES (?, ?)`,
		name, category,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or ErrNotFound.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	var category, imageMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, category, image_mime, created_at, updated_at, deleted_at
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &category, &imageMime, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.Category = category.String
	item.ImageMime = imageMime.String
	return item, nil
}

// ListItems returns all non-deleted items, optionally filtered by category.
func ListItems(ctx context.Context, db *sql.DB, category string) ([]model.Item, error) {
	var rows *sql.Rows
	var err error

	if category != "" {
		rows, err = db.QueryContext(ctx,
			`SELECT id, name, category, image_mime, created_at, updated_at, deleted_at
			 FROM items WHERE deleted_at IS NULL AND category = ? ORDER BY name`, category,
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT id, name, category, image_mime, created_at, updated_at, deleted_at
			 FROM items WHERE deleted_at IS NULL ORDER BY name`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var cat, imageMime sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &cat, &imageMime, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Category = cat.String
		item.ImageMime = imageMime.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem updates an item's cosmetic fields.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, name, category string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, category = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		name, category, id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// DeleteItem soft-deletes an item. Its variants and loan history remain.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// SetItemImage sets an item's cover image data.
func SetItemImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	return nil
}

// GetItemImage returns an item's cover image data and MIME type.
func GetItemImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}

// CreateVariant creates a variant with its initial stock count.
func CreateVariant(ctx context.Context, db *sql.DB, itemID int64, color, size, location string, stock int) (*model.Variant, error) {
	if stock < 0 {
		return nil, fmt.Errorf("stock must not be negative: %w", ErrInvalidRequest)
	}
	if _, err := GetItem(ctx, db, itemID); err != nil {
		return nil, err
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO variants (item_id, color, size, location, stock) VALUES (?, ?, ?, ?, ?)`,
		itemID, color, size, location, stock,
	)
	if err != nil {
		return nil, fmt.Errorf("creating variant: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting variant id: %w", err)
	}

	return GetVariant(ctx, db, id)
}

// GetVariant returns a variant by ID, or ErrNotFound.
func GetVariant(ctx context.Context, db *sql.DB, id int64) (*model.Variant, error) {
	v := &model.Variant{}
	var location sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT v.id, v.item_id, v.color, v.size, v.location, v.stock,
		        v.created_at, v.updated_at, i.name AS item_name
		 FROM variants v
		 JOIN items i ON i.id = v.item_id
		 WHERE v.id = ?`, id,
	).Scan(&v.ID, &v.ItemID, &v.Color, &v.Size, &location, &v.Stock,
		&v.CreatedAt, &v.UpdatedAt, &v.ItemName)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("variant %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting variant: %w", err)
	}
	v.Location = location.String
	return v, nil
}

// ListVariants returns all variants of an item.
func ListVariants(ctx context.Context, db *sql.DB, itemID int64) ([]model.Variant, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT v.id, v.item_id, v.color, v.size, v.location, v.stock,
		        v.created_at, v.updated_at, i.name AS item_name
		 FROM variants v
		 JOIN items i ON i.id = v.item_id
		 WHERE v.item_id = ?
		 ORDER BY v.color, v.size`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing variants: %w", err)
	}
	defer rows.Close()

	var variants []model.Variant
	for rows.Next() {
		var v model.Variant
		var location sql.NullString
		if err := rows.Scan(&v.ID, &v.ItemID, &v.Color, &v.Size, &location, &v.Stock,
			&v.CreatedAt, &v.UpdatedAt, &v.ItemName); err != nil {
			return nil, fmt.Errorf("scanning variant: %w", err)
		}
		v.Location = location.String
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

// UpdateVariant updates a variant's descriptive fields. Stock is not touched
// here; it only moves through checkout, approval and AdjustStock.
func UpdateVariant(ctx context.Context, db *sql.DB, id int64, color, size, location string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE variants SET color = ?, size = ?, location = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		color, size, location, id,
	)
	if err != nil {
		return fmt.Errorf("updating variant: %w", err)
	}
	return nil
}

// AdjustStock corrects a variant's stock by delta (receiving new units or
// writing off damage). The adjustment fails rather than drive stock negative.
func AdjustStock(ctx context.Context, db *sql.DB, id int64, delta int) error {
	if delta == 0 {
		return fmt.Errorf("delta must be non-zero: %w", ErrInvalidRequest)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE variants SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND stock + ? >= 0`,
		delta, id, delta,
	)
	if err != nil {
		return fmt.Errorf("adjusting stock: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjusting stock: %w", err)
	}
	if n == 0 {
		if _, err := GetVariant(ctx, db, id); err != nil {
			return err
		}
		return fmt.Errorf("variant %d: adjustment would drive stock negative: %w", id, ErrInsufficientStock)
	}
	return nil
}

// TryDecrementStock atomically takes n units from a variant. The conditional
// update is the sole synchronization point for stock: concurrent callers
// contending for the last unit cannot both succeed.
func TryDecrementStock(ctx context.Context, db *sql.DB, id int64, n int) error {
	return tryDecrementStock(ctx, db, id, n)
}

// IncrementStock returns n units to a variant. Unconditional.
func IncrementStock(ctx context.Context, db *sql.DB, id int64, n int) error {
	return incrementStock(ctx, db, id, n)
}

// execer is satisfied by both *sql.DB and *sql.Tx, so the stock primitives
// can run standalone or inside the checkout/approval transactions.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func tryDecrementStock(ctx context.Context, e execer, id int64, n int) error {
	if n <= 0 {
		return fmt.Errorf("decrement must be positive: %w", ErrInvalidRequest)
	}

	result, err := e.ExecContext(ctx,
		`UPDATE variants SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND stock >= ?`,
		n, id, n,
	)
	if err != nil {
		return fmt.Errorf("decrementing stock: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrementing stock: %w", err)
	}
	if affected == 0 {
		// Distinguish an unknown variant from an exhausted one.
		var exists int
		err := e.QueryRowContext(ctx, `SELECT 1 FROM variants WHERE id = ?`, id).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("variant %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("checking variant: %w", err)
		}
		return fmt.Errorf("variant %d: %w", id, ErrInsufficientStock)
	}
	return nil
}

func incrementStock(ctx context.Context, e execer, id int64, n int) error {
	if n <= 0 {
		return fmt.Errorf("increment must be positive: %w", ErrInvalidRequest)
	}

	result, err := e.ExecContext(ctx,
		`UPDATE variants SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		n, id,
	)
	if err != nil {
		return fmt.Errorf("incrementing stock: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("incrementing stock: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("variant %d: %w", id, ErrNotFound)
	}
	return nil
}
