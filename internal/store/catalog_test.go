package store

import (
	"context"
	"errors"
	"testing"
)

func TestItemCRUD(t *testing.T) {
	dbc := newTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, dbc, "Jacket", "uniform")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Name != "Jacket" || item.Category != "uniform" {
		t.Errorf("created item = %+v", item)
	}

	if err := UpdateItem(ctx, dbc, item.ID, "Parade jacket", "uniform"); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	got, err := GetItem(ctx, dbc, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Name != "Parade jacket" {
		t.Errorf("name = %q after update", got.Name)
	}

	items, err := ListItems(ctx, dbc, "")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("items = %d, want 1", len(items))
	}

	if err := DeleteItem(ctx, dbc, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	items, err = ListItems(ctx, dbc, "")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items after delete = %d, want 0", len(items))
	}
	// Soft delete: the row is still reachable for loan history.
	if _, err := GetItem(ctx, dbc, item.ID); err != nil {
		t.Errorf("GetItem after soft delete: %v", err)
	}

	if _, err := GetItem(ctx, dbc, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing item: got %v, want ErrNotFound", err)
	}
}

func TestItemImage(t *testing.T) {
	dbc := newTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, dbc, "Jacket", "uniform")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	data := []byte{0xff, 0xd8, 0xff, 0x01, 0x02}
	if err := SetItemImage(ctx, dbc, item.ID, data, "image/jpeg"); err != nil {
		t.Fatalf("SetItemImage: %v", err)
	}

	got, mime, err := GetItemImage(ctx, dbc, item.ID)
	if err != nil {
		t.Fatalf("GetItemImage: %v", err)
	}
	if mime != "image/jpeg" || len(got) != len(data) {
		t.Errorf("image = %d bytes %q, want %d bytes image/jpeg", len(got), mime, len(data))
	}
}

func TestVariantCRUD(t *testing.T) {
	dbc := newTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, dbc, "Jacket", "uniform")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	variant, err := CreateVariant(ctx, dbc, item.ID, "blue", "M", "shelf A", 3)
	if err != nil {
		t.Fatalf("CreateVariant: %v", err)
	}
	if variant.Stock != 3 || variant.ItemName != "Jacket" {
		t.Errorf("created variant = %+v", variant)
	}

	if _, err := CreateVariant(ctx, dbc, item.ID, "blue", "L", "", -1); err == nil {
		t.Error("negative initial stock should be rejected")
	}
	if _, err := CreateVariant(ctx, dbc, 9999, "blue", "M", "", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("variant for missing item: got %v, want ErrNotFound", err)
	}

	if err := UpdateVariant(ctx, dbc, variant.ID, "navy", "M", "shelf B"); err != nil {
		t.Fatalf("UpdateVariant: %v", err)
	}
	got, err := GetVariant(ctx, dbc, variant.ID)
	if err != nil {
		t.Fatalf("GetVariant: %v", err)
	}
	if got.Color != "navy" || got.Location != "shelf B" {
		t.Errorf("variant after update = %+v", got)
	}
	if got.Stock != 3 {
		t.Errorf("stock changed by UpdateVariant: %d", got.Stock)
	}

	variants, err := ListVariants(ctx, dbc, item.ID)
	if err != nil {
		t.Fatalf("ListVariants: %v", err)
	}
	if len(variants) != 1 {
		t.Errorf("variants = %d, want 1", len(variants))
	}
}

func TestAdjustStock(t *testing.T) {
	dbc := newTestDB(t)
	ctx := context.Background()
	v := seedVariant(t, dbc, "Jacket", "blue", "M", 2)

	if err := AdjustStock(ctx, dbc, v.ID, 3); err != nil {
		t.Fatalf("AdjustStock +3: %v", err)
	}
	if got := variantStock(t, dbc, v.ID); got != 5 {
		t.Errorf("stock = %d, want 5", got)
	}

	if err := AdjustStock(ctx, dbc, v.ID, -5); err != nil {
		t.Fatalf("AdjustStock -5: %v", err)
	}
	if got := variantStock(t, dbc, v.ID); got != 0 {
		t.Errorf("stock = %d, want 0", got)
	}

	err := AdjustStock(ctx, dbc, v.ID, -1)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("below zero: got %v, want ErrInsufficientStock", err)
	}
	if err := AdjustStock(ctx, dbc, v.ID, 0); err == nil {
		t.Error("zero delta should be rejected")
	}
	if err := AdjustStock(ctx, dbc, 9999, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing variant: got %v, want ErrNotFound", err)
	}
}

func TestStockPrimitives(t *testing.T) {
	dbc := newTestDB(t)
	ctx := context.Background()
	v := seedVariant(t, dbc, "Jacket", "blue", "M", 2)

	if err := TryDecrementStock(ctx, dbc, v.ID, 2); err != nil {
		t.Fatalf("TryDecrementStock: %v", err)
	}
	if got := variantStock(t, dbc, v.ID); got != 0 {
		t.Errorf("stock = %d, want 0", got)
	}

	err := TryDecrementStock(ctx, dbc, v.ID, 1)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("exhausted: got %v, want ErrInsufficientStock", err)
	}
	err = TryDecrementStock(ctx, dbc, 9999, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing variant: got %v, want ErrNotFound", err)
	}
	if err := TryDecrementStock(ctx, dbc, v.ID, 0); err == nil {
		t.Error("non-positive decrement should be rejected")
	}

	if err := IncrementStock(ctx, dbc, v.ID, 1); err != nil {
		t.Fatalf("IncrementStock: %v", err)
	}
	if got := variantStock(t, dbc, v.ID); got != 1 {
		t.Errorf("stock = %d, want 1", got)
	}
	if err := IncrementStock(ctx, dbc, 9999, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing variant: got %v, want ErrNotFound", err)
	}
}
