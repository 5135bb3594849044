package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/zalaj/garderoba/internal/db"
	"github.com/zalaj/garderoba/internal/model"
)

func seedActor(t *testing.T, dbc *sql.DB, username, role string) *model.Actor {
	t.Helper()
	actor, err := CreateActor(context.Background(), dbc, username, "not-a-real-hash", "Test "+username, "", role)
	if err != nil {
		t.Fatalf("seeding actor %s: %v", username, err)
	}
	return actor
}

func seedVariant(t *testing.T, dbc *sql.DB, itemName, color, size string, stock int) *model.Variant {
	t.Helper()
	ctx := context.Background()

	item, err := CreateItem(ctx, dbc, itemName, "uniform")
	if err != nil {
		t.Fatalf("seeding item %s: %v", itemName, err)
	}
	variant, err := CreateVariant(ctx, dbc, item.ID, color, size, "shelf A", stock)
	if err != nil {
		t.Fatalf("seeding variant for %s: %v", itemName, err)
	}
	return variant
}

func checkoutOne(t *testing.T, dbc *sql.DB, actor, borrower *model.Actor, variantID int64) *model.Transaction {
	t.Helper()
	transaction, err := Checkout(context.Background(), dbc, CheckoutInput{
		Actor:      actor,
		Borrower:   BorrowerRef{MemberID: &borrower.ID},
		Category:   model.CategoryService,
		VariantIDs: []int64{variantID},
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	return transaction
}

func variantStock(t *testing.T, dbc *sql.DB, id int64) int {
	t.Helper()
	variant, err := GetVariant(context.Background(), dbc, id)
	if err != nil {
		t.Fatalf("getting variant %d: %v", id, err)
	}
	return variant.Stock
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return db.NewTestDB(t)
}
