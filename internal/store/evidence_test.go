package store

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestEvidenceRoundTrip(t *testing.T) {
	dbc := newTestDB(t)
	ctx := context.Background()

	data := []byte{0xff, 0xd8, 0xff, 0x10, 0x20}
	ref, err := SaveEvidence(ctx, dbc, data, "image/jpeg")
	if err != nil {
		t.Fatalf("SaveEvidence: %v", err)
	}
	if ref == "" {
		t.Fatal("empty evidence ref")
	}

	got, mime, err := GetEvidence(ctx, dbc, ref)
	if err != nil {
		t.Fatalf("GetEvidence: %v", err)
	}
	if !bytes.Equal(got, data) || mime != "image/jpeg" {
		t.Errorf("got %d bytes %q, want %d bytes image/jpeg", len(got), mime, len(data))
	}

	// Each save gets its own reference.
	ref2, err := SaveEvidence(ctx, dbc, data, "image/jpeg")
	if err != nil {
		t.Fatalf("SaveEvidence second: %v", err)
	}
	if ref2 == ref {
		t.Error("evidence refs must be unique per save")
	}
}

func TestEvidenceErrors(t *testing.T) {
	dbc := newTestDB(t)
	ctx := context.Background()

	if _, err := SaveEvidence(ctx, dbc, nil, "image/jpeg"); err == nil {
		t.Error("empty evidence data should be rejected")
	}

	if _, _, err := GetEvidence(ctx, dbc, "no-such-ref"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing evidence: got %v, want ErrNotFound", err)
	}
}
