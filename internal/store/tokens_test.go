package store

import (
	"context"
	"testing"
	"time"
)

func TestTokenRevocation(t *testing.T) {
	dbc := newTestDB(t)
	ctx := context.Background()

	revoked, err := IsTokenRevoked(ctx, dbc, "jti-1")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if revoked {
		t.Error("fresh jti should not be revoked")
	}

	if err := RevokeToken(ctx, dbc, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	revoked, err = IsTokenRevoked(ctx, dbc, "jti-1")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if !revoked {
		t.Error("jti-1 should be revoked")
	}

	// Revoking again is a no-op.
	if err := RevokeToken(ctx, dbc, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken repeat: %v", err)
	}
}

func TestRevokeTokenCleansExpired(t *testing.T) {
	dbc := newTestDB(t)
	ctx := context.Background()

	if err := RevokeToken(ctx, dbc, "stale", time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("RevokeToken stale: %v", err)
	}
	// The next revocation sweeps expired entries.
	if err := RevokeToken(ctx, dbc, "fresh", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken fresh: %v", err)
	}

	revoked, err := IsTokenRevoked(ctx, dbc, "stale")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if revoked {
		t.Error("expired revocation should have been cleaned up")
	}
}
