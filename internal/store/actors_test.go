package store

import (
	"context"
	"errors"
	"testing"

	"github.com/zalaj/garderoba/internal/model"
)

func TestActorCRUD(t *testing.T) {
	dbc := newTestDB(t)
	ctx := context.Background()

	actor, err := CreateActor(ctx, dbc, "ana", "hash", "Ana Kovac", "041 123 456", model.RoleMember)
	if err != nil {
		t.Fatalf("CreateActor: %v", err)
	}
	if actor.Role != model.RoleMember || actor.PhoneNumber != "041 123 456" {
		t.Errorf("created actor = %+v", actor)
	}

	// Usernames are unique among live accounts.
	if _, err := CreateActor(ctx, dbc, "ana", "hash", "Other Ana", "", model.RoleMember); err == nil {
		t.Error("duplicate username should be rejected")
	}

	if err := UpdateActor(ctx, dbc, actor.ID, "Ana Kovac", "031 999 888", model.RoleReviewer); err != nil {
		t.Fatalf("UpdateActor: %v", err)
	}
	got, err := GetActor(ctx, dbc, actor.ID)
	if err != nil {
		t.Fatalf("GetActor: %v", err)
	}
	if got.Role != model.RoleReviewer || got.PhoneNumber != "031 999 888" {
		t.Errorf("actor after update = %+v", got)
	}

	if err := UpdateActorPassword(ctx, dbc, actor.ID, "newhash"); err != nil {
		t.Fatalf("UpdateActorPassword: %v", err)
	}
	got, _ = GetActor(ctx, dbc, actor.ID)
	if got.PasswordHash != "newhash" {
		t.Errorf("password hash not updated")
	}

	if _, err := GetActor(ctx, dbc, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing actor: got %v, want ErrNotFound", err)
	}
}

func TestGetActorByUsername(t *testing.T) {
	dbc := newTestDB(t)
	ctx := context.Background()

	seedActor(t, dbc, "ana", model.RoleMember)

	actor, err := GetActorByUsername(ctx, dbc, "ana")
	if err != nil {
		t.Fatalf("GetActorByUsername: %v", err)
	}
	if actor == nil || actor.Username != "ana" {
		t.Errorf("actor = %+v", actor)
	}

	// Unknown usernames are not an error; login decides what to do.
	actor, err = GetActorByUsername(ctx, dbc, "nobody")
	if err != nil {
		t.Fatalf("GetActorByUsername unknown: %v", err)
	}
	if actor != nil {
		t.Errorf("expected nil for unknown username, got %+v", actor)
	}
}

func TestDeleteActorSoft(t *testing.T) {
	dbc := newTestDB(t)
	ctx := context.Background()

	actor := seedActor(t, dbc, "ana", model.RoleMember)
	seedActor(t, dbc, "boris", model.RoleMember)

	if err := DeleteActor(ctx, dbc, actor.ID); err != nil {
		t.Fatalf("DeleteActor: %v", err)
	}

	actors, err := ListActors(ctx, dbc)
	if err != nil {
		t.Fatalf("ListActors: %v", err)
	}
	if len(actors) != 1 || actors[0].Username != "boris" {
		t.Errorf("actors after delete = %+v", actors)
	}

	// The deleted account is still visible for auth checks and history joins.
	got, err := GetActorByUsername(ctx, dbc, "ana")
	if err != nil {
		t.Fatalf("GetActorByUsername: %v", err)
	}
	if got == nil || got.DeletedAt == nil {
		t.Errorf("deleted actor = %+v, want deleted_at set", got)
	}

	// The freed username can be reused.
	if _, err := CreateActor(ctx, dbc, "ana", "hash", "New Ana", "", model.RoleMember); err != nil {
		t.Errorf("reusing username after soft delete: %v", err)
	}
}
