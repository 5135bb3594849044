package cart

import (
	"errors"
	"testing"
)

func TestStagingAddRemove(t *testing.T) {
	s := NewStaging()

	if err := s.Add(1, Entry{VariantID: 10, ItemName: "Jacket"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(1, Entry{VariantID: 11, ItemName: "Hat"}); err != nil {
		t.Fatalf("Add second: %v", err)
	}

	err := s.Add(1, Entry{VariantID: 10, ItemName: "Jacket"})
	if !errors.Is(err, ErrAlreadyStaged) {
		t.Errorf("duplicate pick: got %v, want ErrAlreadyStaged", err)
	}

	if !s.Has(1, 10) {
		t.Error("Has(1, 10) = false")
	}
	if s.Has(1, 99) {
		t.Error("Has(1, 99) = true")
	}

	if !s.Remove(1, 10) {
		t.Error("Remove(1, 10) = false")
	}
	if s.Remove(1, 10) {
		t.Error("second Remove(1, 10) = true")
	}

	entries := s.List(1)
	if len(entries) != 1 || entries[0].VariantID != 11 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestStagingPerActor(t *testing.T) {
	s := NewStaging()

	if err := s.Add(1, Entry{VariantID: 10}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	// A second actor staging the same variant is not a duplicate; staging
	// takes no lock on stock.
	if err := s.Add(2, Entry{VariantID: 10}); err != nil {
		t.Fatalf("Add for second actor: %v", err)
	}

	s.Clear(1)
	if len(s.List(1)) != 0 {
		t.Error("actor 1 staging not cleared")
	}
	if len(s.List(2)) != 1 {
		t.Error("actor 2 staging affected by actor 1 clear")
	}
}

func TestStagingListReturnsCopy(t *testing.T) {
	s := NewStaging()
	if err := s.Add(1, Entry{VariantID: 10}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	entries := s.List(1)
	entries[0].VariantID = 99

	if got := s.List(1); got[0].VariantID != 10 {
		t.Errorf("staging mutated through returned slice: %+v", got)
	}
}
