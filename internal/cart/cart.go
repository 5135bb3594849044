// Package cart holds per-actor reservation staging: the variants an actor
// intends to borrow before committing a checkout. Staging is advisory only.
// It lives in memory, takes no server-side lock on stock, and is re-validated
// from scratch at checkout, so losing it on restart loses nothing of record.
package cart

import (
	"errors"
	"sync"
)

// ErrAlreadyStaged is returned when an actor stages the same variant twice.
var ErrAlreadyStaged = errors.New("variant already staged")

// Entry is one staged variant pick with denormalized display fields.
type Entry struct {
	VariantID int64  `json:"variant_id"`
	ItemID    int64  `json:"item_id"`
	ItemName  string `json:"item_name"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Location  string `json:"location,omitempty"`
}

// Staging stores each actor's staged picks. Safe for concurrent use.
type Staging struct {
	mu      sync.Mutex
	byActor map[int64][]Entry
}

// NewStaging creates an empty staging area.
func NewStaging() *Staging {
	return &Staging{byActor: make(map[int64][]Entry)}
}

// Add stages a variant for the actor. At most one entry per variant:
// a duplicate pick returns ErrAlreadyStaged instead of merging silently.
func (s *Staging) Add(actorID int64, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byActor[actorID] {
		if existing.VariantID == e.VariantID {
			return ErrAlreadyStaged
		}
	}
	s.byActor[actorID] = append(s.byActor[actorID], e)
	return nil
}

// Remove unstages a variant. Reports whether it was staged.
func (s *Staging) Remove(actorID, variantID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.byActor[actorID]
	for i, e := range entries {
		if e.VariantID == variantID {
			s.byActor[actorID] = append(entries[:i], entries[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops every staged entry for the actor.
func (s *Staging) Clear(actorID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byActor, actorID)
}

// List returns the actor's staged entries in staging order.
func (s *Staging) List(actorID int64) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.byActor[actorID]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Has reports whether the actor has staged the variant.
func (s *Staging) Has(actorID, variantID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.byActor[actorID] {
		if e.VariantID == variantID {
			return true
		}
	}
	return false
}
