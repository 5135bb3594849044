package model

import (
	"fmt"
	"time"
)

// Actor represents an authenticated user of the system: an admin running
// checkouts, a reviewer verifying returns, or a plain member borrowing items.
type Actor struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	PhoneNumber  string     `json:"phone_number,omitempty"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles.
const (
	RoleAdmin    = "admin"
	RoleReviewer = "reviewer"
	RoleMember   = "member"
)

// Capability names a permission an actor may hold. Authorization checks go
// through capabilities instead of comparing role strings, so adding a role is
// a change to the table below, not to the code that guards operations.
type Capability string

const (
	CapManageCatalog Capability = "manage_catalog"
	CapManageActors  Capability = "manage_actors"
	CapCheckout      Capability = "checkout"
	CapReviewReturns Capability = "review_returns"
	CapViewAudit     Capability = "view_audit"
)

var roleCapabilities = map[string]map[Capability]bool{
	RoleAdmin: {
		CapManageCatalog: true,
		CapManageActors:  true,
		CapCheckout:      true,
		CapReviewReturns: true,
		CapViewAudit:     true,
	},
	RoleReviewer: {
		CapManageCatalog: true,
		CapCheckout:      true,
		CapReviewReturns: true,
	},
	RoleMember: {
		CapCheckout: true,
	},
}

// Can reports whether the actor holds the given capability.
// Unknown roles hold nothing (fail closed).
func (a *Actor) Can(c Capability) bool {
	if a == nil {
		return false
	}
	return roleCapabilities[a.Role][c]
}

// ValidRole reports whether role is a known role name.
func ValidRole(role string) bool {
	_, ok := roleCapabilities[role]
	return ok
}

// ValidatePassword checks minimum password requirements.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}
