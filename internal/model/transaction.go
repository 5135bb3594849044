package model

import "time"

// Transaction groups the loans created together in one checkout. It exists
// for history and reviewer convenience; all stock logic lives on the loans
// and variants themselves.
type Transaction struct {
	ID             int64     `json:"id"`
	ActorID        int64     `json:"actor_id"`
	BorrowerID     *int64    `json:"borrower_id,omitempty"`
	GuestName      string    `json:"guest_name,omitempty"`
	Category       string    `json:"category"`
	CategoryDetail string    `json:"category_detail,omitempty"`
	CreatedAt      time.Time `json:"created_at"`

	// Joined fields (not always populated).
	ActorName    string `json:"actor_name,omitempty"`
	BorrowerName string `json:"borrower_name,omitempty"`
	Loans        []Loan `json:"loans,omitempty"`
}

// Loan purpose categories.
const (
	CategoryService  = "service"
	CategoryCeremony = "ceremony"
	CategoryEvent    = "event"
	CategoryRental   = "rental"
	CategoryOther    = "other"
)

var loanCategories = map[string]bool{
	CategoryService:  true,
	CategoryCeremony: true,
	CategoryEvent:    true,
	CategoryRental:   true,
	CategoryOther:    true,
}

// ValidCategory reports whether category is a known loan purpose.
func ValidCategory(category string) bool {
	return loanCategories[category]
}

// CategoryRequiresDetail reports whether the category needs a free-text
// explanation ("other" has no meaning on its own).
func CategoryRequiresDetail(category string) bool {
	return category == CategoryOther
}

// CategoryRequiresGuest reports whether the category must name a guest
// borrower. Rentals go to outsiders, never to registered members.
func CategoryRequiresGuest(category string) bool {
	return category == CategoryRental
}
