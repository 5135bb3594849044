package model

import "time"

// Loan tracks one borrowed unit from checkout to closure.
type Loan struct {
	ID            int64      `json:"id"`
	TransactionID int64      `json:"transaction_id"`
	VariantID     int64      `json:"variant_id"`
	BorrowerID    *int64     `json:"borrower_id,omitempty"`
	GuestName     string     `json:"guest_name,omitempty"`
	Status        string     `json:"status"`
	BorrowedAt    time.Time  `json:"borrowed_at"`
	ReturnedAt    *time.Time `json:"returned_at,omitempty"`
	EvidenceRef   string     `json:"evidence_ref,omitempty"`
	RejectReason  string     `json:"reject_reason,omitempty"`
	AssignedBy    int64      `json:"assigned_by"`

	// Joined fields (not always populated).
	ItemName      string `json:"item_name,omitempty"`
	Color         string `json:"color,omitempty"`
	Size          string `json:"size,omitempty"`
	BorrowerName  string `json:"borrower_name,omitempty"`
	BorrowerPhone string `json:"borrower_phone,omitempty"`
}

// Loan statuses. Borrowed is the initial state; returned and lost are
// terminal.
const (
	LoanStatusBorrowed      = "borrowed"
	LoanStatusPendingReturn = "pending_return"
	LoanStatusReturned      = "returned"
	LoanStatusLost          = "lost"
)

// BorrowerLabel returns the display name of whoever holds the loan.
func (l *Loan) BorrowerLabel() string {
	if l.GuestName != "" {
		return l.GuestName
	}
	return l.BorrowerName
}

// CanTransition reports whether the actor is allowed to move the loan into
// the target status. It only answers the authorization question; whether the
// transition is legal from the loan's current status is enforced separately
// by the store's compare-and-set updates.
func CanTransition(actor *Actor, loan *Loan, target string) bool {
	if actor == nil || loan == nil {
		return false
	}
	switch target {
	case LoanStatusPendingReturn:
		// The borrower may submit their own return; reviewers may submit on
		// anyone's behalf (e.g. a guest handing items back in person).
		if actor.Can(CapReviewReturns) {
			return true
		}
		return loan.BorrowerID != nil && *loan.BorrowerID == actor.ID
	case LoanStatusBorrowed, LoanStatusReturned:
		// Leaving pending_return (approve or reject) is a reviewer action.
		return actor.Can(CapReviewReturns)
	case LoanStatusLost:
		return actor.Can(CapManageCatalog)
	default:
		return false
	}
}
