package model

import "testing"

func TestCanTransition(t *testing.T) {
	borrowerID := int64(7)
	admin := &Actor{ID: 1, Role: RoleAdmin}
	reviewer := &Actor{ID: 2, Role: RoleReviewer}
	borrower := &Actor{ID: borrowerID, Role: RoleMember}
	stranger := &Actor{ID: 8, Role: RoleMember}

	memberLoan := &Loan{ID: 1, BorrowerID: &borrowerID, Status: LoanStatusBorrowed}
	guestLoan := &Loan{ID: 2, GuestName: "Marija Novak", Status: LoanStatusBorrowed}

	tests := []struct {
		name   string
		actor  *Actor
		loan   *Loan
		target string
		want   bool
	}{
		{"borrower submits own return", borrower, memberLoan, LoanStatusPendingReturn, true},
		{"stranger submits foreign return", stranger, memberLoan, LoanStatusPendingReturn, false},
		{"reviewer submits on behalf", reviewer, memberLoan, LoanStatusPendingReturn, true},
		{"reviewer submits guest return", reviewer, guestLoan, LoanStatusPendingReturn, true},
		{"member submits guest return", stranger, guestLoan, LoanStatusPendingReturn, false},
		{"reviewer approves", reviewer, memberLoan, LoanStatusReturned, true},
		{"borrower approves own", borrower, memberLoan, LoanStatusReturned, false},
		{"reviewer rejects", reviewer, memberLoan, LoanStatusBorrowed, true},
		{"borrower rejects own", borrower, memberLoan, LoanStatusBorrowed, false},
		{"admin marks lost", admin, memberLoan, LoanStatusLost, true},
		{"reviewer marks lost", reviewer, memberLoan, LoanStatusLost, true},
		{"borrower marks lost", borrower, memberLoan, LoanStatusLost, false},
		{"unknown target", admin, memberLoan, "vaporized", false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.actor, tt.loan, tt.target); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}

	if CanTransition(nil, memberLoan, LoanStatusPendingReturn) {
		t.Error("nil actor must not transition anything")
	}
	if CanTransition(admin, nil, LoanStatusPendingReturn) {
		t.Error("nil loan must not be transitionable")
	}
}

func TestBorrowerLabel(t *testing.T) {
	memberLoan := &Loan{BorrowerName: "Ana Kovac"}
	if got := memberLoan.BorrowerLabel(); got != "Ana Kovac" {
		t.Errorf("BorrowerLabel = %q", got)
	}
	guestLoan := &Loan{GuestName: "Marija Novak", BorrowerName: ""}
	if got := guestLoan.BorrowerLabel(); got != "Marija Novak" {
		t.Errorf("BorrowerLabel = %q", got)
	}
}
