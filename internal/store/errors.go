package store

import "errors"

// Domain errors. Callers match these with errors.Is; the API layer maps them
// to HTTP statuses in one place.
var (
	// ErrNotFound means the referenced item, variant, loan or actor does not
	// exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock means a checkout hit a variant with no units left.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidBorrower means the borrower descriptor named neither a member
	// nor a guest, or both.
	ErrInvalidBorrower = errors.New("invalid borrower")

	// ErrInvalidTransition means the loan was not in the state the transition
	// requires. It is never retried automatically: the caller's view of the
	// loan is stale and must be refreshed.
	ErrInvalidTransition = errors.New("invalid loan state transition")

	// ErrMissingEvidence means a return was submitted without an evidence
	// reference.
	ErrMissingEvidence = errors.New("evidence reference required")

	// ErrMissingReason means a rejection was attempted without a reason.
	ErrMissingReason = errors.New("rejection reason required")

	// ErrUnauthorized means the actor lacks the capability for the requested
	// operation.
	ErrUnauthorized = errors.New("actor not authorized")

	// ErrInvalidRequest marks malformed caller input not covered by a more
	// specific error. It separates validation failures, which are safe to echo
	// back, from storage failures, which are not.
	ErrInvalidRequest = errors.New("invalid request")
)
