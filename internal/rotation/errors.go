package rotation

import "errors"

// Roster errors
var (
	ErrCapacityExceeded   = errors.New("roster is at capacity")
	ErrDuplicatePhone     = errors.New("phone already in roster")
	ErrRosterLocked       = errors.New("roster is locked once the tontine launches")
	ErrNotFound           = errors.New("member not found")
	ErrInvalidPermutation = errors.New("order must be a permutation of the current members")
)

// Planner errors
var (
	ErrIncompleteRoster  = errors.New("roster size does not match total members")
	ErrInvalidRosterSize = errors.New("a tontine needs at least 2 members")
	ErrAlreadyLaunched   = errors.New("tontine already launched")
)

// Ledger errors
var (
	ErrRoundNotFound     = errors.New("round not found")
	ErrMemberNotInRound  = errors.New("member has no payment in this round")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrAlreadyPaid       = errors.New("payment already paid")
	ErrNotDeclared       = errors.New("payment has not been paid yet")
	ErrNoCurrentRound    = errors.New("no current round")
	ErrInvalidTransition = errors.New("invalid tontine status transition")
)
