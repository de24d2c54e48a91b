package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TontineStatus is the lifecycle state of a tontine.
// Transitions are one-way: draft -> active -> completed.
type TontineStatus string

const (
	TontineDraft     TontineStatus = "draft"
	TontineActive    TontineStatus = "active"
	TontineCompleted TontineStatus = "completed"
)

// Valid reports whether s is a known status.
func (s TontineStatus) Valid() bool {
	switch s {
	case TontineDraft, TontineActive, TontineCompleted:
		return true
	}
	return false
}

// Frequency is how often a round is disbursed.
type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	return f == FrequencyWeekly || f == FrequencyMonthly
}

// DistributionLogic is the declared policy for deciding payout order.
// It is informational: the roster order at launch is authoritative.
type DistributionLogic string

const (
	DistributionFixed  DistributionLogic = "fixed"
	DistributionRandom DistributionLogic = "random"
	DistributionTrust  DistributionLogic = "trust"
)

// Valid reports whether d is a known distribution policy.
func (d DistributionLogic) Valid() bool {
	switch d {
	case DistributionFixed, DistributionRandom, DistributionTrust:
		return true
	}
	return false
}

// Tontine represents a rotating savings group.
type Tontine struct {
	// ID is the unique identifier for the tontine (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Famille Ben Salah").
	Name string

	// CreatorID is the identity-provider user id of whoever created the tontine.
	// Empty when the request was unauthenticated.
	CreatorID string

	// Contribution is the amount each member pays per round. Always positive.
	Contribution decimal.Decimal

	// Frequency is the disbursement cadence.
	Frequency Frequency

	// TotalMembers is the roster capacity. Launch requires it to be met exactly.
	TotalMembers int

	// DistributionLogic is the payout-order policy chosen at creation.
	DistributionLogic DistributionLogic

	// Status is the lifecycle state.
	Status TontineStatus

	// CreatedAt is when the tontine was created.
	CreatedAt time.Time

	// StartDate is set at launch. Round n is scheduled n intervals after it.
	StartDate time.Time

	// NextDeadline is the scheduled date of the current round, zero before launch
	// and after completion.
	NextDeadline time.Time

	// Version increments on every persisted write and guards against
	// concurrent edits.
	Version int

	// Members is the roster, ordered by PayoutOrder.
	Members []Member

	// Rounds is the round ledger, ordered by RoundNumber.
	Rounds []Round
}

// CurrentTour returns the RoundNumber of the current round.
// It returns 0 before launch and len(Rounds)+1 once every round is completed.
func (t *Tontine) CurrentTour() int {
	if len(t.Rounds) == 0 {
		return 0
	}
	for _, r := range t.Rounds {
		if r.Status == RoundCurrent {
			return r.RoundNumber
		}
	}
	completed := 0
	for _, r := range t.Rounds {
		if r.Status == RoundCompleted {
			completed++
		}
	}
	if completed == len(t.Rounds) {
		return len(t.Rounds) + 1
	}
	return 0
}

// PotAmount is the sum collected in one full round.
func (t *Tontine) PotAmount() decimal.Decimal {
	return t.Contribution.Mul(decimal.NewFromInt(int64(t.TotalMembers)))
}

// MemberByID returns the roster member with the given id, or nil.
func (t *Tontine) MemberByID(id string) *Member {
	for i := range t.Members {
		if t.Members[i].ID == id {
			return &t.Members[i]
		}
	}
	return nil
}

// RoundByID returns the round with the given id, or nil.
func (t *Tontine) RoundByID(id string) *Round {
	for i := range t.Rounds {
		if t.Rounds[i].ID == id {
			return &t.Rounds[i]
		}
	}
	return nil
}
