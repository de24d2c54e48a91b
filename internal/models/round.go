package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoundStatus is the disbursement state of a round.
type RoundStatus string

const (
	RoundUpcoming  RoundStatus = "upcoming"
	RoundCurrent   RoundStatus = "current"
	RoundCompleted RoundStatus = "completed"
)

// Round is one disbursement cycle of a launched tontine.
type Round struct {
	// ID is the unique identifier for the round (UUID format).
	ID string

	// TontineID is the owning tontine.
	TontineID string

	// RoundNumber is 1-based and equals the beneficiary's payout order at launch.
	RoundNumber int

	// BeneficiaryID is the member receiving this round's pot.
	BeneficiaryID string

	// ScheduledDate is the disbursement date.
	ScheduledDate time.Time

	// Status is upcoming, current or completed. Exactly one round of an active
	// tontine is current.
	Status RoundStatus

	// Payments holds one contribution obligation per roster member.
	Payments []Payment
}

// PaidCount returns the number of payments in the paid state.
func (r *Round) PaidCount() int {
	n := 0
	for _, p := range r.Payments {
		if p.Status == PaymentPaid {
			n++
		}
	}
	return n
}

// PaymentStatus is the state of one contribution.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentLate    PaymentStatus = "late"
)

// PaymentMethod identifies the settlement channel.
type PaymentMethod string

const (
	MethodCash   PaymentMethod = "cash"
	MethodBank   PaymentMethod = "bank"
	MethodD17    PaymentMethod = "d17"
	MethodFlouci PaymentMethod = "flouci"
)

// Valid reports whether m is a known settlement channel.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodBank, MethodD17, MethodFlouci:
		return true
	}
	return false
}

// Payment is one member's contribution within a round.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// RoundID is the round this payment belongs to.
	RoundID string

	// MemberID is the paying member.
	MemberID string

	// Amount equals the tontine contribution.
	Amount decimal.Decimal

	// Status is pending, paid or late.
	Status PaymentStatus

	// Method is set once the payment is declared or marked paid.
	Method PaymentMethod

	// DeclaredAt is set when the member self-reports the payment.
	DeclaredAt *time.Time

	// ConfirmedAt is set when an organizer confirms. Only ever set on paid payments.
	ConfirmedAt *time.Time

	// ConfirmedBy is the user id of the confirming organizer, if known.
	ConfirmedBy string
}
