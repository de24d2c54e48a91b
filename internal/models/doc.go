// Package models defines the core domain models for Dourou.
//
// # Models
//
//   - Tontine: a rotating savings group with a fixed contribution and frequency
//   - Member: one participant of a tontine, holding a unique payout position
//   - Round: one disbursement cycle, paying the pot to a single beneficiary
//   - Payment: one member's contribution obligation within a round
//
// # Roster and Ledger
//
// A Tontine's Members slice is its roster, ordered by PayoutOrder. Its Rounds
// slice is the round ledger, ordered by RoundNumber and empty until launch.
// The rotation package owns every mutation of these slices; storage backends
// only load and persist them.
//
// # Relationships
//
// Relationships use ID strings instead of pointers. A Round's BeneficiaryID and
// a Payment's MemberID both reference Member.ID within the same tontine.
package models
