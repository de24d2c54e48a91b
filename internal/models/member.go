package models

import "time"

// Member is one participant of a tontine roster.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// TontineID is the tontine this member belongs to.
	TontineID string

	// Name is the display name.
	Name string

	// Phone is the contact number. Unique within a roster (exact string match).
	Phone string

	// PayoutOrder is the 1-based payout position. The positions of a roster
	// of size K are exactly 1..K.
	PayoutOrder int

	// AddedAt is when the member joined the roster.
	AddedAt time.Time
}
