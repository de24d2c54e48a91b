// Package events publishes tontine lifecycle events to downstream consumers
// such as the notification sender.
package events

import (
	"context"
	"log/slog"
	"time"
)

// Routing keys of published events.
const (
	TontineLaunched  = "tontine.launched"
	TontineCompleted = "tontine.completed"
	PaymentDeclared  = "payment.declared"
	PaymentConfirmed = "payment.confirmed"
	PaymentLate      = "payment.late"
	RoundAdvanced    = "round.advanced"
)

// Event is the JSON body of every published message.
type Event struct {
	Type        string    `json:"type"`
	TontineID   string    `json:"tontine_id"`
	RoundID     string    `json:"round_id,omitempty"`
	RoundNumber int       `json:"round_number,omitempty"`
	MemberID    string    `json:"member_id,omitempty"`
	PaymentID   string    `json:"payment_id,omitempty"`
	ActorID     string    `json:"actor_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher delivers events. Publishing happens after the state change has
// been stored, so a failed publish never rolls anything back.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// LogPublisher writes events to the default logger. It is used when no
// broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, e Event) error {
	slog.Info("Event",
		"type", e.Type,
		"tontine_id", e.TontineID,
		"round_id", e.RoundID,
		"member_id", e.MemberID,
		"payment_id", e.PaymentID,
	)
	return nil
}

func (LogPublisher) Close() error { return nil }
