package rotation

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/dourou/internal/models"
)

// Ledger tracks round and payment status of a launched tontine.
type Ledger struct {
	t *models.Tontine
}

// NewLedger wraps the rounds of t. Mutations are written through to t.Rounds.
func NewLedger(t *models.Tontine) *Ledger {
	return &Ledger{t: t}
}

// PotProgress summarizes collection for one round.
type PotProgress struct {
	PaidCount    int
	TotalMembers int
	// Percentage is round(PaidCount / TotalMembers * 100).
	Percentage int
	// Collected is the contribution times PaidCount.
	Collected decimal.Decimal
	// Target is the full pot for the round.
	Target decimal.Decimal
}

func (l *Ledger) round(roundID string) (*models.Round, error) {
	r := l.t.RoundByID(roundID)
	if r == nil {
		return nil, fmt.Errorf("%w: %s", ErrRoundNotFound, roundID)
	}
	return r, nil
}

// DeclarePayment records a member's self-reported payment.
// It does not confirm it; see ConfirmPayment.
func (l *Ledger) DeclarePayment(roundID, memberID string, method models.PaymentMethod, now time.Time) (*models.Payment, error) {
	r, err := l.round(roundID)
	if err != nil {
		return nil, err
	}
	var p *models.Payment
	for i := range r.Payments {
		if r.Payments[i].MemberID == memberID {
			p = &r.Payments[i]
			break
		}
	}
	if p == nil {
		return nil, fmt.Errorf("%w: member %s, round %d", ErrMemberNotInRound, memberID, r.RoundNumber)
	}
	if p.Status == models.PaymentPaid {
		return nil, fmt.Errorf("%w: member %s, round %d", ErrAlreadyPaid, memberID, r.RoundNumber)
	}

	p.Status = models.PaymentPaid
	p.Method = method
	p.DeclaredAt = &now
	return p, nil
}

func (l *Ledger) payment(roundID, paymentID string) (*models.Round, *models.Payment, error) {
	r, err := l.round(roundID)
	if err != nil {
		return nil, nil, err
	}
	for i := range r.Payments {
		if r.Payments[i].ID == paymentID {
			return r, &r.Payments[i], nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %s in round %d", ErrPaymentNotFound, paymentID, r.RoundNumber)
}

// ConfirmPayment stamps an already-paid payment as confirmed by an organizer.
func (l *Ledger) ConfirmPayment(roundID, paymentID, confirmedBy string, now time.Time) (*models.Payment, error) {
	_, p, err := l.payment(roundID, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != models.PaymentPaid {
		return nil, fmt.Errorf("%w: status is %s", ErrNotDeclared, p.Status)
	}
	p.ConfirmedAt = &now
	p.ConfirmedBy = confirmedBy
	return p, nil
}

// MarkPaid is the organizer path into the paid state: the payment is marked
// paid and confirmed in one step, without a prior declaration.
func (l *Ledger) MarkPaid(roundID, paymentID string, method models.PaymentMethod, confirmedBy string, now time.Time) (*models.Payment, error) {
	_, p, err := l.payment(roundID, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status == models.PaymentPaid {
		return nil, fmt.Errorf("%w: payment %s", ErrAlreadyPaid, paymentID)
	}
	p.Status = models.PaymentPaid
	p.Method = method
	p.ConfirmedAt = &now
	p.ConfirmedBy = confirmedBy
	return p, nil
}

// PotProgress computes collection progress for a round from its current payments.
func (l *Ledger) PotProgress(roundID string) (PotProgress, error) {
	r, err := l.round(roundID)
	if err != nil {
		return PotProgress{}, err
	}
	paid := r.PaidCount()
	total := l.t.TotalMembers

	progress := PotProgress{
		PaidCount:    paid,
		TotalMembers: total,
		Collected:    l.t.Contribution.Mul(decimal.NewFromInt(int64(paid))),
		Target:       l.t.PotAmount(),
	}
	if total > 0 {
		progress.Percentage = int(math.Round(float64(paid) / float64(total) * 100))
	}
	return progress, nil
}

// AdvanceRound completes the current round and promotes the next upcoming one.
// It returns the new current round, or nil when the completed round was the
// last; completing the tontine itself is left to the caller (see Complete).
func (l *Ledger) AdvanceRound(now time.Time) (*models.Round, error) {
	var current *models.Round
	for i := range l.t.Rounds {
		if l.t.Rounds[i].Status == models.RoundCurrent {
			current = &l.t.Rounds[i]
			break
		}
	}
	if current == nil {
		return nil, ErrNoCurrentRound
	}
	current.Status = models.RoundCompleted

	var next *models.Round
	for i := range l.t.Rounds {
		r := &l.t.Rounds[i]
		if r.Status != models.RoundUpcoming || r.RoundNumber <= current.RoundNumber {
			continue
		}
		if next == nil || r.RoundNumber < next.RoundNumber {
			next = r
		}
	}
	if next == nil {
		l.t.NextDeadline = time.Time{}
		return nil, nil
	}
	next.Status = models.RoundCurrent
	l.t.NextDeadline = next.ScheduledDate
	return next, nil
}

// MarkLate flags pending payments of the current round as late once its
// scheduled date has passed. It returns the payments it changed.
func (l *Ledger) MarkLate(now time.Time) []models.Payment {
	var flagged []models.Payment
	for i := range l.t.Rounds {
		r := &l.t.Rounds[i]
		if r.Status != models.RoundCurrent || !r.ScheduledDate.Before(now) {
			continue
		}
		for j := range r.Payments {
			if r.Payments[j].Status == models.PaymentPending {
				r.Payments[j].Status = models.PaymentLate
				flagged = append(flagged, r.Payments[j])
			}
		}
	}
	return flagged
}

// Complete moves an active tontine whose rounds are all completed to completed.
func Complete(t *models.Tontine) error {
	if t.Status != models.TontineActive {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, models.TontineCompleted)
	}
	for _, r := range t.Rounds {
		if r.Status != models.RoundCompleted {
			return fmt.Errorf("%w: round %d is %s", ErrInvalidTransition, r.RoundNumber, r.Status)
		}
	}
	t.Status = models.TontineCompleted
	t.NextDeadline = time.Time{}
	return nil
}

// DeriveRoundStatus computes a round's display status from the current-tour
// pointer. It agrees with the stored per-round status of a consistent ledger.
func DeriveRoundStatus(currentTour, roundNumber int) models.RoundStatus {
	switch {
	case roundNumber < currentTour:
		return models.RoundCompleted
	case roundNumber == currentTour:
		return models.RoundCurrent
	default:
		return models.RoundUpcoming
	}
}
