package rotation

import (
	"fmt"
	"sort"
	"time"

	"github.com/mmynk/dourou/internal/models"
)

// AddInterval returns the date n periods after start.
//
// Weekly adds exactly 7*n days. Monthly adds n calendar months and clamps the
// day to the end of the target month, so Jan 31 + 1 month is Feb 28 (or 29).
// The result is always computed from start, never from a previous result.
func AddInterval(start time.Time, f models.Frequency, n int) time.Time {
	if f == models.FrequencyWeekly {
		return start.AddDate(0, 0, 7*n)
	}

	y, m, d := start.Date()
	first := time.Date(y, m+time.Month(n), 1, start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), start.Location())
	if last := daysIn(first); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func daysIn(firstOfMonth time.Time) int {
	return firstOfMonth.AddDate(0, 1, -1).Day()
}

// Plan derives the full round schedule for t without modifying it.
//
// The roster order is taken as-is: any random or trust-based ordering must
// already have been applied. Round i+1 pays the member at payout position i+1
// and is scheduled i+1 intervals after start. Each round carries one pending
// payment per roster member. IDs are left empty for the caller to assign.
func Plan(t *models.Tontine, start time.Time) ([]models.Round, error) {
	if t.Status != models.TontineDraft || len(t.Rounds) > 0 {
		return nil, fmt.Errorf("%w: status is %s", ErrAlreadyLaunched, t.Status)
	}
	if t.TotalMembers < 2 {
		return nil, fmt.Errorf("%w: total members is %d", ErrInvalidRosterSize, t.TotalMembers)
	}
	if len(t.Members) != t.TotalMembers {
		return nil, fmt.Errorf("%w: %d of %d members", ErrIncompleteRoster, len(t.Members), t.TotalMembers)
	}
	if !t.Frequency.Valid() {
		return nil, fmt.Errorf("unknown frequency %q", t.Frequency)
	}

	roster := ordered(t.Members)
	rounds := make([]models.Round, len(roster))
	for i, beneficiary := range roster {
		status := models.RoundUpcoming
		if i == 0 {
			status = models.RoundCurrent
		}

		payments := make([]models.Payment, len(roster))
		for j, payer := range roster {
			payments[j] = models.Payment{
				MemberID: payer.ID,
				Amount:   t.Contribution,
				Status:   models.PaymentPending,
			}
		}

		rounds[i] = models.Round{
			TontineID:     t.ID,
			RoundNumber:   i + 1,
			BeneficiaryID: beneficiary.ID,
			ScheduledDate: AddInterval(start, t.Frequency, i+1),
			Status:        status,
			Payments:      payments,
		}
	}
	return rounds, nil
}

// Launch plans the rounds of t and moves it from draft to active.
// On error t is left untouched and stays draft.
func Launch(t *models.Tontine, start time.Time) error {
	rounds, err := Plan(t, start)
	if err != nil {
		return err
	}
	t.Rounds = rounds
	t.Status = models.TontineActive
	t.StartDate = start
	t.NextDeadline = rounds[0].ScheduledDate
	return nil
}

func ordered(members []models.Member) []models.Member {
	out := make([]models.Member, len(members))
	copy(out, members)
	sort.SliceStable(out, func(i, j int) bool { return out[i].PayoutOrder < out[j].PayoutOrder })
	return out
}
