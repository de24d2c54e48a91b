package rotation

import (
	"errors"
	"testing"
	"time"

	"github.com/mmynk/dourou/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddInterval(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		freq  models.Frequency
		n     int
		want  time.Time
	}{
		{"weekly one", date(2024, 1, 1), models.FrequencyWeekly, 1, date(2024, 1, 8)},
		{"weekly across month", date(2024, 1, 29), models.FrequencyWeekly, 1, date(2024, 2, 5)},
		{"weekly across leap day", date(2024, 2, 26), models.FrequencyWeekly, 1, date(2024, 3, 4)},
		{"monthly one", date(2024, 1, 1), models.FrequencyMonthly, 1, date(2024, 2, 1)},
		{"monthly across year", date(2024, 11, 15), models.FrequencyMonthly, 3, date(2025, 2, 15)},
		{"monthly clamps to leap february", date(2024, 1, 31), models.FrequencyMonthly, 1, date(2024, 2, 29)},
		{"monthly clamps to february", date(2023, 1, 31), models.FrequencyMonthly, 1, date(2023, 2, 28)},
		{"monthly clamp does not accumulate", date(2024, 1, 31), models.FrequencyMonthly, 2, date(2024, 3, 31)},
		{"monthly clamps to 30 days", date(2024, 1, 31), models.FrequencyMonthly, 3, date(2024, 4, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddInterval(tt.start, tt.freq, tt.n)
			if !got.Equal(tt.want) {
				t.Errorf("AddInterval(%s, %s, %d) = %s, want %s",
					tt.start.Format(time.DateOnly), tt.freq, tt.n, got.Format(time.DateOnly), tt.want.Format(time.DateOnly))
			}
		})
	}
}

func TestLaunchMonthly(t *testing.T) {
	tontine := newDraft(3)
	addMembers(t, NewRoster(tontine), "A", "B", "C")

	if err := Launch(tontine, date(2024, 1, 1)); err != nil {
		t.Fatalf("Launch failed: %v", err)
	}

	if tontine.Status != models.TontineActive {
		t.Errorf("Status = %s, want active", tontine.Status)
	}
	if len(tontine.Rounds) != 3 {
		t.Fatalf("len(Rounds) = %d, want 3", len(tontine.Rounds))
	}

	wantDates := []time.Time{date(2024, 2, 1), date(2024, 3, 1), date(2024, 4, 1)}
	wantBeneficiaries := []string{"A", "B", "C"}
	wantStatus := []models.RoundStatus{models.RoundCurrent, models.RoundUpcoming, models.RoundUpcoming}
	for i, r := range tontine.Rounds {
		if r.RoundNumber != i+1 {
			t.Errorf("round %d: RoundNumber = %d", i, r.RoundNumber)
		}
		if !r.ScheduledDate.Equal(wantDates[i]) {
			t.Errorf("round %d: ScheduledDate = %s, want %s", i+1, r.ScheduledDate.Format(time.DateOnly), wantDates[i].Format(time.DateOnly))
		}
		if r.BeneficiaryID != wantBeneficiaries[i] {
			t.Errorf("round %d: BeneficiaryID = %s, want %s", i+1, r.BeneficiaryID, wantBeneficiaries[i])
		}
		if r.Status != wantStatus[i] {
			t.Errorf("round %d: Status = %s, want %s", i+1, r.Status, wantStatus[i])
		}
		if len(r.Payments) != 3 {
			t.Errorf("round %d: %d payments, want 3", i+1, len(r.Payments))
		}
		for _, p := range r.Payments {
			if p.Status != models.PaymentPending {
				t.Errorf("round %d: payment status %s, want pending", i+1, p.Status)
			}
			if !p.Amount.Equal(tontine.Contribution) {
				t.Errorf("round %d: payment amount %s, want %s", i+1, p.Amount, tontine.Contribution)
			}
		}
	}
	if !tontine.NextDeadline.Equal(date(2024, 2, 1)) {
		t.Errorf("NextDeadline = %s, want 2024-02-01", tontine.NextDeadline.Format(time.DateOnly))
	}
	if tontine.CurrentTour() != 1 {
		t.Errorf("CurrentTour() = %d, want 1", tontine.CurrentTour())
	}
}

func TestLaunchWeekly(t *testing.T) {
	tontine := newDraft(2)
	tontine.Frequency = models.FrequencyWeekly
	addMembers(t, NewRoster(tontine), "A", "B")

	if err := Launch(tontine, date(2024, 1, 1)); err != nil {
		t.Fatalf("Launch failed: %v", err)
	}
	if got := tontine.Rounds[0].ScheduledDate; !got.Equal(date(2024, 1, 8)) {
		t.Errorf("round 1 date = %s, want 2024-01-08", got.Format(time.DateOnly))
	}
	if got := tontine.Rounds[1].ScheduledDate; !got.Equal(date(2024, 1, 15)) {
		t.Errorf("round 2 date = %s, want 2024-01-15", got.Format(time.DateOnly))
	}
}

func TestLaunchFollowsReorderedRoster(t *testing.T) {
	tontine := newDraft(3)
	r := NewRoster(tontine)
	addMembers(t, r, "A", "B", "C")
	if err := r.Reorder([]string{"C", "A", "B"}); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	if err := Launch(tontine, date(2024, 1, 1)); err != nil {
		t.Fatalf("Launch failed: %v", err)
	}
	for i, want := range []string{"C", "A", "B"} {
		if got := tontine.Rounds[i].BeneficiaryID; got != want {
			t.Errorf("round %d beneficiary = %s, want %s", i+1, got, want)
		}
	}
}

func TestLaunchErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) *models.Tontine
		wantErr error
	}{
		{
			name: "incomplete roster",
			setup: func(t *testing.T) *models.Tontine {
				tontine := newDraft(3)
				addMembers(t, NewRoster(tontine), "A", "B")
				return tontine
			},
			wantErr: ErrIncompleteRoster,
		},
		{
			name: "capacity below two",
			setup: func(t *testing.T) *models.Tontine {
				tontine := newDraft(1)
				addMembers(t, NewRoster(tontine), "A")
				return tontine
			},
			wantErr: ErrInvalidRosterSize,
		},
		{
			name: "empty roster with zero capacity",
			setup: func(t *testing.T) *models.Tontine {
				return newDraft(0)
			},
			wantErr: ErrInvalidRosterSize,
		},
		{
			name: "already active",
			setup: func(t *testing.T) *models.Tontine {
				tontine := newDraft(2)
				addMembers(t, NewRoster(tontine), "A", "B")
				tontine.Status = models.TontineActive
				return tontine
			},
			wantErr: ErrAlreadyLaunched,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tontine := tt.setup(t)
			status := tontine.Status

			err := Launch(tontine, date(2024, 1, 1))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Launch() error = %v, want %v", err, tt.wantErr)
			}
			if tontine.Status != status {
				t.Errorf("Status changed to %s on error", tontine.Status)
			}
			if len(tontine.Rounds) != 0 {
				t.Errorf("rounds created on error: %d", len(tontine.Rounds))
			}
		})
	}
}

func TestLaunchTwice(t *testing.T) {
	tontine := newDraft(2)
	addMembers(t, NewRoster(tontine), "A", "B")

	if err := Launch(tontine, date(2024, 1, 1)); err != nil {
		t.Fatalf("first Launch failed: %v", err)
	}
	err := Launch(tontine, date(2024, 6, 1))
	if !errors.Is(err, ErrAlreadyLaunched) {
		t.Fatalf("second Launch error = %v, want ErrAlreadyLaunched", err)
	}
	if len(tontine.Rounds) != 2 {
		t.Errorf("len(Rounds) = %d after relaunch, want 2", len(tontine.Rounds))
	}
	if !tontine.StartDate.Equal(date(2024, 1, 1)) {
		t.Errorf("StartDate changed to %s", tontine.StartDate.Format(time.DateOnly))
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	build := func() *models.Tontine {
		tontine := newDraft(5)
		addMembers(t, NewRoster(tontine), "A", "B", "C", "D", "E")
		return tontine
	}

	first, err := Plan(build(), date(2024, 1, 31))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	second, err := Plan(build(), date(2024, 1, 31))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	for i := range first {
		if !first[i].ScheduledDate.Equal(second[i].ScheduledDate) {
			t.Errorf("round %d: %s vs %s", i+1, first[i].ScheduledDate, second[i].ScheduledDate)
		}
		if first[i].BeneficiaryID != second[i].BeneficiaryID {
			t.Errorf("round %d: %s vs %s", i+1, first[i].BeneficiaryID, second[i].BeneficiaryID)
		}
	}
}

func TestPlanDoesNotModifyTontine(t *testing.T) {
	tontine := newDraft(2)
	addMembers(t, NewRoster(tontine), "A", "B")

	if _, err := Plan(tontine, date(2024, 1, 1)); err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if tontine.Status != models.TontineDraft || len(tontine.Rounds) != 0 {
		t.Errorf("Plan modified tontine: status=%s rounds=%d", tontine.Status, len(tontine.Rounds))
	}
}
