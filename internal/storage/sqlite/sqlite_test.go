package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/dourou/internal/models"
	"github.com/mmynk/dourou/internal/rotation"
	"github.com/mmynk/dourou/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "dourou-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTontine(total int, members ...string) *models.Tontine {
	t := &models.Tontine{
		Name:              "Cousins",
		Contribution:      decimal.RequireFromString("150.500"),
		Frequency:         models.FrequencyMonthly,
		TotalMembers:      total,
		DistributionLogic: models.DistributionRandom,
		Status:            models.TontineDraft,
	}
	for i, name := range members {
		t.Members = append(t.Members, models.Member{
			Name:        name,
			Phone:       "+216 20 000 00" + string(rune('0'+i)),
			PayoutOrder: i + 1,
		})
	}
	return t
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateTontine generates IDs", func(t *testing.T) {
		tontine := newTontine(3, "Amira", "Bilel")
		if err := store.CreateTontine(ctx, tontine); err != nil {
			t.Fatalf("CreateTontine failed: %v", err)
		}

		if tontine.ID == "" {
			t.Error("Expected tontine ID to be generated")
		}
		if tontine.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt to be set")
		}
		if tontine.Version != 1 {
			t.Errorf("Version = %d, want 1", tontine.Version)
		}
		for _, m := range tontine.Members {
			if m.ID == "" || m.TontineID != tontine.ID {
				t.Errorf("member not stamped: %+v", m)
			}
		}
	})

	t.Run("GetTontine retrieves roster in payout order", func(t *testing.T) {
		original := newTontine(3, "Amira", "Bilel", "Chokri")
		original.CreatorID = "user-1"
		if err := store.CreateTontine(ctx, original); err != nil {
			t.Fatalf("CreateTontine failed: %v", err)
		}

		got, err := store.GetTontine(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetTontine failed: %v", err)
		}
		if got.Name != original.Name || got.CreatorID != "user-1" {
			t.Errorf("got %q/%q, want %q/user-1", got.Name, got.CreatorID, original.Name)
		}
		if !got.Contribution.Equal(original.Contribution) {
			t.Errorf("Contribution = %s, want %s", got.Contribution, original.Contribution)
		}
		if got.Frequency != models.FrequencyMonthly || got.DistributionLogic != models.DistributionRandom {
			t.Errorf("Frequency/DistributionLogic = %s/%s", got.Frequency, got.DistributionLogic)
		}
		if got.CreatedAt.Unix() != original.CreatedAt.Unix() {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, original.CreatedAt)
		}
		if len(got.Members) != 3 {
			t.Fatalf("len(Members) = %d, want 3", len(got.Members))
		}
		for i, want := range []string{"Amira", "Bilel", "Chokri"} {
			if got.Members[i].Name != want || got.Members[i].PayoutOrder != i+1 {
				t.Errorf("member %d = %s/%d, want %s/%d", i, got.Members[i].Name, got.Members[i].PayoutOrder, want, i+1)
			}
		}
		if len(got.Rounds) != 0 {
			t.Errorf("draft has %d rounds", len(got.Rounds))
		}
	})

	t.Run("GetTontine returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetTontine(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetTontine error = %v, want ErrNotFound", err)
		}
	})

	t.Run("SaveRoster replaces members", func(t *testing.T) {
		tontine := newTontine(3, "Amira", "Bilel", "Chokri")
		if err := store.CreateTontine(ctx, tontine); err != nil {
			t.Fatalf("CreateTontine failed: %v", err)
		}

		r := rotation.NewRoster(tontine)
		if err := r.Remove(tontine.Members[0].ID); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if err := store.SaveRoster(ctx, tontine); err != nil {
			t.Fatalf("SaveRoster failed: %v", err)
		}
		if tontine.Version != 2 {
			t.Errorf("Version = %d, want 2", tontine.Version)
		}

		got, err := store.GetTontine(ctx, tontine.ID)
		if err != nil {
			t.Fatalf("GetTontine failed: %v", err)
		}
		if len(got.Members) != 2 || got.Members[0].Name != "Bilel" || got.Members[0].PayoutOrder != 1 {
			t.Errorf("roster after remove = %+v", got.Members)
		}
	})

	t.Run("SaveRoster rejects stale version", func(t *testing.T) {
		tontine := newTontine(3, "Amira")
		if err := store.CreateTontine(ctx, tontine); err != nil {
			t.Fatalf("CreateTontine failed: %v", err)
		}
		stale, _ := store.GetTontine(ctx, tontine.ID)

		if err := store.SaveRoster(ctx, tontine); err != nil {
			t.Fatalf("SaveRoster failed: %v", err)
		}
		err := store.SaveRoster(ctx, stale)
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("stale SaveRoster error = %v, want ErrConflict", err)
		}
	})

	t.Run("LaunchTontine persists rounds and payments", func(t *testing.T) {
		tontine := newTontine(3, "Amira", "Bilel", "Chokri")
		if err := store.CreateTontine(ctx, tontine); err != nil {
			t.Fatalf("CreateTontine failed: %v", err)
		}
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		if err := rotation.Launch(tontine, start); err != nil {
			t.Fatalf("Launch failed: %v", err)
		}
		if err := store.LaunchTontine(ctx, tontine); err != nil {
			t.Fatalf("LaunchTontine failed: %v", err)
		}

		got, err := store.GetTontine(ctx, tontine.ID)
		if err != nil {
			t.Fatalf("GetTontine failed: %v", err)
		}
		if got.Status != models.TontineActive {
			t.Errorf("Status = %s, want active", got.Status)
		}
		if !got.StartDate.Equal(start) {
			t.Errorf("StartDate = %v, want %v", got.StartDate, start)
		}
		if len(got.Rounds) != 3 {
			t.Fatalf("len(Rounds) = %d, want 3", len(got.Rounds))
		}
		for i, r := range got.Rounds {
			if r.BeneficiaryID != tontine.Members[i].ID {
				t.Errorf("round %d beneficiary = %s, want %s", i+1, r.BeneficiaryID, tontine.Members[i].ID)
			}
			if !r.ScheduledDate.Equal(tontine.Rounds[i].ScheduledDate) {
				t.Errorf("round %d date = %v, want %v", i+1, r.ScheduledDate, tontine.Rounds[i].ScheduledDate)
			}
			if len(r.Payments) != 3 {
				t.Errorf("round %d has %d payments, want 3", i+1, len(r.Payments))
			}
			for _, p := range r.Payments {
				if !p.Amount.Equal(tontine.Contribution) || p.Status != models.PaymentPending {
					t.Errorf("round %d payment = %s/%s", i+1, p.Amount, p.Status)
				}
			}
		}
		if got.CurrentTour() != 1 {
			t.Errorf("CurrentTour() = %d, want 1", got.CurrentTour())
		}

		if err := store.SaveRoster(ctx, got); !errors.Is(err, storage.ErrConflict) {
			t.Errorf("SaveRoster after launch error = %v, want ErrConflict", err)
		}
	})

	t.Run("LaunchTontine twice leaves one set of rounds", func(t *testing.T) {
		tontine := newTontine(2, "Amira", "Bilel")
		if err := store.CreateTontine(ctx, tontine); err != nil {
			t.Fatalf("CreateTontine failed: %v", err)
		}
		racer, _ := store.GetTontine(ctx, tontine.ID)

		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		rotation.Launch(tontine, start)
		if err := store.LaunchTontine(ctx, tontine); err != nil {
			t.Fatalf("LaunchTontine failed: %v", err)
		}

		rotation.Launch(racer, start)
		if err := store.LaunchTontine(ctx, racer); !errors.Is(err, storage.ErrConflict) {
			t.Errorf("racing LaunchTontine error = %v, want ErrConflict", err)
		}

		got, _ := store.GetTontine(ctx, tontine.ID)
		if len(got.Rounds) != 2 {
			t.Errorf("len(Rounds) = %d, want 2", len(got.Rounds))
		}
	})

	t.Run("SaveLedger persists payments and round progress", func(t *testing.T) {
		tontine := newTontine(2, "Amira", "Bilel")
		if err := store.CreateTontine(ctx, tontine); err != nil {
			t.Fatalf("CreateTontine failed: %v", err)
		}
		rotation.Launch(tontine, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		if err := store.LaunchTontine(ctx, tontine); err != nil {
			t.Fatalf("LaunchTontine failed: %v", err)
		}

		now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
		l := rotation.NewLedger(tontine)
		round := tontine.Rounds[0]
		if _, err := l.DeclarePayment(round.ID, tontine.Members[0].ID, models.MethodFlouci, now); err != nil {
			t.Fatalf("DeclarePayment failed: %v", err)
		}
		if _, err := l.ConfirmPayment(round.ID, round.Payments[0].ID, "organizer", now); err != nil {
			t.Fatalf("ConfirmPayment failed: %v", err)
		}
		if _, err := l.AdvanceRound(now); err != nil {
			t.Fatalf("AdvanceRound failed: %v", err)
		}
		if err := store.SaveLedger(ctx, tontine); err != nil {
			t.Fatalf("SaveLedger failed: %v", err)
		}

		got, err := store.GetTontine(ctx, tontine.ID)
		if err != nil {
			t.Fatalf("GetTontine failed: %v", err)
		}
		p := got.Rounds[0].Payments[0]
		if p.Status != models.PaymentPaid || p.Method != models.MethodFlouci || p.ConfirmedBy != "organizer" {
			t.Errorf("payment = %s/%s/%s", p.Status, p.Method, p.ConfirmedBy)
		}
		if p.DeclaredAt == nil || p.DeclaredAt.Unix() != now.Unix() {
			t.Errorf("DeclaredAt = %v, want %v", p.DeclaredAt, now)
		}
		if got.Rounds[1].Payments[0].DeclaredAt != nil {
			t.Error("untouched payment has DeclaredAt")
		}
		if got.Rounds[0].Status != models.RoundCompleted || got.Rounds[1].Status != models.RoundCurrent {
			t.Errorf("round statuses = %s/%s", got.Rounds[0].Status, got.Rounds[1].Status)
		}
		if !got.NextDeadline.Equal(tontine.Rounds[1].ScheduledDate) {
			t.Errorf("NextDeadline = %v, want %v", got.NextDeadline, tontine.Rounds[1].ScheduledDate)
		}
	})

	t.Run("ListTontines filters by status", func(t *testing.T) {
		all, err := store.ListTontines(ctx, "")
		if err != nil {
			t.Fatalf("ListTontines failed: %v", err)
		}
		active, err := store.ListTontines(ctx, models.TontineActive)
		if err != nil {
			t.Fatalf("ListTontines failed: %v", err)
		}
		if len(active) == 0 || len(active) >= len(all) {
			t.Errorf("active = %d, all = %d", len(active), len(all))
		}
		for _, tontine := range active {
			if tontine.Status != models.TontineActive {
				t.Errorf("listed %s tontine under active", tontine.Status)
			}
			if len(tontine.Members) == 0 {
				t.Errorf("tontine %s listed without roster", tontine.ID)
			}
		}
	})
}
