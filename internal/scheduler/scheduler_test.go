package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/mmynk/dourou/internal/events"
	"github.com/mmynk/dourou/internal/metrics"
	"github.com/mmynk/dourou/internal/models"
	"github.com/mmynk/dourou/internal/rotation"
	"github.com/mmynk/dourou/internal/storage/sqlite"
)

type countingPublisher struct {
	published []events.Event
}

func (p *countingPublisher) Publish(_ context.Context, e events.Event) error {
	p.published = append(p.published, e)
	return nil
}

func (p *countingPublisher) Close() error { return nil }

func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "dourou-scheduler-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedActive(t *testing.T, store *sqlite.SQLiteStore, start time.Time) *models.Tontine {
	t.Helper()
	tontine := &models.Tontine{
		Name:              "Cousins",
		Contribution:      decimal.NewFromInt(100),
		Frequency:         models.FrequencyWeekly,
		TotalMembers:      3,
		DistributionLogic: models.DistributionFixed,
		Status:            models.TontineDraft,
	}
	for i, name := range []string{"A", "B", "C"} {
		tontine.Members = append(tontine.Members, models.Member{
			ID:          uuid.New().String(),
			Name:        name,
			Phone:       name,
			PayoutOrder: i + 1,
		})
	}
	ctx := context.Background()
	if err := store.CreateTontine(ctx, tontine); err != nil {
		t.Fatalf("CreateTontine failed: %v", err)
	}
	if err := rotation.Launch(tontine, start); err != nil {
		t.Fatalf("Launch failed: %v", err)
	}
	if err := store.LaunchTontine(ctx, tontine); err != nil {
		t.Fatalf("LaunchTontine failed: %v", err)
	}
	return tontine
}

func TestMarkLatePayments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Round 1 of overdue is due 2024-01-08, round 1 of onTime is due 2024-01-17.
	overdue := seedActive(t, store, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	onTime := seedActive(t, store, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

	l := rotation.NewLedger(overdue)
	if _, err := l.DeclarePayment(overdue.Rounds[0].ID, overdue.Members[0].ID, models.MethodCash, time.Now()); err != nil {
		t.Fatalf("DeclarePayment failed: %v", err)
	}
	if err := store.SaveLedger(ctx, overdue); err != nil {
		t.Fatalf("SaveLedger failed: %v", err)
	}

	publisher := &countingPublisher{}
	jobs := NewJobs(store, publisher)
	jobs.now = func() time.Time { return time.Date(2024, 1, 12, 6, 0, 0, 0, time.UTC) }
	before := testutil.ToFloat64(metrics.LatePayments)

	count, err := jobs.MarkLatePayments(ctx)
	if err != nil {
		t.Fatalf("MarkLatePayments failed: %v", err)
	}
	if count != 2 {
		t.Errorf("flagged %d payments, want 2", count)
	}
	if got := testutil.ToFloat64(metrics.LatePayments) - before; got != 2 {
		t.Errorf("late counter moved by %v, want 2", got)
	}
	if len(publisher.published) != 2 || publisher.published[0].Type != events.PaymentLate {
		t.Errorf("published = %+v", publisher.published)
	}

	got, err := store.GetTontine(ctx, overdue.ID)
	if err != nil {
		t.Fatalf("GetTontine failed: %v", err)
	}
	wantStatus := []models.PaymentStatus{models.PaymentPaid, models.PaymentLate, models.PaymentLate}
	for i, p := range got.Rounds[0].Payments {
		if p.Status != wantStatus[i] {
			t.Errorf("round 1 payment %d = %s, want %s", i, p.Status, wantStatus[i])
		}
	}
	for _, p := range got.Rounds[1].Payments {
		if p.Status != models.PaymentPending {
			t.Errorf("upcoming round payment = %s, want pending", p.Status)
		}
	}

	untouched, _ := store.GetTontine(ctx, onTime.ID)
	for _, p := range untouched.Rounds[0].Payments {
		if p.Status != models.PaymentPending {
			t.Errorf("on-time payment = %s, want pending", p.Status)
		}
	}

	count, err = jobs.MarkLatePayments(ctx)
	if err != nil || count != 0 {
		t.Errorf("second run = %d, %v; want 0, nil", count, err)
	}
}

func TestScheduler_RejectsBadSchedule(t *testing.T) {
	s := New(NewJobs(newTestStore(t), events.LogPublisher{}), "every tuesday")
	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("expected invalid schedule error")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(NewJobs(newTestStore(t), events.LogPublisher{}), "@every 1h")
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	<-s.Stop().Done()
}
