// Package scheduler runs periodic jobs against the tontine store.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mmynk/dourou/internal/events"
	"github.com/mmynk/dourou/internal/metrics"
	"github.com/mmynk/dourou/internal/models"
	"github.com/mmynk/dourou/internal/rotation"
	"github.com/mmynk/dourou/internal/storage"
)

// Jobs holds the dependencies of the scheduled jobs.
type Jobs struct {
	store     storage.Store
	publisher events.Publisher
	now       func() time.Time
}

// NewJobs creates the job set.
func NewJobs(store storage.Store, publisher events.Publisher) *Jobs {
	return &Jobs{store: store, publisher: publisher, now: time.Now}
}

// MarkLatePayments flags pending payments of overdue current rounds as late
// in every active tontine. It returns the number of payments flagged.
// A tontine modified concurrently is skipped and picked up on the next run.
func (j *Jobs) MarkLatePayments(ctx context.Context) (int, error) {
	summaries, err := j.store.ListTontines(ctx, models.TontineActive)
	if err != nil {
		return 0, err
	}

	now := j.now().UTC()
	flagged := 0
	for _, summary := range summaries {
		if summary.NextDeadline.IsZero() || !summary.NextDeadline.Before(now) {
			continue
		}

		t, err := j.store.GetTontine(ctx, summary.ID)
		if err != nil {
			slog.Error("Failed to load tontine", "tontine_id", summary.ID, "error", err)
			continue
		}
		late := rotation.NewLedger(t).MarkLate(now)
		if len(late) == 0 {
			continue
		}
		if err := j.store.SaveLedger(ctx, t); err != nil {
			if errors.Is(err, storage.ErrConflict) {
				slog.Warn("Tontine changed while marking late payments, skipping", "tontine_id", t.ID)
			} else {
				slog.Error("Failed to save late payments", "tontine_id", t.ID, "error", err)
			}
			continue
		}

		flagged += len(late)
		metrics.LatePayments.Add(float64(len(late)))
		for _, p := range late {
			e := events.Event{
				Type:       events.PaymentLate,
				TontineID:  t.ID,
				RoundID:    p.RoundID,
				MemberID:   p.MemberID,
				PaymentID:  p.ID,
				OccurredAt: now,
			}
			if err := j.publisher.Publish(ctx, e); err != nil {
				slog.Warn("Failed to publish event", "type", e.Type, "tontine_id", t.ID, "error", err)
			}
		}
		slog.Info("Marked payments late", "tontine_id", t.ID, "count", len(late))
	}
	return flagged, nil
}

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron     *cron.Cron
	jobs     *Jobs
	schedule string
	timeout  time.Duration
}

// New creates a scheduler that runs the late-payment job on schedule, a
// standard five-field cron expression.
func New(jobs *Jobs, schedule string) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo))
	return &Scheduler{
		cron:     cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger))),
		jobs:     jobs,
		schedule: schedule,
		timeout:  5 * time.Minute,
	}
}

// Start registers the jobs and starts the cron scheduler.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		count, err := s.jobs.MarkLatePayments(ctx)
		if err != nil {
			slog.Error("Late payment job failed", "error", err)
			return
		}
		slog.Info("Late payment job finished", "flagged", count)
	})
	if err != nil {
		return err
	}
	slog.Info("Scheduled late payment job", "schedule", s.schedule)

	s.cron.Start()
	return nil
}

// Stop stops the scheduler. The returned context is done once a running
// job has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
