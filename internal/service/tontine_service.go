package service

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/dourou/internal/events"
	"github.com/mmynk/dourou/internal/metrics"
	"github.com/mmynk/dourou/internal/middleware"
	"github.com/mmynk/dourou/internal/models"
	"github.com/mmynk/dourou/internal/rotation"
	"github.com/mmynk/dourou/internal/storage"
	"github.com/mmynk/dourou/pkg/api"
	"github.com/mmynk/dourou/pkg/api/apiconnect"
)

// TontineService implements the Connect TontineService.
//
// Every mutating RPC loads the tontine, applies one rotation operation in
// memory and persists the result with a single versioned store call. A
// concurrent write surfaces as CodeAborted and the caller retries.
type TontineService struct {
	apiconnect.UnimplementedTontineServiceHandler
	store     storage.Store
	publisher events.Publisher
	now       func() time.Time
	rng       *rand.Rand
}

// Option configures a TontineService.
type Option func(*TontineService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *TontineService) { s.now = now }
}

// WithRand sets the source used by ShuffleMembers.
func WithRand(rng *rand.Rand) Option {
	return func(s *TontineService) { s.rng = rng }
}

// NewTontineService creates a new TontineService with the given storage
// backend and event publisher.
func NewTontineService(store storage.Store, publisher events.Publisher, opts ...Option) *TontineService {
	s := &TontineService{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTontine creates a draft tontine, optionally with an initial roster.
func (s *TontineService) CreateTontine(ctx context.Context, req *connect.Request[api.CreateTontineRequest]) (*connect.Response[api.CreateTontineResponse], error) {
	slog.Info("CreateTontine request received",
		"name", req.Msg.Name,
		"total_members", req.Msg.TotalMembers,
		"members_count", len(req.Msg.Members),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name is required")
	}
	contribution, err := decimal.NewFromString(strings.TrimSpace(req.Msg.Contribution))
	if err != nil {
		return nil, invalidArgument("contribution must be a decimal amount")
	}
	if !contribution.IsPositive() {
		return nil, invalidArgument("contribution must be positive")
	}
	if !contribution.Equal(contribution.Round(3)) {
		return nil, invalidArgument("contribution has more than 3 decimal places")
	}
	frequency := models.Frequency(req.Msg.Frequency)
	if !frequency.Valid() {
		return nil, invalidArgument("frequency must be weekly or monthly")
	}
	logic := models.DistributionLogic(req.Msg.DistributionLogic)
	if logic == "" {
		logic = models.DistributionFixed
	}
	if !logic.Valid() {
		return nil, invalidArgument("distribution_logic must be fixed, random or trust")
	}
	if req.Msg.TotalMembers < 2 {
		return nil, invalidArgument("total_members must be at least 2")
	}

	now := s.now().UTC()
	t := &models.Tontine{
		ID:                uuid.New().String(),
		Name:              name,
		CreatorID:         middleware.GetUserID(ctx),
		Contribution:      contribution,
		Frequency:         frequency,
		TotalMembers:      int(req.Msg.TotalMembers),
		DistributionLogic: logic,
		Status:            models.TontineDraft,
		CreatedAt:         now,
	}

	roster := rotation.NewRoster(t)
	for _, m := range req.Msg.Members {
		member, err := newMember(m.Name, m.Phone, now)
		if err != nil {
			return nil, err
		}
		if _, err := roster.Add(member); err != nil {
			slog.Warn("CreateTontine roster rejected", "phone", member.Phone, "error", err)
			return nil, toConnectError(err)
		}
	}
	if logic == models.DistributionRandom && len(t.Members) > 1 {
		if err := roster.Shuffle(s.rng); err != nil {
			return nil, toConnectError(err)
		}
	}

	if err := s.store.CreateTontine(ctx, t); err != nil {
		slog.Error("CreateTontine failed", "error", err)
		return nil, toConnectError(err)
	}
	metrics.TontinesCreated.Inc()

	slog.Info("Tontine created", "tontine_id", t.ID, "creator_id", t.CreatorID)

	return connect.NewResponse(&api.CreateTontineResponse{Tontine: toAPITontine(t)}), nil
}

// GetTontine retrieves a tontine with its roster and round ledger.
func (s *TontineService) GetTontine(ctx context.Context, req *connect.Request[api.GetTontineRequest]) (*connect.Response[api.GetTontineResponse], error) {
	slog.Info("GetTontine request received", "tontine_id", req.Msg.TontineID)

	t, err := s.load(ctx, req.Msg.TontineID)
	if err != nil {
		return nil, err
	}

	slog.Info("GetTontine successful", "tontine_id", t.ID, "status", t.Status, "current_tour", t.CurrentTour())

	return connect.NewResponse(&api.GetTontineResponse{Tontine: toAPITontine(t)}), nil
}

// ListTontines lists tontines, optionally filtered by status. Rounds are
// not included; use GetTontine for the ledger.
func (s *TontineService) ListTontines(ctx context.Context, req *connect.Request[api.ListTontinesRequest]) (*connect.Response[api.ListTontinesResponse], error) {
	slog.Info("ListTontines request received", "status", req.Msg.Status)

	status := models.TontineStatus(req.Msg.Status)
	if status != "" && !status.Valid() {
		return nil, invalidArgument("status must be draft, active or completed")
	}

	tontines, err := s.store.ListTontines(ctx, status)
	if err != nil {
		slog.Error("ListTontines failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Tontine, len(tontines))
	for i, t := range tontines {
		out[i] = toAPITontine(t)
	}

	slog.Info("ListTontines successful", "count", len(out))

	return connect.NewResponse(&api.ListTontinesResponse{Tontines: out}), nil
}

// LaunchTontine freezes the roster and materializes every round.
func (s *TontineService) LaunchTontine(ctx context.Context, req *connect.Request[api.LaunchTontineRequest]) (*connect.Response[api.LaunchTontineResponse], error) {
	slog.Info("LaunchTontine request received",
		"tontine_id", req.Msg.TontineID,
		"start_date", req.Msg.StartDate,
	)

	start, err := s.startDate(req.Msg.StartDate)
	if err != nil {
		return nil, err
	}

	t, err := s.load(ctx, req.Msg.TontineID)
	if err != nil {
		return nil, err
	}
	if err := rotation.Launch(t, start); err != nil {
		slog.Warn("LaunchTontine rejected", "tontine_id", t.ID, "error", err)
		return nil, toConnectError(err)
	}
	if err := s.store.LaunchTontine(ctx, t); err != nil {
		slog.Error("LaunchTontine failed", "tontine_id", t.ID, "error", err)
		return nil, toConnectError(err)
	}
	metrics.TontinesLaunched.WithLabelValues(string(t.Frequency)).Inc()

	slog.Info("Tontine launched",
		"tontine_id", t.ID,
		"rounds", len(t.Rounds),
		"next_deadline", formatDate(t.NextDeadline),
	)
	s.publish(ctx, events.Event{
		Type:        events.TontineLaunched,
		TontineID:   t.ID,
		RoundID:     t.Rounds[0].ID,
		RoundNumber: 1,
		MemberID:    t.Rounds[0].BeneficiaryID,
		ActorID:     middleware.GetUserID(ctx),
	})

	return connect.NewResponse(&api.LaunchTontineResponse{Tontine: toAPITontine(t)}), nil
}

// AdvanceRound closes the current round and opens the next one. Closing the
// last round completes the tontine.
func (s *TontineService) AdvanceRound(ctx context.Context, req *connect.Request[api.AdvanceRoundRequest]) (*connect.Response[api.AdvanceRoundResponse], error) {
	slog.Info("AdvanceRound request received", "tontine_id", req.Msg.TontineID)

	t, err := s.load(ctx, req.Msg.TontineID)
	if err != nil {
		return nil, err
	}

	closed := t.CurrentTour()
	next, err := rotation.NewLedger(t).AdvanceRound(s.now())
	if err != nil {
		slog.Warn("AdvanceRound rejected", "tontine_id", t.ID, "error", err)
		return nil, toConnectError(err)
	}
	if next == nil {
		if err := rotation.Complete(t); err != nil {
			return nil, toConnectError(err)
		}
	}
	if err := s.store.SaveLedger(ctx, t); err != nil {
		slog.Error("AdvanceRound failed", "tontine_id", t.ID, "error", err)
		return nil, toConnectError(err)
	}
	metrics.RoundsAdvanced.Inc()

	actor := middleware.GetUserID(ctx)
	resp := &api.AdvanceRoundResponse{Tontine: toAPITontine(t)}
	if next != nil {
		resp.CurrentRound = toAPIRound(next)
		slog.Info("Round advanced", "tontine_id", t.ID, "closed_round", closed, "current_round", next.RoundNumber)
		s.publish(ctx, events.Event{
			Type:        events.RoundAdvanced,
			TontineID:   t.ID,
			RoundID:     next.ID,
			RoundNumber: next.RoundNumber,
			MemberID:    next.BeneficiaryID,
			ActorID:     actor,
		})
	} else {
		metrics.TontinesCompleted.Inc()
		slog.Info("Tontine completed", "tontine_id", t.ID, "rounds", len(t.Rounds))
		s.publish(ctx, events.Event{
			Type:        events.TontineCompleted,
			TontineID:   t.ID,
			RoundNumber: closed,
			ActorID:     actor,
		})
	}

	return connect.NewResponse(resp), nil
}

func (s *TontineService) load(ctx context.Context, id string) (*models.Tontine, error) {
	if id == "" {
		return nil, invalidArgument("tontine_id is required")
	}
	t, err := s.store.GetTontine(ctx, id)
	if err != nil {
		slog.Warn("Failed to load tontine", "tontine_id", id, "error", err)
		return nil, toConnectError(err)
	}
	return t, nil
}

// startDate parses a YYYY-MM-DD date, defaulting to today in UTC.
func (s *TontineService) startDate(raw string) (time.Time, error) {
	if raw == "" {
		y, m, d := s.now().UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	start, err := time.Parse(api.DateLayout, raw)
	if err != nil {
		return time.Time{}, invalidArgument("start_date must be formatted as YYYY-MM-DD")
	}
	return start, nil
}

func (s *TontineService) publish(ctx context.Context, e events.Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = s.now().UTC()
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		slog.Warn("Failed to publish event", "type", e.Type, "tontine_id", e.TontineID, "error", err)
	}
}
