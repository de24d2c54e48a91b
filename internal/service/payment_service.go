package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/dourou/internal/events"
	"github.com/mmynk/dourou/internal/metrics"
	"github.com/mmynk/dourou/internal/middleware"
	"github.com/mmynk/dourou/internal/models"
	"github.com/mmynk/dourou/internal/rotation"
	"github.com/mmynk/dourou/pkg/api"
)

func parseMethod(raw string) (models.PaymentMethod, error) {
	method := models.PaymentMethod(raw)
	if !method.Valid() {
		return "", invalidArgument("method must be cash, bank, d17 or flouci")
	}
	return method, nil
}

// recordPayment applies op to the ledger of a tontine, saves it and returns
// the changed payment together with the round's pot progress.
func (s *TontineService) recordPayment(
	ctx context.Context,
	name, tontineID, roundID string,
	op func(*rotation.Ledger) (*models.Payment, error),
) (*models.Tontine, *api.Payment, *api.PotProgress, error) {
	t, err := s.load(ctx, tontineID)
	if err != nil {
		return nil, nil, nil, err
	}

	l := rotation.NewLedger(t)
	p, err := op(l)
	if err != nil {
		slog.Warn(name+" rejected", "tontine_id", t.ID, "round_id", roundID, "error", err)
		return nil, nil, nil, toConnectError(err)
	}
	payment := toAPIPayment(p)

	pot, err := l.PotProgress(roundID)
	if err != nil {
		return nil, nil, nil, toConnectError(err)
	}
	if err := s.store.SaveLedger(ctx, t); err != nil {
		slog.Error(name+" failed", "tontine_id", t.ID, "round_id", roundID, "error", err)
		return nil, nil, nil, toConnectError(err)
	}
	return t, payment, toAPIPot(roundID, pot), nil
}

// DeclarePayment records a member's own report that they paid.
func (s *TontineService) DeclarePayment(ctx context.Context, req *connect.Request[api.DeclarePaymentRequest]) (*connect.Response[api.DeclarePaymentResponse], error) {
	slog.Info("DeclarePayment request received",
		"tontine_id", req.Msg.TontineID,
		"round_id", req.Msg.RoundID,
		"member_id", req.Msg.MemberID,
		"method", req.Msg.Method,
	)

	method, err := parseMethod(req.Msg.Method)
	if err != nil {
		return nil, err
	}

	t, payment, pot, err := s.recordPayment(ctx, "DeclarePayment", req.Msg.TontineID, req.Msg.RoundID,
		func(l *rotation.Ledger) (*models.Payment, error) {
			return l.DeclarePayment(req.Msg.RoundID, req.Msg.MemberID, method, s.now().UTC())
		})
	if err != nil {
		return nil, err
	}
	metrics.PaymentsRecorded.WithLabelValues("declared", string(method)).Inc()

	slog.Info("Payment declared", "tontine_id", t.ID, "payment_id", payment.ID, "pot_percentage", pot.Percentage)
	s.publish(ctx, events.Event{
		Type:      events.PaymentDeclared,
		TontineID: t.ID,
		RoundID:   req.Msg.RoundID,
		MemberID:  payment.MemberID,
		PaymentID: payment.ID,
		ActorID:   middleware.GetUserID(ctx),
	})

	return connect.NewResponse(&api.DeclarePaymentResponse{Payment: payment, Pot: pot}), nil
}

// ConfirmPayment records the organizer's confirmation of a declared payment.
func (s *TontineService) ConfirmPayment(ctx context.Context, req *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error) {
	slog.Info("ConfirmPayment request received",
		"tontine_id", req.Msg.TontineID,
		"round_id", req.Msg.RoundID,
		"payment_id", req.Msg.PaymentID,
	)

	actor := middleware.GetUserID(ctx)
	t, payment, pot, err := s.recordPayment(ctx, "ConfirmPayment", req.Msg.TontineID, req.Msg.RoundID,
		func(l *rotation.Ledger) (*models.Payment, error) {
			return l.ConfirmPayment(req.Msg.RoundID, req.Msg.PaymentID, actor, s.now().UTC())
		})
	if err != nil {
		return nil, err
	}
	metrics.PaymentsRecorded.WithLabelValues("confirmed", payment.Method).Inc()

	slog.Info("Payment confirmed", "tontine_id", t.ID, "payment_id", payment.ID, "confirmed_by", actor)
	s.publish(ctx, events.Event{
		Type:      events.PaymentConfirmed,
		TontineID: t.ID,
		RoundID:   req.Msg.RoundID,
		MemberID:  payment.MemberID,
		PaymentID: payment.ID,
		ActorID:   actor,
	})

	return connect.NewResponse(&api.ConfirmPaymentResponse{Payment: payment, Pot: pot}), nil
}

// MarkPaymentPaid marks a payment paid and confirmed in one step, for
// payments the organizer collected directly.
func (s *TontineService) MarkPaymentPaid(ctx context.Context, req *connect.Request[api.MarkPaymentPaidRequest]) (*connect.Response[api.MarkPaymentPaidResponse], error) {
	slog.Info("MarkPaymentPaid request received",
		"tontine_id", req.Msg.TontineID,
		"round_id", req.Msg.RoundID,
		"payment_id", req.Msg.PaymentID,
		"method", req.Msg.Method,
	)

	method, err := parseMethod(req.Msg.Method)
	if err != nil {
		return nil, err
	}

	actor := middleware.GetUserID(ctx)
	t, payment, pot, err := s.recordPayment(ctx, "MarkPaymentPaid", req.Msg.TontineID, req.Msg.RoundID,
		func(l *rotation.Ledger) (*models.Payment, error) {
			return l.MarkPaid(req.Msg.RoundID, req.Msg.PaymentID, method, actor, s.now().UTC())
		})
	if err != nil {
		return nil, err
	}
	metrics.PaymentsRecorded.WithLabelValues("marked_paid", string(method)).Inc()

	slog.Info("Payment marked paid", "tontine_id", t.ID, "payment_id", payment.ID, "confirmed_by", actor)
	s.publish(ctx, events.Event{
		Type:      events.PaymentConfirmed,
		TontineID: t.ID,
		RoundID:   req.Msg.RoundID,
		MemberID:  payment.MemberID,
		PaymentID: payment.ID,
		ActorID:   actor,
	})

	return connect.NewResponse(&api.MarkPaymentPaidResponse{Payment: payment, Pot: pot}), nil
}

// GetPotProgress reports how much of a round's pot has been collected.
func (s *TontineService) GetPotProgress(ctx context.Context, req *connect.Request[api.GetPotProgressRequest]) (*connect.Response[api.GetPotProgressResponse], error) {
	slog.Info("GetPotProgress request received", "tontine_id", req.Msg.TontineID, "round_id", req.Msg.RoundID)

	t, err := s.load(ctx, req.Msg.TontineID)
	if err != nil {
		return nil, err
	}
	pot, err := rotation.NewLedger(t).PotProgress(req.Msg.RoundID)
	if err != nil {
		slog.Warn("GetPotProgress rejected", "tontine_id", t.ID, "round_id", req.Msg.RoundID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetPotProgressResponse{Pot: toAPIPot(req.Msg.RoundID, pot)}), nil
}
