package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mmynk/dourou/internal/models"
	"github.com/mmynk/dourou/internal/rotation"
	"github.com/mmynk/dourou/pkg/api"
)

func newMember(name, phone string, now time.Time) (models.Member, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return models.Member{}, invalidArgument("member name and phone are required")
	}
	return models.Member{
		ID:      uuid.New().String(),
		Name:    name,
		Phone:   phone,
		AddedAt: now,
	}, nil
}

// editRoster applies edit to the roster of a draft tontine and saves it.
func (s *TontineService) editRoster(ctx context.Context, op, tontineID string, edit func(*models.Tontine, *rotation.Roster) error) (*models.Tontine, error) {
	t, err := s.load(ctx, tontineID)
	if err != nil {
		return nil, err
	}
	if err := edit(t, rotation.NewRoster(t)); err != nil {
		slog.Warn(op+" rejected", "tontine_id", t.ID, "error", err)
		return nil, toConnectError(err)
	}
	if err := s.store.SaveRoster(ctx, t); err != nil {
		slog.Error(op+" failed", "tontine_id", t.ID, "error", err)
		return nil, toConnectError(err)
	}
	return t, nil
}

// AddMember appends a member to the end of the payout order.
func (s *TontineService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.Info("AddMember request received", "tontine_id", req.Msg.TontineID, "name", req.Msg.Name)

	member, err := newMember(req.Msg.Name, req.Msg.Phone, s.now().UTC())
	if err != nil {
		return nil, err
	}

	var added models.Member
	t, err := s.editRoster(ctx, "AddMember", req.Msg.TontineID, func(_ *models.Tontine, r *rotation.Roster) error {
		m, err := r.Add(member)
		if err != nil {
			return err
		}
		added = *m
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Member added", "tontine_id", t.ID, "member_id", added.ID, "payout_order", added.PayoutOrder)

	return connect.NewResponse(&api.AddMemberResponse{
		Member:  toAPIMember(&added),
		Tontine: toAPITontine(t),
	}), nil
}

// RemoveMember removes a member and closes the gap in the payout order.
func (s *TontineService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	slog.Info("RemoveMember request received", "tontine_id", req.Msg.TontineID, "member_id", req.Msg.MemberID)

	t, err := s.editRoster(ctx, "RemoveMember", req.Msg.TontineID, func(_ *models.Tontine, r *rotation.Roster) error {
		return r.Remove(req.Msg.MemberID)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Member removed", "tontine_id", t.ID, "member_id", req.Msg.MemberID, "members_count", len(t.Members))

	return connect.NewResponse(&api.RemoveMemberResponse{Tontine: toAPITontine(t)}), nil
}

// ReorderMembers sets the payout order to the given permutation of member ids.
func (s *TontineService) ReorderMembers(ctx context.Context, req *connect.Request[api.ReorderMembersRequest]) (*connect.Response[api.ReorderMembersResponse], error) {
	slog.Info("ReorderMembers request received", "tontine_id", req.Msg.TontineID, "members_count", len(req.Msg.MemberIDs))

	t, err := s.editRoster(ctx, "ReorderMembers", req.Msg.TontineID, func(_ *models.Tontine, r *rotation.Roster) error {
		return r.Reorder(req.Msg.MemberIDs)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Members reordered", "tontine_id", t.ID)

	return connect.NewResponse(&api.ReorderMembersResponse{Tontine: toAPITontine(t)}), nil
}

// ShuffleMembers randomizes the payout order.
func (s *TontineService) ShuffleMembers(ctx context.Context, req *connect.Request[api.ShuffleMembersRequest]) (*connect.Response[api.ShuffleMembersResponse], error) {
	slog.Info("ShuffleMembers request received", "tontine_id", req.Msg.TontineID)

	t, err := s.editRoster(ctx, "ShuffleMembers", req.Msg.TontineID, func(_ *models.Tontine, r *rotation.Roster) error {
		return r.Shuffle(s.rng)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Members shuffled", "tontine_id", t.ID)

	return connect.NewResponse(&api.ShuffleMembersResponse{Tontine: toAPITontine(t)}), nil
}
