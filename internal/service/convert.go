package service

import (
	"time"

	"github.com/mmynk/dourou/internal/models"
	"github.com/mmynk/dourou/internal/rotation"
	"github.com/mmynk/dourou/pkg/api"
)

func toAPITontine(t *models.Tontine) *api.Tontine {
	out := &api.Tontine{
		ID:                t.ID,
		Name:              t.Name,
		CreatorID:         t.CreatorID,
		Contribution:      t.Contribution.StringFixed(3),
		Frequency:         string(t.Frequency),
		TotalMembers:      int32(t.TotalMembers),
		DistributionLogic: string(t.DistributionLogic),
		Status:            string(t.Status),
		CreatedAt:         t.CreatedAt.Unix(),
		StartDate:         formatDate(t.StartDate),
		NextDeadline:      formatDate(t.NextDeadline),
		CurrentTour:       int32(t.CurrentTour()),
		PotAmount:         t.PotAmount().StringFixed(3),
		Version:           int32(t.Version),
		Members:           make([]*api.Member, len(t.Members)),
	}
	for i := range t.Members {
		out.Members[i] = toAPIMember(&t.Members[i])
	}
	for i := range t.Rounds {
		out.Rounds = append(out.Rounds, toAPIRound(&t.Rounds[i]))
	}
	return out
}

func toAPIMember(m *models.Member) *api.Member {
	return &api.Member{
		ID:          m.ID,
		Name:        m.Name,
		Phone:       m.Phone,
		PayoutOrder: int32(m.PayoutOrder),
		AddedAt:     m.AddedAt.Unix(),
	}
}

func toAPIRound(r *models.Round) *api.Round {
	out := &api.Round{
		ID:            r.ID,
		RoundNumber:   int32(r.RoundNumber),
		BeneficiaryID: r.BeneficiaryID,
		ScheduledDate: formatDate(r.ScheduledDate),
		Status:        string(r.Status),
		Payments:      make([]*api.Payment, len(r.Payments)),
	}
	for i := range r.Payments {
		out.Payments[i] = toAPIPayment(&r.Payments[i])
	}
	return out
}

func toAPIPayment(p *models.Payment) *api.Payment {
	return &api.Payment{
		ID:          p.ID,
		MemberID:    p.MemberID,
		Amount:      p.Amount.StringFixed(3),
		Status:      string(p.Status),
		Method:      string(p.Method),
		DeclaredAt:  unixOrZero(p.DeclaredAt),
		ConfirmedAt: unixOrZero(p.ConfirmedAt),
		ConfirmedBy: p.ConfirmedBy,
	}
}

func toAPIPot(roundID string, p rotation.PotProgress) *api.PotProgress {
	return &api.PotProgress{
		RoundID:      roundID,
		PaidCount:    int32(p.PaidCount),
		TotalMembers: int32(p.TotalMembers),
		Percentage:   int32(p.Percentage),
		Collected:    p.Collected.StringFixed(3),
		Target:       p.Target.StringFixed(3),
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(api.DateLayout)
}

func unixOrZero(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.Unix()
}
