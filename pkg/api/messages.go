// Package api holds the wire messages of the dourou.v1.TontineService.
//
// Money travels as decimal strings ("150.500"), calendar dates as
// "2006-01-02" and timestamps as Unix seconds, with 0 meaning unset.
package api

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

type Tontine struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	CreatorID         string    `json:"creator_id,omitempty"`
	Contribution      string    `json:"contribution"`
	Frequency         string    `json:"frequency"`
	TotalMembers      int32     `json:"total_members"`
	DistributionLogic string    `json:"distribution_logic"`
	Status            string    `json:"status"`
	CreatedAt         int64     `json:"created_at"`
	StartDate         string    `json:"start_date,omitempty"`
	NextDeadline      string    `json:"next_deadline,omitempty"`
	CurrentTour       int32     `json:"current_tour"`
	PotAmount         string    `json:"pot_amount"`
	Version           int32     `json:"version"`
	Members           []*Member `json:"members"`
	Rounds            []*Round  `json:"rounds,omitempty"`
}

type Member struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	PayoutOrder int32  `json:"payout_order"`
	AddedAt     int64  `json:"added_at"`
}

type Round struct {
	ID            string     `json:"id"`
	RoundNumber   int32      `json:"round_number"`
	BeneficiaryID string     `json:"beneficiary_id"`
	ScheduledDate string     `json:"scheduled_date"`
	Status        string     `json:"status"`
	Payments      []*Payment `json:"payments"`
}

type Payment struct {
	ID          string `json:"id"`
	MemberID    string `json:"member_id"`
	Amount      string `json:"amount"`
	Status      string `json:"status"`
	Method      string `json:"method,omitempty"`
	DeclaredAt  int64  `json:"declared_at,omitempty"`
	ConfirmedAt int64  `json:"confirmed_at,omitempty"`
	ConfirmedBy string `json:"confirmed_by,omitempty"`
}

type PotProgress struct {
	RoundID      string `json:"round_id"`
	PaidCount    int32  `json:"paid_count"`
	TotalMembers int32  `json:"total_members"`
	Percentage   int32  `json:"percentage"`
	Collected    string `json:"collected"`
	Target       string `json:"target"`
}

// NewMember is a roster entry supplied by the organizer.
type NewMember struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type CreateTontineRequest struct {
	Name              string       `json:"name"`
	Contribution      string       `json:"contribution"`
	Frequency         string       `json:"frequency"`
	TotalMembers      int32        `json:"total_members"`
	DistributionLogic string       `json:"distribution_logic"`
	Members           []*NewMember `json:"members,omitempty"`
}

type CreateTontineResponse struct {
	Tontine *Tontine `json:"tontine"`
}

type GetTontineRequest struct {
	TontineID string `json:"tontine_id"`
}

type GetTontineResponse struct {
	Tontine *Tontine `json:"tontine"`
}

// ListTontinesRequest filters by status; empty lists every tontine.
type ListTontinesRequest struct {
	Status string `json:"status,omitempty"`
}

type ListTontinesResponse struct {
	Tontines []*Tontine `json:"tontines"`
}

type AddMemberRequest struct {
	TontineID string `json:"tontine_id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
}

type AddMemberResponse struct {
	Member  *Member  `json:"member"`
	Tontine *Tontine `json:"tontine"`
}

type RemoveMemberRequest struct {
	TontineID string `json:"tontine_id"`
	MemberID  string `json:"member_id"`
}

type RemoveMemberResponse struct {
	Tontine *Tontine `json:"tontine"`
}

type ReorderMembersRequest struct {
	TontineID string   `json:"tontine_id"`
	MemberIDs []string `json:"member_ids"`
}

type ReorderMembersResponse struct {
	Tontine *Tontine `json:"tontine"`
}

type ShuffleMembersRequest struct {
	TontineID string `json:"tontine_id"`
}

type ShuffleMembersResponse struct {
	Tontine *Tontine `json:"tontine"`
}

// LaunchTontineRequest starts the rotation. StartDate defaults to today (UTC).
type LaunchTontineRequest struct {
	TontineID string `json:"tontine_id"`
	StartDate string `json:"start_date,omitempty"`
}

type LaunchTontineResponse struct {
	Tontine *Tontine `json:"tontine"`
}

type DeclarePaymentRequest struct {
	TontineID string `json:"tontine_id"`
	RoundID   string `json:"round_id"`
	MemberID  string `json:"member_id"`
	Method    string `json:"method"`
}

type DeclarePaymentResponse struct {
	Payment *Payment     `json:"payment"`
	Pot     *PotProgress `json:"pot"`
}

type ConfirmPaymentRequest struct {
	TontineID string `json:"tontine_id"`
	RoundID   string `json:"round_id"`
	PaymentID string `json:"payment_id"`
}

type ConfirmPaymentResponse struct {
	Payment *Payment     `json:"payment"`
	Pot     *PotProgress `json:"pot"`
}

type MarkPaymentPaidRequest struct {
	TontineID string `json:"tontine_id"`
	RoundID   string `json:"round_id"`
	PaymentID string `json:"payment_id"`
	Method    string `json:"method"`
}

type MarkPaymentPaidResponse struct {
	Payment *Payment     `json:"payment"`
	Pot     *PotProgress `json:"pot"`
}

type GetPotProgressRequest struct {
	TontineID string `json:"tontine_id"`
	RoundID   string `json:"round_id"`
}

type GetPotProgressResponse struct {
	Pot *PotProgress `json:"pot"`
}

type AdvanceRoundRequest struct {
	TontineID string `json:"tontine_id"`
}

// AdvanceRoundResponse carries the new current round, or none once the
// last round has been closed and the tontine completed.
type AdvanceRoundResponse struct {
	Tontine      *Tontine `json:"tontine"`
	CurrentRound *Round   `json:"current_round,omitempty"`
}
