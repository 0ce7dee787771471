package server

import (
	"tripsplit/internal/models"
	"tripsplit/internal/service"
	"tripsplit/internal/watch"
)

// JSON representations of the domain models. Kept separate from the models
// so storage concerns (password hashes, internal flags) never leak into
// responses.

type userDTO struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

func toUserDTO(u *models.User) userDTO {
	return userDTO{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName, CreatedAt: u.CreatedAt}
}

type authResponse struct {
	User  userDTO `json:"user"`
	Token string  `json:"token"`
}

type tripDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedBy string `json:"created_by"`
	CreatedAt int64  `json:"created_at"`
}

func toTripDTO(t *models.Trip) tripDTO {
	return tripDTO{ID: t.ID, Name: t.Name, CreatedBy: t.CreatedBy, CreatedAt: t.CreatedAt}
}

type memberDTO struct {
	ID      string `json:"id"`
	TripID  string `json:"trip_id"`
	Name    string `json:"name"`
	UserID  string `json:"user_id,omitempty"`
	IsAdmin bool   `json:"is_admin"`
}

func toMemberDTO(m models.Member) memberDTO {
	return memberDTO{ID: m.ID, TripID: m.TripID, Name: m.Name, UserID: m.UserID, IsAdmin: m.IsAdmin}
}

type splitDTO struct {
	MemberID    string  `json:"member_id"`
	ShareAmount float64 `json:"share_amount"`
}

type expenseDTO struct {
	ID             string     `json:"id"`
	TripID         string     `json:"trip_id"`
	PaidBy         string     `json:"paid_by"`
	Amount         float64    `json:"amount"`
	Category       string     `json:"category,omitempty"`
	Description    string     `json:"description,omitempty"`
	Date           int64      `json:"date"`
	IsGroupExpense bool       `json:"is_group_expense"`
	Splits         []splitDTO `json:"splits"`
}

func toExpenseDTO(e *models.Expense) expenseDTO {
	splits := make([]splitDTO, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = splitDTO{MemberID: s.MemberID, ShareAmount: s.ShareAmount}
	}
	return expenseDTO{
		ID: e.ID, TripID: e.TripID, PaidBy: e.PaidBy, Amount: e.Amount,
		Category: e.Category, Description: e.Description, Date: e.Date,
		IsGroupExpense: e.IsGroupExpense, Splits: splits,
	}
}

type settlementDTO struct {
	ID           string  `json:"id"`
	TripID       string  `json:"trip_id"`
	FromMemberID string  `json:"from_member_id"`
	ToMemberID   string  `json:"to_member_id"`
	Amount       float64 `json:"amount"`
	Notes        string  `json:"notes,omitempty"`
	Status       string  `json:"status"`
	CreatedAt    int64   `json:"created_at"`
	SettledAt    int64   `json:"settled_at,omitempty"`
}

func toSettlementDTO(s *models.Settlement) settlementDTO {
	return settlementDTO{
		ID: s.ID, TripID: s.TripID, FromMemberID: s.FromMemberID, ToMemberID: s.ToMemberID,
		Amount: s.Amount, Notes: s.Notes, Status: string(s.Status),
		CreatedAt: s.CreatedAt, SettledAt: s.SettledAt,
	}
}

type balanceDTO struct {
	MemberID   string  `json:"member_id"`
	MemberName string  `json:"member_name"`
	TotalPaid  float64 `json:"total_paid"`
	TotalOwed  float64 `json:"total_owed"`
	NetBalance float64 `json:"net_balance"`
}

type debtDTO struct {
	FromMemberID string  `json:"from_member_id"`
	ToMemberID   string  `json:"to_member_id"`
	Amount       float64 `json:"amount"`
}

type debtViewDTO struct {
	Debt       debtDTO        `json:"debt"`
	Status     string         `json:"status"`
	Settlement *settlementDTO `json:"settlement,omitempty"`
	CanConfirm bool           `json:"can_confirm"`
	CanCancel  bool           `json:"can_cancel"`
}

type watchReportDTO struct {
	TripID      string       `json:"trip_id"`
	Balances    []balanceDTO `json:"balances"`
	Debts       []debtDTO    `json:"simplified_debts"`
	ActiveDebts []debtDTO    `json:"active_debts"`
	ComputedAt  int64        `json:"computed_at"`
}

func toWatchReportDTO(r *watch.Report) watchReportDTO {
	out := watchReportDTO{
		TripID:      r.TripID,
		Balances:    make([]balanceDTO, len(r.Balances)),
		Debts:       make([]debtDTO, len(r.Debts)),
		ActiveDebts: make([]debtDTO, len(r.ActiveDebts)),
		ComputedAt:  r.ComputedAt.Unix(),
	}
	for i, b := range r.Balances {
		out.Balances[i] = balanceDTO{
			MemberID: b.MemberID, MemberName: b.MemberName,
			TotalPaid: b.TotalPaid, TotalOwed: b.TotalOwed, NetBalance: b.NetBalance,
		}
	}
	for i, d := range r.Debts {
		out.Debts[i] = debtDTO{FromMemberID: d.FromMemberID, ToMemberID: d.ToMemberID, Amount: d.Amount}
	}
	for i, d := range r.ActiveDebts {
		out.ActiveDebts[i] = debtDTO{FromMemberID: d.FromMemberID, ToMemberID: d.ToMemberID, Amount: d.Amount}
	}
	return out
}

type balanceReportDTO struct {
	Balances       []balanceDTO  `json:"balances"`
	Debts          []debtDTO     `json:"simplified_debts"`
	ActiveDebts    []debtViewDTO `json:"active_debts"`
	ViewerMemberID string        `json:"viewer_member_id"`
}

func toBalanceReportDTO(r *service.BalanceReport) balanceReportDTO {
	out := balanceReportDTO{
		Balances:       make([]balanceDTO, len(r.Balances)),
		Debts:          make([]debtDTO, len(r.Debts)),
		ActiveDebts:    make([]debtViewDTO, len(r.ActiveDebts)),
		ViewerMemberID: r.ViewerMemberID,
	}
	for i, b := range r.Balances {
		out.Balances[i] = balanceDTO{
			MemberID: b.MemberID, MemberName: b.MemberName,
			TotalPaid: b.TotalPaid, TotalOwed: b.TotalOwed, NetBalance: b.NetBalance,
		}
	}
	for i, d := range r.Debts {
		out.Debts[i] = debtDTO{FromMemberID: d.FromMemberID, ToMemberID: d.ToMemberID, Amount: d.Amount}
	}
	for i, view := range r.ActiveDebts {
		dv := debtViewDTO{
			Debt:       debtDTO{FromMemberID: view.Debt.FromMemberID, ToMemberID: view.Debt.ToMemberID, Amount: view.Debt.Amount},
			Status:     string(view.State.Status),
			CanConfirm: view.State.CanConfirm,
			CanCancel:  view.State.CanCancel,
		}
		if view.State.Settlement != nil {
			s := toSettlementDTO(view.State.Settlement)
			dv.Settlement = &s
		}
		out.ActiveDebts[i] = dv
	}
	return out
}
