package service

import (
	"context"
	"log/slog"

	"tripsplit/internal/apperr"
	"tripsplit/internal/ledger"
	"tripsplit/internal/models"
	"tripsplit/internal/notify"
	"tripsplit/internal/storage"
	"tripsplit/internal/watch"
)

// ExpenseInput carries the fields of a new expense.
type ExpenseInput struct {
	PaidBy         string
	Amount         float64
	Category       string
	Description    string
	Date           int64
	IsGroupExpense bool

	// ParticipantIDs are the members sharing a group expense. Empty means
	// the whole trip. Ignored for personal expenses.
	ParticipantIDs []string
}

// ExpenseService manages expenses and produces the derived balance report.
type ExpenseService struct {
	store      storage.Store
	hub        *watch.Hub
	dispatcher notify.Dispatcher
	logger     *slog.Logger
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store storage.Store, hub *watch.Hub, dispatcher notify.Dispatcher, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, hub: hub, dispatcher: dispatcher, logger: logger}
}

// AddExpense records an expense for a trip. Group expenses split equally
// across the chosen participants (all members by default, remainder cents to
// the earlier members); personal expenses self-split to the payer.
func (s *ExpenseService) AddExpense(ctx context.Context, userID, tripID string, input ExpenseInput) (*models.Expense, error) {
	if input.Amount <= 0 {
		return nil, apperr.E(apperr.Validation, "amount must be positive")
	}
	if input.PaidBy == "" {
		return nil, apperr.E(apperr.Validation, "payer required")
	}
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	if _, err := memberForUser(ctx, s.store, tripID, userID); err != nil {
		return nil, err
	}

	memberList, err := s.store.ListMembers(ctx, tripID)
	if err != nil {
		return nil, err
	}
	memberIDs := make(map[string]bool, len(memberList))
	for _, m := range memberList {
		memberIDs[m.ID] = true
	}
	if !memberIDs[input.PaidBy] {
		return nil, apperr.E(apperr.Validation, "payer %s is not a member of this trip", input.PaidBy)
	}

	expense := &models.Expense{
		TripID:         tripID,
		PaidBy:         input.PaidBy,
		Amount:         input.Amount,
		Category:       input.Category,
		Description:    input.Description,
		Date:           input.Date,
		IsGroupExpense: input.IsGroupExpense,
	}

	if input.IsGroupExpense {
		participants := input.ParticipantIDs
		if len(participants) == 0 {
			participants = make([]string, len(memberList))
			for i, m := range memberList {
				participants[i] = m.ID
			}
		} else {
			// Participants must be trip members, in member-list order so
			// the remainder assignment stays deterministic.
			for _, id := range participants {
				if !memberIDs[id] {
					return nil, apperr.E(apperr.Validation, "participant %s is not a member of this trip", id)
				}
			}
			participants = sortByMemberOrder(participants, memberList)
		}
		expense.Splits, err = ledger.EqualSplits("", input.Amount, participants)
	} else {
		expense.Splits, err = ledger.SelfSplit("", input.Amount, input.PaidBy)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Validation, err, "failed to compute splits")
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		s.logger.Error("AddExpense failed", "trip_id", tripID, "error", err)
		return nil, err
	}

	s.logger.Info("Expense added",
		"trip_id", tripID, "expense_id", expense.ID,
		"amount", expense.Amount, "group", expense.IsGroupExpense)
	s.hub.Notify(tripID)
	go s.dispatcher.ExpenseAdded(context.WithoutCancel(ctx), expense)
	return expense, nil
}

// ListExpenses returns a trip's expenses with splits, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID, tripID string) ([]models.Expense, error) {
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	if _, err := memberForUser(ctx, s.store, tripID, userID); err != nil {
		return nil, err
	}
	return s.store.ListExpensesByTrip(ctx, tripID)
}

// DeleteExpense removes an expense. Any trip member may delete.
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if _, err := memberForUser(ctx, s.store, expense.TripID, userID); err != nil {
		return err
	}
	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return err
	}

	s.logger.Info("Expense deleted", "trip_id", expense.TripID, "expense_id", expenseID)
	s.hub.Notify(expense.TripID)
	return nil
}

// DebtView pairs an active simplified debt with its resolved display state
// for the requesting member.
type DebtView struct {
	Debt  models.SimplifiedDebt
	State models.DebtState
}

// BalanceReport is the full derived view for a trip: per-member balances,
// the simplified debt list, and the active (unsettled) debts annotated with
// their settlement state for the requesting member.
type BalanceReport struct {
	Balances    []models.Balance
	Debts       []models.SimplifiedDebt
	ActiveDebts []DebtView

	// ViewerMemberID is the requesting user's member in this trip.
	ViewerMemberID string
}

// BalanceReport computes balances, simplified debts and settlement states
// over the trip's current snapshot.
func (s *ExpenseService) BalanceReport(ctx context.Context, userID, tripID string) (*BalanceReport, error) {
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	viewer, err := memberForUser(ctx, s.store, tripID, userID)
	if err != nil {
		return nil, err
	}

	report, err := watch.Compute(ctx, s.store, tripID)
	if err != nil {
		return nil, err
	}

	views := make([]DebtView, len(report.ActiveDebts))
	for i, debt := range report.ActiveDebts {
		views[i] = DebtView{
			Debt:  debt,
			State: ledger.ResolveSettlementState(debt, report.Settlements, viewer.ID),
		}
	}

	return &BalanceReport{
		Balances:       report.Balances,
		Debts:          report.Debts,
		ActiveDebts:    views,
		ViewerMemberID: viewer.ID,
	}, nil
}

// sortByMemberOrder reorders ids to match their position in memberList.
func sortByMemberOrder(ids []string, memberList []models.Member) []string {
	chosen := make(map[string]bool, len(ids))
	for _, id := range ids {
		chosen[id] = true
	}
	ordered := make([]string, 0, len(ids))
	for _, m := range memberList {
		if chosen[m.ID] {
			ordered = append(ordered, m.ID)
		}
	}
	return ordered
}
