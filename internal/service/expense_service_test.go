package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripsplit/internal/apperr"
	"tripsplit/internal/models"
)

func TestAddExpenseEqualSplit(t *testing.T) {
	f := newFixture(t)

	expense := f.addGroupExpense(t, 100.0)
	require.Len(t, expense.Splits, 3)

	// Remainder cent lands on the first member by insertion order.
	assert.InDelta(t, 33.34, expense.Splits[0].ShareAmount, 0.001)
	assert.InDelta(t, 33.33, expense.Splits[1].ShareAmount, 0.001)
	assert.InDelta(t, 33.33, expense.Splits[2].ShareAmount, 0.001)
}

func TestAddExpenseValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		userID   string
		input    ExpenseInput
		wantKind apperr.Kind
	}{
		{
			name:     "non-positive amount",
			userID:   f.alice.ID,
			input:    ExpenseInput{PaidBy: f.aliceMember, Amount: 0, IsGroupExpense: true},
			wantKind: apperr.Validation,
		},
		{
			name:     "payer outside the trip",
			userID:   f.alice.ID,
			input:    ExpenseInput{PaidBy: "missing", Amount: 10, IsGroupExpense: true},
			wantKind: apperr.Validation,
		},
		{
			name:   "participant outside the trip",
			userID: f.alice.ID,
			input: ExpenseInput{PaidBy: f.aliceMember, Amount: 10, IsGroupExpense: true,
				ParticipantIDs: []string{f.aliceMember, "missing"}},
			wantKind: apperr.Validation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.expenses.AddExpense(ctx, tt.userID, f.trip.ID, tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
		})
	}

	t.Run("non-member cannot add", func(t *testing.T) {
		outsider, _, err := f.auth.Register(ctx, "eve@example.com", "Eve", "password1")
		require.NoError(t, err)
		_, err = f.expenses.AddExpense(ctx, outsider.ID, f.trip.ID,
			ExpenseInput{PaidBy: f.aliceMember, Amount: 10, IsGroupExpense: true})
		assert.Equal(t, apperr.Permission, apperr.KindOf(err))
	})
}

func TestBalanceReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Alice pays 300 split three ways: Alice +200, Bob -100, Carol -100.
	f.addGroupExpense(t, 300.0)

	report, err := f.expenses.BalanceReport(ctx, f.alice.ID, f.trip.ID)
	require.NoError(t, err)

	require.Len(t, report.Balances, 3)
	assert.InDelta(t, 200.0, report.Balances[0].NetBalance, 0.01)
	assert.InDelta(t, -100.0, report.Balances[1].NetBalance, 0.01)
	assert.InDelta(t, -100.0, report.Balances[2].NetBalance, 0.01)

	require.Len(t, report.Debts, 2)
	assert.Equal(t, f.bobMember, report.Debts[0].FromMemberID)
	assert.Equal(t, f.aliceMember, report.Debts[0].ToMemberID)

	require.Len(t, report.ActiveDebts, 2)
	for _, view := range report.ActiveDebts {
		assert.Equal(t, models.DebtNoSettlement, view.State.Status)
	}
	assert.Equal(t, f.aliceMember, report.ViewerMemberID)
}

func TestBalanceReportWithPendingSettlement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addGroupExpense(t, 300.0)
	_, err := f.settlements.Create(ctx, f.bob.ID, f.trip.ID, f.bobMember, f.aliceMember, 100.0, "")
	require.NoError(t, err)

	// Pending settlement: balances unchanged, Bob's suggestion suppressed.
	report, err := f.expenses.BalanceReport(ctx, f.alice.ID, f.trip.ID)
	require.NoError(t, err)
	assert.InDelta(t, 200.0, report.Balances[0].NetBalance, 0.01)
	require.Len(t, report.ActiveDebts, 1)
	assert.Equal(t, f.carolMember, report.ActiveDebts[0].Debt.FromMemberID)

	// Alice, as receiver, can confirm the pending settlement shown on the
	// suppressed pair; viewed from Bob's side it is cancellable.
	bobReport, err := f.expenses.BalanceReport(ctx, f.bob.ID, f.trip.ID)
	require.NoError(t, err)
	assert.Equal(t, f.bobMember, bobReport.ViewerMemberID)
}

func TestBalanceReportAfterConfirm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addGroupExpense(t, 300.0)
	s, err := f.settlements.Create(ctx, f.bob.ID, f.trip.ID, f.bobMember, f.aliceMember, 100.0, "")
	require.NoError(t, err)
	_, err = f.settlements.Confirm(ctx, f.alice.ID, s.ID)
	require.NoError(t, err)

	// Confirmed settlement moves balances: Bob is square.
	report, err := f.expenses.BalanceReport(ctx, f.alice.ID, f.trip.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, report.Balances[0].NetBalance, 0.01)
	assert.InDelta(t, 0.0, report.Balances[1].NetBalance, 0.01)
	assert.InDelta(t, -100.0, report.Balances[2].NetBalance, 0.01)

	require.Len(t, report.Debts, 1)
	assert.Equal(t, f.carolMember, report.Debts[0].FromMemberID)
}

func TestPersonalExpenseHasNoNetEffect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.expenses.AddExpense(ctx, f.alice.ID, f.trip.ID, ExpenseInput{
		PaidBy:         f.aliceMember,
		Amount:         50.0,
		IsGroupExpense: false,
	})
	require.NoError(t, err)

	report, err := f.expenses.BalanceReport(ctx, f.alice.ID, f.trip.ID)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, report.Balances[0].TotalPaid, 0.01)
	assert.InDelta(t, 50.0, report.Balances[0].TotalOwed, 0.01)
	for _, balance := range report.Balances {
		assert.InDelta(t, 0.0, balance.NetBalance, 0.01)
	}
	assert.Empty(t, report.Debts)
}

func TestDeleteExpense(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expense := f.addGroupExpense(t, 60.0)

	outsider, _, err := f.auth.Register(ctx, "eve@example.com", "Eve", "password1")
	require.NoError(t, err)
	err = f.expenses.DeleteExpense(ctx, outsider.ID, expense.ID)
	assert.Equal(t, apperr.Permission, apperr.KindOf(err))

	require.NoError(t, f.expenses.DeleteExpense(ctx, f.bob.ID, expense.ID))
	err = f.expenses.DeleteExpense(ctx, f.bob.ID, expense.ID)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestAddMemberDuplicateUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.trips.AddMember(context.Background(), f.alice.ID, f.trip.ID, "Bob again", f.bob.ID)
	assert.Equal(t, apperr.StateConflict, apperr.KindOf(err))
}
