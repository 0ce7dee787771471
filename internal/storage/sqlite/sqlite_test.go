package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripsplit/internal/apperr"
	"tripsplit/internal/ledger"
	"tripsplit/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

// seedTrip creates a user, a trip with that user as admin, and two guests.
// Returns the trip and its members in insertion order.
func seedTrip(t *testing.T, store *SQLiteStore) (*models.Trip, []models.Member) {
	t.Helper()
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")
	require.NoError(t, store.CreateUser(ctx, user))

	trip := &models.Trip{Name: "Lisbon 2026", CreatedBy: user.ID}
	admin := &models.Member{Name: "Alice", UserID: user.ID}
	require.NoError(t, store.CreateTrip(ctx, trip, admin))

	for _, name := range []string{"Bob", "Carol"} {
		guest := &models.Member{TripID: trip.ID, Name: name}
		require.NoError(t, store.AddMember(ctx, guest))
	}

	memberList, err := store.ListMembers(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, memberList, 3)
	return trip, memberList
}

func TestCreateTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trip, memberList := seedTrip(t, store)

	assert.NotEmpty(t, trip.ID, "trip ID should be generated")
	assert.NotZero(t, trip.CreatedAt, "CreatedAt should be set")

	got, err := store.GetTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lisbon 2026", got.Name)

	// Insertion order is preserved and the creator is the sole admin.
	assert.Equal(t, []string{"Alice", "Bob", "Carol"},
		[]string{memberList[0].Name, memberList[1].Name, memberList[2].Name})
	assert.True(t, memberList[0].IsAdmin)
	assert.False(t, memberList[1].IsAdmin)
	assert.Empty(t, memberList[1].UserID, "guest has no linked user")
}

func TestGetTripNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetTrip(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestExpenseRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	trip, memberList := seedTrip(t, store)

	splits, err := ledger.EqualSplits("", 100.0, []string{memberList[0].ID, memberList[1].ID, memberList[2].ID})
	require.NoError(t, err)
	expense := &models.Expense{
		TripID:         trip.ID,
		PaidBy:         memberList[0].ID,
		Amount:         100.0,
		Category:       "food",
		Description:    "Dinner",
		IsGroupExpense: true,
		Splits:         splits,
	}
	require.NoError(t, store.CreateExpense(ctx, expense))
	assert.NotEmpty(t, expense.ID)
	assert.NotZero(t, expense.Date)

	got, err := store.GetExpense(ctx, expense.ID)
	require.NoError(t, err)
	assert.Equal(t, expense.Amount, got.Amount)
	require.Len(t, got.Splits, 3)
	assert.Equal(t, expense.ID, got.Splits[0].ExpenseID)
	assert.InDelta(t, 33.34, got.Splits[0].ShareAmount, 0.001)

	listed, err := store.ListExpensesByTrip(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Len(t, listed[0].Splits, 3)

	require.NoError(t, store.DeleteExpense(ctx, expense.ID))
	_, err = store.GetExpense(ctx, expense.ID)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	err = store.DeleteExpense(ctx, expense.ID)
	assert.True(t, apperr.IsKind(err, apperr.NotFound), "double delete reports not found")
}

func TestSettlementLifecycleStorage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	trip, memberList := seedTrip(t, store)

	settlement := &models.Settlement{
		TripID:       trip.ID,
		FromMemberID: memberList[1].ID,
		ToMemberID:   memberList[0].ID,
		Amount:       33.34,
		Notes:        "cash",
	}
	require.NoError(t, store.CreateSettlement(ctx, settlement))
	assert.Equal(t, models.SettlementPending, settlement.Status, "defaults to pending")

	got, err := store.GetSettlement(ctx, settlement.ID)
	require.NoError(t, err)
	assert.Equal(t, "cash", got.Notes)
	assert.Zero(t, got.SettledAt)

	require.NoError(t, store.UpdateSettlementStatus(ctx, settlement.ID, models.SettlementConfirmed, 1700000000))
	got, err = store.GetSettlement(ctx, settlement.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SettlementConfirmed, got.Status)
	assert.EqualValues(t, 1700000000, got.SettledAt)

	listed, err := store.ListSettlementsByTrip(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, store.DeleteSettlement(ctx, settlement.ID))
	_, err = store.GetSettlement(ctx, settlement.ID)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestUserUniqueEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := models.NewUser("dup@example.com", "First", "hash")
	require.NoError(t, store.CreateUser(ctx, first))

	second := models.NewUser("dup@example.com", "Second", "hash")
	assert.Error(t, store.CreateUser(ctx, second), "duplicate email must be rejected")

	got, err := store.GetUserByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	missing, err := store.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing, "absent email returns nil, nil")
}

func TestDBExposesLiveHandle(t *testing.T) {
	store := newTestStore(t)

	db := store.DB()
	require.NotNil(t, db)
	require.NoError(t, db.PingContext(context.Background()))

	// The handle feeds a sql.DBStats collector, so stats must be readable.
	assert.GreaterOrEqual(t, db.Stats().OpenConnections, 0)
}
