package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tripsplit/internal/auth"
	"tripsplit/internal/models"
	"tripsplit/internal/notify"
	"tripsplit/internal/storage/sqlite"
	"tripsplit/internal/watch"
)

// fixture wires real services over a temp SQLite database with one trip:
// Alice (admin, registered), Bob (registered), Carol (guest).
type fixture struct {
	store       *sqlite.SQLiteStore
	hub         *watch.Hub
	trips       *TripService
	expenses    *ExpenseService
	settlements *SettlementService
	auth        *AuthService

	alice *models.User
	bob   *models.User
	trip  *models.Trip

	// member IDs in insertion order: alice, bob, carol
	aliceMember string
	bobMember   string
	carolMember string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.DiscardHandler)
	hub := watch.NewHub()
	dispatcher := notify.NewLogDispatcher(logger)

	f := &fixture{
		store:       store,
		hub:         hub,
		trips:       NewTripService(store, logger),
		expenses:    NewExpenseService(store, hub, dispatcher, logger),
		settlements: NewSettlementService(store, hub, dispatcher, logger),
		auth: NewAuthService(
			auth.NewPasswordAuthenticator(store),
			auth.NewJWTManager("test-secret-test-secret", time.Hour),
			store, logger,
		),
	}

	f.alice, _, err = f.auth.Register(ctx, "alice@example.com", "Alice", "password1")
	require.NoError(t, err)
	f.bob, _, err = f.auth.Register(ctx, "bob@example.com", "Bob", "password1")
	require.NoError(t, err)

	f.trip, err = f.trips.CreateTrip(ctx, f.alice.ID, "Lisbon 2026")
	require.NoError(t, err)

	_, err = f.trips.AddMember(ctx, f.alice.ID, f.trip.ID, "Bob", f.bob.ID)
	require.NoError(t, err)
	_, err = f.trips.AddMember(ctx, f.alice.ID, f.trip.ID, "Carol", "")
	require.NoError(t, err)

	memberList, err := f.trips.ListMembers(ctx, f.alice.ID, f.trip.ID)
	require.NoError(t, err)
	require.Len(t, memberList, 3)
	f.aliceMember = memberList[0].ID
	f.bobMember = memberList[1].ID
	f.carolMember = memberList[2].ID
	return f
}

// addGroupExpense records an equal three-way split paid by Alice's member.
func (f *fixture) addGroupExpense(t *testing.T, amount float64) *models.Expense {
	t.Helper()
	expense, err := f.expenses.AddExpense(context.Background(), f.alice.ID, f.trip.ID, ExpenseInput{
		PaidBy:         f.aliceMember,
		Amount:         amount,
		Category:       "food",
		IsGroupExpense: true,
	})
	require.NoError(t, err)
	return expense
}
