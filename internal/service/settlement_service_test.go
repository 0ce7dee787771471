package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripsplit/internal/apperr"
	"tripsplit/internal/models"
)

func TestSettlementCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.settlements.Create(ctx, f.bob.ID, f.trip.ID, f.bobMember, f.aliceMember, 100.0, "cash")
	require.NoError(t, err)
	assert.Equal(t, models.SettlementPending, s.Status)
	assert.NotEmpty(t, s.ID)
	assert.NotZero(t, s.CreatedAt)
	assert.Zero(t, s.SettledAt)
}

func TestSettlementCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		userID   string
		from, to string
		amount   float64
		wantKind apperr.Kind
	}{
		{"zero amount", f.bob.ID, f.bobMember, f.aliceMember, 0, apperr.Validation},
		{"negative amount", f.bob.ID, f.bobMember, f.aliceMember, -5, apperr.Validation},
		{"self settlement", f.bob.ID, f.bobMember, f.bobMember, 10, apperr.Validation},
		{"requester is not the payer", f.bob.ID, f.aliceMember, f.bobMember, 10, apperr.Permission},
		{"unknown receiver", f.bob.ID, f.bobMember, "missing", 10, apperr.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.settlements.Create(ctx, tt.userID, f.trip.ID, tt.from, tt.to, tt.amount, "")
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
		})
	}
}

func TestSettlementConfirm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.settlements.Create(ctx, f.bob.ID, f.trip.ID, f.bobMember, f.aliceMember, 100.0, "")
	require.NoError(t, err)

	// Only the receiver may confirm.
	_, err = f.settlements.Confirm(ctx, f.bob.ID, s.ID)
	assert.Equal(t, apperr.Permission, apperr.KindOf(err))

	confirmed, err := f.settlements.Confirm(ctx, f.alice.ID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SettlementConfirmed, confirmed.Status)
	assert.NotZero(t, confirmed.SettledAt)

	// Confirming again is a state conflict, with no mutation.
	_, err = f.settlements.Confirm(ctx, f.alice.ID, s.ID)
	assert.Equal(t, apperr.StateConflict, apperr.KindOf(err))

	stored, err := f.store.GetSettlement(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, confirmed.SettledAt, stored.SettledAt)
}

func TestSettlementConfirmNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.settlements.Confirm(context.Background(), f.alice.ID, "missing")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestSettlementCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.settlements.Create(ctx, f.bob.ID, f.trip.ID, f.bobMember, f.aliceMember, 100.0, "")
	require.NoError(t, err)

	// Only the payer may cancel.
	err = f.settlements.Cancel(ctx, f.alice.ID, s.ID)
	assert.Equal(t, apperr.Permission, apperr.KindOf(err))

	require.NoError(t, f.settlements.Cancel(ctx, f.bob.ID, s.ID))

	_, err = f.store.GetSettlement(ctx, s.ID)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err), "cancel deletes the record")
}

func TestSettlementCancelConfirmedFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.settlements.Create(ctx, f.bob.ID, f.trip.ID, f.bobMember, f.aliceMember, 100.0, "")
	require.NoError(t, err)
	_, err = f.settlements.Confirm(ctx, f.alice.ID, s.ID)
	require.NoError(t, err)

	err = f.settlements.Cancel(ctx, f.bob.ID, s.ID)
	assert.Equal(t, apperr.StateConflict, apperr.KindOf(err))

	stored, err := f.store.GetSettlement(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SettlementConfirmed, stored.Status, "no mutation on failed cancel")
}

func TestSettlementList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.settlements.Create(ctx, f.bob.ID, f.trip.ID, f.bobMember, f.aliceMember, 50.0, "")
	require.NoError(t, err)

	listed, err := f.settlements.List(ctx, f.alice.ID, f.trip.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	// Non-members cannot list.
	outsider, _, err := f.auth.Register(ctx, "eve@example.com", "Eve", "password1")
	require.NoError(t, err)
	_, err = f.settlements.List(ctx, outsider.ID, f.trip.ID)
	assert.Equal(t, apperr.Permission, apperr.KindOf(err))
}
