package service

import (
	"context"
	"log/slog"
	"time"

	"tripsplit/internal/apperr"
	"tripsplit/internal/models"
	"tripsplit/internal/notify"
	"tripsplit/internal/storage"
	"tripsplit/internal/watch"
)

// SettlementService implements the settlement lifecycle:
// Create (PENDING) -> Confirm (receiver-only, sets settledAt) or
// Cancel (payer-only, deletes the record). Confirmed settlements are
// immutable.
type SettlementService struct {
	store      storage.Store
	hub        *watch.Hub
	dispatcher notify.Dispatcher
	logger     *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(store storage.Store, hub *watch.Hub, dispatcher notify.Dispatcher, logger *slog.Logger) *SettlementService {
	return &SettlementService{
		store:      store,
		hub:        hub,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Create records a settlement from the requesting user's member to another
// member of the same trip. The requester must be the paying member.
func (s *SettlementService) Create(ctx context.Context, userID, tripID, fromMemberID, toMemberID string, amount float64, notes string) (*models.Settlement, error) {
	if amount <= 0 {
		return nil, apperr.E(apperr.Validation, "amount must be positive")
	}
	if fromMemberID == "" || toMemberID == "" {
		return nil, apperr.E(apperr.Validation, "from and to members required")
	}
	if fromMemberID == toMemberID {
		return nil, apperr.E(apperr.Validation, "cannot settle with yourself")
	}
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}

	requester, err := memberForUser(ctx, s.store, tripID, userID)
	if err != nil {
		return nil, err
	}
	if requester.ID != fromMemberID {
		return nil, apperr.E(apperr.Permission, "only the paying member can record a settlement")
	}

	to, err := s.store.GetMember(ctx, toMemberID)
	if err != nil {
		return nil, err
	}
	if to.TripID != tripID {
		return nil, apperr.E(apperr.Validation, "receiving member belongs to a different trip")
	}

	settlement := &models.Settlement{
		TripID:       tripID,
		FromMemberID: fromMemberID,
		ToMemberID:   toMemberID,
		Amount:       amount,
		Notes:        notes,
		Status:       models.SettlementPending,
		CreatedAt:    s.now().Unix(),
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		s.logger.Error("CreateSettlement failed", "trip_id", tripID, "error", err)
		return nil, err
	}

	s.logger.Info("Settlement created",
		"trip_id", tripID, "settlement_id", settlement.ID,
		"from", fromMemberID, "to", toMemberID, "amount", amount)
	s.hub.Notify(tripID)
	go s.dispatcher.SettlementCreated(context.WithoutCancel(ctx), settlement)
	return settlement, nil
}

// Confirm marks a pending settlement as received. Only the receiving member
// may confirm, and only while the settlement is pending.
func (s *SettlementService) Confirm(ctx context.Context, userID, settlementID string) (*models.Settlement, error) {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}

	requester, err := memberForUser(ctx, s.store, settlement.TripID, userID)
	if err != nil {
		return nil, err
	}
	if requester.ID != settlement.ToMemberID {
		return nil, apperr.E(apperr.Permission, "only the receiving member can confirm")
	}
	if settlement.Status != models.SettlementPending {
		return nil, apperr.E(apperr.StateConflict, "only pending settlements can be confirmed")
	}

	settledAt := s.now().Unix()
	if err := s.store.UpdateSettlementStatus(ctx, settlementID, models.SettlementConfirmed, settledAt); err != nil {
		return nil, err
	}
	settlement.Status = models.SettlementConfirmed
	settlement.SettledAt = settledAt

	s.logger.Info("Settlement confirmed", "trip_id", settlement.TripID, "settlement_id", settlementID)
	s.hub.Notify(settlement.TripID)
	go s.dispatcher.SettlementConfirmed(context.WithoutCancel(ctx), settlement)
	return settlement, nil
}

// Cancel deletes a pending settlement. Only the paying member may cancel,
// and only while the settlement is pending.
func (s *SettlementService) Cancel(ctx context.Context, userID, settlementID string) error {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return err
	}

	requester, err := memberForUser(ctx, s.store, settlement.TripID, userID)
	if err != nil {
		return err
	}
	if requester.ID != settlement.FromMemberID {
		return apperr.E(apperr.Permission, "only the payer can cancel a settlement")
	}
	if settlement.Status != models.SettlementPending {
		return apperr.E(apperr.StateConflict, "only pending settlements can be cancelled")
	}

	if err := s.store.DeleteSettlement(ctx, settlementID); err != nil {
		return err
	}

	s.logger.Info("Settlement cancelled", "trip_id", settlement.TripID, "settlement_id", settlementID)
	s.hub.Notify(settlement.TripID)
	go s.dispatcher.SettlementCancelled(context.WithoutCancel(ctx), settlement)
	return nil
}

// List returns a trip's settlements, newest first.
func (s *SettlementService) List(ctx context.Context, userID, tripID string) ([]models.Settlement, error) {
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	if _, err := memberForUser(ctx, s.store, tripID, userID); err != nil {
		return nil, err
	}
	return s.store.ListSettlementsByTrip(ctx, tripID)
}
