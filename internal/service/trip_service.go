package service

import (
	"context"
	"log/slog"

	"tripsplit/internal/apperr"
	"tripsplit/internal/models"
	"tripsplit/internal/storage"
)

const maxNameLength = 100

// TripService manages trips and their members.
type TripService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewTripService creates a new TripService with the given storage backend.
func NewTripService(store storage.Store, logger *slog.Logger) *TripService {
	return &TripService{store: store, logger: logger}
}

// CreateTrip creates a trip with the creator as its sole admin member.
func (s *TripService) CreateTrip(ctx context.Context, userID, name string) (*models.Trip, error) {
	if name == "" {
		return nil, apperr.E(apperr.Validation, "trip name required")
	}
	if len(name) > maxNameLength {
		return nil, apperr.E(apperr.Validation, "trip name exceeds %d characters", maxNameLength)
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	trip := &models.Trip{Name: name, CreatedBy: user.ID}
	admin := &models.Member{Name: user.DisplayName, UserID: user.ID}
	if err := s.store.CreateTrip(ctx, trip, admin); err != nil {
		s.logger.Error("CreateTrip failed", "user_id", userID, "error", err)
		return nil, err
	}

	s.logger.Info("Trip created", "trip_id", trip.ID, "user_id", userID)
	return trip, nil
}

// GetTrip returns a trip the user is a member of.
func (s *TripService) GetTrip(ctx context.Context, userID, tripID string) (*models.Trip, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireMember(ctx, tripID, userID); err != nil {
		return nil, err
	}
	return trip, nil
}

// AddMember adds a member to a trip. linkUserID is optional: empty creates a
// guest, otherwise the member is linked to an existing account. Any current
// member may add members.
func (s *TripService) AddMember(ctx context.Context, userID, tripID, name, linkUserID string) (*models.Member, error) {
	if name == "" {
		return nil, apperr.E(apperr.Validation, "member name required")
	}
	if len(name) > maxNameLength {
		return nil, apperr.E(apperr.Validation, "member name exceeds %d characters", maxNameLength)
	}
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	if _, err := s.requireMember(ctx, tripID, userID); err != nil {
		return nil, err
	}
	if linkUserID != "" {
		if _, err := s.store.GetUserByID(ctx, linkUserID); err != nil {
			return nil, err
		}
		memberList, err := s.store.ListMembers(ctx, tripID)
		if err != nil {
			return nil, err
		}
		for _, m := range memberList {
			if m.UserID == linkUserID {
				return nil, apperr.E(apperr.StateConflict, "user already a member of this trip")
			}
		}
	}

	member := &models.Member{TripID: tripID, Name: name, UserID: linkUserID}
	if err := s.store.AddMember(ctx, member); err != nil {
		s.logger.Error("AddMember failed", "trip_id", tripID, "error", err)
		return nil, err
	}

	s.logger.Info("Member added", "trip_id", tripID, "member_id", member.ID, "guest", linkUserID == "")
	return member, nil
}

// ListMembers returns a trip's members in insertion order.
func (s *TripService) ListMembers(ctx context.Context, userID, tripID string) ([]models.Member, error) {
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	if _, err := s.requireMember(ctx, tripID, userID); err != nil {
		return nil, err
	}
	return s.store.ListMembers(ctx, tripID)
}

// requireMember resolves the member row linked to userID within the trip,
// failing with a permission error for non-members.
func (s *TripService) requireMember(ctx context.Context, tripID, userID string) (*models.Member, error) {
	return memberForUser(ctx, s.store, tripID, userID)
}

func memberForUser(ctx context.Context, store storage.Store, tripID, userID string) (*models.Member, error) {
	memberList, err := store.ListMembers(ctx, tripID)
	if err != nil {
		return nil, err
	}
	for i := range memberList {
		if memberList[i].UserID == userID && userID != "" {
			return &memberList[i], nil
		}
	}
	return nil, apperr.E(apperr.Permission, "you must be a member of this trip")
}
