package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tripsplit/internal/apperr"
	"tripsplit/internal/models"
)

// CreateTrip persists a trip and its admin member in one transaction.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip, admin *models.Member) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt == 0 {
		trip.CreatedAt = time.Now().Unix()
	}
	if admin.ID == "" {
		admin.ID = uuid.New().String()
	}
	admin.TripID = trip.ID
	admin.IsAdmin = true

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO trips (id, name, created_by, created_at) VALUES (?, ?, ?, ?)",
		trip.ID, trip.Name, trip.CreatedBy, trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	if err := insertMember(ctx, tx, admin); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetTrip retrieves a trip by ID.
func (s *SQLiteStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip := &models.Trip{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_by, created_at FROM trips WHERE id = ?",
		tripID,
	).Scan(&trip.ID, &trip.Name, &trip.CreatedBy, &trip.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.E(apperr.NotFound, "trip not found: %s", tripID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return trip, nil
}

// AddMember adds a member to an existing trip.
func (s *SQLiteStore) AddMember(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertMember(ctx, tx, member); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertMember(ctx context.Context, tx *sql.Tx, member *models.Member) error {
	var userID interface{}
	if member.UserID != "" {
		userID = member.UserID
	}
	_, err := tx.ExecContext(ctx,
		"INSERT INTO members (id, trip_id, name, user_id, is_admin) VALUES (?, ?, ?, ?, ?)",
		member.ID, member.TripID, member.Name, userID, member.IsAdmin,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// GetMember retrieves a member by ID.
func (s *SQLiteStore) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	member := &models.Member{}
	var userID sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, trip_id, name, user_id, is_admin FROM members WHERE id = ?",
		memberID,
	).Scan(&member.ID, &member.TripID, &member.Name, &userID, &member.IsAdmin)
	if err == sql.ErrNoRows {
		return nil, apperr.E(apperr.NotFound, "member not found: %s", memberID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if userID.Valid {
		member.UserID = userID.String
	}
	return member, nil
}

// ListMembers returns a trip's members in insertion order. rowid ordering
// preserves the order members were added, which downstream split and
// simplification logic relies on.
func (s *SQLiteStore) ListMembers(ctx context.Context, tripID string) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, trip_id, name, user_id, is_admin FROM members WHERE trip_id = ? ORDER BY rowid",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var memberList []models.Member
	for rows.Next() {
		var member models.Member
		var userID sql.NullString
		if err := rows.Scan(&member.ID, &member.TripID, &member.Name, &userID, &member.IsAdmin); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		if userID.Valid {
			member.UserID = userID.String
		}
		memberList = append(memberList, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return memberList, nil
}
