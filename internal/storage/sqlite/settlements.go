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

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}
	if settlement.Status == "" {
		settlement.Status = models.SettlementPending
	}

	var notes interface{}
	if settlement.Notes != "" {
		notes = settlement.Notes
	}
	var settledAt interface{}
	if settlement.SettledAt != 0 {
		settledAt = settlement.SettledAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, trip_id, from_member_id, to_member_id, amount, notes, status, created_at, settled_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.TripID, settlement.FromMemberID, settlement.ToMemberID,
		settlement.Amount, notes, string(settlement.Status), settlement.CreatedAt, settledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, trip_id, from_member_id, to_member_id, amount, notes, status, created_at, settled_at
		 FROM settlements WHERE id = ?`,
		settlementID,
	)
	settlement, err := scanSettlement(row.Scan)
	if err == sql.ErrNoRows {
		return nil, apperr.E(apperr.NotFound, "settlement not found: %s", settlementID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return settlement, nil
}

// ListSettlementsByTrip retrieves all settlements for a trip, newest first.
func (s *SQLiteStore) ListSettlementsByTrip(ctx context.Context, tripID string) ([]models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, trip_id, from_member_id, to_member_id, amount, notes, status, created_at, settled_at
		 FROM settlements WHERE trip_id = ? ORDER BY created_at DESC, rowid DESC`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by trip: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, *settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}

// scanSettlement reads one settlement row, validating the stored status
// against the closed set so string drift cannot enter the system.
func scanSettlement(scan func(dest ...any) error) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var notes sql.NullString
	var settledAt sql.NullInt64
	var status string

	err := scan(&settlement.ID, &settlement.TripID, &settlement.FromMemberID, &settlement.ToMemberID,
		&settlement.Amount, &notes, &status, &settlement.CreatedAt, &settledAt)
	if err != nil {
		return nil, err
	}

	parsed, err := models.ParseSettlementStatus(status)
	if err != nil {
		return nil, err
	}
	settlement.Status = parsed

	if notes.Valid {
		settlement.Notes = notes.String
	}
	if settledAt.Valid {
		settlement.SettledAt = settledAt.Int64
	}
	return settlement, nil
}

// UpdateSettlementStatus sets the status and settled timestamp of a settlement.
func (s *SQLiteStore) UpdateSettlementStatus(ctx context.Context, settlementID string, status models.SettlementStatus, settledAt int64) error {
	var settled interface{}
	if settledAt != 0 {
		settled = settledAt
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE settlements SET status = ?, settled_at = ? WHERE id = ?",
		string(status), settled, settlementID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return apperr.E(apperr.NotFound, "settlement not found: %s", settlementID)
	}
	return nil
}

// DeleteSettlement removes a settlement by ID.
func (s *SQLiteStore) DeleteSettlement(ctx context.Context, settlementID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM settlements WHERE id = ?", settlementID)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return apperr.E(apperr.NotFound, "settlement not found: %s", settlementID)
	}
	return nil
}
