// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"tripsplit/internal/models"
)

// Store defines the interface for trip, member, expense and settlement
// storage. The abstraction allows swapping storage backends (SQLite,
// PostgreSQL, etc.) without changing the service layer.
//
// Getters return an apperr.NotFound error for absent IDs, except
// GetUserByEmail which returns (nil, nil) so login code can distinguish
// "no such account" from storage failures without error matching.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email, or (nil, nil) if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateTrip persists a trip together with its admin member in one
	// transaction. IDs and CreatedAt are populated if unset.
	CreateTrip(ctx context.Context, trip *models.Trip, admin *models.Member) error

	// GetTrip retrieves a trip by ID.
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)

	// AddMember adds a member to an existing trip.
	AddMember(ctx context.Context, member *models.Member) error

	// GetMember retrieves a member by ID.
	GetMember(ctx context.Context, memberID string) (*models.Member, error)

	// ListMembers returns a trip's members in insertion order. The order is
	// load-bearing: split remainders and simplifier tie-breaks follow it.
	ListMembers(ctx context.Context, tripID string) ([]models.Member, error)

	// CreateExpense persists an expense with its splits in one transaction.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its splits.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByTrip returns all expenses for a trip, splits resolved,
	// newest first.
	ListExpensesByTrip(ctx context.Context, tripID string) ([]models.Expense, error)

	// DeleteExpense removes an expense and its splits.
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreateSettlement persists a new settlement.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByTrip returns all settlements for a trip, newest first.
	ListSettlementsByTrip(ctx context.Context, tripID string) ([]models.Settlement, error)

	// UpdateSettlementStatus sets the status and settled timestamp.
	UpdateSettlementStatus(ctx context.Context, settlementID string, status models.SettlementStatus, settledAt int64) error

	// DeleteSettlement removes a settlement by ID.
	DeleteSettlement(ctx context.Context, settlementID string) error

	// Close releases any resources held by the store.
	Close() error
}
