// Package notify delivers best-effort notifications about settlement and
// expense activity to other trip members.
//
// Dispatch is fire-and-forget: failures are logged and never affect the
// outcome of the operation that triggered them. The dispatcher is constructed
// at the composition root and passed in explicitly; there is no ambient
// global.
package notify

import (
	"context"
	"log/slog"

	"tripsplit/internal/models"
)

// Dispatcher receives domain events worth telling other members about.
type Dispatcher interface {
	ExpenseAdded(ctx context.Context, expense *models.Expense)
	SettlementCreated(ctx context.Context, settlement *models.Settlement)
	SettlementConfirmed(ctx context.Context, settlement *models.Settlement)
	SettlementCancelled(ctx context.Context, settlement *models.Settlement)
}

// LogDispatcher logs each event. Stands in for a push-notification backend;
// swapping in a real one only touches the composition root.
type LogDispatcher struct {
	logger *slog.Logger
}

var _ Dispatcher = (*LogDispatcher)(nil)

// NewLogDispatcher creates a dispatcher that writes events to the logger.
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) ExpenseAdded(ctx context.Context, expense *models.Expense) {
	d.logger.Info("notify: expense added",
		"trip_id", expense.TripID, "expense_id", expense.ID,
		"paid_by", expense.PaidBy, "amount", expense.Amount)
}

func (d *LogDispatcher) SettlementCreated(ctx context.Context, settlement *models.Settlement) {
	d.logger.Info("notify: settlement created",
		"trip_id", settlement.TripID, "settlement_id", settlement.ID,
		"from", settlement.FromMemberID, "to", settlement.ToMemberID,
		"amount", settlement.Amount)
}

func (d *LogDispatcher) SettlementConfirmed(ctx context.Context, settlement *models.Settlement) {
	d.logger.Info("notify: settlement confirmed",
		"trip_id", settlement.TripID, "settlement_id", settlement.ID)
}

func (d *LogDispatcher) SettlementCancelled(ctx context.Context, settlement *models.Settlement) {
	d.logger.Info("notify: settlement cancelled",
		"trip_id", settlement.TripID, "settlement_id", settlement.ID)
}
