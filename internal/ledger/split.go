// Package ledger implements the balance and settlement engine: equal-split
// computation, per-member balance aggregation, greedy debt simplification and
// settlement correlation. Everything here is pure computation over in-memory
// snapshots; persistence and transport live elsewhere.
package ledger

import (
	"fmt"
	"math"

	"tripsplit/internal/models"
)

// EqualSplits divides amount equally among the given members.
//
// The split is computed in integer cents to keep the shares exact. When the
// amount does not divide evenly, the remainder cents go one each to the first
// members in the given order, so for 100.00 across three members the shares
// are 33.34, 33.33, 33.33. The caller's member order is therefore part of the
// contract: a stable order gives a deterministic split.
func EqualSplits(expenseID string, amount float64, memberIDs []string) ([]models.ExpenseSplit, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %.2f", amount)
	}
	if len(memberIDs) == 0 {
		return nil, fmt.Errorf("must have at least one member")
	}

	totalCents := int64(math.Round(amount * 100))
	base := totalCents / int64(len(memberIDs))
	remainder := totalCents % int64(len(memberIDs))

	splits := make([]models.ExpenseSplit, len(memberIDs))
	for i, memberID := range memberIDs {
		cents := base
		if int64(i) < remainder {
			cents++
		}
		splits[i] = models.ExpenseSplit{
			ExpenseID:   expenseID,
			MemberID:    memberID,
			ShareAmount: float64(cents) / 100,
		}
	}
	return splits, nil
}

// SelfSplit builds the single split of a personal (non-group) expense: the
// payer owes the full amount to themself, which nets to zero.
func SelfSplit(expenseID string, amount float64, payerID string) ([]models.ExpenseSplit, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %.2f", amount)
	}
	return []models.ExpenseSplit{
		{ExpenseID: expenseID, MemberID: payerID, ShareAmount: amount},
	}, nil
}
