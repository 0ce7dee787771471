package ledger

import (
	"math"
	"strings"

	"tripsplit/internal/apperr"
	"tripsplit/internal/models"
)

// Tolerance is the epsilon shared by the zero-sum integrity check and the
// debt simplifier: 0.10 in minor currency units. Anything inside it is
// floating-point noise, anything outside it is a split-arithmetic bug.
const Tolerance = 0.10

// round2 rounds to two decimal places. Applied before sums are compared so
// floating-point drift cannot break the zero-sum invariant.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeBalances folds a trip's expenses, splits and settlements into one
// Balance per member.
//
// For each member: TotalPaid is the sum of expense amounts they paid,
// TotalOwed the sum of their share amounts across all splits, and
// NetBalance = TotalPaid - TotalOwed. Confirmed settlements move money for
// real, so they count as paid for the settlement payer and owed for the
// receiver; pending and disputed settlements do not touch balances.
//
// Every member in the trip's member list gets an entry, zero if they appear
// in no expense. Output order follows the member list.
//
// An expense or split referencing a member outside the list is a
// data-integrity error, as is a net-balance sum further than Tolerance from
// zero. Both are reported rather than silently returning inconsistent data.
func ComputeBalances(members []models.Member, expenses []models.Expense, settlements []models.Settlement) ([]models.Balance, error) {
	index := make(map[string]int, len(members))
	balances := make([]models.Balance, len(members))
	for i, m := range members {
		index[m.ID] = i
		balances[i] = models.Balance{MemberID: m.ID, MemberName: m.Name}
	}

	var unknown []string
	addUnknown := func(memberID string) {
		for _, id := range unknown {
			if id == memberID {
				return
			}
		}
		unknown = append(unknown, memberID)
	}

	for _, expense := range expenses {
		if i, ok := index[expense.PaidBy]; ok {
			balances[i].TotalPaid += expense.Amount
		} else {
			addUnknown(expense.PaidBy)
		}
		for _, split := range expense.Splits {
			if i, ok := index[split.MemberID]; ok {
				balances[i].TotalOwed += split.ShareAmount
			} else {
				addUnknown(split.MemberID)
			}
		}
	}

	for _, s := range settlements {
		if s.Status != models.SettlementConfirmed {
			continue
		}
		if i, ok := index[s.FromMemberID]; ok {
			balances[i].TotalPaid += s.Amount
		} else {
			addUnknown(s.FromMemberID)
		}
		if i, ok := index[s.ToMemberID]; ok {
			balances[i].TotalOwed += s.Amount
		} else {
			addUnknown(s.ToMemberID)
		}
	}

	if len(unknown) > 0 {
		return nil, apperr.E(apperr.Integrity,
			"expenses reference members missing from the trip: %s", strings.Join(unknown, ", "))
	}

	var sum float64
	for i := range balances {
		balances[i].TotalPaid = round2(balances[i].TotalPaid)
		balances[i].TotalOwed = round2(balances[i].TotalOwed)
		balances[i].NetBalance = round2(balances[i].TotalPaid - balances[i].TotalOwed)
		sum += balances[i].NetBalance
	}

	if math.Abs(sum) > Tolerance {
		return nil, apperr.E(apperr.Integrity,
			"net balances sum to %.2f, expected 0 within %.2f", sum, Tolerance)
	}

	return balances, nil
}
