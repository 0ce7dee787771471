package ledger

import (
	"math"

	"tripsplit/internal/models"
)

// party is one side of the debt matching: a member with an outstanding
// positive amount (credit or debt, always stored positive here).
type party struct {
	memberID string
	amount   float64
}

// SimplifyDebts reduces per-member net balances to a minimal list of
// payer -> payee transactions.
//
// Greedy matching: repeatedly pair the largest debtor with the largest
// creditor, transfer min(debt, credit), and drop whichever side reaches zero.
// Members within Tolerance of zero are omitted up front so floating-point
// residue never produces a one-cent transaction. Ties on magnitude resolve to
// the earlier position in the balances slice, which callers fill in
// member-list order, so identical input yields identical output.
//
// The greedy heuristic is not guaranteed globally minimal in every
// theoretical case, but it never emits more than one transaction per
// non-zero member minus one.
func SimplifyDebts(balances []models.Balance) []models.SimplifiedDebt {
	var debtors, creditors []party
	for _, b := range balances {
		switch {
		case b.NetBalance > Tolerance:
			creditors = append(creditors, party{memberID: b.MemberID, amount: b.NetBalance})
		case b.NetBalance < -Tolerance:
			debtors = append(debtors, party{memberID: b.MemberID, amount: -b.NetBalance})
		}
	}

	var debts []models.SimplifiedDebt
	for len(debtors) > 0 && len(creditors) > 0 {
		d := largest(debtors)
		c := largest(creditors)

		amount := round2(math.Min(debtors[d].amount, creditors[c].amount))
		debts = append(debts, models.SimplifiedDebt{
			FromMemberID: debtors[d].memberID,
			ToMemberID:   creditors[c].memberID,
			Amount:       amount,
		})

		debtors[d].amount -= amount
		creditors[c].amount -= amount
		if debtors[d].amount <= Tolerance {
			debtors = append(debtors[:d], debtors[d+1:]...)
		}
		if creditors[c].amount <= Tolerance {
			creditors = append(creditors[:c], creditors[c+1:]...)
		}
	}
	return debts
}

// largest returns the index of the party with the greatest amount; the first
// occurrence wins on a tie, keeping output stable.
func largest(parties []party) int {
	best := 0
	for i := 1; i < len(parties); i++ {
		if parties[i].amount > parties[best].amount {
			best = i
		}
	}
	return best
}
