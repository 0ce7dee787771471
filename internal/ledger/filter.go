package ledger

import (
	"tripsplit/internal/models"
)

// pairKey builds a direction-insensitive key for a member pair. A settlement
// between the same two members in either direction accounts for the pair.
// That deliberately collapses A->B and B->A into one slot; a strictly
// directional debt graph could in principle carry legitimate debts both ways,
// but the display layer treats one in-flight payment between two people as
// covering the pair.
func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}

// FilterActiveDebts removes simplified debts that already have a settlement
// record, so the UI never prompts a user to pay a debt the system already
// knows about.
//
// Both PENDING and CONFIRMED settlements suppress a suggestion: a pending
// settlement already represents an in-flight payment attempt for the pair.
// DISPUTED settlements do not suppress. Debts with no matching settlement
// come back unchanged and in order, so filtering an already-filtered list
// with the same settlements returns the same list.
func FilterActiveDebts(debts []models.SimplifiedDebt, settlements []models.Settlement) []models.SimplifiedDebt {
	settled := make(map[string]bool)
	for _, s := range settlements {
		if s.Status == models.SettlementDisputed {
			continue
		}
		settled[pairKey(s.FromMemberID, s.ToMemberID)] = true
	}

	active := make([]models.SimplifiedDebt, 0, len(debts))
	for _, d := range debts {
		if !settled[pairKey(d.FromMemberID, d.ToMemberID)] {
			active = append(active, d)
		}
	}
	return active
}

// ResolveSettlementState resolves the display state machine for one
// simplified debt from the point of view of currentMemberID.
//
// No matching settlement yields NoSettlement ("Settle Up" action). A PENDING
// match yields Pending, with CanConfirm for the settlement receiver and
// CanCancel for the settlement payer. A CONFIRMED match yields Confirmed
// ("Settled"). Matching uses the same direction-insensitive pair rule as
// FilterActiveDebts and ignores DISPUTED records; when several settlements
// match, the most recently created one wins.
func ResolveSettlementState(debt models.SimplifiedDebt, settlements []models.Settlement, currentMemberID string) models.DebtState {
	key := pairKey(debt.FromMemberID, debt.ToMemberID)

	var match *models.Settlement
	for i := range settlements {
		s := &settlements[i]
		if s.Status == models.SettlementDisputed {
			continue
		}
		if pairKey(s.FromMemberID, s.ToMemberID) != key {
			continue
		}
		if match == nil || s.CreatedAt > match.CreatedAt {
			match = s
		}
	}

	if match == nil {
		return models.DebtState{Status: models.DebtNoSettlement}
	}

	state := models.DebtState{Settlement: match}
	switch match.Status {
	case models.SettlementConfirmed:
		state.Status = models.DebtConfirmed
	default:
		state.Status = models.DebtPending
		state.CanConfirm = currentMemberID == match.ToMemberID
		state.CanCancel = currentMemberID == match.FromMemberID
	}
	return state
}
