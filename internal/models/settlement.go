package models

import "fmt"

// SettlementStatus is the closed set of settlement lifecycle states.
// It is stored as a string but validated at the storage boundary so no other
// values can enter the system.
type SettlementStatus string

const (
	// SettlementPending means the payer recorded the payment but the
	// receiver has not confirmed receipt yet.
	SettlementPending SettlementStatus = "PENDING"

	// SettlementConfirmed means the receiver confirmed receipt. Terminal:
	// a confirmed settlement is never mutated again.
	SettlementConfirmed SettlementStatus = "CONFIRMED"

	// SettlementDisputed is a terminal, manually-set state. No automated
	// transition leads out of it.
	SettlementDisputed SettlementStatus = "DISPUTED"
)

// ParseSettlementStatus converts a stored string into a SettlementStatus,
// rejecting anything outside the closed set.
func ParseSettlementStatus(s string) (SettlementStatus, error) {
	switch SettlementStatus(s) {
	case SettlementPending, SettlementConfirmed, SettlementDisputed:
		return SettlementStatus(s), nil
	}
	return "", fmt.Errorf("unknown settlement status %q", s)
}

// Settlement represents a recorded real-world payment between two trip
// members, intended to resolve a simplified debt.
//
// Lifecycle: created PENDING by the payer; the receiver may confirm
// (PENDING -> CONFIRMED, sets SettledAt); the payer may cancel while PENDING,
// which deletes the record.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// TripID is the trip this settlement belongs to.
	TripID string

	// FromMemberID is the member who paid (debtor settling up).
	FromMemberID string

	// ToMemberID is the member who received payment (creditor being paid).
	ToMemberID string

	// Amount is the payment amount. Always > 0.
	Amount float64

	// Notes is an optional description ("paid cash at the airport").
	Notes string

	// Status is the current lifecycle state.
	Status SettlementStatus

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// SettledAt is the Unix timestamp of confirmation, 0 while unconfirmed.
	SettledAt int64
}
