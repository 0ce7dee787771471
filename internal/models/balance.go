package models

// Balance is one member's derived net position across a trip.
// Computed by the ledger package, never persisted.
type Balance struct {
	// MemberID identifies the member.
	MemberID string

	// MemberName is carried along for display.
	MemberName string

	// TotalPaid is the sum of expense amounts where this member is the
	// payer, plus confirmed settlements they paid.
	TotalPaid float64

	// TotalOwed is the sum of this member's share amounts across all
	// splits in the trip, plus confirmed settlements they received.
	TotalOwed float64

	// NetBalance is TotalPaid - TotalOwed.
	// Positive = the group owes this member; negative = they owe the group.
	NetBalance float64
}

// SimplifiedDebt is one suggested payer -> payee transaction produced by
// reducing the full balance graph to a minimal transaction set. It is not
// tied to any stored record until a Settlement is created against it.
type SimplifiedDebt struct {
	FromMemberID string
	ToMemberID   string
	Amount       float64
}

// DebtStatus names the display state of one simplified debt.
type DebtStatus string

const (
	// DebtNoSettlement means no settlement record exists for the pair;
	// the UI shows a "Settle Up" action.
	DebtNoSettlement DebtStatus = "NO_SETTLEMENT"

	// DebtPending means a PENDING settlement exists for the pair.
	DebtPending DebtStatus = "PENDING"

	// DebtConfirmed means a CONFIRMED settlement exists for the pair;
	// shown as "Settled".
	DebtConfirmed DebtStatus = "CONFIRMED"
)

// DebtState is the resolved display state machine for one simplified debt,
// from the point of view of one member.
type DebtState struct {
	Status DebtStatus

	// Settlement is the matched settlement record, nil for DebtNoSettlement.
	Settlement *Settlement

	// CanConfirm is true when the viewing member is the settlement receiver
	// and the settlement is pending.
	CanConfirm bool

	// CanCancel is true when the viewing member is the settlement payer
	// and the settlement is pending.
	CanCancel bool
}
