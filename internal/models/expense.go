package models

// Expense represents money one member paid on behalf of the group (or for
// themself, if IsGroupExpense is false).
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// TripID is the trip this expense belongs to.
	TripID string

	// PaidBy is the member ID of the payer.
	PaidBy string

	// Amount is the full expense amount. Always > 0.
	Amount float64

	// Category is a free-form label (e.g. "food", "transport").
	Category string

	// Description is an optional human-readable note.
	Description string

	// Date is the Unix timestamp of when the expense occurred.
	Date int64

	// IsGroupExpense indicates whether the amount is split across members.
	// A personal expense carries exactly one split: the payer for the full
	// amount, so it nets to zero for everyone including the payer.
	IsGroupExpense bool

	// Splits is how Amount divides across members. For a group expense the
	// share amounts sum to Amount within floating tolerance.
	Splits []ExpenseSplit
}

// ExpenseSplit is one member's share of one expense.
type ExpenseSplit struct {
	// ExpenseID is the expense this split belongs to.
	ExpenseID string

	// MemberID is the member who owes this share.
	MemberID string

	// ShareAmount is the portion of the expense amount owed by the member.
	ShareAmount float64
}
