package models

// Trip represents a shared expense context: a vacation, a shared flat,
// a festival weekend. Members, expenses and settlements all hang off a trip.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// Name is the display name of the trip (e.g. "Lisbon 2026").
	Name string

	// CreatedBy is the user ID of the trip creator. The creator is also
	// added as the trip's admin member.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64
}

// Member represents a participant in a trip.
//
// A member either links to a registered user (UserID set) or is a guest
// (UserID empty). Guests are full accounting participants; they just cannot
// log in. Exactly one member per trip carries the admin flag at creation.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	// Member IDs, not user IDs, are the keys used in expenses, splits,
	// settlements and balances.
	ID string

	// TripID is the trip this member belongs to. A member belongs to
	// exactly one trip.
	TripID string

	// Name is the display name within the trip.
	Name string

	// UserID is the linked user account, or empty for a guest member.
	UserID string

	// IsAdmin marks the trip administrator.
	IsAdmin bool
}
