package models

// Friend is an informally tracked contact who has no account of their own.
// Friends belong to the user who created them and can be assigned items and
// recorded as payers just like registered users.
type Friend struct {
	// ID is the unique identifier for the friend (UUID format).
	ID string `json:"id"`

	// OwnerID is the user who tracks this friend.
	OwnerID string `json:"ownerId"`

	// Name is the display name, e.g. "Sam from work".
	Name string `json:"name"`

	// CreatedAt is the Unix timestamp when the friend was added.
	CreatedAt int64 `json:"createdAt"`
}
