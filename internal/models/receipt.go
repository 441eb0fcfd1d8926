package models

// Receipt is one recorded bill: its fee breakdown, line items and payments.
// Fees on a receipt are tax + delivery + service.
type Receipt struct {
	// ID is the unique identifier for the receipt (UUID format).
	ID string `json:"id"`

	// Name is the human-readable label, e.g. the restaurant name.
	Name string `json:"name"`

	// CreatorID is the user who recorded the receipt.
	CreatorID string `json:"creatorId"`

	// Subtotal is the pre-fee sum of item prices as printed on the receipt.
	Subtotal float64 `json:"subtotal"`

	// Delivery is the delivery fee, zero if none.
	Delivery float64 `json:"delivery"`

	// Tax is the tax amount.
	Tax float64 `json:"tax"`

	// Service is the service charge or tip.
	Service float64 `json:"service"`

	// Total is the final amount including all fees.
	Total float64 `json:"total"`

	// Items are the flattened line items (every item is quantity one).
	Items []Item `json:"items"`

	// Payments are the amounts participants put toward this receipt.
	Payments []Payment `json:"payments"`

	// CreatedAt is the Unix timestamp when the receipt was recorded.
	CreatedAt int64 `json:"createdAt"`
}

// Item is a single line on a receipt. Multi-quantity lines are flattened
// upstream: an "x3" line becomes three items, each with its unit price.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// ReceiptID is the parent receipt.
	ReceiptID string `json:"receiptId"`

	// Name is the item description, e.g. "Pad Thai".
	Name string `json:"name"`

	// Price is this item's total allocated price.
	Price float64 `json:"price"`

	// Quantity is retained from the scanned line for display; the price
	// is already per flattened item.
	Quantity int `json:"quantity"`

	// Assignments link this item to the participants sharing it.
	Assignments []Assignment `json:"assignments"`
}

// Assignment links an item to exactly one participant: a user or a friend,
// never both. ParticipantName is resolved from the linked record on read.
type Assignment struct {
	// ID is the unique identifier for the assignment (UUID format).
	ID string `json:"id"`

	// ItemID is the assigned item.
	ItemID string `json:"itemId"`

	// UserID is set when the participant is a registered user.
	UserID string `json:"userId,omitempty"`

	// FriendID is set when the participant is a tracked friend.
	FriendID string `json:"friendId,omitempty"`

	// ParticipantName is the linked record's display name (read-side only).
	ParticipantName string `json:"participantName,omitempty"`

	// CreatedAt is the Unix timestamp when the assignment was made.
	CreatedAt int64 `json:"createdAt"`
}

// Payment records money a participant put toward a receipt.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string `json:"id"`

	// ReceiptID is the receipt being paid.
	ReceiptID string `json:"receiptId"`

	// UserID is set when the payer is a registered user.
	UserID string `json:"userId,omitempty"`

	// FriendID is set when the payer is a tracked friend.
	FriendID string `json:"friendId,omitempty"`

	// ParticipantName is the linked record's display name (read-side only).
	ParticipantName string `json:"participantName,omitempty"`

	// Amount is the payment amount.
	Amount float64 `json:"amount"`

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64 `json:"createdAt"`
}

// ReceiptSummary is the list-view projection of a receipt.
type ReceiptSummary struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"itemCount"`
	CreatedAt int64   `json:"createdAt"`
}
