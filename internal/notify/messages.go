package notify

import (
	"encoding/json"
	"time"
)

// Event kinds carried on the notifications queue.
const (
	KindReceiptCreated = "receipt_created"
	KindScanFailed     = "scan_failed"
)

// Event is the JSON payload published for receipt lifecycle notifications.
type Event struct {
	Kind      string    `json:"kind"`
	ReceiptID string    `json:"receiptId,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	Name      string    `json:"name,omitempty"`
	Total     float64   `json:"total,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ToJSON converts the event to JSON bytes.
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON creates an event from JSON bytes.
func EventFromJSON(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
