// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/snapsplit/snapsplit/internal/calculator"
	"github.com/snapsplit/snapsplit/internal/models"
)

// ErrNotFound marks lookups of records that don't exist. Implementations
// wrap it so callers can test with errors.Is.
var ErrNotFound = errors.New("not found")

// Store defines the interface for persistence operations. This abstraction
// allows swapping storage backends (SQLite, PostgreSQL, etc.) without
// changing the service layer.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns (nil, nil) when no
	// such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns (nil, nil) when no such
	// user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateFriend persists a new friend record, generating its ID.
	CreateFriend(ctx context.Context, friend *models.Friend) error

	// ListFriends returns all friends tracked by the given user.
	ListFriends(ctx context.Context, ownerID string) ([]models.Friend, error)

	// DeleteFriend removes a friend owned by the given user, along with
	// their assignments and payments.
	DeleteFriend(ctx context.Context, id, ownerID string) error

	// CreateReceipt persists a receipt with its items, assignments and
	// payments in one transaction, generating IDs as needed.
	CreateReceipt(ctx context.Context, receipt *models.Receipt) error

	// GetReceipt retrieves the full receipt aggregate: items with their
	// assignments, payments, and resolved participant display names.
	GetReceipt(ctx context.Context, id string) (*models.Receipt, error)

	// ListReceipts returns summaries of the receipts a user recorded,
	// newest first.
	ListReceipts(ctx context.Context, creatorID string) ([]models.ReceiptSummary, error)

	// AddAssignment links an item to one participant.
	AddAssignment(ctx context.Context, assignment *models.Assignment) error

	// DeleteAssignment removes an assignment by ID.
	DeleteAssignment(ctx context.Context, id string) error

	// AddPayment records a payment on a receipt.
	AddPayment(ctx context.Context, payment *models.Payment) error

	// AssignmentHistory returns the engine-ready assignment records for one
	// user, optionally bounded to a period. ShareCount on each record is the
	// item's full assignment count regardless of the period.
	AssignmentHistory(ctx context.Context, userID string, period *calculator.Period) ([]calculator.AssignmentRecord, error)

	// PaymentHistory returns the engine-ready payment records for one user,
	// optionally bounded to a period.
	PaymentHistory(ctx context.Context, userID string, period *calculator.Period) ([]calculator.PaymentRecord, error)

	// Close releases any resources held by the store.
	Close() error
}
