// Package service contains the application services sitting between the HTTP
// handlers and the storage layer. Services load snapshots from storage, feed
// them to the calculator, and never persist derived values.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/snapsplit/snapsplit/internal/calculator"
	"github.com/snapsplit/snapsplit/internal/models"
	"github.com/snapsplit/snapsplit/internal/storage"
)

// ErrInvalidInput marks request payloads that fail structural validation.
var ErrInvalidInput = errors.New("invalid input")

// Publisher emits receipt lifecycle events for the notifier. A nil Publisher
// disables eventing without affecting request handling.
type Publisher interface {
	PublishReceiptCreated(ctx context.Context, receiptID, creatorID, name string, total float64) error
}

// ParticipantRef names one participant in a request: exactly one of the two
// IDs must be set.
type ParticipantRef struct {
	UserID   string `json:"userId,omitempty"`
	FriendID string `json:"friendId,omitempty"`
}

func (r ParticipantRef) validate() error {
	if r.UserID == "" && r.FriendID == "" {
		return fmt.Errorf("%w: participant needs a userId or a friendId", ErrInvalidInput)
	}
	if r.UserID != "" && r.FriendID != "" {
		return fmt.Errorf("%w: participant cannot be both a user and a friend", ErrInvalidInput)
	}
	return nil
}

// CreateItemInput is one line item in a receipt creation request.
type CreateItemInput struct {
	Name        string           `json:"name"`
	Price       float64          `json:"price"`
	Quantity    int              `json:"quantity"`
	Assignments []ParticipantRef `json:"assignments,omitempty"`
}

// CreatePaymentInput is one payment in a receipt creation request.
type CreatePaymentInput struct {
	Amount float64 `json:"amount"`
	ParticipantRef
}

// CreateReceiptInput is the full receipt creation request.
type CreateReceiptInput struct {
	Name     string               `json:"name"`
	Subtotal float64              `json:"subtotal"`
	Delivery float64              `json:"delivery"`
	Tax      float64              `json:"tax"`
	Service  float64              `json:"service"`
	Total    float64              `json:"total"`
	Items    []CreateItemInput    `json:"items"`
	Payments []CreatePaymentInput `json:"payments,omitempty"`
}

// ReceiptService handles receipt CRUD and split computation.
type ReceiptService struct {
	store     storage.Store
	publisher Publisher
}

// NewReceiptService creates a ReceiptService. publisher may be nil.
func NewReceiptService(store storage.Store, publisher Publisher) *ReceiptService {
	return &ReceiptService{store: store, publisher: publisher}
}

func validAmount(name string, v float64) error {
	if math.IsNaN(v) {
		return fmt.Errorf("%w: %s is NaN", ErrInvalidInput, name)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s is negative", ErrInvalidInput, name)
	}
	return nil
}

// Create validates and persists a new receipt, then emits a receipt-created
// event. The event is best-effort: a publish failure is logged, never
// surfaced to the caller.
func (s *ReceiptService) Create(ctx context.Context, creatorID string, input *CreateReceiptInput) (*models.Receipt, error) {
	for name, v := range map[string]float64{
		"subtotal": input.Subtotal,
		"delivery": input.Delivery,
		"tax":      input.Tax,
		"service":  input.Service,
		"total":    input.Total,
	} {
		if err := validAmount(name, v); err != nil {
			return nil, err
		}
	}

	receipt := &models.Receipt{
		Name:      input.Name,
		CreatorID: creatorID,
		Subtotal:  input.Subtotal,
		Delivery:  input.Delivery,
		Tax:       input.Tax,
		Service:   input.Service,
		Total:     input.Total,
	}

	for _, item := range input.Items {
		if err := validAmount(fmt.Sprintf("item %q price", item.Name), item.Price); err != nil {
			return nil, err
		}
		m := models.Item{Name: item.Name, Price: item.Price, Quantity: item.Quantity}
		for _, ref := range item.Assignments {
			if err := ref.validate(); err != nil {
				return nil, err
			}
			m.Assignments = append(m.Assignments, models.Assignment{
				UserID:   ref.UserID,
				FriendID: ref.FriendID,
			})
		}
		receipt.Items = append(receipt.Items, m)
	}

	for _, pay := range input.Payments {
		if err := validAmount("payment amount", pay.Amount); err != nil {
			return nil, err
		}
		if err := pay.ParticipantRef.validate(); err != nil {
			return nil, err
		}
		receipt.Payments = append(receipt.Payments, models.Payment{
			UserID:   pay.UserID,
			FriendID: pay.FriendID,
			Amount:   pay.Amount,
		})
	}

	if err := s.store.CreateReceipt(ctx, receipt); err != nil {
		return nil, fmt.Errorf("create receipt: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishReceiptCreated(ctx, receipt.ID, creatorID, receipt.Name, receipt.Total); err != nil {
			slog.Warn("Failed to publish receipt-created event", "receipt_id", receipt.ID, "error", err)
		}
	}

	return receipt, nil
}

// Get retrieves the full receipt aggregate.
func (s *ReceiptService) Get(ctx context.Context, id string) (*models.Receipt, error) {
	return s.store.GetReceipt(ctx, id)
}

// List returns summaries of the receipts a user recorded.
func (s *ReceiptService) List(ctx context.Context, creatorID string) ([]models.ReceiptSummary, error) {
	return s.store.ListReceipts(ctx, creatorID)
}

// Split loads one receipt's snapshot and computes who owes what.
func (s *ReceiptService) Split(ctx context.Context, receiptID string) (*calculator.SplitReport, error) {
	receipt, err := s.store.GetReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	input, err := toCalculatorReceipt(receipt)
	if err != nil {
		return nil, err
	}
	return calculator.ComputeSplit(input)
}

// AssignItem links an item to one participant.
func (s *ReceiptService) AssignItem(ctx context.Context, itemID string, ref ParticipantRef) (*models.Assignment, error) {
	if err := ref.validate(); err != nil {
		return nil, err
	}
	assignment := &models.Assignment{
		ItemID:   itemID,
		UserID:   ref.UserID,
		FriendID: ref.FriendID,
	}
	if err := s.store.AddAssignment(ctx, assignment); err != nil {
		return nil, fmt.Errorf("assign item: %w", err)
	}
	return assignment, nil
}

// UnassignItem removes an assignment.
func (s *ReceiptService) UnassignItem(ctx context.Context, assignmentID string) error {
	return s.store.DeleteAssignment(ctx, assignmentID)
}

// AddPayment records a payment on a receipt.
func (s *ReceiptService) AddPayment(ctx context.Context, receiptID string, amount float64, ref ParticipantRef) (*models.Payment, error) {
	if err := validAmount("payment amount", amount); err != nil {
		return nil, err
	}
	if err := ref.validate(); err != nil {
		return nil, err
	}
	payment := &models.Payment{
		ReceiptID: receiptID,
		UserID:    ref.UserID,
		FriendID:  ref.FriendID,
		Amount:    amount,
	}
	if err := s.store.AddPayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("add payment: %w", err)
	}
	return payment, nil
}

// toCalculatorReceipt converts the persisted aggregate into the engine's
// input graph, resolving each nullable user/friend pair into a tagged
// participant.
func toCalculatorReceipt(receipt *models.Receipt) (*calculator.Receipt, error) {
	out := &calculator.Receipt{
		ID:       receipt.ID,
		Name:     receipt.Name,
		Subtotal: receipt.Subtotal,
		Delivery: receipt.Delivery,
		Tax:      receipt.Tax,
		Service:  receipt.Service,
		Total:    receipt.Total,
	}

	for _, item := range receipt.Items {
		ci := calculator.Item{ID: item.ID, Name: item.Name, Price: item.Price}
		for _, as := range item.Assignments {
			participant, err := calculator.ResolveParticipant(as.UserID, as.FriendID, as.ParticipantName)
			if err != nil {
				return nil, err
			}
			ci.Assignments = append(ci.Assignments, calculator.Assignment{
				ID:          as.ID,
				Participant: participant,
				CreatedAt:   time.Unix(as.CreatedAt, 0).UTC(),
			})
		}
		out.Items = append(out.Items, ci)
	}

	for _, pay := range receipt.Payments {
		participant, err := calculator.ResolveParticipant(pay.UserID, pay.FriendID, pay.ParticipantName)
		if err != nil {
			return nil, err
		}
		out.Payments = append(out.Payments, calculator.Payment{
			ID:          pay.ID,
			Participant: participant,
			Amount:      pay.Amount,
			CreatedAt:   time.Unix(pay.CreatedAt, 0).UTC(),
		})
	}

	return out, nil
}
