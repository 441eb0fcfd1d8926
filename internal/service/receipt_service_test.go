package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/snapsplit/snapsplit/internal/models"
	"github.com/snapsplit/snapsplit/internal/storage"
	"github.com/snapsplit/snapsplit/internal/storage/sqlite"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustCreateUser(t *testing.T, store storage.Store, email, name string) *models.User {
	t.Helper()

	user := models.NewUser(email, name, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

type capturingPublisher struct {
	receiptIDs []string
	fail       bool
}

func (p *capturingPublisher) PublishReceiptCreated(_ context.Context, receiptID, _, _ string, _ float64) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.receiptIDs = append(p.receiptIDs, receiptID)
	return nil
}

func TestReceiptServiceCreateAndSplit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := mustCreateUser(t, store, "casey@example.com", "Casey")

	friend := &models.Friend{OwnerID: user.ID, Name: "Robin"}
	if err := store.CreateFriend(ctx, friend); err != nil {
		t.Fatalf("failed to create friend: %v", err)
	}

	publisher := &capturingPublisher{}
	svc := NewReceiptService(store, publisher)

	receipt, err := svc.Create(ctx, user.ID, &CreateReceiptInput{
		Name:     "Dinner",
		Subtotal: 100,
		Delivery: 5,
		Tax:      10,
		Total:    115,
		Items: []CreateItemInput{
			{Name: "Pasta", Price: 60, Quantity: 1, Assignments: []ParticipantRef{{UserID: user.ID}}},
			{Name: "Pizza", Price: 40, Quantity: 1, Assignments: []ParticipantRef{{FriendID: friend.ID}}},
		},
		Payments: []CreatePaymentInput{
			{Amount: 115, ParticipantRef: ParticipantRef{UserID: user.ID}},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if receipt.ID == "" {
		t.Fatal("expected a receipt ID")
	}
	if len(publisher.receiptIDs) != 1 || publisher.receiptIDs[0] != receipt.ID {
		t.Errorf("expected one published event for %s, got %v", receipt.ID, publisher.receiptIDs)
	}

	report, err := svc.Split(ctx, receipt.ID)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(report.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(report.Participants))
	}
	for _, p := range report.Participants {
		switch p.Name {
		case "Casey":
			if p.Spent != 69 || p.Paid != 115 || p.Owes != -46 {
				t.Errorf("Casey: got spent=%v paid=%v owes=%v", p.Spent, p.Paid, p.Owes)
			}
		case "Robin":
			if p.Spent != 46 || p.Paid != 0 || p.Owes != 46 {
				t.Errorf("Robin: got spent=%v paid=%v owes=%v", p.Spent, p.Paid, p.Owes)
			}
		default:
			t.Errorf("unexpected participant %q", p.Name)
		}
	}
}

func TestReceiptServiceCreateValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := mustCreateUser(t, store, "casey@example.com", "Casey")
	svc := NewReceiptService(store, nil)

	tests := []struct {
		name  string
		input CreateReceiptInput
	}{
		{
			name:  "negative subtotal",
			input: CreateReceiptInput{Name: "Bad", Subtotal: -1},
		},
		{
			name: "negative item price",
			input: CreateReceiptInput{
				Name:  "Bad",
				Items: []CreateItemInput{{Name: "Pasta", Price: -5}},
			},
		},
		{
			name: "assignment with both IDs",
			input: CreateReceiptInput{
				Name: "Bad",
				Items: []CreateItemInput{{
					Name:        "Pasta",
					Price:       10,
					Assignments: []ParticipantRef{{UserID: user.ID, FriendID: "f1"}},
				}},
			},
		},
		{
			name: "payment without participant",
			input: CreateReceiptInput{
				Name:     "Bad",
				Payments: []CreatePaymentInput{{Amount: 10}},
			},
		},
		{
			name: "negative payment",
			input: CreateReceiptInput{
				Name:     "Bad",
				Payments: []CreatePaymentInput{{Amount: -10, ParticipantRef: ParticipantRef{UserID: user.ID}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, user.ID, &tt.input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestReceiptServicePublishFailureIsNotFatal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := mustCreateUser(t, store, "casey@example.com", "Casey")

	svc := NewReceiptService(store, &capturingPublisher{fail: true})
	receipt, err := svc.Create(ctx, user.ID, &CreateReceiptInput{Name: "Lunch", Subtotal: 10, Total: 10})
	if err != nil {
		t.Fatalf("Create failed on publish error: %v", err)
	}
	if _, err := store.GetReceipt(ctx, receipt.ID); err != nil {
		t.Errorf("receipt not persisted: %v", err)
	}
}

func TestReceiptServiceAssignAndPay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := mustCreateUser(t, store, "casey@example.com", "Casey")
	svc := NewReceiptService(store, nil)

	receipt, err := svc.Create(ctx, user.ID, &CreateReceiptInput{
		Name:     "Lunch",
		Subtotal: 20,
		Total:    20,
		Items:    []CreateItemInput{{Name: "Salad", Price: 20, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	loaded, err := svc.Get(ctx, receipt.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	itemID := loaded.Items[0].ID

	assignment, err := svc.AssignItem(ctx, itemID, ParticipantRef{UserID: user.ID})
	if err != nil {
		t.Fatalf("AssignItem failed: %v", err)
	}

	if _, err := svc.AddPayment(ctx, receipt.ID, 20, ParticipantRef{UserID: user.ID}); err != nil {
		t.Fatalf("AddPayment failed: %v", err)
	}

	report, err := svc.Split(ctx, receipt.ID)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(report.Participants) != 1 {
		t.Fatalf("expected 1 participant, got %d", len(report.Participants))
	}
	if got := report.Participants[0]; got.Spent != 20 || got.Owes != 0 {
		t.Errorf("got spent=%v owes=%v, want 20 and 0", got.Spent, got.Owes)
	}

	if err := svc.UnassignItem(ctx, assignment.ID); err != nil {
		t.Fatalf("UnassignItem failed: %v", err)
	}
	if err := svc.UnassignItem(ctx, assignment.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for double unassign, got %v", err)
	}
}
