package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/snapsplit/snapsplit/internal/models"
	"github.com/snapsplit/snapsplit/internal/storage"
)

// CreateReceipt persists a receipt with its items, assignments and payments
// in one transaction, generating IDs and timestamps as needed.
func (s *SQLiteStore) CreateReceipt(ctx context.Context, receipt *models.Receipt) error {
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	if receipt.CreatedAt == 0 {
		receipt.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO receipts (id, name, creator_id, subtotal, delivery, tax, service, total, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		receipt.ID, receipt.Name, receipt.CreatorID,
		receipt.Subtotal, receipt.Delivery, receipt.Tax, receipt.Service, receipt.Total,
		receipt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	for i := range receipt.Items {
		item := &receipt.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.ReceiptID = receipt.ID
		if item.Quantity == 0 {
			item.Quantity = 1
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO items (id, receipt_id, name, price, quantity) VALUES (?, ?, ?, ?, ?)",
			item.ID, receipt.ID, item.Name, item.Price, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}

		for j := range item.Assignments {
			as := &item.Assignments[j]
			if as.ID == "" {
				as.ID = uuid.New().String()
			}
			as.ItemID = item.ID
			if as.CreatedAt == 0 {
				as.CreatedAt = receipt.CreatedAt
			}

			_, err = tx.ExecContext(ctx,
				"INSERT INTO assignments (id, item_id, user_id, friend_id, created_at) VALUES (?, ?, ?, ?, ?)",
				as.ID, item.ID, nullable(as.UserID), nullable(as.FriendID), as.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert assignment: %w", err)
			}
		}
	}

	for i := range receipt.Payments {
		pay := &receipt.Payments[i]
		if pay.ID == "" {
			pay.ID = uuid.New().String()
		}
		pay.ReceiptID = receipt.ID
		if pay.CreatedAt == 0 {
			pay.CreatedAt = receipt.CreatedAt
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO payments (id, receipt_id, user_id, friend_id, amount, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			pay.ID, receipt.ID, nullable(pay.UserID), nullable(pay.FriendID), pay.Amount, pay.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetReceipt retrieves the full receipt aggregate with resolved participant
// display names on every assignment and payment.
func (s *SQLiteStore) GetReceipt(ctx context.Context, id string) (*models.Receipt, error) {
	receipt := &models.Receipt{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, creator_id, subtotal, delivery, tax, service, total, created_at
		 FROM receipts WHERE id = ?`,
		id,
	).Scan(
		&receipt.ID, &receipt.Name, &receipt.CreatorID,
		&receipt.Subtotal, &receipt.Delivery, &receipt.Tax, &receipt.Service, &receipt.Total,
		&receipt.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("receipt %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	itemRows, err := s.db.QueryContext(ctx,
		"SELECT id, name, price, quantity FROM items WHERE receipt_id = ? ORDER BY rowid",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer itemRows.Close()

	itemIndex := make(map[string]int)
	for itemRows.Next() {
		item := models.Item{ReceiptID: id}
		if err := itemRows.Scan(&item.ID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		itemIndex[item.ID] = len(receipt.Items)
		receipt.Items = append(receipt.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	// One query for every assignment on the receipt, names resolved from
	// whichever linked record exists.
	assignRows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.item_id, COALESCE(a.user_id, ''), COALESCE(a.friend_id, ''),
		        COALESCE(u.display_name, f.name, ''), a.created_at
		 FROM assignments a
		 JOIN items i ON a.item_id = i.id
		 LEFT JOIN users u ON a.user_id = u.id
		 LEFT JOIN friends f ON a.friend_id = f.id
		 WHERE i.receipt_id = ?
		 ORDER BY a.created_at, a.id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}
	defer assignRows.Close()

	for assignRows.Next() {
		var as models.Assignment
		if err := assignRows.Scan(&as.ID, &as.ItemID, &as.UserID, &as.FriendID, &as.ParticipantName, &as.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		idx, ok := itemIndex[as.ItemID]
		if !ok {
			continue
		}
		receipt.Items[idx].Assignments = append(receipt.Items[idx].Assignments, as)
	}
	if err := assignRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}

	payRows, err := s.db.QueryContext(ctx,
		`SELECT p.id, COALESCE(p.user_id, ''), COALESCE(p.friend_id, ''),
		        COALESCE(u.display_name, f.name, ''), p.amount, p.created_at
		 FROM payments p
		 LEFT JOIN users u ON p.user_id = u.id
		 LEFT JOIN friends f ON p.friend_id = f.id
		 WHERE p.receipt_id = ?
		 ORDER BY p.created_at, p.id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	defer payRows.Close()

	for payRows.Next() {
		pay := models.Payment{ReceiptID: id}
		if err := payRows.Scan(&pay.ID, &pay.UserID, &pay.FriendID, &pay.ParticipantName, &pay.Amount, &pay.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		receipt.Payments = append(receipt.Payments, pay)
	}
	if err := payRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return receipt, nil
}

// ListReceipts returns summaries of a user's receipts, newest first.
func (s *SQLiteStore) ListReceipts(ctx context.Context, creatorID string) ([]models.ReceiptSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.name, r.total, r.created_at,
		        (SELECT COUNT(*) FROM items i WHERE i.receipt_id = r.id)
		 FROM receipts r
		 WHERE r.creator_id = ?
		 ORDER BY r.created_at DESC, r.id`,
		creatorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	var summaries []models.ReceiptSummary
	for rows.Next() {
		var sum models.ReceiptSummary
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Total, &sum.CreatedAt, &sum.ItemCount); err != nil {
			return nil, fmt.Errorf("failed to scan receipt summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipts: %w", err)
	}
	return summaries, nil
}

// AddAssignment links an item to one participant.
func (s *SQLiteStore) AddAssignment(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.New().String()
	}
	if assignment.CreatedAt == 0 {
		assignment.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO assignments (id, item_id, user_id, friend_id, created_at) VALUES (?, ?, ?, ?, ?)",
		assignment.ID, assignment.ItemID, nullable(assignment.UserID), nullable(assignment.FriendID), assignment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add assignment: %w", err)
	}
	return nil
}

// DeleteAssignment removes an assignment by ID.
func (s *SQLiteStore) DeleteAssignment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM assignments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("assignment %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// AddPayment records a payment on a receipt.
func (s *SQLiteStore) AddPayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO payments (id, receipt_id, user_id, friend_id, amount, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		payment.ID, payment.ReceiptID, nullable(payment.UserID), nullable(payment.FriendID), payment.Amount, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add payment: %w", err)
	}
	return nil
}

// nullable maps empty strings to SQL NULL so the check constraints on the
// user/friend foreign keys hold.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
