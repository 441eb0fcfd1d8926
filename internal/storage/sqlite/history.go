package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/snapsplit/snapsplit/internal/calculator"
)

// AssignmentHistory returns the engine-ready assignment records for one
// user, newest first. ShareCount is the item's full assignment count so the
// peer-share division stays correct even when a period bounds the result.
func (s *SQLiteStore) AssignmentHistory(ctx context.Context, userID string, period *calculator.Period) ([]calculator.AssignmentRecord, error) {
	query := `
		SELECT a.id, i.id, i.name, i.price,
		       (SELECT COUNT(*) FROM assignments a2 WHERE a2.item_id = i.id),
		       r.id, r.name, r.subtotal, r.delivery, r.tax, r.service,
		       a.created_at
		FROM assignments a
		JOIN items i ON a.item_id = i.id
		JOIN receipts r ON i.receipt_id = r.id
		WHERE a.user_id = ?`
	args := []any{userID}

	if period != nil {
		start, end := period.Bounds()
		query += " AND a.created_at >= ? AND a.created_at < ?"
		args = append(args, start.Unix(), end.Unix())
	}
	query += " ORDER BY a.created_at DESC, a.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment history: %w", err)
	}
	defer rows.Close()

	var records []calculator.AssignmentRecord
	for rows.Next() {
		var rec calculator.AssignmentRecord
		var createdAt int64
		if err := rows.Scan(
			&rec.ID, &rec.ItemID, &rec.ItemName, &rec.ItemPrice,
			&rec.ShareCount,
			&rec.ReceiptID, &rec.ReceiptName, &rec.Subtotal, &rec.Delivery, &rec.Tax, &rec.Service,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan assignment record: %w", err)
		}
		rec.CreatedAt = time.Unix(createdAt, 0).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignment history: %w", err)
	}
	return records, nil
}

// PaymentHistory returns the engine-ready payment records for one user,
// newest first, optionally bounded to a period.
func (s *SQLiteStore) PaymentHistory(ctx context.Context, userID string, period *calculator.Period) ([]calculator.PaymentRecord, error) {
	query := `
		SELECT p.id, p.amount, r.id, r.name, p.created_at
		FROM payments p
		JOIN receipts r ON p.receipt_id = r.id
		WHERE p.user_id = ?`
	args := []any{userID}

	if period != nil {
		start, end := period.Bounds()
		query += " AND p.created_at >= ? AND p.created_at < ?"
		args = append(args, start.Unix(), end.Unix())
	}
	query += " ORDER BY p.created_at DESC, p.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment history: %w", err)
	}
	defer rows.Close()

	var records []calculator.PaymentRecord
	for rows.Next() {
		var rec calculator.PaymentRecord
		var createdAt int64
		if err := rows.Scan(&rec.ID, &rec.Amount, &rec.ReceiptID, &rec.ReceiptName, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment record: %w", err)
		}
		rec.CreatedAt = time.Unix(createdAt, 0).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment history: %w", err)
	}
	return records, nil
}
