package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/snapsplit/snapsplit/internal/models"
	"github.com/snapsplit/snapsplit/internal/storage"
)

// CreateFriend inserts a new friend record, generating its ID.
func (s *SQLiteStore) CreateFriend(ctx context.Context, friend *models.Friend) error {
	if friend.ID == "" {
		friend.ID = uuid.New().String()
	}
	if friend.CreatedAt == 0 {
		friend.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO friends (id, owner_id, name, created_at) VALUES (?, ?, ?, ?)",
		friend.ID, friend.OwnerID, friend.Name, friend.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create friend: %w", err)
	}
	return nil
}

// ListFriends returns all friends tracked by the given user, oldest first.
func (s *SQLiteStore) ListFriends(ctx context.Context, ownerID string) ([]models.Friend, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner_id, name, created_at FROM friends WHERE owner_id = ? ORDER BY created_at, id",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var friends []models.Friend
	for rows.Next() {
		var f models.Friend
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.Name, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friends: %w", err)
	}
	return friends, nil
}

// DeleteFriend removes a friend owned by the given user. Their assignments
// and payments cascade away with them.
func (s *SQLiteStore) DeleteFriend(ctx context.Context, id, ownerID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM friends WHERE id = ? AND owner_id = ?",
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete friend: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete friend: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("friend %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
