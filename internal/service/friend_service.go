package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/snapsplit/snapsplit/internal/models"
	"github.com/snapsplit/snapsplit/internal/storage"
)

// FriendService manages a user's informally tracked contacts.
type FriendService struct {
	store storage.Store
}

// NewFriendService creates a FriendService.
func NewFriendService(store storage.Store) *FriendService {
	return &FriendService{store: store}
}

// Add creates a friend record for the given owner.
func (s *FriendService) Add(ctx context.Context, ownerID, name string) (*models.Friend, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: friend name is required", ErrInvalidInput)
	}

	friend := &models.Friend{OwnerID: ownerID, Name: name}
	if err := s.store.CreateFriend(ctx, friend); err != nil {
		return nil, fmt.Errorf("create friend: %w", err)
	}
	return friend, nil
}

// List returns the owner's friends.
func (s *FriendService) List(ctx context.Context, ownerID string) ([]models.Friend, error) {
	return s.store.ListFriends(ctx, ownerID)
}

// Remove deletes a friend owned by the given user, along with the
// assignments and payments that reference them.
func (s *FriendService) Remove(ctx context.Context, id, ownerID string) error {
	return s.store.DeleteFriend(ctx, id, ownerID)
}
