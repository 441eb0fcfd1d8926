package service

import (
	"context"
	"fmt"

	"github.com/snapsplit/snapsplit/internal/calculator"
	"github.com/snapsplit/snapsplit/internal/storage"
)

// UserInfo is the account summary attached to a profile response.
type UserInfo struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	CreatedAt   int64  `json:"createdAt"`
}

// Profile is the full profile response: the account plus its aggregated
// spend/paid statistics.
type Profile struct {
	User UserInfo `json:"user"`
	calculator.ProfileStats
}

// ProfileService computes per-user spending statistics.
type ProfileService struct {
	store storage.Store
}

// NewProfileService creates a ProfileService.
func NewProfileService(store storage.Store) *ProfileService {
	return &ProfileService{store: store}
}

// Profile loads a user's assignment and payment history, optionally bounded
// to one month, and aggregates it. A period with no matching records yields
// all-zero stats.
func (s *ProfileService) Profile(ctx context.Context, userID string, period *calculator.Period) (*Profile, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, storage.ErrNotFound)
	}

	assignments, err := s.store.AssignmentHistory(ctx, userID, period)
	if err != nil {
		return nil, fmt.Errorf("load assignment history: %w", err)
	}
	payments, err := s.store.PaymentHistory(ctx, userID, period)
	if err != nil {
		return nil, fmt.Errorf("load payment history: %w", err)
	}

	stats, err := calculator.ComputeProfile(assignments, payments)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User: UserInfo{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			CreatedAt:   user.CreatedAt,
		},
		ProfileStats: *stats,
	}, nil
}
