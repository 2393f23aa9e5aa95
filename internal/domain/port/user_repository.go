package port

import (
	"context"

	"quality-bot/internal/domain/entity"
)

// UserRepository is the operator state store.
type UserRepository interface {
	// Get returns the operator by ID, creating a new one if not found.
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save persists the operator's state.
	Save(ctx context.Context, user *entity.User) error

	// UpdateState updates the operator's dialog state.
	UpdateState(ctx context.Context, userID int64, state entity.UserState) error
}
