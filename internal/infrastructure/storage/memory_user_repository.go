package storage

import (
	"context"
	"sync"

	"quality-bot/internal/domain/entity"
	"quality-bot/internal/domain/port"
)

// MemoryUserRepository is an in-memory operator state store.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]*entity.User
}

// NewMemoryUserRepository creates a new in-memory store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]*entity.User),
	}
}

// Get returns the operator by ID, creating a new one if not found.
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.RLock()
	user, exists := r.users[userID]
	r.mu.RUnlock()

	if exists {
		return user, nil
	}

	newUser := entity.NewUser(userID, chatID)

	r.mu.Lock()
	r.users[userID] = newUser
	r.mu.Unlock()

	return newUser, nil
}

// Save persists the operator's state.
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	r.users[user.ID] = user
	r.mu.Unlock()

	return nil
}

// UpdateState updates the operator's dialog state.
func (r *MemoryUserRepository) UpdateState(ctx context.Context, userID int64, state entity.UserState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, exists := r.users[userID]; exists {
		user.SetState(state)
	}

	return nil
}

var _ port.UserRepository = (*MemoryUserRepository)(nil)
