package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"quality-bot/internal/domain/entity"
	"quality-bot/internal/infrastructure/storage"
)

func TestUserService_BeginAndCancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.BeginMoldingInspection(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingMoldingID, user.State)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestUserService_SetState(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetState(ctx, 2, 20, entity.StateAwaitingBatchCount)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingBatchCount, user.State)
}
