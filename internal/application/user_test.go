package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"mcq-grader/internal/domain/entity"
	"mcq-grader/internal/infrastructure/storage"
)

func TestUserService_BeginKeyAndCancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.BeginKey(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingKey, user.State)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestUserService_SetState(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetState(ctx, 2, 20, entity.StateAwaitingSheets)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingSheets, user.State)
}
