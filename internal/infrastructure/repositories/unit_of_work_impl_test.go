package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"carbon-market.backend/internal/domain/entities"
	domainerrors "carbon-market.backend/internal/domain/errors"
)

func TestUnitOfWork_CommitsOnSuccess(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	uow := NewUnitOfWork(db)
	userRepo := NewUserRepository(db)

	user := &entities.User{Username: "committed", Email: "c@example.com", PasswordHash: "x", Role: entities.UserRoleBuyer}
	err := uow.Do(context.Background(), func(ctx context.Context) error {
		return userRepo.Create(ctx, user)
	})
	require.NoError(t, err)

	got, err := userRepo.GetByUsername(context.Background(), "committed")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	uow := NewUnitOfWork(db)
	userRepo := NewUserRepository(db)

	boom := errors.New("boom")
	err := uow.Do(context.Background(), func(ctx context.Context) error {
		if err := userRepo.Create(ctx, &entities.User{
			Username: "rolled-back", Email: "r@example.com", PasswordHash: "x", Role: entities.UserRoleBuyer,
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = userRepo.GetByUsername(context.Background(), "rolled-back")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUnitOfWork_WithLockReadsInsideTransaction(t *testing.T) {
	db := newTestDB(t)
	createCreditTables(t, db)
	uow := NewUnitOfWork(db)
	creditRepo := NewCreditRepository(db)

	creator := uuid.New()
	seedCredit(t, creditRepo, 9, creator, []uuid.UUID{uuid.New(), uuid.New(), uuid.New()})

	err := uow.Do(context.Background(), func(ctx context.Context) error {
		credit, err := creditRepo.GetByID(uow.WithLock(ctx), 9)
		if err != nil {
			return err
		}
		return creditRepo.Deactivate(ctx, credit.ID)
	})
	require.NoError(t, err)

	credit, err := creditRepo.GetByID(context.Background(), 9)
	require.NoError(t, err)
	require.False(t, credit.IsActive)
}
