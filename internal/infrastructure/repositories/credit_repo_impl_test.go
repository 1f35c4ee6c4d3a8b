package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"carbon-market.backend/internal/domain/entities"
	domainerrors "carbon-market.backend/internal/domain/errors"
)

func seedCredit(t *testing.T, repo *CreditRepository, id int64, creator uuid.UUID, auditors []uuid.UUID) *entities.Credit {
	t.Helper()
	c := &entities.Credit{
		ID:        id,
		Name:      "Mangrove Restoration",
		Amount:    1000,
		Price:     12.5,
		IsActive:  true,
		CreatorID: creator,
		DocuURL:   null.StringFrom("https://docs.example.org/mangrove.pdf"),
		ReqStatus: entities.ReqStatusPendingAudit,
		Auditors:  auditors,
	}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func TestCreditRepository_CreateAndGetByID(t *testing.T) {
	db := newTestDB(t)
	createCreditTables(t, db)
	repo := NewCreditRepository(db)
	ctx := context.Background()

	creator := uuid.New()
	auditors := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	seedCredit(t, repo, 101, creator, auditors)

	got, err := repo.GetByID(ctx, 101)
	require.NoError(t, err)
	require.Equal(t, "Mangrove Restoration", got.Name)
	require.Equal(t, auditors, got.Auditors, "auditor order must be preserved")
	require.True(t, got.IsActive)
	require.Equal(t, entities.ReqStatusPendingAudit, got.ReqStatus)
	require.Equal(t, "https://docs.example.org/mangrove.pdf", got.DocuURL.String)

	_, err = repo.GetByID(ctx, 999)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestCreditRepository_Listings(t *testing.T) {
	db := newTestDB(t)
	createCreditTables(t, db)
	repo := NewCreditRepository(db)
	ctx := context.Background()

	creatorA := uuid.New()
	creatorB := uuid.New()
	auditor := uuid.New()

	seedCredit(t, repo, 1, creatorA, []uuid.UUID{auditor})
	seedCredit(t, repo, 2, creatorB, nil)
	require.NoError(t, repo.Deactivate(ctx, 2))

	byCreator, err := repo.ListByCreator(ctx, creatorA)
	require.NoError(t, err)
	require.Len(t, byCreator, 1)
	require.EqualValues(t, 1, byCreator[0].ID)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.EqualValues(t, 1, active[0].ID)

	assigned, err := repo.ListByAuditor(ctx, auditor)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	require.EqualValues(t, 1, assigned[0].ID)

	assigned, err = repo.ListByAuditor(ctx, uuid.New())
	require.NoError(t, err)
	require.Empty(t, assigned)
}

func TestCreditRepository_RelistIsSticky(t *testing.T) {
	db := newTestDB(t)
	createCreditTables(t, db)
	repo := NewCreditRepository(db)
	ctx := context.Background()

	seedCredit(t, repo, 7, uuid.New(), nil)
	require.NoError(t, repo.Deactivate(ctx, 7))

	require.NoError(t, repo.Relist(ctx, 7, 20))
	got, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)
	require.True(t, got.IsActive)
	require.Equal(t, 20.0, got.Price)
	require.Equal(t, entities.ReqStatusResaleListed, got.ReqStatus)

	// relisting again leaves the status at the resale code
	require.NoError(t, repo.Relist(ctx, 7, 25))
	got, err = repo.GetByID(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, entities.ReqStatusResaleListed, got.ReqStatus)
	require.Equal(t, 25.0, got.Price)
}

func TestCreditRepository_MarkExpired(t *testing.T) {
	db := newTestDB(t)
	createCreditTables(t, db)
	repo := NewCreditRepository(db)
	ctx := context.Background()

	seedCredit(t, repo, 9, uuid.New(), nil)
	require.NoError(t, repo.MarkExpired(ctx, 9))

	got, err := repo.GetByID(ctx, 9)
	require.NoError(t, err)
	require.True(t, got.IsExpired)
	require.False(t, got.IsActive)

	require.ErrorIs(t, repo.MarkExpired(ctx, 404), domainerrors.ErrNotFound)
	require.ErrorIs(t, repo.Deactivate(ctx, 404), domainerrors.ErrNotFound)
	require.ErrorIs(t, repo.Relist(ctx, 404, 1), domainerrors.ErrNotFound)
}
