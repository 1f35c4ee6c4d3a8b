package repositories

import (
	"context"

	"github.com/google/uuid"

	"carbon-market.backend/internal/domain/entities"
)

// PurchasedCreditRepository defines ownership-ledger operations. The ledger
// holds at most one row per credit; Replace implements the transfer
// semantics of a purchase.
type PurchasedCreditRepository interface {
	// Replace deletes any existing holder row for the credit and inserts pc.
	Replace(ctx context.Context, pc *entities.PurchasedCredit) error
	GetByCreditID(ctx context.Context, creditID int64) (*entities.PurchasedCredit, error)
	GetByCreditAndHolder(ctx context.Context, creditID int64, userID uuid.UUID) (*entities.PurchasedCredit, error)
	ListByHolder(ctx context.Context, userID uuid.UUID) ([]*entities.PurchasedCredit, error)
	MarkExpired(ctx context.Context, creditID int64) error
}

// TransactionRepository defines the append-only purchase history
type TransactionRepository interface {
	Append(ctx context.Context, txn *entities.Transaction) error
	ListAll(ctx context.Context) ([]*entities.Transaction, error)
	LatestByCreditID(ctx context.Context, creditID int64) (*entities.Transaction, error)
}
