package repositories

import (
	"context"

	"github.com/google/uuid"

	"carbon-market.backend/internal/domain/entities"
)

// CreditRepository defines credit lifecycle data operations
type CreditRepository interface {
	// Create persists the credit together with its ordered auditor
	// assignment in one transaction.
	Create(ctx context.Context, credit *entities.Credit) error
	GetByID(ctx context.Context, id int64) (*entities.Credit, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*entities.Credit, error)
	ListActive(ctx context.Context) ([]*entities.Credit, error)
	ListByAuditor(ctx context.Context, auditorID uuid.UUID) ([]*entities.Credit, error)
	// Deactivate flips is_active to false and reports whether the row existed.
	Deactivate(ctx context.Context, id int64) error
	// Relist sets is_active, overwrites the price and forces req_status to
	// the resale code (sticky).
	Relist(ctx context.Context, id int64, price float64) error
	// MarkExpired sets is_expired=true and is_active=false.
	MarkExpired(ctx context.Context, id int64) error
}

// AuditRequestRepository defines audit workflow data operations
type AuditRequestRepository interface {
	Create(ctx context.Context, req *entities.AuditRequest) error
	GetByCreditID(ctx context.Context, creditID int64) (*entities.AuditRequest, error)
}
