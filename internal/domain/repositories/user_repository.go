package repositories

import (
	"context"

	"github.com/google/uuid"

	"carbon-market.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	ListIDsByRole(ctx context.Context, role entities.UserRole) ([]uuid.UUID, error)
	GetUsernames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}
