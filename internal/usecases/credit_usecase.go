package usecases

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"carbon-market.backend/internal/domain/entities"
	domainerrors "carbon-market.backend/internal/domain/errors"
	"carbon-market.backend/internal/domain/repositories"
	"carbon-market.backend/internal/infrastructure/queue"
	"carbon-market.backend/pkg/logger"
	"carbon-market.backend/pkg/redis"
)

// activeListingCacheKey caches the buyer-facing active listing. It is
// invalidated on every mutation that changes the active set.
const activeListingCacheKey = "buyer_credits"

// NumberOfAuditors returns the required panel size for a credit of the given
// amount. Every 500 units add two auditors on top of the base panel of three.
func NumberOfAuditors(amount int64) int {
	return int(amount/500)*2 + 3
}

// CreditUsecase handles credit issuance, audit assignment and expiry
type CreditUsecase struct {
	creditRepo    repositories.CreditRepository
	auditReqRepo  repositories.AuditRequestRepository
	userRepo      repositories.UserRepository
	purchasedRepo repositories.PurchasedCreditRepository
	uow           repositories.UnitOfWork
	publisher     *queue.Publisher
	cache         *redis.ListingCache
}

// NewCreditUsecase creates a new credit usecase
func NewCreditUsecase(
	creditRepo repositories.CreditRepository,
	auditReqRepo repositories.AuditRequestRepository,
	userRepo repositories.UserRepository,
	purchasedRepo repositories.PurchasedCreditRepository,
	uow repositories.UnitOfWork,
	publisher *queue.Publisher,
	cache *redis.ListingCache,
) *CreditUsecase {
	return &CreditUsecase{
		creditRepo:    creditRepo,
		auditReqRepo:  auditReqRepo,
		userRepo:      userRepo,
		purchasedRepo: purchasedRepo,
		uow:           uow,
		publisher:     publisher,
		cache:         cache,
	}
}

// drawAuditors selects k distinct auditor ids uniformly at random without
// replacement from the pool.
func drawAuditors(pool []uuid.UUID, k int) []uuid.UUID {
	shuffled := make([]uuid.UUID, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:k]
}

// Create issues a new credit for the NGO, draws its auditor panel and opens
// the audit request in one transaction. No credit row survives a failed draw.
func (u *CreditUsecase) Create(ctx context.Context, creatorID uuid.UUID, input *entities.CreateCreditInput) (*entities.Credit, error) {
	if _, err := u.creditRepo.GetByID(ctx, input.CreditID); err == nil {
		return nil, domainerrors.NewAppError(http.StatusConflict, "credit id already exists", domainerrors.ErrAlreadyExists)
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	pool, err := u.userRepo.ListIDsByRole(ctx, entities.UserRoleAuditor)
	if err != nil {
		return nil, err
	}
	k := NumberOfAuditors(input.Amount)
	if len(pool) < k {
		return nil, domainerrors.InsufficientAuditors(
			fmt.Sprintf("credit of amount %d requires %d auditors, only %d registered", input.Amount, k, len(pool)))
	}

	credit := &entities.Credit{
		ID:        input.CreditID,
		Name:      input.Name,
		Amount:    input.Amount,
		Price:     input.Price,
		IsActive:  true,
		CreatorID: creatorID,
		ReqStatus: entities.ReqStatusPendingAudit,
		Auditors:  drawAuditors(pool, k),
	}
	if input.SecureURL != "" {
		credit.DocuURL = null.StringFrom(input.SecureURL)
	}

	auditReq := &entities.AuditRequest{
		CreditID:  credit.ID,
		CreatorID: creatorID,
		Auditors:  credit.Auditors,
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.creditRepo.Create(txCtx, credit); err != nil {
			return err
		}
		return u.auditReqRepo.Create(txCtx, auditReq)
	})
	if err != nil {
		return nil, err
	}

	// downstream notification is best effort, the credit is already committed
	if u.publisher != nil {
		if err := u.publisher.PublishAuditAssigned(ctx, auditReq, credit.Name); err != nil {
			logger.Warn(ctx, "audit assignment event not published", zap.Int64("credit_id", credit.ID), zap.Error(err))
		}
	}
	u.cache.Delete(ctx, activeListingCacheKey)

	return credit, nil
}

// ListByCreator returns all credits issued by the NGO
func (u *CreditUsecase) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*entities.Credit, error) {
	return u.creditRepo.ListByCreator(ctx, creatorID)
}

// ListByAuditor returns the credits whose audit panel includes the auditor
func (u *CreditUsecase) ListByAuditor(ctx context.Context, auditorID uuid.UUID) ([]*entities.Credit, error) {
	return u.creditRepo.ListByAuditor(ctx, auditorID)
}

// GetDetail returns the buyer-facing detail view including auditor usernames
func (u *CreditUsecase) GetDetail(ctx context.Context, id int64) (*entities.CreditDetail, error) {
	credit, err := u.creditRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("credit not found")
		}
		return nil, err
	}

	names, err := u.userRepo.GetUsernames(ctx, append([]uuid.UUID{credit.CreatorID}, credit.Auditors...))
	if err != nil {
		return nil, err
	}

	auditors := make([]entities.AuditorRef, len(credit.Auditors))
	for i, aid := range credit.Auditors {
		auditors[i] = entities.AuditorRef{ID: aid, Username: names[aid]}
	}

	return &entities.CreditDetail{
		ID:          credit.ID,
		Name:        credit.Name,
		Amount:      credit.Amount,
		Price:       credit.Price,
		IsActive:    credit.IsActive,
		IsExpired:   credit.IsExpired,
		CreatorID:   credit.CreatorID,
		CreatorName: names[credit.CreatorID],
		DocuURL:     credit.DocuURL.String,
		Auditors:    auditors,
		ReqStatus:   credit.ReqStatus,
	}, nil
}

// Expire moves a sold credit into its terminal state. Only the original
// creator may expire, and only after at least one sale.
func (u *CreditUsecase) Expire(ctx context.Context, creatorID uuid.UUID, creditID int64) error {
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		credit, err := u.creditRepo.GetByID(u.uow.WithLock(txCtx), creditID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFound("credit not found")
			}
			return err
		}
		if credit.CreatorID != creatorID {
			return domainerrors.Forbidden("only the creator can expire this credit")
		}

		_, err = u.purchasedRepo.GetByCreditID(txCtx, creditID)
		hasHolder := err == nil
		if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
			return err
		}
		if !credit.CanExpire(hasHolder) {
			if credit.IsExpired {
				return domainerrors.InvalidState("credit already expired")
			}
			return domainerrors.InvalidState("credit has not been sold")
		}

		if err := u.creditRepo.MarkExpired(txCtx, creditID); err != nil {
			return err
		}
		return u.purchasedRepo.MarkExpired(txCtx, creditID)
	})
	if err != nil {
		return err
	}

	u.cache.Delete(ctx, activeListingCacheKey)
	return nil
}
