package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"carbon-market.backend/internal/domain/entities"
	domainerrors "carbon-market.backend/internal/domain/errors"
	"carbon-market.backend/internal/domain/repositories"
	"carbon-market.backend/pkg/logger"
	"carbon-market.backend/pkg/redis"
)

// purchasedCacheKey returns the per-holder purchased-listing cache key
func purchasedCacheKey(username string) string {
	return "purchased:" + username
}

// MarketUsecase handles the buyer-facing marketplace: listings, purchase,
// resale and delisting.
type MarketUsecase struct {
	creditRepo    repositories.CreditRepository
	purchasedRepo repositories.PurchasedCreditRepository
	txnRepo       repositories.TransactionRepository
	userRepo      repositories.UserRepository
	uow           repositories.UnitOfWork
	cache         *redis.ListingCache
	purchasedTTL  time.Duration
}

// NewMarketUsecase creates a new market usecase
func NewMarketUsecase(
	creditRepo repositories.CreditRepository,
	purchasedRepo repositories.PurchasedCreditRepository,
	txnRepo repositories.TransactionRepository,
	userRepo repositories.UserRepository,
	uow repositories.UnitOfWork,
	cache *redis.ListingCache,
	purchasedTTL time.Duration,
) *MarketUsecase {
	return &MarketUsecase{
		creditRepo:    creditRepo,
		purchasedRepo: purchasedRepo,
		txnRepo:       txnRepo,
		userRepo:      userRepo,
		uow:           uow,
		cache:         cache,
		purchasedTTL:  purchasedTTL,
	}
}

// ListActive returns the credits currently for sale. The listing is served
// from the shared cache entry when present; the entry has no expiry and is
// invalidated whenever the active set changes.
func (u *MarketUsecase) ListActive(ctx context.Context) ([]entities.CreditListItem, error) {
	if payload, ok := u.cache.Get(ctx, activeListingCacheKey); ok {
		var items []entities.CreditListItem
		if err := json.Unmarshal([]byte(payload), &items); err == nil {
			return items, nil
		}
		logger.Warn(ctx, "discarding undecodable active-listing cache entry")
		u.cache.Delete(ctx, activeListingCacheKey)
	}

	credits, err := u.creditRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	creatorIDs := make([]uuid.UUID, 0, len(credits))
	for _, c := range credits {
		creatorIDs = append(creatorIDs, c.CreatorID)
	}
	names, err := u.userRepo.GetUsernames(ctx, creatorIDs)
	if err != nil {
		return nil, err
	}

	items := make([]entities.CreditListItem, len(credits))
	for i, c := range credits {
		items[i] = entities.CreditListItem{
			ID:        c.ID,
			Name:      c.Name,
			Amount:    c.Amount,
			Price:     c.Price,
			Creator:   names[c.CreatorID],
			SecureURL: c.DocuURL.String,
		}
	}

	if payload, err := json.Marshal(items); err == nil {
		u.cache.Set(ctx, activeListingCacheKey, string(payload), 0)
	}
	return items, nil
}

// Purchase transfers a credit to the buyer: the ownership row is replaced,
// a history row is appended and the credit is deactivated, all in one
// transaction. The credit row is locked for the duration so concurrent
// purchases of the same credit serialize instead of double-selling.
func (u *MarketUsecase) Purchase(ctx context.Context, buyerID uuid.UUID, input *entities.PurchaseInput) (*entities.Transaction, error) {
	buyer, err := u.userRepo.GetByID(ctx, buyerID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("buyer not found")
		}
		return nil, err
	}

	var txn *entities.Transaction
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		credit, err := u.creditRepo.GetByID(u.uow.WithLock(txCtx), input.CreditID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFound("credit not found")
			}
			return err
		}
		if credit.IsExpired {
			return domainerrors.InvalidState("credit is expired")
		}

		pc := &entities.PurchasedCredit{
			UserID:    buyer.ID,
			CreditID:  credit.ID,
			Amount:    credit.Amount,
			CreatorID: credit.CreatorID,
		}
		if err := u.purchasedRepo.Replace(txCtx, pc); err != nil {
			return err
		}

		txn = &entities.Transaction{
			BuyerID:    buyer.ID,
			CreditID:   credit.ID,
			Amount:     credit.Amount,
			TotalPrice: credit.Price,
			TxnHash:    input.TxnHash,
		}
		if err := u.txnRepo.Append(txCtx, txn); err != nil {
			return err
		}

		return u.creditRepo.Deactivate(txCtx, credit.ID)
	})
	if err != nil {
		return nil, err
	}

	// invalidate after commit so a concurrent read cannot re-fill the cache
	// with the pre-purchase listing
	u.cache.Delete(ctx, activeListingCacheKey)

	logger.Info(ctx, "credit purchased",
		zap.Int64("credit_id", input.CreditID),
		zap.String("buyer", buyer.Username))
	return txn, nil
}

// Resell relists a purchased credit at a new price. The resale status code
// is sticky once set.
func (u *MarketUsecase) Resell(ctx context.Context, holderID uuid.UUID, input *entities.ResellInput) error {
	if input.SalePrice == nil || *input.SalePrice < 0 {
		return domainerrors.BadRequest("salePrice must be non-negative")
	}
	if err := u.requireHolder(ctx, input.CreditID, holderID); err != nil {
		return err
	}

	if err := u.creditRepo.Relist(ctx, input.CreditID, *input.SalePrice); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound("credit not found")
		}
		return err
	}
	u.cache.Delete(ctx, activeListingCacheKey)
	return nil
}

// Delist removes a relisted credit from sale without a transfer
func (u *MarketUsecase) Delist(ctx context.Context, holderID uuid.UUID, input *entities.DelistInput) error {
	if err := u.requireHolder(ctx, input.CreditID, holderID); err != nil {
		return err
	}

	if err := u.creditRepo.Deactivate(ctx, input.CreditID); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound("credit not found")
		}
		return err
	}
	u.cache.Delete(ctx, activeListingCacheKey)
	return nil
}

func (u *MarketUsecase) requireHolder(ctx context.Context, creditID int64, holderID uuid.UUID) error {
	_, err := u.purchasedRepo.GetByCreditAndHolder(ctx, creditID, holderID)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.Forbidden("credit is not held by this account")
	}
	return err
}

// ListPurchased returns the holder's purchased credits joined with the live
// credit flags and issuer summary. The per-user cache entry is short-lived
// and never explicitly invalidated; staleness is bounded by its TTL.
func (u *MarketUsecase) ListPurchased(ctx context.Context, holderID uuid.UUID, username string) ([]entities.PurchasedCreditItem, error) {
	key := purchasedCacheKey(username)
	if payload, ok := u.cache.Get(ctx, key); ok {
		var items []entities.PurchasedCreditItem
		if err := json.Unmarshal([]byte(payload), &items); err == nil {
			return items, nil
		}
	}

	holdings, err := u.purchasedRepo.ListByHolder(ctx, holderID)
	if err != nil {
		return nil, err
	}

	items := make([]entities.PurchasedCreditItem, 0, len(holdings))
	for _, pc := range holdings {
		credit, err := u.creditRepo.GetByID(ctx, pc.CreditID)
		if err != nil {
			return nil, err
		}
		creator, err := u.userRepo.GetByID(ctx, pc.CreatorID)
		if err != nil {
			return nil, err
		}
		items = append(items, entities.PurchasedCreditItem{
			ID:        credit.ID,
			Name:      credit.Name,
			Amount:    pc.Amount,
			Price:     credit.Price,
			IsActive:  credit.IsActive,
			IsExpired: pc.IsExpired,
			Creator: &entities.CreatorRef{
				ID:       creator.ID,
				Username: creator.Username,
				Email:    creator.Email,
			},
		})
	}

	if payload, err := json.Marshal(items); err == nil {
		u.cache.Set(ctx, key, string(payload), u.purchasedTTL)
	}
	return items, nil
}

// ListTransactions returns the full purchase history, most recent first
func (u *MarketUsecase) ListTransactions(ctx context.Context) ([]*entities.Transaction, error) {
	return u.txnRepo.ListAll(ctx)
}
