package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carbon-market.backend/internal/domain/entities"
	domainerrors "carbon-market.backend/internal/domain/errors"
	"carbon-market.backend/internal/infrastructure/models"
)

// PurchasedCreditRepository implements the ownership ledger
type PurchasedCreditRepository struct {
	db *gorm.DB
}

// NewPurchasedCreditRepository creates a new ownership ledger repository
func NewPurchasedCreditRepository(db *gorm.DB) *PurchasedCreditRepository {
	return &PurchasedCreditRepository{db: db}
}

// Replace discards any previous holder row for the credit and inserts pc.
// Purchase transfer semantics: the ownership ledger keeps exactly one row
// per credit.
func (r *PurchasedCreditRepository) Replace(ctx context.Context, pc *entities.PurchasedCredit) error {
	db := GetDB(ctx, r.db).WithContext(ctx)

	if err := db.Where("credit_id = ?", pc.CreditID).Delete(&models.PurchasedCredit{}).Error; err != nil {
		return err
	}

	if pc.ID == uuid.Nil {
		pc.ID = uuid.New()
	}
	m := &models.PurchasedCredit{
		ID:        pc.ID,
		UserID:    pc.UserID,
		CreditID:  pc.CreditID,
		Amount:    pc.Amount,
		CreatorID: pc.CreatorID,
		IsExpired: pc.IsExpired,
	}
	if err := db.Create(m).Error; err != nil {
		return err
	}
	pc.CreatedAt = m.CreatedAt
	pc.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByCreditID returns the current holder row for a credit
func (r *PurchasedCreditRepository) GetByCreditID(ctx context.Context, creditID int64) (*entities.PurchasedCredit, error) {
	var m models.PurchasedCredit
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("credit_id = ?", creditID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toPurchasedCreditEntity(&m), nil
}

// GetByCreditAndHolder returns the holder row only if userID holds the credit
func (r *PurchasedCreditRepository) GetByCreditAndHolder(ctx context.Context, creditID int64, userID uuid.UUID) (*entities.PurchasedCredit, error) {
	var m models.PurchasedCredit
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("credit_id = ? AND user_id = ?", creditID, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toPurchasedCreditEntity(&m), nil
}

// ListByHolder lists every credit currently held by userID
func (r *PurchasedCreditRepository) ListByHolder(ctx context.Context, userID uuid.UUID) ([]*entities.PurchasedCredit, error) {
	var rows []models.PurchasedCredit
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]*entities.PurchasedCredit, 0, len(rows))
	for i := range rows {
		items = append(items, toPurchasedCreditEntity(&rows[i]))
	}
	return items, nil
}

// MarkExpired flags the holder row of an expired credit
func (r *PurchasedCreditRepository) MarkExpired(ctx context.Context, creditID int64) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.PurchasedCredit{}).
		Where("credit_id = ?", creditID).
		Updates(map[string]interface{}{
			"is_expired": true,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func toPurchasedCreditEntity(m *models.PurchasedCredit) *entities.PurchasedCredit {
	return &entities.PurchasedCredit{
		ID:        m.ID,
		UserID:    m.UserID,
		CreditID:  m.CreditID,
		Amount:    m.Amount,
		CreatorID: m.CreatorID,
		IsExpired: m.IsExpired,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// TransactionRepository implements the append-only purchase history
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Append writes one history row. The timestamp is server-assigned.
func (r *TransactionRepository) Append(ctx context.Context, txn *entities.Transaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	if txn.Timestamp.IsZero() {
		txn.Timestamp = time.Now()
	}

	m := &models.Transaction{
		ID:         txn.ID,
		BuyerID:    txn.BuyerID,
		CreditID:   txn.CreditID,
		Amount:     txn.Amount,
		TotalPrice: txn.TotalPrice,
		TxnHash:    txn.TxnHash,
		Timestamp:  txn.Timestamp,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// ListAll returns the full history, most recent first
func (r *TransactionRepository) ListAll(ctx context.Context) ([]*entities.Transaction, error) {
	var rows []models.Transaction
	err := GetDB(ctx, r.db).WithContext(ctx).
		Order("timestamp DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toTransactionEntities(rows), nil
}

// LatestByCreditID returns the most recent transaction for a credit
func (r *TransactionRepository) LatestByCreditID(ctx context.Context, creditID int64) (*entities.Transaction, error) {
	var m models.Transaction
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("credit_id = ?", creditID).
		Order("timestamp DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toTransactionEntity(&m), nil
}

func toTransactionEntity(m *models.Transaction) *entities.Transaction {
	return &entities.Transaction{
		ID:         m.ID,
		BuyerID:    m.BuyerID,
		CreditID:   m.CreditID,
		Amount:     m.Amount,
		TotalPrice: m.TotalPrice,
		TxnHash:    m.TxnHash,
		Timestamp:  m.Timestamp,
	}
}

func toTransactionEntities(rows []models.Transaction) []*entities.Transaction {
	txns := make([]*entities.Transaction, 0, len(rows))
	for i := range rows {
		txns = append(txns, toTransactionEntity(&rows[i]))
	}
	return txns
}
