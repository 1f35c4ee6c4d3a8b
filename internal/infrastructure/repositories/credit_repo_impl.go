package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"carbon-market.backend/internal/domain/entities"
	domainerrors "carbon-market.backend/internal/domain/errors"
	"carbon-market.backend/internal/infrastructure/models"
)

// CreditRepository implements credit lifecycle data operations
type CreditRepository struct {
	db *gorm.DB
}

// NewCreditRepository creates a new credit repository
func NewCreditRepository(db *gorm.DB) *CreditRepository {
	return &CreditRepository{db: db}
}

// Create persists the credit row and its ordered auditor assignment. Callers
// wrap it in a unit of work together with the audit request row.
func (r *CreditRepository) Create(ctx context.Context, credit *entities.Credit) error {
	db := GetDB(ctx, r.db).WithContext(ctx)

	m := &models.Credit{
		ID:        credit.ID,
		Name:      credit.Name,
		Amount:    credit.Amount,
		Price:     credit.Price,
		IsActive:  credit.IsActive,
		IsExpired: credit.IsExpired,
		CreatorID: credit.CreatorID,
		ReqStatus: credit.ReqStatus,
	}
	if credit.DocuURL.Valid {
		m.DocuURL = &credit.DocuURL.String
	}

	if err := db.Create(m).Error; err != nil {
		return err
	}

	rows := make([]models.CreditAuditor, 0, len(credit.Auditors))
	for i, auditorID := range credit.Auditors {
		rows = append(rows, models.CreditAuditor{
			CreditID: credit.ID,
			UserID:   auditorID,
			Position: i,
		})
	}
	if len(rows) > 0 {
		if err := db.Create(&rows).Error; err != nil {
			return err
		}
	}

	credit.CreatedAt = m.CreatedAt
	credit.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID loads a credit with its ordered auditor assignment
func (r *CreditRepository) GetByID(ctx context.Context, id int64) (*entities.Credit, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var m models.Credit
	if err := applyLock(ctx, db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}

	var auditorRows []models.CreditAuditor
	if err := db.Where("credit_id = ?", id).Order("position ASC").Find(&auditorRows).Error; err != nil {
		return nil, err
	}

	credit := toCreditEntity(&m)
	credit.Auditors = make([]uuid.UUID, 0, len(auditorRows))
	for _, row := range auditorRows {
		credit.Auditors = append(credit.Auditors, row.UserID)
	}
	return credit, nil
}

// ListByCreator lists every credit issued by the given NGO
func (r *CreditRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*entities.Credit, error) {
	var creditModels []models.Credit
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&creditModels).Error
	if err != nil {
		return nil, err
	}
	return toCreditEntities(creditModels), nil
}

// ListActive lists every credit currently for sale
func (r *CreditRepository) ListActive(ctx context.Context) ([]*entities.Credit, error) {
	var creditModels []models.Credit
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&creditModels).Error
	if err != nil {
		return nil, err
	}
	return toCreditEntities(creditModels), nil
}

// ListByAuditor lists the credits a given auditor is assigned to
func (r *CreditRepository) ListByAuditor(ctx context.Context, auditorID uuid.UUID) ([]*entities.Credit, error) {
	var creditModels []models.Credit
	err := GetDB(ctx, r.db).WithContext(ctx).
		Joins("JOIN credit_auditors ca ON ca.credit_id = credits.id").
		Where("ca.user_id = ?", auditorID).
		Order("credits.created_at DESC").
		Find(&creditModels).Error
	if err != nil {
		return nil, err
	}
	return toCreditEntities(creditModels), nil
}

// Deactivate flips is_active to false
func (r *CreditRepository) Deactivate(ctx context.Context, id int64) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Credit{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
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

// Relist sets is_active, overwrites the price and forces the resale status.
// The status only moves forward to the resale code, repeated calls are
// idempotent.
func (r *CreditRepository) Relist(ctx context.Context, id int64, price float64) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Credit{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  true,
			"price":      price,
			"req_status": entities.ReqStatusResaleListed,
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

// MarkExpired moves the credit to its terminal state
func (r *CreditRepository) MarkExpired(ctx context.Context, id int64) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Credit{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
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

func toCreditEntity(m *models.Credit) *entities.Credit {
	c := &entities.Credit{
		ID:        m.ID,
		Name:      m.Name,
		Amount:    m.Amount,
		Price:     m.Price,
		IsActive:  m.IsActive,
		IsExpired: m.IsExpired,
		CreatorID: m.CreatorID,
		ReqStatus: m.ReqStatus,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.DocuURL != nil {
		c.DocuURL = null.StringFrom(*m.DocuURL)
	}
	return c
}

func toCreditEntities(creditModels []models.Credit) []*entities.Credit {
	credits := make([]*entities.Credit, 0, len(creditModels))
	for i := range creditModels {
		credits = append(credits, toCreditEntity(&creditModels[i]))
	}
	return credits
}
