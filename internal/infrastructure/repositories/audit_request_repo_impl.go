package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carbon-market.backend/internal/domain/entities"
	domainerrors "carbon-market.backend/internal/domain/errors"
	"carbon-market.backend/internal/infrastructure/models"
)

// AuditRequestRepository implements audit workflow data operations
type AuditRequestRepository struct {
	db *gorm.DB
}

// NewAuditRequestRepository creates a new audit request repository
func NewAuditRequestRepository(db *gorm.DB) *AuditRequestRepository {
	return &AuditRequestRepository{db: db}
}

// Create persists an audit request
func (r *AuditRequestRepository) Create(ctx context.Context, req *entities.AuditRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}

	auditorsJSON, err := json.Marshal(req.Auditors)
	if err != nil {
		return err
	}

	m := &models.AuditRequest{
		ID:        req.ID,
		CreditID:  req.CreditID,
		CreatorID: req.CreatorID,
		Auditors:  string(auditorsJSON),
		Score:     req.Score,
	}

	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	req.CreatedAt = m.CreatedAt
	req.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByCreditID loads the audit request for a credit
func (r *AuditRequestRepository) GetByCreditID(ctx context.Context, creditID int64) (*entities.AuditRequest, error) {
	var m models.AuditRequest
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("credit_id = ?", creditID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}

	var auditors []uuid.UUID
	if err := json.Unmarshal([]byte(m.Auditors), &auditors); err != nil {
		return nil, err
	}

	return &entities.AuditRequest{
		ID:        m.ID,
		CreditID:  m.CreditID,
		CreatorID: m.CreatorID,
		Auditors:  auditors,
		Score:     m.Score,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}
