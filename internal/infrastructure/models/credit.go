package models

import (
	"time"

	"github.com/google/uuid"
)

type Credit struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Amount    int64     `gorm:"not null"`
	Price     float64   `gorm:"type:decimal(18,2);not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	IsExpired bool      `gorm:"not null;default:false"`
	CreatorID uuid.UUID `gorm:"type:uuid;not null;index"`
	DocuURL   *string   `gorm:"type:varchar(200)"`
	ReqStatus int       `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreditAuditor is one row of a credit's ordered auditor assignment,
// fixed at creation time.
type CreditAuditor struct {
	CreditID  int64     `gorm:"primaryKey;autoIncrement:false"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position  int       `gorm:"not null"`
	CreatedAt time.Time
}

func (CreditAuditor) TableName() string {
	return "credit_auditors"
}
