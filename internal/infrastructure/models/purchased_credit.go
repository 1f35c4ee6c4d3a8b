package models

import (
	"time"

	"github.com/google/uuid"
)

type PurchasedCredit struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CreditID  int64     `gorm:"not null;uniqueIndex"`
	Amount    int64     `gorm:"not null"`
	CreatorID uuid.UUID `gorm:"type:uuid;not null"`
	IsExpired bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
