package models

import (
	"time"

	"github.com/google/uuid"
)

type AuditRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreditID  int64     `gorm:"not null;index"`
	CreatorID uuid.UUID `gorm:"type:uuid;not null"`
	// Auditors holds the drawn auditor ids as a JSON array.
	Auditors  string `gorm:"type:text;not null"`
	Score     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
