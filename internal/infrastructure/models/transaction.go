package models

import (
	"time"

	"github.com/google/uuid"
)

type Transaction struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BuyerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CreditID   int64     `gorm:"not null;index"`
	Amount     int64     `gorm:"not null"`
	TotalPrice float64   `gorm:"type:decimal(18,2);not null"`
	TxnHash    string    `gorm:"type:varchar(128);not null"`
	Timestamp  time.Time `gorm:"not null;index"`
}
