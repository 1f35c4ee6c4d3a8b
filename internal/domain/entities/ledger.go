package entities

import (
	"time"

	"github.com/google/uuid"
)

// PurchasedCredit is the ownership ledger: the current holder of a credit.
// At most one row exists per credit; a purchase replaces the previous
// holder's row. Amount and creator are snapshots taken at purchase time.
type PurchasedCredit struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreditID  int64     `json:"credit_id"`
	Amount    int64     `json:"amount"`
	CreatorID uuid.UUID `json:"creator_id"`
	IsExpired bool      `json:"is_expired"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Transaction is one row of the append-only purchase history. Rows are never
// mutated or deleted; the txn hash is an opaque external chain reference.
type Transaction struct {
	ID         uuid.UUID `json:"id"`
	BuyerID    uuid.UUID `json:"buyer"`
	CreditID   int64     `json:"credit"`
	Amount     int64     `json:"amount"`
	TotalPrice float64   `json:"total_price"`
	TxnHash    string    `json:"txn_hash"`
	Timestamp  time.Time `json:"timestamp"`
}

// CreatorRef is the issuer summary embedded in purchased-credit listings
type CreatorRef struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// PurchasedCreditItem is the buyer-facing purchased listing row: the holder's
// snapshot amount joined with the live credit flags and issuer summary.
type PurchasedCreditItem struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Amount    int64       `json:"amount"`
	Price     float64     `json:"price"`
	IsActive  bool        `json:"is_active"`
	IsExpired bool        `json:"is_expired"`
	Creator   *CreatorRef `json:"creator"`
}
