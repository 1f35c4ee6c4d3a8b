package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Request status codes stored on the credit row. The values are part of the
// wire format consumed by the frontend and the audit workflow.
const (
	ReqStatusPendingAudit = 1
	ReqStatusResaleListed = 3
)

// CreditState is the lifecycle state derived from the stored flags.
type CreditState string

const (
	CreditStateListed       CreditState = "LISTED"
	CreditStatePurchased    CreditState = "PURCHASED"
	CreditStateResaleListed CreditState = "RESALE_LISTED"
	CreditStateDelisted     CreditState = "DELISTED"
	CreditStateExpired      CreditState = "EXPIRED"
)

// Credit represents a tokenized batch of carbon-offset units. The ID is the
// on-chain token id supplied at creation, not server-generated.
type Credit struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Amount    int64       `json:"amount"`
	Price     float64     `json:"price"`
	IsActive  bool        `json:"is_active"`
	IsExpired bool        `json:"is_expired"`
	CreatorID uuid.UUID   `json:"creator_id"`
	DocuURL   null.String `json:"secure_url,omitempty"`
	ReqStatus int         `json:"req_status"`
	Auditors  []uuid.UUID `json:"-"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// State derives the lifecycle state from the composite flags. Expiry wins
// over everything else; an inactive, unexpired credit is either purchased or
// delisted, which the flags alone cannot distinguish, so the ledger decides.
func (c *Credit) State(hasHolder bool) CreditState {
	switch {
	case c.IsExpired:
		return CreditStateExpired
	case c.IsActive && c.ReqStatus == ReqStatusResaleListed:
		return CreditStateResaleListed
	case c.IsActive:
		return CreditStateListed
	case hasHolder:
		return CreditStatePurchased
	default:
		return CreditStateDelisted
	}
}

// CanExpire reports whether the terminal transition is legal: the credit must
// have been sold at least once and not already be expired.
func (c *Credit) CanExpire(hasHolder bool) bool {
	return hasHolder && !c.IsExpired
}

// CreateCreditInput represents input for creating a credit. The creditId is
// the on-chain token id minted by the issuance contract.
type CreateCreditInput struct {
	CreditID  int64   `json:"creditId" binding:"required"`
	Name      string  `json:"name" binding:"required,max=100"`
	Amount    int64   `json:"amount" binding:"min=0"`
	Price     float64 `json:"price" binding:"required,min=0"`
	SecureURL string  `json:"secure_url"`
}

// ResellInput represents input for relisting a purchased credit
type ResellInput struct {
	CreditID  int64    `json:"credit_id" binding:"required"`
	SalePrice *float64 `json:"salePrice" binding:"required"`
}

// DelistInput represents input for removing a credit from sale
type DelistInput struct {
	CreditID int64 `json:"credit_id" binding:"required"`
}

// PurchaseInput represents input for purchasing a credit
type PurchaseInput struct {
	CreditID int64  `json:"credit_id" binding:"required"`
	TxnHash  string `json:"txn_hash" binding:"required"`
}

// CreditListItem is the buyer-facing listing row
type CreditListItem struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Amount    int64   `json:"amount"`
	Price     float64 `json:"price"`
	Creator   string  `json:"creator"`
	SecureURL string  `json:"secure_url"`
}

// AuditorRef pairs an auditor id with its username for credit detail views
type AuditorRef struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// CreditDetail is the buyer-facing detail view including auditor usernames
type CreditDetail struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Amount      int64        `json:"amount"`
	Price       float64      `json:"price"`
	IsActive    bool         `json:"is_active"`
	IsExpired   bool         `json:"is_expired"`
	CreatorID   uuid.UUID    `json:"creator_id"`
	CreatorName string       `json:"creator_name"`
	DocuURL     string       `json:"docu_url"`
	Auditors    []AuditorRef `json:"auditors"`
	ReqStatus   int          `json:"req_status"`
}
