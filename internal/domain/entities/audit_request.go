package entities

import (
	"time"

	"github.com/google/uuid"
)

// AuditRequest is the audit workflow record written alongside a credit.
// The credit keeps its immutable assignment (who was drawn at creation);
// this row is the mutable side of the workflow where auditors accumulate a
// verification score.
type AuditRequest struct {
	ID        uuid.UUID   `json:"id"`
	CreditID  int64       `json:"credit_id"`
	CreatorID uuid.UUID   `json:"creator_id"`
	Auditors  []uuid.UUID `json:"auditors"`
	Score     int         `json:"score"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
