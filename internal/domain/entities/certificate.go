package entities

import (
	"time"

	"github.com/google/uuid"
)

// Certificate is the retirement document derived from an expired purchase.
// It is assembled on demand and never persisted.
type Certificate struct {
	CertificateID   uuid.UUID `json:"certificate_id"`
	HolderUsername  string    `json:"holder_username"`
	HolderEmail     string    `json:"holder_email"`
	CreditID        int64     `json:"credit_id"`
	CreditName      string    `json:"credit_name"`
	Amount          int64     `json:"amount"`
	TotalPrice      float64   `json:"total_price"`
	TxnHash         string    `json:"txn_hash"`
	PurchasedAt     time.Time `json:"purchased_at"`
	IssuedAt        time.Time `json:"issued_at"`
	CertificateHTML string    `json:"certificate_html"`
}

// CertificateDownload is the rendered PDF variant of a certificate
type CertificateDownload struct {
	Filename  string `json:"filename"`
	PDFBase64 string `json:"pdf_base64"`
}
