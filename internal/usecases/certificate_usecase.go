package usecases

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"

	"carbon-market.backend/internal/domain/entities"
	domainerrors "carbon-market.backend/internal/domain/errors"
	"carbon-market.backend/internal/domain/repositories"
	"carbon-market.backend/pkg/pdf"
)

var certificateTmpl = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html>
<head><title>Carbon Credit Retirement Certificate</title></head>
<body>
  <h1>Certificate of Carbon Credit Retirement</h1>
  <p>Certificate ID: {{.CertificateID}}</p>
  <p>This certifies that <strong>{{.HolderUsername}}</strong> has permanently retired
  <strong>{{.Amount}}</strong> tCO2e under credit <strong>{{.CreditName}}</strong> (#{{.CreditID}}).</p>
  <table>
    <tr><td>Purchase price</td><td>{{printf "%.2f" .TotalPrice}}</td></tr>
    <tr><td>Transaction hash</td><td>{{.TxnHash}}</td></tr>
    <tr><td>Purchased at</td><td>{{.PurchasedAt.Format "02 Jan 2006 15:04 MST"}}</td></tr>
    <tr><td>Issued at</td><td>{{.IssuedAt.Format "02 Jan 2006 15:04 MST"}}</td></tr>
  </table>
</body>
</html>`))

// CertificateUsecase assembles retirement certificates from the ledgers.
// Certificates are derived on demand and never persisted.
type CertificateUsecase struct {
	creditRepo    repositories.CreditRepository
	purchasedRepo repositories.PurchasedCreditRepository
	txnRepo       repositories.TransactionRepository
	userRepo      repositories.UserRepository
}

// NewCertificateUsecase creates a new certificate usecase
func NewCertificateUsecase(
	creditRepo repositories.CreditRepository,
	purchasedRepo repositories.PurchasedCreditRepository,
	txnRepo repositories.TransactionRepository,
	userRepo repositories.UserRepository,
) *CertificateUsecase {
	return &CertificateUsecase{
		creditRepo:    creditRepo,
		purchasedRepo: purchasedRepo,
		txnRepo:       txnRepo,
		userRepo:      userRepo,
	}
}

// Generate builds the certificate for the holder's expired purchase. A credit
// that is held but not yet expired yields NotFound, not a state error.
func (u *CertificateUsecase) Generate(ctx context.Context, holderID uuid.UUID, creditID int64) (*entities.Certificate, error) {
	pc, err := u.purchasedRepo.GetByCreditAndHolder(ctx, creditID, holderID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("no certificate available for this credit")
		}
		return nil, err
	}
	if !pc.IsExpired {
		return nil, domainerrors.NotFound("no certificate available for this credit")
	}

	credit, err := u.creditRepo.GetByID(ctx, creditID)
	if err != nil {
		return nil, err
	}
	holder, err := u.userRepo.GetByID(ctx, holderID)
	if err != nil {
		return nil, err
	}
	txn, err := u.txnRepo.LatestByCreditID(ctx, creditID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("no certificate available for this credit")
		}
		return nil, err
	}

	cert := &entities.Certificate{
		CertificateID:  pc.ID,
		HolderUsername: holder.Username,
		HolderEmail:    holder.Email,
		CreditID:       credit.ID,
		CreditName:     credit.Name,
		Amount:         pc.Amount,
		TotalPrice:     txn.TotalPrice,
		TxnHash:        txn.TxnHash,
		PurchasedAt:    txn.Timestamp,
		IssuedAt:       time.Now().UTC(),
	}

	var buf bytes.Buffer
	if err := certificateTmpl.Execute(&buf, cert); err != nil {
		return nil, fmt.Errorf("failed to render certificate html: %w", err)
	}
	cert.CertificateHTML = buf.String()
	return cert, nil
}

// Download renders the certificate as a base64 PDF suitable for a JSON
// download payload.
func (u *CertificateUsecase) Download(ctx context.Context, holderID uuid.UUID, creditID int64) (*entities.CertificateDownload, error) {
	cert, err := u.Generate(ctx, holderID, creditID)
	if err != nil {
		return nil, err
	}

	encoded, err := pdf.RenderCertificateBase64(cert)
	if err != nil {
		return nil, err
	}
	return &entities.CertificateDownload{
		Filename:  fmt.Sprintf("Carbon_Credit_Certificate_%s.pdf", cert.CertificateID),
		PDFBase64: encoded,
	}, nil
}
