// Package pdf renders retirement certificates as downloadable PDF documents.
package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/go-pdf/fpdf"

	"carbon-market.backend/internal/domain/entities"
)

// RenderCertificate lays out a single-page A4 certificate and returns the
// raw PDF bytes.
func RenderCertificate(cert *entities.Certificate) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Carbon Credit Retirement Certificate", false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 22)
	doc.CellFormat(0, 18, "Certificate of Carbon Credit Retirement", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 8, fmt.Sprintf("Certificate ID: %s", cert.CertificateID), "", 1, "C", false, 0, "")
	doc.Ln(6)

	doc.SetFont("Helvetica", "", 12)
	doc.MultiCell(0, 7, fmt.Sprintf(
		"This certifies that %s has permanently retired the carbon credit described below. "+
			"The retired credit can no longer be traded or transferred.", cert.HolderUsername),
		"", "C", false)
	doc.Ln(8)

	rows := [][2]string{
		{"Holder", cert.HolderUsername},
		{"Holder Email", cert.HolderEmail},
		{"Credit ID", fmt.Sprintf("%d", cert.CreditID)},
		{"Credit Name", cert.CreditName},
		{"Amount (tCO2e)", fmt.Sprintf("%d", cert.Amount)},
		{"Purchase Price", fmt.Sprintf("%.2f", cert.TotalPrice)},
		{"Transaction Hash", cert.TxnHash},
		{"Purchased At", cert.PurchasedAt.Format("02 Jan 2006 15:04 MST")},
		{"Issued At", cert.IssuedAt.Format("02 Jan 2006 15:04 MST")},
	}
	doc.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		doc.SetFont("Helvetica", "B", 11)
		doc.CellFormat(55, 8, row[0], "1", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 11)
		doc.CellFormat(0, 8, row[1], "1", 1, "L", false, 0, "")
	}

	doc.Ln(12)
	doc.SetFont("Helvetica", "I", 9)
	doc.CellFormat(0, 6, "Generated by the carbon credit marketplace. Verify against the on-chain transaction hash above.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render certificate pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderCertificateBase64 renders the certificate and encodes it for
// embedding in a JSON download payload.
func RenderCertificateBase64(cert *entities.Certificate) (string, error) {
	raw, err := RenderCertificate(cert)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
