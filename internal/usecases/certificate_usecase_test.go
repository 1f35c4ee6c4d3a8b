package usecases_test

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"carbon-market.backend/internal/domain/entities"
	domainerrors "carbon-market.backend/internal/domain/errors"
	"carbon-market.backend/internal/usecases"
)

type certMocks struct {
	creditRepo    *MockCreditRepository
	purchasedRepo *MockPurchasedCreditRepository
	txnRepo       *MockTransactionRepository
	userRepo      *MockUserRepository
}

func newCertificateUsecase() (*usecases.CertificateUsecase, *certMocks) {
	m := &certMocks{
		creditRepo:    new(MockCreditRepository),
		purchasedRepo: new(MockPurchasedCreditRepository),
		txnRepo:       new(MockTransactionRepository),
		userRepo:      new(MockUserRepository),
	}
	return usecases.NewCertificateUsecase(m.creditRepo, m.purchasedRepo, m.txnRepo, m.userRepo), m
}

func seedExpiredPurchase(m *certMocks, holder uuid.UUID, purchaseID uuid.UUID) {
	m.purchasedRepo.On("GetByCreditAndHolder", mock.Anything, int64(5), holder).Return(&entities.PurchasedCredit{
		ID: purchaseID, UserID: holder, CreditID: 5, Amount: 500, IsExpired: true,
	}, nil)
	m.creditRepo.On("GetByID", mock.Anything, int64(5)).Return(&entities.Credit{
		ID: 5, Name: "Mangrove Restoration", Amount: 500, IsExpired: true,
	}, nil)
	m.userRepo.On("GetByID", mock.Anything, holder).Return(&entities.User{
		ID: holder, Username: "buyer1", Email: "buyer1@example.com",
	}, nil)
	m.txnRepo.On("LatestByCreditID", mock.Anything, int64(5)).Return(&entities.Transaction{
		BuyerID: holder, CreditID: 5, Amount: 500, TotalPrice: 12.5,
		TxnHash: "0xabc", Timestamp: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}, nil)
}

func TestCertificateUsecase_Generate(t *testing.T) {
	uc, m := newCertificateUsecase()
	holder := uuid.New()
	purchaseID := uuid.New()
	seedExpiredPurchase(m, holder, purchaseID)

	cert, err := uc.Generate(context.Background(), holder, 5)
	require.NoError(t, err)
	assert.Equal(t, purchaseID, cert.CertificateID)
	assert.Equal(t, "buyer1", cert.HolderUsername)
	assert.Equal(t, 12.5, cert.TotalPrice)
	assert.Equal(t, "0xabc", cert.TxnHash)
	assert.Contains(t, cert.CertificateHTML, "buyer1")
	assert.Contains(t, cert.CertificateHTML, "Mangrove Restoration")
}

func TestCertificateUsecase_GenerateNotExpired(t *testing.T) {
	uc, m := newCertificateUsecase()
	holder := uuid.New()

	m.purchasedRepo.On("GetByCreditAndHolder", mock.Anything, int64(5), holder).Return(&entities.PurchasedCredit{
		ID: uuid.New(), UserID: holder, CreditID: 5, IsExpired: false,
	}, nil)

	_, err := uc.Generate(context.Background(), holder, 5)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound, "a held but unexpired credit yields no certificate")
}

func TestCertificateUsecase_GenerateNotHolder(t *testing.T) {
	uc, m := newCertificateUsecase()

	m.purchasedRepo.On("GetByCreditAndHolder", mock.Anything, int64(5), mock.Anything).Return(nil, domainerrors.ErrNotFound)

	_, err := uc.Generate(context.Background(), uuid.New(), 5)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestCertificateUsecase_Download(t *testing.T) {
	uc, m := newCertificateUsecase()
	holder := uuid.New()
	purchaseID := uuid.New()
	seedExpiredPurchase(m, holder, purchaseID)

	dl, err := uc.Download(context.Background(), holder, 5)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Carbon_Credit_Certificate_%s.pdf", purchaseID), dl.Filename)
	assert.True(t, strings.HasPrefix(dl.Filename, "Carbon_Credit_Certificate_"))

	raw, err := base64.StdEncoding.DecodeString(dl.PDFBase64)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(raw[:4]))
}
