package usecases_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"carbon-market.backend/internal/domain/entities"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

func (m *MockUnitOfWork) WithLock(ctx context.Context) context.Context {
	m.Called(ctx)
	return ctx
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) ListIDsByRole(ctx context.Context, role entities.UserRole) ([]uuid.UUID, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) GetUsernames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]string), args.Error(1)
}

// Mock CreditRepository
type MockCreditRepository struct {
	mock.Mock
}

func (m *MockCreditRepository) Create(ctx context.Context, credit *entities.Credit) error {
	args := m.Called(ctx, credit)
	return args.Error(0)
}

func (m *MockCreditRepository) GetByID(ctx context.Context, id int64) (*entities.Credit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Credit), args.Error(1)
}

func (m *MockCreditRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*entities.Credit, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Credit), args.Error(1)
}

func (m *MockCreditRepository) ListActive(ctx context.Context) ([]*entities.Credit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Credit), args.Error(1)
}

func (m *MockCreditRepository) ListByAuditor(ctx context.Context, auditorID uuid.UUID) ([]*entities.Credit, error) {
	args := m.Called(ctx, auditorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Credit), args.Error(1)
}

func (m *MockCreditRepository) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCreditRepository) Relist(ctx context.Context, id int64, price float64) error {
	args := m.Called(ctx, id, price)
	return args.Error(0)
}

func (m *MockCreditRepository) MarkExpired(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock AuditRequestRepository
type MockAuditRequestRepository struct {
	mock.Mock
}

func (m *MockAuditRequestRepository) Create(ctx context.Context, req *entities.AuditRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAuditRequestRepository) GetByCreditID(ctx context.Context, creditID int64) (*entities.AuditRequest, error) {
	args := m.Called(ctx, creditID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AuditRequest), args.Error(1)
}

// Mock PurchasedCreditRepository
type MockPurchasedCreditRepository struct {
	mock.Mock
}

func (m *MockPurchasedCreditRepository) Replace(ctx context.Context, pc *entities.PurchasedCredit) error {
	args := m.Called(ctx, pc)
	return args.Error(0)
}

func (m *MockPurchasedCreditRepository) GetByCreditID(ctx context.Context, creditID int64) (*entities.PurchasedCredit, error) {
	args := m.Called(ctx, creditID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PurchasedCredit), args.Error(1)
}

func (m *MockPurchasedCreditRepository) GetByCreditAndHolder(ctx context.Context, creditID int64, userID uuid.UUID) (*entities.PurchasedCredit, error) {
	args := m.Called(ctx, creditID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PurchasedCredit), args.Error(1)
}

func (m *MockPurchasedCreditRepository) ListByHolder(ctx context.Context, userID uuid.UUID) ([]*entities.PurchasedCredit, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PurchasedCredit), args.Error(1)
}

func (m *MockPurchasedCreditRepository) MarkExpired(ctx context.Context, creditID int64) error {
	args := m.Called(ctx, creditID)
	return args.Error(0)
}

// Mock TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Append(ctx context.Context, txn *entities.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListAll(ctx context.Context) ([]*entities.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) LatestByCreditID(ctx context.Context, creditID int64) (*entities.Transaction, error) {
	args := m.Called(ctx, creditID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

// Mock captcha verifier
type MockCaptchaVerifier struct {
	mock.Mock
}

func (m *MockCaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	args := m.Called(ctx, token, remoteIP)
	return args.Error(0)
}
