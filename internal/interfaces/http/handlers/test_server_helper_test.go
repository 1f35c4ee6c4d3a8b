package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"carbon-market.backend/internal/domain/entities"
	infraRepos "carbon-market.backend/internal/infrastructure/repositories"
	"carbon-market.backend/internal/interfaces/http/middleware"
	"carbon-market.backend/internal/usecases"
	"carbon-market.backend/pkg/crypto"
	"carbon-market.backend/pkg/jwt"
	"carbon-market.backend/pkg/redis"
)

type testServer struct {
	router   *gin.Engine
	db       *gorm.DB
	jwtSvc   *jwt.JWTService
	userRepo *infraRepos.UserRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	createSchema(t, db)

	userRepo := infraRepos.NewUserRepository(db)
	creditRepo := infraRepos.NewCreditRepository(db)
	auditReqRepo := infraRepos.NewAuditRequestRepository(db)
	purchasedRepo := infraRepos.NewPurchasedCreditRepository(db)
	txnRepo := infraRepos.NewTransactionRepository(db)
	uow := infraRepos.NewUnitOfWork(db)

	cache := redis.NewListingCache(nil)
	jwtSvc := jwt.NewJWTService("handler-test-secret", 12*time.Hour)

	authUC := usecases.NewAuthUsecase(userRepo, nil, jwtSvc, nil)
	creditUC := usecases.NewCreditUsecase(creditRepo, auditReqRepo, userRepo, purchasedRepo, uow, nil, cache)
	marketUC := usecases.NewMarketUsecase(creditRepo, purchasedRepo, txnRepo, userRepo, uow, cache, 500*time.Millisecond)
	certUC := usecases.NewCertificateUsecase(creditRepo, purchasedRepo, txnRepo, userRepo)

	authHandler := NewAuthHandler(authUC)
	ngoHandler := NewNGOHandler(creditUC, marketUC, authUC)
	auditorHandler := NewAuditorHandler(creditUC)
	buyerHandler := NewBuyerHandler(marketUC, creditUC, certUC)
	healthHandler := NewHealthHandler(db)

	router := gin.New()
	router.GET("/health-check", healthHandler.Check)

	api := router.Group("/api")
	api.POST("/signup", authHandler.Signup)
	api.POST("/login", authHandler.Login)

	ngo := api.Group("/NGO", middleware.AuthMiddleware(jwtSvc), middleware.RequireNGO())
	ngo.GET("/credits", ngoHandler.ListCredits)
	ngo.POST("/credits", ngoHandler.CreateCredit)
	ngo.PATCH("/credits/expire/:id", ngoHandler.ExpireCredit)
	ngo.GET("/transactions", ngoHandler.ListTransactions)
	ngo.POST("/expire-req", ngoHandler.ExpireRequest)

	auditor := api.Group("/auditor", middleware.AuthMiddleware(jwtSvc), middleware.RequireAuditor())
	auditor.GET("/credits", auditorHandler.ListAssignedCredits)

	buyer := api.Group("/buyer", middleware.AuthMiddleware(jwtSvc), middleware.RequireBuyer())
	buyer.GET("/credits", buyerHandler.ListCredits)
	buyer.GET("/credits/:id", buyerHandler.CreditDetail)
	buyer.POST("/purchase", buyerHandler.Purchase)
	buyer.PATCH("/sell", buyerHandler.Sell)
	buyer.PATCH("/remove-from-sale", buyerHandler.RemoveFromSale)
	buyer.GET("/purchased", buyerHandler.ListPurchased)
	buyer.GET("/generate-certificate/:id", buyerHandler.GenerateCertificate)
	buyer.GET("/download-certificate/:id", buyerHandler.DownloadCertificate)

	return &testServer{router: router, db: db, jwtSvc: jwtSvc, userRepo: userRepo}
}

func createSchema(t *testing.T, db *gorm.DB) {
	t.Helper()
	stmts := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		);`,
		`CREATE TABLE credits (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			amount INTEGER NOT NULL,
			price REAL NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			is_expired BOOLEAN NOT NULL DEFAULT 0,
			creator_id TEXT NOT NULL,
			docu_url TEXT,
			req_status INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE credit_auditors (
			credit_id INTEGER NOT NULL,
			user_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			created_at DATETIME,
			PRIMARY KEY (credit_id, user_id)
		);`,
		`CREATE TABLE audit_requests (
			id TEXT PRIMARY KEY,
			credit_id INTEGER NOT NULL,
			creator_id TEXT NOT NULL,
			auditors TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE purchased_credits (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			credit_id INTEGER NOT NULL UNIQUE,
			amount INTEGER NOT NULL,
			creator_id TEXT NOT NULL,
			is_expired BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE transactions (
			id TEXT PRIMARY KEY,
			buyer_id TEXT NOT NULL,
			credit_id INTEGER NOT NULL,
			amount INTEGER NOT NULL,
			total_price REAL NOT NULL,
			txn_hash TEXT NOT NULL,
			timestamp DATETIME NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}
}

// createUser seeds an account directly and returns it with a valid token
func (s *testServer) createUser(t *testing.T, username, role string) (*entities.User, string) {
	t.Helper()
	hash, err := crypto.HashPassword("correct horse")
	require.NoError(t, err)

	user := &entities.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         entities.UserRole(role),
	}
	require.NoError(t, s.userRepo.Create(context.Background(), user))

	token, err := s.jwtSvc.GenerateToken(user.ID, user.Username, role)
	require.NoError(t, err)
	return user, token
}

// login issues a token for an already seeded account
func (s *testServer) login(t *testing.T, username, role string) (*entities.User, string) {
	t.Helper()
	user, err := s.userRepo.GetByUsername(context.Background(), username)
	require.NoError(t, err)
	token, err := s.jwtSvc.GenerateToken(user.ID, user.Username, role)
	require.NoError(t, err)
	return user, token
}

// createAuditors seeds n auditor accounts
func (s *testServer) createAuditors(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		s.createUser(t, fmt.Sprintf("auditor%d", i), "auditor")
	}
}

func (s *testServer) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}
