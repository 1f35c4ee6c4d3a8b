package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"carbon-market.backend/internal/config"
	"carbon-market.backend/internal/infrastructure/captcha"
	"carbon-market.backend/internal/infrastructure/queue"
	"carbon-market.backend/internal/infrastructure/repositories"
	"carbon-market.backend/internal/interfaces/http/handlers"
	"carbon-market.backend/internal/interfaces/http/middleware"
	"carbon-market.backend/internal/usecases"
	"carbon-market.backend/pkg/jwt"
	"carbon-market.backend/pkg/logger"
	"carbon-market.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Redis is optional: without it the listing cache degrades to always-miss
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Warn(context.Background(), "Redis unavailable, listing cache disabled", zap.Error(err))
	} else {
		logger.Info(context.Background(), "Redis initialized")
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry)

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	creditRepo := repositories.NewCreditRepository(db)
	auditReqRepo := repositories.NewAuditRequestRepository(db)
	purchasedRepo := repositories.NewPurchasedCreditRepository(db)
	txnRepo := repositories.NewTransactionRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Infrastructure collaborators
	listingCache := redis.NewListingCache(redis.GetClient())
	expiryGrants := redis.NewVerificationStore(5 * time.Minute)
	captchaVerifier := captcha.NewTurnstileVerifier(cfg.Captcha.TurnstileSecret)
	publisher := queue.NewPublisher(cfg.RabbitMQ.URL)

	// Usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, captchaVerifier, jwtService, expiryGrants)
	creditUsecase := usecases.NewCreditUsecase(creditRepo, auditReqRepo, userRepo, purchasedRepo, uow, publisher, listingCache)
	marketUsecase := usecases.NewMarketUsecase(creditRepo, purchasedRepo, txnRepo, userRepo, uow, listingCache, cfg.Cache.PurchasedTTL)
	certificateUsecase := usecases.NewCertificateUsecase(creditRepo, purchasedRepo, txnRepo, userRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	ngoHandler := handlers.NewNGOHandler(creditUsecase, marketUsecase, authUsecase)
	auditorHandler := handlers.NewAuditorHandler(creditUsecase)
	buyerHandler := handlers.NewBuyerHandler(marketUsecase, creditUsecase, certificateUsecase)
	healthHandler := handlers.NewHealthHandler(db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerAPIRoutes(r, routeDeps{
		authHandler:    authHandler,
		ngoHandler:     ngoHandler,
		auditorHandler: auditorHandler,
		buyerHandler:   buyerHandler,
		healthHandler:  healthHandler,
		authMiddleware: middleware.AuthMiddleware(jwtService),
	})

	log.Printf("🚀 Carbon Market Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health-check", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
