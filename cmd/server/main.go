package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hive-economy.backend/internal/config"
	"hive-economy.backend/internal/infrastructure/jobs"
	"hive-economy.backend/internal/infrastructure/repositories"
	"hive-economy.backend/internal/interfaces/http/handlers"
	"hive-economy.backend/internal/interfaces/http/middleware"
	"hive-economy.backend/internal/usecases"
	"hive-economy.backend/pkg/jwt"
	"hive-economy.backend/pkg/logger"
	"hive-economy.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
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

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
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

	// Initialize repositories
	accountRepo := repositories.NewAccountRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	walletRepo := repositories.NewWalletRepository(db)
	jackpotRepo := repositories.NewJackpotRepository(db)
	marketplaceRepo := repositories.NewMarketplaceRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize usecases
	accountUsecase := usecases.NewAccountUsecase(accountRepo, cfg.Economy.HiveID)
	ledgerUsecase := usecases.NewLedgerUsecase(uow, accountRepo, ledgerRepo, cfg.Economy.HiveID)
	jackpotUsecase := usecases.NewJackpotUsecase(uow, jackpotRepo, ledgerRepo, accountRepo, redis.GetClient(), cfg.Economy.HiveID)
	marketplaceUsecase := usecases.NewMarketplaceUsecase(uow, marketplaceRepo, accountRepo, ledgerRepo, cfg.Economy.HiveID)
	walletUsecase := usecases.NewWalletUsecase(walletRepo, accountRepo, cfg.Vault.MasterKey)

	// Fee slices flow into the active pool from both transfer paths.
	ledgerUsecase.SetJackpotContributor(jackpotUsecase)
	marketplaceUsecase.SetJackpotContributor(jackpotUsecase)

	// Initialize handlers
	economyHandler := handlers.NewEconomyHandler(ledgerUsecase, accountUsecase)
	jackpotHandler := handlers.NewJackpotHandler(jackpotUsecase)
	marketplaceHandler := handlers.NewMarketplaceHandler(marketplaceUsecase)
	walletHandler := handlers.NewWalletHandler(walletUsecase)

	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	drawJob := jobs.NewJackpotDrawJob(jackpotUsecase, jackpotRepo, cfg.Economy.HiveID)
	go drawJob.Start(ctx)

	reconciliationJob := jobs.NewReconciliationJob(accountRepo, ledgerRepo)
	go reconciliationJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		economyHandler:     economyHandler,
		jackpotHandler:     jackpotHandler,
		marketplaceHandler: marketplaceHandler,
		walletHandler:      walletHandler,
		authMiddleware:     authMiddleware,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		drawJob.Stop()
		reconciliationJob.Stop()
		cancel()
	}()

	log.Printf("🚀 Hive Economy Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
