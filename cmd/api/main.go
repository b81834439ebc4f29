package main

import (
	"context"
	"os"

	_ "warehouse-backend/api/swagger" // swagger docs

	"warehouse-backend/internal/config"
	"warehouse-backend/internal/database"
	"warehouse-backend/internal/handler"
	"warehouse-backend/internal/imagegen"
	"warehouse-backend/internal/logger"
	"warehouse-backend/internal/middleware"
	"warehouse-backend/internal/notify"
	"warehouse-backend/internal/repository"
	"warehouse-backend/internal/service"
	ws "warehouse-backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Warehouse Backend API
// @version         1.0
// @description     Inventory, invoicing and shipment confirmation backend.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Running without a .env file is fine in containerized deployments.
	_ = godotenv.Load("configs/.env")

	logger.Setup()
	log := logger.WithComponent("main")

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			log.Fatal().Msg("JWT_SECRET is required in release mode")
		}
		cfg.JWTSecret = "default_super_secret_key" // development fallback only
	}

	db, err := database.NewConnection(cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := database.Seed(db); err != nil {
		log.Fatal().Err(err).Msg("database seed failed")
	}
	log.Info().Msg("connected to postgres")

	wsHub := ws.NewHub()
	go wsHub.Run()

	// Repositories
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	draftRepo := repository.NewDraftRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	chatRepo := repository.NewChatRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Services
	notifier := notify.NewTelegramNotifier(settingsRepo, logger.WithComponent("telegram"))
	userService := service.NewUserService(userRepo, cfg.JWTSecret)
	inventoryService := service.NewInventoryService(productRepo, categoryRepo, movementRepo, auditRepo, txManager, wsHub)
	customerService := service.NewCustomerService(customerRepo, auditRepo, txManager, wsHub)
	draftService := service.NewDraftService(draftRepo, productRepo, customerRepo, invoiceRepo, movementRepo, auditRepo, txManager, wsHub, notifier)
	invoiceService := service.NewInvoiceService(invoiceRepo, productRepo, draftRepo, movementRepo, auditRepo, txManager, wsHub, notifier)
	chatService := service.NewChatService(chatRepo, wsHub, logger.WithComponent("chat"))
	settingsService := service.NewSettingsService(settingsRepo, auditRepo)
	analyticsService := service.NewAnalyticsService(analyticsRepo)
	backupService := service.NewBackupService(productRepo, categoryRepo, customerRepo, invoiceRepo, userRepo, auditRepo, txManager)

	var imageService imagegen.Service
	if cfg.OpenAIAPIKey != "" {
		if imageService, err = imagegen.NewService(cfg.OpenAIAPIKey); err != nil {
			log.Warn().Err(err).Msg("image generation disabled")
		}
	}

	// Background jobs: chat retention sweep and refresh token cleanup.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", func() {
		ctx := context.Background()
		if err := chatService.CleanupOldMessages(ctx); err != nil {
			log.Warn().Err(err).Msg("chat cleanup failed")
		}
		if err := userRepo.DeleteExpiredRefreshTokens(ctx); err != nil {
			log.Warn().Err(err).Msg("refresh token cleanup failed")
		}
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to register cron job")
	}
	scheduler.Start()

	auth := middleware.NewAuth(cfg.JWTSecret)

	// Handlers
	authHandler := handler.NewAuthHandler(userService, auth)
	inventoryHandler := handler.NewInventoryHandler(inventoryService, auth)
	customerHandler := handler.NewCustomerHandler(customerService, auth)
	invoiceHandler := handler.NewInvoiceHandler(draftService, invoiceService, auth)
	chatHandler := handler.NewChatHandler(chatService, auth)
	adminHandler := handler.NewAdminHandler(settingsService, backupService, imageService, auth)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, auth)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	router.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(wsHub, c, []byte(cfg.JWTSecret))
	})

	root := router.Group("")
	authHandler.RegisterRoutes(root)
	inventoryHandler.RegisterRoutes(root)
	customerHandler.RegisterRoutes(root)
	invoiceHandler.RegisterRoutes(root)
	chatHandler.RegisterRoutes(root)
	adminHandler.RegisterRoutes(root)
	analyticsHandler.RegisterRoutes(root)

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
