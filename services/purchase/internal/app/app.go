package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"creator-market/pkg/cache"
	"creator-market/pkg/config"
	"creator-market/pkg/database"
	"creator-market/pkg/jwt"
	"creator-market/pkg/logger"
	"creator-market/pkg/metrics"
	"creator-market/pkg/middleware"
	"creator-market/pkg/queue"
	"creator-market/pkg/s3"
	"creator-market/pkg/validation"
	purchaseHTTP "creator-market/services/purchase/internal/controller/http"
	"creator-market/services/purchase/internal/repo/persistent"
	"creator-market/services/purchase/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "creator-market/services/purchase/docs" // Swagger docs
)

const serviceName = "purchase"

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	queueClient *queue.Client
	assetStore  *s3.Client
	jwtService  *jwt.Service
	httpServer  *http.Server
	stopRelay   context.CancelFunc
	relayDone   chan struct{}
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New().With("service", serviceName)

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	// Redis backs sign-out checks and rate limiting
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		return nil, err
	}

	// Only the outbox relay talks to the broker, settlement itself never waits on it
	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v", err)
		return nil, err
	}

	assetStore, err := s3.NewClient(cfg, cfg.S3BucketName)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		return nil, err
	}

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		queueClient: queueClient,
		assetStore:  assetStore,
		jwtService:  jwt.NewService(cfg.JWTSecret).WithTTL(cfg.JWTTTL),
	}, nil
}

func (a *App) Run() error {
	denylist := jwt.NewDenylist(a.redisClient)

	// Initialize repositories
	purchaseRepo := persistent.NewPurchaseRepository(a.db)
	outboxRepo := persistent.NewOutboxRepository(a.db)

	// Initialize use cases
	settlementUseCase := usecase.NewSettlementUseCase(purchaseRepo, a.assetStore, a.cfg.PlatformFeeRate, a.cfg.DownloadURLTTL, a.log)

	relay := usecase.NewOutboxRelay(outboxRepo, a.queueClient, a.cfg.OutboxPollInterval, a.cfg.OutboxBatchSize, a.log)
	relayCtx, cancel := context.WithCancel(context.Background())
	a.stopRelay = cancel
	a.relayDone = make(chan struct{})
	go func() {
		defer close(a.relayDone)
		relay.Run(relayCtx)
	}()

	// Initialize HTTP handlers
	purchaseHandler := purchaseHTTP.NewPurchaseHandler(settlementUseCase, a.log)

	validation.Register()

	// Setup router
	r := gin.Default()
	r.Use(middleware.MetricsMiddleware(serviceName))

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(a.jwtService, denylist))
		protected.Use(middleware.RateLimitMiddleware(a.redisClient, 100, time.Minute))
		{
			protected.POST("/purchases", purchaseHandler.Purchase)
			protected.GET("/purchases", purchaseHandler.ListPurchases)
			protected.GET("/products/:id/access", purchaseHandler.GetAccess)
			protected.GET("/products/:id/download", purchaseHandler.Download)
		}
	}

	// Create HTTP server
	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Purchase service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down purchase service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	// Let the relay finish its current round before the database goes away
	if a.stopRelay != nil {
		a.stopRelay()
		select {
		case <-a.relayDone:
		case <-ctx.Done():
			a.log.Warn("Outbox relay did not stop in time")
		}
	}

	if err := a.queueClient.Close(); err != nil {
		a.log.Error("Error closing RabbitMQ: %v", err)
	}

	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	if err := a.redisClient.Close(); err != nil {
		a.log.Error("Error closing Redis: %v", err)
	}

	a.log.Info("Purchase service exited")
	return nil
}
