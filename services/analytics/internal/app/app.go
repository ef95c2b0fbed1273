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
	salesHTTP "creator-market/services/analytics/internal/controller/http"
	summaryCache "creator-market/services/analytics/internal/repo/cache"
	"creator-market/services/analytics/internal/repo/persistent"
	"creator-market/services/analytics/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "creator-market/services/analytics/docs" // Swagger docs
)

const serviceName = "analytics"

type App struct {
	cfg          *config.Config
	log          *logger.Logger
	db           *gorm.DB
	redisClient  *redis.Client
	queueClient  *queue.Client
	jwtService   *jwt.Service
	httpServer   *http.Server
	stopConsumer context.CancelFunc
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New().With("service", serviceName)

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	// Redis holds the summaries, the denylist and rate limit counters
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		return nil, err
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v", err)
		return nil, err
	}

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		queueClient: queueClient,
		jwtService:  jwt.NewService(cfg.JWTSecret).WithTTL(cfg.JWTTTL),
	}, nil
}

func (a *App) Run() error {
	denylist := jwt.NewDenylist(a.redisClient)

	// Initialize repositories
	salesRepo := persistent.NewSalesRepository(a.db)
	salesCache := summaryCache.NewSalesSummaryCache(a.redisClient, a.cfg.SalesSummaryCacheTTL)

	// Initialize use cases
	salesUseCase := usecase.NewSalesUseCase(salesRepo, salesCache, a.cfg.PlatformFeeRate, a.log)

	consumerCtx, cancel := context.WithCancel(context.Background())
	a.stopConsumer = cancel
	if err := a.queueClient.Consume(
		consumerCtx,
		queue.SalesSummaryInvalidationQueue,
		[]string{queue.RoutingKeyPurchaseSettled},
		salesUseCase.HandlePurchaseSettled,
	); err != nil {
		a.log.Error("Failed to start sales summary consumer: %v", err)
		return err
	}

	// Initialize HTTP handlers
	salesHandler := salesHTTP.NewSalesHandler(salesUseCase, a.log)

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
		protected.Use(middleware.RateLimitMiddleware(a.redisClient, 60, time.Minute))
		{
			protected.GET("/sales/summary", salesHandler.GetSalesSummary)
		}
	}

	// Create HTTP server
	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Analytics service starting on port %s", a.cfg.ServerPort)
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
	a.log.Info("Shutting down analytics service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	if a.stopConsumer != nil {
		a.stopConsumer()
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

	a.log.Info("Analytics service exited")
	return nil
}
