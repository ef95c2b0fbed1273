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
	"creator-market/pkg/s3"
	"creator-market/pkg/validation"
	catalogHTTP "creator-market/services/catalog/internal/controller/http"
	"creator-market/services/catalog/internal/repo/persistent"
	"creator-market/services/catalog/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "creator-market/services/catalog/docs" // Swagger docs
)

const serviceName = "catalog"

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	assetStore  *s3.Client
	mediaStore  *s3.Client
	jwtService  *jwt.Service
	httpServer  *http.Server
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

	// Product files stay private, buyers get presigned links from the purchase service
	assetStore, err := s3.NewClient(cfg, cfg.S3BucketName)
	if err != nil {
		log.Error("Failed to create S3 client for product files: %v", err)
		return nil, err
	}

	mediaStore, err := s3.NewClient(cfg, cfg.S3PublicBucketName)
	if err != nil {
		log.Error("Failed to create S3 client for thumbnails: %v", err)
		return nil, err
	}

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		assetStore:  assetStore,
		mediaStore:  mediaStore,
		jwtService:  jwt.NewService(cfg.JWTSecret).WithTTL(cfg.JWTTTL),
	}, nil
}

func (a *App) Run() error {
	denylist := jwt.NewDenylist(a.redisClient)

	// Initialize repositories
	productRepo := persistent.NewProductRepository(a.db)
	ratingRepo := persistent.NewRatingRepository(a.db)

	// Initialize use cases
	catalogUseCase := usecase.NewCatalogUseCase(productRepo, ratingRepo, a.assetStore, a.mediaStore, a.log)

	// Initialize HTTP handlers
	productHandler := catalogHTTP.NewProductHandler(catalogUseCase, a.log)
	ratingHandler := catalogHTTP.NewRatingHandler(catalogUseCase, a.log)

	validation.Register()

	// Setup router
	r := gin.Default()
	r.MaxMultipartMemory = 32 << 20
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
		public := api.Group("")
		public.Use(middleware.RateLimitMiddleware(a.redisClient, 300, time.Minute))
		{
			public.GET("/products", productHandler.ListProducts)
			public.GET("/products/:id", productHandler.GetProduct)
			public.GET("/products/:id/ratings", ratingHandler.GetRatings)
			public.GET("/creators/:creator_id/products", productHandler.ListCreatorProducts)
		}

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(a.jwtService, denylist))
		protected.Use(middleware.RateLimitMiddleware(a.redisClient, 100, time.Minute))
		{
			protected.POST("/products", productHandler.CreateProduct)
			protected.PUT("/products/:id", productHandler.UpdateProduct)
			protected.DELETE("/products/:id", productHandler.DeleteProduct)
			protected.GET("/me/products", productHandler.ListMyProducts)
			protected.PUT("/products/:id/rating", ratingHandler.RateProduct)
			protected.GET("/products/:id/rating", ratingHandler.GetMyRating)
		}
	}

	// Create HTTP server
	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Catalog service starting on port %s", a.cfg.ServerPort)
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
	a.log.Info("Shutting down catalog service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
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

	a.log.Info("Catalog service exited")
	return nil
}
