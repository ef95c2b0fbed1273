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
	"creator-market/pkg/crypto"
	"creator-market/pkg/database"
	"creator-market/pkg/jwt"
	"creator-market/pkg/logger"
	"creator-market/pkg/metrics"
	"creator-market/pkg/middleware"
	"creator-market/pkg/s3"
	"creator-market/pkg/validation"
	profileHTTP "creator-market/services/profile/internal/controller/http"
	"creator-market/services/profile/internal/repo/persistent"
	"creator-market/services/profile/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "creator-market/services/profile/docs" // Swagger docs
)

const serviceName = "profile"

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	mediaStore  *s3.Client
	jwtService  *jwt.Service
	sealer      *crypto.Sealer
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New().With("service", serviceName)

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	// Redis backs sign-out, rate limiting and live updates
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		return nil, err
	}

	mediaStore, err := s3.NewClient(cfg, cfg.S3PublicBucketName)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		return nil, err
	}

	var sealer *crypto.Sealer
	if len(cfg.PayoutEncryptionKey) > 0 {
		sealer, err = crypto.NewSealer(cfg.PayoutEncryptionKey)
		if err != nil {
			return nil, err
		}
	} else {
		log.Warn("PAYOUT_ENCRYPTION_KEY not set, saving account numbers is disabled")
	}

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		mediaStore:  mediaStore,
		jwtService:  jwt.NewService(cfg.JWTSecret).WithTTL(cfg.JWTTTL),
		sealer:      sealer,
	}, nil
}

func (a *App) Run() error {
	denylist := jwt.NewDenylist(a.redisClient)

	// Initialize repositories
	profileRepo := persistent.NewProfileRepository(a.db)
	payoutRepo := persistent.NewPayoutRepository(a.db)

	// Initialize use cases
	broker := usecase.NewRedisChangeBroker(a.redisClient, a.log)
	profileUseCase := usecase.NewProfileUseCase(profileRepo, a.mediaStore, broker, a.log)
	sessionUseCase := usecase.NewSessionUseCase(denylist, a.log)

	var sealer usecase.Sealer
	if a.sealer != nil {
		sealer = a.sealer
	}
	payoutUseCase := usecase.NewPayoutUseCase(payoutRepo, sealer, a.log)

	// Initialize HTTP handlers
	profileHandler := profileHTTP.NewProfileHandler(profileUseCase, sessionUseCase, a.log)
	payoutHandler := profileHTTP.NewPayoutHandler(payoutUseCase, a.log)

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
		public := api.Group("")
		public.Use(middleware.RateLimitMiddleware(a.redisClient, 300, time.Minute))
		{
			public.GET("/profiles/:username", profileHandler.GetPublicProfile)
			public.GET("/profiles/:username/live", profileHandler.LiveProfile)
		}

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(a.jwtService, denylist))
		protected.Use(middleware.RateLimitMiddleware(a.redisClient, 100, time.Minute))
		{
			protected.GET("/me", profileHandler.GetMe)
			protected.POST("/auth/signout", profileHandler.SignOut)
			protected.GET("/profile", profileHandler.GetProfile)
			protected.PATCH("/profile", profileHandler.UpdateProfile)
			protected.POST("/profile/avatar", profileHandler.UploadAvatar)
			protected.POST("/profile/cover", profileHandler.UploadCover)
			protected.GET("/payouts", payoutHandler.GetPayoutAccount)
			protected.POST("/payouts", payoutHandler.SavePayoutAccount)
		}
	}

	// Create HTTP server
	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Profile service starting on port %s", a.cfg.ServerPort)
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
	a.log.Info("Shutting down profile service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server first so in-flight requests can still use the stores
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

	a.log.Info("Profile service exited")
	return nil
}
