package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"creator-market/pkg/money"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	ServerPort  string
	ServiceName string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// RabbitMQ
	RabbitMQHost     string
	RabbitMQPort     string
	RabbitMQUser     string
	RabbitMQPassword string

	// JWT
	JWTSecret string
	JWTTTL    time.Duration

	// AWS S3 / MinIO
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSEndpoint        string
	S3UseSSL           string
	S3BucketName       string
	S3PublicBucketName string

	// Marketplace
	PlatformFeeRate      float64
	DownloadURLTTL       time.Duration
	PayoutEncryptionKey  []byte
	OutboxPollInterval   time.Duration
	OutboxBatchSize      int
	SalesSummaryCacheTTL time.Duration

	// Services URLs
	ProfileServiceURL   string
	CatalogServiceURL   string
	PurchaseServiceURL  string
	AnalyticsServiceURL string
}

func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		ServiceName: getEnv("SERVICE_NAME", "creator-market"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "creatormarket"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RabbitMQHost:     getEnv("RABBITMQ_HOST", "localhost"),
		RabbitMQPort:     getEnv("RABBITMQ_PORT", "5672"),
		RabbitMQUser:     getEnv("RABBITMQ_USER", "guest"),
		RabbitMQPassword: getEnv("RABBITMQ_PASSWORD", "guest"),

		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpoint:        getEnv("AWS_ENDPOINT", ""),
		S3UseSSL:           getEnv("S3_USE_SSL", "true"),
		S3BucketName:       getEnv("S3_BUCKET_NAME", "creator-market-products"),
		S3PublicBucketName: getEnv("S3_PUBLIC_BUCKET_NAME", "creator-market-avatars"),

		PlatformFeeRate:      getEnvFloat("PLATFORM_FEE_RATE", money.DefaultPlatformFeeRate),
		DownloadURLTTL:       getEnvDuration("DOWNLOAD_URL_TTL", time.Hour),
		OutboxPollInterval:   getEnvDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		OutboxBatchSize:      getEnvInt("OUTBOX_BATCH_SIZE", 50),
		SalesSummaryCacheTTL: getEnvDuration("SALES_SUMMARY_CACHE_TTL", 10*time.Minute),

		ProfileServiceURL:   getEnv("PROFILE_SERVICE_URL", "http://localhost:8001"),
		CatalogServiceURL:   getEnv("CATALOG_SERVICE_URL", "http://localhost:8002"),
		PurchaseServiceURL:  getEnv("PURCHASE_SERVICE_URL", "http://localhost:8003"),
		AnalyticsServiceURL: getEnv("ANALYTICS_SERVICE_URL", "http://localhost:8004"),
	}

	if key := getEnv("PAYOUT_ENCRYPTION_KEY", ""); key != "" {
		decoded, err := hex.DecodeString(key)
		if err != nil {
			return nil, fmt.Errorf("PAYOUT_ENCRYPTION_KEY must be hex encoded: %w", err)
		}
		config.PayoutEncryptionKey = decoded
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.PlatformFeeRate < 0 || c.PlatformFeeRate >= 1 {
		return fmt.Errorf("PLATFORM_FEE_RATE must be in [0, 1), got %v", c.PlatformFeeRate)
	}
	if c.DownloadURLTTL <= 0 {
		return fmt.Errorf("DOWNLOAD_URL_TTL must be positive, got %s", c.DownloadURLTTL)
	}
	if len(c.PayoutEncryptionKey) != 0 && len(c.PayoutEncryptionKey) != 32 {
		return fmt.Errorf("PAYOUT_ENCRYPTION_KEY must decode to 32 bytes, got %d", len(c.PayoutEncryptionKey))
	}
	return nil
}

// DSN builds the postgres connection string shared by gorm and the migrator.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost,
		c.DBUser,
		c.DBPassword,
		c.DBName,
		c.DBPort,
		c.DBSSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
