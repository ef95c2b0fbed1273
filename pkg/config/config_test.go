package config

import (
	"os"
	"testing"
	"time"

	"creator-market/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	// Set test environment variables
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "testuser")
	t.Setenv("DB_PASSWORD", "testpass")
	t.Setenv("DB_NAME", "testdb")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PLATFORM_FEE_RATE", "0.3")
	t.Setenv("DOWNLOAD_URL_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.NotNil(t, cfg)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "testuser", cfg.DBUser)
	assert.Equal(t, "testpass", cfg.DBPassword)
	assert.Equal(t, "testdb", cfg.DBName)
	assert.Equal(t, "localhost", cfg.RedisHost)
	assert.Equal(t, "6379", cfg.RedisPort)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 0.3, cfg.PlatformFeeRate)
	assert.Equal(t, 30*time.Minute, cfg.DownloadURLTTL)
}

func TestLoadConfig_Defaults(t *testing.T) {
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("PLATFORM_FEE_RATE")
	os.Unsetenv("DOWNLOAD_URL_TTL")
	os.Unsetenv("PAYOUT_ENCRYPTION_KEY")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, money.DefaultPlatformFeeRate, cfg.PlatformFeeRate)
	assert.Equal(t, time.Hour, cfg.DownloadURLTTL)
	assert.Empty(t, cfg.PayoutEncryptionKey)
}

func TestLoadConfig_InvalidFeeRate(t *testing.T) {
	t.Setenv("PLATFORM_FEE_RATE", "1.5")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadConfig_PayoutKey(t *testing.T) {
	t.Setenv("PAYOUT_ENCRYPTION_KEY", "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Len(t, cfg.PayoutEncryptionKey, 32)
}

func TestLoadConfig_PayoutKeyWrongLength(t *testing.T) {
	t.Setenv("PAYOUT_ENCRYPTION_KEY", "0001")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable", cfg.DSN())
}
