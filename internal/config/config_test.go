package config_test

import (
	"testing"
	"time"

	"storefront/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	v.SetDefault("SHUTDOWN_TIMEOUT", "30s")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_POOL_SIZE", 10)
	v.SetDefault("JWT_TTL", "1h")
	v.SetDefault("OAUTH_STATE_TTL", "10m")
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_jwt_secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.AppPort)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendURL)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Database.PoolSize)
	assert.Equal(t, "shopdb", cfg.Database.Name)
	assert.Equal(t, time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 10*time.Minute, cfg.OAuth.StateTTL)
	assert.Equal(t, "http://localhost:5000/api/auth/naver/callback", cfg.OAuth.Naver.CallbackURL)
	assert.False(t, cfg.OAuth.Naver.Enabled())
	assert.Equal(t, "product_events", cfg.RabbitMQ.Queue)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_PORT", ":8080")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_POOL_SIZE", "3")
	t.Setenv("KAKAO_CLIENT_ID", "kakao-app")
	t.Setenv("FRONTEND_URL", "https://shop.example.com/")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Database.PoolSize)
	assert.True(t, cfg.OAuth.Kakao.Enabled())
	assert.Equal(t, "https://shop.example.com", cfg.FrontendURL)
}

func TestFromViper_Validation(t *testing.T) {
	_, err := config.FromViper(newViper(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")

	_, err = config.FromViper(newViper(map[string]any{"JWT_SECRET": "x", "DB_DRIVER": "oracle"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported DB_DRIVER "oracle"`)

	_, err = config.FromViper(newViper(map[string]any{"JWT_SECRET": "x", "DB_POOL_SIZE": 0}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_POOL_SIZE")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := config.DatabaseConfig{Host: "db", Port: 5433, User: "shop", Password: "pw", Name: "shopdb", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=shop password=pw dbname=shopdb sslmode=disable", c.DSN())
}
