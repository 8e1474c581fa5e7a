package database

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"storefront/internal/config"
	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:      "sqlite",
		Path:        filepath.Join(t.TempDir(), "storefront.db"),
		PoolSize:    4,
		AutoMigrate: true,
	}
}

func TestOpen_SQLite(t *testing.T) {
	db, err := Open(sqliteConfig(t))
	require.NoError(t, err)
	defer Close(db)

	assert.True(t, db.Migrator().HasTable(&models.Product{}))
	assert.NoError(t, Ping(context.Background(), db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 4, sqlDB.Stats().MaxOpenConnections)
}

func TestOpen_WithoutMigration(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.AutoMigrate = false

	db, err := Open(cfg)
	require.NoError(t, err)
	defer Close(db)

	assert.False(t, db.Migrator().HasTable("products"))
	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasTable("products"))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "memory", PoolSize: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("%q", "memory"))
}

func TestPing_AfterClose(t *testing.T) {
	db, err := Open(sqliteConfig(t))
	require.NoError(t, err)
	require.NoError(t, Close(db))

	assert.Error(t, Ping(context.Background(), db))
}
