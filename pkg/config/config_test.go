package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VriVa/odoo-spit-hack/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	// Viper trata una variable vacía como no definida.
	for _, k := range []string{"STORAGE_DRIVER", "HTTP_PORT", "LOW_STOCK_THRESHOLD", "DB_AUTO_MIGRATE", "REDIS_URL"} {
		t.Setenv(k, "")
	}
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 8000, cfg.HTTP.Port)
	assert.Equal(t, "5", cfg.Inventory.LowStockThreshold)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_URL", "localhost:6379")
	t.Setenv("CACHE_TTL_SECONDS", "45")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("LOW_STOCK_THRESHOLD", "7.5")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, "localhost:6379", cfg.Redis.URL)
	assert.Equal(t, 45*time.Second, cfg.Redis.TTL)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "7.5", cfg.Inventory.LowStockThreshold)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "stock", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/stock?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
