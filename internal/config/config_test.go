package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiendapos/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, config.StoreDriverXLSX, cfg.Store.Driver)
	assert.Equal(t, "Inventario", cfg.Store.InventorySheet)
	assert.Equal(t, "first_match", cfg.Reception.DuplicateSKU)
	assert.False(t, cfg.Reception.DedupApply)
	assert.Equal(t, 30*time.Second, cfg.Reception.ApplyLockTTL)
	assert.Equal(t, 12*time.Hour, cfg.Reception.SessionTTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TIENDAPOS_STORE_DRIVER", "Postgres")
	t.Setenv("TIENDAPOS_RECEPTION_BLIND_COUNT", "true")
	t.Setenv("TIENDAPOS_RECEPTION_DUPLICATE_SKU", "reject")
	t.Setenv("TIENDAPOS_RECEPTION_SESSION_TTL", "45m")
	t.Setenv("TIENDAPOS_REDIS_ADDR", "localhost:6379")
	t.Setenv("TIENDAPOS_CORS_ALLOWED_ORIGINS", " https://pos.example.com , ,https://admin.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreDriverPostgres, cfg.Store.Driver)
	assert.True(t, cfg.Reception.BlindCount)
	assert.Equal(t, "reject", cfg.Reception.DuplicateSKU)
	assert.Equal(t, 45*time.Minute, cfg.Reception.SessionTTL)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, []string{"https://pos.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "9090")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestLoad_RejectsUnknownValues(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("TIENDAPOS_STORE_DRIVER", "sqlite")
		_, err := config.Load()
		assert.ErrorContains(t, err, "store driver")
	})
	t.Run("duplicate policy", func(t *testing.T) {
		t.Setenv("TIENDAPOS_RECEPTION_DUPLICATE_SKU", "merge")
		_, err := config.Load()
		assert.ErrorContains(t, err, "duplicate sku")
	})
}

func TestDBConfig_DSN(t *testing.T) {
	db := config.DBConfig{User: "u", Password: "p", Host: "h", Port: 5433, Name: "n", SSLMode: "require"}
	assert.Equal(t, "postgres://u:p@h:5433/n?sslmode=require", db.DSN())
}
