package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_SinJWTSecret_RetornaError(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "MOUSTO_LELOU", cfg.Store.Name)
	assert.Equal(t, "FG", cfg.Store.Currency)
	assert.Equal(t, 5, cfg.Store.DefaultMinThreshold)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 9090, cfg.Ops.Port)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 15, cfg.DB.MaxConns)
	assert.Equal(t, 5*time.Second, cfg.DB.LockTimeout)
	assert.False(t, cfg.Bootstrap.Enabled())
	require.NotNil(t, cfg.App.Location)
	assert.Equal(t, "Africa/Conakry", cfg.App.Location.String())
}

func TestLoad_TimezoneInvalida(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_EnvTienePrioridad(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("STORE_CURRENCY", "GNF")
	t.Setenv("LOGIN_RATE_BURST", "10")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("LOW_STOCK_CRON", "")
	t.Setenv("ADMIN_EMAIL", "admin@mousto.test")
	t.Setenv("ADMIN_PASSWORD", "secret123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:9000", cfg.HTTP.Addr())
	assert.Equal(t, "GNF", cfg.Store.Currency)
	assert.Equal(t, 10, cfg.RateLimit.LoginBurst)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Empty(t, cfg.Scheduler.LowStockCron)
	assert.True(t, cfg.Bootstrap.Enabled())
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "pos", Password: "p@ss:word", DBName: "shop", SSLMode: "disable"}
	assert.Equal(t, "postgres://pos:p%40ss%3Aword@db:5432/shop?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}

func TestLoad_MinConnsMayorQueMax_RetornaError(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_MAX_CONNS", "2")
	t.Setenv("DB_MIN_CONNS", "4")

	_, err := Load()
	assert.Error(t, err)
}
