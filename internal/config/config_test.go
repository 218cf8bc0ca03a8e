package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, 10, cfg.SecretHashCost)
	assert.Equal(t, time.Duration(0), cfg.AuthCacheTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5, cfg.Database.MaxConns)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 24*time.Hour, cfg.Log.RotationTime)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("AUTH_CACHE_TTL", "10m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("LOG_DEV", "1")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:test.db", cfg.Database.DSN)
	assert.Equal(t, 10*time.Minute, cfg.AuthCacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.Log.Dev)
}

func TestLoad_DotEnvDoesNotOverrideEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SECRET_HASH_COST=4\nSNOWFLAKE_NODE=7\n"), 0o600))
	t.Setenv("SNOWFLAKE_NODE", "3")
	t.Cleanup(func() { os.Unsetenv("SECRET_HASH_COST") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.SecretHashCost)
	assert.Equal(t, int64(3), cfg.SnowflakeNode)
}

func TestLoad_Invalid(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	t.Run("driver", func(t *testing.T) {
		t.Setenv("DATABASE_DRIVER", "mongo")
		_, err := Load(missing)
		assert.ErrorContains(t, err, "DATABASE_DRIVER")
	})
	t.Run("cost", func(t *testing.T) {
		t.Setenv("SECRET_HASH_COST", "2")
		_, err := Load(missing)
		assert.ErrorContains(t, err, "SECRET_HASH_COST")
	})
	t.Run("port", func(t *testing.T) {
		t.Setenv("PORT", "not-a-number")
		_, err := Load(missing)
		assert.ErrorContains(t, err, "parse env")
	})
}
